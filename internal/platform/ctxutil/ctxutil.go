// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil reads and writes the per-request values the middleware chain
attaches to a [context.Context].

Readers never fail: a missing value yields its zero form ("" or nil), and a
missing logger yields [slog.Default], so services and the audit recorder can
run unchanged outside an HTTP request (tests, startup jobs).
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tapledger/internal/platform/ctxkey"
	"github.com/taibuivan/tapledger/internal/platform/sec"
)

// # Request Tracing

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the correlation ID, or "".
func GetRequestID(ctx context.Context) string {
	return value[string](ctx, ctxkey.KeyRequestID)
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP returns the caller's address, or "" outside an HTTP request.
func GetClientIP(ctx context.Context) string {
	return value[string](ctx, ctxkey.KeyClientIP)
}

// # Structured Logging

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
func GetLogger(ctx context.Context) *slog.Logger {
	if logger := value[*slog.Logger](ctx, ctxkey.KeyLogger); logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity & Access

func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the verified claims, or nil for anonymous calls.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	return value[*sec.AuthClaims](ctx, ctxkey.KeyUser)
}

// ActorID returns the authenticated user's ID, or "" for anonymous calls.
// It is what audit events and a catalog's createdBy record.
func ActorID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

func value[T any](ctx context.Context, key any) T {
	typed, _ := ctx.Value(key).(T)
	return typed
}
