// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tapledger/internal/platform/ctxutil"
	"github.com/taibuivan/tapledger/internal/platform/sec"
)

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))
	assert.Empty(t, ctxutil.GetClientIP(ctx))
	assert.Nil(t, ctxutil.GetAuthUser(ctx))
	assert.Empty(t, ctxutil.ActorID(ctx))
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
}

func TestRequestScopedValues(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := ctxutil.WithRequestID(context.Background(), "req-7")
	ctx = ctxutil.WithClientIP(ctx, "10.0.0.7")
	ctx = ctxutil.WithLogger(ctx, logger)

	assert.Equal(t, "req-7", ctxutil.GetRequestID(ctx))
	assert.Equal(t, "10.0.0.7", ctxutil.GetClientIP(ctx))
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

func TestNilLoggerFallsBack(t *testing.T) {
	ctx := ctxutil.WithLogger(context.Background(), nil)
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))
}

// TestActorID checks the identity audit events are stamped with.
func TestActorID(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "admin-9", Role: string(sec.RoleAdmin)}
	ctx := ctxutil.WithAuthUser(context.Background(), claims)

	assert.Same(t, claims, ctxutil.GetAuthUser(ctx))
	assert.Equal(t, "admin-9", ctxutil.ActorID(ctx))
}
