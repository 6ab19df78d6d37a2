// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the typed keys under which the ledger stores
// per-request values. The key type is unexported so no other package can
// forge or collide with them.
package ctxkey

type key uint8

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyUser carries the verified bearer claims ([sec.AuthClaims]) of the caller.
	KeyUser

	// KeyLogger carries the request-scoped [*log/slog.Logger].
	KeyLogger

	// KeyClientIP carries the caller's resolved address, stamped on audit events.
	KeyClientIP
)
