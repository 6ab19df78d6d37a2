// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package audit records who changed what in the ledger.

Every state-changing catalog operation emits an [Event] with before/after
snapshots. Recording is best-effort: a failing [Store] is logged and the
primary operation carries on.
*/
package audit

import (
	stdcontext "context"
	"log/slog"
	"time"

	"github.com/taibuivan/tapledger/internal/platform/ctxutil"
	"github.com/taibuivan/tapledger/pkg/uuid"
)

// Action names the kind of change an [Event] describes.
type Action string

const (
	ActionCreate             Action = "CREATE"
	ActionUpdate             Action = "UPDATE"
	ActionDelete             Action = "DELETE"
	ActionHardDelete         Action = "HARD_DELETE"
	ActionCalculateRoyalties Action = "CALCULATE_ROYALTIES"
	ActionProcessPayment     Action = "PROCESS_PAYMENT"
)

// Event is one append-only audit entry.
type Event struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	Action     Action    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store persists audit events.
type Store interface {
	Append(context stdcontext.Context, event Event) error
}

// Recorder stamps events with identity and request metadata before handing
// them to a [Store].
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder constructs a [Recorder] writing to store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

/*
Record fills in the event id, timestamp, actor and client IP (when the caller
left them empty) and appends the event.

Failures are logged at WARN and never returned. The append runs on a context
detached from cancellation so a client disconnect after the write committed
still leaves a trail.
*/
func (recorder *Recorder) Record(context stdcontext.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = recorder.now()
	}
	if event.ActorID == "" {
		event.ActorID = ctxutil.ActorID(context)
	}
	if event.IPAddress == "" {
		event.IPAddress = ctxutil.GetClientIP(context)
	}

	if err := recorder.store.Append(stdcontext.WithoutCancel(context), event); err != nil {
		recorder.logger.WarnContext(context, "audit_record_failed",
			slog.String("action", string(event.Action)),
			slog.String("entity_type", event.EntityType),
			slog.String("entity_id", event.EntityID),
			slog.Any("error", err),
		)
	}
}
