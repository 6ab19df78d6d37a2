// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tapledger/internal/platform/database/schema"
)

// PostgresStore appends events to system.auditlog.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL backed audit store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Append inserts one event. Snapshots are stored as JSONB; a nil snapshot is NULL.
func (repository *PostgresStore) Append(context context.Context, event Event) error {
	before, err := marshalSnapshot(event.Before)
	if err != nil {
		return err
	}
	after, err := marshalSnapshot(event.After)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		schema.SystemAuditLog.Table,
		schema.SystemAuditLog.ID,
		schema.SystemAuditLog.ActorID,
		schema.SystemAuditLog.Action,
		schema.SystemAuditLog.EntityType,
		schema.SystemAuditLog.EntityID,
		schema.SystemAuditLog.Before,
		schema.SystemAuditLog.After,
		schema.SystemAuditLog.IPAddress,
		schema.SystemAuditLog.CreatedAt,
	)

	_, err = repository.pool.Exec(context, query,
		event.ID,
		event.ActorID,
		string(event.Action),
		event.EntityType,
		event.EntityID,
		before,
		after,
		event.IPAddress,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to append audit event: %w", err)
	}
	return nil
}

func marshalSnapshot(snapshot any) ([]byte, error) {
	if snapshot == nil {
		return nil, nil
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("audit: failed to encode snapshot: %w", err)
	}
	return raw, nil
}
