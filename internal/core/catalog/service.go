// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/tapledger/internal/platform/apperr"
	"github.com/taibuivan/tapledger/internal/platform/audit"
	"github.com/taibuivan/tapledger/internal/platform/constants"
)

// # Collaborators

// Locker serializes work on one key across all API replicas.
type Locker interface {
	// Lock blocks until key is held and returns its release function.
	Lock(context context.Context, key string) (func(), error)
}

// Cache holds derived read models for a short TTL.
type Cache interface {
	Get(context context.Context, key string, target any) (bool, error)
	Set(context context.Context, key string, value any) error
	Delete(context context.Context, keys ...string) error
}

// Auditor receives change events. It must not fail the caller.
type Auditor interface {
	Record(context context.Context, event audit.Event)
}

// # Service Layer

// Service orchestrates the royalty ledger: catalog lifecycle, allocation,
// distribution, income and settlement.
type Service struct {
	repo      Repository
	locker    Locker
	cache     Cache
	auditor   Auditor
	logger    *slog.Logger
	now       func() time.Time
	tapSuffix string
}

// Option customises a [Service].
type Option func(*Service)

// WithCache enables caching of the statistics reads.
func WithCache(cache Cache) Option {
	return func(service *Service) { service.cache = cache }
}

// WithAuditor sets the sink for change events.
func WithAuditor(auditor Auditor) Option {
	return func(service *Service) { service.auditor = auditor }
}

// WithClock replaces the wall clock. Issued TAP years, payment dates and
// soft-delete dates all come from it.
func WithClock(now func() time.Time) Option {
	return func(service *Service) { service.now = now }
}

// WithTapSuffix sets the territory suffix of issued TAP numbers.
func WithTapSuffix(suffix string) Option {
	return func(service *Service) {
		if suffix != "" {
			service.tapSuffix = suffix
		}
	}
}

// NewService constructs a new [Service]. locker guards contributor allocation
// and is required.
func NewService(repo Repository, locker Locker, logger *slog.Logger, options ...Option) *Service {
	service := &Service{
		repo:      repo,
		locker:    locker,
		auditor:   nopAuditor{},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		tapSuffix: DefaultTapSuffix,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Shared Helpers

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, audit.Event) {}

// record emits an audit event for a state change.
func (service *Service) record(context context.Context, action audit.Action, entityType, entityID string, before, after any) {
	service.auditor.Record(context, audit.Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
	})
}

// notFound turns a repository miss into a client-facing NotFound and passes
// every other error through.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFoundf(format, args...)
	}
	return err
}

// catalogForChild loads the owning catalog of a child record and checks the
// denormalized TAP number against it.
func (service *Service) catalogForChild(context context.Context, catalogID, tapNumber string) (*Catalog, error) {
	catalog, err := service.repo.FindByID(context, catalogID)
	if err != nil {
		return nil, notFound(err, "Catalog with ID %s not found", catalogID)
	}

	if catalog.TapNumber != tapNumber {
		return nil, apperr.Conflict("TAP number mismatch")
	}
	return catalog, nil
}

// # Cache Keys

const (
	statsSongTypes    = "song-types"
	statsStatusCounts = "status-counts"
	statsAllTaggings  = "all-taggings"
)

func statsKey(name string) string {
	return constants.RedisPrefixStats + name
}

func allocationLockKey(tapNumber string, role Role) string {
	return constants.RedisPrefixAllocationLock + tapNumber + ":" + string(role)
}

// invalidateStats drops cached statistics after a catalog write. A failing
// cache only costs staleness up to the TTL.
func (service *Service) invalidateStats(context context.Context) {
	if service.cache == nil {
		return
	}
	err := service.cache.Delete(context, statsKey(statsSongTypes), statsKey(statsStatusCounts), statsKey(statsAllTaggings))
	if err != nil {
		service.logger.WarnContext(context, "stats_cache_invalidate_failed", slog.Any("error", err))
	}
}

// cached serves key from the cache or computes, stores and returns it.
func cached[T any](context context.Context, service *Service, key string, compute func() (T, error)) (T, error) {
	if service.cache != nil {
		var value T
		hit, err := service.cache.Get(context, statsKey(key), &value)
		if err != nil {
			service.logger.WarnContext(context, "stats_cache_read_failed", slog.String("key", key), slog.Any("error", err))
		} else if hit {
			return value, nil
		}
	}

	value, err := compute()
	if err != nil {
		return value, err
	}

	if service.cache != nil {
		if err := service.cache.Set(context, statsKey(key), value); err != nil {
			service.logger.WarnContext(context, "stats_cache_write_failed", slog.String("key", key), slog.Any("error", err))
		}
	}
	return value, nil
}

// lockAllocation acquires the budget lock of one (TAP number, role) pair.
func (service *Service) lockAllocation(context context.Context, tapNumber string, role Role) (func(), error) {
	unlock, err := service.locker.Lock(context, allocationLockKey(tapNumber, role))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("catalog: failed to lock allocation %s/%s: %w", tapNumber, role, err))
	}
	return unlock, nil
}
