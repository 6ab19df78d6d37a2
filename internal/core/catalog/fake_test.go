// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/tapledger/internal/core/catalog"
	"github.com/taibuivan/tapledger/internal/platform/audit"
)

// # In-Memory Repository

// memoryRepository is a mutex-guarded stand-in for the PostgreSQL store. It
// enforces the same uniqueness, cascade and compare-and-set rules.
type memoryRepository struct {
	mu            sync.Mutex
	catalogs      map[string]*catalog.Catalog
	contributors  map[string]*catalog.Contributor
	distributions map[string]*catalog.Distribution
	incomes       map[string]*catalog.Income

	// beforeCreate runs ahead of the uniqueness check of every catalog insert.
	beforeCreate func(repository *memoryRepository, entry *catalog.Catalog)

	// beforeContributorWrite runs outside the mutex ahead of every contributor
	// insert or update.
	beforeContributorWrite func()
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		catalogs:      make(map[string]*catalog.Catalog),
		contributors:  make(map[string]*catalog.Contributor),
		distributions: make(map[string]*catalog.Distribution),
		incomes:       make(map[string]*catalog.Income),
	}
}

func clone[T any](value *T) *T {
	copied := *value
	return &copied
}

func (repository *memoryRepository) List(_ context.Context, filter catalog.Filter, limit, offset int) ([]*catalog.Catalog, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matches []*catalog.Catalog
	for _, entry := range repository.catalogs {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(entry.Title), needle) && !strings.Contains(strings.ToLower(entry.TapNumber), needle) {
				continue
			}
		}
		if filter.Type != "" && entry.Type != filter.Type {
			continue
		}
		if filter.Status != "" && entry.Status != filter.Status {
			continue
		}
		if filter.Tagging != "" && !strings.Contains(strings.ToLower(entry.Tagging), strings.ToLower(filter.Tagging)) {
			continue
		}
		if !filter.IncludeCovers && entry.IsCover() {
			continue
		}
		matches = append(matches, clone(entry))
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].DateIn.After(matches[j].DateIn) })

	total := len(matches)
	if offset >= total {
		return []*catalog.Catalog{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*catalog.Catalog, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.catalogs[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return clone(entry), nil
}

func (repository *memoryRepository) FindByTapNumber(_ context.Context, tapNumber string) (*catalog.Catalog, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, entry := range repository.catalogs {
		if entry.TapNumber == tapNumber {
			return clone(entry), nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (repository *memoryRepository) MaxTapSequence(_ context.Context, year int) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	maxSequence := 0
	for _, entry := range repository.catalogs {
		tap, err := catalog.ParseTapNumber(entry.TapNumber)
		if err == nil && tap.Year == year && tap.Sequence > maxSequence {
			maxSequence = tap.Sequence
		}
	}
	return maxSequence, nil
}

func (repository *memoryRepository) Create(_ context.Context, entry *catalog.Catalog) error {
	if repository.beforeCreate != nil {
		repository.beforeCreate(repository, entry)
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.catalogs {
		if existing.TapNumber == entry.TapNumber {
			return catalog.ErrDuplicateTapNumber
		}
	}
	repository.catalogs[entry.ID] = clone(entry)
	return nil
}

// seed inserts a catalog directly, bypassing the service.
func (repository *memoryRepository) seed(entry *catalog.Catalog) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.catalogs[entry.ID] = clone(entry)
}

func (repository *memoryRepository) Update(_ context.Context, entry *catalog.Catalog) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	current, ok := repository.catalogs[entry.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	updated := clone(entry)
	updated.TapNumber = current.TapNumber
	updated.TotalRevenue = current.TotalRevenue
	repository.catalogs[entry.ID] = updated
	return nil
}

func (repository *memoryRepository) SetTagging(_ context.Context, id, tagging string, updatedAt time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.catalogs[id]
	if !ok {
		return catalog.ErrNotFound
	}
	entry.Tagging = tagging
	entry.UpdatedAt = updatedAt
	return nil
}

func (repository *memoryRepository) Deactivate(_ context.Context, id string, dateOut time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.catalogs[id]
	if !ok {
		return catalog.ErrNotFound
	}
	entry.Status = catalog.StatusInactive
	entry.DateOut = &dateOut
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.catalogs[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(repository.catalogs, id)

	for key, contributor := range repository.contributors {
		if contributor.CatalogID == id {
			delete(repository.contributors, key)
		}
	}
	for key, distribution := range repository.distributions {
		if distribution.CatalogID == id {
			delete(repository.distributions, key)
		}
	}
	for key, income := range repository.incomes {
		if income.CatalogID == id {
			delete(repository.incomes, key)
		}
	}
	return nil
}

func (repository *memoryRepository) ListCovers(_ context.Context, parentTapNumber string) ([]*catalog.Catalog, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	covers := []*catalog.Catalog{}
	for _, entry := range repository.catalogs {
		if entry.IsCover() && entry.ParentTapNumber != nil && *entry.ParentTapNumber == parentTapNumber {
			covers = append(covers, clone(entry))
		}
	}
	sort.Slice(covers, func(i, j int) bool { return covers[i].DateIn.After(covers[j].DateIn) })
	return covers, nil
}

func (repository *memoryRepository) DistinctTaggings(_ context.Context) ([]string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	seen := make(map[string]bool)
	var taggings []string
	for _, entry := range repository.catalogs {
		if entry.Tagging != "" && !seen[entry.Tagging] {
			seen[entry.Tagging] = true
			taggings = append(taggings, entry.Tagging)
		}
	}
	return taggings, nil
}

func (repository *memoryRepository) PopularTaggings(_ context.Context, limit int) ([]catalog.TaggingCount, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	counts := make(map[string]int)
	for _, entry := range repository.catalogs {
		if entry.Tagging != "" {
			counts[entry.Tagging]++
		}
	}

	popular := []catalog.TaggingCount{}
	for tagging, count := range counts {
		popular = append(popular, catalog.TaggingCount{Tagging: tagging, Count: count})
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Count != popular[j].Count {
			return popular[i].Count > popular[j].Count
		}
		return popular[i].Tagging < popular[j].Tagging
	})

	if len(popular) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

func (repository *memoryRepository) CountBySongType(_ context.Context) (map[string]int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	counts := make(map[string]int)
	for _, entry := range repository.catalogs {
		if entry.SongType != nil {
			counts[string(*entry.SongType)]++
		}
	}
	return counts, nil
}

func (repository *memoryRepository) CountByStatus(_ context.Context) (map[string]int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	counts := make(map[string]int)
	for _, entry := range repository.catalogs {
		counts[string(entry.Status)]++
	}
	return counts, nil
}

func (repository *memoryRepository) FindContributor(_ context.Context, id string) (*catalog.Contributor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	contributor, ok := repository.contributors[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return clone(contributor), nil
}

func (repository *memoryRepository) ListContributors(_ context.Context, filter catalog.ContributorFilter) ([]*catalog.Contributor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	contributors := []*catalog.Contributor{}
	for _, contributor := range repository.contributors {
		if filter.CatalogID != "" && contributor.CatalogID != filter.CatalogID {
			continue
		}
		if filter.TapNumber != "" && contributor.TapNumber != filter.TapNumber {
			continue
		}
		if filter.Role != "" && contributor.Role != filter.Role {
			continue
		}
		contributors = append(contributors, clone(contributor))
	}

	// UUIDv7 ids sort by creation.
	sort.Slice(contributors, func(i, j int) bool { return contributors[i].ID < contributors[j].ID })
	return contributors, nil
}

func (repository *memoryRepository) SumRoyalty(_ context.Context, tapNumber string, role catalog.Role, excludeID string) (float64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.allocated(tapNumber, role, excludeID), nil
}

// allocated must be called with mu held.
func (repository *memoryRepository) allocated(tapNumber string, role catalog.Role, excludeID string) float64 {
	total := 0.0
	for _, contributor := range repository.contributors {
		if contributor.TapNumber == tapNumber && contributor.Role == role && contributor.ID != excludeID {
			total += contributor.RoyaltyPercentage
		}
	}
	return total
}

func (repository *memoryRepository) fitsBudget(contributor *catalog.Contributor) bool {
	current := repository.allocated(contributor.TapNumber, contributor.Role, contributor.ID)
	return current+contributor.RoyaltyPercentage <= 100+1e-9
}

func (repository *memoryRepository) CreateContributor(_ context.Context, contributor *catalog.Contributor) error {
	if repository.beforeContributorWrite != nil {
		repository.beforeContributorWrite()
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.catalogs[contributor.CatalogID]; !ok {
		return catalog.ErrNotFound
	}
	if !repository.fitsBudget(contributor) {
		return catalog.ErrAllocationExceeded
	}
	repository.contributors[contributor.ID] = clone(contributor)
	return nil
}

func (repository *memoryRepository) UpdateContributor(_ context.Context, contributor *catalog.Contributor) error {
	if repository.beforeContributorWrite != nil {
		repository.beforeContributorWrite()
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.contributors[contributor.ID]; !ok {
		return catalog.ErrNotFound
	}
	if !repository.fitsBudget(contributor) {
		return catalog.ErrAllocationExceeded
	}
	repository.contributors[contributor.ID] = clone(contributor)
	return nil
}

func (repository *memoryRepository) OpenDistribution(_ context.Context, distribution *catalog.Distribution) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.catalogs[distribution.CatalogID]; !ok {
		return 0, catalog.ErrNotFound
	}

	var closed int64
	for _, existing := range repository.distributions {
		if existing.TapNumber == distribution.TapNumber && existing.IsOpen() {
			endDate := distribution.StartDate
			existing.EndDate = &endDate
			existing.IsActive = false
			closed++
		}
	}
	repository.distributions[distribution.ID] = clone(distribution)
	return closed, nil
}

func (repository *memoryRepository) ListDistributions(_ context.Context, tapNumber string) ([]*catalog.Distribution, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	distributions := []*catalog.Distribution{}
	for _, distribution := range repository.distributions {
		if distribution.TapNumber == tapNumber {
			distributions = append(distributions, clone(distribution))
		}
	}
	sort.Slice(distributions, func(i, j int) bool {
		return distributions[i].StartDate.After(distributions[j].StartDate)
	})
	return distributions, nil
}

func (repository *memoryRepository) ActiveDistribution(ctx context.Context, tapNumber string) (*catalog.Distribution, error) {
	distributions, _ := repository.ListDistributions(ctx, tapNumber)
	for _, distribution := range distributions {
		if distribution.IsActive {
			return distribution, nil
		}
	}
	return nil, catalog.ErrNotFound
}

// openCount reports how many open distributions tapNumber has.
func (repository *memoryRepository) openCount(tapNumber string) int {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	count := 0
	for _, distribution := range repository.distributions {
		if distribution.TapNumber == tapNumber && distribution.IsOpen() {
			count++
		}
	}
	return count
}

func (repository *memoryRepository) RecordIncome(_ context.Context, income *catalog.Income) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	entry, ok := repository.catalogs[income.CatalogID]
	if !ok {
		return catalog.ErrNotFound
	}
	entry.TotalRevenue += income.Amount
	repository.incomes[income.ID] = clone(income)
	return nil
}

func (repository *memoryRepository) FindIncome(_ context.Context, id string) (*catalog.Income, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	income, ok := repository.incomes[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return clone(income), nil
}

func (repository *memoryRepository) ListIncomes(_ context.Context, filter catalog.IncomeFilter) ([]*catalog.Income, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	incomes := []*catalog.Income{}
	for _, income := range repository.incomes {
		if income.TapNumber != filter.TapNumber {
			continue
		}
		if filter.From != nil && income.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && income.Date.After(*filter.To) {
			continue
		}
		if filter.Paid != nil && income.State.PaymentProcessed() != *filter.Paid {
			continue
		}
		incomes = append(incomes, clone(income))
	}
	sort.Slice(incomes, func(i, j int) bool { return incomes[i].Date.After(incomes[j].Date) })
	return incomes, nil
}

func (repository *memoryRepository) TransitionIncome(_ context.Context, id string, from, to catalog.IncomeState, paymentDate *time.Time) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	income, ok := repository.incomes[id]
	if !ok || income.State != from {
		return false, nil
	}
	income.State = to
	income.PaymentDate = paymentDate
	return true, nil
}

// # Collaborator Fakes

// keyLocker serializes callers per key inside one process.
type keyLocker struct {
	locks sync.Map
	err   error
}

func (locker *keyLocker) Lock(_ context.Context, key string) (func(), error) {
	if locker.err != nil {
		return nil, locker.err
	}
	value, _ := locker.locks.LoadOrStore(key, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock, nil
}

// leaseLocker grants every caller at once, like a Redis lease that expired
// while its holder was still working.
type leaseLocker struct{}

func (leaseLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// auditSpy captures recorded events.
type auditSpy struct {
	mu     sync.Mutex
	events []audit.Event
}

func (spy *auditSpy) Record(_ context.Context, event audit.Event) {
	spy.mu.Lock()
	defer spy.mu.Unlock()
	spy.events = append(spy.events, event)
}

func (spy *auditSpy) actions() []audit.Action {
	spy.mu.Lock()
	defer spy.mu.Unlock()

	actions := make([]audit.Action, 0, len(spy.events))
	for _, event := range spy.events {
		actions = append(actions, event.Action)
	}
	return actions
}

// mapCache is an in-process [catalog.Cache] that stores values by reference.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]any
	gets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]any)}
}

func (cache *mapCache) Get(_ context.Context, key string, target any) (bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.gets++
	value, ok := cache.entries[key]
	if !ok {
		return false, nil
	}

	switch typed := target.(type) {
	case *[]string:
		*typed = value.([]string)
	case *catalog.SongTypeCounts:
		*typed = value.(catalog.SongTypeCounts)
	case *catalog.StatusCounts:
		*typed = value.(catalog.StatusCounts)
	default:
		return false, nil
	}
	return true, nil
}

func (cache *mapCache) Set(_ context.Context, key string, value any) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[key] = value
	return nil
}

func (cache *mapCache) Delete(_ context.Context, keys ...string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for _, key := range keys {
		delete(cache.entries, key)
	}
	return nil
}

func (cache *mapCache) size() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.entries)
}

// # Fixture

// fixedNow is the clock of every test service: 2025-06-15 10:00 UTC.
var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *memoryRepository
	auditor *auditSpy
	service *catalog.Service
}

func newFixture(options ...catalog.Option) *fixture {
	repo := newMemoryRepository()
	auditor := &auditSpy{}

	options = append([]catalog.Option{
		catalog.WithAuditor(auditor),
		catalog.WithClock(func() time.Time { return fixedNow }),
	}, options...)

	return &fixture{
		repo:    repo,
		auditor: auditor,
		service: catalog.NewService(repo, &keyLocker{}, slog.New(slog.NewTextHandler(io.Discard, nil)), options...),
	}
}
