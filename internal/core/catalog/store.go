// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"time"
)

// # Storage Sentinels

var (
	// ErrNotFound is returned by repositories when the addressed row does not exist.
	ErrNotFound = errors.New("catalog: record not found")

	// ErrDuplicateTapNumber is returned by [CatalogRepository.Create] when the
	// TAP number is already taken.
	ErrDuplicateTapNumber = errors.New("catalog: duplicate TAP number")

	// ErrAllocationExceeded is returned by contributor writes that would push
	// the royalty total of a (TAP number, role) pair past 100%.
	ErrAllocationExceeded = errors.New("catalog: role allocation exceeded")
)

// # Repository Contracts

// Repository is the full data access contract of the ledger.
type Repository interface {
	CatalogRepository
	ContributorRepository
	DistributionRepository
	IncomeRepository
}

// CatalogRepository defines data access for catalog entries.
type CatalogRepository interface {
	/*
		List returns a filtered page of catalogs ordered by dateIn descending,
		plus the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Search, type, status, tagging, cover inclusion)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Catalog: The requested page
		  - int: Total matches across all pages
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Catalog, int, error)

	// FindByID returns the catalog with the given ID, or [ErrNotFound].
	FindByID(context context.Context, id string) (*Catalog, error)

	// FindByTapNumber returns the catalog with the given TAP number, or [ErrNotFound].
	FindByTapNumber(context context.Context, tapNumber string) (*Catalog, error)

	/*
		MaxTapSequence returns the highest sequence among well-formed TAP numbers
		issued in year, or 0 when the year has none.

		Parameters:
		  - context: context.Context
		  - year: int (Calendar year, e.g. 2025)

		Returns:
		  - int: Highest sequence number
		  - error: Database retrieval failures
	*/
	MaxTapSequence(context context.Context, year int) (int, error)

	/*
		Create persists a new catalog.

		Returns:
		  - error: [ErrDuplicateTapNumber] when the TAP number is taken
	*/
	Create(context context.Context, catalog *Catalog) error

	// Update persists every mutable field of catalog. Returns [ErrNotFound] if the row is gone.
	Update(context context.Context, catalog *Catalog) error

	// SetTagging overwrites the tagging value of one catalog.
	SetTagging(context context.Context, id, tagging string, updatedAt time.Time) error

	// Deactivate sets status=inactive and dateOut on one catalog.
	Deactivate(context context.Context, id string, dateOut time.Time) error

	/*
		Delete removes a catalog together with its contributors, distributions
		and incomes in one atomic step.

		Returns:
		  - error: [ErrNotFound] if no row was removed
	*/
	Delete(context context.Context, id string) error

	// ListCovers returns the cover versions of parentTapNumber, dateIn descending.
	ListCovers(context context.Context, parentTapNumber string) ([]*Catalog, error)

	// DistinctTaggings returns every non-empty tagging value once, in any order.
	DistinctTaggings(context context.Context) ([]string, error)

	// PopularTaggings returns the most used tagging values, highest count first.
	PopularTaggings(context context.Context, limit int) ([]TaggingCount, error)

	// CountBySongType returns catalog counts keyed by song type. Entries without one are skipped.
	CountBySongType(context context.Context) (map[string]int, error)

	// CountByStatus returns catalog counts keyed by status.
	CountByStatus(context context.Context) (map[string]int, error)
}

// ContributorRepository defines data access for contributor shares.
type ContributorRepository interface {
	// FindContributor returns one contributor, or [ErrNotFound].
	FindContributor(context context.Context, id string) (*Contributor, error)

	// ListContributors returns matching contributors ordered by creation time.
	ListContributors(context context.Context, filter ContributorFilter) ([]*Contributor, error)

	/*
		SumRoyalty totals royaltyPercentage for one (TAP number, role) pair.

		Parameters:
		  - context: context.Context
		  - tapNumber: string
		  - role: Role
		  - excludeID: string (Contributor left out of the sum, "" for none)

		Returns:
		  - float64: Allocated share in percent
		  - error: Database retrieval failures
	*/
	SumRoyalty(context context.Context, tapNumber string, role Role, excludeID string) (float64, error)

	// CreateContributor persists a new contributor, or fails with
	// [ErrAllocationExceeded] when its share no longer fits the role budget.
	CreateContributor(context context.Context, contributor *Contributor) error

	// UpdateContributor persists the mutable fields of a contributor, with the
	// same budget check as CreateContributor (excluding the contributor itself).
	UpdateContributor(context context.Context, contributor *Contributor) error
}

// DistributionRepository defines data access for distribution windows.
type DistributionRepository interface {
	/*
		OpenDistribution closes the catalog's currently open distribution (end
		date set to the new start date, inactive) and inserts distribution, as
		one atomic unit.

		Returns:
		  - int64: Number of distributions closed (0 or 1)
		  - error: [ErrNotFound] if the owning catalog vanished
	*/
	OpenDistribution(context context.Context, distribution *Distribution) (int64, error)

	// ListDistributions returns a TAP number's distributions, startDate descending.
	ListDistributions(context context.Context, tapNumber string) ([]*Distribution, error)

	// ActiveDistribution returns the active distribution of a TAP number, or [ErrNotFound].
	ActiveDistribution(context context.Context, tapNumber string) (*Distribution, error)
}

// IncomeRepository defines data access for income events.
type IncomeRepository interface {
	/*
		RecordIncome inserts income and adds its amount to the owning catalog's
		totalRevenue, as one atomic unit.

		Returns:
		  - error: [ErrNotFound] if the owning catalog vanished
	*/
	RecordIncome(context context.Context, income *Income) error

	// FindIncome returns one income, or [ErrNotFound].
	FindIncome(context context.Context, id string) (*Income, error)

	// ListIncomes returns matching incomes, date descending.
	ListIncomes(context context.Context, filter IncomeFilter) ([]*Income, error)

	/*
		TransitionIncome moves an income from one state to another only if it
		is still in the expected state (compare-and-set).

		Parameters:
		  - context: context.Context
		  - id: string
		  - from: IncomeState (Expected current state)
		  - to: IncomeState
		  - paymentDate: *time.Time (Set together with the paid state, nil otherwise)

		Returns:
		  - bool: false when the income was not in state from (lost race)
		  - error: Database write failures
	*/
	TransitionIncome(context context.Context, id string, from, to IncomeState, paymentDate *time.Time) (bool, error)
}
