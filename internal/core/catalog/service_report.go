// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/tapledger/internal/platform/validate"
)

const (
	defaultPopularTaggings = 10
	maxPopularTaggings     = 100
)

// # Catalog Aggregator

/*
GetCatalogFullDetails assembles the reporting view of one catalog.

Description: Read-only. Contributors are grouped by role with per-role
totals, and the first active distribution in start-date order is surfaced.

Returns:
  - *FullDetails: Catalog, roster, distributions, incomes and covers
  - error: apperr.NotFound if the TAP number is unknown
*/
func (service *Service) GetCatalogFullDetails(context context.Context, tapNumber string) (*FullDetails, error) {
	catalog, err := service.GetCatalogByTapNumber(context, tapNumber)
	if err != nil {
		return nil, err
	}

	contributors, err := service.repo.ListContributors(context, ContributorFilter{TapNumber: tapNumber})
	if err != nil {
		return nil, err
	}

	distributions, err := service.repo.ListDistributions(context, tapNumber)
	if err != nil {
		return nil, err
	}

	incomes, err := service.repo.ListIncomes(context, IncomeFilter{TapNumber: tapNumber})
	if err != nil {
		return nil, err
	}

	covers, err := service.repo.ListCovers(context, tapNumber)
	if err != nil {
		return nil, err
	}

	groups := groupByRole(contributors)
	return &FullDetails{
		Catalog:            catalog,
		Contributors:       groups,
		RoyaltyTotals:      roleTotals(groups),
		Distributions:      distributions,
		ActiveDistribution: activeOf(distributions),
		Incomes:            incomes,
		TotalRevenue:       catalog.TotalRevenue,
		Covers:             covers,
	}, nil
}

// GetPublisherTotals rolls up the shares held through one publisher on a
// TAP number. An unknown TAP number yields zero totals.
func (service *Service) GetPublisherTotals(context context.Context, tapNumber, publisherName string) (*PublisherTotals, error) {
	contributors, err := service.repo.ListContributors(context, ContributorFilter{TapNumber: tapNumber})
	if err != nil {
		return nil, err
	}

	totals := sumPublisherTotals(publisherName, contributors)
	return &totals, nil
}

// # Statistics

// GetAllTaggings returns every distinct non-empty tagging value in English
// collation order.
func (service *Service) GetAllTaggings(context context.Context) ([]string, error) {
	return cached(context, service, statsAllTaggings, func() ([]string, error) {
		taggings, err := service.repo.DistinctTaggings(context)
		if err != nil {
			return nil, err
		}

		collate.New(language.English, collate.IgnoreCase).SortStrings(taggings)
		if taggings == nil {
			taggings = []string{}
		}
		return taggings, nil
	})
}

/*
GetPopularTaggings returns the most used tagging values.

Parameters:
  - limit: int (0 selects the default of 10; capped at 100)
*/
func (service *Service) GetPopularTaggings(context context.Context, limit int) ([]TaggingCount, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldLimit, limit < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	switch {
	case limit == 0:
		limit = defaultPopularTaggings
	case limit > maxPopularTaggings:
		limit = maxPopularTaggings
	}

	return service.repo.PopularTaggings(context, limit)
}

// GetSongTypeCounts reports the number of catalogs per song type.
func (service *Service) GetSongTypeCounts(context context.Context) (SongTypeCounts, error) {
	return cached(context, service, statsSongTypes, func() (SongTypeCounts, error) {
		raw, err := service.repo.CountBySongType(context)
		if err != nil {
			return SongTypeCounts{}, err
		}
		return songTypeCountsOf(raw), nil
	})
}

// GetStatusCounts reports the number of catalogs per status.
func (service *Service) GetStatusCounts(context context.Context) (StatusCounts, error) {
	return cached(context, service, statsStatusCounts, func() (StatusCounts, error) {
		raw, err := service.repo.CountByStatus(context)
		if err != nil {
			return StatusCounts{}, err
		}
		return statusCountsOf(raw), nil
	})
}
