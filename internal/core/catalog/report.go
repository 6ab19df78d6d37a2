// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"github.com/taibuivan/tapledger/pkg/slice"
)

// FullDetails is the consolidated reporting view of one catalog.
type FullDetails struct {
	Catalog            *Catalog                `json:"catalog"`
	Contributors       map[Role][]*Contributor `json:"contributors"`
	RoyaltyTotals      map[Role]float64        `json:"royaltyTotals"`
	Distributions      []*Distribution         `json:"distributions"`
	ActiveDistribution *Distribution           `json:"activeDistribution"`
	Incomes            []*Income               `json:"incomes"`
	TotalRevenue       float64                 `json:"totalRevenue"`
	Covers             []*Catalog              `json:"covers"`
}

// PublisherTotals rolls up one publisher's shares across a catalog's contributors.
type PublisherTotals struct {
	PublisherName               string  `json:"publisherName"`
	ContributorsCount           int     `json:"contributorsCount"`
	TotalRoyaltyPercentage      float64 `json:"totalRoyaltyPercentage"`
	TotalPublisherPercentage    float64 `json:"totalPublisherPercentage"`
	TotalSubPublisherPercentage float64 `json:"totalSubPublisherPercentage"`
	GrandTotal                  float64 `json:"grandTotal"`
}

// TaggingCount is one tagging value and the number of catalogs carrying it.
type TaggingCount struct {
	Tagging string `json:"tagging"`
	Count   int    `json:"count"`
}

// SongTypeCounts reports catalogs per song type, zero-filled.
type SongTypeCounts struct {
	Commercial int `json:"commercial"`
	Jingles    int `json:"jingles"`
	Scoring    int `json:"scoring"`
	Montage    int `json:"montage"`
}

// StatusCounts reports catalogs per status, zero-filled.
type StatusCounts struct {
	Pending  int `json:"pending"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Conflict int `json:"conflict"`
}

// # Projections

// groupByRole buckets contributors by role, keeping roster order inside each bucket.
func groupByRole(contributors []*Contributor) map[Role][]*Contributor {
	return slice.GroupBy(contributors, func(contributor *Contributor) Role {
		return contributor.Role
	})
}

// roleTotals sums royalty percentages per role. When only one role is
// present its displayed total is 100, whatever the raw sum.
func roleTotals(groups map[Role][]*Contributor) map[Role]float64 {
	totals := make(map[Role]float64, len(groups))
	for role, members := range groups {
		totals[role] = slice.Reduce(members, 0.0, func(sum float64, contributor *Contributor) float64 {
			return sum + contributor.RoyaltyPercentage
		})
	}

	if len(totals) == 1 {
		for role := range totals {
			totals[role] = maxAllocation
		}
	}
	return totals
}

// activeOf returns the first active distribution, or nil.
func activeOf(distributions []*Distribution) *Distribution {
	for _, distribution := range distributions {
		if distribution.IsActive {
			return distribution
		}
	}
	return nil
}

// sumPublisherTotals rolls up the contributors naming publisherName as
// publisher or sub-publisher.
func sumPublisherTotals(publisherName string, contributors []*Contributor) PublisherTotals {
	totals := PublisherTotals{PublisherName: publisherName}

	relevant := slice.Filter(contributors, func(contributor *Contributor) bool {
		return contributor.PublisherName == publisherName || contributor.SubPublisherName == publisherName
	})

	for _, contributor := range relevant {
		totals.TotalRoyaltyPercentage += contributor.RoyaltyPercentage
		if contributor.PublisherName == publisherName {
			totals.TotalPublisherPercentage += contributor.PublisherPercentage
		}
		if contributor.SubPublisherName == publisherName {
			totals.TotalSubPublisherPercentage += contributor.SubPublisherPercentage
		}
	}

	totals.ContributorsCount = len(relevant)
	totals.GrandTotal = totals.TotalRoyaltyPercentage + totals.TotalPublisherPercentage + totals.TotalSubPublisherPercentage
	return totals
}

func songTypeCountsOf(raw map[string]int) SongTypeCounts {
	return SongTypeCounts{
		Commercial: raw[string(SongCommercial)],
		Jingles:    raw[string(SongJingles)],
		Scoring:    raw[string(SongScoring)],
		Montage:    raw[string(SongMontage)],
	}
}

func statusCountsOf(raw map[string]int) StatusCounts {
	return StatusCounts{
		Pending:  raw[string(StatusPending)],
		Active:   raw[string(StatusActive)],
		Inactive: raw[string(StatusInactive)],
		Conflict: raw[string(StatusConflict)],
	}
}
