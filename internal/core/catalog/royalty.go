// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"time"

	"github.com/taibuivan/tapledger/internal/platform/apperr"
	"github.com/taibuivan/tapledger/pkg/slice"
)

// PaymentStatusProcessed labels a settled payment.
const PaymentStatusProcessed = "Processed"

// RoyaltyLine is one contributor's payout for an income.
type RoyaltyLine struct {
	ContributorID          string        `json:"contributorId"`
	ContributorName        string        `json:"contributorName"`
	Role                   Role          `json:"role"`
	Percentage             float64       `json:"percentage"`
	Amount                 float64       `json:"amount"`
	Manager                string        `json:"manager,omitempty"`
	PublisherName          string        `json:"publisherName,omitempty"`
	PublisherType          PublisherType `json:"publisherType,omitempty"`
	PublisherPercentage    float64       `json:"publisherPercentage"`
	SubPublisherName       string        `json:"subPublisherName,omitempty"`
	SubPublisherPercentage float64       `json:"subPublisherPercentage"`
}

// RoyaltyBreakdown is the payout of one income across every contributor of
// its catalog, all roles included.
type RoyaltyBreakdown struct {
	IncomeID    string        `json:"incomeId"`
	TapNumber   string        `json:"tapNumber"`
	TotalAmount float64       `json:"totalAmount"`
	Date        time.Time     `json:"date"`
	Royalties   []RoyaltyLine `json:"royalties"`
}

// PaymentResult is the breakdown of a paid income plus its settlement data.
type PaymentResult struct {
	RoyaltyBreakdown
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentStatus string    `json:"paymentStatus"`
}

/*
ComputeBreakdown projects an income onto a contributor roster.

It has no side effects and returns the same breakdown for the same inputs.
Committing the calculated state is the caller's job.

Returns:
  - *RoyaltyBreakdown: One line per contributor, in roster order
  - error: apperr.ValidationError when the roster is empty
*/
func ComputeBreakdown(income *Income, contributors []*Contributor) (*RoyaltyBreakdown, error) {
	if len(contributors) == 0 {
		return nil, apperr.ValidationError("No contributors found for TAP number " + income.TapNumber)
	}

	lines := slice.Map(contributors, func(contributor *Contributor) RoyaltyLine {
		return RoyaltyLine{
			ContributorID:          contributor.ID,
			ContributorName:        contributor.Name,
			Role:                   contributor.Role,
			Percentage:             contributor.RoyaltyPercentage,
			Amount:                 income.Amount * contributor.RoyaltyPercentage / 100,
			Manager:                contributor.Manager,
			PublisherName:          contributor.PublisherName,
			PublisherType:          contributor.PublisherType,
			PublisherPercentage:    contributor.PublisherPercentage,
			SubPublisherName:       contributor.SubPublisherName,
			SubPublisherPercentage: contributor.SubPublisherPercentage,
		}
	})

	return &RoyaltyBreakdown{
		IncomeID:    income.ID,
		TapNumber:   income.TapNumber,
		TotalAmount: income.Amount,
		Date:        income.Date,
		Royalties:   lines,
	}, nil
}
