// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taibuivan/tapledger/internal/platform/apperr"
	"github.com/taibuivan/tapledger/internal/platform/audit"
	"github.com/taibuivan/tapledger/internal/platform/validate"
	"github.com/taibuivan/tapledger/pkg/uuid"
)

// # Distribution Manager

/*
AddDistribution opens a new distribution window for a catalog.

Description: The currently open distribution of the same TAP number, if any,
is closed at the new start date in the same transaction that inserts the
new one, so no reader ever sees two open windows.

Returns:
  - error: Validation, NotFound (catalog) or Conflict (TAP mismatch) errors
*/
func (service *Service) AddDistribution(context context.Context, distribution *Distribution) error {
	validator := &validate.Validator{}
	validator.Required(FieldCatalogID, distribution.CatalogID).
		Required(FieldTapNumber, distribution.TapNumber).
		Required(FieldDistributor, distribution.Distributor).MaxLen(FieldDistributor, distribution.Distributor, 300).
		Custom(FieldStartDate, distribution.StartDate.IsZero(), "This field is required")
	if distribution.EndDate != nil {
		validator.Custom(FieldEndDate, distribution.EndDate.Before(distribution.StartDate), "Must not be before startDate")
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.catalogForChild(context, distribution.CatalogID, distribution.TapNumber); err != nil {
		return err
	}

	distribution.ID = uuid.New()
	distribution.IsActive = true
	distribution.CreatedAt = service.now()

	closed, err := service.repo.OpenDistribution(context, distribution)
	if err != nil {
		return notFound(err, "Catalog with ID %s not found", distribution.CatalogID)
	}

	service.record(context, audit.ActionCreate, entityDistribution, distribution.ID, nil, distribution)
	service.logger.InfoContext(context, "distribution_opened",
		slog.String("distribution_id", distribution.ID),
		slog.String("tap_number", distribution.TapNumber),
		slog.Int64("closed_previous", closed),
	)
	return nil
}

// GetDistributions lists a TAP number's distributions, newest start first.
func (service *Service) GetDistributions(context context.Context, tapNumber string) ([]*Distribution, error) {
	return service.repo.ListDistributions(context, tapNumber)
}

// GetActiveDistribution returns the active distribution of a TAP number, or nil if none.
func (service *Service) GetActiveDistribution(context context.Context, tapNumber string) (*Distribution, error) {
	distribution, err := service.repo.ActiveDistribution(context, tapNumber)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return distribution, err
}

// # Income Ledger

/*
RecordIncome books a revenue event against a catalog.

Description: The catalog's totalRevenue grows by the amount in the same
transaction that inserts the income. The income starts in the recorded state.

Returns:
  - error: Validation, NotFound (catalog) or Conflict (TAP mismatch) errors
*/
func (service *Service) RecordIncome(context context.Context, income *Income) error {
	validator := &validate.Validator{}
	validator.Required(FieldCatalogID, income.CatalogID).
		Required(FieldTapNumber, income.TapNumber).
		NonNegative(FieldAmount, income.Amount).
		Custom(FieldDate, income.Date.IsZero(), "This field is required")
	if err := validator.Err(); err != nil {
		return err
	}

	if _, err := service.catalogForChild(context, income.CatalogID, income.TapNumber); err != nil {
		return err
	}

	now := service.now()
	income.ID = uuid.New()
	income.State = IncomeRecorded
	income.PaymentDate = nil
	income.CreatedAt = now
	income.UpdatedAt = now

	if err := service.repo.RecordIncome(context, income); err != nil {
		return notFound(err, "Catalog with ID %s not found", income.CatalogID)
	}

	service.record(context, audit.ActionCreate, entityIncome, income.ID, nil, income)
	service.logger.InfoContext(context, "income_recorded",
		slog.String("income_id", income.ID),
		slog.String("tap_number", income.TapNumber),
		slog.Float64("amount", income.Amount),
	)
	return nil
}

// GetIncomes lists a TAP number's incomes, newest first.
func (service *Service) GetIncomes(context context.Context, filter IncomeFilter) ([]*Income, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, validate.RequiredError("endDate", "Must not be before startDate")
	}
	return service.repo.ListIncomes(context, filter)
}

// # Royalty Calculator

/*
CalculateRoyalties computes the payout of an income and commits the
calculated state.

Description: The breakdown is a pure projection of the income and the current
contributor roster. The state moves recorded to calculated with a
compare-and-set, so of two concurrent callers exactly one succeeds and the
other gets the same Conflict as a sequential second call.

Returns:
  - *RoyaltyBreakdown: One line per contributor across all roles
  - error: NotFound, Conflict (already calculated) or Validation (no contributors)
*/
func (service *Service) CalculateRoyalties(context context.Context, incomeID string) (*RoyaltyBreakdown, error) {
	income, err := service.findIncome(context, incomeID)
	if err != nil {
		return nil, err
	}

	if err := income.State.CheckTransition(IncomeCalculated); err != nil {
		return nil, err
	}

	breakdown, err := service.breakdownOf(context, income)
	if err != nil {
		return nil, err
	}

	if err := service.advanceIncome(context, income, IncomeCalculated, nil); err != nil {
		return nil, err
	}

	service.record(context, audit.ActionCalculateRoyalties, entityIncome, income.ID,
		map[string]any{"state": IncomeRecorded},
		map[string]any{"state": IncomeCalculated, "royalties": breakdown.Royalties},
	)
	service.logger.InfoContext(context, "royalties_calculated",
		slog.String("income_id", income.ID),
		slog.Int("lines", len(breakdown.Royalties)),
	)
	return breakdown, nil
}

// # Payment Processor

/*
ProcessPayment settles an income whose royalties were calculated.

Description: The breakdown is re-derived with the same pure projection; the
calculated state is not touched again. The state moves calculated to paid
with paymentDate=now in one compare-and-set.

Returns:
  - *PaymentResult: Breakdown, payment date and status "Processed"
  - error: NotFound, Validation (not calculated yet) or Conflict (already paid)
*/
func (service *Service) ProcessPayment(context context.Context, incomeID string) (*PaymentResult, error) {
	income, err := service.findIncome(context, incomeID)
	if err != nil {
		return nil, err
	}

	if err := income.State.CheckTransition(IncomePaid); err != nil {
		return nil, err
	}

	breakdown, err := service.breakdownOf(context, income)
	if err != nil {
		return nil, err
	}

	paymentDate := service.now()
	if err := service.advanceIncome(context, income, IncomePaid, &paymentDate); err != nil {
		return nil, err
	}

	service.record(context, audit.ActionProcessPayment, entityIncome, income.ID,
		map[string]any{"state": IncomeCalculated},
		map[string]any{"state": IncomePaid, "paymentDate": paymentDate},
	)
	service.logger.InfoContext(context, "payment_processed",
		slog.String("income_id", income.ID),
		slog.Float64("amount", income.Amount),
	)

	return &PaymentResult{
		RoyaltyBreakdown: *breakdown,
		PaymentDate:      paymentDate,
		PaymentStatus:    PaymentStatusProcessed,
	}, nil
}

// # Lifecycle Helpers

func (service *Service) findIncome(context context.Context, incomeID string) (*Income, error) {
	if !uuid.Valid(incomeID) {
		return nil, apperr.NotFoundf("Income record with ID %s not found", incomeID)
	}

	income, err := service.repo.FindIncome(context, incomeID)
	if err != nil {
		return nil, notFound(err, "Income record with ID %s not found", incomeID)
	}
	return income, nil
}

// breakdownOf projects income onto its catalog's full contributor roster.
func (service *Service) breakdownOf(context context.Context, income *Income) (*RoyaltyBreakdown, error) {
	contributors, err := service.repo.ListContributors(context, ContributorFilter{TapNumber: income.TapNumber})
	if err != nil {
		return nil, err
	}
	return ComputeBreakdown(income, contributors)
}

// advanceIncome commits a lifecycle move. When the compare-and-set loses,
// the income is re-read so the caller sees the error matching the state
// that won.
func (service *Service) advanceIncome(context context.Context, income *Income, target IncomeState, paymentDate *time.Time) error {
	moved, err := service.repo.TransitionIncome(context, income.ID, income.State, target, paymentDate)
	if err != nil {
		return err
	}
	if moved {
		income.State = target
		income.PaymentDate = paymentDate
		return nil
	}

	latest, err := service.findIncome(context, income.ID)
	if err != nil {
		return err
	}
	if err := latest.State.CheckTransition(target); err != nil {
		return err
	}
	return apperr.Conflict("Income was modified concurrently, retry")
}
