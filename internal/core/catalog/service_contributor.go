// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/tapledger/internal/platform/apperr"
	"github.com/taibuivan/tapledger/internal/platform/audit"
	"github.com/taibuivan/tapledger/internal/platform/validate"
	"github.com/taibuivan/tapledger/pkg/uuid"
)

// # Contributor Lookups

// ListContributors returns the contributors of a catalog, optionally for one role.
func (service *Service) ListContributors(context context.Context, filter ContributorFilter) ([]*Contributor, error) {
	if filter.Role != "" && !filter.Role.IsValid() {
		return nil, validate.RequiredError(FieldRole, "Must be one of C, A, CA, AR")
	}
	if filter.CatalogID != "" && !uuid.Valid(filter.CatalogID) {
		return []*Contributor{}, nil
	}
	return service.repo.ListContributors(context, filter)
}

// # Contributor Allocator

/*
AddContributor attaches a share holder to a catalog.

Description: The (TAP number, role) budget is locked for the duration of the
read-sum-insert sequence so concurrent additions cannot jointly overshoot.
Each role has its own 100% budget.

Parameters:
  - context: context.Context
  - contributor: *Contributor (CatalogID and TapNumber must agree)

Returns:
  - error: NotFound (catalog), Conflict (TAP mismatch) or Validation (budget) errors
*/
func (service *Service) AddContributor(context context.Context, contributor *Contributor) error {
	if err := validateContributor(contributor); err != nil {
		return err
	}

	if _, err := service.catalogForChild(context, contributor.CatalogID, contributor.TapNumber); err != nil {
		return err
	}

	unlock, err := service.lockAllocation(context, contributor.TapNumber, contributor.Role)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := service.repo.SumRoyalty(context, contributor.TapNumber, contributor.Role, "")
	if err != nil {
		return err
	}

	if exceedsBudget(current, contributor.RoyaltyPercentage) {
		return addBudgetError(contributor, current)
	}

	now := service.now()
	contributor.ID = uuid.New()
	contributor.CreatedAt = now
	contributor.UpdatedAt = now

	if err := service.repo.CreateContributor(context, contributor); err != nil {
		if errors.Is(err, ErrAllocationExceeded) {
			// The store re-checked the budget and another writer got there first.
			current, sumErr := service.repo.SumRoyalty(context, contributor.TapNumber, contributor.Role, "")
			if sumErr != nil {
				return sumErr
			}
			return addBudgetError(contributor, current)
		}
		return notFound(err, "Catalog with ID %s not found", contributor.CatalogID)
	}

	service.record(context, audit.ActionCreate, entityContributor, contributor.ID, nil, contributor)
	service.logger.InfoContext(context, "contributor_added",
		slog.String("contributor_id", contributor.ID),
		slog.String("tap_number", contributor.TapNumber),
		slog.String("role", string(contributor.Role)),
	)
	return nil
}

/*
UpdateContributor applies a partial update to a contributor.

Description: When the share or the role changes, the target role's budget is
locked and re-summed without this contributor before the write. Changes that
cannot grow any budget skip the lock.

Returns:
  - *Contributor: The updated record
  - error: NotFound or Validation (budget) errors
*/
func (service *Service) UpdateContributor(context context.Context, id string, patch ContributorPatch) (*Contributor, error) {
	if err := validateContributorPatch(patch); err != nil {
		return nil, err
	}
	if !uuid.Valid(id) {
		return nil, apperr.NotFoundf("Contributor with ID %s not found", id)
	}

	current, err := service.repo.FindContributor(context, id)
	if err != nil {
		return nil, notFound(err, "Contributor with ID %s not found", id)
	}

	if patch.touchesAllocation(current) {
		targetRole := current.Role
		if patch.Role != nil {
			targetRole = *patch.Role
		}

		unlock, err := service.lockAllocation(context, current.TapNumber, targetRole)
		if err != nil {
			return nil, err
		}
		defer unlock()

		// Re-read under the lock; the first read only told us which key to take.
		current, err = service.repo.FindContributor(context, id)
		if err != nil {
			return nil, notFound(err, "Contributor with ID %s not found", id)
		}

		share := current.RoyaltyPercentage
		if patch.RoyaltyPercentage != nil {
			share = *patch.RoyaltyPercentage
		}

		others, err := service.repo.SumRoyalty(context, current.TapNumber, targetRole, id)
		if err != nil {
			return nil, err
		}

		if exceedsBudget(others, share) {
			return nil, updateBudgetError(targetRole, others, share)
		}
	}

	before := *current
	updated := *current
	patch.apply(&updated)
	updated.UpdatedAt = service.now()

	if err := service.repo.UpdateContributor(context, &updated); err != nil {
		if errors.Is(err, ErrAllocationExceeded) {
			others, sumErr := service.repo.SumRoyalty(context, updated.TapNumber, updated.Role, id)
			if sumErr != nil {
				return nil, sumErr
			}
			return nil, updateBudgetError(updated.Role, others, updated.RoyaltyPercentage)
		}
		return nil, notFound(err, "Contributor with ID %s not found", id)
	}

	service.record(context, audit.ActionUpdate, entityContributor, id, &before, &updated)
	return &updated, nil
}

func addBudgetError(contributor *Contributor, current float64) error {
	return apperr.ValidationError(fmt.Sprintf(
		"Adding this contributor would exceed 100%% royalty for role %s. Current total: %s%%, Trying to add: %s%%",
		contributor.Role, formatPercent(current), formatPercent(contributor.RoyaltyPercentage),
	))
}

func updateBudgetError(role Role, others, share float64) error {
	return apperr.ValidationError(fmt.Sprintf(
		"Updating this contributor would exceed 100%% royalty for role %s. Current total (excluding this contributor): %s%%, New percentage: %s%%",
		role, formatPercent(others), formatPercent(share),
	))
}

// # Validation

func validateContributor(contributor *Contributor) error {
	validator := &validate.Validator{}
	validator.Required(FieldCatalogID, contributor.CatalogID).
		Required(FieldTapNumber, contributor.TapNumber).
		Required(FieldName, contributor.Name).MaxLen(FieldName, contributor.Name, 300).
		Required(FieldRole, string(contributor.Role)).
		Percentage(FieldRoyaltyPercentage, contributor.RoyaltyPercentage).
		Percentage(FieldPublisherPercentage, contributor.PublisherPercentage).
		Percentage(FieldSubPublisherPercentage, contributor.SubPublisherPercentage)

	if contributor.CatalogID != "" {
		validator.UUID(FieldCatalogID, contributor.CatalogID)
	}
	if contributor.Role != "" {
		validator.Custom(FieldRole, !contributor.Role.IsValid(), "Must be one of C, A, CA, AR")
	}
	validator.Custom(FieldPublisherType, !contributor.PublisherType.IsValid(), "Must be OP or SP")

	return validator.Err()
}

func validateContributorPatch(patch ContributorPatch) error {
	validator := &validate.Validator{}
	if patch.Name != nil {
		validator.Required(FieldName, *patch.Name).MaxLen(FieldName, *patch.Name, 300)
	}
	if patch.Role != nil {
		validator.Custom(FieldRole, !patch.Role.IsValid(), "Must be one of C, A, CA, AR")
	}
	if patch.RoyaltyPercentage != nil {
		validator.Percentage(FieldRoyaltyPercentage, *patch.RoyaltyPercentage)
	}
	if patch.PublisherPercentage != nil {
		validator.Percentage(FieldPublisherPercentage, *patch.PublisherPercentage)
	}
	if patch.SubPublisherPercentage != nil {
		validator.Percentage(FieldSubPublisherPercentage, *patch.SubPublisherPercentage)
	}
	if patch.PublisherType != nil {
		validator.Custom(FieldPublisherType, !patch.PublisherType.IsValid(), "Must be OP or SP")
	}
	return validator.Err()
}
