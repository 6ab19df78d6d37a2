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

// # Catalog Lookups

/*
ListCatalogs retrieves a filtered page of catalogs, newest dateIn first.

Parameters:
  - context: context.Context
  - filter: Filter (Covers are excluded unless IncludeCovers is set)
  - limit: int (Max records to return)
  - offset: int (Pagination cursor)

Returns:
  - []*Catalog: Matching entries
  - int: Total count of matches
  - error: Validation or repository errors
*/
func (service *Service) ListCatalogs(context context.Context, filter Filter, limit, offset int) ([]*Catalog, int, error) {
	validator := &validate.Validator{}
	if filter.Type != "" {
		validator.Custom(FieldType, !filter.Type.IsValid(), "Must be original or adaptation")
	}
	if filter.Status != "" {
		validator.Custom(FieldStatus, !filter.Status.IsValid(), "Must be pending, active, inactive or conflict")
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, filter, limit, offset)
}

// GetCatalog fetches a catalog by its UUID.
func (service *Service) GetCatalog(context context.Context, id string) (*Catalog, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFoundf("Catalog with ID %s not found", id)
	}

	catalog, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, notFound(err, "Catalog with ID %s not found", id)
	}
	return catalog, nil
}

// GetCatalogByTapNumber fetches a catalog by its TAP number.
func (service *Service) GetCatalogByTapNumber(context context.Context, tapNumber string) (*Catalog, error) {
	catalog, err := service.repo.FindByTapNumber(context, tapNumber)
	if err != nil {
		return nil, notFound(err, "Catalog with TAP number %s not found", tapNumber)
	}
	return catalog, nil
}

/*
GetCoversByParentTap lists the cover versions of an original work, newest first.

Returns:
  - []*Catalog: Covers whose parentTapNumber is parentTapNumber
  - error: apperr.NotFound if the parent itself does not exist
*/
func (service *Service) GetCoversByParentTap(context context.Context, parentTapNumber string) ([]*Catalog, error) {
	if _, err := service.repo.FindByTapNumber(context, parentTapNumber); err != nil {
		return nil, notFound(err, "Parent catalog with TAP number %s not found", parentTapNumber)
	}
	return service.repo.ListCovers(context, parentTapNumber)
}

// # Identifier Generator

/*
GenerateTapNumber derives the next TAP number of the current year from the
highest one already issued.

Description: No reservation is made. Two concurrent callers can compute the
same value; the unique constraint on the TAP number decides, and
[Service.CreateCatalog] retries the loser with a fresh read.

Returns:
  - string: e.g. "TAP-2025-0008-MY"
  - error: Repository failures
*/
func (service *Service) GenerateTapNumber(context context.Context) (string, error) {
	year := service.now().Year()

	maxSequence, err := service.repo.MaxTapSequence(context, year)
	if err != nil {
		return "", err
	}
	return NextTapNumber(year, maxSequence, service.tapSuffix).String(), nil
}

// # Catalog Management

/*
CreateCatalog registers a new catalog entry.

Description: A caller-supplied TAP number is used as-is and a duplicate is a
Conflict. Otherwise one is generated, and a lost uniqueness race is retried
with a regenerated number a bounded number of times. New entries always
start pending, with zero revenue and dateIn defaulting to now.

Parameters:
  - context: context.Context
  - catalog: *Catalog (Filled in with ID, TAP number and defaults on success)
  - actorID: string (Recorded as createdBy)

Returns:
  - error: Validation, NotFound (missing parent) or Conflict errors
*/
func (service *Service) CreateCatalog(context context.Context, catalog *Catalog, actorID string) error {
	if err := validateCatalog(catalog); err != nil {
		return err
	}

	if catalog.ParentTapNumber != nil && *catalog.ParentTapNumber != "" {
		if _, err := service.repo.FindByTapNumber(context, *catalog.ParentTapNumber); err != nil {
			return notFound(err, "Parent catalog with TAP number %s not found", *catalog.ParentTapNumber)
		}
	}

	now := service.now()
	catalog.ID = uuid.New()
	catalog.Status = StatusPending
	catalog.TotalRevenue = 0
	catalog.CreatedBy = actorID
	catalog.CreatedAt = now
	catalog.UpdatedAt = now
	if catalog.Type == "" {
		catalog.Type = TypeOriginal
	}
	if catalog.DateIn.IsZero() {
		catalog.DateIn = now
	}
	catalog.normalize()

	if err := service.insertCatalog(context, catalog); err != nil {
		return err
	}

	service.invalidateStats(context)
	service.record(context, audit.ActionCreate, entityCatalog, catalog.ID, nil, catalog)
	service.logger.InfoContext(context, "catalog_created",
		slog.String("catalog_id", catalog.ID),
		slog.String("tap_number", catalog.TapNumber),
	)
	return nil
}

// insertCatalog persists catalog, issuing its TAP number when the caller left it empty.
func (service *Service) insertCatalog(context context.Context, catalog *Catalog) error {
	if catalog.TapNumber != "" {
		err := service.repo.Create(context, catalog)
		if errors.Is(err, ErrDuplicateTapNumber) {
			return apperr.Conflict(fmt.Sprintf("Catalog with TAP number %s already exists", catalog.TapNumber))
		}
		return err
	}

	for attempt := 1; attempt <= maxTapAttempts; attempt++ {
		tapNumber, err := service.GenerateTapNumber(context)
		if err != nil {
			return err
		}
		catalog.TapNumber = tapNumber

		err = service.repo.Create(context, catalog)
		if !errors.Is(err, ErrDuplicateTapNumber) {
			return err
		}

		service.logger.WarnContext(context, "tap_number_collision",
			slog.String("tap_number", tapNumber),
			slog.Int("attempt", attempt),
		)
	}

	catalog.TapNumber = ""
	return apperr.Conflict(fmt.Sprintf("Could not issue a unique TAP number after %d attempts", maxTapAttempts))
}

/*
UpdateCatalog applies a partial update. The TAP number and revenue cannot be
changed through it.

Returns:
  - *Catalog: The updated entry
  - error: Validation or NotFound errors
*/
func (service *Service) UpdateCatalog(context context.Context, id string, patch Patch) (*Catalog, error) {
	current, err := service.GetCatalog(context, id)
	if err != nil {
		return nil, err
	}

	before := *current
	updated := *current
	patch.apply(&updated)
	updated.UpdatedAt = service.now()

	if err := validateCatalog(&updated); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, &updated); err != nil {
		return nil, notFound(err, "Catalog with ID %s not found", id)
	}

	service.invalidateStats(context)
	service.record(context, audit.ActionUpdate, entityCatalog, id, &before, &updated)
	return &updated, nil
}

// UpdateCatalogTagging replaces the tagging value of one catalog.
func (service *Service) UpdateCatalogTagging(context context.Context, id, tagging string) (*Catalog, error) {
	current, err := service.GetCatalog(context, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldTagging, tagging, 200)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	before := *current
	updated := *current
	updated.Tagging = tagging
	updated.UpdatedAt = service.now()

	if err := service.repo.SetTagging(context, id, tagging, updated.UpdatedAt); err != nil {
		return nil, notFound(err, "Catalog with ID %s not found", id)
	}

	service.invalidateStats(context)
	service.record(context, audit.ActionUpdate, entityCatalog, id, &before, &updated)
	return &updated, nil
}

/*
RemoveCatalog soft-deletes a catalog: status becomes inactive and dateOut is
stamped. Children are left untouched.
*/
func (service *Service) RemoveCatalog(context context.Context, id string) error {
	current, err := service.GetCatalog(context, id)
	if err != nil {
		return err
	}

	dateOut := service.now()
	if err := service.repo.Deactivate(context, id, dateOut); err != nil {
		return notFound(err, "Catalog with ID %s not found", id)
	}

	after := *current
	after.Status = StatusInactive
	after.DateOut = &dateOut

	service.invalidateStats(context)
	service.record(context, audit.ActionDelete, entityCatalog, id, current, &after)
	service.logger.InfoContext(context, "catalog_deactivated", slog.String("catalog_id", id))
	return nil
}

/*
HardRemoveCatalog purges a catalog and every contributor, distribution and
income it owns.
*/
func (service *Service) HardRemoveCatalog(context context.Context, id string) error {
	current, err := service.GetCatalog(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return notFound(err, "Catalog with ID %s not found", id)
	}

	service.invalidateStats(context)
	service.record(context, audit.ActionHardDelete, entityCatalog, id, current, nil)
	service.logger.InfoContext(context, "catalog_purged",
		slog.String("catalog_id", id),
		slog.String("tap_number", current.TapNumber),
	)
	return nil
}

// # Validation

func validateCatalog(catalog *Catalog) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, catalog.Title).MaxLen(FieldTitle, catalog.Title, 500)

	if catalog.Type != "" {
		validator.Custom(FieldType, !catalog.Type.IsValid(), "Must be original or adaptation")
	}
	if catalog.VersionType != nil {
		validator.Custom(FieldVersionType, !catalog.VersionType.IsValid(), "Must be remix or cover")
	}
	if catalog.SongType != nil {
		validator.Custom(FieldSongType, !catalog.SongType.IsValid(), "Must be commercial, jingles, scoring or montage")
	}
	if catalog.Status != "" {
		validator.Custom(FieldStatus, !catalog.Status.IsValid(), "Must be pending, active, inactive or conflict")
	}
	if catalog.YoutubeLink != "" {
		validator.URL(FieldYoutubeLink, catalog.YoutubeLink)
	}
	validator.Custom(FieldCountryCover, catalog.CountryCover < 0, "Must not be negative")

	return validator.Err()
}
