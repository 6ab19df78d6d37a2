// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/tapledger/internal/platform/database/schema"
	"github.com/taibuivan/tapledger/internal/platform/dberr"
	"github.com/taibuivan/tapledger/internal/platform/postgres"
)

// # Contributor Repository Implementation

var contributorColumnList = []string{
	schema.CoreContributor.ID, schema.CoreContributor.CatalogID, schema.CoreContributor.TapNumber,
	schema.CoreContributor.Name, schema.CoreContributor.Role, schema.CoreContributor.RoyaltyPercentage,
	schema.CoreContributor.Manager, schema.CoreContributor.PublisherType, schema.CoreContributor.PublisherName,
	schema.CoreContributor.PublisherPercentage, schema.CoreContributor.SubPublisherName,
	schema.CoreContributor.SubPublisherPercentage, schema.CoreContributor.CreatedAt, schema.CoreContributor.UpdatedAt,
}

var contributorColumns = strings.Join(contributorColumnList, ", ")

// contributorUpdateColumns are rewritten by [repository.UpdateContributor],
// in bind order after the id. Ownership columns never change.
var contributorUpdateColumns = []string{
	schema.CoreContributor.Name, schema.CoreContributor.Role, schema.CoreContributor.RoyaltyPercentage,
	schema.CoreContributor.Manager, schema.CoreContributor.PublisherType,
	schema.CoreContributor.PublisherName, schema.CoreContributor.PublisherPercentage,
	schema.CoreContributor.SubPublisherName, schema.CoreContributor.SubPublisherPercentage,
	schema.CoreContributor.UpdatedAt,
}

func insertContributorStatement(contributor *Contributor) (string, []any) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.CoreContributor.Table, contributorColumns, placeholders(len(contributorColumnList), 1))

	return query, []any{
		contributor.ID, contributor.CatalogID, contributor.TapNumber,
		contributor.Name, contributor.Role, contributor.RoyaltyPercentage,
		contributor.Manager, contributor.PublisherType, contributor.PublisherName,
		contributor.PublisherPercentage, contributor.SubPublisherName,
		contributor.SubPublisherPercentage, contributor.CreatedAt, contributor.UpdatedAt,
	}
}

func updateContributorStatement(contributor *Contributor) (string, []any) {
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		schema.CoreContributor.Table, assignments(contributorUpdateColumns, 2), schema.CoreContributor.ID)

	return query, []any{
		contributor.ID,
		contributor.Name, contributor.Role, contributor.RoyaltyPercentage,
		contributor.Manager, contributor.PublisherType,
		contributor.PublisherName, contributor.PublisherPercentage,
		contributor.SubPublisherName, contributor.SubPublisherPercentage,
		contributor.UpdatedAt,
	}
}

// sumRoyaltyStatement totals royaltypercentage for (tapNumber, role), leaving
// excludeID out when it is set.
func sumRoyaltyStatement(tapNumber string, role Role, excludeID string) (string, []any) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreContributor.RoyaltyPercentage, schema.CoreContributor.Table,
		schema.CoreContributor.TapNumber, schema.CoreContributor.Role)
	args := []any{tapNumber, role}

	if excludeID != "" {
		query += fmt.Sprintf(" AND %s <> $3", schema.CoreContributor.ID)
		args = append(args, excludeID)
	}
	return query, args
}

func scanContributor(row pgx.Row) (*Contributor, error) {
	contributor := &Contributor{}
	err := row.Scan(
		&contributor.ID, &contributor.CatalogID, &contributor.TapNumber,
		&contributor.Name, &contributor.Role, &contributor.RoyaltyPercentage,
		&contributor.Manager, &contributor.PublisherType, &contributor.PublisherName,
		&contributor.PublisherPercentage, &contributor.SubPublisherName,
		&contributor.SubPublisherPercentage, &contributor.CreatedAt, &contributor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return contributor, nil
}

// FindContributor returns one contributor by UUID.
func (repository *repository) FindContributor(context context.Context, id string) (*Contributor, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		contributorColumns, schema.CoreContributor.Table, schema.CoreContributor.ID)

	contributor, err := scanContributor(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres: failed to find contributor: %w", err)
	}
	return contributor, nil
}

// ListContributors returns the contributors of one catalog in creation order.
func (repository *repository) ListContributors(context context.Context, filter ContributorFilter) ([]*Contributor, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE TRUE`,
		contributorColumns, schema.CoreContributor.Table))

	if filter.CatalogID != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreContributor.CatalogID, argID))
		args = append(args, filter.CatalogID)
		argID++
	}

	if filter.TapNumber != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreContributor.TapNumber, argID))
		args = append(args, filter.TapNumber)
		argID++
	}

	if filter.Role != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreContributor.Role, argID))
		args = append(args, filter.Role)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s ASC",
		schema.CoreContributor.CreatedAt, schema.CoreContributor.ID))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list contributors: %w", err)
	}
	defer rows.Close()

	contributors := []*Contributor{}
	for rows.Next() {
		contributor, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan contributor: %w", err)
		}
		contributors = append(contributors, contributor)
	}
	return contributors, rows.Err()
}

// SumRoyalty totals the royalty share already allocated to (tapNumber, role).
func (repository *repository) SumRoyalty(context context.Context, tapNumber string, role Role, excludeID string) (float64, error) {
	query, args := sumRoyaltyStatement(tapNumber, role, excludeID)

	var total float64
	if err := repository.pool.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: failed to sum royalty: %w", err)
	}
	return total, nil
}

/*
CreateContributor inserts a contributor once its role budget is confirmed.

Description: The owning catalog row is locked FOR UPDATE, the role is
re-summed and the insert runs in the same transaction. Contributor writes of
one catalog therefore commit one at a time, whatever happened to the
allocation lock taken by the service.
*/
func (repository *repository) CreateContributor(context context.Context, contributor *Contributor) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := checkAllocation(context, tx, contributor, ""); err != nil {
			return err
		}

		query, args := insertContributorStatement(contributor)
		if _, err := tx.Exec(context, query, args...); err != nil {
			if dberr.IsForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("postgres: failed to create contributor: %w", err)
		}
		return nil
	})
}

// UpdateContributor persists the mutable columns of a contributor under the
// same catalog row lock and budget check as [repository.CreateContributor].
func (repository *repository) UpdateContributor(context context.Context, contributor *Contributor) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := checkAllocation(context, tx, contributor, contributor.ID); err != nil {
			return err
		}

		query, args := updateContributorStatement(contributor)
		tag, err := tx.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "update contributor")
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// checkAllocation locks the owning catalog and fails with
// [ErrAllocationExceeded] when contributor's share no longer fits its role.
func checkAllocation(context context.Context, tx pgx.Tx, contributor *Contributor, excludeID string) error {
	lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.CoreCatalog.ID, schema.CoreCatalog.Table, schema.CoreCatalog.ID)

	var catalogID string
	if err := tx.QueryRow(context, lockQuery, contributor.CatalogID).Scan(&catalogID); err != nil {
		if dberr.IsNoRows(err) {
			return ErrNotFound
		}
		return fmt.Errorf("postgres: failed to lock catalog: %w", err)
	}

	query, args := sumRoyaltyStatement(contributor.TapNumber, contributor.Role, excludeID)
	var current float64
	if err := tx.QueryRow(context, query, args...).Scan(&current); err != nil {
		return fmt.Errorf("postgres: failed to sum royalty: %w", err)
	}

	if exceedsBudget(current, contributor.RoyaltyPercentage) {
		return ErrAllocationExceeded
	}
	return nil
}

// # Distribution Repository Implementation

var distributionColumns = strings.Join([]string{
	schema.CoreDistribution.ID, schema.CoreDistribution.CatalogID, schema.CoreDistribution.TapNumber,
	schema.CoreDistribution.Distributor, schema.CoreDistribution.StartDate, schema.CoreDistribution.EndDate,
	schema.CoreDistribution.IsActive, schema.CoreDistribution.CreatedAt,
}, ", ")

func scanDistribution(row pgx.Row) (*Distribution, error) {
	distribution := &Distribution{}
	err := row.Scan(
		&distribution.ID, &distribution.CatalogID, &distribution.TapNumber,
		&distribution.Distributor, &distribution.StartDate, &distribution.EndDate,
		&distribution.IsActive, &distribution.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return distribution, nil
}

/*
OpenDistribution closes the open distribution of the catalog and inserts the
new one in a single transaction.

Description: The owning catalog row is locked FOR UPDATE first, so two
concurrent openings for the same catalog run one after the other. The partial
unique index distribution_open_tapnumber_key still rejects a second open row
if anything bypasses this path.
*/
func (repository *repository) OpenDistribution(context context.Context, distribution *Distribution) (int64, error) {
	var closed int64

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
			schema.CoreCatalog.ID, schema.CoreCatalog.Table, schema.CoreCatalog.ID)

		var catalogID string
		if err := tx.QueryRow(context, lockQuery, distribution.CatalogID).Scan(&catalogID); err != nil {
			if dberr.IsNoRows(err) {
				return ErrNotFound
			}
			return fmt.Errorf("postgres: failed to lock catalog: %w", err)
		}

		closeQuery := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = FALSE WHERE %s = $1 AND %s AND %s IS NULL`,
			schema.CoreDistribution.Table,
			schema.CoreDistribution.EndDate, schema.CoreDistribution.IsActive,
			schema.CoreDistribution.TapNumber, schema.CoreDistribution.IsActive, schema.CoreDistribution.EndDate,
		)
		tag, err := tx.Exec(context, closeQuery, distribution.TapNumber, distribution.StartDate)
		if err != nil {
			return fmt.Errorf("postgres: failed to close open distribution: %w", err)
		}
		closed = tag.RowsAffected()

		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			schema.CoreDistribution.Table, distributionColumns)
		_, err = tx.Exec(context, insertQuery,
			distribution.ID, distribution.CatalogID, distribution.TapNumber,
			distribution.Distributor, distribution.StartDate, distribution.EndDate,
			distribution.IsActive, distribution.CreatedAt,
		)
		if err != nil {
			// A unique violation here means another open row slipped past the lock.
			return dberr.Wrap(err, "insert distribution")
		}
		return nil
	})

	return closed, err
}

// ListDistributions returns the distributions of a TAP number, newest start first.
func (repository *repository) ListDistributions(context context.Context, tapNumber string) ([]*Distribution, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		distributionColumns, schema.CoreDistribution.Table, schema.CoreDistribution.TapNumber,
		schema.CoreDistribution.StartDate, schema.CoreDistribution.CreatedAt)

	rows, err := repository.pool.Query(context, query, tapNumber)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list distributions: %w", err)
	}
	defer rows.Close()

	distributions := []*Distribution{}
	for rows.Next() {
		distribution, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan distribution: %w", err)
		}
		distributions = append(distributions, distribution)
	}
	return distributions, rows.Err()
}

// ActiveDistribution returns the active distribution of a TAP number.
func (repository *repository) ActiveDistribution(context context.Context, tapNumber string) (*Distribution, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s ORDER BY %s DESC LIMIT 1`,
		distributionColumns, schema.CoreDistribution.Table,
		schema.CoreDistribution.TapNumber, schema.CoreDistribution.IsActive, schema.CoreDistribution.StartDate)

	distribution, err := scanDistribution(repository.pool.QueryRow(context, query, tapNumber))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres: failed to find active distribution: %w", err)
	}
	return distribution, nil
}

// # Income Repository Implementation

var incomeColumns = strings.Join([]string{
	schema.CoreIncome.ID, schema.CoreIncome.CatalogID, schema.CoreIncome.TapNumber,
	schema.CoreIncome.Amount, schema.CoreIncome.Date, schema.CoreIncome.Source,
	schema.CoreIncome.State, schema.CoreIncome.PaymentDate,
	schema.CoreIncome.CreatedAt, schema.CoreIncome.UpdatedAt,
}, ", ")

func scanIncome(row pgx.Row) (*Income, error) {
	income := &Income{}
	err := row.Scan(
		&income.ID, &income.CatalogID, &income.TapNumber,
		&income.Amount, &income.Date, &income.Source,
		&income.State, &income.PaymentDate,
		&income.CreatedAt, &income.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return income, nil
}

/*
RecordIncome adds the amount to the catalog's revenue and inserts the income
in a single transaction. The revenue update doubles as the existence check.
*/
func (repository *repository) RecordIncome(context context.Context, income *Income) error {
	return postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		revenueQuery := fmt.Sprintf(`UPDATE %s SET %s = %s + $2 WHERE %s = $1`,
			schema.CoreCatalog.Table, schema.CoreCatalog.TotalRevenue, schema.CoreCatalog.TotalRevenue,
			schema.CoreCatalog.ID)

		tag, err := tx.Exec(context, revenueQuery, income.CatalogID, income.Amount)
		if err != nil {
			return fmt.Errorf("postgres: failed to add revenue: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		insertQuery := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			schema.CoreIncome.Table, incomeColumns)
		_, err = tx.Exec(context, insertQuery,
			income.ID, income.CatalogID, income.TapNumber,
			income.Amount, income.Date, income.Source,
			income.State, income.PaymentDate,
			income.CreatedAt, income.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("postgres: failed to insert income: %w", err)
		}
		return nil
	})
}

// FindIncome returns one income by UUID.
func (repository *repository) FindIncome(context context.Context, id string) (*Income, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		incomeColumns, schema.CoreIncome.Table, schema.CoreIncome.ID)

	income, err := scanIncome(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres: failed to find income: %w", err)
	}
	return income, nil
}

// ListIncomes returns the incomes of a TAP number, newest date first.
func (repository *repository) ListIncomes(context context.Context, filter IncomeFilter) ([]*Income, error) {
	var queryBuilder strings.Builder
	args := []any{filter.TapNumber}
	argID := 2

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		incomeColumns, schema.CoreIncome.Table, schema.CoreIncome.TapNumber))

	if filter.From != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s >= $%d", schema.CoreIncome.Date, argID))
		args = append(args, *filter.From)
		argID++
	}

	if filter.To != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s <= $%d", schema.CoreIncome.Date, argID))
		args = append(args, *filter.To)
		argID++
	}

	if filter.Paid != nil {
		operator := "<>"
		if *filter.Paid {
			operator = "="
		}
		queryBuilder.WriteString(fmt.Sprintf(" AND %s %s $%d", schema.CoreIncome.State, operator, argID))
		args = append(args, IncomePaid)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.CoreIncome.Date, schema.CoreIncome.CreatedAt))

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list incomes: %w", err)
	}
	defer rows.Close()

	incomes := []*Income{}
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

/*
TransitionIncome moves an income between states with a compare-and-set.

Description: The WHERE clause pins the expected current state, so of two
concurrent callers only one sees a row affected.
*/
func (repository *repository) TransitionIncome(context context.Context, id string, from, to IncomeState, paymentDate *time.Time) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s = $3, %s = $4, %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.CoreIncome.Table,
		schema.CoreIncome.State, schema.CoreIncome.PaymentDate, schema.CoreIncome.UpdatedAt,
		schema.CoreIncome.ID, schema.CoreIncome.State,
	)

	tag, err := repository.pool.Exec(context, query, id, from, to, paymentDate)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to move income %s to %s: %w", id, to, err)
	}
	return tag.RowsAffected() == 1, nil
}
