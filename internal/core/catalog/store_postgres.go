// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tapledger/internal/platform/database/schema"
	"github.com/taibuivan/tapledger/internal/platform/dberr"
)

// # PostgreSQL Repository

/*
repository implements [Repository] using pgx.

It leans on the database for every cross-row guarantee:
  - Unique constraint: catalog_tapnumber_key decides TAP number races.
  - Row locks: opening a distribution locks the owning catalog row first.
  - Conditional updates: income state moves only from the expected state.
  - Cascades: hard-deleting a catalog removes its children in the same statement.
*/
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed ledger store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// catalogColumnList is the select and insert order matching [scanCatalog].
var catalogColumnList = []string{
	schema.CoreCatalog.ID, schema.CoreCatalog.TapNumber, schema.CoreCatalog.InvCode,
	schema.CoreCatalog.IPICode, schema.CoreCatalog.ISWCCode, schema.CoreCatalog.ISRCCode,
	schema.CoreCatalog.Type, schema.CoreCatalog.VersionType, schema.CoreCatalog.ParentTapNumber,
	schema.CoreCatalog.Tagging, schema.CoreCatalog.SongType, schema.CoreCatalog.Title,
	schema.CoreCatalog.AlternateTitle, schema.CoreCatalog.Performer, schema.CoreCatalog.Genre,
	schema.CoreCatalog.Remarks, schema.CoreCatalog.YoutubeLink, schema.CoreCatalog.CountryCover,
	schema.CoreCatalog.SelectedCountries, schema.CoreCatalog.Status, schema.CoreCatalog.DateIn,
	schema.CoreCatalog.DateOut, schema.CoreCatalog.AudioFilePath, schema.CoreCatalog.TotalRevenue,
	schema.CoreCatalog.CreatedBy, schema.CoreCatalog.CreatedAt, schema.CoreCatalog.UpdatedAt,
}

var catalogColumns = strings.Join(catalogColumnList, ", ")

// catalogUpdateColumns are the columns [repository.Update] rewrites, in bind
// order after the id. tapnumber, totalrevenue and the creation stamps are absent.
var catalogUpdateColumns = []string{
	schema.CoreCatalog.InvCode, schema.CoreCatalog.IPICode, schema.CoreCatalog.ISWCCode,
	schema.CoreCatalog.ISRCCode, schema.CoreCatalog.Type, schema.CoreCatalog.VersionType,
	schema.CoreCatalog.ParentTapNumber, schema.CoreCatalog.Tagging, schema.CoreCatalog.SongType,
	schema.CoreCatalog.Title, schema.CoreCatalog.AlternateTitle, schema.CoreCatalog.Performer,
	schema.CoreCatalog.Genre, schema.CoreCatalog.Remarks, schema.CoreCatalog.YoutubeLink,
	schema.CoreCatalog.CountryCover, schema.CoreCatalog.SelectedCountries, schema.CoreCatalog.Status,
	schema.CoreCatalog.DateIn, schema.CoreCatalog.DateOut, schema.CoreCatalog.AudioFilePath,
	schema.CoreCatalog.UpdatedAt,
}

// # Statement Builders

// placeholders renders "$first, $first+1, ..." for count bind parameters.
func placeholders(count, first int) string {
	marks := make([]string, count)
	for index := range marks {
		marks[index] = fmt.Sprintf("$%d", first+index)
	}
	return strings.Join(marks, ", ")
}

// assignments renders "column = $n" pairs numbered from first.
func assignments(columns []string, first int) string {
	pairs := make([]string, len(columns))
	for index, column := range columns {
		pairs[index] = fmt.Sprintf("%s = $%d", column, first+index)
	}
	return strings.Join(pairs, ", ")
}

func insertCatalogStatement(catalog *Catalog) (string, []any) {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		schema.CoreCatalog.Table, catalogColumns, placeholders(len(catalogColumnList), 1))

	return query, []any{
		catalog.ID, catalog.TapNumber, catalog.InvCode,
		orEmpty(catalog.IPICode), catalog.ISWCCode, catalog.ISRCCode,
		catalog.Type, catalog.VersionType, catalog.ParentTapNumber,
		catalog.Tagging, catalog.SongType, catalog.Title,
		catalog.AlternateTitle, catalog.Performer, catalog.Genre,
		catalog.Remarks, catalog.YoutubeLink, catalog.CountryCover,
		orEmpty(catalog.SelectedCountries), catalog.Status, catalog.DateIn,
		catalog.DateOut, catalog.AudioFilePath, catalog.TotalRevenue,
		catalog.CreatedBy, catalog.CreatedAt, catalog.UpdatedAt,
	}
}

func updateCatalogStatement(catalog *Catalog) (string, []any) {
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		schema.CoreCatalog.Table, assignments(catalogUpdateColumns, 2), schema.CoreCatalog.ID)

	return query, []any{
		catalog.ID,
		catalog.InvCode, orEmpty(catalog.IPICode), catalog.ISWCCode,
		catalog.ISRCCode, catalog.Type, catalog.VersionType,
		catalog.ParentTapNumber, catalog.Tagging, catalog.SongType,
		catalog.Title, catalog.AlternateTitle, catalog.Performer,
		catalog.Genre, catalog.Remarks, catalog.YoutubeLink,
		catalog.CountryCover, orEmpty(catalog.SelectedCountries), catalog.Status,
		catalog.DateIn, catalog.DateOut, catalog.AudioFilePath,
		catalog.UpdatedAt,
	}
}

// scanCatalog hydrates a catalog from a row selected with [catalogColumns],
// followed by any extra destinations.
func scanCatalog(row pgx.Row, extra ...any) (*Catalog, error) {
	catalog := &Catalog{}
	destinations := []any{
		&catalog.ID, &catalog.TapNumber, &catalog.InvCode,
		&catalog.IPICode, &catalog.ISWCCode, &catalog.ISRCCode,
		&catalog.Type, &catalog.VersionType, &catalog.ParentTapNumber,
		&catalog.Tagging, &catalog.SongType, &catalog.Title,
		&catalog.AlternateTitle, &catalog.Performer, &catalog.Genre,
		&catalog.Remarks, &catalog.YoutubeLink, &catalog.CountryCover,
		&catalog.SelectedCountries, &catalog.Status, &catalog.DateIn,
		&catalog.DateOut, &catalog.AudioFilePath, &catalog.TotalRevenue,
		&catalog.CreatedBy, &catalog.CreatedAt, &catalog.UpdatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}
	return catalog, nil
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

// orEmpty keeps NOT NULL array columns from receiving a NULL.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// # Catalog Queries

/*
List returns one page of catalogs matching filter plus the total match count.

Description: The total comes from a COUNT(*) OVER() window in the same query.
A page past the last row carries no window value, so the total is then read
with a separate count. Covers are excluded with IS DISTINCT FROM so entries
without a version type are kept.
*/
func (repository *repository) List(context context.Context, filter Filter, limit, offset int) ([]*Catalog, int, error) {
	query, args := listCatalogsStatement(filter, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list catalogs: %w", err)
	}
	defer rows.Close()

	catalogs := []*Catalog{}
	var totalCount int
	for rows.Next() {
		catalog, err := scanCatalog(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan catalog: %w", err)
		}
		catalogs = append(catalogs, catalog)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate catalogs: %w", err)
	}

	if len(catalogs) == 0 && offset > 0 {
		countQuery, countArgs := countCatalogsStatement(filter)
		if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to count catalogs: %w", err)
		}
	}
	return catalogs, totalCount, nil
}

func listCatalogsStatement(filter Filter, limit, offset int) (string, []any) {
	where, args := catalogFilterClause(filter)
	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		catalogColumns, schema.CoreCatalog.Table, where,
		schema.CoreCatalog.DateIn, schema.CoreCatalog.ID, len(args)+1, len(args)+2)
	return query, append(args, limit, offset)
}

func countCatalogsStatement(filter Filter) (string, []any) {
	where, args := catalogFilterClause(filter)
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.CoreCatalog.Table, where), args
}

// catalogFilterClause renders filter as a WHERE condition with its bind
// arguments numbered from $1.
func catalogFilterClause(filter Filter) (string, []any) {
	var clause strings.Builder
	var args []any
	clause.WriteString("TRUE")

	// Free-text match on title or TAP number
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		clause.WriteString(fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.CoreCatalog.Title, len(args), schema.CoreCatalog.TapNumber, len(args)))
	}

	if filter.Type != "" {
		args = append(args, filter.Type)
		clause.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreCatalog.Type, len(args)))
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clause.WriteString(fmt.Sprintf(" AND %s = $%d", schema.CoreCatalog.Status, len(args)))
	}

	if filter.Tagging != "" {
		args = append(args, "%"+escapeLike(filter.Tagging)+"%")
		clause.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.CoreCatalog.Tagging, len(args)))
	}

	if !filter.IncludeCovers {
		clause.WriteString(fmt.Sprintf(" AND %s IS DISTINCT FROM '%s'", schema.CoreCatalog.VersionType, VersionCover))
	}

	return clause.String(), args
}

// FindByID returns one catalog by UUID.
func (repository *repository) FindByID(context context.Context, id string) (*Catalog, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		catalogColumns, schema.CoreCatalog.Table, schema.CoreCatalog.ID)
	return repository.findOne(context, query, id)
}

// FindByTapNumber returns one catalog by TAP number.
func (repository *repository) FindByTapNumber(context context.Context, tapNumber string) (*Catalog, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		catalogColumns, schema.CoreCatalog.Table, schema.CoreCatalog.TapNumber)
	return repository.findOne(context, query, tapNumber)
}

func (repository *repository) findOne(context context.Context, query string, arg any) (*Catalog, error) {
	catalog, err := scanCatalog(repository.pool.QueryRow(context, query, arg))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("postgres: failed to find catalog: %w", err)
	}
	return catalog, nil
}

/*
MaxTapSequence extracts the numeric sequence of every well-formed TAP number
of year and returns the largest.

Description: The comparison is numeric, so TAP-2025-10000-MY sorts after
TAP-2025-9999-MY. Malformed values in the year's prefix range are ignored.
*/
func (repository *repository) MaxTapSequence(context context.Context, year int) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(substring(%s FROM '^TAP-[0-9]{4}-([0-9]{4,})-[A-Z]+$')::BIGINT), 0)
		FROM %s
		WHERE %s LIKE $1 AND %s ~ '^TAP-[0-9]{4}-[0-9]{4,}-[A-Z]+$'`,
		schema.CoreCatalog.TapNumber, schema.CoreCatalog.Table,
		schema.CoreCatalog.TapNumber, schema.CoreCatalog.TapNumber,
	)

	var maxSequence int
	if err := repository.pool.QueryRow(context, query, TapYearPrefix(year)+"%").Scan(&maxSequence); err != nil {
		return 0, fmt.Errorf("postgres: failed to read max TAP sequence: %w", err)
	}
	return maxSequence, nil
}

// ListCovers returns the covers of one original, dateIn descending.
func (repository *repository) ListCovers(context context.Context, parentTapNumber string) ([]*Catalog, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC`,
		catalogColumns, schema.CoreCatalog.Table,
		schema.CoreCatalog.ParentTapNumber, schema.CoreCatalog.VersionType, schema.CoreCatalog.DateIn,
	)

	rows, err := repository.pool.Query(context, query, parentTapNumber, VersionCover)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list covers: %w", err)
	}
	defer rows.Close()

	covers := []*Catalog{}
	for rows.Next() {
		cover, err := scanCatalog(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan cover: %w", err)
		}
		covers = append(covers, cover)
	}
	return covers, rows.Err()
}

// # Catalog Writes

/*
Create inserts a catalog. A unique violation on the TAP number constraint is
reported as [ErrDuplicateTapNumber] so the caller can decide whether to retry.
*/
func (repository *repository) Create(context context.Context, catalog *Catalog) error {
	query, args := insertCatalogStatement(catalog)

	_, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		if dberr.IsUniqueViolation(err) && dberr.ConstraintName(err) == "catalog_tapnumber_key" {
			return ErrDuplicateTapNumber
		}
		return fmt.Errorf("postgres: failed to create catalog: %w", err)
	}
	return nil
}

// Update persists the mutable columns. tapnumber and totalrevenue are never written here.
func (repository *repository) Update(context context.Context, catalog *Catalog) error {
	query, args := updateCatalogStatement(catalog)

	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to update catalog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTagging overwrites one catalog's tagging value.
func (repository *repository) SetTagging(context context.Context, id, tagging string, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.CoreCatalog.Table, schema.CoreCatalog.Tagging, schema.CoreCatalog.UpdatedAt, schema.CoreCatalog.ID)
	return repository.execOne(context, "set catalog tagging", query, id, tagging, updatedAt)
}

// Deactivate soft-deletes one catalog.
func (repository *repository) Deactivate(context context.Context, id string, dateOut time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $3 WHERE %s = $1`,
		schema.CoreCatalog.Table, schema.CoreCatalog.Status, schema.CoreCatalog.DateOut,
		schema.CoreCatalog.UpdatedAt, schema.CoreCatalog.ID)
	return repository.execOne(context, "deactivate catalog", query, id, StatusInactive, dateOut)
}

// Delete removes one catalog. ON DELETE CASCADE takes its children in the same statement.
func (repository *repository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreCatalog.Table, schema.CoreCatalog.ID)
	return repository.execOne(context, "delete catalog", query, id)
}

// execOne runs a single-row write and maps "no row touched" to [ErrNotFound].
func (repository *repository) execOne(context context.Context, action, query string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// # Statistics Queries

// DistinctTaggings returns each non-empty tagging value once.
func (repository *repository) DistinctTaggings(context context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s <> ''`,
		schema.CoreCatalog.Tagging, schema.CoreCatalog.Table, schema.CoreCatalog.Tagging)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list taggings: %w", err)
	}

	taggings, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to scan taggings: %w", err)
	}
	return taggings, nil
}

// PopularTaggings returns the most used tagging values, ties broken alphabetically.
func (repository *repository) PopularTaggings(context context.Context, limit int) ([]TaggingCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) AS usage
		FROM %s
		WHERE %s <> ''
		GROUP BY %s
		ORDER BY usage DESC, %s ASC
		LIMIT $1`,
		schema.CoreCatalog.Tagging, schema.CoreCatalog.Table, schema.CoreCatalog.Tagging,
		schema.CoreCatalog.Tagging, schema.CoreCatalog.Tagging,
	)

	rows, err := repository.pool.Query(context, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to rank taggings: %w", err)
	}
	defer rows.Close()

	popular := []TaggingCount{}
	for rows.Next() {
		var entry TaggingCount
		if err := rows.Scan(&entry.Tagging, &entry.Count); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan tagging count: %w", err)
		}
		popular = append(popular, entry)
	}
	return popular, rows.Err()
}

// CountBySongType groups catalogs by song type, skipping entries without one.
func (repository *repository) CountBySongType(context context.Context) (map[string]int, error) {
	return repository.countBy(context, schema.CoreCatalog.SongType)
}

// CountByStatus groups catalogs by status.
func (repository *repository) CountByStatus(context context.Context) (map[string]int, error) {
	return repository.countBy(context, schema.CoreCatalog.Status)
}

func (repository *repository) countBy(context context.Context, column string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s WHERE %s IS NOT NULL GROUP BY %s`,
		column, schema.CoreCatalog.Table, column, column)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to count catalogs by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan %s count: %w", column, err)
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
