package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/placement-dashboard/internal/model"
)

// RegionMetricRepository reads and writes the region_metrics table.
type RegionMetricRepository struct {
	pool *pgxpool.Pool
}

// NewRegionMetricRepository creates a new RegionMetricRepository.
func NewRegionMetricRepository(pool *pgxpool.Pool) *RegionMetricRepository {
	return &RegionMetricRepository{pool: pool}
}

// ListRows returns every stored row ordered by state then city.
func (r *RegionMetricRepository) ListRows(ctx context.Context) ([]model.RegionMetricRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT state, city, applications, matches, companies, students
		 FROM region_metrics
		 ORDER BY state ASC, city ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.RegionMetricRow
	for rows.Next() {
		var row model.RegionMetricRow
		if err := rows.Scan(&row.State, &row.City, &row.Applications, &row.Matches, &row.Companies, &row.Students); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// LoadBaseline assembles the baseline table from the stored rows.
func (r *RegionMetricRepository) LoadBaseline(ctx context.Context) (model.RegionBaseline, error) {
	rows, err := r.ListRows(ctx)
	if err != nil {
		return nil, err
	}
	return BaselineFromRows(rows), nil
}

// ReplaceAll swaps the stored table for baseline in one transaction.
func (r *RegionMetricRepository) ReplaceAll(ctx context.Context, baseline model.RegionBaseline) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM region_metrics`); err != nil {
		return 0, err
	}

	rows := RowsFromBaseline(baseline)
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(
			`INSERT INTO region_metrics (state, city, applications, matches, companies, students, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
			row.State, row.City, row.Applications, row.Matches, row.Companies, row.Students,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Upsert inserts or replaces one row. An empty city writes the state total.
func (r *RegionMetricRepository) Upsert(ctx context.Context, row model.RegionMetricRow) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO region_metrics (state, city, applications, matches, companies, students, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (state, city) DO UPDATE SET
			applications = EXCLUDED.applications,
			matches = EXCLUDED.matches,
			companies = EXCLUDED.companies,
			students = EXCLUDED.students,
			updated_at = NOW()`,
		row.State, row.City, row.Applications, row.Matches, row.Companies, row.Students)
	return err
}
