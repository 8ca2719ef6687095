package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/telco-sightings-go/internal/models"
)

// RunRepository handles database operations for generation runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// GetLatestRun returns the most recent run, nil when nothing was generated yet
func (r *RunRepository) GetLatestRun() (*models.GenerationRun, error) {
	var run models.GenerationRun
	var params sql.NullString
	err := r.db.QueryRow(`SELECT id, seed, k_nearest_neighbor, cap_start_hr, start_date, num_days,
		site_count, subscriber_count, record_count, params_json, created_at
		FROM generation_runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(
		&run.ID, &run.Seed, &run.K, &run.CapStartHour, &run.StartDate, &run.NumDays,
		&run.Sites, &run.Subscribers, &run.Records, &params, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	run.ParamsJSON = params.String
	return &run, nil
}

// InsertRun inserts a run within tx
func (r *RunRepository) InsertRun(tx *sql.Tx, run models.GenerationRun) error {
	_, err := tx.Exec(`INSERT INTO generation_runs (id, seed, k_nearest_neighbor, cap_start_hr, start_date,
		num_days, site_count, subscriber_count, record_count, params_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, int64(run.Seed), run.K, run.CapStartHour, run.StartDate,
		run.NumDays, run.Sites, run.Subscribers, run.Records, run.ParamsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}
	return nil
}
