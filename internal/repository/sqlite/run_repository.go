package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

// RunRepository implements repository.RunRepository for SQLite.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a new SQLite run repository.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, root, action, dry_run, started_at, finished_at,
	groups_count, records, comparisons, duplicates, anomalies, failures`

// Insert adds a started run to the ledger.
func (r *RunRepository) Insert(run *model.Run) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().Exec(`
		INSERT INTO runs (id, root, action, dry_run, started_at, records)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Root, string(run.Action), run.DryRun, run.StartedAt.UTC(), run.Records)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Finish stores the final counters and finish time of run.
func (r *RunRepository) Finish(run *model.Run) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		UPDATE runs SET finished_at = ?, groups_count = ?, records = ?, comparisons = ?,
			duplicates = ?, anomalies = ?, failures = ?
		WHERE id = ?
	`, run.FinishedAt.UTC(), run.Groups, run.Records, run.Comparisons,
		run.Duplicates, run.Anomalies, run.Failures, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, sql.ErrNoRows)
	}
	return nil
}

// GetByID retrieves a run by its ID. A missing run yields nil, nil.
func (r *RunRepository) GetByID(id string) (*model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	row := r.db.Conn().QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first. A non-positive limit returns all runs.
func (r *RunRepository) List(limit int) ([]model.Run, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (*model.Run, error) {
	var run model.Run
	var action string
	var finished sql.NullTime
	err := s.Scan(&run.ID, &run.Root, &action, &run.DryRun, &run.StartedAt, &finished,
		&run.Groups, &run.Records, &run.Comparisons, &run.Duplicates, &run.Anomalies, &run.Failures)
	if err != nil {
		return nil, err
	}
	run.Action = model.Action(action)
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}
