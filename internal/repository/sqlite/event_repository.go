package sqlite

import (
	"fmt"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

// EventRepository implements repository.EventRepository for SQLite.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert stores ev under its run id.
func (r *EventRepository) Insert(ev model.Event) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO events (run_id, kind, time, camera, path, base_path, tier, score, threshold, detail, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.RunID, string(ev.Kind), ev.Time.UTC(), ev.CameraID, ev.Path, ev.BasePath,
		ev.Tier, ev.Score, ev.Threshold, ev.Detail, ev.Error)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	return result.LastInsertId()
}

// ListByRun returns the events of a run in insertion order.
func (r *EventRepository) ListByRun(runID string) ([]model.Event, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT run_id, kind, time, camera, path, base_path, tier, score, threshold, detail, error
		FROM events WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		var kind string
		if err := rows.Scan(&ev.RunID, &kind, &ev.Time, &ev.CameraID, &ev.Path, &ev.BasePath,
			&ev.Tier, &ev.Score, &ev.Threshold, &ev.Detail, &ev.Error); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Kind = model.EventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// CountByKind returns how many events of each kind a run recorded.
func (r *EventRepository) CountByKind(runID string) (map[model.EventKind]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT kind, COUNT(*) FROM events WHERE run_id = ? GROUP BY kind
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.EventKind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts[model.EventKind(kind)] = count
	}
	return counts, rows.Err()
}
