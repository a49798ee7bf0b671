package repository

import (
	"github.com/CavaJ/ImagingInterview/internal/model"
)

// RunRepository defines the interface for run ledger operations.
type RunRepository interface {
	// Create operations
	Insert(run *model.Run) error

	// Update operations
	Finish(run *model.Run) error

	// Read operations
	GetByID(id string) (*model.Run, error)
	List(limit int) ([]model.Run, error)
}

// EventRepository defines the interface for audited run events.
type EventRepository interface {
	// Create operations
	Insert(ev model.Event) (int64, error)

	// Read operations
	ListByRun(runID string) ([]model.Event, error)
	CountByKind(runID string) (map[model.EventKind]int, error)
}
