package ledger

import (
	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
	"github.com/CavaJ/ImagingInterview/internal/repository"
)

// Ledger records runs and their auditable events.
type Ledger struct {
	runs   repository.RunRepository
	events repository.EventRepository
	logger *logger.Logger
}

// NewLedger creates a Ledger backed by the given repositories.
func NewLedger(runs repository.RunRepository, events repository.EventRepository, logger *logger.Logger) *Ledger {
	return &Ledger{runs: runs, events: events, logger: logger}
}

// Start stores a newly started run.
func (l *Ledger) Start(run *model.Run) error {
	return l.runs.Insert(run)
}

// Finish stores the final state of run.
func (l *Ledger) Finish(run *model.Run) error {
	return l.runs.Finish(run)
}

// Notify persists auditable events. Write failures are logged, never propagated.
func (l *Ledger) Notify(ev model.Event) {
	if !ev.Auditable() {
		return
	}
	if _, err := l.events.Insert(ev); err != nil {
		l.logger.Error("Failed to record %s event for %s: %v", ev.Kind, ev.Path, err)
	}
}

// Runs returns the most recent runs.
func (l *Ledger) Runs(limit int) ([]model.Run, error) {
	return l.runs.List(limit)
}

// Run returns a single run, nil when unknown.
func (l *Ledger) Run(id string) (*model.Run, error) {
	return l.runs.GetByID(id)
}

// Events returns the audited events of a run.
func (l *Ledger) Events(runID string) ([]model.Event, error) {
	return l.events.ListByRun(runID)
}
