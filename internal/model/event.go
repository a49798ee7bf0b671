package model

import "time"

// EventKind names a diagnostic emitted during a run.
type EventKind string

const (
	EventRunStarted        EventKind = "run_started"
	EventGroupStarted      EventKind = "group_started"
	EventCUIDetected       EventKind = "cui_detected"
	EventDimensionMismatch EventKind = "dimension_mismatch"
	EventCompared          EventKind = "compared"
	EventDuplicateFound    EventKind = "duplicate_found"
	EventDispositionFailed EventKind = "disposition_failed"
	EventRecordResolved    EventKind = "record_resolved"
	EventGroupFinished     EventKind = "group_finished"
	EventRunFinished       EventKind = "run_finished"
)

// Event is a single observation published by the deduplicator.
type Event struct {
	Kind      EventKind `json:"kind"`
	Time      time.Time `json:"time"`
	RunID     string    `json:"run_id,omitempty"`
	CameraID  string    `json:"camera,omitempty"`
	Path      string    `json:"path,omitempty"`
	BasePath  string    `json:"base_path,omitempty"`
	Tier      string    `json:"tier,omitempty"`
	Score     float64   `json:"score,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Count     int       `json:"count,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Auditable reports whether the event belongs in the run ledger.
func (e Event) Auditable() bool {
	switch e.Kind {
	case EventCUIDetected, EventDimensionMismatch, EventDuplicateFound, EventDispositionFailed:
		return true
	default:
		return false
	}
}
