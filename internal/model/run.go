package model

import "time"

// Run summarizes one deduplication pass over a directory.
type Run struct {
	ID          string    `json:"id"`
	Root        string    `json:"root"`
	Action      Action    `json:"action"`
	DryRun      bool      `json:"dry_run"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Groups      int       `json:"groups"`
	Records     int       `json:"records"`
	Comparisons int       `json:"comparisons"`
	Duplicates  int       `json:"duplicates"`
	Anomalies   int       `json:"anomalies"`
	Failures    int       `json:"failures"`
}

// Duration returns how long the run took, or zero while it is still running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
