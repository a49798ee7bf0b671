package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

// RunHistory is the read side of the run ledger.
type RunHistory interface {
	Runs(limit int) ([]model.Run, error)
	Run(id string) (*model.Run, error)
	Events(runID string) ([]model.Event, error)
}

// ListRunsHandler returns the most recent runs as JSON.
func ListRunsHandler(history RunHistory, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 20)

		runs, err := history.Runs(limit)
		if err != nil {
			logger.Error("Error querying runs: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}
		writeJSON(w, logger, runs)
	}
}

// RunEventsHandler returns a run and its audited events as JSON.
func RunEventsHandler(history RunHistory, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Missing run id", http.StatusBadRequest)
			return
		}

		run, err := history.Run(id)
		if err != nil {
			logger.Error("Error querying run %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if run == nil {
			http.NotFound(w, r)
			return
		}

		events, err := history.Events(id)
		if err != nil {
			logger.Error("Error querying events of run %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []model.Event{}
		}

		writeJSON(w, logger, map[string]interface{}{
			"run":    run,
			"events": events,
		})
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON: %v", err)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
