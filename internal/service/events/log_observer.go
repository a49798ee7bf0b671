package events

import (
	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

// LogObserver writes events to the leveled logger.
type LogObserver struct {
	logger *logger.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *logger.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// Notify logs ev at a level matching its kind.
func (o *LogObserver) Notify(ev model.Event) {
	switch ev.Kind {
	case model.EventRunStarted:
		o.logger.Info("Run %s started on %s (%d images)", ev.RunID, ev.Path, ev.Count)
	case model.EventGroupStarted:
		o.logger.Info("Camera %s: %d image(s)", ev.CameraID, ev.Count)
	case model.EventCUIDetected:
		o.logger.Warning("Image is CUI - corrupted/unsupported/invalid (%s): %s", ev.Detail, ev.Path)
	case model.EventDimensionMismatch:
		o.logger.Debug("Frame sizes are different (%s): %s vs %s", ev.Detail, ev.BasePath, ev.Path)
	case model.EventCompared:
		o.logger.Debug("Compared %s with %s: score %.0f, threshold %.0f, tier %s", ev.BasePath, ev.Path, ev.Score, ev.Threshold, ev.Tier)
	case model.EventDuplicateFound:
		o.logger.Info("Duplicate of %s: %s (score %.0f < %.0f)", ev.BasePath, ev.Path, ev.Score, ev.Threshold)
	case model.EventDispositionFailed:
		o.logger.Error("Failed to resolve %s: %s", ev.Path, ev.Error)
	case model.EventGroupFinished:
		o.logger.Info("Camera %s done: %d duplicate(s)", ev.CameraID, ev.Count)
	case model.EventRunFinished:
		o.logger.Info("Run %s finished: %s", ev.RunID, ev.Detail)
	}
}
