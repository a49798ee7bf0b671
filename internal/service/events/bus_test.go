package events

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CavaJ/ImagingInterview/internal/logger"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

func TestBus_PublishStampsAndFansOut(t *testing.T) {
	bus := NewBus("run-1")

	var first, second []model.Event
	bus.Subscribe(ObserverFunc(func(ev model.Event) { first = append(first, ev) }))
	bus.Subscribe(ObserverFunc(func(ev model.Event) { second = append(second, ev) }))
	bus.Subscribe(nil)

	bus.Publish(model.Event{Kind: model.EventCUIDetected, Path: "/data/c1-1.png"})

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Expected one event per observer, got %d and %d", len(first), len(second))
	}
	ev := first[0]
	if ev.RunID != "run-1" {
		t.Errorf("Expected run id run-1, got %q", ev.RunID)
	}
	if ev.Time.IsZero() {
		t.Error("Expected publish time to be set")
	}
}

func TestBus_KeepsExplicitRunID(t *testing.T) {
	bus := NewBus("run-1")
	var got model.Event
	bus.Subscribe(ObserverFunc(func(ev model.Event) { got = ev }))

	bus.Publish(model.Event{Kind: model.EventCompared, RunID: "other"})
	if got.RunID != "other" {
		t.Errorf("Expected explicit run id to be kept, got %q", got.RunID)
	}
}

func TestLogObserver_LevelRouting(t *testing.T) {
	var info, warning, errs bytes.Buffer
	log := logger.NewWithWriters(&info, &warning, &errs, logger.LevelInfo)
	obs := NewLogObserver(log)

	obs.Notify(model.Event{Kind: model.EventCUIDetected, Path: "/data/c1-1.png", Detail: "unreadable"})
	obs.Notify(model.Event{Kind: model.EventDispositionFailed, Path: "/data/c1-2.png", Error: "permission denied"})
	obs.Notify(model.Event{Kind: model.EventCompared, Path: "/data/c1-3.png"})

	if !strings.Contains(warning.String(), "c1-1.png") {
		t.Errorf("CUI should be logged as warning, got %q", warning.String())
	}
	if !strings.Contains(errs.String(), "permission denied") {
		t.Errorf("Disposition failure should be logged as error, got %q", errs.String())
	}
	if strings.Contains(info.String(), "c1-3.png") {
		t.Error("Comparisons are debug-level and should be filtered at info")
	}
}
