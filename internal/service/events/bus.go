package events

import (
	"sync"
	"time"

	"github.com/CavaJ/ImagingInterview/internal/model"
)

// Observer receives published events. Implementations must not block for long;
// the sweep waits for every observer before moving on.
type Observer interface {
	Notify(ev model.Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev model.Event)

// Notify calls f(ev).
func (f ObserverFunc) Notify(ev model.Event) {
	f(ev)
}

// Publisher is the side of the bus the deduplicator talks to.
type Publisher interface {
	Publish(ev model.Event)
}

type discard struct{}

func (discard) Publish(model.Event) {}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

// Bus fans events out to its subscribers in subscription order.
type Bus struct {
	runID     string
	observers []Observer
	now       func() time.Time
	mu        sync.RWMutex
}

// NewBus creates a bus that stamps every event with runID.
func NewBus(runID string) *Bus {
	return &Bus{runID: runID, now: time.Now}
}

// Subscribe registers o for all future events.
func (b *Bus) Subscribe(o Observer) {
	if o == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, o)
}

// Publish stamps ev with the run id and time when unset and delivers it.
func (b *Bus) Publish(ev model.Event) {
	if ev.RunID == "" {
		ev.RunID = b.runID
	}
	if ev.Time.IsZero() {
		ev.Time = b.now()
	}

	b.mu.RLock()
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	for _, o := range observers {
		o.Notify(ev)
	}
}

// RunID returns the id stamped on published events.
func (b *Bus) RunID() string {
	return b.runID
}
