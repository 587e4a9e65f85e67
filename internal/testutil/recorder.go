package testutil

import (
	"sync"

	"github.com/roach88/tokenmeta/internal/metadata"
)

// Recorder is a metadata.Notifier that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []metadata.Event
}

// Notify implements metadata.Notifier.
func (r *Recorder) Notify(e metadata.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []metadata.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]metadata.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
