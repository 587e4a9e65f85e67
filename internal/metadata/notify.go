package metadata

import (
	"github.com/google/uuid"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// EventKind distinguishes overwrites from define-once writes.
type EventKind string

const (
	EventSet EventKind = "set"
	EventAdd EventKind = "add"
)

// Event describes one successful mutation.
type Event struct {
	ID     string
	Kind   EventKind
	Scope  Scope
	Entity EntityID // zero unless Scope is ScopeEntity
	Key    keycodec.Key
	Values []string
}

// Notifier receives mutation events. Notify is called after the store has
// been updated and must not call back into the same store.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// MultiNotifier delivers each event to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(e Event) {
	for _, n := range m {
		n.Notify(e)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// IDGenerator produces event IDs.
// Implemented by UUIDv7Generator and testutil.SequenceGenerator.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 event IDs.
type UUIDv7Generator struct{}

// Generate panics if the random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
