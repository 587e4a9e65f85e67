package metadata

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// QueuedNotifier decouples writers from a slow subscriber. Notify appends
// to an unbounded FIFO and returns; Run delivers queued events to the
// downstream Notifier in order.
type QueuedNotifier struct {
	next   Notifier
	logger *slog.Logger

	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // buffered, size 1; closed by Close
}

// NewQueuedNotifier returns a queue delivering to next. A nil logger
// discards.
func NewQueuedNotifier(next Notifier, logger *slog.Logger) *QueuedNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &QueuedNotifier{
		next:   next,
		logger: logger,
		events: make([]Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Notify enqueues e. Events arriving after Close are dropped.
func (q *QueuedNotifier) Notify(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.logger.Warn("event dropped: queue closed", "event", e.ID, "key", e.Key.String())
		return
	}
	q.events = append(q.events, e)

	// Coalesce wakeups.
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *QueuedNotifier) tryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	q.events[0] = Event{} // release Values for GC
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Len returns the number of undelivered events.
func (q *QueuedNotifier) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close stops accepting events. Run drains what is queued, then returns.
func (q *QueuedNotifier) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// Run delivers events until the queue is closed and empty, or ctx is
// cancelled. Undelivered events remain queued on cancellation.
func (q *QueuedNotifier) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			q.logger.Debug("notifier stopping: context cancelled", "pending", q.Len())
			return err
		}
		if e, ok := q.tryDequeue(); ok {
			q.next.Notify(e)
			continue
		}

		select {
		case <-ctx.Done():
			q.logger.Debug("notifier stopping: context cancelled", "pending", q.Len())
			return ctx.Err()
		case <-q.signal:
			// A closed signal channel is always ready.
			q.mu.Lock()
			done := q.closed && len(q.events) == 0
			q.mu.Unlock()
			if done {
				return nil
			}
		}
	}
}
