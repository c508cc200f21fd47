package notifier

import (
	"sync"

	"statusboard/internal/domain"
)

// Notifier is a single-slot change broadcast: Publish overwrites the one
// retained event, and readers poll with a timestamp cursor. It is not a
// queue — updates published between two polls collapse to the latest one,
// which bounds memory under bursty ingest and keeps slow subscribers from
// accumulating backlog.
type Notifier struct {
	mu   sync.Mutex
	last *domain.ChangeEvent
}

func New() *Notifier {
	return &Notifier{}
}

// Publish replaces the retained event. Timestamps never go backwards: an
// event stamped earlier than the current slot is bumped up to it so that
// consumer cursors stay monotonic.
func (n *Notifier) Publish(ev domain.ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last != nil && ev.Timestamp < n.last.Timestamp {
		ev.Timestamp = n.last.Timestamp
	}
	n.last = &ev
}

// PollSince returns the retained event only if its timestamp strictly
// exceeds cursor.
func (n *Notifier) PollSince(cursor int64) (domain.ChangeEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.last == nil || n.last.Timestamp <= cursor {
		return domain.ChangeEvent{}, false
	}
	return *n.last, true
}
