package messaging

import (
	"sync"
	"time"
)

// DefaultDebounceWindow is the window within which a repeated event is dropped.
const DefaultDebounceWindow = 250 * time.Millisecond

// EventDeduplicator drops repeats of the same page event from the same tab
// inside a short window. A held shortcut chord or two frames reporting one
// keystroke must toggle once.
type EventDeduplicator struct {
	mu              sync.Mutex
	recent          map[string]time.Time
	window          time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

// NewEventDeduplicator creates a deduplicator with the given window.
func NewEventDeduplicator(window time.Duration) *EventDeduplicator {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &EventDeduplicator{
		recent:          make(map[string]time.Time),
		window:          window,
		cleanupInterval: 10 * window,
		lastCleanup:     time.Now(),
		now:             time.Now,
	}
}

// IsDuplicate records the event and reports whether an identical one was seen
// within the window.
func (d *EventDeduplicator) IsDuplicate(tabID, kind string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if now.Sub(d.lastCleanup) > d.cleanupInterval {
		d.cleanup(now)
	}

	key := tabID + "\x00" + kind
	if last, ok := d.recent[key]; ok && now.Sub(last) < d.window {
		return true
	}
	d.recent[key] = now
	return false
}

// Forget drops every record for tabID, e.g. when the tab closes.
func (d *EventDeduplicator) Forget(tabID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	prefix := tabID + "\x00"
	for key := range d.recent {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(d.recent, key)
		}
	}
}

func (d *EventDeduplicator) cleanup(now time.Time) {
	for key, seen := range d.recent {
		if now.Sub(seen) >= d.window {
			delete(d.recent, key)
		}
	}
	d.lastCleanup = now
}
