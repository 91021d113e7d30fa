// Package transform keeps a corrective scale transform attached to the primary
// video element of a page whose DOM mutates underneath it.
//
// An Engine is a single-threaded state machine owned by one page context. A
// Runner serialises every entry point (commands, page events and deferred
// callbacks) onto one goroutine, and a Session bundles both behind a
// goroutine-safe API.
package transform

import "time"

// StyleSheetID identifies the injected style element.
const StyleSheetID = "cinefill-styles"

// Options tunes the engine's timings and walk depth.
type Options struct {
	// RetryInterval is the backoff between candidate searches while no video exists.
	RetryInterval time.Duration
	// FullscreenDelay defers the re-apply after a fullscreenchange event.
	FullscreenDelay time.Duration
	// PlayDelay defers the re-apply after a play event.
	PlayDelay time.Duration
	// ObserverRetry is the delay between attempts to arm the mutation watcher.
	ObserverRetry time.Duration
	// AncestorDepth caps the number of containers that get overflow: hidden.
	AncestorDepth int
	// StyleSheetID is the id of the injected style element.
	StyleSheetID string
}

// DefaultOptions returns the reference timings.
func DefaultOptions() Options {
	return Options{
		RetryInterval:   1000 * time.Millisecond,
		FullscreenDelay: 200 * time.Millisecond,
		PlayDelay:       100 * time.Millisecond,
		ObserverRetry:   100 * time.Millisecond,
		AncestorDepth:   10,
		StyleSheetID:    StyleSheetID,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RetryInterval <= 0 {
		o.RetryInterval = d.RetryInterval
	}
	if o.FullscreenDelay <= 0 {
		o.FullscreenDelay = d.FullscreenDelay
	}
	if o.PlayDelay <= 0 {
		o.PlayDelay = d.PlayDelay
	}
	if o.ObserverRetry <= 0 {
		o.ObserverRetry = d.ObserverRetry
	}
	if o.AncestorDepth <= 0 {
		o.AncestorDepth = d.AncestorDepth
	}
	if o.StyleSheetID == "" {
		o.StyleSheetID = d.StyleSheetID
	}
	return o
}

// Scheduler runs f once after d. The returned function cancels the call if it
// has not started yet and reports whether it did.
//
// Callbacks must be delivered on the engine's goroutine; Runner satisfies this.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}
