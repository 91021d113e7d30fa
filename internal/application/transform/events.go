package transform

import "github.com/jayseik/cinefill/internal/application/port"

// EventKind enumerates the page signals the engine reacts to.
type EventKind string

const (
	EventMutation         EventKind = "mutation"
	EventFullscreenChange EventKind = "fullscreenchange"
	EventLoadedMetadata   EventKind = "loadedmetadata"
	EventPlay             EventKind = "play"
)

// Event is a page signal. Target is set for media events and always refers to
// a video element.
type Event struct {
	Kind   EventKind
	Target port.ElementRef
}

// reason says why the engine is converging. All triggers funnel into converge
// with one of these.
type reason string

const (
	reasonConfigure      reason = "configure"
	reasonRetry          reason = "retry"
	reasonMutation       reason = "mutation"
	reasonFullscreen     reason = "fullscreen"
	reasonLoadedMetadata reason = "loadedmetadata"
	reasonPlay           reason = "play"
)
