package port

import (
	"context"
	"errors"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

// ErrDetached is returned when an element reference no longer resolves to a node
// attached to the document.
var ErrDetached = errors.New("element detached from document")

// ErrNoObserveTarget is returned by ObserveMutations when the document has
// neither a body nor a documentElement yet.
var ErrNoObserveTarget = errors.New("no mutation observer target")

// ElementRef is an opaque, page-scoped handle to a DOM element.
// The zero value refers to no element.
type ElementRef string

// VideoElement is a video element together with its rendered bounding box.
type VideoElement struct {
	Ref  ElementRef  `json:"ref"`
	Rect entity.Rect `json:"rect"`
}

// Page is the document a transform engine drives.
// The DOM is shared with the host page's own scripts, so any reference may be
// detached between two calls. Implementations report that with ErrDetached.
type Page interface {
	// Videos returns every video element currently in the document, in document order.
	Videos(ctx context.Context) ([]VideoElement, error)

	// IsAttached reports whether ref still resolves to a node attached to the document.
	IsAttached(ctx context.Context, ref ElementRef) (bool, error)

	// Ancestors returns up to limit parent elements of ref, nearest first.
	Ancestors(ctx context.Context, ref ElementRef, limit int) ([]ElementRef, error)

	// SetInlineStyle sets an !important inline style property on ref.
	SetInlineStyle(ctx context.Context, ref ElementRef, property, value string) error

	// RemoveInlineStyle removes inline style properties from ref.
	RemoveInlineStyle(ctx context.Context, ref ElementRef, properties ...string) error

	// InjectStyleSheet inserts a style element with the given id, replacing the
	// content of an existing one.
	InjectStyleSheet(ctx context.Context, id, css string) error

	// RemoveStyleSheet removes the style element with the given id, if any.
	RemoveStyleSheet(ctx context.Context, id string) error

	// ObserveMutations starts a subtree childList observer over the body (or the
	// documentElement). Calling it again once observing is a no-op.
	ObserveMutations(ctx context.Context) error
}
