package transform

import (
	"context"
	"errors"
	"time"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// State is a snapshot of an engine.
type State struct {
	Enabled bool
	Zoom    float64
	Tracked port.ElementRef
	Applied bool
}

// pendingTask is a scheduled callback that can be cancelled.
type pendingTask struct {
	stop func() bool
}

// Engine owns the applied style state of one page context.
//
// Engine is not safe for concurrent use. Every method, event and deferred
// callback must run on the same goroutine (see Runner).
type Engine struct {
	page  port.Page
	sched Scheduler
	opts  Options

	enabled bool
	zoom    float64

	// Applied style state. tracked is empty when nothing is applied to a video.
	tracked     port.ElementRef
	ancestors   []port.ElementRef
	applied     bool
	appliedZoom float64

	// generation is bumped by every state-changing Configure and by Retract.
	// Deferred callbacks capture it and drop themselves when it moved.
	generation uint64
	retry      *pendingTask

	watcher *mutationWatcher
}

// NewEngine creates a disabled engine with the default zoom.
func NewEngine(page port.Page, sched Scheduler, opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		page:  page,
		sched: sched,
		opts:  opts,
		zoom:  entity.ZoomDefault,
	}
	e.watcher = newMutationWatcher(page, sched, opts.ObserverRetry, func() bool { return e.enabled })
	return e
}

// State returns the current engine state.
func (e *Engine) State() State {
	return State{
		Enabled: e.enabled,
		Zoom:    e.zoom,
		Tracked: e.tracked,
		Applied: e.applied,
	}
}

// Configure sets the enabled flag and zoom factor. Repeating the current values
// is a no-op. Enabling, or changing the zoom while enabled, reconverges;
// disabling retracts.
func (e *Engine) Configure(ctx context.Context, enabled bool, zoom float64) {
	zoom = entity.ClampZoom(zoom)
	if enabled == e.enabled && zoom == e.zoom {
		return
	}

	wasEnabled := e.enabled
	e.enabled = enabled
	e.zoom = zoom
	e.bump()

	logging.FromContext(ctx).Debug().
		Bool("enabled", enabled).
		Float64("zoom", zoom).
		Uint64("generation", e.generation).
		Msg("engine configured")

	switch {
	case enabled:
		e.converge(ctx, reasonConfigure, "")
	case wasEnabled:
		e.retract(ctx)
	}
}

// Reconverge locates the best candidate and applies the transform to it.
// When no video exists yet, a retry is scheduled and the mutation watcher armed.
func (e *Engine) Reconverge(ctx context.Context) {
	e.converge(ctx, reasonConfigure, "")
}

// Retract removes every style the engine applied and forgets the tracked video.
// It is safe to call when nothing is applied.
func (e *Engine) Retract(ctx context.Context) {
	e.bump()
	e.retract(ctx)
}

// HandleEvent reacts to a page signal. Events are ignored while disabled.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) {
	if !e.enabled {
		return
	}

	switch ev.Kind {
	case EventMutation:
		e.converge(ctx, reasonMutation, "")
	case EventFullscreenChange:
		// Fullscreen often swaps the rendering surface without a subtree mutation.
		e.after(ctx, e.opts.FullscreenDelay, reasonFullscreen, "")
	case EventLoadedMetadata:
		if ev.Target != "" {
			e.converge(ctx, reasonLoadedMetadata, ev.Target)
		}
	case EventPlay:
		if ev.Target != "" {
			e.after(ctx, e.opts.PlayDelay, reasonPlay, ev.Target)
		}
	}
}

// converge is the single entry point every trigger funnels into.
func (e *Engine) converge(ctx context.Context, why reason, hint port.ElementRef) {
	if !e.enabled {
		return
	}
	log := logging.FromContext(ctx)

	e.watcher.arm(ctx)

	if why == reasonRetry && e.converged(ctx) {
		log.Debug().Msg("retry skipped, already converged")
		return
	}

	candidate, found := e.candidate(ctx, hint)
	if !found {
		if e.tracked != "" && !e.attached(ctx, e.tracked) {
			log.Debug().Str("ref", string(e.tracked)).Msg("tracked video detached")
			e.retract(ctx)
		}
		e.scheduleRetry(ctx)
		return
	}

	// Unrelated DOM churn must not re-apply.
	if why == reasonMutation && candidate == e.tracked && e.converged(ctx) {
		return
	}

	log.Debug().
		Str("reason", string(why)).
		Str("ref", string(candidate)).
		Msg("applying transform")
	e.apply(ctx, candidate)
}

// candidate prefers the hinted video when it is still attached, and falls back
// to the largest video on the page.
func (e *Engine) candidate(ctx context.Context, hint port.ElementRef) (port.ElementRef, bool) {
	if hint != "" && e.attached(ctx, hint) {
		return hint, true
	}

	videos, err := e.page.Videos(ctx)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("video query failed")
		return "", false
	}
	v, ok := LocateVideoCandidate(videos)
	return v.Ref, ok
}

// converged reports whether the applied state matches the current settings and
// the tracked video is still attached.
func (e *Engine) converged(ctx context.Context) bool {
	return e.applied &&
		e.tracked != "" &&
		e.appliedZoom == e.zoom &&
		e.attached(ctx, e.tracked)
}

func (e *Engine) attached(ctx context.Context, ref port.ElementRef) bool {
	ok, err := e.page.IsAttached(ctx, ref)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("ref", string(ref)).Msg("attachment check failed")
		return false
	}
	return ok
}

func (e *Engine) apply(ctx context.Context, ref port.ElementRef) {
	log := logging.FromContext(ctx)

	// Never stack transforms: the previous video is fully released first.
	if ref != e.tracked {
		e.retract(ctx)
	}
	e.cancelRetry()

	if err := e.page.InjectStyleSheet(ctx, e.opts.StyleSheetID, StyleSheet(e.zoom)); err != nil {
		log.Debug().Err(err).Msg("style sheet injection failed")
	}

	if err := e.page.SetInlineStyle(ctx, ref, propTransform, TransformValue(e.zoom)); err != nil {
		if errors.Is(err, port.ErrDetached) {
			e.retract(ctx)
			e.scheduleRetry(ctx)
			return
		}
		log.Debug().Err(err).Msg("inline transform failed")
	}
	if err := e.page.SetInlineStyle(ctx, ref, propTransformOrigin, transformOrigin); err != nil {
		log.Debug().Err(err).Msg("inline transform-origin failed")
	}

	ancestors, err := e.page.Ancestors(ctx, ref, e.opts.AncestorDepth)
	if err != nil {
		log.Debug().Err(err).Msg("ancestor walk failed")
	}
	if len(ancestors) > e.opts.AncestorDepth {
		ancestors = ancestors[:e.opts.AncestorDepth]
	}

	// Re-applying to the same video: release containers that left its chain.
	for _, old := range e.ancestors {
		if !containsRef(ancestors, old) {
			e.clear(ctx, old, propOverflow)
		}
	}
	for _, a := range ancestors {
		if err := e.page.SetInlineStyle(ctx, a, propOverflow, overflowHidden); err != nil {
			log.Debug().Err(err).Str("ref", string(a)).Msg("ancestor overflow failed")
		}
	}

	e.tracked = ref
	e.ancestors = ancestors
	e.applied = true
	e.appliedZoom = e.zoom
}

// retract releases the applied style state without touching the generation.
func (e *Engine) retract(ctx context.Context) {
	if err := e.page.RemoveStyleSheet(ctx, e.opts.StyleSheetID); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("style sheet removal failed")
	}
	if e.tracked != "" {
		e.clear(ctx, e.tracked, propTransform, propTransformOrigin)
	}
	for _, a := range e.ancestors {
		e.clear(ctx, a, propOverflow)
	}

	e.tracked = ""
	e.ancestors = nil
	e.applied = false
	e.appliedZoom = 0
}

func (e *Engine) clear(ctx context.Context, ref port.ElementRef, props ...string) {
	err := e.page.RemoveInlineStyle(ctx, ref, props...)
	if err != nil && !errors.Is(err, port.ErrDetached) {
		logging.FromContext(ctx).Debug().Err(err).Str("ref", string(ref)).Msg("inline style removal failed")
	}
}

// bump invalidates every deferred callback scheduled so far.
func (e *Engine) bump() {
	e.generation++
	e.cancelRetry()
}

// scheduleRetry keeps at most one backoff retry pending.
func (e *Engine) scheduleRetry(ctx context.Context) {
	if e.retry != nil {
		return
	}
	gen := e.generation
	task := &pendingTask{}
	task.stop = e.sched.AfterFunc(e.opts.RetryInterval, func() {
		if e.retry == task {
			e.retry = nil
		}
		if gen != e.generation {
			return
		}
		e.converge(ctx, reasonRetry, "")
	})
	e.retry = task
}

func (e *Engine) cancelRetry() {
	if e.retry == nil {
		return
	}
	e.retry.stop()
	e.retry = nil
}

// after defers a converge, dropping it if the generation moved meanwhile.
func (e *Engine) after(ctx context.Context, d time.Duration, why reason, hint port.ElementRef) {
	gen := e.generation
	e.sched.AfterFunc(d, func() {
		if gen != e.generation {
			return
		}
		e.converge(ctx, why, hint)
	})
}

func containsRef(refs []port.ElementRef, ref port.ElementRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
