package transform

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// Session is the goroutine-safe handle to one engine context. It owns a Runner
// and an Engine and lives as long as the page document it was created for.
type Session struct {
	ID     string
	URL    string
	Domain string

	ctx     context.Context
	cancel  context.CancelFunc
	runner  *Runner
	engine  *Engine
	created time.Time
}

// NewSession starts an engine context for the document at url. ctx bounds the
// session lifetime and carries the logger; all engine work uses it.
func NewSession(ctx context.Context, page port.Page, url, domain string, opts Options) *Session {
	id := uuid.NewString()
	ctx = logging.WithComponent(ctx, "transform")
	ctx = logging.WithDomain(ctx, domain)
	ctx = logging.WithSessionID(ctx, id)
	ctx, cancel := context.WithCancel(ctx)

	runner := NewRunner(0)
	return &Session{
		ID:      id,
		URL:     url,
		Domain:  domain,
		ctx:     ctx,
		cancel:  cancel,
		runner:  runner,
		engine:  NewEngine(page, runner, opts),
		created: time.Now(),
	}
}

// Created returns when the session started.
func (s *Session) Created() time.Time {
	return s.created
}

// Configure applies resolved settings to the engine.
func (s *Session) Configure(ctx context.Context, settings entity.Settings) error {
	return s.runner.Do(ctx, func() {
		s.engine.Configure(s.ctx, settings.Enabled, settings.Zoom)
	})
}

// Toggle sets the enabled flag and keeps the current zoom.
func (s *Session) Toggle(ctx context.Context, enabled bool) error {
	return s.runner.Do(ctx, func() {
		s.engine.Configure(s.ctx, enabled, s.engine.State().Zoom)
	})
}

// SetZoom changes the zoom factor and keeps the enabled flag.
func (s *Session) SetZoom(ctx context.Context, zoom float64) error {
	return s.runner.Do(ctx, func() {
		s.engine.Configure(s.ctx, s.engine.State().Enabled, zoom)
	})
}

// State returns a snapshot of the engine state.
func (s *Session) State(ctx context.Context) (State, error) {
	var st State
	err := s.runner.Do(ctx, func() {
		st = s.engine.State()
	})
	return st, err
}

// Dispatch queues a page event without blocking. Events are dropped when the
// queue is full; the next mutation batch or retry reconverges anyway.
func (s *Session) Dispatch(ev Event) bool {
	ok := s.runner.TryPost(func() {
		s.engine.HandleEvent(s.ctx, ev)
	})
	if !ok {
		logging.FromContext(s.ctx).Debug().Str("kind", string(ev.Kind)).Msg("page event dropped")
	}
	return ok
}

// Close retracts applied styles and stops the engine context. The retract is
// bounded by ctx rather than the session lifetime, so it still runs while the
// daemon shuts down. Errors from a page that is already gone are ignored.
func (s *Session) Close(ctx context.Context) {
	retractCtx := logging.WithContext(ctx, *logging.FromContext(s.ctx))
	_ = s.runner.Do(ctx, func() {
		s.engine.Retract(retractCtx)
	})
	s.cancel()
	s.runner.Stop()
}

// Abandon stops the engine context without touching the page. Used when the
// document it was created for has already been replaced.
func (s *Session) Abandon() {
	s.cancel()
	s.runner.Stop()
}
