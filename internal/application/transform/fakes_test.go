package transform

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
)

type fakeNode struct {
	parent   port.ElementRef
	video    bool
	attached bool
	rect     entity.Rect
	styles   map[string]string
}

// fakePage is an in-memory DOM with just enough structure for the engine.
type fakePage struct {
	nodes  map[port.ElementRef]*fakeNode
	order  []port.ElementRef
	sheets map[string]string

	observeErrs  []error
	observeCalls int
	observed     int
	styleWrites int
	videosErr   error
}

func newFakePage() *fakePage {
	p := &fakePage{
		nodes:  make(map[port.ElementRef]*fakeNode),
		sheets: make(map[string]string),
	}
	p.addNode("body", "", false, entity.Rect{})
	return p
}

func (p *fakePage) addNode(ref, parent port.ElementRef, video bool, rect entity.Rect) {
	p.nodes[ref] = &fakeNode{
		parent:   parent,
		video:    video,
		attached: true,
		rect:     rect,
		styles:   make(map[string]string),
	}
	p.order = append(p.order, ref)
}

func (p *fakePage) addDiv(ref, parent port.ElementRef) {
	p.addNode(ref, parent, false, entity.Rect{})
}

func (p *fakePage) addVideo(ref, parent port.ElementRef, w, h float64) {
	p.addNode(ref, parent, true, entity.Rect{Width: w, Height: h})
}

// detach removes ref from the document. Descendants are detached too.
func (p *fakePage) detach(ref port.ElementRef) {
	p.nodes[ref].attached = false
	for r, n := range p.nodes {
		if n.parent == ref {
			p.detach(r)
		}
	}
}

func (p *fakePage) style(ref port.ElementRef, prop string) string {
	return p.nodes[ref].styles[prop]
}

// styled lists every element carrying any inline property.
func (p *fakePage) styled() []port.ElementRef {
	var out []port.ElementRef
	for ref, n := range p.nodes {
		if len(n.styles) > 0 {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p *fakePage) Videos(context.Context) ([]port.VideoElement, error) {
	if p.videosErr != nil {
		return nil, p.videosErr
	}
	var out []port.VideoElement
	for _, ref := range p.order {
		n := p.nodes[ref]
		if n.video && n.attached {
			out = append(out, port.VideoElement{Ref: ref, Rect: n.rect})
		}
	}
	return out, nil
}

func (p *fakePage) IsAttached(_ context.Context, ref port.ElementRef) (bool, error) {
	n, ok := p.nodes[ref]
	return ok && n.attached, nil
}

func (p *fakePage) Ancestors(_ context.Context, ref port.ElementRef, limit int) ([]port.ElementRef, error) {
	n, ok := p.nodes[ref]
	if !ok || !n.attached {
		return nil, port.ErrDetached
	}
	var out []port.ElementRef
	for cur := n.parent; cur != "" && len(out) < limit; cur = p.nodes[cur].parent {
		out = append(out, cur)
	}
	return out, nil
}

func (p *fakePage) SetInlineStyle(_ context.Context, ref port.ElementRef, property, value string) error {
	n, ok := p.nodes[ref]
	if !ok || !n.attached {
		return port.ErrDetached
	}
	p.styleWrites++
	n.styles[property] = value
	return nil
}

func (p *fakePage) RemoveInlineStyle(_ context.Context, ref port.ElementRef, properties ...string) error {
	n, ok := p.nodes[ref]
	if !ok {
		return port.ErrDetached
	}
	// Detached nodes keep their styles; they are gone from the document anyway.
	if !n.attached {
		return port.ErrDetached
	}
	for _, prop := range properties {
		delete(n.styles, prop)
	}
	return nil
}

func (p *fakePage) InjectStyleSheet(_ context.Context, id, css string) error {
	p.sheets[id] = css
	return nil
}

func (p *fakePage) RemoveStyleSheet(_ context.Context, id string) error {
	delete(p.sheets, id)
	return nil
}

func (p *fakePage) ObserveMutations(context.Context) error {
	p.observeCalls++
	if len(p.observeErrs) > 0 {
		err := p.observeErrs[0]
		p.observeErrs = p.observeErrs[1:]
		return err
	}
	p.observed++
	return nil
}

var errPageGone = errors.New("page gone")

type fakeTimer struct {
	due     time.Duration
	seq     int
	f       func()
	stopped bool
}

// fakeScheduler is a manual clock. Callbacks run from Advance on the test
// goroutine, which mirrors the Runner delivering them on the engine goroutine.
type fakeScheduler struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer

	// ignoreStop simulates a timer that already fired and is queued behind the
	// caller: stop reports failure and the callback still runs.
	ignoreStop bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.seq++
	t := &fakeTimer{due: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return func() bool {
		if s.ignoreStop || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// Advance moves the clock forward and fires every due timer in order,
// including timers scheduled by callbacks within the window.
func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.next(target)
		if next == nil {
			break
		}
		s.now = next.due
		next.stopped = true
		next.f()
	}
	s.now = target
}

func (s *fakeScheduler) next(limit time.Duration) *fakeTimer {
	var best *fakeTimer
	keep := s.timers[:0]
	for _, t := range s.timers {
		if t.stopped {
			continue
		}
		keep = append(keep, t)
		if t.due > limit {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	s.timers = keep
	return best
}

// pending counts timers that have neither fired nor been stopped.
func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
