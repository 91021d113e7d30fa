// Package cdp drives browser tabs over the Chrome DevTools Protocol. It
// installs a page agent into every document and adapts it to port.Page.
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jayseik/cinefill/internal/application/port"
)

const defaultCallTimeout = 5 * time.Second

const (
	agentErrDetached = "detached"
	agentErrNoTarget = "no-target"
)

// ErrAgentMissing is returned when the document has no agent installed yet.
var ErrAgentMissing = errors.New("page agent not installed")

// agentResult is the envelope every agent helper returns.
type agentResult struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error"`
	Value json.RawMessage `json:"value"`
}

// Page implements port.Page for one tab by evaluating agent helpers.
type Page struct {
	tabCtx  context.Context
	timeout time.Duration
}

var _ port.Page = (*Page)(nil)

// NewPage wraps a chromedp context attached to a tab.
func NewPage(tabCtx context.Context, timeout time.Duration) *Page {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &Page{tabCtx: tabCtx, timeout: timeout}
}

func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(p.tabCtx, p.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// call evaluates window.__cinefill.<method>(args...) and decodes its value into out.
func (p *Page) call(ctx context.Context, out any, method string, args ...any) error {
	encoded := make([]string, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("%s: encode argument: %w", method, err)
		}
		encoded[i] = string(b)
	}
	expr := fmt.Sprintf(
		"window.__cinefill ? window.__cinefill.%s(%s) : {ok: false, error: 'missing'}",
		method, strings.Join(encoded, ","),
	)

	var res agentResult
	if err := p.run(ctx, chromedp.Evaluate(expr, &res)); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if !res.OK {
		switch res.Error {
		case agentErrDetached:
			return port.ErrDetached
		case agentErrNoTarget:
			return port.ErrNoObserveTarget
		case "missing":
			return ErrAgentMissing
		default:
			return fmt.Errorf("%s: %s", method, res.Error)
		}
	}
	if out == nil || len(res.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(res.Value, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// Videos implements port.Page.
func (p *Page) Videos(ctx context.Context) ([]port.VideoElement, error) {
	var videos []port.VideoElement
	if err := p.call(ctx, &videos, "videos"); err != nil {
		return nil, err
	}
	return videos, nil
}

// IsAttached implements port.Page.
func (p *Page) IsAttached(ctx context.Context, ref port.ElementRef) (bool, error) {
	var attached bool
	if err := p.call(ctx, &attached, "attached", string(ref)); err != nil {
		return false, err
	}
	return attached, nil
}

// Ancestors implements port.Page.
func (p *Page) Ancestors(ctx context.Context, ref port.ElementRef, limit int) ([]port.ElementRef, error) {
	var refs []port.ElementRef
	if err := p.call(ctx, &refs, "ancestors", string(ref), limit); err != nil {
		return nil, err
	}
	return refs, nil
}

// SetInlineStyle implements port.Page.
func (p *Page) SetInlineStyle(ctx context.Context, ref port.ElementRef, property, value string) error {
	return p.call(ctx, nil, "setStyle", string(ref), property, value)
}

// RemoveInlineStyle implements port.Page.
func (p *Page) RemoveInlineStyle(ctx context.Context, ref port.ElementRef, properties ...string) error {
	if properties == nil {
		properties = []string{}
	}
	return p.call(ctx, nil, "removeStyle", string(ref), properties)
}

// InjectStyleSheet implements port.Page.
func (p *Page) InjectStyleSheet(ctx context.Context, id, css string) error {
	return p.call(ctx, nil, "injectSheet", id, css)
}

// RemoveStyleSheet implements port.Page.
func (p *Page) RemoveStyleSheet(ctx context.Context, id string) error {
	return p.call(ctx, nil, "removeSheet", id)
}

// ObserveMutations implements port.Page.
func (p *Page) ObserveMutations(ctx context.Context) error {
	return p.call(ctx, nil, "observe")
}
