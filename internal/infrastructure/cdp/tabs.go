package cdp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	cdpproto "github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/jayseik/cinefill/internal/app/messaging"
	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/application/transform"
	"github.com/jayseik/cinefill/internal/domain/entity"
	domainurl "github.com/jayseik/cinefill/internal/domain/url"
	"github.com/jayseik/cinefill/internal/logging"
)

const targetTypePage = "page"

// SettingsResolver yields the effective settings for a domain.
type SettingsResolver interface {
	Resolve(ctx context.Context, domain string) (entity.Settings, error)
}

// ShortcutHandler runs when the toggle chord is pressed in a page.
type ShortcutHandler interface {
	Execute(ctx context.Context) (bool, error)
}

// SupervisorConfig configures a Supervisor.
type SupervisorConfig struct {
	Engine      transform.Options
	Shortcut    Chord
	CallTimeout time.Duration
	Debounce    time.Duration
}

type tab struct {
	id   string
	page port.Page
	// chromedp closes the target of a cancelled tab context, so cancel only
	// runs once the browser reports the tab destroyed.
	cancel context.CancelFunc
	// release drops the daemon's session and leaves the tab open.
	release func()

	mu      sync.Mutex
	url     string
	nav     uint64
	session *transform.Session
}

func (t *tab) current() (*transform.Session, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session, t.url
}

// Supervisor attaches to every page target of a browser and keeps one engine
// context per loaded document. It routes commands to the active tab.
type Supervisor struct {
	browserCtx context.Context
	resolver   SettingsResolver
	handler    *messaging.Handler
	dedup      *messaging.EventDeduplicator
	cfg        SupervisorConfig
	agent      string

	mu       sync.RWMutex
	tabs     map[string]*tab
	idle     map[string]context.CancelFunc
	active   string
	shortcut ShortcutHandler
}

// NewSupervisor creates a supervisor for the browser behind browserCtx.
func NewSupervisor(browserCtx context.Context, resolver SettingsResolver, cfg SupervisorConfig) *Supervisor {
	if cfg.Debounce <= 0 {
		cfg.Debounce = messaging.DefaultDebounceWindow
	}
	return &Supervisor{
		browserCtx: browserCtx,
		resolver:   resolver,
		handler:    messaging.NewHandler(),
		dedup:      messaging.NewEventDeduplicator(cfg.Debounce),
		cfg:        cfg,
		agent:      AgentScript(cfg.Shortcut),
		tabs:       make(map[string]*tab),
		idle:       make(map[string]context.CancelFunc),
	}
}

// SetShortcutHandler wires the in-page toggle shortcut.
func (s *Supervisor) SetShortcutHandler(h ShortcutHandler) {
	s.mu.Lock()
	s.shortcut = h
	s.mu.Unlock()
}

// Run attaches to existing and future tabs until ctx is cancelled, then
// retracts every engine context and detaches from the tabs, leaving them open.
func (s *Supervisor) Run(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "tabs")
	log := logging.FromContext(ctx)

	chromedp.ListenBrowser(s.browserCtx, func(ev any) {
		switch e := ev.(type) {
		case *target.EventTargetCreated:
			if e.TargetInfo.Type == targetTypePage {
				go s.attach(ctx, string(e.TargetInfo.TargetID))
			}
		case *target.EventTargetDestroyed:
			go s.detach(ctx, string(e.TargetID), true)
		}
	})

	var targets []*target.Info
	if err := chromedp.Run(s.browserCtx, chromedp.ActionFunc(func(c context.Context) error {
		exec := cdpproto.WithExecutor(c, chromedp.FromContext(c).Browser)
		if err := target.SetDiscoverTargets(true).Do(exec); err != nil {
			return err
		}
		var err error
		targets, err = target.GetTargets().Do(exec)
		return err
	})); err != nil {
		return fmt.Errorf("discover targets: %w", err)
	}

	for _, info := range targets {
		if info.Type == targetTypePage {
			go s.attach(ctx, string(info.TargetID))
		}
	}
	log.Info().Int("targets", len(targets)).Msg("tab supervisor started")

	<-ctx.Done()
	s.shutdown()
	return nil
}

func (s *Supervisor) attach(ctx context.Context, id string) {
	s.mu.Lock()
	if _, ok := s.tabs[id]; ok {
		s.mu.Unlock()
		return
	}
	// The tab belongs to the user. Its context must outlive browserCtx:
	// cancelling it, directly or through a parent, closes the tab.
	tabCtx, cancel := chromedp.NewContext(context.WithoutCancel(s.browserCtx), chromedp.WithTargetID(target.ID(id)))
	t := &tab{
		id:      id,
		page:    NewPage(tabCtx, s.cfg.CallTimeout),
		cancel:  cancel,
		release: func() { detachSession(tabCtx) },
	}
	s.tabs[id] = t
	if s.active == "" {
		s.active = id
	}
	s.mu.Unlock()

	ctx = logging.WithTabID(ctx, id)
	log := logging.FromContext(ctx)

	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *runtime.EventBindingCalled:
			if e.Name == bindingName {
				s.onSignal(ctx, t, e.Payload)
			}
		case *page.EventFrameNavigated:
			if e.Frame.ParentID == "" {
				go s.navigated(ctx, t, e.Frame.URL)
			}
		case *page.EventNavigatedWithinDocument:
			t.mu.Lock()
			t.url = e.URL
			t.mu.Unlock()
		}
	})

	var url string
	err := chromedp.Run(tabCtx,
		runtime.Enable(),
		page.Enable(),
		runtime.AddBinding(bindingName),
		chromedp.ActionFunc(func(c context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(s.agent).Do(c)
			return err
		}),
		chromedp.Evaluate(s.agent, nil),
		chromedp.Location(&url),
	)
	if err != nil {
		log.Debug().Err(err).Msg("attach failed")
		s.detach(ctx, id, false)
		return
	}
	log.Debug().Str("url", url).Msg("tab attached")
	s.navigated(ctx, t, url)
}

// detach forgets the tab. A destroyed tab has its context cancelled; a live
// one only loses the daemon's session and keeps its context until the browser
// destroys it.
func (s *Supervisor) detach(ctx context.Context, id string, destroyed bool) {
	s.mu.Lock()
	t, ok := s.tabs[id]
	if ok {
		delete(s.tabs, id)
		if s.active == id {
			s.active = s.anyTabLocked()
		}
	}
	idle := s.idle[id]
	switch {
	case destroyed:
		delete(s.idle, id)
	case ok && t.cancel != nil:
		s.idle[id] = t.cancel
	}
	s.mu.Unlock()
	if destroyed && idle != nil {
		idle()
	}
	if !ok {
		return
	}

	t.mu.Lock()
	sess := t.session
	t.session = nil
	t.nav++
	t.mu.Unlock()
	if sess != nil {
		sess.Abandon()
	}
	s.dedup.Forget(id)
	switch {
	case destroyed && t.cancel != nil:
		t.cancel()
	case !destroyed && t.release != nil:
		t.release()
	}
	logging.FromContext(ctx).Debug().Str("tab_id", id).Bool("destroyed", destroyed).Msg("tab detached")
}

// detachSession ends the CDP session on the tab behind tabCtx. The tab stays
// open in the browser.
func detachSession(tabCtx context.Context) {
	c := chromedp.FromContext(tabCtx)
	if c == nil || c.Target == nil || c.Target.SessionID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = target.DetachFromTarget().WithSessionID(c.Target.SessionID).Do(cdpproto.WithExecutor(ctx, c.Browser))
}

func (s *Supervisor) anyTabLocked() string {
	ids := make([]string, 0, len(s.tabs))
	for id := range s.tabs {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)
	return ids[0]
}

// navigated replaces the engine context of t for the document now at url.
func (s *Supervisor) navigated(ctx context.Context, t *tab, url string) {
	t.mu.Lock()
	t.nav++
	nav := t.nav
	old := t.session
	t.session = nil
	t.url = url
	t.mu.Unlock()
	if old != nil {
		old.Abandon()
	}

	domain := domainurl.NormalizeDomain(url)
	if domain == "" {
		return
	}

	log := logging.FromContext(ctx)
	settings, err := s.resolver.Resolve(ctx, domain)
	if err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("resolve settings failed, using defaults")
		settings = entity.DefaultSettings()
	}

	sess := transform.NewSession(ctx, t.page, url, domain, s.cfg.Engine)
	t.mu.Lock()
	if t.nav != nav {
		t.mu.Unlock()
		sess.Abandon()
		return
	}
	t.session = sess
	t.mu.Unlock()

	if err := sess.Configure(ctx, settings); err != nil {
		log.Debug().Err(err).Msg("configure engine failed")
	}
}

func (s *Supervisor) onSignal(ctx context.Context, t *tab, payload string) {
	var sig signal
	if err := json.Unmarshal([]byte(payload), &sig); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("malformed page signal")
		return
	}

	switch sig.Kind {
	case signalActivate:
		s.setActive(t.id)
	case signalShortcut:
		s.setActive(t.id)
		if s.dedup.IsDuplicate(t.id, sig.Kind) {
			return
		}
		go s.runShortcut(ctx)
	default:
		sess, _ := t.current()
		if sess == nil {
			return
		}
		sess.Dispatch(transform.Event{
			Kind:   transform.EventKind(sig.Kind),
			Target: port.ElementRef(sig.Target),
		})
	}
}

func (s *Supervisor) runShortcut(ctx context.Context) {
	s.mu.RLock()
	h := s.shortcut
	s.mu.RUnlock()
	if h == nil {
		return
	}
	enabled, err := h.Execute(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("shortcut toggle failed")
		return
	}
	logging.FromContext(ctx).Info().Bool("enabled", enabled).Msg("toggled from shortcut")
}

func (s *Supervisor) setActive(id string) {
	s.mu.Lock()
	if _, ok := s.tabs[id]; ok {
		s.active = id
	}
	s.mu.Unlock()
}

func (s *Supervisor) lookup(tabID string) (*tab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tabID == "" {
		tabID = s.active
	}
	t, ok := s.tabs[tabID]
	if !ok {
		return nil, port.ErrNoEngine
	}
	return t, nil
}

// Dispatch delivers cmd to the engine context of tabID, or of the active tab
// when tabID is empty.
func (s *Supervisor) Dispatch(ctx context.Context, tabID string, cmd entity.Command) (*entity.CommandResponse, error) {
	t, err := s.lookup(tabID)
	if err != nil {
		return nil, err
	}
	sess, _ := t.current()
	if sess == nil {
		return nil, port.ErrNoEngine
	}
	ctx = logging.WithTabID(ctx, t.id)
	resp := s.handler.Handle(ctx, sess, sess.Domain, cmd)
	return &resp, nil
}

// Send implements port.CommandSender against the active tab.
func (s *Supervisor) Send(ctx context.Context, cmd entity.Command) (*entity.CommandResponse, error) {
	return s.Dispatch(ctx, "", cmd)
}

// Tabs lists attached tabs ordered by id.
func (s *Supervisor) Tabs(ctx context.Context) []entity.TabInfo {
	s.mu.RLock()
	tabs := make([]*tab, 0, len(s.tabs))
	for _, t := range s.tabs {
		tabs = append(tabs, t)
	}
	active := s.active
	s.mu.RUnlock()

	sort.Slice(tabs, func(i, j int) bool { return tabs[i].id < tabs[j].id })

	out := make([]entity.TabInfo, 0, len(tabs))
	for _, t := range tabs {
		sess, url := t.current()
		info := entity.TabInfo{
			ID:     entity.TabID(t.id),
			URL:    url,
			Domain: domainurl.NormalizeDomain(url),
			Active: t.id == active,
		}
		if sess != nil {
			if st, err := sess.State(ctx); err == nil {
				info.Engine = true
				info.Enabled = st.Enabled
				info.Zoom = st.Zoom
				info.Tracking = st.Tracked != ""
			}
		}
		out = append(out, info)
	}
	return out
}

func (s *Supervisor) shutdown() {
	s.mu.Lock()
	tabs := make([]*tab, 0, len(s.tabs))
	for _, t := range s.tabs {
		tabs = append(tabs, t)
	}
	s.tabs = make(map[string]*tab)
	s.idle = make(map[string]context.CancelFunc)
	s.active = ""
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, t := range tabs {
		t.mu.Lock()
		sess := t.session
		t.session = nil
		t.nav++
		t.mu.Unlock()
		if sess != nil {
			sess.Close(ctx)
		}
		if t.release != nil {
			t.release()
		}
	}
}
