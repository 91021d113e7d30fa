package cdp

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
)

type stubPage struct{}

func (stubPage) Videos(context.Context) ([]port.VideoElement, error) { return nil, nil }
func (stubPage) IsAttached(context.Context, port.ElementRef) (bool, error) {
	return false, nil
}
func (stubPage) Ancestors(context.Context, port.ElementRef, int) ([]port.ElementRef, error) {
	return nil, nil
}
func (stubPage) SetInlineStyle(context.Context, port.ElementRef, string, string) error {
	return nil
}
func (stubPage) RemoveInlineStyle(context.Context, port.ElementRef, ...string) error {
	return nil
}
func (stubPage) InjectStyleSheet(context.Context, string, string) error { return nil }
func (stubPage) RemoveStyleSheet(context.Context, string) error       { return nil }
func (stubPage) ObserveMutations(context.Context) error               { return nil }

// gatedResolver holds Resolve for the slow domain until release is closed.
type gatedResolver struct {
	settings entity.Settings
	slow     string
	entered  chan struct{}
	release  chan struct{}
}

func (r *gatedResolver) Resolve(_ context.Context, domain string) (entity.Settings, error) {
	if domain == r.slow {
		close(r.entered)
		<-r.release
	}
	return r.settings, nil
}

type tabCalls struct {
	released  atomic.Int32
	cancelled atomic.Int32
}

func newTestSupervisor(t *testing.T, resolver SettingsResolver) *Supervisor {
	t.Helper()
	s := NewSupervisor(context.Background(), resolver, SupervisorConfig{})
	t.Cleanup(s.shutdown)
	return s
}

func addTab(s *Supervisor, id string) (*tab, *tabCalls) {
	calls := &tabCalls{}
	tb := &tab{
		id:      id,
		page:    stubPage{},
		cancel:  func() { calls.cancelled.Add(1) },
		release: func() { calls.released.Add(1) },
	}
	s.mu.Lock()
	s.tabs[id] = tb
	if s.active == "" {
		s.active = id
	}
	s.mu.Unlock()
	return tb, calls
}

func TestSupervisor_LookupFallsBackToActive(t *testing.T) {
	s := newTestSupervisor(t, &gatedResolver{})
	addTab(s, "t1")
	addTab(s, "t2")
	s.setActive("t2")

	got, err := s.lookup("")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.id)

	got, err = s.lookup("t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.id)

	_, err = s.lookup("missing")
	assert.ErrorIs(t, err, port.ErrNoEngine)

	s.setActive("missing")
	got, err = s.lookup("")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.id, "unknown ids never become active")
}

func TestSupervisor_DispatchWithoutEngine(t *testing.T) {
	s := newTestSupervisor(t, &gatedResolver{})

	_, err := s.Send(context.Background(), entity.Command{Action: entity.ActionGetState})
	assert.ErrorIs(t, err, port.ErrNoEngine, "no tabs")

	addTab(s, "t1")
	_, err = s.Send(context.Background(), entity.Command{Action: entity.ActionGetState})
	assert.ErrorIs(t, err, port.ErrNoEngine, "tab without a loaded document")
}

func TestSupervisor_DispatchReachesActiveEngine(t *testing.T) {
	ctx := context.Background()
	s := newTestSupervisor(t, &gatedResolver{settings: entity.Settings{Enabled: true, Zoom: 1.5}})
	t1, _ := addTab(s, "t1")
	addTab(s, "t2")

	s.navigated(ctx, t1, "https://www.youtube.com/watch?v=1")

	resp, err := s.Dispatch(ctx, "", entity.Command{Action: entity.ActionGetSiteState})
	require.NoError(t, err)
	assert.Equal(t, entity.CommandResponse{Success: true, Enabled: true, Zoom: 1.5, Domain: "youtube.com"}, *resp)

	_, err = s.Dispatch(ctx, "t2", entity.Command{Action: entity.ActionGetState})
	assert.ErrorIs(t, err, port.ErrNoEngine)

	tabs := s.Tabs(ctx)
	require.Len(t, tabs, 2)
	assert.Equal(t, entity.TabInfo{
		ID:      "t1",
		URL:     "https://www.youtube.com/watch?v=1",
		Domain:  "youtube.com",
		Active:  true,
		Engine:  true,
		Enabled: true,
		Zoom:    1.5,
	}, tabs[0])
	assert.Equal(t, entity.TabID("t2"), tabs[1].ID)
	assert.False(t, tabs[1].Engine)
}

func TestSupervisor_NavigatedKeepsLatestDocument(t *testing.T) {
	ctx := context.Background()
	res := &gatedResolver{
		settings: entity.Settings{Enabled: false, Zoom: 1.33},
		slow:     "slow.example",
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	s := newTestSupervisor(t, res)
	tb, _ := addTab(s, "t1")

	done := make(chan struct{})
	go func() {
		s.navigated(ctx, tb, "https://slow.example/a")
		close(done)
	}()

	select {
	case <-res.entered:
	case <-time.After(time.Second):
		t.Fatal("first navigation never resolved settings")
	}
	s.navigated(ctx, tb, "https://fast.example/b")
	close(res.release)
	<-done

	sess, url := tb.current()
	require.NotNil(t, sess)
	assert.Equal(t, "fast.example", sess.Domain)
	assert.Equal(t, "https://fast.example/b", url)
}

func TestSupervisor_NavigatedSkipsNonWebPages(t *testing.T) {
	s := newTestSupervisor(t, &gatedResolver{})
	tb, _ := addTab(s, "t1")

	s.navigated(context.Background(), tb, "chrome://newtab/")

	sess, url := tb.current()
	assert.Nil(t, sess)
	assert.Equal(t, "chrome://newtab/", url)
}

func TestSupervisor_DetachLeavesLiveTabsOpen(t *testing.T) {
	ctx := context.Background()
	s := newTestSupervisor(t, &gatedResolver{settings: entity.Settings{Zoom: 1.33}})
	t1, c1 := addTab(s, "t1")
	_, c2 := addTab(s, "t2")
	s.navigated(ctx, t1, "https://example.com/")

	s.detach(ctx, "t1", false)
	assert.Equal(t, int32(1), c1.released.Load())
	assert.Zero(t, c1.cancelled.Load())
	sess, _ := t1.current()
	assert.Nil(t, sess)

	got, err := s.lookup("")
	require.NoError(t, err)
	assert.Equal(t, "t2", got.id, "active moves to a remaining tab")

	// The context of a released tab is cancelled once the browser drops it.
	s.detach(ctx, "t1", true)
	assert.Equal(t, int32(1), c1.cancelled.Load())
	assert.Equal(t, int32(1), c1.released.Load())

	s.detach(ctx, "t2", true)
	assert.Equal(t, int32(1), c2.cancelled.Load())
	assert.Zero(t, c2.released.Load())

	_, err = s.lookup("")
	assert.ErrorIs(t, err, port.ErrNoEngine)
}

func TestSupervisor_ShutdownReleasesWithoutClosing(t *testing.T) {
	s := NewSupervisor(context.Background(), &gatedResolver{settings: entity.Settings{Enabled: true, Zoom: 1.33}}, SupervisorConfig{})
	t1, c1 := addTab(s, "t1")
	_, c2 := addTab(s, "t2")
	s.navigated(context.Background(), t1, "https://example.com/")

	s.shutdown()

	for _, c := range []*tabCalls{c1, c2} {
		assert.Equal(t, int32(1), c.released.Load())
		assert.Zero(t, c.cancelled.Load())
	}
	assert.Empty(t, s.Tabs(context.Background()))
	sess, _ := t1.current()
	assert.Nil(t, sess)
}
