package model

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/application/port"
	portmocks "github.com/jayseik/cinefill/internal/application/port/mocks"
	"github.com/jayseik/cinefill/internal/application/usecase"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/infrastructure/persistence/sqlite"
	"github.com/jayseik/cinefill/internal/logging"
)

type popupFixture struct {
	ctx      context.Context
	settings *usecase.ManageSettingsUseCase

	mu   sync.Mutex
	sent []entity.Command
}

func newPopupFixture(t *testing.T, domain string) (*popupFixture, PopupModel) {
	t.Helper()

	ctx := logging.WithContext(context.Background(), logging.NewFromConfigValues("debug", "console"))
	db, err := sqlite.NewConnection(ctx, filepath.Join(t.TempDir(), "cinefill.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &popupFixture{
		ctx:      ctx,
		settings: usecase.NewManageSettingsUseCase(sqlite.NewSettingsRepository(db), entity.DefaultSettings()),
	}

	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, mock.Anything).RunAndReturn(
		func(_ context.Context, cmd entity.Command) (*entity.CommandResponse, error) {
			if domain == "" {
				return nil, port.ErrNoEngine
			}
			if cmd.Action == entity.ActionGetSiteState {
				return &entity.CommandResponse{Success: true, Domain: domain, Zoom: entity.ZoomDefault}, nil
			}
			f.mu.Lock()
			f.sent = append(f.sent, cmd)
			f.mu.Unlock()
			return &entity.CommandResponse{Success: true}, nil
		}).Maybe()

	dark := true
	m := NewPopupModel(ctx, PopupModelConfig{
		Settings: f.settings,
		Page:     usecase.NewControlPageUseCase(f.settings, sender),
		DarkMode: &dark,
	})
	return f, m
}

func (f *popupFixture) takeSent() []entity.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sent
	f.sent = nil
	return out
}

// step feeds msg to the model and runs the resulting command to completion.
func step(t *testing.T, m PopupModel, msg tea.Msg) PopupModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(PopupModel)
	for cmd != nil {
		out := cmd()
		if _, quit := out.(tea.QuitMsg); quit || out == nil {
			return m
		}
		next, cmd = m.Update(out)
		m = next.(PopupModel)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadPopup(t *testing.T, m PopupModel) PopupModel {
	t.Helper()
	m = step(t, m, m.Init()())
	require.True(t, m.loaded)
	return m
}

func TestPopupModel_LoadsGlobalWhenNoOverride(t *testing.T) {
	_, m := newPopupFixture(t, "youtube.com")
	m = loadPopup(t, m)

	assert.Equal(t, "youtube.com", m.domain)
	assert.True(t, m.engine)
	assert.False(t, m.site)
	assert.False(t, m.enabled)
	assert.Equal(t, entity.ZoomDefault, m.zoom)

	view := m.View()
	assert.Contains(t, view, "youtube.com")
	assert.Contains(t, view, "global")
	assert.Contains(t, view, "1.33x")
}

func TestPopupModel_LoadsSiteOverride(t *testing.T) {
	f, m := newPopupFixture(t, "youtube.com")
	_, err := f.settings.SetSiteOverride(f.ctx, "youtube.com", true, 1.78)
	require.NoError(t, err)

	m = loadPopup(t, m)
	assert.True(t, m.site)
	assert.True(t, m.enabled)
	assert.Equal(t, 1.78, m.zoom)
	assert.Contains(t, m.View(), "site")
}

func TestPopupModel_ToggleAndZoomPersistGlobally(t *testing.T) {
	f, m := newPopupFixture(t, "youtube.com")
	m = loadPopup(t, m)

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.enabled)
	assert.Equal(t, []entity.Command{entity.SetZoomCommand(1.33), entity.ToggleCommand(true)}, f.takeSent())

	m = step(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 1.34, m.zoom, 1e-9)
	m = step(t, m, runes("4"))
	assert.Equal(t, 1.78, m.zoom)

	global, err := f.settings.Global(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.Settings{Enabled: true, Zoom: 1.78}, global)

	o, err := f.settings.SiteOverride(f.ctx, "youtube.com")
	require.NoError(t, err)
	assert.Nil(t, o, "global scope never writes an override")
}

func TestPopupModel_ZoomClampsAtBounds(t *testing.T) {
	_, m := newPopupFixture(t, "youtube.com")
	m = loadPopup(t, m)

	m = step(t, m, runes("1"))
	assert.Equal(t, entity.ZoomMin, m.zoom)
	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, entity.ZoomMin, m.zoom)
}

func TestPopupModel_ScopeTogglesSiteOverride(t *testing.T) {
	f, m := newPopupFixture(t, "netflix.com")
	m = loadPopup(t, m)

	m = step(t, m, runes("s"))
	require.True(t, m.site)
	m = step(t, m, runes("3"))

	o, err := f.settings.SiteOverride(f.ctx, "netflix.com")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, 1.5, o.Zoom)

	global, err := f.settings.Global(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.ZoomDefault, global.Zoom, "site scope leaves global untouched")
	f.takeSent()

	m = step(t, m, runes("s"))
	assert.False(t, m.site)
	assert.Equal(t, entity.ZoomDefault, m.zoom)

	o, err = f.settings.SiteOverride(f.ctx, "netflix.com")
	require.NoError(t, err)
	assert.Nil(t, o)
	assert.Equal(t, []entity.Command{entity.SetZoomCommand(1.33), entity.ToggleCommand(false)}, f.takeSent())
}

func TestPopupModel_NoEngine(t *testing.T) {
	f, m := newPopupFixture(t, "")
	m = loadPopup(t, m)

	assert.False(t, m.engine)
	assert.Contains(t, m.View(), "No engine")

	m = step(t, m, runes("s"))
	assert.False(t, m.site)
	assert.Equal(t, "No site on the active tab", m.status)

	// Settings still persist without a page to receive them.
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.enabled)
	global, err := f.settings.Global(f.ctx)
	require.NoError(t, err)
	assert.True(t, global.Enabled)
}

func TestPopupModel_DarkModeCycles(t *testing.T) {
	f, m := newPopupFixture(t, "youtube.com")
	m = loadPopup(t, m)
	require.Nil(t, m.dark)

	m = step(t, m, runes("d"))
	require.NotNil(t, m.dark)
	assert.True(t, *m.dark)
	assert.True(t, m.theme.Dark)

	m = step(t, m, runes("d"))
	require.NotNil(t, m.dark)
	assert.False(t, *m.dark)

	stored, err := f.settings.DarkMode(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, *stored)

	m = step(t, m, runes("d"))
	assert.Nil(t, m.dark)
}

func TestPopupModel_Quit(t *testing.T) {
	_, m := newPopupFixture(t, "youtube.com")
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(PopupModel).View())
}
