// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jayseik/cinefill/internal/application/usecase"
	"github.com/jayseik/cinefill/internal/cli/styles"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// PopupModel is the interactive control panel. It edits either the global
// settings or, in site scope, the override for the active tab's domain.
type PopupModel struct {
	// UI components
	help help.Model
	keys styles.PopupKeyMap

	// State
	loaded   bool
	domain   string
	engine   bool
	site     bool
	enabled  bool
	zoom     float64
	dark     *bool
	width    int
	err      error
	status   string
	quitting bool

	// Dependencies
	ctx      context.Context
	settings *usecase.ManageSettingsUseCase
	page     *usecase.ControlPageUseCase
	theme    *styles.Theme
}

// PopupModelConfig holds the popup dependencies.
type PopupModelConfig struct {
	Settings *usecase.ManageSettingsUseCase
	Page     *usecase.ControlPageUseCase
	DarkMode *bool
}

// NewPopupModel creates the popup. The theme follows cfg.DarkMode until the
// stored preference is loaded.
func NewPopupModel(ctx context.Context, cfg PopupModelConfig) PopupModel {
	theme := styles.NewTheme(cfg.DarkMode)
	return PopupModel{
		help:     styles.NewStyledHelp(theme),
		keys:     styles.DefaultPopupKeyMap(),
		zoom:     entity.ZoomDefault,
		dark:     cfg.DarkMode,
		width:    60,
		ctx:      ctx,
		settings: cfg.Settings,
		page:     cfg.Page,
		theme:    theme,
	}
}

// popupLoadedMsg carries the state read from the store and the active tab.
type popupLoadedMsg struct {
	domain  string
	engine  bool
	site    bool
	current entity.Settings
	dark    *bool
	err     error
}

// popupSavedMsg reports the outcome of a write.
type popupSavedMsg struct {
	status string
	err    error
}

// Init implements tea.Model.
func (m PopupModel) Init() tea.Cmd {
	return m.load
}

func (m PopupModel) load() tea.Msg {
	log := logging.FromContext(m.ctx)

	var msg popupLoadedMsg
	if state, ok := m.page.SiteState(m.ctx); ok {
		msg.engine = true
		msg.domain = state.Domain
	}

	global, err := m.settings.Global(m.ctx)
	if err != nil {
		return popupLoadedMsg{err: err}
	}
	msg.current = global

	if msg.domain != "" {
		override, err := m.settings.SiteOverride(m.ctx, msg.domain)
		if err != nil {
			return popupLoadedMsg{err: err}
		}
		if override != nil {
			msg.site = true
			msg.current = entity.Settings{Enabled: override.Enabled, Zoom: override.Zoom}
		}
	}

	dark, err := m.settings.DarkMode(m.ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read dark mode")
	}
	msg.dark = dark

	log.Debug().Str("domain", msg.domain).Bool("site", msg.site).Msg("popup loaded")
	return msg
}

// Update implements tea.Model.
func (m PopupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case popupLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.loaded = true
		m.err = nil
		m.domain = msg.domain
		m.engine = msg.engine
		m.site = msg.site
		m.enabled = msg.current.Enabled
		m.zoom = msg.current.Zoom
		m.setDark(msg.dark)
		return m, nil

	case popupSavedMsg:
		m.err = msg.err
		if msg.err == nil && msg.status != "" {
			m.status = msg.status
		}
		return m, nil
	}

	return m, nil
}

func (m PopupModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.load
	}

	if !m.loaded {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.enabled = !m.enabled
		return m, m.save(fmt.Sprintf("Ultrawide zoom %s", entity.BadgeFor(m.enabled).Text))

	case key.Matches(msg, m.keys.ZoomDown):
		return m.setZoom(m.zoom - entity.ZoomStep)

	case key.Matches(msg, m.keys.ZoomUp):
		return m.setZoom(m.zoom + entity.ZoomStep)

	case key.Matches(msg, m.keys.Preset1):
		return m.setZoom(entity.ZoomPresets[0])
	case key.Matches(msg, m.keys.Preset2):
		return m.setZoom(entity.ZoomPresets[1])
	case key.Matches(msg, m.keys.Preset3):
		return m.setZoom(entity.ZoomPresets[2])
	case key.Matches(msg, m.keys.Preset4):
		return m.setZoom(entity.ZoomPresets[3])

	case key.Matches(msg, m.keys.Scope):
		return m.toggleScope()

	case key.Matches(msg, m.keys.Dark):
		next := nextDarkMode(m.dark)
		m.setDark(next)
		return m, m.saveDarkMode(next)
	}

	return m, nil
}

func (m PopupModel) setZoom(zoom float64) (tea.Model, tea.Cmd) {
	zoom = entity.ClampZoom(math.Round(zoom*100) / 100)
	if zoom == m.zoom {
		return m, nil
	}
	m.zoom = zoom
	return m, m.save("")
}

func (m PopupModel) toggleScope() (tea.Model, tea.Cmd) {
	if m.domain == "" {
		m.status = "No site on the active tab"
		return m, nil
	}

	m.site = !m.site
	if m.site {
		return m, m.save(fmt.Sprintf("Settings now apply to %s only", m.domain))
	}

	// Leaving site scope drops the override; the tab falls back to global.
	global, err := m.settings.Global(m.ctx)
	if err != nil {
		m.site = true
		m.err = err
		return m, nil
	}
	m.enabled = global.Enabled
	m.zoom = global.Zoom
	return m, m.clearSite(m.domain)
}

// save persists the current values in the active scope, then pushes the
// resolved settings to the active tab.
func (m PopupModel) save(status string) tea.Cmd {
	ctx, settings, page := m.ctx, m.settings, m.page
	site, domain, enabled, zoom := m.site, m.domain, m.enabled, m.zoom

	return func() tea.Msg {
		if site {
			if _, err := settings.SetSiteOverride(ctx, domain, enabled, zoom); err != nil {
				return popupSavedMsg{err: err}
			}
		} else {
			if err := settings.SetEnabled(ctx, enabled); err != nil {
				return popupSavedMsg{err: err}
			}
			if _, err := settings.SetZoom(ctx, zoom); err != nil {
				return popupSavedMsg{err: err}
			}
		}

		page.PushResolved(ctx)
		return popupSavedMsg{status: status}
	}
}

func (m PopupModel) clearSite(domain string) tea.Cmd {
	ctx, settings, page := m.ctx, m.settings, m.page

	return func() tea.Msg {
		if err := settings.ClearSiteOverride(ctx, domain); err != nil {
			return popupSavedMsg{err: err}
		}
		page.PushResolved(ctx)
		return popupSavedMsg{status: fmt.Sprintf("%s follows the global settings", domain)}
	}
}

func (m PopupModel) saveDarkMode(dark *bool) tea.Cmd {
	ctx, settings := m.ctx, m.settings

	return func() tea.Msg {
		if err := settings.SetDarkMode(ctx, dark); err != nil {
			return popupSavedMsg{err: err}
		}
		return popupSavedMsg{status: "Theme " + styles.ThemeName(dark)}
	}
}

func (m *PopupModel) setDark(dark *bool) {
	m.dark = dark
	m.theme = styles.NewTheme(dark)
	showAll, width := m.help.ShowAll, m.help.Width
	m.help = styles.NewStyledHelp(m.theme)
	m.help.ShowAll = showAll
	m.help.Width = width
}

// nextDarkMode cycles auto, dark, light.
func nextDarkMode(dark *bool) *bool {
	switch {
	case dark == nil:
		v := true
		return &v
	case *dark:
		v := false
		return &v
	default:
		return nil
	}
}

// View implements tea.Model.
func (m PopupModel) View() string {
	if m.quitting {
		return ""
	}

	t := m.theme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(t.ErrorStyle.Render(fmt.Sprintf("%s Error: %v", styles.IconX, m.err)))
		b.WriteString("\n\n")
	}

	if !m.loaded {
		b.WriteString(t.Subtle.Render("  Loading..."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(m.renderTarget())
	b.WriteString("\n\n")
	b.WriteString(m.renderZoom())
	b.WriteString("\n")
	b.WriteString(m.renderPresets())
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(t.Subtle.Render(m.status))
		b.WriteString("\n\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m PopupModel) renderHeader() string {
	t := m.theme

	iconStyle := lipgloss.NewStyle().Foreground(t.Accent)
	titleStyle := t.Title.MarginLeft(1)

	return iconStyle.Render(styles.IconVideo) +
		titleStyle.Render("cinefill") + "  " +
		t.EnabledBadge(entity.BadgeFor(m.enabled))
}

func (m PopupModel) renderTarget() string {
	t := m.theme

	if !m.engine {
		return t.Subtle.Render(fmt.Sprintf("  %s No engine on the active tab", styles.IconInfo))
	}

	domain := m.domain
	if domain == "" {
		domain = "unknown site"
	}
	return fmt.Sprintf("  %s %s %s",
		lipgloss.NewStyle().Foreground(t.Accent).Render(styles.IconGlobe),
		t.DomainBadge(domain),
		t.ScopeBadge(m.site),
	)
}

func (m PopupModel) renderZoom() string {
	t := m.theme

	const barWidth = 30
	span := entity.ZoomMax - entity.ZoomMin
	filled := int(math.Round((m.zoom - entity.ZoomMin) / span * barWidth))
	filled = max(0, min(barWidth, filled))

	bar := lipgloss.NewStyle().Foreground(t.Accent).Render(strings.Repeat("━", filled)) +
		t.Subtle.Render(strings.Repeat("─", barWidth-filled))

	return fmt.Sprintf("  %s %s %s", t.Subtle.Render("zoom"), bar, t.ZoomBadge(m.zoom))
}

func (m PopupModel) renderPresets() string {
	t := m.theme
	current := entity.NearestPreset(m.zoom)

	parts := make([]string, 0, len(entity.ZoomPresets))
	for i, p := range entity.ZoomPresets {
		style := t.Preset
		if i == current {
			style = t.PresetSelected
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", i+1, styles.FormatZoom(p))))
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
