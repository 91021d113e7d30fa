package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// PopupKeyMap defines keybindings for the popup.
type PopupKeyMap struct {
	Toggle   key.Binding
	ZoomDown key.Binding
	ZoomUp   key.Binding
	Preset1  key.Binding
	Preset2  key.Binding
	Preset3  key.Binding
	Preset4  key.Binding
	Scope    key.Binding
	Dark     key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k PopupKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ZoomDown, k.ZoomUp, k.Scope, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k PopupKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.ZoomDown, k.ZoomUp},
		{k.Preset1, k.Preset2, k.Preset3, k.Preset4},
		{k.Scope, k.Dark, k.Refresh},
		{k.Help, k.Quit},
	}
}

// DefaultPopupKeyMap returns the default popup keybindings.
func DefaultPopupKeyMap() PopupKeyMap {
	return PopupKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "on/off"),
		),
		ZoomDown: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/h", "zoom -0.01"),
		),
		ZoomUp: key.NewBinding(
			key.WithKeys("right", "l", "+", "="),
			key.WithHelp("→/l", "zoom +0.01"),
		),
		Preset1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "1.00x"),
		),
		Preset2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "1.33x"),
		),
		Preset3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "1.50x"),
		),
		Preset4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "1.78x"),
		),
		Scope: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "this site only"),
		),
		Dark: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dark mode"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
