package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

// EnabledBadge renders the ON/OFF indicator in its fixed colors.
func (t *Theme) EnabledBadge(b entity.Badge) string {
	return t.StatusBadge(b.Text, lipgloss.Color("#ffffff"), lipgloss.Color(b.Color))
}

// ZoomBadge renders a zoom factor.
func (t *Theme) ZoomBadge(zoom float64) string {
	return t.Badge.Render(FormatZoom(zoom))
}

// DomainBadge renders a domain badge.
func (t *Theme) DomainBadge(domain string) string {
	return t.BadgeMuted.Render(domain)
}

// ScopeBadge renders whether settings apply globally or to one site.
func (t *Theme) ScopeBadge(site bool) string {
	if site {
		return t.Badge.Render("site")
	}
	return t.BadgeMuted.Render("global")
}

// StatusBadge renders a status badge with custom colors.
func (t *Theme) StatusBadge(text string, fg, bg lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1)
	return style.Render(text)
}

// FormatZoom renders a factor the way the popup displays it ("1.33x").
func FormatZoom(zoom float64) string {
	return fmt.Sprintf("%.2fx", zoom)
}
