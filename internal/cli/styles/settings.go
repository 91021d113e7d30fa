package styles

import (
	"fmt"
	"strings"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

// SettingsCLIRenderer renders non-interactive output for the settings
// subcommands (toggle, zoom, site, theme, status).
type SettingsCLIRenderer struct {
	theme *Theme
}

// NewSettingsCLIRenderer creates a renderer with the given theme.
func NewSettingsCLIRenderer(theme *Theme) *SettingsCLIRenderer {
	return &SettingsCLIRenderer{theme: theme}
}

// StatusView is everything `cinefill status` reports.
type StatusView struct {
	Global   entity.Settings
	DarkMode *bool
	Daemon   bool
	Tabs     []entity.TabInfo
	Site     *entity.SiteOverride
}

// RenderStatus renders the global settings and the daemon's tabs.
func (r *SettingsCLIRenderer) RenderStatus(v StatusView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s  %s %s\n",
		r.theme.Highlight.Render(IconVideo),
		r.theme.Title.Render("cinefill"),
		r.theme.EnabledBadge(entity.BadgeFor(v.Global.Enabled)),
		r.theme.ZoomBadge(v.Global.Zoom),
	)
	fmt.Fprintf(&b, "  %s %s\n", r.theme.Subtle.Render("theme"), r.theme.Normal.Render(ThemeName(v.DarkMode)))

	if !v.Daemon {
		fmt.Fprintf(&b, "  %s %s\n", r.theme.Subtle.Render(IconStop), r.theme.Subtle.Render("daemon not running"))
		return strings.TrimRight(b.String(), "\n")
	}

	fmt.Fprintf(&b, "  %s %s\n", r.theme.SuccessStyle.Render(IconPlay), r.theme.Normal.Render("daemon running"))
	if len(v.Tabs) == 0 {
		fmt.Fprintf(&b, "  %s\n", r.theme.Subtle.Render("no tabs attached"))
	}
	for _, t := range v.Tabs {
		b.WriteString("  ")
		b.WriteString(r.renderTab(t))
		b.WriteString("\n")
	}
	if v.Site != nil {
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			r.theme.Subtle.Render("override"),
			r.theme.DomainBadge(v.Site.Domain),
			r.theme.EnabledBadge(entity.BadgeFor(v.Site.Enabled)),
			r.theme.ZoomBadge(v.Site.Zoom),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *SettingsCLIRenderer) renderTab(t entity.TabInfo) string {
	marker := r.theme.Subtle.Render(" ")
	if t.Active {
		marker = r.theme.Highlight.Render(IconCursor)
	}

	label := t.Domain
	if label == "" {
		label = t.URL
	}
	if !t.Engine {
		return fmt.Sprintf("%s %s %s", marker, r.theme.Subtle.Render(label), r.theme.Subtle.Render("(no engine)"))
	}

	tracking := r.theme.Subtle.Render("searching")
	if t.Tracking {
		tracking = r.theme.SuccessStyle.Render("tracking")
	}
	if !t.Enabled {
		tracking = r.theme.Subtle.Render("idle")
	}
	return fmt.Sprintf("%s %s %s %s %s",
		marker,
		r.theme.DomainBadge(label),
		r.theme.EnabledBadge(entity.BadgeFor(t.Enabled)),
		r.theme.ZoomBadge(t.Zoom),
		tracking,
	)
}

// RenderToggled renders the new global enabled state.
func (r *SettingsCLIRenderer) RenderToggled(enabled bool) string {
	return fmt.Sprintf("%s Ultrawide zoom %s", r.theme.SuccessStyle.Render(IconCheck), r.theme.EnabledBadge(entity.BadgeFor(enabled)))
}

// RenderZoom renders the new global zoom.
func (r *SettingsCLIRenderer) RenderZoom(zoom float64) string {
	return fmt.Sprintf("%s Zoom set to %s", r.theme.SuccessStyle.Render(IconCheck), r.theme.ZoomBadge(zoom))
}

// RenderSiteSet renders a stored site override.
func (r *SettingsCLIRenderer) RenderSiteSet(o entity.SiteOverride) string {
	return fmt.Sprintf("%s %s %s %s",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.DomainBadge(o.Domain),
		r.theme.EnabledBadge(entity.BadgeFor(o.Enabled)),
		r.theme.ZoomBadge(o.Zoom),
	)
}

// RenderSiteCleared renders the removal of a site override.
func (r *SettingsCLIRenderer) RenderSiteCleared(domain string) string {
	return fmt.Sprintf("%s %s now follows the global settings",
		r.theme.SuccessStyle.Render(IconCheck),
		r.theme.DomainBadge(domain),
	)
}

// RenderSiteList renders every site override.
func (r *SettingsCLIRenderer) RenderSiteList(overrides []entity.SiteOverride) string {
	if len(overrides) == 0 {
		return r.theme.Subtle.Render("No site overrides.")
	}

	width := 0
	for _, o := range overrides {
		width = max(width, len(o.Domain))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.theme.Highlight.Render(IconGlobe), r.theme.Title.Render("Site overrides"))
	for _, o := range overrides {
		fmt.Fprintf(&b, "  %s %s %s\n",
			r.theme.Normal.Render(fmt.Sprintf("%-*s", width, o.Domain)),
			r.theme.EnabledBadge(entity.BadgeFor(o.Enabled)),
			r.theme.ZoomBadge(o.Zoom),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderTheme renders the stored dark mode preference.
func (r *SettingsCLIRenderer) RenderTheme(dark *bool) string {
	icon := IconSun
	if dark == nil || *dark {
		icon = IconMoon
	}
	return fmt.Sprintf("%s Theme %s", r.theme.Highlight.Render(icon), r.theme.Normal.Render(ThemeName(dark)))
}

// RenderNoEngine explains that the active tab did not receive the command.
func (r *SettingsCLIRenderer) RenderNoEngine() string {
	return r.theme.Subtle.Render("Saved. No engine on the active tab; it applies on the next page load.")
}

// RenderError renders an error message.
func (r *SettingsCLIRenderer) RenderError(err error) string {
	return fmt.Sprintf("%s %v", r.theme.ErrorStyle.Render(IconX), err)
}

// ThemeName names a dark mode preference.
func ThemeName(dark *bool) string {
	switch {
	case dark == nil:
		return "auto"
	case *dark:
		return "dark"
	default:
		return "light"
	}
}
