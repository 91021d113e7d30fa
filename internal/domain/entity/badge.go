package entity

// Badge colors match a browser toolbar badge.
const (
	BadgeOnColor  = "#34C759"
	BadgeOffColor = "#8E8E93"
)

// Badge is the visual indicator of the global enabled flag.
type Badge struct {
	Text  string
	Color string
}

// BadgeFor returns the badge for an enabled state.
func BadgeFor(enabled bool) Badge {
	if enabled {
		return Badge{Text: "ON", Color: BadgeOnColor}
	}
	return Badge{Text: "OFF", Color: BadgeOffColor}
}
