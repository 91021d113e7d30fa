package entity

import "math"

// Zoom constants. The factor scales the video uniformly around its center.
const (
	ZoomDefault = 1.33
	ZoomMin     = 1.0
	ZoomMax     = 3.0
	ZoomStep    = 0.01
)

// ZoomPresets are the quick-pick factors offered by the popup (16:9 -> 21:9 and friends).
var ZoomPresets = []float64{1.0, 1.33, 1.5, 1.78}

// Settings is the effective {enabled, zoom} pair fed to a transform engine.
type Settings struct {
	Enabled bool    `json:"enabled"`
	Zoom    float64 `json:"zoom"`
}

// DefaultSettings returns the values used when nothing has been persisted yet.
func DefaultSettings() Settings {
	return Settings{Enabled: false, Zoom: ZoomDefault}
}

// Normalized returns a copy with the zoom clamped into the valid range.
func (s Settings) Normalized() Settings {
	s.Zoom = ClampZoom(s.Zoom)
	return s
}

// SiteOverride replaces the global settings for a single domain.
type SiteOverride struct {
	Domain  string  `json:"-"`
	Enabled bool    `json:"enabled"`
	Zoom    float64 `json:"zoom"`
}

// Settings returns the override as an effective settings pair.
func (o SiteOverride) Settings() Settings {
	return Settings{Enabled: o.Enabled, Zoom: o.Zoom}.Normalized()
}

// Resolve picks the override when present, the global settings otherwise.
func Resolve(global Settings, override *SiteOverride) Settings {
	if override != nil {
		return override.Settings()
	}
	return global.Normalized()
}

// ClampZoom constrains a zoom factor to the valid range.
// Non-finite and non-positive values fall back to the default.
func ClampZoom(factor float64) float64 {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return ZoomDefault
	}
	if factor < ZoomMin {
		return ZoomMin
	}
	if factor > ZoomMax {
		return ZoomMax
	}
	return factor
}

// NearestPreset returns the index of the preset within 0.01 of factor, or -1.
func NearestPreset(factor float64) int {
	for i, p := range ZoomPresets {
		if math.Abs(p-factor) < 0.01 {
			return i
		}
	}
	return -1
}

// Settings keys in the key-value store.
const (
	KeyEnabled      = "enabled"
	KeyZoom         = "zoom"
	KeyDarkMode     = "darkMode"
	KeySiteSettings = "siteSettings"
)

// SettingsChange describes a persisted settings write.
type SettingsChange struct {
	Key    string
	Domain string // set for siteSettings changes
	Global Settings
}
