// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/domain/repository"
	"github.com/jayseik/cinefill/internal/domain/url"
	"github.com/jayseik/cinefill/internal/logging"
)

// ErrInvalidDomain is returned when a site override targets something that is
// not an http(s) host.
var ErrInvalidDomain = errors.New("invalid domain")

// settingsSnapshot is the last state this process observed, used to turn a
// foreign write into change notifications.
type settingsSnapshot struct {
	global entity.Settings
	sites  map[string]entity.SiteOverride
	dark   *bool
}

// ManageSettingsUseCase reads and writes the persisted settings and notifies
// subscribers after every successful write.
type ManageSettingsUseCase struct {
	repo     repository.SettingsRepository
	defaults entity.Settings

	mu       sync.Mutex
	subs     map[int]func(entity.SettingsChange)
	nextSub  int
	snapshot *settingsSnapshot
}

// NewManageSettingsUseCase creates a new settings use case. defaults are used
// for keys that were never written (typically from config).
func NewManageSettingsUseCase(repo repository.SettingsRepository, defaults entity.Settings) *ManageSettingsUseCase {
	return &ManageSettingsUseCase{
		repo:     repo,
		defaults: defaults.Normalized(),
		subs:     make(map[int]func(entity.SettingsChange)),
	}
}

// Global returns the global settings.
func (uc *ManageSettingsUseCase) Global(ctx context.Context) (entity.Settings, error) {
	s := uc.defaults

	enabled, err := readJSON[bool](ctx, uc.repo, entity.KeyEnabled)
	if err != nil {
		return entity.Settings{}, err
	}
	if enabled != nil {
		s.Enabled = *enabled
	}

	zoom, err := readJSON[float64](ctx, uc.repo, entity.KeyZoom)
	if err != nil {
		return entity.Settings{}, err
	}
	if zoom != nil {
		s.Zoom = *zoom
	}

	return s.Normalized(), nil
}

// SetEnabled persists the global enabled flag.
func (uc *ManageSettingsUseCase) SetEnabled(ctx context.Context, enabled bool) error {
	if err := writeJSON(ctx, uc.repo, entity.KeyEnabled, enabled); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Bool("enabled", enabled).Msg("global enabled flag saved")
	return uc.publishGlobal(ctx, entity.KeyEnabled)
}

// ToggleEnabled flips the global enabled flag and returns the new value.
func (uc *ManageSettingsUseCase) ToggleEnabled(ctx context.Context) (bool, error) {
	global, err := uc.Global(ctx)
	if err != nil {
		return false, err
	}
	enabled := !global.Enabled
	if err := uc.SetEnabled(ctx, enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// SetZoom persists the global zoom factor, clamped, and returns the stored value.
func (uc *ManageSettingsUseCase) SetZoom(ctx context.Context, zoom float64) (float64, error) {
	zoom = entity.ClampZoom(zoom)
	if err := writeJSON(ctx, uc.repo, entity.KeyZoom, zoom); err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info().Float64("zoom", zoom).Msg("global zoom saved")
	return zoom, uc.publishGlobal(ctx, entity.KeyZoom)
}

// SiteOverride returns the override for domain, or nil when the domain inherits
// the global settings.
func (uc *ManageSettingsUseCase) SiteOverride(ctx context.Context, domain string) (*entity.SiteOverride, error) {
	domain = url.NormalizeDomain(domain)
	if domain == "" {
		return nil, nil
	}
	sites, err := uc.sites(ctx)
	if err != nil {
		return nil, err
	}
	o, ok := sites[domain]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// SetSiteOverride stores an override for domain.
func (uc *ManageSettingsUseCase) SetSiteOverride(ctx context.Context, domain string, enabled bool, zoom float64) (*entity.SiteOverride, error) {
	normalized := url.NormalizeDomain(domain)
	if normalized == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	sites, err := uc.sites(ctx)
	if err != nil {
		return nil, err
	}
	o := entity.SiteOverride{Domain: normalized, Enabled: enabled, Zoom: entity.ClampZoom(zoom)}
	sites[normalized] = o
	if err := writeJSON(ctx, uc.repo, entity.KeySiteSettings, sites); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("domain", normalized).
		Bool("enabled", o.Enabled).
		Float64("zoom", o.Zoom).
		Msg("site override saved")
	return &o, uc.publishSite(ctx, normalized)
}

// ClearSiteOverride removes the override for domain. Clearing a domain without
// an override is a no-op and publishes nothing.
func (uc *ManageSettingsUseCase) ClearSiteOverride(ctx context.Context, domain string) error {
	normalized := url.NormalizeDomain(domain)
	if normalized == "" {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}

	sites, err := uc.sites(ctx)
	if err != nil {
		return err
	}
	if _, ok := sites[normalized]; !ok {
		return nil
	}
	delete(sites, normalized)
	if err := writeJSON(ctx, uc.repo, entity.KeySiteSettings, sites); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Str("domain", normalized).Msg("site override cleared")
	return uc.publishSite(ctx, normalized)
}

// ListSiteOverrides returns every override ordered by domain.
func (uc *ManageSettingsUseCase) ListSiteOverrides(ctx context.Context) ([]entity.SiteOverride, error) {
	sites, err := uc.sites(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.SiteOverride, 0, len(sites))
	for _, domain := range slices.Sorted(maps.Keys(sites)) {
		out = append(out, sites[domain])
	}
	return out, nil
}

// DarkMode returns the popup theme preference. nil means auto-detect.
func (uc *ManageSettingsUseCase) DarkMode(ctx context.Context) (*bool, error) {
	return readJSON[bool](ctx, uc.repo, entity.KeyDarkMode)
}

// SetDarkMode stores the popup theme preference. nil restores auto-detection.
func (uc *ManageSettingsUseCase) SetDarkMode(ctx context.Context, dark *bool) error {
	var err error
	if dark == nil {
		err = uc.repo.Delete(ctx, entity.KeyDarkMode)
	} else {
		err = writeJSON(ctx, uc.repo, entity.KeyDarkMode, *dark)
	}
	if err != nil {
		return fmt.Errorf("failed to save dark mode: %w", err)
	}

	uc.mu.Lock()
	if uc.snapshot != nil {
		uc.snapshot.dark = cloneBool(dark)
	}
	uc.mu.Unlock()

	global, err := uc.Global(ctx)
	if err != nil {
		return err
	}
	uc.publish(entity.SettingsChange{Key: entity.KeyDarkMode, Global: global})
	return nil
}

// Resolve returns the effective settings for a page on domain: the site
// override if one exists, the global settings otherwise.
func (uc *ManageSettingsUseCase) Resolve(ctx context.Context, domain string) (entity.Settings, error) {
	global, err := uc.Global(ctx)
	if err != nil {
		return entity.Settings{}, err
	}
	override, err := uc.SiteOverride(ctx, domain)
	if err != nil {
		return entity.Settings{}, err
	}

	resolved := entity.Resolve(global, override)
	logging.FromContext(ctx).Debug().
		Str("domain", domain).
		Bool("override", override != nil).
		Bool("enabled", resolved.Enabled).
		Float64("zoom", resolved.Zoom).
		Msg("settings resolved")
	return resolved, nil
}

// Subscribe registers fn for change notifications. Callbacks run synchronously
// on the writer's goroutine and must not block. The returned function
// unregisters fn.
func (uc *ManageSettingsUseCase) Subscribe(fn func(entity.SettingsChange)) (unsubscribe func()) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id := uc.nextSub
	uc.nextSub++
	uc.subs[id] = fn

	return func() {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		delete(uc.subs, id)
	}
}

// Reload re-reads the store and publishes a change for every key that differs
// from what this process last saw. The first call only records the baseline.
func (uc *ManageSettingsUseCase) Reload(ctx context.Context) error {
	current, err := uc.load(ctx)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	previous := uc.snapshot
	uc.snapshot = current
	uc.mu.Unlock()

	if previous == nil {
		return nil
	}

	for _, change := range diffSnapshots(previous, current) {
		logging.FromContext(ctx).Debug().
			Str("key", change.Key).
			Str("domain", change.Domain).
			Msg("settings changed externally")
		uc.publish(change)
	}
	return nil
}

func (uc *ManageSettingsUseCase) load(ctx context.Context) (*settingsSnapshot, error) {
	global, err := uc.Global(ctx)
	if err != nil {
		return nil, err
	}
	sites, err := uc.sites(ctx)
	if err != nil {
		return nil, err
	}
	dark, err := uc.DarkMode(ctx)
	if err != nil {
		return nil, err
	}
	return &settingsSnapshot{global: global, sites: sites, dark: dark}, nil
}

func diffSnapshots(prev, cur *settingsSnapshot) []entity.SettingsChange {
	var changes []entity.SettingsChange
	if prev.global.Enabled != cur.global.Enabled {
		changes = append(changes, entity.SettingsChange{Key: entity.KeyEnabled, Global: cur.global})
	}
	if prev.global.Zoom != cur.global.Zoom {
		changes = append(changes, entity.SettingsChange{Key: entity.KeyZoom, Global: cur.global})
	}

	domains := make(map[string]struct{}, len(prev.sites)+len(cur.sites))
	for d := range prev.sites {
		domains[d] = struct{}{}
	}
	for d := range cur.sites {
		domains[d] = struct{}{}
	}
	for _, d := range slices.Sorted(maps.Keys(domains)) {
		before, hadBefore := prev.sites[d]
		after, hasAfter := cur.sites[d]
		if hadBefore != hasAfter || before != after {
			changes = append(changes, entity.SettingsChange{Key: entity.KeySiteSettings, Domain: d, Global: cur.global})
		}
	}

	if !equalBool(prev.dark, cur.dark) {
		changes = append(changes, entity.SettingsChange{Key: entity.KeyDarkMode, Global: cur.global})
	}
	return changes
}

func (uc *ManageSettingsUseCase) sites(ctx context.Context) (map[string]entity.SiteOverride, error) {
	raw, err := readJSON[map[string]entity.SiteOverride](ctx, uc.repo, entity.KeySiteSettings)
	if err != nil {
		return nil, err
	}
	sites := make(map[string]entity.SiteOverride)
	if raw == nil {
		return sites, nil
	}
	for domain, o := range *raw {
		o.Domain = domain
		o.Zoom = entity.ClampZoom(o.Zoom)
		sites[domain] = o
	}
	return sites, nil
}

func (uc *ManageSettingsUseCase) publishGlobal(ctx context.Context, key string) error {
	global, err := uc.Global(ctx)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	if uc.snapshot != nil {
		uc.snapshot.global = global
	}
	uc.mu.Unlock()

	uc.publish(entity.SettingsChange{Key: key, Global: global})
	return nil
}

func (uc *ManageSettingsUseCase) publishSite(ctx context.Context, domain string) error {
	global, err := uc.Global(ctx)
	if err != nil {
		return err
	}
	sites, err := uc.sites(ctx)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	if uc.snapshot != nil {
		uc.snapshot.sites = sites
	}
	uc.mu.Unlock()

	uc.publish(entity.SettingsChange{Key: entity.KeySiteSettings, Domain: domain, Global: global})
	return nil
}

func (uc *ManageSettingsUseCase) publish(change entity.SettingsChange) {
	uc.mu.Lock()
	subs := make([]func(entity.SettingsChange), 0, len(uc.subs))
	for _, id := range slices.Sorted(maps.Keys(uc.subs)) {
		subs = append(subs, uc.subs[id])
	}
	uc.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
}

// readJSON decodes the value stored under key. A missing key yields nil; a
// corrupt value is logged and treated as missing.
func readJSON[T any](ctx context.Context, repo repository.SettingsRepository, key string) (*T, error) {
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if raw == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("ignoring corrupt setting")
		return nil, nil
	}
	return &v, nil
}

func writeJSON(ctx context.Context, repo repository.SettingsRepository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := repo.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func equalBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
