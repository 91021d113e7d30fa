package usecase

import (
	"context"
	"fmt"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// SyncIndicatorUseCase keeps the badge in step with the global enabled flag.
// It reacts only to settings change notifications.
type SyncIndicatorUseCase struct {
	settings  *ManageSettingsUseCase
	indicator port.Indicator
}

// NewSyncIndicatorUseCase creates a new indicator sync use case.
func NewSyncIndicatorUseCase(settings *ManageSettingsUseCase, indicator port.Indicator) *SyncIndicatorUseCase {
	return &SyncIndicatorUseCase{settings: settings, indicator: indicator}
}

// Start shows the badge for the stored flag and subscribes to enabled changes.
// The returned function stops the sync.
func (uc *SyncIndicatorUseCase) Start(ctx context.Context) (stop func(), err error) {
	global, err := uc.settings.Global(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read initial state: %w", err)
	}
	uc.show(ctx, global.Enabled)

	return uc.settings.Subscribe(func(change entity.SettingsChange) {
		if change.Key != entity.KeyEnabled {
			return
		}
		uc.show(ctx, change.Global.Enabled)
	}), nil
}

func (uc *SyncIndicatorUseCase) show(ctx context.Context, enabled bool) {
	badge := entity.BadgeFor(enabled)
	if err := uc.indicator.Show(ctx, badge); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("badge", badge.Text).Msg("failed to update badge")
	}
}
