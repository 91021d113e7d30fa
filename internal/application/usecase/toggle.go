package usecase

import (
	"context"

	"github.com/jayseik/cinefill/internal/logging"
)

// ToggleUseCase handles the keyboard shortcut: it flips the global enabled
// flag and pushes the resolved settings to the active page.
type ToggleUseCase struct {
	settings *ManageSettingsUseCase
	page     *ControlPageUseCase
}

// NewToggleUseCase creates a new shortcut toggle use case.
func NewToggleUseCase(settings *ManageSettingsUseCase, page *ControlPageUseCase) *ToggleUseCase {
	return &ToggleUseCase{settings: settings, page: page}
}

// Execute flips and persists the global flag, then pushes the active page's
// resolved settings. A site override on that page still wins. The push is best
// effort.
func (uc *ToggleUseCase) Execute(ctx context.Context) (bool, error) {
	enabled, err := uc.settings.ToggleEnabled(ctx)
	if err != nil {
		return false, err
	}

	logging.FromContext(ctx).Info().Bool("enabled", enabled).Msg("toggled from keyboard shortcut")
	uc.page.PushResolved(ctx)
	return enabled, nil
}
