package usecase

import (
	"context"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// ControlPageUseCase pushes settings to the engine of the active page.
// Delivery is best effort: a missing engine or an unreachable daemon is a
// silent no-op, never retried and never surfaced.
type ControlPageUseCase struct {
	settings *ManageSettingsUseCase
	sender   port.CommandSender
}

// NewControlPageUseCase creates a new page control use case.
func NewControlPageUseCase(settings *ManageSettingsUseCase, sender port.CommandSender) *ControlPageUseCase {
	return &ControlPageUseCase{settings: settings, sender: sender}
}

// SiteState asks the active page for its domain and live engine state.
// ok is false when no engine answered.
func (uc *ControlPageUseCase) SiteState(ctx context.Context) (state *entity.CommandResponse, ok bool) {
	resp, err := uc.sender.Send(ctx, entity.Command{Action: entity.ActionGetSiteState})
	if err != nil || resp == nil || !resp.Success {
		logging.FromContext(ctx).Debug().Err(err).Msg("no engine answered getSiteState")
		return nil, false
	}
	return resp, true
}

// SendBestEffort delivers cmd and swallows every failure.
func (uc *ControlPageUseCase) SendBestEffort(ctx context.Context, cmd entity.Command) {
	if _, err := uc.sender.Send(ctx, cmd); err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("action", cmd.Action).Msg("command not delivered")
	}
}

// PushResolved resolves the settings for the active page's domain and sends
// them to its engine. It returns the settings that were pushed, or false when
// no engine is present.
func (uc *ControlPageUseCase) PushResolved(ctx context.Context) (entity.Settings, bool) {
	state, ok := uc.SiteState(ctx)
	if !ok {
		return entity.Settings{}, false
	}

	resolved, err := uc.settings.Resolve(ctx, state.Domain)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("domain", state.Domain).Msg("failed to resolve settings for active page")
		return entity.Settings{}, false
	}

	// Zoom first so enabling does not flash the previous factor.
	uc.SendBestEffort(ctx, entity.SetZoomCommand(resolved.Zoom))
	uc.SendBestEffort(ctx, entity.ToggleCommand(resolved.Enabled))
	return resolved, true
}
