package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/application/port"
	portmocks "github.com/jayseik/cinefill/internal/application/port/mocks"
	"github.com/jayseik/cinefill/internal/application/usecase"
	"github.com/jayseik/cinefill/internal/domain/entity"
)

func TestControlPageUseCase_PushResolved_SendsOverrideForActiveDomain(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())
	_, err := settings.SetSiteOverride(ctx, "example.com", true, 1.6)
	require.NoError(t, err)

	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, entity.Command{Action: entity.ActionGetSiteState}).
		Return(&entity.CommandResponse{Success: true, Domain: "example.com", Enabled: false, Zoom: 1.33}, nil)
	zoomCall := sender.EXPECT().Send(mock.Anything, entity.SetZoomCommand(1.6)).
		Return(&entity.CommandResponse{Success: true}, nil).Call
	sender.EXPECT().Send(mock.Anything, entity.ToggleCommand(true)).
		Return(&entity.CommandResponse{Success: true}, nil).NotBefore(zoomCall)

	uc := usecase.NewControlPageUseCase(settings, sender)
	pushed, ok := uc.PushResolved(ctx)

	assert.True(t, ok)
	assert.Equal(t, entity.Settings{Enabled: true, Zoom: 1.6}, pushed)
}

func TestControlPageUseCase_PushResolved_NoEngineIsSilent(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())

	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, mock.Anything).Return(nil, port.ErrNoEngine).Once()

	uc := usecase.NewControlPageUseCase(settings, sender)
	_, ok := uc.PushResolved(ctx)

	assert.False(t, ok)
}

func TestControlPageUseCase_SendBestEffort_SwallowsErrors(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())

	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, entity.ToggleCommand(true)).Return(nil, port.ErrNoEngine).Once()

	uc := usecase.NewControlPageUseCase(settings, sender)
	assert.NotPanics(t, func() { uc.SendBestEffort(ctx, entity.ToggleCommand(true)) })
}

func TestControlPageUseCase_SiteState_RejectsFailedResponse(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())

	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, mock.Anything).
		Return(&entity.CommandResponse{Success: false, Error: "unknown action"}, nil)

	uc := usecase.NewControlPageUseCase(settings, sender)
	state, ok := uc.SiteState(ctx)
	assert.False(t, ok)
	assert.Nil(t, state)
}
