package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/application/port"
	portmocks "github.com/jayseik/cinefill/internal/application/port/mocks"
	"github.com/jayseik/cinefill/internal/application/usecase"
	"github.com/jayseik/cinefill/internal/domain/entity"
	repomocks "github.com/jayseik/cinefill/internal/domain/repository/mocks"
)

// pageOn returns a sender whose active page is on domain and which records
// every state-changing command it receives.
func pageOn(t *testing.T, domain string, sent *[]entity.Command) *portmocks.MockCommandSender {
	t.Helper()
	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, mock.Anything).RunAndReturn(
		func(_ context.Context, cmd entity.Command) (*entity.CommandResponse, error) {
			if cmd.Action == entity.ActionGetSiteState {
				return &entity.CommandResponse{Success: true, Domain: domain}, nil
			}
			*sent = append(*sent, cmd)
			return &entity.CommandResponse{Success: true}, nil
		})
	return sender
}

func TestToggleUseCase_FlipsPersistsAndPushesResolved(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())

	var sent []entity.Command
	uc := usecase.NewToggleUseCase(settings, usecase.NewControlPageUseCase(settings, pageOn(t, "example.com", &sent)))

	enabled, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, []entity.Command{entity.SetZoomCommand(entity.ZoomDefault), entity.ToggleCommand(true)}, sent)

	global, err := settings.Global(ctx)
	require.NoError(t, err)
	assert.True(t, global.Enabled)
}

func TestToggleUseCase_SiteOverrideKeepsPrecedence(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())
	_, err := settings.SetSiteOverride(ctx, "example.com", false, 1.6)
	require.NoError(t, err)

	var sent []entity.Command
	uc := usecase.NewToggleUseCase(settings, usecase.NewControlPageUseCase(settings, pageOn(t, "example.com", &sent)))

	enabled, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.True(t, enabled, "the global flag flips")

	resolved, err := settings.Resolve(ctx, "example.com")
	require.NoError(t, err)
	assert.Equal(t, entity.Settings{Enabled: false, Zoom: 1.6}, resolved)
	assert.Equal(t, []entity.Command{entity.SetZoomCommand(1.6), entity.ToggleCommand(false)}, sent,
		"the engine receives the resolved state, not the raw global value")
}

func TestToggleUseCase_NoEngineIsNotAnError(t *testing.T) {
	ctx := testContext()
	settings := usecase.NewManageSettingsUseCase(newMemRepo(), entity.DefaultSettings())

	sender := portmocks.NewMockCommandSender(t)
	sender.EXPECT().Send(mock.Anything, entity.Command{Action: entity.ActionGetSiteState}).Return(nil, port.ErrNoEngine)

	uc := usecase.NewToggleUseCase(settings, usecase.NewControlPageUseCase(settings, sender))
	enabled, err := uc.Execute(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = uc.Execute(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestToggleUseCase_StoreFailureSendsNothing(t *testing.T) {
	ctx := testContext()
	repo := repomocks.NewMockSettingsRepository(t)
	repo.EXPECT().Get(mock.Anything, entity.KeyEnabled).Return([]byte(`false`), nil)
	repo.EXPECT().Get(mock.Anything, entity.KeyZoom).Return(nil, nil)
	repo.EXPECT().Set(mock.Anything, entity.KeyEnabled, []byte(`true`)).Return(errors.New("locked"))

	settings := usecase.NewManageSettingsUseCase(repo, entity.DefaultSettings())
	sender := portmocks.NewMockCommandSender(t)

	uc := usecase.NewToggleUseCase(settings, usecase.NewControlPageUseCase(settings, sender))
	_, err := uc.Execute(ctx)
	assert.Error(t, err)
}
