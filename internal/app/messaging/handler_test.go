package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/application/transform"
	"github.com/jayseik/cinefill/internal/domain/entity"
)

type stubEngine struct {
	state    transform.State
	toggles  []bool
	zooms    []float64
	stateErr error
}

func (s *stubEngine) Toggle(_ context.Context, enabled bool) error {
	s.toggles = append(s.toggles, enabled)
	s.state.Enabled = enabled
	return nil
}

func (s *stubEngine) SetZoom(_ context.Context, zoom float64) error {
	s.zooms = append(s.zooms, zoom)
	s.state.Zoom = entity.ClampZoom(zoom)
	return nil
}

func (s *stubEngine) State(context.Context) (transform.State, error) {
	return s.state, s.stateErr
}

func TestHandler_Handle(t *testing.T) {
	ctx := context.Background()
	h := NewHandler()
	eng := &stubEngine{state: transform.State{Zoom: 1.33}}

	resp := h.Handle(ctx, eng, "example.com", entity.ToggleCommand(true))
	assert.Equal(t, entity.CommandResponse{Success: true}, resp)
	assert.Equal(t, []bool{true}, eng.toggles)

	resp = h.Handle(ctx, eng, "example.com", entity.SetZoomCommand(1.5))
	assert.True(t, resp.Success)
	assert.Equal(t, []float64{1.5}, eng.zooms)

	resp = h.Handle(ctx, eng, "example.com", entity.Command{Action: entity.ActionGetState})
	assert.Equal(t, entity.CommandResponse{Success: true, Enabled: true, Zoom: 1.5}, resp)

	resp = h.Handle(ctx, eng, "example.com", entity.Command{Action: entity.ActionGetSiteState})
	assert.Equal(t, entity.CommandResponse{Success: true, Enabled: true, Zoom: 1.5, Domain: "example.com"}, resp)

	resp = h.Handle(ctx, eng, "example.com", entity.Command{Action: "explode"})
	assert.Equal(t, entity.CommandResponse{Success: false, Error: "unknown action"}, resp)
}

func TestHandler_Handle_StateError(t *testing.T) {
	eng := &stubEngine{stateErr: errors.New("runner stopped")}
	resp := NewHandler().Handle(context.Background(), eng, "", entity.Command{Action: entity.ActionGetState})
	assert.False(t, resp.Success)
	assert.Equal(t, "runner stopped", resp.Error)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    entity.Command
		wantErr bool
	}{
		{name: "toggle", payload: `{"action":"toggle","enabled":true}`, want: entity.ToggleCommand(true)},
		{name: "numeric zoom", payload: `{"action":"setZoom","zoom":1.5}`, want: entity.SetZoomCommand(1.5)},
		{name: "string zoom", payload: `{"action":"setZoom","zoom":"1.78"}`, want: entity.SetZoomCommand(1.78)},
		{name: "bad string zoom", payload: `{"action":"setZoom","zoom":"wide"}`, wantErr: true},
		{name: "not json", payload: `toggle`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_Handle_SetZoomRequiresZoom(t *testing.T) {
	ctx := context.Background()
	h := NewHandler()

	for _, payload := range []string{`{"action":"setZoom"}`, `{"action":"setZoom","zoom":null}`} {
		eng := &stubEngine{state: transform.State{Zoom: 1.78}}
		cmd, err := ParseCommand([]byte(payload))
		require.NoError(t, err, payload)

		resp := h.Handle(ctx, eng, "example.com", cmd)
		assert.Equal(t, entity.CommandResponse{Success: false, Error: "zoom required"}, resp, payload)
		assert.Empty(t, eng.zooms, payload)
		assert.Equal(t, 1.78, eng.state.Zoom, payload)
	}
}
