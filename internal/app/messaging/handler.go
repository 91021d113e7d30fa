// Package messaging routes inbound JSON commands to a page's transform engine.
package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/jayseik/cinefill/internal/application/transform"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// ErrUnknownAction is reported for commands the engine does not understand.
var ErrUnknownAction = errors.New("unknown action")

// ErrMissingZoom is reported for a setZoom without a zoom factor.
var ErrMissingZoom = errors.New("zoom required")

// Engine is the engine context a command is delivered to.
type Engine interface {
	Toggle(ctx context.Context, enabled bool) error
	SetZoom(ctx context.Context, zoom float64) error
	State(ctx context.Context) (transform.State, error)
}

// Handler processes commands for one engine context at a time.
type Handler struct{}

// NewHandler creates a new message handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Handle applies cmd to eng and builds the reply. domain is the normalized
// domain of the page eng runs in.
func (h *Handler) Handle(ctx context.Context, eng Engine, domain string, cmd entity.Command) entity.CommandResponse {
	log := logging.FromContext(ctx)
	log.Debug().Str("action", cmd.Action).Msg("command received")

	var err error
	switch cmd.Action {
	case entity.ActionToggle:
		err = eng.Toggle(ctx, cmd.Enabled)
	case entity.ActionSetZoom:
		// An absent or null zoom decodes to zero and must not reset the factor.
		if cmd.Zoom == 0 {
			return failure(ErrMissingZoom)
		}
		err = eng.SetZoom(ctx, cmd.Zoom)
	case entity.ActionGetState, entity.ActionGetSiteState:
		st, stateErr := eng.State(ctx)
		if stateErr != nil {
			return failure(stateErr)
		}
		resp := entity.CommandResponse{Success: true, Enabled: st.Enabled, Zoom: st.Zoom}
		if cmd.Action == entity.ActionGetSiteState {
			resp.Domain = domain
		}
		return resp
	default:
		log.Debug().Str("action", cmd.Action).Msg("unknown action")
		return failure(ErrUnknownAction)
	}

	if err != nil {
		log.Warn().Err(err).Str("action", cmd.Action).Msg("command failed")
		return failure(err)
	}
	return entity.CommandResponse{Success: true}
}

func failure(err error) entity.CommandResponse {
	return entity.CommandResponse{Success: false, Error: err.Error()}
}

// ParseCommand decodes a JSON command. A zoom sent as a numeric string, as
// slider inputs produce, is accepted.
func ParseCommand(payload []byte) (entity.Command, error) {
	var cmd entity.Command
	if err := json.Unmarshal(payload, &cmd); err == nil {
		return cmd, nil
	} else {
		normalized, normErr := normalizeZoomPayload(payload)
		if normErr != nil {
			return entity.Command{}, fmt.Errorf("invalid command: %w", err)
		}
		if err := json.Unmarshal(normalized, &cmd); err != nil {
			return entity.Command{}, fmt.Errorf("invalid command: %w", err)
		}
		return cmd, nil
	}
}

func normalizeZoomPayload(data []byte) ([]byte, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	rawZoom, ok := raw["zoom"]
	if !ok {
		return nil, fmt.Errorf("zoom missing in payload")
	}

	zoom, err := parseZoomRaw(rawZoom)
	if err != nil {
		return nil, err
	}
	raw["zoom"] = json.RawMessage(strconv.FormatFloat(zoom, 'f', -1, 64))

	return json.Marshal(raw)
}

func parseZoomRaw(raw json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}

	return 0, fmt.Errorf("unsupported zoom format: %s", string(trimmed))
}
