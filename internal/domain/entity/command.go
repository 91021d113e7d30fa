package entity

// Command actions understood by a page-resident transform engine.
const (
	ActionToggle       = "toggle"
	ActionSetZoom      = "setZoom"
	ActionGetState     = "getState"
	ActionGetSiteState = "getSiteState"
)

// Command is a tagged message delivered to a transform engine.
type Command struct {
	Action  string  `json:"action"`
	Enabled bool    `json:"enabled,omitempty"`
	Zoom    float64 `json:"zoom,omitempty"`
}

// ToggleCommand builds a toggle command.
func ToggleCommand(enabled bool) Command {
	return Command{Action: ActionToggle, Enabled: enabled}
}

// SetZoomCommand builds a setZoom command.
func SetZoomCommand(zoom float64) Command {
	return Command{Action: ActionSetZoom, Zoom: zoom}
}

// CommandResponse is the reply to a Command.
type CommandResponse struct {
	Success bool    `json:"success"`
	Enabled bool    `json:"enabled"`
	Zoom    float64 `json:"zoom,omitempty"`
	Domain  string  `json:"domain,omitempty"`
	Error   string  `json:"error,omitempty"`
}
