package cdp

import (
	_ "embed"
	"strings"
)

//go:embed agent.js
var agentSource string

// bindingName is the runtime binding the agent reports page signals through.
const bindingName = "__cinefillEmit"

const shortcutPlaceholder = "__CINEFILL_SHORTCUT__"

// AgentScript returns the page agent with the shortcut chord baked in.
func AgentScript(shortcut Chord) string {
	return strings.Replace(agentSource, shortcutPlaceholder, shortcut.literal(), 1)
}

// signal is the payload the agent passes to the binding.
type signal struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

const (
	signalShortcut = "shortcut"
	signalActivate = "activate"
)
