package cdp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultShortcut toggles the global enabled flag from inside a page.
const DefaultShortcut = "Alt+Shift+U"

// Chord is a keyboard shortcut matched against KeyboardEvent fields.
type Chord struct {
	Key   string `json:"key"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
}

// ParseChord parses a chord like "Alt+Shift+U" or "ctrl+period". Modifier
// names are case-insensitive. An empty string disables the shortcut.
func ParseChord(s string) (Chord, error) {
	var c Chord
	s = strings.TrimSpace(s)
	if s == "" {
		return c, nil
	}

	parts := strings.Split(s, "+")
	for i, part := range parts {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			return Chord{}, fmt.Errorf("invalid shortcut %q: empty key", s)
		}
		if i == len(parts)-1 {
			c.Key = keyAlias(p)
			break
		}
		switch p {
		case "alt", "option":
			c.Alt = true
		case "shift":
			c.Shift = true
		case "ctrl", "control":
			c.Ctrl = true
		case "meta", "cmd", "super":
			c.Meta = true
		default:
			return Chord{}, fmt.Errorf("invalid shortcut %q: unknown modifier %q", s, part)
		}
	}
	if !c.Alt && !c.Ctrl && !c.Meta {
		return Chord{}, fmt.Errorf("invalid shortcut %q: needs alt, ctrl or meta", s)
	}
	return c, nil
}

func keyAlias(k string) string {
	switch k {
	case "space":
		return " "
	case "period":
		return "."
	case "comma":
		return ","
	default:
		return k
	}
}

// String renders the chord back in canonical form.
func (c Chord) String() string {
	if c.Key == "" {
		return ""
	}
	var parts []string
	if c.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Alt {
		parts = append(parts, "Alt")
	}
	if c.Shift {
		parts = append(parts, "Shift")
	}
	if c.Meta {
		parts = append(parts, "Meta")
	}
	return strings.Join(append(parts, strings.ToUpper(c.Key)), "+")
}

func (c Chord) literal() string {
	if c.Key == "" {
		return "null"
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "null"
	}
	return string(b)
}
