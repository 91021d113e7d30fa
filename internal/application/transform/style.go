package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// Inline properties owned by the engine.
const (
	propTransform       = "transform"
	propTransformOrigin = "transform-origin"
	propOverflow        = "overflow"

	transformOrigin = "center center"
	overflowHidden  = "hidden"
)

// containerSelectors match common player wrappers. They get overflow: hidden
// from the style sheet independently of the ancestor walk.
var containerSelectors = []string{
	`video[style*="transform"]`,
	`.player`,
	`[class*="player"]`,
	`[class*="Player"]`,
	`[class*="video"]`,
	`[class*="Video"]`,
	`[data-testid*="player"]`,
	`[data-testid*="video"]`,
}

// TransformValue renders the CSS transform for a zoom factor, e.g. "scale(1.33)".
func TransformValue(zoom float64) string {
	return "scale(" + strconv.FormatFloat(zoom, 'f', -1, 64) + ")"
}

// StyleSheet renders the page-scoped rule set injected alongside the inline styles.
func StyleSheet(zoom float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "video {\n  transform: %s !important;\n  transform-origin: %s !important;\n}\n",
		TransformValue(zoom), transformOrigin)
	b.WriteString(strings.Join(containerSelectors, ",\n"))
	fmt.Fprintf(&b, " {\n  overflow: %s !important;\n}\n", overflowHidden)
	return b.String()
}
