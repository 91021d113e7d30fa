// Package indicator renders the ON/OFF badge for the daemon's terminal.
package indicator

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// Terminal writes one styled badge line per change.
type Terminal struct {
	mu    sync.Mutex
	out   io.Writer
	style lipgloss.Style
	last  *entity.Badge
}

// NewTerminal creates an indicator writing to out. A nil writer means stderr.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stderr
	}
	return &Terminal{
		out: out,
		style: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1),
	}
}

// Show implements port.Indicator. Repeating the current badge writes nothing.
func (t *Terminal) Show(ctx context.Context, badge entity.Badge) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.last != nil && *t.last == badge {
		return nil
	}

	line := t.style.Background(lipgloss.Color(badge.Color)).Render(badge.Text)
	if _, err := fmt.Fprintf(t.out, "cinefill %s\n", line); err != nil {
		return fmt.Errorf("write badge: %w", err)
	}
	t.last = &badge

	logging.FromContext(ctx).Debug().Str("badge", badge.Text).Msg("indicator updated")
	return nil
}
