package port

import (
	"context"
	"errors"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

// ErrNoEngine is returned when no transform engine is resident on the target page.
var ErrNoEngine = errors.New("no engine on target page")

// CommandSender delivers a command to the transform engine of the active page.
// Delivery is best effort: callers treat any error as "no engine present".
type CommandSender interface {
	Send(ctx context.Context, cmd entity.Command) (*entity.CommandResponse, error)
}
