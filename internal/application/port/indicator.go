package port

import (
	"context"

	"github.com/jayseik/cinefill/internal/domain/entity"
)

// Indicator displays the badge mirroring the global enabled flag.
type Indicator interface {
	Show(ctx context.Context, badge entity.Badge) error
}
