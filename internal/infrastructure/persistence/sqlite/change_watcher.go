package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jayseik/cinefill/internal/logging"
)

// DefaultChangePollInterval is how often ChangeWatcher checks for foreign commits.
const DefaultChangePollInterval = 500 * time.Millisecond

// ChangeWatcher reports commits made by other connections, typically the CLI
// writing settings while the daemon runs. It relies on PRAGMA data_version,
// which only moves when a different connection commits.
type ChangeWatcher struct {
	db       *sql.DB
	interval time.Duration
}

// NewChangeWatcher creates a watcher over db. The pool must keep a single
// long-lived connection (see NewConnection).
func NewChangeWatcher(db *sql.DB, interval time.Duration) *ChangeWatcher {
	if interval <= 0 {
		interval = DefaultChangePollInterval
	}
	return &ChangeWatcher{db: db, interval: interval}
}

// Run polls until ctx is done, calling onChange after every foreign commit.
func (w *ChangeWatcher) Run(ctx context.Context, onChange func(context.Context)) error {
	log := logging.FromContext(ctx)

	last, err := w.dataVersion(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		current, err := w.dataVersion(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Msg("settings change poll failed")
			continue
		}
		if current == last {
			continue
		}
		last = current
		log.Debug().Int64("data_version", current).Msg("settings changed by another process")
		onChange(ctx)
	}
}

func (w *ChangeWatcher) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	if err := w.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read data_version: %w", err)
	}
	return v, nil
}
