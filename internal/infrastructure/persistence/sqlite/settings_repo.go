package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jayseik/cinefill/internal/domain/repository"
	"github.com/jayseik/cinefill/internal/logging"
)

const (
	getSettingSQL  = `SELECT value FROM settings WHERE key = ?`
	listSettingSQL = `SELECT key, value, updated_at FROM settings ORDER BY key`
	setSettingSQL  = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteSettingSQL = `DELETE FROM settings WHERE key = ?`
)

type settingsRepo struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SQLite-backed settings repository.
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, getSettingSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return []byte(value), nil
}

func (r *settingsRepo) Set(ctx context.Context, key string, value []byte) error {
	logging.FromContext(ctx).Debug().Str("key", key).RawJSON("value", value).Msg("writing setting")

	if _, err := r.db.ExecContext(ctx, setSettingSQL, key, string(value)); err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

func (r *settingsRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, deleteSettingSQL, key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}

func (r *settingsRepo) GetAll(ctx context.Context) ([]repository.SettingsEntry, error) {
	rows, err := r.db.QueryContext(ctx, listSettingSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []repository.SettingsEntry
	for rows.Next() {
		var key, value, updatedAt string
		if err := rows.Scan(&key, &value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		entries = append(entries, repository.SettingsEntry{
			Key:       key,
			Value:     []byte(value),
			UpdatedAt: parseTimestamp(updatedAt),
		})
	}
	return entries, rows.Err()
}

// parseTimestamp accepts both the CURRENT_TIMESTAMP text form and the RFC 3339
// form database/sql produces when the driver already decoded a time value.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
