// Package repository defines persistence interfaces for domain data.
package repository

import (
	"context"
	"time"
)

// SettingsEntry is one row of the flat settings store.
type SettingsEntry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// SettingsRepository is a flat key-value store. Values are JSON documents;
// decoding them is the caller's concern.
type SettingsRepository interface {
	// Get returns the raw value for key, or nil if the key was never written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetAll returns every entry ordered by key.
	GetAll(ctx context.Context) ([]SettingsEntry, error)
}
