package usecase_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jayseik/cinefill/internal/domain/repository"
	"github.com/jayseik/cinefill/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// memRepo is an in-memory SettingsRepository for behavioural tests.
type memRepo struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemRepo() *memRepo {
	return &memRepo{values: make(map[string][]byte)}
}

func (r *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *memRepo) Set(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *memRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *memRepo) GetAll(context.Context) ([]repository.SettingsEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.SettingsEntry
	for _, k := range slices.Sorted(maps.Keys(r.values)) {
		out = append(out, repository.SettingsEntry{Key: k, Value: r.values[k], UpdatedAt: time.Now()})
	}
	return out, nil
}
