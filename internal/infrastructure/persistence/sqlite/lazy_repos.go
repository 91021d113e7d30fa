package sqlite

import (
	"context"
	"sync"

	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/repository"
)

// LazySettingsRepository defers opening the database until the first
// settings access.
type LazySettingsRepository struct {
	provider port.DatabaseProvider
	repo     repository.SettingsRepository
	once     sync.Once
	initErr  error
}

// NewLazySettingsRepository creates a lazy-loading settings repository.
func NewLazySettingsRepository(provider port.DatabaseProvider) repository.SettingsRepository {
	return &LazySettingsRepository{provider: provider}
}

func (r *LazySettingsRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewSettingsRepository(db)
	})
	return r.initErr
}

func (r *LazySettingsRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, key)
}

func (r *LazySettingsRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Set(ctx, key, value)
}

func (r *LazySettingsRepository) Delete(ctx context.Context, key string) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, key)
}

func (r *LazySettingsRepository) GetAll(ctx context.Context) ([]repository.SettingsEntry, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetAll(ctx)
}
