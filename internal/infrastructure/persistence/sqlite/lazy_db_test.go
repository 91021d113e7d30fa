package sqlite_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayseik/cinefill/internal/infrastructure/persistence/sqlite"
)

func TestLazyDB_OpensOnFirstAccess(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "cinefill.db"))
	assert.False(t, lazy.IsInitialized())

	db, err := lazy.DB(ctx)
	require.NoError(t, err)
	assert.True(t, lazy.IsInitialized())

	var version int64
	version, err = sqlite.SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, lazy.Close())
	assert.False(t, lazy.IsInitialized())

	_, err = lazy.DB(ctx)
	assert.Error(t, err, "a closed provider does not reopen")
}

func TestLazyDB_ConcurrentAccessSharesConnection(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "cinefill.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	const goroutines = 8
	var wg sync.WaitGroup
	dbs := make([]any, goroutines)
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := lazy.DB(ctx)
			assert.NoError(t, err)
			dbs[i] = db
		}()
	}
	wg.Wait()

	for _, db := range dbs[1:] {
		assert.Same(t, dbs[0], db)
	}
}

func TestLazyDB_CloseBeforeOpen(t *testing.T) {
	lazy := sqlite.NewLazyDB("/nonexistent/cinefill.db")
	assert.NoError(t, lazy.Close())
	assert.Equal(t, "/nonexistent/cinefill.db", lazy.Path())
}

func TestLazySettingsRepository_OpensOnFirstUse(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "cinefill.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	repo := sqlite.NewLazySettingsRepository(lazy)
	assert.False(t, lazy.IsInitialized())

	require.NoError(t, repo.Set(ctx, "enabled", []byte(`true`)))
	assert.True(t, lazy.IsInitialized())

	got, err := repo.Get(ctx, "enabled")
	require.NoError(t, err)
	assert.Equal(t, `true`, string(got))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, "enabled"))
	got, err = repo.Get(ctx, "enabled")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLazySettingsRepository_ReportsOpenFailure(t *testing.T) {
	repo := sqlite.NewLazySettingsRepository(sqlite.NewLazyDB(""))
	_, err := repo.Get(testCtx(), "enabled")
	assert.Error(t, err)
}
