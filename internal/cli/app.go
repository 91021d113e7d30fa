// Package cli wires the dependencies shared by cinefill's commands.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/jayseik/cinefill/internal/application/usecase"
	"github.com/jayseik/cinefill/internal/cli/styles"
	"github.com/jayseik/cinefill/internal/domain/build"
	"github.com/jayseik/cinefill/internal/infrastructure/config"
	"github.com/jayseik/cinefill/internal/infrastructure/control"
	"github.com/jayseik/cinefill/internal/infrastructure/persistence/sqlite"
	"github.com/jayseik/cinefill/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	BuildInfo build.Info

	db *sqlite.LazyDB

	themeOnce sync.Once
	theme     *styles.Theme

	// Use cases
	Settings *usecase.ManageSettingsUseCase
	Page     *usecase.ControlPageUseCase

	// Control API client for the running daemon
	Control *control.Client

	// Context with logger
	ctx context.Context
}

// NewApp loads the config from configFile (or the XDG location when empty)
// and builds the use cases. The settings database opens on first use.
func NewApp(configFile string) (*App, error) {
	mgr, err := config.NewManager(configFile)
	if err != nil {
		return nil, fmt.Errorf("create config manager: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logger := logging.NewFromConfigValues(cfg.Logging.Level, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)

	db := sqlite.NewLazyDB(cfg.Database.Path)
	settings := usecase.NewManageSettingsUseCase(sqlite.NewLazySettingsRepository(db), cfg.Settings())
	client := control.NewClient(cfg.Control.Listen, cfg.Control.Timeout)

	return &App{
		Config:   cfg,
		Manager:  mgr,
		db:       db,
		Settings: settings,
		Page:     usecase.NewControlPageUseCase(settings, client),
		Control:  client,
		ctx:      ctx,
	}, nil
}

// Theme returns the CLI theme, resolved from the stored dark mode preference
// on first call.
func (a *App) Theme() *styles.Theme {
	a.themeOnce.Do(func() {
		dark, err := a.Settings.DarkMode(a.ctx)
		if err != nil {
			logging.FromContext(a.ctx).Debug().Err(err).Msg("failed to read dark mode, following terminal")
		}
		a.theme = styles.NewTheme(dark)
	})
	return a.theme
}

// DB returns the settings database, opening it if needed.
func (a *App) DB(ctx context.Context) (*sql.DB, error) {
	return a.db.DB(ctx)
}

// Close releases all resources.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}
