package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jayseik/cinefill/internal/application/transform"
	"github.com/jayseik/cinefill/internal/application/usecase"
	"github.com/jayseik/cinefill/internal/cli"
	"github.com/jayseik/cinefill/internal/infrastructure/cdp"
	"github.com/jayseik/cinefill/internal/infrastructure/config"
	"github.com/jayseik/cinefill/internal/infrastructure/control"
	"github.com/jayseik/cinefill/internal/infrastructure/indicator"
	"github.com/jayseik/cinefill/internal/infrastructure/persistence/sqlite"
	"github.com/jayseik/cinefill/internal/logging"
)

var errBrowserClosed = errors.New("browser closed")

var (
	runCDPURL   string
	runHeadless bool
	runListen   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the daemon",
	Long: `Start the cinefill daemon.

The daemon launches Chromium (or attaches to a running one with --cdp-url),
installs a transform engine in every page and serves the local control API
used by the other subcommands. It runs until interrupted or until the browser
exits.

Examples:
  cinefill run
  cinefill run --cdp-url http://127.0.0.1:9222
  cinefill run --headless`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runCDPURL, "cdp-url", "", "attach to a running browser instead of launching one")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "launch Chromium headless")
	runCmd.Flags().StringVar(&runListen, "listen", "", "control API address (overrides control.listen)")
}

func runDaemon(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	cfg := *a.Config
	if cmd.Flags().Changed("cdp-url") {
		cfg.Chrome.CDPURL = runCDPURL
	}
	if cmd.Flags().Changed("headless") {
		cfg.Chrome.Headless = runHeadless
	}
	if runListen != "" {
		cfg.Control.Listen = runListen
	}

	logger, closeLog := newDaemonLogger(&cfg)
	defer closeLog()
	ctx := logging.WithContext(context.Background(), logger)
	ctx = logging.WithComponent(ctx, "daemon")
	log := logging.FromContext(ctx)

	chord, err := cdp.ParseChord(cfg.Shortcuts.Toggle)
	if err != nil {
		return fmt.Errorf("shortcuts.toggle: %w", err)
	}

	watchConfig(ctx, a)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The browser outlives the signal so engines can retract on shutdown.
	browserCtx, closeBrowser, err := cdp.Connect(context.WithoutCancel(ctx), cdp.BrowserConfig{
		CDPURL:     cfg.Chrome.CDPURL,
		Binary:     cfg.Chrome.Binary,
		ProfileDir: cfg.Chrome.ProfileDir,
		Headless:   cfg.Chrome.Headless,
		StartURL:   cfg.Chrome.StartURL,
	})
	if err != nil {
		return err
	}
	defer closeBrowser()

	d, err := newDaemon(ctx, a, &cfg, browserCtx, chord)
	if err != nil {
		return err
	}

	if err := a.Settings.Reload(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to read settings baseline")
	}
	stopIndicator, err := usecase.NewSyncIndicatorUseCase(a.Settings, indicator.NewTerminal(os.Stderr)).Start(ctx)
	if err != nil {
		return fmt.Errorf("start indicator: %w", err)
	}
	defer stopIndicator()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.supervisor.Run(gctx) })
	g.Go(func() error { return d.server.Serve(gctx, cfg.Control.Listen) })
	g.Go(func() error {
		return d.watcher.Run(gctx, func(c context.Context) {
			if err := a.Settings.Reload(c); err != nil {
				logging.FromContext(c).Warn().Err(err).Msg("failed to reload settings")
			}
		})
	})
	g.Go(func() error {
		select {
		case <-browserCtx.Done():
			if ctx.Err() != nil {
				return nil
			}
			return errBrowserClosed
		case <-gctx.Done():
			return nil
		}
	})

	log.Info().
		Str("listen", cfg.Control.Listen).
		Str("shortcut", chord.String()).
		Msg("cinefill running")

	err = g.Wait()
	if errors.Is(err, errBrowserClosed) {
		log.Info().Msg("browser closed, exiting")
		return nil
	}
	return err
}

type daemon struct {
	supervisor *cdp.Supervisor
	server     *control.Server
	watcher    *sqlite.ChangeWatcher
}

func newDaemon(ctx context.Context, a *cli.App, cfg *config.Config, browserCtx context.Context, chord cdp.Chord) (*daemon, error) {
	db, err := a.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	opts := transform.DefaultOptions()
	opts.RetryInterval = cfg.Engine.RetryInterval
	opts.FullscreenDelay = cfg.Engine.FullscreenDelay
	opts.PlayDelay = cfg.Engine.PlayDelay
	opts.ObserverRetry = cfg.Engine.ObserverRetry
	opts.AncestorDepth = cfg.Engine.AncestorDepth

	supervisor := cdp.NewSupervisor(browserCtx, a.Settings, cdp.SupervisorConfig{
		Engine:      opts,
		Shortcut:    chord,
		CallTimeout: cfg.Engine.CallTimeout,
		Debounce:    cfg.Shortcuts.Debounce,
	})

	// In-process, the supervisor is the command channel to the active tab.
	page := usecase.NewControlPageUseCase(a.Settings, supervisor)
	supervisor.SetShortcutHandler(usecase.NewToggleUseCase(a.Settings, page))

	version := a.BuildInfo.Version
	if version == "" {
		version = "dev"
	}

	return &daemon{
		supervisor: supervisor,
		server:     control.NewServer(ctx, supervisor, version),
		watcher:    sqlite.NewChangeWatcher(db, cfg.Database.PollInterval),
	}, nil
}

// newDaemonLogger passes every level; the global level filters so that config
// reloads can move it both ways.
func newDaemonLogger(cfg *config.Config) (zerolog.Logger, func()) {
	zerolog.SetGlobalLevel(logging.ParseLevel(cfg.Logging.Level))

	logCfg := logging.DefaultConfig()
	logCfg.Level = zerolog.TraceLevel
	logCfg.Format = cfg.Logging.Format
	if !cfg.Logging.File {
		return logging.New(logCfg), func() {}
	}

	logger, cleanup, err := logging.NewWithFile(logCfg, logging.RotationConfig{
		Dir:        cfg.Logging.LogDir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Logging.LogDir).Msg("file logging unavailable")
	}
	return logger, cleanup
}

// watchConfig follows the config file. Only the log level applies live; other
// sections need a restart.
func watchConfig(ctx context.Context, a *cli.App) {
	log := logging.FromContext(ctx)

	a.Manager.OnConfigChange(func(c *config.Config) {
		zerolog.SetGlobalLevel(logging.ParseLevel(c.Logging.Level))
		log.Info().Str("level", c.Logging.Level).Msg("config reloaded; restart to apply browser, control and engine changes")
	})
	if err := a.Manager.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watch unavailable")
	}
}
