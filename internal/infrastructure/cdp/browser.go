package cdp

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/chromedp"

	"github.com/jayseik/cinefill/internal/logging"
)

// BrowserConfig selects how the daemon reaches Chromium.
type BrowserConfig struct {
	// CDPURL attaches to an already running browser when set.
	CDPURL string
	// Binary overrides the Chromium executable to launch.
	Binary string
	// ProfileDir is the user data directory of a launched browser.
	ProfileDir string
	// Headless launches without a window. Ignored when attaching.
	Headless bool
	// StartURL is opened in the daemon's own tab once connected.
	StartURL string
}

// Connect attaches to or launches Chromium and returns a browser context.
// The returned cancel releases the allocator; a launched browser exits with it.
func Connect(ctx context.Context, cfg BrowserConfig) (context.Context, context.CancelFunc, error) {
	log := logging.FromContext(ctx)

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if cfg.CDPURL != "" {
		log.Info().Str("url", cfg.CDPURL).Msg("connecting to chrome")
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, cfg.CDPURL)
	} else {
		if cfg.ProfileDir != "" {
			if err := os.MkdirAll(cfg.ProfileDir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create profile dir: %w", err)
			}
		}
		log.Info().Str("profile", cfg.ProfileDir).Bool("headless", cfg.Headless).Msg("launching chrome")
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, nil, fmt.Errorf("connect to chrome: %w", err)
	}

	if cfg.StartURL != "" {
		if err := chromedp.Run(browserCtx, chromedp.Navigate(cfg.StartURL)); err != nil {
			log.Warn().Err(err).Str("url", cfg.StartURL).Msg("failed to open start url")
		}
	}

	return browserCtx, func() {
		browserCancel()
		allocCancel()
	}, nil
}

func execOptions(cfg BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("hide-crash-restore-bubble", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.Flag("headless", cfg.Headless),
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.ProfileDir))
	}
	if cfg.Binary != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Binary))
	}
	return opts
}
