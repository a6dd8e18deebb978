// internal/browser/factory.go
package browser

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// OpenFunc starts a new session. Open is the production implementation;
// tests substitute an in-memory driver.
type OpenFunc func(ctx context.Context, config *BrowserConfig, logger *zap.Logger) (Driver, error)

// ParseName normalizes a browser name from flags or configuration.
func ParseName(s string) (Name, error) {
	switch n := Name(strings.ToLower(strings.TrimSpace(s))); n {
	case Chrome, Firefox, Edge:
		return n, nil
	case "":
		return Chrome, nil
	default:
		return "", fmt.Errorf("%w: %q (want chrome, firefox or edge)", ErrUnsupportedBrowser, s)
	}
}

// Open launches a session for config.Name.
//
// chrome and edge run on chromedp unless a WebDriver URL is configured;
// firefox always needs a WebDriver endpoint such as geckodriver.
func Open(ctx context.Context, config *BrowserConfig, logger *zap.Logger) (Driver, error) {
	if config == nil {
		config = DefaultBrowserConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	name, err := ParseName(string(config.Name))
	if err != nil {
		return nil, err
	}
	cfg := *config
	cfg.Name = name

	var d Driver
	switch name {
	case Chrome:
		if cfg.WebDriverURL != "" {
			d, err = NewWebDriver(ctx, &cfg, logger)
		} else {
			d, err = NewChromeDriver(ctx, &cfg, logger)
		}

	case Edge:
		if cfg.Headless {
			logger.Warn("headless mode is not supported for edge, launching headed")
			cfg.Headless = false
		}
		if cfg.WebDriverURL != "" {
			d, err = NewWebDriver(ctx, &cfg, logger)
			break
		}
		if cfg.ExecPath == "" {
			if cfg.ExecPath, err = edgeExecPath(); err != nil {
				return nil, err
			}
		}
		d, err = NewChromeDriver(ctx, &cfg, logger)

	case Firefox:
		d, err = NewWebDriver(ctx, &cfg, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}

	if cfg.ActionRate > 0 {
		d = Throttle(d, cfg.ActionRate, 1)
	}
	return d, nil
}

// CloseExtraWindows closes every window except the first and switches to
// it. Extensions often open a welcome tab on startup.
func CloseExtraWindows(ctx context.Context, d Driver) error {
	handles, err := d.WindowHandles(ctx)
	if err != nil {
		return err
	}
	if len(handles) <= 1 {
		return nil
	}
	for _, h := range handles[1:] {
		if err := d.SwitchToWindow(ctx, h); err != nil {
			return err
		}
		if err := d.CloseWindow(ctx); err != nil {
			return err
		}
	}
	return d.SwitchToWindow(ctx, handles[0])
}
