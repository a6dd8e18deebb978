// internal/browser/stealth.go
package browser

import (
	"github.com/chromedp/chromedp"
)

// stealthScript hides the most common automation fingerprints from page
// scripts. It runs before any document script.
const stealthScript = `(() => {
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	if (!window.chrome) { window.chrome = { runtime: {} }; }
	const q = window.navigator.permissions && window.navigator.permissions.query;
	if (q) {
		window.navigator.permissions.query = (p) => p && p.name === 'notifications'
			? Promise.resolve({ state: Notification.permission })
			: q(p);
	}
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
})();`

// antiDetectionFlags mirrors excluding the enable-automation switch and
// turning off the AutomationControlled blink feature.
func antiDetectionFlags() []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
	}
}

// chromeUserAgent returns the configured agent or a desktop Chrome string.
func chromeUserAgent(cfg *BrowserConfig) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	if cfg.Headless && cfg.AntiDetection {
		// headless builds advertise HeadlessChrome otherwise
		return "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	}
	return ""
}
