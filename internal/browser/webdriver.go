// internal/browser/webdriver.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"go.uber.org/zap"
)

// DefaultWebDriverURL is where geckodriver listens by default.
const DefaultWebDriverURL = "http://127.0.0.1:4444"

// WebDriver implements Driver over the W3C WebDriver protocol. It is used
// for Firefox through geckodriver or a Selenium server.
type WebDriver struct {
	wd     selenium.WebDriver
	config *BrowserConfig
	logger *zap.Logger

	mu       sync.Mutex
	frames   []selenium.WebElement
	quitOnce sync.Once
	closed   bool
}

// NewWebDriver opens a remote session at config.WebDriverURL.
func NewWebDriver(ctx context.Context, config *BrowserConfig, logger *zap.Logger) (*WebDriver, error) {
	if config == nil {
		config = DefaultBrowserConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("webdriver")

	url := config.WebDriverURL
	if url == "" {
		url = DefaultWebDriverURL
	}

	caps, err := webDriverCapabilities(config)
	if err != nil {
		return nil, err
	}

	type result struct {
		wd  selenium.WebDriver
		err error
	}
	done := make(chan result, 1)
	go func() {
		wd, err := selenium.NewRemote(caps, url)
		done <- result{wd, err}
	}()

	var wd selenium.WebDriver
	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("failed to open webdriver session at %s: %w", url, r.err)
		}
		wd = r.wd
	case <-ctx.Done():
		go func() {
			if r := <-done; r.wd != nil {
				r.wd.Quit()
			}
		}()
		return nil, ctx.Err()
	}

	if config.PageLoadTimeout > 0 {
		if err := wd.SetPageLoadTimeout(config.PageLoadTimeout); err != nil {
			logger.Debug("failed to set page load timeout", zap.Error(err))
		}
	}
	if !config.Headless {
		if err := wd.MaximizeWindow(""); err != nil {
			logger.Debug("failed to maximize window", zap.Error(err))
		}
	}

	logger.Info("browser started",
		zap.String("browser", string(config.Name)),
		zap.String("url", url),
		zap.Bool("headless", config.Headless),
	)
	return &WebDriver{wd: wd, config: config, logger: logger}, nil
}

// unhandledPrompt keeps a dialog open when another command arrives, so it
// stays pending until AcceptDialog or DismissDialog resolves it.
const unhandledPrompt = "ignore"

func webDriverCapabilities(config *BrowserConfig) (selenium.Capabilities, error) {
	switch config.Name {
	case Firefox:
		caps := selenium.Capabilities{"browserName": "firefox", "unhandledPromptBehavior": unhandledPrompt}
		ff := firefox.Capabilities{Prefs: map[string]interface{}{}}
		if config.ExecPath != "" {
			ff.Binary = config.ExecPath
		}
		if config.Headless {
			ff.Args = append(ff.Args, "-headless")
		}
		ff.Args = append(ff.Args,
			fmt.Sprintf("--width=%d", config.ViewportWidth),
			fmt.Sprintf("--height=%d", config.ViewportHeight),
		)
		if config.DownloadDir != "" {
			ff.Prefs["browser.download.folderList"] = 2
			ff.Prefs["browser.download.dir"] = config.DownloadDir
			ff.Prefs["browser.helperApps.neverAsk.saveToDisk"] = "application/octet-stream,image/jpeg,text/plain"
		}
		if config.AntiDetection {
			ff.Prefs["dom.webdriver.enabled"] = false
		}
		if config.UserAgent != "" {
			ff.Prefs["general.useragent.override"] = config.UserAgent
		}
		caps.AddFirefox(ff)
		return caps, nil

	case Chrome, Edge:
		caps := selenium.Capabilities{"browserName": "chrome", "unhandledPromptBehavior": unhandledPrompt}
		if config.Name == Edge {
			caps["browserName"] = "MicrosoftEdge"
		}
		cc := chrome.Capabilities{
			Path: config.ExecPath,
			Args: []string{fmt.Sprintf("--window-size=%d,%d", config.ViewportWidth, config.ViewportHeight)},
			Prefs: map[string]interface{}{
				"download.prompt_for_download": false,
				"download.directory_upgrade":   true,
				"safebrowsing.enabled":         true,
			},
		}
		if config.Headless && config.Name == Chrome {
			cc.Args = append(cc.Args, "--headless=new", "--disable-gpu")
		}
		if config.AntiDetection {
			cc.ExcludeSwitches = []string{"enable-automation"}
			cc.Args = append(cc.Args, "--disable-blink-features=AutomationControlled")
		}
		if config.DownloadDir != "" {
			cc.Prefs["download.default_directory"] = config.DownloadDir
		}
		if len(config.Extensions) > 0 {
			cc.Args = append(cc.Args, "--load-extension="+strings.Join(config.Extensions, ","))
		}
		caps.AddChrome(cc)
		return caps, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBrowser, config.Name)
	}
}

// translate maps WebDriver protocol errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var se *selenium.Error
	code := strings.ToLower(err.Error())
	if errors.As(err, &se) {
		code = strings.ToLower(se.Err)
	}
	switch {
	case strings.Contains(code, "unexpected alert open"):
		return fmt.Errorf("%w: %v", ErrDialogPending, err)
	case strings.Contains(code, "no such alert"):
		return fmt.Errorf("%w: %v", ErrNoDialog, err)
	case strings.Contains(code, "no such element"), strings.Contains(code, "stale element reference"):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case strings.Contains(code, "element click intercepted"):
		return fmt.Errorf("%w: %v", ErrClickIntercepted, err)
	case strings.Contains(code, "element not interactable"), strings.Contains(code, "invalid element state"):
		return fmt.Errorf("%w: %v", ErrNotInteractable, err)
	case strings.Contains(code, "no such window"):
		return fmt.Errorf("%w: %v", ErrNoSuchWindow, err)
	case strings.Contains(code, "invalid session id"):
		return fmt.Errorf("%w: %v", ErrSessionClosed, err)
	}
	return err
}

func (d *WebDriver) check() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrSessionClosed
	}
	return nil
}

func byStrategy(loc Locator) (string, string, error) {
	if err := loc.Validate(); err != nil {
		return "", "", err
	}
	switch loc.By {
	case ByXPath:
		return selenium.ByXPATH, loc.Value, nil
	case ByTagName:
		return selenium.ByTagName, loc.Value, nil
	case ByID:
		return selenium.ByID, loc.Value, nil
	default:
		return selenium.ByCSSSelector, loc.Value, nil
	}
}

func (d *WebDriver) Navigate(ctx context.Context, url string) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("navigation failed: %w", translate(err))
	}
	d.mu.Lock()
	d.frames = nil
	d.mu.Unlock()
	return nil
}

func (d *WebDriver) Title(ctx context.Context) (string, error) {
	if err := d.check(); err != nil {
		return "", err
	}
	title, err := d.wd.Title()
	return title, translate(err)
}

func (d *WebDriver) CurrentURL(ctx context.Context) (string, error) {
	if err := d.check(); err != nil {
		return "", err
	}
	u, err := d.wd.CurrentURL()
	return u, translate(err)
}

func (d *WebDriver) PageSource(ctx context.Context) (string, error) {
	if err := d.check(); err != nil {
		return "", err
	}
	src, err := d.wd.PageSource()
	return src, translate(err)
}

func (d *WebDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	by, value, err := byStrategy(loc)
	if err != nil {
		return nil, err
	}
	we, err := d.wd.FindElement(by, value)
	if err != nil {
		if err = translate(err); IsNotFound(err) {
			return nil, NotFound(loc)
		}
		return nil, err
	}
	return &webElement{d: d, we: we}, nil
}

func (d *WebDriver) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	by, value, err := byStrategy(loc)
	if err != nil {
		return nil, err
	}
	wes, err := d.wd.FindElements(by, value)
	if err != nil {
		if err = translate(err); IsNotFound(err) {
			return []Element{}, nil
		}
		return nil, err
	}
	return wrapWebElements(d, wes), nil
}

func wrapWebElements(d *WebDriver, wes []selenium.WebElement) []Element {
	out := make([]Element, 0, len(wes))
	for _, we := range wes {
		out = append(out, &webElement{d: d, we: we})
	}
	return out
}

func (d *WebDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	if args == nil {
		args = []interface{}{}
	}
	res, err := d.wd.ExecuteScript(script, args)
	if err != nil {
		return nil, fmt.Errorf("script execution failed: %w", translate(err))
	}
	return res, nil
}

func (d *WebDriver) WindowHandles(ctx context.Context) ([]string, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	hs, err := d.wd.WindowHandles()
	return hs, translate(err)
}

func (d *WebDriver) CurrentWindow(ctx context.Context) (string, error) {
	if err := d.check(); err != nil {
		return "", err
	}
	h, err := d.wd.CurrentWindowHandle()
	return h, translate(err)
}

func (d *WebDriver) SwitchToWindow(ctx context.Context, handle string) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.wd.SwitchWindow(handle); err != nil {
		return translate(err)
	}
	d.mu.Lock()
	d.frames = nil
	d.mu.Unlock()
	return nil
}

func (d *WebDriver) CloseWindow(ctx context.Context) error {
	if err := d.check(); err != nil {
		return err
	}
	return translate(d.wd.Close())
}

func (d *WebDriver) SwitchToFrame(ctx context.Context, frame Element) error {
	if err := d.check(); err != nil {
		return err
	}
	el, ok := frame.(*webElement)
	if !ok {
		return fmt.Errorf("%w: frame element from another backend", ErrUnsupportedLocator)
	}
	if err := d.wd.SwitchFrame(el.we); err != nil {
		return translate(err)
	}
	d.mu.Lock()
	d.frames = append(d.frames, el.we)
	d.mu.Unlock()
	return nil
}

// SwitchToParentFrame replays the frame path minus its last entry.
func (d *WebDriver) SwitchToParentFrame(ctx context.Context) error {
	if err := d.check(); err != nil {
		return err
	}
	d.mu.Lock()
	path := d.frames
	if len(path) > 0 {
		path = path[:len(path)-1]
	}
	d.frames = nil
	d.mu.Unlock()

	if err := d.wd.SwitchFrame(nil); err != nil {
		return translate(err)
	}
	for _, f := range path {
		if err := d.wd.SwitchFrame(f); err != nil {
			return translate(err)
		}
		d.mu.Lock()
		d.frames = append(d.frames, f)
		d.mu.Unlock()
	}
	return nil
}

func (d *WebDriver) SwitchToDefaultContent(ctx context.Context) error {
	if err := d.check(); err != nil {
		return err
	}
	d.mu.Lock()
	d.frames = nil
	d.mu.Unlock()
	return translate(d.wd.SwitchFrame(nil))
}

// Dialog probes for an open alert. WebDriver does not report the dialog
// kind, so Type is DialogAlert unless a default prompt value is visible.
func (d *WebDriver) Dialog(ctx context.Context) (*Dialog, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	text, err := d.wd.AlertText()
	if err != nil {
		err = translate(err)
		if errors.Is(err, ErrNoDialog) {
			return nil, ErrNoDialog
		}
		return nil, err
	}
	return &Dialog{Type: DialogAlert, Message: text}, nil
}

func (d *WebDriver) AcceptDialog(ctx context.Context) error {
	if err := d.check(); err != nil {
		return err
	}
	return translate(d.wd.AcceptAlert())
}

func (d *WebDriver) DismissDialog(ctx context.Context) error {
	if err := d.check(); err != nil {
		return err
	}
	return translate(d.wd.DismissAlert())
}

func (d *WebDriver) AnswerPrompt(ctx context.Context, text string) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := d.wd.SetAlertText(text); err != nil {
		return translate(err)
	}
	return translate(d.wd.AcceptAlert())
}

func (d *WebDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	buf, err := d.wd.Screenshot()
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", translate(err))
	}
	return buf, nil
}

func (d *WebDriver) Quit() error {
	var err error
	d.quitOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		start := time.Now()
		err = d.wd.Quit()
		d.logger.Info("browser stopped", zap.Duration("took", time.Since(start)))
	})
	return err
}

// webElement adapts selenium.WebElement to Element.
type webElement struct {
	d  *WebDriver
	we selenium.WebElement
}

func (e *webElement) script(script string) error {
	if err := e.d.check(); err != nil {
		return err
	}
	_, err := e.d.wd.ExecuteScript(script, []interface{}{e.we})
	return translate(err)
}

func (e *webElement) Click(ctx context.Context) error {
	if err := e.d.check(); err != nil {
		return err
	}
	return translate(e.we.Click())
}

func (e *webElement) ClickJS(ctx context.Context) error {
	return e.script("arguments[0].click();")
}

func (e *webElement) DoubleClick(ctx context.Context) error {
	if err := e.d.check(); err != nil {
		return err
	}
	if err := e.we.MoveTo(0, 0); err != nil {
		return translate(err)
	}
	return translate(e.d.wd.DoubleClick())
}

func (e *webElement) RightClick(ctx context.Context) error {
	if err := e.d.check(); err != nil {
		return err
	}
	if err := e.we.MoveTo(0, 0); err != nil {
		return translate(err)
	}
	return translate(e.d.wd.Click(selenium.RightButton))
}

func (e *webElement) ScrollIntoView(ctx context.Context) error {
	return e.script("arguments[0].scrollIntoView({block: 'center', inline: 'center'});")
}

func (e *webElement) Text(ctx context.Context) (string, error) {
	if err := e.d.check(); err != nil {
		return "", err
	}
	s, err := e.we.Text()
	return strings.TrimSpace(s), translate(err)
}

func (e *webElement) Value(ctx context.Context) (string, error) {
	v, _, err := e.Attribute(ctx, "value")
	return v, err
}

// Attribute treats a null attribute response as absent.
func (e *webElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := e.d.check(); err != nil {
		return "", false, err
	}
	v, err := e.we.GetAttribute(name)
	if err != nil {
		if strings.Contains(err.Error(), "nil return value") {
			return "", false, nil
		}
		return "", false, translate(err)
	}
	return v, true, nil
}

func (e *webElement) IsDisplayed(ctx context.Context) (bool, error) {
	if err := e.d.check(); err != nil {
		return false, err
	}
	ok, err := e.we.IsDisplayed()
	return ok, translate(err)
}

func (e *webElement) IsEnabled(ctx context.Context) (bool, error) {
	if err := e.d.check(); err != nil {
		return false, err
	}
	ok, err := e.we.IsEnabled()
	return ok, translate(err)
}

func (e *webElement) IsSelected(ctx context.Context) (bool, error) {
	if err := e.d.check(); err != nil {
		return false, err
	}
	ok, err := e.we.IsSelected()
	return ok, translate(err)
}

func (e *webElement) SendKeys(ctx context.Context, keys string) error {
	if err := e.d.check(); err != nil {
		return err
	}
	return translate(e.we.SendKeys(keys))
}

func (e *webElement) Clear(ctx context.Context) error {
	if err := e.d.check(); err != nil {
		return err
	}
	return translate(e.we.Clear())
}

func (e *webElement) SelectByText(ctx context.Context, text string) error {
	opts, err := e.we.FindElements(selenium.ByTagName, "option")
	if err != nil {
		return translate(err)
	}
	for _, o := range opts {
		t, err := o.Text()
		if err != nil {
			return translate(err)
		}
		if strings.TrimSpace(t) == text {
			return translate(o.Click())
		}
	}
	return fmt.Errorf("%w: option %q", ErrNotFound, text)
}

// Upload sends the file paths as keys, which is how WebDriver fills file inputs.
func (e *webElement) Upload(ctx context.Context, paths ...string) error {
	if err := e.d.check(); err != nil {
		return err
	}
	return translate(e.we.SendKeys(strings.Join(paths, "\n")))
}

func (e *webElement) Find(ctx context.Context, loc Locator) (Element, error) {
	by, value, err := byStrategy(loc)
	if err != nil {
		return nil, err
	}
	we, err := e.we.FindElement(by, value)
	if err != nil {
		if err = translate(err); IsNotFound(err) {
			return nil, NotFound(loc)
		}
		return nil, err
	}
	return &webElement{d: e.d, we: we}, nil
}

func (e *webElement) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	by, value, err := byStrategy(loc)
	if err != nil {
		return nil, err
	}
	wes, err := e.we.FindElements(by, value)
	if err != nil {
		if err = translate(err); IsNotFound(err) {
			return []Element{}, nil
		}
		return nil, err
	}
	return wrapWebElements(e.d, wes), nil
}
