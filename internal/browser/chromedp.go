// internal/browser/chromedp.go
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"
)

// ChromeDriver implements Driver for Chrome and Edge using chromedp.
type ChromeDriver struct {
	config *BrowserConfig
	logger *zap.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	firstTab      target.ID

	mu       sync.Mutex
	tabs     map[target.ID]*chromeTab
	order    []target.ID
	current  target.ID
	dialog   *Dialog
	dialogOn target.ID
	opened   chan struct{}
	closed   bool
	stats    BrowserStats

	quitOnce sync.Once
}

type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
	frames []*cdp.Node
}

// NewChromeDriver launches a Chrome (or Edge, via ExecPath) process and
// attaches to its first tab.
func NewChromeDriver(ctx context.Context, config *BrowserConfig, logger *zap.Logger) (*ChromeDriver, error) {
	if config == nil {
		config = DefaultBrowserConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("chrome")

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-search-engine-choice-screen", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.WindowSize(config.ViewportWidth, config.ViewportHeight),
	}

	if config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.ExecPath))
	}
	if config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	if config.Headless {
		opts = append(opts,
			chromedp.Flag("headless", "new"),
			chromedp.DisableGPU,
		)
	} else {
		opts = append(opts, chromedp.Flag("start-maximized", true))
	}

	if config.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(config.UserDataDir))
	}
	if ua := chromeUserAgent(config); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if config.AntiDetection {
		opts = append(opts, antiDetectionFlags()...)
	}
	if len(config.Extensions) > 0 {
		dirs := strings.Join(config.Extensions, ",")
		opts = append(opts,
			chromedp.Flag("load-extension", dirs),
			chromedp.Flag("disable-extensions-except", dirs),
		)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Debugf),
	)

	d := &ChromeDriver{
		config:        config,
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		tabs:          make(map[target.ID]*chromeTab),
		opened:        make(chan struct{}),
	}

	if err := d.initialize(ctx); err != nil {
		d.Quit()
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	logger.Info("browser started",
		zap.String("browser", string(config.Name)),
		zap.Bool("headless", config.Headless),
		zap.Strings("extensions", config.Extensions),
	)
	return d, nil
}

// initialize allocates the browser on the first Run. That Run must use the
// browser context itself, so the caller deadline is enforced from outside.
func (d *ChromeDriver) initialize(ctx context.Context) error {
	tasks := chromedp.Tasks{}
	if d.config.DownloadDir != "" {
		if err := os.MkdirAll(d.config.DownloadDir, 0755); err != nil {
			return fmt.Errorf("failed to create download directory: %w", err)
		}
		tasks = append(tasks, cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(d.config.DownloadDir).
			WithEventsEnabled(true))
	}
	if d.config.AntiDetection {
		tasks = append(tasks, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}))
	}

	done := make(chan error, 1)
	go func() { done <- chromedp.Run(d.browserCtx, tasks) }()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	c := chromedp.FromContext(d.browserCtx)
	if c == nil || c.Target == nil {
		return fmt.Errorf("no target attached")
	}
	d.firstTab = c.Target.TargetID

	d.mu.Lock()
	d.tabs[d.firstTab] = &chromeTab{ctx: d.browserCtx}
	d.order = []target.ID{d.firstTab}
	d.current = d.firstTab
	d.mu.Unlock()

	d.listen(d.browserCtx, d.firstTab)
	return nil
}

// listen fills the dialog slot from target events.
func (d *ChromeDriver) listen(ctx context.Context, id target.ID) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		switch e := ev.(type) {
		case *page.EventJavascriptDialogOpening:
			d.mu.Lock()
			d.dialog = &Dialog{
				Type:          DialogType(e.Type),
				Message:       e.Message,
				DefaultPrompt: e.DefaultPrompt,
			}
			d.dialogOn = id
			select {
			case <-d.opened:
			default:
				close(d.opened)
			}
			d.mu.Unlock()
			d.logger.Debug("dialog opened", zap.String("type", string(e.Type)), zap.String("message", e.Message))
		case *page.EventJavascriptDialogClosed:
			d.mu.Lock()
			if d.dialogOn == id {
				d.clearDialogLocked()
			}
			d.mu.Unlock()
		}
	})
}

func (d *ChromeDriver) clearDialogLocked() {
	d.dialog = nil
	d.dialogOn = ""
	select {
	case <-d.opened:
		d.opened = make(chan struct{})
	default:
	}
}

// active returns the current tab, refusing while a dialog is pending.
func (d *ChromeDriver) active() (*chromeTab, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrSessionClosed
	}
	if d.dialog != nil {
		return nil, ErrDialogPending
	}
	tab, ok := d.tabs[d.current]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchWindow, d.current)
	}
	return tab, nil
}

// bind derives a context from the tab that also honours the caller's
// deadline and cancellation. Cancelling it never closes the tab.
func bind(tab, caller context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(tab)
	if dl, ok := caller.Deadline(); ok {
		var cancelDl context.CancelFunc
		ctx, cancelDl = context.WithDeadline(ctx, dl)
		prev := cancel
		cancel = func() { cancelDl(); prev() }
	}
	stop := context.AfterFunc(caller, cancel)
	return ctx, func() { stop(); cancel() }
}

func (d *ChromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	tab, err := d.active()
	if err != nil {
		return err
	}
	runCtx, cancel := bind(tab.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// dispatch runs an input action that may open a dialog. Input dispatch does
// not return while a dialog is open, so the call returns as soon as the
// dialog slot fills and the action finishes in the background.
func (d *ChromeDriver) dispatch(ctx context.Context, action chromedp.Action) error {
	tab, err := d.active()
	if err != nil {
		return err
	}
	d.mu.Lock()
	opened := d.opened
	d.mu.Unlock()

	runCtx, cancel := bind(tab.ctx, ctx)
	done := make(chan error, 1)
	go func() {
		defer cancel()
		done <- chromedp.Run(runCtx, action)
	}()

	select {
	case err := <-done:
		return err
	case <-opened:
		return nil
	}
}

func (d *ChromeDriver) Navigate(ctx context.Context, url string) error {
	start := time.Now()
	if d.config.PageLoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.PageLoadTimeout)
		defer cancel()
	}

	if err := d.run(ctx, chromedp.Navigate(url)); err != nil {
		d.mu.Lock()
		d.stats.Errors++
		d.mu.Unlock()
		return fmt.Errorf("navigation failed: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if tab, ok := d.tabs[d.current]; ok {
		tab.frames = nil
	}
	loadTime := time.Since(start)
	d.stats.PagesLoaded++
	if d.stats.PagesLoaded == 1 {
		d.stats.AverageLoadTime = loadTime
	} else {
		d.stats.AverageLoadTime = (d.stats.AverageLoadTime + loadTime) / 2
	}
	return nil
}

func (d *ChromeDriver) Title(ctx context.Context) (string, error) {
	var title string
	if err := d.run(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to get title: %w", err)
	}
	return title, nil
}

func (d *ChromeDriver) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := d.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to get location: %w", err)
	}
	return loc, nil
}

func (d *ChromeDriver) PageSource(ctx context.Context) (string, error) {
	var html string
	if err := d.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

// queryOptions resolves a locator against an optional root node: the
// innermost frame or a parent element.
func queryOptions(loc Locator, root *cdp.Node) (string, []chromedp.QueryOption, error) {
	if err := loc.Validate(); err != nil {
		return "", nil, err
	}
	if css, ok := loc.CSSSelector(); ok {
		opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
		if root != nil {
			opts = append(opts, chromedp.FromNode(root))
		}
		return css, opts, nil
	}
	if root != nil {
		return "", nil, fmt.Errorf("%w: xpath %q inside a frame or element", ErrUnsupportedLocator, loc.Value)
	}
	return loc.Value, []chromedp.QueryOption{chromedp.BySearch, chromedp.AtLeast(0)}, nil
}

func (d *ChromeDriver) nodes(ctx context.Context, loc Locator, root *cdp.Node) ([]*cdp.Node, error) {
	sel, opts, err := queryOptions(loc, root)
	if err != nil {
		return nil, err
	}
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(sel, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %s: %w", loc, err)
	}
	return nodes, nil
}

func (d *ChromeDriver) frameRoot() *cdp.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	tab, ok := d.tabs[d.current]
	if !ok || len(tab.frames) == 0 {
		return nil
	}
	return tab.frames[len(tab.frames)-1]
}

func (d *ChromeDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	nodes, err := d.nodes(ctx, loc, d.frameRoot())
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, NotFound(loc)
	}
	return &chromeElement{d: d, node: nodes[0]}, nil
}

func (d *ChromeDriver) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	nodes, err := d.nodes(ctx, loc, d.frameRoot())
	if err != nil {
		return nil, err
	}
	return wrapNodes(d, nodes), nil
}

func wrapNodes(d *ChromeDriver, nodes []*cdp.Node) []Element {
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &chromeElement{d: d, node: n})
	}
	return out
}

// ExecuteScript evaluates script as a function body with arguments[] bound
// to args, like WebDriver's execute script. Args must be JSON-encodable.
func (d *ChromeDriver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if args == nil {
		args = []interface{}{}
	}
	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script arguments: %w", err)
	}
	expr := fmt.Sprintf("(function(){ const r = (function(){%s}).apply(null, %s); return r === undefined ? null : r; })()", script, encoded)

	var result interface{}
	if err := d.run(ctx, chromedp.Evaluate(expr, &result)); err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}
	return result, nil
}

// WindowHandles lists page targets, oldest first.
func (d *ChromeDriver) WindowHandles(ctx context.Context) ([]string, error) {
	if _, err := d.active(); err != nil && !errors.Is(err, ErrNoSuchWindow) {
		return nil, err
	}
	infos, err := chromedp.Targets(d.browserCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	live := make(map[target.ID]bool)
	for _, info := range infos {
		if info.Type == "page" {
			live[info.TargetID] = true
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	known := make(map[target.ID]bool)
	order := d.order[:0]
	for _, id := range d.order {
		if live[id] {
			order = append(order, id)
			known[id] = true
		}
	}
	for _, info := range infos {
		if info.Type == "page" && !known[info.TargetID] {
			order = append(order, info.TargetID)
			known[info.TargetID] = true
		}
	}
	d.order = order

	handles := make([]string, len(order))
	for i, id := range order {
		handles[i] = string(id)
	}
	return handles, nil
}

func (d *ChromeDriver) CurrentWindow(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", ErrSessionClosed
	}
	if _, ok := d.tabs[d.current]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNoSuchWindow, d.current)
	}
	return string(d.current), nil
}

func (d *ChromeDriver) SwitchToWindow(ctx context.Context, handle string) error {
	id := target.ID(handle)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	if d.dialog != nil {
		d.mu.Unlock()
		return ErrDialogPending
	}
	_, attached := d.tabs[id]
	d.mu.Unlock()

	if !attached {
		tabCtx, cancel := chromedp.NewContext(d.browserCtx, chromedp.WithTargetID(id))
		if err := chromedp.Run(tabCtx); err != nil {
			cancel()
			return fmt.Errorf("%w: %s: %v", ErrNoSuchWindow, handle, err)
		}
		d.listen(tabCtx, id)
		d.mu.Lock()
		d.tabs[id] = &chromeTab{ctx: tabCtx, cancel: cancel}
		d.mu.Unlock()
	}

	d.mu.Lock()
	d.current = id
	tab := d.tabs[id]
	d.mu.Unlock()

	runCtx, cancel := bind(tab.ctx, ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, target.ActivateTarget(id)); err != nil {
		d.logger.Debug("failed to activate target", zap.String("handle", handle), zap.Error(err))
	}
	return nil
}

func (d *ChromeDriver) CloseWindow(ctx context.Context) error {
	tab, err := d.active()
	if err != nil {
		return err
	}
	runCtx, cancel := bind(tab.ctx, ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, page.Close()); err != nil {
		return fmt.Errorf("failed to close window: %w", err)
	}

	d.mu.Lock()
	id := d.current
	delete(d.tabs, id)
	d.current = ""
	d.mu.Unlock()

	// the first tab's context owns the browser and is only released by Quit
	if tab.cancel != nil {
		tab.cancel()
	}
	return nil
}

func (d *ChromeDriver) SwitchToFrame(ctx context.Context, frame Element) error {
	el, ok := frame.(*chromeElement)
	if !ok {
		return fmt.Errorf("%w: frame element from another backend", ErrUnsupportedLocator)
	}
	if name := strings.ToUpper(el.node.NodeName); name != "IFRAME" && name != "FRAME" {
		return fmt.Errorf("%w: %s is not a frame", ErrNotInteractable, el.node.NodeName)
	}
	tab, err := d.active()
	if err != nil {
		return err
	}
	d.mu.Lock()
	tab.frames = append(tab.frames, el.node)
	d.mu.Unlock()
	return nil
}

func (d *ChromeDriver) SwitchToParentFrame(ctx context.Context) error {
	tab, err := d.active()
	if err != nil {
		return err
	}
	d.mu.Lock()
	if n := len(tab.frames); n > 0 {
		tab.frames = tab.frames[:n-1]
	}
	d.mu.Unlock()
	return nil
}

func (d *ChromeDriver) SwitchToDefaultContent(ctx context.Context) error {
	tab, err := d.active()
	if err != nil {
		return err
	}
	d.mu.Lock()
	tab.frames = nil
	d.mu.Unlock()
	return nil
}

func (d *ChromeDriver) Dialog(ctx context.Context) (*Dialog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrSessionClosed
	}
	if d.dialog == nil {
		return nil, ErrNoDialog
	}
	dlg := *d.dialog
	return &dlg, nil
}

func (d *ChromeDriver) AcceptDialog(ctx context.Context) error {
	return d.handleDialog(ctx, true, nil)
}

func (d *ChromeDriver) DismissDialog(ctx context.Context) error {
	return d.handleDialog(ctx, false, nil)
}

func (d *ChromeDriver) AnswerPrompt(ctx context.Context, text string) error {
	return d.handleDialog(ctx, true, &text)
}

func (d *ChromeDriver) handleDialog(ctx context.Context, accept bool, prompt *string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	if d.dialog == nil {
		d.mu.Unlock()
		return ErrNoDialog
	}
	tab, ok := d.tabs[d.dialogOn]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: dialog owner", ErrNoSuchWindow)
	}

	action := page.HandleJavaScriptDialog(accept)
	if prompt != nil {
		action = action.WithPromptText(*prompt)
	}
	runCtx, cancel := bind(tab.ctx, ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, action); err != nil {
		return fmt.Errorf("failed to handle dialog: %w", err)
	}

	// the closed event may lag behind the command result
	d.mu.Lock()
	d.clearDialogLocked()
	d.stats.DialogsHandled++
	d.mu.Unlock()
	return nil
}

func (d *ChromeDriver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		d.mu.Lock()
		d.stats.Errors++
		d.mu.Unlock()
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// GetStats returns session statistics
func (d *ChromeDriver) GetStats() BrowserStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *ChromeDriver) Quit() error {
	d.quitOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		tabs := d.tabs
		d.tabs = map[target.ID]*chromeTab{}
		d.mu.Unlock()

		for _, tab := range tabs {
			if tab.cancel != nil {
				tab.cancel()
			}
		}
		if d.browserCancel != nil {
			d.browserCancel()
		}
		if d.allocCancel != nil {
			d.allocCancel()
		}
		d.logger.Info("browser stopped")
	})
	return nil
}

// chromeElement is a DOM node handle of a ChromeDriver tab.
type chromeElement struct {
	d    *ChromeDriver
	node *cdp.Node
}

// call runs a JavaScript function with this bound to the element.
func (e *chromeElement) call(ctx context.Context, fn string, res interface{}, args ...interface{}) error {
	return e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, fn, res, args...)
	}))
}

const (
	jsHitTest = `function() {
		const r = this.getBoundingClientRect();
		const t = this.ownerDocument.elementFromPoint(r.left + r.width / 2, r.top + r.height / 2);
		return !!t && (t === this || this.contains(t));
	}`
	jsDisplayed = `function() {
		if (!this.isConnected) return false;
		for (let n = this; n && n.nodeType === 1; n = n.parentElement) {
			const s = getComputedStyle(n);
			if (s.display === 'none' || s.visibility === 'hidden') return false;
		}
		const r = this.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	}`
	jsClear = `function() {
		const d = Object.getOwnPropertyDescriptor(Object.getPrototypeOf(this), 'value');
		if (d && d.set) { d.set.call(this, ''); } else { this.value = ''; }
		this.dispatchEvent(new Event('input', { bubbles: true }));
		this.dispatchEvent(new Event('change', { bubbles: true }));
	}`
	jsSelect = `function(t) {
		for (const o of this.options || []) {
			if (o.text.trim() === t) {
				this.value = o.value;
				this.dispatchEvent(new Event('change', { bubbles: true }));
				return true;
			}
		}
		return false;
	}`
	jsAttribute = `function(n) { return { ok: this.hasAttribute(n), v: this.getAttribute(n) || '' }; }`
)

func (e *chromeElement) Click(ctx context.Context) error {
	var hit bool
	if err := e.call(ctx, jsHitTest, &hit); err != nil {
		return fmt.Errorf("hit test failed: %w", err)
	}
	if !hit {
		return ErrClickIntercepted
	}
	return e.d.dispatch(ctx, chromedp.MouseClickNode(e.node))
}

func (e *chromeElement) ClickJS(ctx context.Context) error {
	return e.d.dispatch(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.CallFunctionOnNode(ctx, e.node, `function() { this.click(); }`, nil)
	}))
}

func (e *chromeElement) DoubleClick(ctx context.Context) error {
	return e.d.dispatch(ctx, chromedp.MouseClickNode(e.node, chromedp.ClickCount(2)))
}

func (e *chromeElement) RightClick(ctx context.Context) error {
	return e.d.dispatch(ctx, chromedp.MouseClickNode(e.node, chromedp.ButtonType(input.Right)))
}

func (e *chromeElement) ScrollIntoView(ctx context.Context) error {
	return e.call(ctx, `function() { this.scrollIntoView({ block: 'center', inline: 'center' }); }`, nil)
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var s string
	if err := e.call(ctx, `function() { return this.innerText || this.textContent || ''; }`, &s); err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (e *chromeElement) Value(ctx context.Context) (string, error) {
	var s string
	if err := e.call(ctx, `function() { return this.value === undefined ? '' : String(this.value); }`, &s); err != nil {
		return "", err
	}
	return s, nil
}

func (e *chromeElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	var res struct {
		OK bool   `json:"ok"`
		V  string `json:"v"`
	}
	if err := e.call(ctx, jsAttribute, &res, name); err != nil {
		return "", false, err
	}
	return res.V, res.OK, nil
}

func (e *chromeElement) IsDisplayed(ctx context.Context) (bool, error) {
	var shown bool
	err := e.call(ctx, jsDisplayed, &shown)
	return shown, err
}

func (e *chromeElement) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := e.call(ctx, `function() { return !this.disabled; }`, &enabled)
	return enabled, err
}

func (e *chromeElement) IsSelected(ctx context.Context) (bool, error) {
	var selected bool
	err := e.call(ctx, `function() { return !!(this.checked || this.selected); }`, &selected)
	return selected, err
}

func (e *chromeElement) SendKeys(ctx context.Context, keys string) error {
	keys = strings.NewReplacer(KeyEnter, kb.Enter, KeyTab, kb.Tab).Replace(keys)
	return e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.Focus().WithNodeID(e.node.NodeID).Do(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrNotInteractable, err)
		}
		return chromedp.KeyEvent(keys).Do(ctx)
	}))
}

func (e *chromeElement) Clear(ctx context.Context) error {
	return e.call(ctx, jsClear, nil)
}

func (e *chromeElement) SelectByText(ctx context.Context, text string) error {
	var ok bool
	if err := e.call(ctx, jsSelect, &ok, text); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: option %q", ErrNotFound, text)
	}
	return nil
}

func (e *chromeElement) Upload(ctx context.Context, paths ...string) error {
	return e.d.run(ctx, dom.SetFileInputFiles(paths).WithNodeID(e.node.NodeID))
}

func (e *chromeElement) Find(ctx context.Context, loc Locator) (Element, error) {
	nodes, err := e.d.nodes(ctx, loc, e.node)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, NotFound(loc)
	}
	return &chromeElement{d: e.d, node: nodes[0]}, nil
}

func (e *chromeElement) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	nodes, err := e.d.nodes(ctx, loc, e.node)
	if err != nil {
		return nil, err
	}
	return wrapNodes(e.d, nodes), nil
}

// edgeExecPath finds an Edge binary when none is configured.
func edgeExecPath() (string, error) {
	for _, name := range []string{"microsoft-edge", "microsoft-edge-stable", "msedge"} {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	for _, p := range []string{
		`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
		"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
	} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: edge executable not found", ErrUnsupportedBrowser)
}
