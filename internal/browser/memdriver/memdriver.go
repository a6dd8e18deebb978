// internal/browser/memdriver/memdriver.go
//
// Package memdriver is an in-memory browser.Driver over parsed HTML. It
// has no layout or JavaScript engine; page behavior is scripted with
// handlers that mutate the DOM when elements are clicked or typed into.
package memdriver

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/valpere/UIProbe/internal/browser"
)

// EventKind identifies the interaction a handler reacts to.
type EventKind string

const (
	EventClick       EventKind = "click"
	EventDoubleClick EventKind = "dblclick"
	EventRightClick  EventKind = "contextmenu"
	EventKeys        EventKind = "keys"
	EventChange      EventKind = "change"
)

// Handler reacts to an interaction. It runs with the driver locked and
// must only touch the DOM through the Event.
type Handler func(ev *Event)

type binding struct {
	kind EventKind
	loc  browser.Locator
	fn   Handler
}

type window struct {
	handle string
	url    string
	doc    *html.Node
	frames []*html.Node
}

type pendingDialog struct {
	browser.Dialog
	onClose func(accepted bool, text string)
}

// Driver implements browser.Driver.
type Driver struct {
	mu        sync.Mutex
	pages     map[string]string
	bindings  []binding
	scripts   map[string]func(args []interface{}) interface{}
	frameDocs map[*html.Node]*html.Node
	windows   []*window
	current   *window
	nextID    int
	dialog    *pendingDialog
	closed    bool

	delayed     map[string]int
	findCalls   map[string]int
	executed    []string
	screenshots int
	quits       int
}

// New returns a driver with one blank window.
func New() *Driver {
	d := &Driver{
		pages:     make(map[string]string),
		scripts:   make(map[string]func([]interface{}) interface{}),
		frameDocs: make(map[*html.Node]*html.Node),
		delayed:   make(map[string]int),
		findCalls: make(map[string]int),
	}
	d.current = d.newWindowLocked("about:blank", mustParse("<html><head><title></title></head><body></body></html>"))
	return d
}

// Open satisfies browser.OpenFunc by returning d itself.
func (d *Driver) Open(ctx context.Context, _ *browser.BrowserConfig, _ *zap.Logger) (browser.Driver, error) {
	return d, nil
}

func mustParse(src string) *html.Node {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		panic(fmt.Sprintf("memdriver: parse: %v", err))
	}
	return doc
}

// AddPage registers the HTML served for rawURL.
func (d *Driver) AddPage(rawURL, src string) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pages[normalizeURL(rawURL)] = src
	return d
}

func normalizeURL(u string) string {
	return strings.TrimSuffix(u, "/")
}

// On binds fn to interactions of kind with elements matching loc, or
// their descendants.
func (d *Driver) On(kind EventKind, loc browser.Locator, fn Handler) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings = append(d.bindings, binding{kind: kind, loc: loc, fn: fn})
	return d
}

func (d *Driver) OnClick(loc browser.Locator, fn Handler) *Driver {
	return d.On(EventClick, loc, fn)
}

// OnScript answers ExecuteScript calls whose source contains substr.
func (d *Driver) OnScript(substr string, fn func(args []interface{}) interface{}) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts[substr] = fn
	return d
}

// DelayAppearance makes loc invisible to the first n lookups.
func (d *Driver) DelayAppearance(loc browser.Locator, n int) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delayed[loc.String()] = n
	return d
}

// FindCalls reports how many times loc was looked up from the driver.
func (d *Driver) FindCalls(loc browser.Locator) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findCalls[loc.String()]
}

// Screenshots reports how many screenshots were taken.
func (d *Driver) Screenshots() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.screenshots
}

// Quits reports how many times Quit was called.
func (d *Driver) Quits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quits
}

// Executed returns every script passed to ExecuteScript.
func (d *Driver) Executed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.executed...)
}

// FrameDepth reports how deep the current window is inside frames.
func (d *Driver) FrameDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return 0
	}
	return len(d.current.frames)
}

// PendingDialog returns the dialog slot without the session checks.
func (d *Driver) PendingDialog() *browser.Dialog {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dialog == nil {
		return nil
	}
	dlg := d.dialog.Dialog
	return &dlg
}

func (d *Driver) newWindowLocked(u string, doc *html.Node) *window {
	d.nextID++
	w := &window{handle: fmt.Sprintf("window-%d", d.nextID), url: u, doc: doc}
	d.windows = append(d.windows, w)
	return w
}

func (d *Driver) usable() error {
	if d.closed {
		return browser.ErrSessionClosed
	}
	if d.dialog != nil {
		return browser.ErrDialogPending
	}
	if d.current == nil {
		return browser.ErrNoSuchWindow
	}
	return nil
}

func (d *Driver) loadLocked(w *window, rawURL string) error {
	src, ok := d.pages[normalizeURL(rawURL)]
	if !ok {
		return fmt.Errorf("memdriver: no page registered for %s", rawURL)
	}
	w.url = rawURL
	w.doc = mustParse(src)
	w.frames = nil
	return nil
}

// resolve makes href absolute against the window URL.
func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	r, err := b.Parse(href)
	if err != nil {
		return href
	}
	return r.String()
}

func (d *Driver) root() *html.Node {
	w := d.current
	if n := len(w.frames); n > 0 {
		return w.frames[n-1]
	}
	return w.doc
}

// query evaluates loc below root.
func query(root *html.Node, loc browser.Locator) ([]*html.Node, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if css, ok := loc.CSSSelector(); ok {
		return goquery.NewDocumentFromNode(root).Find(css).Nodes, nil
	}
	nodes, err := htmlquery.QueryAll(root, loc.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", browser.ErrUnsupportedLocator, err)
	}
	return nodes, nil
}

func (d *Driver) findLocked(root *html.Node, loc browser.Locator) ([]*html.Node, error) {
	key := loc.String()
	d.findCalls[key]++
	if n := d.delayed[key]; n > 0 {
		d.delayed[key] = n - 1
		return nil, nil
	}
	return query(root, loc)
}

func (d *Driver) Navigate(ctx context.Context, rawURL string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return err
	}
	return d.loadLocked(d.current, rawURL)
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return "", err
	}
	t := goquery.NewDocumentFromNode(d.current.doc).Find("title").First()
	return strings.TrimSpace(t.Text()), nil
}

func (d *Driver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return "", err
	}
	return d.current.url, nil
}

func (d *Driver) PageSource(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, d.current.doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (d *Driver) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return nil, err
	}
	nodes, err := d.findLocked(d.root(), loc)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, browser.NotFound(loc)
	}
	return &Element{d: d, node: nodes[0]}, nil
}

func (d *Driver) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return nil, err
	}
	nodes, err := d.findLocked(d.root(), loc)
	if err != nil {
		return nil, err
	}
	return d.wrap(nodes), nil
}

func (d *Driver) wrap(nodes []*html.Node) []browser.Element {
	out := make([]browser.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{d: d, node: n})
	}
	return out
}

func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return nil, err
	}
	d.executed = append(d.executed, script)
	for substr, fn := range d.scripts {
		if strings.Contains(script, substr) {
			return fn(args), nil
		}
	}
	return nil, nil
}

func (d *Driver) WindowHandles(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, browser.ErrSessionClosed
	}
	if d.dialog != nil {
		return nil, browser.ErrDialogPending
	}
	hs := make([]string, len(d.windows))
	for i, w := range d.windows {
		hs[i] = w.handle
	}
	return hs, nil
}

func (d *Driver) CurrentWindow(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return "", err
	}
	return d.current.handle, nil
}

func (d *Driver) SwitchToWindow(ctx context.Context, handle string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return browser.ErrSessionClosed
	}
	if d.dialog != nil {
		return browser.ErrDialogPending
	}
	for _, w := range d.windows {
		if w.handle == handle {
			d.current = w
			w.frames = nil
			return nil
		}
	}
	return fmt.Errorf("%w: %s", browser.ErrNoSuchWindow, handle)
}

func (d *Driver) CloseWindow(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return err
	}
	for i, w := range d.windows {
		if w == d.current {
			d.windows = append(d.windows[:i], d.windows[i+1:]...)
			break
		}
	}
	d.current = nil
	return nil
}

// frameDocument returns the parsed content of an iframe, from srcdoc or a
// registered src page.
func (d *Driver) frameDocument(frame *html.Node) (*html.Node, error) {
	if doc, ok := d.frameDocs[frame]; ok {
		return doc, nil
	}
	var src string
	if v, ok := attr(frame, "srcdoc"); ok {
		src = v
	} else if v, ok := attr(frame, "src"); ok {
		page, found := d.pages[normalizeURL(resolve(d.current.url, v))]
		if !found {
			return nil, fmt.Errorf("memdriver: no page registered for frame %s", v)
		}
		src = page
	} else {
		src = "<html><body></body></html>"
	}
	doc := mustParse(src)
	d.frameDocs[frame] = doc
	return doc, nil
}

func (d *Driver) SwitchToFrame(ctx context.Context, frame browser.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return err
	}
	el, ok := frame.(*Element)
	if !ok {
		return fmt.Errorf("%w: foreign element", browser.ErrUnsupportedLocator)
	}
	if tag := el.node.Data; tag != "iframe" && tag != "frame" {
		return fmt.Errorf("%w: <%s> is not a frame", browser.ErrNotInteractable, tag)
	}
	doc, err := d.frameDocument(el.node)
	if err != nil {
		return err
	}
	d.current.frames = append(d.current.frames, doc)
	return nil
}

func (d *Driver) SwitchToParentFrame(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return err
	}
	if n := len(d.current.frames); n > 0 {
		d.current.frames = d.current.frames[:n-1]
	}
	return nil
}

func (d *Driver) SwitchToDefaultContent(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return err
	}
	d.current.frames = nil
	return nil
}

func (d *Driver) Dialog(ctx context.Context) (*browser.Dialog, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, browser.ErrSessionClosed
	}
	if d.dialog == nil {
		return nil, browser.ErrNoDialog
	}
	dlg := d.dialog.Dialog
	return &dlg, nil
}

func (d *Driver) closeDialog(accepted bool, text string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return browser.ErrSessionClosed
	}
	pending := d.dialog
	if pending == nil {
		d.mu.Unlock()
		return browser.ErrNoDialog
	}
	d.dialog = nil
	if pending.onClose != nil {
		pending.onClose(accepted, text)
	}
	d.mu.Unlock()
	return nil
}

func (d *Driver) AcceptDialog(ctx context.Context) error {
	d.mu.Lock()
	var text string
	if d.dialog != nil && d.dialog.Type == browser.DialogPrompt {
		text = d.dialog.DefaultPrompt
	}
	d.mu.Unlock()
	return d.closeDialog(true, text)
}

func (d *Driver) DismissDialog(ctx context.Context) error {
	return d.closeDialog(false, "")
}

func (d *Driver) AnswerPrompt(ctx context.Context, text string) error {
	return d.closeDialog(true, text)
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.usable(); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	d.screenshots++
	return buf.Bytes(), nil
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.quits++
	return nil
}

// openDialogLocked fills the dialog slot.
func (d *Driver) openDialogLocked(dlg browser.Dialog, onClose func(bool, string)) {
	d.dialog = &pendingDialog{Dialog: dlg, onClose: onClose}
}

// dispatch fires every binding of kind that matches n or an ancestor.
func (d *Driver) dispatch(kind EventKind, n *html.Node, keys string) {
	doc := documentOf(n)
	for _, b := range d.bindings {
		if b.kind != kind {
			continue
		}
		matches, err := query(doc, b.loc)
		if err != nil {
			continue
		}
		if hit := ancestorIn(n, matches); hit != nil {
			b.fn(&Event{d: d, Kind: kind, Target: &Element{d: d, node: hit}, Keys: keys, doc: doc})
		}
	}
}

func documentOf(n *html.Node) *html.Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

func ancestorIn(n *html.Node, set []*html.Node) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		for _, m := range set {
			if m == cur {
				return cur
			}
		}
	}
	return nil
}

// after runs fn with the driver locked once delay has passed.
func (d *Driver) after(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if !d.closed {
			fn()
		}
	})
}

var _ browser.Driver = (*Driver)(nil)
