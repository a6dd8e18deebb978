// internal/page/base.go
//
// Package page holds the shared page-object machinery. Every operation
// converts driver errors into an empty result and a warning log entry, so
// page objects never return errors to the test case layer.
package page

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
)

// Timeouts controls how long page operations wait.
type Timeouts struct {
	// Implicit bounds every element lookup.
	Implicit time.Duration
	// Explicit bounds each wait inside the click helper and dialog waits.
	Explicit time.Duration
	Poll     time.Duration
	// ClickAttempts is the number of locate attempts the click helper makes.
	ClickAttempts int
	// MaxScrolls bounds ScrollUntilVisible.
	MaxScrolls int
}

// DefaultTimeouts returns the timeouts used by the suite.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Implicit:      10 * time.Second,
		Explicit:      10 * time.Second,
		Poll:          browser.DefaultPollInterval,
		ClickAttempts: 5,
		MaxScrolls:    10,
	}
}

// Base is embedded by every page object. It carries the session and
// nothing else that outlives a call.
type Base struct {
	Driver   browser.Driver
	Log      *zap.Logger
	Timeouts Timeouts
	// OnClick observes every click helper result.
	OnClick func(ClickResult)
}

// New creates a Base. Zero timeouts fall back to DefaultTimeouts.
func New(d browser.Driver, log *zap.Logger, t Timeouts) *Base {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultTimeouts()
	if t.Implicit <= 0 {
		t.Implicit = def.Implicit
	}
	if t.Explicit <= 0 {
		t.Explicit = def.Explicit
	}
	if t.Poll <= 0 {
		t.Poll = def.Poll
	}
	if t.ClickAttempts <= 0 {
		t.ClickAttempts = def.ClickAttempts
	}
	if t.MaxScrolls <= 0 {
		t.MaxScrolls = def.MaxScrolls
	}
	return &Base{Driver: d, Log: log, Timeouts: t}
}

// Named returns a copy of b logging under name.
func (b *Base) Named(name string) *Base {
	c := *b
	c.Log = b.Log.Named(name)
	return &c
}

func (b *Base) warn(msg, name string, loc browser.Locator, err error) {
	fields := []zap.Field{zap.String("element", name)}
	if !loc.IsZero() {
		fields = append(fields, zap.String("locator", loc.String()))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	b.Log.Warn(msg, fields...)
}

func (b *Base) report(name string, loc browser.Locator, err error) {
	switch {
	case browser.IsNotFound(err), errors.Is(err, browser.ErrTimeout):
		b.warn(name+" not found", name, loc, err)
	default:
		b.warn(name+" interaction failed", name, loc, err)
	}
}

// find waits up to the implicit timeout for loc.
func (b *Base) find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	return browser.WaitPresent(ctx, b.Driver, loc, b.Timeouts.Implicit, b.Timeouts.Poll)
}

// Element looks up loc for callers that need several interactions with it.
func (b *Base) Element(ctx context.Context, loc browser.Locator, name string) Optional[browser.Element] {
	el, err := b.find(ctx, loc)
	if err != nil {
		b.report(name, loc, err)
		return None[browser.Element]()
	}
	return Some(el)
}

// Elements returns every match of loc, waiting up to the implicit timeout
// for at least one. It returns an empty slice when nothing matches.
func (b *Base) Elements(ctx context.Context, loc browser.Locator) []browser.Element {
	var found []browser.Element
	err := browser.Poll(ctx, b.Timeouts.Implicit, b.Timeouts.Poll, func(ctx context.Context) (bool, error) {
		els, err := b.Driver.FindAll(ctx, loc)
		if err != nil {
			return false, err
		}
		found = els
		return len(els) > 0, nil
	})
	if err != nil && !errors.Is(err, browser.ErrTimeout) {
		b.warn("lookup failed", loc.Value, loc, err)
	}
	return found
}

// Open navigates the session to url.
func (b *Base) Open(ctx context.Context, url string) bool {
	if err := b.Driver.Navigate(ctx, url); err != nil {
		b.Log.Warn("navigation failed", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

func (b *Base) Title(ctx context.Context) Optional[string] {
	t, err := b.Driver.Title(ctx)
	if err != nil {
		b.Log.Warn("title unavailable", zap.Error(err))
		return None[string]()
	}
	return Some(t)
}

func (b *Base) URL(ctx context.Context) Optional[string] {
	u, err := b.Driver.CurrentURL(ctx)
	if err != nil {
		b.Log.Warn("url unavailable", zap.Error(err))
		return None[string]()
	}
	return Some(u)
}

// Click locates loc and clicks it once.
func (b *Base) Click(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.Click(ctx)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

// ScrollClick runs the retrying click helper.
func (b *Base) ScrollClick(ctx context.Context, loc browser.Locator, name string) bool {
	return b.Clicker(name).Click(ctx, loc).Clicked
}

// Clicker returns a click helper configured from b.
func (b *Base) Clicker(name string) *Clicker {
	return &Clicker{
		Driver:   b.Driver,
		Log:      b.Log.With(zap.String("element", name)),
		Attempts: b.Timeouts.ClickAttempts,
		Timeout:  b.Timeouts.Explicit,
		Interval: b.Timeouts.Poll,
		Observe:  b.OnClick,
	}
}

// ForceClick scrolls loc into view and clicks it from script, ignoring
// overlays.
func (b *Base) ForceClick(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.ScrollIntoView(ctx)
	}
	if err == nil {
		err = el.ClickJS(ctx)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

func (b *Base) DoubleClick(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.DoubleClick(ctx)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

func (b *Base) RightClick(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.RightClick(ctx)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

// Type sends text to loc without clearing it first.
func (b *Base) Type(ctx context.Context, loc browser.Locator, name, text string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.SendKeys(ctx, text)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

// Fill clears loc and types text into it.
func (b *Base) Fill(ctx context.Context, loc browser.Locator, name, text string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.Clear(ctx)
	}
	if err == nil {
		err = el.SendKeys(ctx, text)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

func (b *Base) Text(ctx context.Context, loc browser.Locator, name string) Optional[string] {
	el, err := b.find(ctx, loc)
	var text string
	if err == nil {
		text, err = el.Text(ctx)
	}
	if err != nil {
		b.report(name, loc, err)
		return None[string]()
	}
	return Some(strings.TrimSpace(text))
}

// Texts returns the text of every displayed match of loc.
func (b *Base) Texts(ctx context.Context, loc browser.Locator) []string {
	out := []string{}
	for _, el := range b.Elements(ctx, loc) {
		shown, err := el.IsDisplayed(ctx)
		if err != nil || !shown {
			continue
		}
		text, err := el.Text(ctx)
		if err != nil {
			continue
		}
		out = append(out, strings.TrimSpace(text))
	}
	return out
}

// Count returns the number of matches of loc without waiting.
func (b *Base) Count(ctx context.Context, loc browser.Locator) int {
	els, err := b.Driver.FindAll(ctx, loc)
	if err != nil {
		b.warn("count failed", loc.Value, loc, err)
		return 0
	}
	return len(els)
}

func (b *Base) IsDisplayed(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	shown, err := el.IsDisplayed(ctx)
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return shown
}

// IsDisplayedWithin waits up to timeout for loc to become visible.
func (b *Base) IsDisplayedWithin(ctx context.Context, loc browser.Locator, name string, timeout time.Duration) bool {
	if _, err := browser.WaitVisible(ctx, b.Driver, loc, timeout, b.Timeouts.Poll); err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

func (b *Base) IsEnabled(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	enabled, err := el.IsEnabled(ctx)
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return enabled
}

func (b *Base) IsSelected(ctx context.Context, loc browser.Locator, name string) bool {
	el, err := b.find(ctx, loc)
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	on, err := el.IsSelected(ctx)
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return on
}

func (b *Base) Attribute(ctx context.Context, loc browser.Locator, name, attr string) Optional[string] {
	el, err := b.find(ctx, loc)
	if err != nil {
		b.report(name, loc, err)
		return None[string]()
	}
	v, ok, err := el.Attribute(ctx, attr)
	if err != nil {
		b.report(name, loc, err)
		return None[string]()
	}
	if !ok {
		return None[string]()
	}
	return Some(v)
}

func (b *Base) Value(ctx context.Context, loc browser.Locator, name string) Optional[string] {
	el, err := b.find(ctx, loc)
	var v string
	if err == nil {
		v, err = el.Value(ctx)
	}
	if err != nil {
		b.report(name, loc, err)
		return None[string]()
	}
	return Some(v)
}

// Select picks the option of a <select> whose visible text is text.
func (b *Base) Select(ctx context.Context, loc browser.Locator, name, text string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.SelectByText(ctx, text)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

// Upload sets the files of a file input.
func (b *Base) Upload(ctx context.Context, loc browser.Locator, name string, paths ...string) bool {
	el, err := b.find(ctx, loc)
	if err == nil {
		err = el.Upload(ctx, paths...)
	}
	if err != nil {
		b.report(name, loc, err)
		return false
	}
	return true
}

const scrollStep = "window.scrollBy(0, 200);"

// ScrollUntilVisible scrolls the window down until loc is displayed, up to
// Timeouts.MaxScrolls times, and centers it.
func (b *Base) ScrollUntilVisible(ctx context.Context, loc browser.Locator, name string) Optional[browser.Element] {
	var lastErr error
	for i := 0; i < b.Timeouts.MaxScrolls; i++ {
		el, err := b.Driver.Find(ctx, loc)
		if err == nil {
			shown, derr := el.IsDisplayed(ctx)
			if derr == nil && shown {
				if serr := el.ScrollIntoView(ctx); serr != nil {
					lastErr = serr
				} else {
					return Some(el)
				}
			}
			err = derr
		}
		if err != nil {
			if errors.Is(err, browser.ErrDialogPending) || errors.Is(err, browser.ErrSessionClosed) {
				lastErr = err
				break
			}
			lastErr = err
		}
		if _, err := b.Driver.ExecuteScript(ctx, scrollStep); err != nil {
			lastErr = err
			break
		}
	}
	b.warn(name+" not visible after scrolling", name, loc, lastErr)
	return None[browser.Element]()
}

// Script runs JavaScript and returns its result.
func (b *Base) Script(ctx context.Context, script string, args ...interface{}) Optional[interface{}] {
	v, err := b.Driver.ExecuteScript(ctx, script, args...)
	if err != nil {
		b.Log.Warn("script failed", zap.Error(err))
		return None[interface{}]()
	}
	return Some(v)
}
