// internal/page/page_test.go
package page

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/browser/memdriver"
)

const testPage = `<html><head><title>Tools</title></head><body>
<h1 id="main">Frames</h1>
<input id="name" value="preset">
<button id="go">Go</button>
<button id="ad-covered" data-intercept>Covered</button>
<button id="off" disabled>Off</button>
<p id="out"></p>
<ul><li class="item">one</li><li class="item" hidden>two</li><li class="item">three</li></ul>
<iframe id="frame1" srcdoc="<html><body><h1 id='sampleHeading'>This is a sample page</h1><iframe id='child' srcdoc='<p>Child Iframe</p>'></iframe></body></html>"></iframe>
<button id="tabButton">New Tab</button>
<button id="confirmButton">Confirm</button><span id="confirmResult"></span>
</body></html>`

func fastTimeouts() Timeouts {
	return Timeouts{
		Implicit:      20 * time.Millisecond,
		Explicit:      20 * time.Millisecond,
		Poll:          2 * time.Millisecond,
		ClickAttempts: 3,
		MaxScrolls:    3,
	}
}

func newTestBase(t *testing.T) (*Base, *memdriver.Driver, *observer.ObservedLogs) {
	t.Helper()
	d := memdriver.New().
		AddPage("https://demoqa.test/frames", testPage).
		AddPage("https://demoqa.test/sample", `<html><head><title>Sample</title></head><body><h1 id="sampleHeading">This is a sample page</h1></body></html>`)
	d.OnClick(browser.ID("go"), func(ev *memdriver.Event) {
		ev.SetText(browser.ID("out"), "went")
	})
	d.OnClick(browser.ID("tabButton"), func(ev *memdriver.Event) {
		ev.OpenWindow("https://demoqa.test/sample")
	})
	d.OnClick(browser.ID("confirmButton"), func(ev *memdriver.Event) {
		ev.Alert(browser.DialogConfirm, "Do you confirm action?", func(ev *memdriver.Event, ok bool, _ string) {
			if ok {
				ev.SetText(browser.ID("confirmResult"), "You selected Ok")
			} else {
				ev.SetText(browser.ID("confirmResult"), "You selected Cancel")
			}
		})
	})

	core, logs := observer.New(zapcore.DebugLevel)
	b := New(d, zap.New(core), fastTimeouts())
	if !b.Open(context.Background(), "https://demoqa.test/frames") {
		t.Fatal("Open failed")
	}
	return b, d, logs
}

func TestOptional(t *testing.T) {
	some := Some("x")
	if v, ok := some.Get(); !ok || v != "x" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
	none := None[string]()
	if none.OK() {
		t.Error("None should not be OK")
	}
	if got := none.OrElse("fallback"); got != "fallback" {
		t.Errorf("OrElse = %q", got)
	}
	if got := Map(Some(2), func(n int) int { return n * 3 }); got.OrElse(0) != 6 {
		t.Errorf("Map = %v", got)
	}
	if none.String() != "None" || some.String() != "Some(x)" {
		t.Errorf("unexpected String(): %s %s", none, some)
	}
}

func TestBase_NotFoundPolicy(t *testing.T) {
	b, _, logs := newTestBase(t)
	ctx := context.Background()
	missing := browser.ID("nope")

	if got := b.Text(ctx, missing, "Missing label"); got.OK() {
		t.Errorf("expected None, got %v", got)
	}
	if b.Click(ctx, missing, "Missing button") {
		t.Error("expected Click to report false")
	}
	if b.Type(ctx, missing, "Missing field", "x") {
		t.Error("expected Type to report false")
	}
	if b.IsDisplayed(ctx, missing, "Missing logo") {
		t.Error("expected IsDisplayed to report false")
	}
	if n := b.Count(ctx, missing); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
	if texts := b.Texts(ctx, missing); texts == nil || len(texts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", texts)
	}

	warned := logs.FilterMessage("Missing label not found").All()
	if len(warned) != 1 {
		t.Fatalf("expected one warning for the label, got %d", len(warned))
	}
	fields := warned[0].ContextMap()
	if fields["locator"] != "id=nope" || fields["element"] != "Missing label" {
		t.Errorf("unexpected log fields %v", fields)
	}
	if warned[0].Level != zapcore.WarnLevel {
		t.Errorf("expected warn level, got %s", warned[0].Level)
	}
}

func TestBase_Reads(t *testing.T) {
	b, _, _ := newTestBase(t)
	ctx := context.Background()

	if got := b.Title(ctx).OrElse(""); got != "Tools" {
		t.Errorf("Title = %q", got)
	}
	if got := b.Value(ctx, browser.ID("name"), "Name").OrElse(""); got != "preset" {
		t.Errorf("Value = %q", got)
	}
	if !b.Fill(ctx, browser.ID("name"), "Name", "Ada") {
		t.Fatal("Fill failed")
	}
	if got := b.Value(ctx, browser.ID("name"), "Name").OrElse(""); got != "Ada" {
		t.Errorf("Value after Fill = %q", got)
	}
	if got := b.Texts(ctx, browser.CSS("li.item")); len(got) != 2 || got[1] != "three" {
		t.Errorf("Texts should skip hidden items, got %v", got)
	}
	if b.Count(ctx, browser.CSS("li.item")) != 3 {
		t.Error("Count should include hidden items")
	}
	if b.IsEnabled(ctx, browser.ID("off"), "Off button") {
		t.Error("disabled button reported enabled")
	}
	if got := b.Attribute(ctx, browser.ID("off"), "Off button", "disabled"); !got.OK() {
		t.Error("expected disabled attribute to be present")
	}
	if got := b.Attribute(ctx, browser.ID("go"), "Go button", "disabled"); got.OK() {
		t.Error("expected absent attribute to be None")
	}
	if el := b.ScrollUntilVisible(ctx, browser.ID("go"), "Go button"); !el.OK() {
		t.Error("expected visible element")
	}
}

func TestClicker_RetryBound(t *testing.T) {
	b, d, logs := newTestBase(t)
	ctx := context.Background()
	loc := browser.ID("go")
	d.DelayAppearance(loc, 1_000_000)

	var observed []ClickResult
	b.OnClick = func(r ClickResult) { observed = append(observed, r) }

	res := b.Clicker("Go button").Click(ctx, loc)
	if res.Clicked {
		t.Fatal("expected click to fail")
	}
	if res.Attempts != 3 {
		t.Errorf("expected exactly 3 locate attempts, got %d", res.Attempts)
	}
	if len(observed) != 1 || observed[0] != res {
		t.Errorf("observer saw %v", observed)
	}
	if logs.FilterMessage("element could not be clicked").Len() != 1 {
		t.Error("expected exhaustion to be logged once")
	}
}

func TestClicker_Recovers(t *testing.T) {
	b, d, _ := newTestBase(t)
	ctx := context.Background()
	loc := browser.ID("go")
	b.Timeouts.Explicit = 200 * time.Millisecond
	d.DelayAppearance(loc, 5)

	res := b.Clicker("Go button").Click(ctx, loc)
	if !res.Clicked || res.Forced || res.Attempts != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := b.Text(ctx, browser.ID("out"), "Output").OrElse(""); got != "went" {
		t.Errorf("click had no effect, output %q", got)
	}
}

func TestClicker_InterceptedFallsBackToScript(t *testing.T) {
	b, _, _ := newTestBase(t)
	res := b.Clicker("Covered").Click(context.Background(), browser.ID("ad-covered"))
	if !res.Clicked || !res.Forced {
		t.Fatalf("expected forced click, got %+v", res)
	}
}

func TestClicker_DisabledExhausts(t *testing.T) {
	b, _, _ := newTestBase(t)
	res := b.Clicker("Off").Click(context.Background(), browser.ID("off"))
	if res.Clicked || res.Attempts != 3 {
		t.Fatalf("expected 3 failed attempts, got %+v", res)
	}
}

func TestClicker_DialogStopsRetrying(t *testing.T) {
	b, _, _ := newTestBase(t)
	ctx := context.Background()
	if !b.Click(ctx, browser.ID("confirmButton"), "Confirm") {
		t.Fatal("Click failed")
	}
	res := b.Clicker("Go").Click(ctx, browser.ID("go"))
	if res.Clicked || res.Attempts != 1 {
		t.Fatalf("pending dialog should stop after one attempt, got %+v", res)
	}
}

func TestInFrame_AlwaysExits(t *testing.T) {
	b, d, _ := newTestBase(t)
	ctx := context.Background()
	top := browser.ID("main")
	errBoom := errors.New("boom")

	var inner string
	err := b.InFrame(ctx, func(ctx context.Context) error {
		inner = b.Text(ctx, browser.ID("sampleHeading"), "Frame heading").OrElse("")
		return nil
	}, browser.ID("frame1"))
	if err != nil || inner != "This is a sample page" {
		t.Fatalf("InFrame: err=%v text=%q", err, inner)
	}

	err = b.InFrame(ctx, func(ctx context.Context) error { return errBoom }, browser.ID("frame1"))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		b.InFrame(ctx, func(ctx context.Context) error { panic("kaboom") }, browser.ID("frame1"), browser.ID("child"))
	}()

	err = b.InFrame(ctx, func(ctx context.Context) error { return nil }, browser.ID("frame1"), browser.ID("missing"))
	if err == nil {
		t.Fatal("expected entry failure")
	}

	if d.FrameDepth() != 0 {
		t.Errorf("expected top-level context, depth %d", d.FrameDepth())
	}
	if got := b.Text(ctx, top, "Header").OrElse(""); got != "Frames" {
		t.Errorf("top-level element not locatable after frames, got %q", got)
	}
}

func TestInFrame_Nested(t *testing.T) {
	b, _, _ := newTestBase(t)
	var child string
	err := b.InFrame(context.Background(), func(ctx context.Context) error {
		child = b.Text(ctx, browser.Tag("body"), "Child body").OrElse("")
		return nil
	}, browser.ID("frame1"), browser.ID("child"))
	if err != nil || child != "Child Iframe" {
		t.Fatalf("nested frame: err=%v text=%q", err, child)
	}
}

func TestInNewWindow(t *testing.T) {
	b, d, _ := newTestBase(t)
	ctx := context.Background()
	original, _ := d.CurrentWindow(ctx)

	var heading string
	err := b.InNewWindow(ctx,
		func(ctx context.Context) error {
			b.Click(ctx, browser.ID("tabButton"), "New Tab")
			return nil
		},
		func(ctx context.Context) error {
			heading = b.Text(ctx, browser.ID("sampleHeading"), "Heading").OrElse("")
			return nil
		})
	if err != nil {
		t.Fatalf("InNewWindow: %v", err)
	}
	if heading != "This is a sample page" {
		t.Errorf("unexpected heading %q", heading)
	}
	handles, _ := d.WindowHandles(ctx)
	if len(handles) != 1 {
		t.Errorf("expected new window closed, have %d", len(handles))
	}
	if cur, _ := d.CurrentWindow(ctx); cur != original {
		t.Errorf("expected original window restored, got %s", cur)
	}

	err = b.InNewWindow(ctx, func(context.Context) error { return nil }, func(context.Context) error { return nil })
	if !errors.Is(err, browser.ErrTimeout) {
		t.Errorf("expected timeout when nothing opens, got %v", err)
	}
}

func TestDialogs(t *testing.T) {
	b, d, _ := newTestBase(t)
	ctx := context.Background()

	if b.AcceptDialog(ctx) {
		t.Error("accepting without a dialog should fail")
	}

	b.Click(ctx, browser.ID("confirmButton"), "Confirm")
	dlg := b.WaitForDialog(ctx, 0)
	if got, ok := dlg.Get(); !ok || got.Type != browser.DialogConfirm {
		t.Fatalf("unexpected dialog %v", dlg)
	}
	if b.Text(ctx, browser.ID("confirmResult"), "Result").OK() {
		t.Error("reads must fail while a dialog is pending")
	}
	if !b.DismissDialog(ctx) {
		t.Fatal("DismissDialog failed")
	}
	if d.PendingDialog() != nil {
		t.Error("expected no pending dialog after dismiss")
	}
	if got := b.Text(ctx, browser.ID("confirmResult"), "Result").OrElse(""); got != "You selected Cancel" {
		t.Errorf("unexpected result %q", got)
	}

	b.Click(ctx, browser.ID("confirmButton"), "Confirm")
	if !b.AcceptDialog(ctx) || d.PendingDialog() != nil {
		t.Fatal("AcceptDialog should leave no dialog pending")
	}
	if got := b.Text(ctx, browser.ID("confirmResult"), "Result").OrElse(""); got != "You selected Ok" {
		t.Errorf("unexpected result %q", got)
	}
}
