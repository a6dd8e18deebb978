// internal/browser/browser_test.go
package browser

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestDefaultBrowserConfig(t *testing.T) {
	config := DefaultBrowserConfig()

	if config == nil {
		t.Fatal("Expected non-nil config")
	}
	if config.Name != Chrome {
		t.Errorf("Expected chrome by default, got %q", config.Name)
	}
	if config.Headless {
		t.Error("Expected headed mode by default")
	}
	if config.ViewportWidth != 1920 {
		t.Errorf("Expected viewport width 1920, got %d", config.ViewportWidth)
	}
	if config.ViewportHeight != 1080 {
		t.Errorf("Expected viewport height 1080, got %d", config.ViewportHeight)
	}
	if !config.AntiDetection {
		t.Error("Expected anti-detection on by default")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in      string
		want    Name
		wantErr bool
	}{
		{"chrome", Chrome, false},
		{" Firefox ", Firefox, false},
		{"EDGE", Edge, false},
		{"", Chrome, false},
		{"safari", "", true},
	}
	for _, tt := range tests {
		got, err := ParseName(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedBrowser) {
				t.Errorf("ParseName(%q): expected ErrUnsupportedBrowser, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseName(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpen_UnsupportedBrowser(t *testing.T) {
	_, err := Open(context.Background(), &BrowserConfig{Name: "opera"}, zaptest.NewLogger(t))
	if !errors.Is(err, ErrUnsupportedBrowser) {
		t.Fatalf("Expected ErrUnsupportedBrowser, got %v", err)
	}
}

func TestLocator(t *testing.T) {
	if got := XPath("//h1").String(); got != "xpath=//h1" {
		t.Errorf("unexpected String(): %s", got)
	}
	if sel, ok := ID("userName").CSSSelector(); !ok || sel != "#userName" {
		t.Errorf("ID selector = %q, %v", sel, ok)
	}
	if sel, ok := ID("1st").CSSSelector(); !ok || strings.HasPrefix(sel, "#1") {
		t.Errorf("leading digit must be escaped, got %q", sel)
	}
	if _, ok := XPath("//a").CSSSelector(); ok {
		t.Error("XPath has no CSS form")
	}
	if got := XPathf("//span[text()='%s']", "Home"); got.Value != "//span[text()='Home']" {
		t.Errorf("XPathf = %s", got.Value)
	}
	if err := CSS("  ").Validate(); !errors.Is(err, ErrUnsupportedLocator) {
		t.Errorf("expected empty locator to be rejected, got %v", err)
	}
	if err := (Locator{By: "link", Value: "x"}).Validate(); !errors.Is(err, ErrUnsupportedLocator) {
		t.Errorf("expected unknown strategy to be rejected, got %v", err)
	}
	if !(Locator{}).IsZero() {
		t.Error("zero locator should report IsZero")
	}
}

func TestPoll(t *testing.T) {
	ctx := context.Background()

	t.Run("runs at least once", func(t *testing.T) {
		calls := 0
		err := Poll(ctx, 0, time.Millisecond, func(context.Context) (bool, error) {
			calls++
			return true, nil
		})
		if err != nil || calls != 1 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("times out", func(t *testing.T) {
		err := Poll(ctx, 20*time.Millisecond, 5*time.Millisecond, func(context.Context) (bool, error) {
			return false, NotFound(CSS("#x"))
		})
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
		if !strings.Contains(err.Error(), "css=#x") {
			t.Errorf("expected last error in message, got %v", err)
		}
	})

	t.Run("dialog aborts", func(t *testing.T) {
		calls := 0
		err := Poll(ctx, time.Second, time.Millisecond, func(context.Context) (bool, error) {
			calls++
			return false, ErrDialogPending
		})
		if !errors.Is(err, ErrDialogPending) || calls != 1 {
			t.Fatalf("err=%v calls=%d", err, calls)
		}
	})

	t.Run("context cancel", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := Poll(cctx, time.Second, 10*time.Millisecond, func(context.Context) (bool, error) {
			return false, nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

// stubDriver implements just enough of Driver for the launcher and throttle.
type stubDriver struct {
	Driver
	quits       atomic.Int32
	navigated   atomic.Int32
	navigateErr error
}

func (s *stubDriver) WindowHandles(ctx context.Context) ([]string, error) {
	return []string{"w1"}, nil
}

func (s *stubDriver) Quit() error {
	s.quits.Add(1)
	return nil
}

func (s *stubDriver) Navigate(ctx context.Context, url string) error {
	s.navigated.Add(1)
	return s.navigateErr
}

func TestLauncher(t *testing.T) {
	var opened atomic.Int32
	var lastLive atomic.Int32
	open := func(ctx context.Context, _ *BrowserConfig, _ *zap.Logger) (Driver, error) {
		opened.Add(1)
		return &stubDriver{}, nil
	}
	l := NewLauncher(nil, 1, zaptest.NewLogger(t),
		WithOpener(open),
		WithLiveSessionHook(func(n int) { lastLive.Store(int32(n)) }))
	defer l.Close()

	ctx := context.Background()
	s1, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if l.Live() != 1 || lastLive.Load() != 1 {
		t.Fatalf("expected 1 live session, got %d (hook %d)", l.Live(), lastLive.Load())
	}

	// second acquire blocks until the first session quits
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected slot wait to time out, got %v", err)
	}

	if err := s1.Quit(); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if err := s1.Quit(); err != nil {
		t.Fatalf("second Quit: %v", err)
	}
	if got := s1.Driver.(*stubDriver).quits.Load(); got != 1 {
		t.Errorf("expected driver quit once, got %d", got)
	}
	if l.Live() != 0 {
		t.Errorf("expected 0 live sessions, got %d", l.Live())
	}

	s2, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	s2.Quit()

	stats := l.Stats()
	if stats["launched_sessions"] != 2 {
		t.Errorf("expected 2 launches, got %v", stats["launched_sessions"])
	}
	if opened.Load() != 2 {
		t.Errorf("expected opener called twice, got %d", opened.Load())
	}
}

func TestLauncher_OpenFailureReleasesSlot(t *testing.T) {
	fail := func(ctx context.Context, _ *BrowserConfig, _ *zap.Logger) (Driver, error) {
		return nil, errors.New("no chrome")
	}
	l := NewLauncher(nil, 1, zap.NewNop(), WithOpener(fail))

	for i := 0; i < 2; i++ {
		if _, err := l.Acquire(context.Background()); err == nil {
			t.Fatal("expected launch failure")
		}
	}
	if got := l.Stats()["failed_launches"]; got != 2 {
		t.Errorf("expected 2 failed launches, got %v", got)
	}
}

func TestLauncher_StartURL(t *testing.T) {
	stub := &stubDriver{}
	open := func(ctx context.Context, _ *BrowserConfig, _ *zap.Logger) (Driver, error) {
		return stub, nil
	}
	cfg := DefaultBrowserConfig()
	cfg.StartURL = "https://demoqa.test/"
	l := NewLauncher(cfg, 1, zaptest.NewLogger(t), WithOpener(open))

	s, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	s.Quit()
	if stub.navigated.Load() != 1 {
		t.Errorf("expected one navigation, got %d", stub.navigated.Load())
	}

	stub.navigateErr = errors.New("connection refused")
	if _, err := l.Acquire(context.Background()); err == nil {
		t.Fatal("expected start URL failure")
	}
	if l.Live() != 0 || stub.quits.Load() != 2 {
		t.Errorf("failed session not torn down: live=%d quits=%d", l.Live(), stub.quits.Load())
	}
}

func TestLauncher_Closed(t *testing.T) {
	l := NewLauncher(nil, 1, nil)
	l.Close()
	if _, err := l.Acquire(context.Background()); err == nil {
		t.Fatal("expected closed launcher to refuse Acquire")
	}
}

func TestThrottle(t *testing.T) {
	stub := &stubDriver{}
	d := Throttle(stub, 50, 1)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := d.Navigate(ctx, "about:blank"); err != nil {
			t.Fatalf("Navigate: %v", err)
		}
	}
	// burst of 1 at 50/s: the second and third calls wait ~20ms each
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected throttled navigation, took %s", elapsed)
	}
	if stub.navigated.Load() != 3 {
		t.Errorf("expected 3 navigations, got %d", stub.navigated.Load())
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := d.Navigate(cctx, "about:blank"); err == nil {
		t.Error("expected cancelled context to stop the limiter")
	}
}
