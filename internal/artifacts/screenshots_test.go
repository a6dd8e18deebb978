// internal/artifacts/screenshots_test.go
package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

type fakeShot struct {
	data []byte
	err  error
}

func (f fakeShot) Screenshot(context.Context) ([]byte, error) {
	return f.data, f.err
}

func TestStore_UniqueNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	png := fakeShot{data: []byte{0x89, 'P', 'N', 'G'}}

	first, err := store.Capture(ctx, png, "elements", "radio/yes", AssertionFailed)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if filepath.Base(first) != "elements_radio_yes_assertion_failed.png" {
		t.Errorf("unexpected name %s", filepath.Base(first))
	}
	second, _ := store.Capture(ctx, png, "elements", "radio/yes", AssertionFailed)
	if filepath.Base(second) != "elements_radio_yes_assertion_failed-2.png" {
		t.Errorf("unexpected repeat name %s", filepath.Base(second))
	}
	other, _ := store.Capture(ctx, png, "elements", "radio/yes", UnexpectedError)
	if filepath.Base(other) != "elements_radio_yes_unexpected_error.png" {
		t.Errorf("kind not part of name: %s", filepath.Base(other))
	}

	if len(store.Saved()) != 3 {
		t.Errorf("expected 3 saved screenshots, got %v", store.Saved())
	}
	for _, p := range store.Saved() {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("screenshot %s missing: %v", p, err)
		}
	}
}

func TestStore_ExistingFilesNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "home_title_assertion_failed.png")
	os.WriteFile(existing, []byte("old"), 0644)

	store, _ := NewStore(dir, nil)
	p := store.Reserve("home", "title", AssertionFailed)
	if p == existing {
		t.Fatal("reserved a path that already exists")
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "old" {
		t.Error("existing screenshot modified")
	}
}

func TestStore_ConcurrentReserve(t *testing.T) {
	store, _ := NewStore(t.TempDir(), nil)
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = make(map[string]bool)
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := store.Reserve("windows", "alerts", UnexpectedError)
			mu.Lock()
			paths[p] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	if len(paths) != 20 {
		t.Errorf("expected 20 distinct paths, got %d", len(paths))
	}
}

func TestStore_CaptureError(t *testing.T) {
	store, _ := NewStore(t.TempDir(), nil)
	_, err := store.Capture(context.Background(), fakeShot{err: errors.New("dialog open")}, "m", "c", AssertionFailed)
	if err == nil {
		t.Fatal("expected capture error")
	}
	if len(store.Saved()) != 0 {
		t.Error("failed capture recorded as saved")
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"web table": "web_table",
		"a/b:c":     "a_b_c",
		"  ":        "unnamed",
		"ok-name_1": "ok-name_1",
		"/leading/": "leading",
	}
	for in, want := range tests {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
