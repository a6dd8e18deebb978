// internal/suite/t.go
package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/fixture"
	"github.com/valpere/UIProbe/internal/page"
)

// Panics used to unwind a case body. The runner recovers them.
type (
	failNow  struct{}
	skipNow  struct{ reason string }
	abortNow struct{ err error }
)

// T is handed to every case body. It satisfies the TestingT interfaces of
// testify's assert and require packages, so scenarios can use them
// directly.
//
// T must only be used from the goroutine running the case.
type T struct {
	ctx     context.Context
	c       Case
	page    *page.Base
	data    *fixture.Data
	log     *zap.Logger
	baseURL string

	downloadDir string
	dataDir     string

	mu       sync.Mutex
	failed   bool
	failures []string
	steps    []string
	tempDirs []string
}

func newT(ctx context.Context, c Case, base *page.Base, data *fixture.Data, log *zap.Logger, baseURL string) *T {
	return &T{ctx: ctx, c: c, page: base, data: data, log: log, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Errorf records a failure and lets the case continue.
func (t *T) Errorf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	t.mu.Lock()
	t.failed = true
	t.failures = append(t.failures, msg)
	t.mu.Unlock()
	t.log.Warn("assertion failed", zap.String("message", msg))
}

// FailNow marks the case failed and stops it.
func (t *T) FailNow() {
	t.mu.Lock()
	t.failed = true
	t.mu.Unlock()
	panic(failNow{})
}

// Fatalf is Errorf followed by FailNow.
func (t *T) Fatalf(format string, args ...interface{}) {
	t.Errorf(format, args...)
	t.FailNow()
}

// Helper is a no-op; it lets testify treat T as a helper-aware TestingT.
func (t *T) Helper() {}

// Skip stops the case and reports it as skipped.
func (t *T) Skip(args ...interface{}) {
	panic(skipNow{reason: strings.TrimSpace(fmt.Sprintln(args...))})
}

func (t *T) Skipf(format string, args ...interface{}) {
	panic(skipNow{reason: fmt.Sprintf(format, args...)})
}

// Must stops the case as errored when err is not nil. Use it for failures
// that are not about the application under test, like an unreadable
// fixture.
func (t *T) Must(err error) {
	if err != nil {
		panic(abortNow{err: err})
	}
}

// Step logs a named step of the scenario and keeps it for the report.
func (t *T) Step(format string, args ...interface{}) {
	s := fmt.Sprintf(format, args...)
	t.mu.Lock()
	t.steps = append(t.steps, s)
	t.mu.Unlock()
	t.log.Info("step", zap.String("step", s))
}

// Failed reports whether an assertion has failed so far.
func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func (t *T) Name() string { return t.c.Path() }

// Context is canceled when the case times out or the run is stopped.
func (t *T) Context() context.Context { return t.ctx }

// Page returns the page.Base bound to the case's session.
func (t *T) Page() *page.Base { return t.page }

// Data returns the case's fixture document. It stops the case as errored
// when the case declared none.
func (t *T) Data() *fixture.Data {
	if t.data == nil {
		t.Must(fmt.Errorf("case %s has no fixture document", t.c.Path()))
	}
	return t.data
}

func (t *T) Log() *zap.Logger { return t.log }

// BaseURL returns the application address without a trailing slash.
func (t *T) BaseURL() string { return t.baseURL }

// URL joins path to the base URL.
func (t *T) URL(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return t.baseURL + path
}

// DownloadDir is where the browser saves downloads. Cases that need it
// are skipped when the run has none.
func (t *T) DownloadDir() string {
	if t.downloadDir == "" {
		t.Skip("no download directory configured")
	}
	return t.downloadDir
}

// DataPath resolves a test data file, such as an upload, against the
// run's data directory. Browsers need absolute paths.
func (t *T) DataPath(rel string) string {
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(t.dataDir, rel)
	}
	abs, err := filepath.Abs(p)
	t.Must(err)
	if _, err := os.Stat(abs); err != nil {
		t.Must(fmt.Errorf("test data: %w", err))
	}
	return abs
}

// Open navigates to path on the application and stops the case if the
// page cannot be loaded.
func (t *T) Open(path string) {
	if !t.page.Open(t.ctx, t.URL(path)) {
		t.Must(fmt.Errorf("could not open %s", t.URL(path)))
	}
}

// TempDir returns a new directory removed when the case ends.
func (t *T) TempDir() string {
	dir, err := os.MkdirTemp("", "uiprobe-case-")
	t.Must(err)
	t.mu.Lock()
	t.tempDirs = append(t.tempDirs, dir)
	t.mu.Unlock()
	return dir
}

func (t *T) cleanup() {
	t.mu.Lock()
	dirs := t.tempDirs
	t.tempDirs = nil
	t.mu.Unlock()
	for _, d := range dirs {
		if err := os.RemoveAll(d); err != nil {
			t.log.Warn("failed to remove temporary directory", zap.String("dir", d), zap.Error(err))
		}
	}
}

func (t *T) snapshot() (failed bool, failures, steps []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed, append([]string(nil), t.failures...), append([]string(nil), t.steps...)
}
