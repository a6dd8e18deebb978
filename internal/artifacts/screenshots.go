// internal/artifacts/screenshots.go
package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind distinguishes why a screenshot was taken.
type Kind string

const (
	AssertionFailed Kind = "assertion_failed"
	UnexpectedError Kind = "unexpected_error"
)

// Screenshotter captures the current viewport as PNG.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Store writes failure screenshots into a single directory. Names are
// unique for the lifetime of the store and never overwrite existing files.
type Store struct {
	dir    string
	logger *zap.Logger

	mu    sync.Mutex
	used  map[string]bool
	saved []string
}

// NewStore creates dir if needed.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.Named("artifacts"),
		used:   make(map[string]bool),
	}, nil
}

// Dir returns the screenshot directory.
func (s *Store) Dir() string {
	return s.dir
}

// Reserve returns the path the next screenshot for (module, name, kind)
// will be written to. The first one is <module>_<name>_<kind>.png; repeats
// get -2, -3 and so on.
func (s *Store) Reserve(module, name string, kind Kind) string {
	base := strings.Join([]string{sanitize(module), sanitize(name), string(kind)}, "_")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 1; ; i++ {
		file := base + ".png"
		if i > 1 {
			file = fmt.Sprintf("%s-%d.png", base, i)
		}
		if s.used[file] {
			continue
		}
		p := filepath.Join(s.dir, file)
		if _, err := os.Stat(p); err == nil {
			s.used[file] = true
			continue
		}
		s.used[file] = true
		return p
	}
}

// Capture takes a screenshot and writes it under a reserved name.
func (s *Store) Capture(ctx context.Context, src Screenshotter, module, name string, kind Kind) (string, error) {
	data, err := src.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	p := s.Reserve(module, name, kind)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	s.mu.Lock()
	s.saved = append(s.saved, p)
	s.mu.Unlock()

	s.logger.Info("screenshot saved",
		zap.String("path", p),
		zap.String("kind", string(kind)),
		zap.Int("bytes", len(data)))
	return p, nil
}

// Saved lists every screenshot written so far.
func (s *Store) Saved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

func sanitize(s string) string {
	s = unsafeChars.ReplaceAllString(strings.TrimSpace(s), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "unnamed"
	}
	return s
}
