// internal/browser/pool.go
package browser

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Launcher hands out fresh sessions and caps how many are live at once.
// Sessions are never reused: every Acquire starts a browser and every
// Release terminates it.
type Launcher struct {
	config   *BrowserConfig
	open     OpenFunc
	logger   *zap.Logger
	slots    chan struct{}
	maxSize  int
	onChange func(live int)

	mu       sync.RWMutex
	live     int
	launched int
	failed   int
	closed   bool
}

// LauncherOption customizes a Launcher.
type LauncherOption func(*Launcher)

// WithOpener replaces the function used to start sessions.
func WithOpener(open OpenFunc) LauncherOption {
	return func(l *Launcher) { l.open = open }
}

// WithLiveSessionHook is called with the live session count after every change.
func WithLiveSessionHook(fn func(live int)) LauncherOption {
	return func(l *Launcher) { l.onChange = fn }
}

// NewLauncher creates a launcher for config allowing maxSize live sessions
func NewLauncher(config *BrowserConfig, maxSize int, logger *zap.Logger, opts ...LauncherOption) *Launcher {
	if config == nil {
		config = DefaultBrowserConfig()
	}
	if maxSize <= 0 {
		maxSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Launcher{
		config:  config,
		open:    Open,
		logger:  logger.Named("launcher"),
		slots:   make(chan struct{}, maxSize),
		maxSize: maxSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire waits for a free slot and starts a session in it.
func (l *Launcher) Acquire(ctx context.Context) (*Session, error) {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return nil, fmt.Errorf("launcher is closed")
	}
	l.mu.RUnlock()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	d, err := l.open(ctx, l.config, l.logger)
	if err != nil {
		<-l.slots
		l.mu.Lock()
		l.failed++
		l.mu.Unlock()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	l.mu.Lock()
	l.live++
	l.launched++
	live := l.live
	l.mu.Unlock()
	l.notify(live)

	sess := &Session{Driver: d, launcher: l}
	if err := l.prepare(ctx, d); err != nil {
		_ = sess.Quit()
		return nil, err
	}
	return sess, nil
}

// prepare drops windows opened during startup and loads the start URL.
func (l *Launcher) prepare(ctx context.Context, d Driver) error {
	if err := CloseExtraWindows(ctx, d); err != nil {
		l.logger.Warn("failed to close startup windows", zap.Error(err))
	}
	if l.config.StartURL == "" {
		return nil
	}
	if err := d.Navigate(ctx, l.config.StartURL); err != nil {
		return fmt.Errorf("failed to open start URL %s: %w", l.config.StartURL, err)
	}
	return nil
}

func (l *Launcher) release() {
	<-l.slots
	l.mu.Lock()
	l.live--
	live := l.live
	l.mu.Unlock()
	l.notify(live)
}

func (l *Launcher) notify(live int) {
	if l.onChange != nil {
		l.onChange(live)
	}
}

// Live returns the number of sessions currently running
func (l *Launcher) Live() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.live
}

// Stats returns launcher statistics
func (l *Launcher) Stats() map[string]interface{} {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return map[string]interface{}{
		"live_sessions":     l.live,
		"launched_sessions": l.launched,
		"failed_launches":   l.failed,
		"max_sessions":      l.maxSize,
		"closed":            l.closed,
	}
}

// Close refuses further Acquire calls. Live sessions stay owned by their
// holders and are released normally.
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Session is a Driver owned by one test case. Quit terminates the browser
// and frees the launcher slot; it is idempotent.
type Session struct {
	Driver
	launcher *Launcher
	once     sync.Once
	quitErr  error
}

func (s *Session) Quit() error {
	s.once.Do(func() {
		s.quitErr = s.Driver.Quit()
		if s.launcher != nil {
			s.launcher.release()
		}
	})
	return s.quitErr
}
