// internal/suite/runner.go
package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/UIProbe/internal/artifacts"
	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/fixture"
	"github.com/valpere/UIProbe/internal/page"
)

// Status is the outcome of a case.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
	StatusSkipped Status = "skipped"
)

// Result is what the runner records for one case.
type Result struct {
	Module   string        `json:"module"`
	Name     string        `json:"name"`
	Tags     []string      `json:"tags,omitempty"`
	Status   Status        `json:"status"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	// Failures are the assertion messages, in order.
	Failures []string `json:"failures,omitempty"`
	// Error is set for errored and skipped cases.
	Error      string   `json:"error,omitempty"`
	Screenshot string   `json:"screenshot,omitempty"`
	Steps      []string `json:"steps,omitempty"`

	ClickAttempts int `json:"click_attempts"`
	ForcedClicks  int `json:"forced_clicks"`
}

func (r Result) Path() string { return r.Module + "/" + r.Name }

// Summary is a finished run.
type Summary struct {
	RunID   string    `json:"run_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Results []Result  `json:"results"`
}

// Counts returns the number of results per status.
func (s *Summary) Counts() map[Status]int {
	out := map[Status]int{StatusPassed: 0, StatusFailed: 0, StatusErrored: 0, StatusSkipped: 0}
	for _, r := range s.Results {
		out[r.Status]++
	}
	return out
}

// Passed reports whether no case failed or errored.
func (s *Summary) Passed() bool {
	c := s.Counts()
	return c[StatusFailed] == 0 && c[StatusErrored] == 0
}

func (s *Summary) Duration() time.Duration { return s.End.Sub(s.Start) }

// Listener observes a run. Calls for different cases may arrive
// concurrently.
type Listener interface {
	RunStarted(runID string, total int)
	CaseStarted(c Case)
	CaseFinished(r Result)
	RunFinished(s *Summary)
}

// Metrics receives runner measurements. monitoring.Metrics implements it.
type Metrics interface {
	CaseFinished(module string, status Status, d time.Duration)
	ClickObserved(r page.ClickResult)
	ScreenshotTaken(kind artifacts.Kind)
}

// Options configure a Runner. Launcher is required.
type Options struct {
	Launcher    *browser.Launcher
	Fixtures    *fixture.Loader
	Screenshots *artifacts.Store
	Timeouts    page.Timeouts
	// CaseTimeout bounds each case including session startup. Zero means
	// no limit.
	CaseTimeout time.Duration
	Parallel    int
	BaseURL     string
	// DownloadDir must match the browser's download directory.
	DownloadDir string
	// DataDir is the base for relative test data paths. Empty means the
	// working directory.
	DataDir     string
	Logger      *zap.Logger
	Listeners   []Listener
	Metrics     Metrics
}

// Runner executes cases, each in its own session.
type Runner struct {
	opts Options
	log  *zap.Logger
}

func NewRunner(opts Options) (*Runner, error) {
	if opts.Launcher == nil {
		return nil, fmt.Errorf("runner needs a browser launcher")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Fixtures == nil {
		opts.Fixtures = fixture.NewLoader("")
	}
	if opts.Parallel <= 0 {
		opts.Parallel = 1
	}
	return &Runner{opts: opts, log: opts.Logger.Named("suite")}, nil
}

// Run executes cases and returns their results in the given order. Case
// failures are not errors; Run only fails when ctx is canceled.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Summary, error) {
	sum := &Summary{
		RunID:   uuid.NewString(),
		Start:   time.Now(),
		Results: make([]Result, len(cases)),
	}
	log := r.log.With(zap.String("run_id", sum.RunID))
	log.Info("run started", zap.Int("cases", len(cases)), zap.Int("parallel", r.opts.Parallel))
	for _, l := range r.opts.Listeners {
		l.RunStarted(sum.RunID, len(cases))
	}

	g := new(errgroup.Group)
	g.SetLimit(r.opts.Parallel)
	for i, c := range cases {
		if ctx.Err() != nil {
			sum.Results[i] = Result{Module: c.Module, Name: c.Name, Tags: c.Tags, Status: StatusSkipped, Error: "run canceled"}
			continue
		}
		g.Go(func() error {
			sum.Results[i] = r.runCase(ctx, log, c)
			return nil
		})
	}
	_ = g.Wait()

	sum.End = time.Now()
	counts := sum.Counts()
	log.Info("run finished",
		zap.Int("passed", counts[StatusPassed]),
		zap.Int("failed", counts[StatusFailed]),
		zap.Int("errored", counts[StatusErrored]),
		zap.Int("skipped", counts[StatusSkipped]),
		zap.Duration("duration", sum.Duration()))
	for _, l := range r.opts.Listeners {
		l.RunFinished(sum)
	}
	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("run interrupted: %w", err)
	}
	return sum, nil
}

// outcome is how a case body ended.
type outcome struct {
	status Status
	err    error
}

func (r *Runner) runCase(ctx context.Context, runLog *zap.Logger, c Case) (res Result) {
	log := runLog.Named(c.Module).With(zap.String("case", c.Path()))
	res = Result{Module: c.Module, Name: c.Name, Tags: c.Tags, Start: time.Now()}
	for _, l := range r.opts.Listeners {
		l.CaseStarted(c)
	}
	defer func() {
		res.Duration = time.Since(res.Start)
		if r.opts.Metrics != nil {
			r.opts.Metrics.CaseFinished(c.Module, res.Status, res.Duration)
		}
		log.Info("case finished", zap.String("status", string(res.Status)), zap.Duration("duration", res.Duration))
		for _, l := range r.opts.Listeners {
			l.CaseFinished(res)
		}
	}()

	var data *fixture.Data
	if c.Fixture != "" {
		d, err := r.opts.Fixtures.Load(c.Fixture)
		if err != nil {
			res.Status, res.Error = StatusErrored, err.Error()
			log.Error("fixture not loaded", zap.Error(err))
			return res
		}
		data = d
	}

	caseCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.opts.CaseTimeout > 0 {
		caseCtx, cancel = context.WithTimeout(ctx, r.opts.CaseTimeout)
	}
	defer cancel()

	sess, err := r.opts.Launcher.Acquire(caseCtx)
	if err != nil {
		res.Status, res.Error = StatusErrored, err.Error()
		log.Error("browser session not started", zap.Error(err))
		return res
	}
	defer func() {
		if err := sess.Quit(); err != nil {
			log.Warn("failed to quit browser", zap.Error(err))
		}
	}()

	var (
		mu            sync.Mutex
		clicks, force int
	)
	base := page.New(sess, log, r.opts.Timeouts)
	base.OnClick = func(cr page.ClickResult) {
		mu.Lock()
		clicks += cr.Attempts
		if cr.Forced {
			force++
		}
		mu.Unlock()
		if r.opts.Metrics != nil {
			r.opts.Metrics.ClickObserved(cr)
		}
	}

	t := newT(caseCtx, c, base, data, log, r.opts.BaseURL)
	t.downloadDir, t.dataDir = r.opts.DownloadDir, r.opts.DataDir
	defer t.cleanup()

	done := make(chan outcome, 1)
	go func() { done <- execute(t, c.Run, log) }()

	var (
		out       outcome
		abandoned bool
	)
	select {
	case out = <-done:
	case <-caseCtx.Done():
		out = outcome{status: StatusErrored, err: fmt.Errorf("case did not finish: %w", caseCtx.Err())}
		cancel()
		select {
		case <-done:
		case <-time.After(abandonGrace):
			// The body still holds the session. Closing it makes the body's
			// driver calls fail; no screenshot is taken from a closed session.
			abandoned = true
			log.Warn("case body ignored cancellation, closing its session",
				zap.Duration("grace", abandonGrace))
			_ = sess.Quit()
			<-done
		}
	}

	failed, failures, steps := t.snapshot()
	res.Failures, res.Steps = failures, steps
	res.Status = out.status
	if out.err != nil {
		res.Error = out.err.Error()
	}
	if res.Status == StatusPassed && failed {
		res.Status = StatusFailed
	}

	if !abandoned {
		switch res.Status {
		case StatusFailed:
			res.Screenshot = r.screenshot(sess, c, artifacts.AssertionFailed, log)
		case StatusErrored:
			res.Screenshot = r.screenshot(sess, c, artifacts.UnexpectedError, log)
		}
	}

	mu.Lock()
	res.ClickAttempts, res.ForcedClicks = clicks, force
	mu.Unlock()
	return res
}

// execute runs fn and converts the way it ended into an outcome.
func execute(t *T, fn Func, log *zap.Logger) (out outcome) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		switch v := rec.(type) {
		case failNow:
			out = outcome{status: StatusFailed}
		case skipNow:
			out = outcome{status: StatusSkipped, err: errors.New(v.reason)}
		case abortNow:
			out = outcome{status: StatusErrored, err: v.err}
		default:
			log.Error("case panicked", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
			out = outcome{status: StatusErrored, err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	fn(t)
	if t.Failed() {
		return outcome{status: StatusFailed}
	}
	return outcome{status: StatusPassed}
}

const screenshotTimeout = 15 * time.Second

// abandonGrace is how long a timed-out body gets to return after its
// context is canceled before the runner closes the session under it.
var abandonGrace = 2 * time.Second

// screenshot clears a pending dialog, which would block the capture, and
// saves the viewport. The case context may already be done, so it uses
// its own deadline.
func (r *Runner) screenshot(d browser.Driver, c Case, kind artifacts.Kind, log *zap.Logger) string {
	if r.opts.Screenshots == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), screenshotTimeout)
	defer cancel()

	if dlg, err := d.Dialog(ctx); err == nil {
		log.Info("dismissing dialog before screenshot", zap.String("message", dlg.Message))
		if err := d.DismissDialog(ctx); err != nil {
			log.Warn("failed to dismiss dialog", zap.Error(err))
		}
	}
	p, err := r.opts.Screenshots.Capture(ctx, d, c.Module, c.Name, kind)
	if err != nil {
		log.Warn("failure screenshot not saved", zap.Error(err))
		return ""
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.ScreenshotTaken(kind)
	}
	return p
}
