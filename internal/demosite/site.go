// internal/demosite/site.go
//
// Package demosite serves an in-memory copy of the demo application on the
// memdriver backend. Pages are static markup; the interactive parts are
// handlers over a model owned by each session. It lets the whole suite run
// without a browser.
package demosite

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/browser/memdriver"
)

// DefaultBaseURL is where the site is mounted unless New is given another
// address.
const DefaultBaseURL = "https://demoqa.com"

// Site builds sessions on the demo application.
type Site struct {
	base        string
	timerDelay  time.Duration
	revealAfter int
	downloadDir string
}

// Option customizes a Site.
type Option func(*Site)

// WithTimerAlertDelay sets how long the delayed alert takes to open.
func WithTimerAlertDelay(d time.Duration) Option {
	return func(s *Site) { s.timerDelay = d }
}

// WithRevealAfter sets how many lookups the delayed button stays hidden
// for on the Dynamic Properties page.
func WithRevealAfter(n int) Option {
	return func(s *Site) { s.revealAfter = n }
}

// WithDownloadDir sets where the download button writes its file when the
// session configuration names no directory.
func WithDownloadDir(dir string) Option {
	return func(s *Site) { s.downloadDir = dir }
}

// New returns a site mounted at baseURL.
func New(baseURL string, opts ...Option) *Site {
	s := &Site{
		base:        strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		timerDelay:  5 * time.Second,
		revealAfter: 3,
	}
	if s.base == "" {
		s.base = DefaultBaseURL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the absolute address of path on the site.
func (s *Site) URL(path string) string {
	return s.base + path
}

// Open starts a session. It satisfies browser.OpenFunc.
func (s *Site) Open(ctx context.Context, config *browser.BrowserConfig, logger *zap.Logger) (browser.Driver, error) {
	sess := s.NewSession()
	if config != nil && config.DownloadDir != "" {
		sess.downloadDir = config.DownloadDir
	}
	if logger != nil {
		logger.Debug("in-memory session started", zap.String("base_url", s.base))
	}
	return sess.Driver, nil
}

// User is one row of the web table model.
type User struct {
	ID         int
	FirstName  string
	LastName   string
	Age        string
	Email      string
	Salary     string
	Department string
}

// Session is one browser session on the site together with the state its
// handlers keep.
type Session struct {
	*memdriver.Driver
	site        *Site
	downloadDir string

	mu       sync.Mutex
	users    []User
	nextID   int
	editing  int
	subjects []string
	dob      string
	state    string
	city     string
}

func defaultUsers() []User {
	return []User{
		{1, "Cierra", "Vega", "39", "cierra@example.com", "10000", "Insurance"},
		{2, "Alden", "Cantrell", "45", "alden@example.com", "12000", "Compliance"},
		{3, "Kierra", "Gentry", "29", "kierra@example.com", "2000", "Legal"},
	}
}

// NewSession returns a fresh session in a blank window.
func (s *Site) NewSession() *Session {
	sess := &Session{
		Driver:      memdriver.New(),
		site:        s,
		downloadDir: s.downloadDir,
		users:       defaultUsers(),
		nextID:      4,
	}
	d := sess.Driver

	d.AddPage(s.URL("/"), s.homePage())
	d.AddPage(s.URL("/sample"), s.samplePage())
	d.AddPage(JoinNowURL, joinNowPage)
	d.AddPage(BrokenLinkURL, brokenLinkPage)

	d.AddPage(s.URL("/elements"), s.layout("Elements", `<div>Please select an item from left to start practice.</div>`))
	d.AddPage(s.URL("/forms"), s.layout("Forms", `<div>Please select an item from left to start practice.</div>`))
	d.AddPage(s.URL("/alertsWindows"), s.layout("Alerts, Frame & Windows", `<div>Please select an item from left to start practice.</div>`))
	d.AddPage(s.URL("/widgets"), s.layout("Widgets", `<div>Please select an item from left to start practice.</div>`))
	d.AddPage(s.URL("/interaction"), s.layout("Interactions", `<div>Please select an item from left to start practice.</div>`))
	d.AddPage(s.URL("/books"), s.layout("Book Store", `<div>Please select an item from left to start practice.</div>`))

	d.AddPage(s.URL("/text-box"), s.layout("Text Box", textBoxBody))
	d.AddPage(s.URL("/checkbox"), s.layout("Check Box", checkBoxBody))
	d.AddPage(s.URL("/radio-button"), s.layout("Radio Button", radioBody))
	d.AddPage(s.URL("/webtables"), s.layout("Web Tables", fmt.Sprintf(tableBody, sess.rowsMarkup(""))))
	d.AddPage(s.URL("/buttons"), s.layout("Buttons", buttonsBody))
	d.AddPage(s.URL("/links"), s.layout("Links", s.linksBody()))
	d.AddPage(s.URL("/broken"), s.layout("Broken Links - Images", s.brokenBody()))
	d.AddPage(s.URL("/upload-download"), s.layout("Upload and Download", uploadBody))
	d.AddPage(s.URL("/dynamic-properties"), s.layout("Dynamic Properties", dynamicBody))
	d.AddPage(s.URL("/automation-practice-form"), s.layout("Practice Form", practiceFormBody()))
	d.AddPage(s.URL("/browser-windows"), s.layout("Browser Windows", windowsBody))
	d.AddPage(s.URL("/alerts"), s.layout("Alerts", alertsBody))
	d.AddPage(s.URL("/frames"), s.layout("Frames", framesBody))
	d.AddPage(s.URL("/nestedframes"), s.layout("Nested Frames", nestedFramesBody))
	d.AddPage(s.URL("/modal-dialogs"), s.layout("Modal Dialogs", modalsBody()))
	d.AddPage(s.URL("/accordian"), s.layout("Accordian", accordionBody()))
	d.AddPage(s.URL("/auto-complete"), s.layout("Auto Complete", autoCompleteBody))

	for _, r := range append(append([]route(nil), menu...), cards...) {
		d.OnClick(browser.CSSf("[data-route='%s']", r.path), navigate(r.path))
	}
	if s.revealAfter > 0 {
		d.DelayAppearance(browser.ID("visibleAfter"), s.revealAfter)
	}

	sess.bindElements()
	sess.bindTable()
	sess.bindWindows()
	sess.bindWidgets()
	sess.bindPracticeForm()
	return sess
}

func navigate(path string) memdriver.Handler {
	return func(ev *memdriver.Event) { ev.Navigate(path) }
}

// Users returns a copy of the web table model.
func (sess *Session) Users() []User {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]User(nil), sess.users...)
}

// Subjects returns the subjects picked on the practice form.
func (sess *Session) Subjects() []string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append([]string(nil), sess.subjects...)
}
