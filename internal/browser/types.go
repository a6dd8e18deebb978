// internal/browser/types.go
package browser

import (
	"context"
	"time"
)

// Name identifies a browser family understood by the session factory.
type Name string

const (
	Chrome  Name = "chrome"
	Firefox Name = "firefox"
	Edge    Name = "edge"
)

// BrowserConfig defines how a session is launched
type BrowserConfig struct {
	Name            Name          `yaml:"name" json:"name"`
	Headless        bool          `yaml:"headless" json:"headless"`
	ExecPath        string        `yaml:"exec_path,omitempty" json:"exec_path,omitempty"`
	WebDriverURL    string        `yaml:"webdriver_url,omitempty" json:"webdriver_url,omitempty"`
	UserDataDir     string        `yaml:"user_data_dir,omitempty" json:"user_data_dir,omitempty"`
	Extensions      []string      `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	DownloadDir     string        `yaml:"download_dir,omitempty" json:"download_dir,omitempty"`
	ViewportWidth   int           `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight  int           `yaml:"viewport_height" json:"viewport_height"`
	UserAgent       string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	AntiDetection   bool          `yaml:"anti_detection" json:"anti_detection"`
	NoSandbox       bool          `yaml:"no_sandbox" json:"no_sandbox"`
	PageLoadTimeout time.Duration `yaml:"page_load_timeout" json:"page_load_timeout"`
	// StartURL is loaded right after launch when set.
	StartURL string `yaml:"-" json:"start_url,omitempty"`
	// ActionRate limits driver commands per second. Zero disables pacing.
	ActionRate float64 `yaml:"action_rate,omitempty" json:"action_rate,omitempty"`
}

// DefaultBrowserConfig returns default browser configuration
func DefaultBrowserConfig() *BrowserConfig {
	return &BrowserConfig{
		Name:            Chrome,
		Headless:        false,
		ViewportWidth:   1920,
		ViewportHeight:  1080,
		AntiDetection:   true,
		PageLoadTimeout: 30 * time.Second,
	}
}

// DialogType is the kind of native JavaScript dialog.
type DialogType string

const (
	DialogAlert        DialogType = "alert"
	DialogConfirm      DialogType = "confirm"
	DialogPrompt       DialogType = "prompt"
	DialogBeforeUnload DialogType = "beforeunload"
)

// Dialog is the content of the single pending native dialog of a session.
type Dialog struct {
	Type          DialogType `json:"type"`
	Message       string     `json:"message"`
	DefaultPrompt string     `json:"default_prompt,omitempty"`
}

// Driver is a live browser session. It is owned by exactly one test case and
// must not be used from more than one goroutine at a time.
type Driver interface {
	// Navigate loads a URL in the current window and waits for the document
	Navigate(ctx context.Context, url string) error
	Title(ctx context.Context) (string, error)
	CurrentURL(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)

	// Find returns the first match in the current frame context, or ErrNotFound.
	// It does not wait.
	Find(ctx context.Context, loc Locator) (Element, error)
	// FindAll returns every match, possibly none.
	FindAll(ctx context.Context, loc Locator) ([]Element, error)

	ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error)

	WindowHandles(ctx context.Context) ([]string, error)
	CurrentWindow(ctx context.Context) (string, error)
	SwitchToWindow(ctx context.Context, handle string) error
	// CloseWindow closes the current window. The caller must switch to
	// another handle afterwards.
	CloseWindow(ctx context.Context) error

	SwitchToFrame(ctx context.Context, frame Element) error
	SwitchToParentFrame(ctx context.Context) error
	SwitchToDefaultContent(ctx context.Context) error

	// Dialog returns the pending dialog or ErrNoDialog.
	Dialog(ctx context.Context) (*Dialog, error)
	AcceptDialog(ctx context.Context) error
	DismissDialog(ctx context.Context) error
	// AnswerPrompt types text into a pending prompt and accepts it.
	AnswerPrompt(ctx context.Context, text string) error

	Screenshot(ctx context.Context) ([]byte, error)

	// Quit terminates the browser. It is safe to call more than once.
	Quit() error
}

// Element is a handle to a node found by a Driver.
type Element interface {
	Click(ctx context.Context) error
	// ClickJS dispatches a script-level click that bypasses hit-testing.
	ClickJS(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	RightClick(ctx context.Context) error
	// ScrollIntoView centers the element in the viewport.
	ScrollIntoView(ctx context.Context) error

	Text(ctx context.Context) (string, error)
	Value(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, bool, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsSelected(ctx context.Context) (bool, error)

	SendKeys(ctx context.Context, keys string) error
	Clear(ctx context.Context) error
	// SelectByText picks the option of a <select> whose visible text matches.
	SelectByText(ctx context.Context, text string) error
	// Upload sets the files of an <input type="file">.
	Upload(ctx context.Context, paths ...string) error

	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
}

// Keys understood by SendKeys on every backend.
const (
	KeyEnter = "\ue007"
	KeyTab   = "\ue004"
)

// BrowserStats contains session statistics
type BrowserStats struct {
	PagesLoaded      int           `json:"pages_loaded"`
	AverageLoadTime  time.Duration `json:"average_load_time"`
	Errors           int           `json:"errors"`
	DialogsHandled   int           `json:"dialogs_handled"`
	TimeoutsOccurred int           `json:"timeouts_occurred"`
}
