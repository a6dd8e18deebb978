// internal/errors/service.go - error classification for the command line
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/config"
	"github.com/valpere/UIProbe/internal/fixture"
)

// Category groups errors by the exit code they produce
type Category int

const (
	CategoryGeneral Category = iota
	CategoryTestsFailed
	CategoryConfig
	CategoryBrowser
	CategoryFixture
	CategoryReport
	CategoryValidation
	CategoryInterrupted
)

var exitCodes = map[Category]int{
	CategoryGeneral:     1,
	CategoryTestsFailed: 1,
	CategoryConfig:      2,
	CategoryBrowser:     3,
	CategoryFixture:     4,
	CategoryReport:      5,
	CategoryValidation:  6,
	CategoryInterrupted: 130,
}

func (c Category) String() string {
	switch c {
	case CategoryTestsFailed:
		return "tests"
	case CategoryConfig:
		return "config"
	case CategoryBrowser:
		return "browser"
	case CategoryFixture:
		return "fixture"
	case CategoryReport:
		return "report"
	case CategoryValidation:
		return "validation"
	case CategoryInterrupted:
		return "interrupted"
	default:
		return "general"
	}
}

// ErrTestsFailed is returned when a run finished with failed or errored cases.
var ErrTestsFailed = stderrors.New("test run failed")

// Error tags an error with the phase it came from
type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with category; nil stays nil.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Category: category, Op: op, Err: err}
}

// Classify finds the category of err. Typed errors win over the message
// heuristics used for errors from third-party drivers.
func Classify(err error) Category {
	if err == nil {
		return CategoryGeneral
	}
	var verrs config.ValidationErrors
	var verr config.ValidationError
	var tagged *Error
	switch {
	case stderrors.Is(err, ErrTestsFailed):
		return CategoryTestsFailed
	case stderrors.Is(err, context.Canceled):
		return CategoryInterrupted
	case stderrors.As(err, &verrs), stderrors.As(err, &verr):
		return CategoryValidation
	case stderrors.As(err, &tagged):
		return tagged.Category
	case stderrors.Is(err, browser.ErrUnsupportedBrowser), stderrors.Is(err, browser.ErrSessionClosed):
		return CategoryBrowser
	case stderrors.Is(err, fixture.ErrNotFound):
		return CategoryFixture
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "config") || strings.Contains(errStr, "yaml") || strings.Contains(errStr, ".ini"):
		return CategoryConfig
	case strings.Contains(errStr, "webdriver") || strings.Contains(errStr, "chrome") ||
		strings.Contains(errStr, "browser") || strings.Contains(errStr, "session"):
		return CategoryBrowser
	case strings.Contains(errStr, "report") || strings.Contains(errStr, "sink") || strings.Contains(errStr, "write"):
		return CategoryReport
	default:
		return CategoryGeneral
	}
}

// Service turns errors into exit codes and user-facing messages
type Service struct {
	showTechnical bool
}

// NewService creates a new error service
func NewService() *Service {
	return &Service{}
}

// WithVerbose enables technical error details
func (s *Service) WithVerbose(verbose bool) *Service {
	s.showTechnical = verbose
	return s
}

// ExitCode returns the process exit code for err
func (s *Service) ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return exitCodes[Classify(err)]
}

// UserFriendly converts err into a title, an explanation and suggestions
func (s *Service) UserFriendly(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}
	errStr := strings.ToLower(err.Error())

	switch Classify(err) {
	case CategoryTestsFailed:
		return "Test Run Failed",
			"One or more test cases failed or errored.",
			[]string{
				"Open the HTML report for failure details and screenshots",
				"Re-run a single case with --run module/name",
			}
	case CategoryInterrupted:
		return "Run Interrupted",
			"The run was canceled before it finished.",
			nil
	case CategoryValidation:
		return "Invalid Configuration",
			"The configuration did not pass validation.",
			[]string{
				"Fix the fields listed in the details",
				"Run 'uiprobe validate' to check the configuration",
			}
	case CategoryFixture:
		return "Test Data Missing",
			"A JSON fixture required by a test case could not be read.",
			[]string{
				"Check fixtures.dir in the configuration",
				"Run 'uiprobe list' to see which fixture each case uses",
			}
	case CategoryBrowser:
		if strings.Contains(errStr, "connection refused") {
			return "WebDriver Not Reachable",
				"The WebDriver endpoint refused the connection.",
				[]string{
					"Start geckodriver or the Selenium server",
					"Check browser.webdriver_url",
				}
		}
		return "Browser Error",
			"The browser could not be started or stopped responding.",
			[]string{
				"Check that the browser is installed",
				"Try --headless on machines without a display",
				"Check browser.name (chrome, firefox or edge)",
			}
	case CategoryConfig:
		if strings.Contains(errStr, "yaml") {
			return "Configuration Error",
				"The configuration file has invalid YAML syntax.",
				[]string{
					"Check YAML indentation (use spaces, not tabs)",
					"Ensure proper quoting of string values",
				}
		}
		return "Configuration Error",
			"The configuration could not be loaded.",
			[]string{
				"Check the --config path",
				"Check that Configuration/config.ini sets COMMON/BaseURL",
			}
	case CategoryReport:
		return "Report Error",
			"Some reports or result sinks could not be written.",
			[]string{
				"Check that the report directory is writable",
				"Check the sink connection strings",
			}
	}

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return "Timeout",
			"An operation did not finish in time.",
			[]string{"Increase the timeouts in the configuration"}
	}
	return "Unexpected Error",
		"An unexpected error occurred.",
		[]string{"Run again with --verbose for details"}
}

// FormatForCLI formats err for command-line display
func (s *Service) FormatForCLI(err error) string {
	if err == nil {
		return ""
	}
	title, message, suggestions := s.UserFriendly(err)

	var b strings.Builder
	b.WriteString(color.New(color.FgRed, color.Bold).Sprint("Error: " + title))
	fmt.Fprintf(&b, "\n%s\n", message)

	var verrs config.ValidationErrors
	if stderrors.As(err, &verrs) {
		for _, v := range verrs {
			fmt.Fprintf(&b, "  - %s\n", v.Error())
		}
	}
	if s.showTechnical {
		fmt.Fprintf(&b, "\nTechnical details: %s\n", err.Error())
	}
	if len(suggestions) > 0 {
		b.WriteString("\nSuggestions:\n")
		for _, suggestion := range suggestions {
			fmt.Fprintf(&b, "  - %s\n", suggestion)
		}
	}
	return b.String()
}
