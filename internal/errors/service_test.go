// internal/errors/service_test.go
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/config"
	"github.com/valpere/UIProbe/internal/fixture"
)

func TestClassify(t *testing.T) {
	validation := config.ValidationErrors{{Field: "browser.name", Value: "opera", Message: "must be chrome, firefox or edge"}}

	tests := []struct {
		name string
		err  error
		want Category
		code int
	}{
		{"tests failed", fmt.Errorf("run abc: %w", ErrTestsFailed), CategoryTestsFailed, 1},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), CategoryInterrupted, 130},
		{"validation list", validation, CategoryValidation, 6},
		{"single validation", fmt.Errorf("ini: %w", config.ValidationError{Field: "COMMON.BaseURL"}), CategoryValidation, 6},
		{"wrapped validation", Wrap(CategoryConfig, "load config", validation), CategoryValidation, 6},
		{"tagged", Wrap(CategoryReport, "write reports", stderrors.New("disk full")), CategoryReport, 5},
		{"unsupported browser", fmt.Errorf("launch: %w", browser.ErrUnsupportedBrowser), CategoryBrowser, 3},
		{"fixture", fmt.Errorf("load home_page: %w", fixture.ErrNotFound), CategoryFixture, 4},
		{"yaml message", stderrors.New("yaml: line 3: mapping values are not allowed"), CategoryConfig, 2},
		{"chrome message", stderrors.New("exec: \"google-chrome\": executable file not found"), CategoryBrowser, 3},
		{"unknown", stderrors.New("something odd"), CategoryGeneral, 1},
	}

	s := NewService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			if got := s.ExitCode(tt.err); got != tt.code {
				t.Errorf("ExitCode = %d, want %d", got, tt.code)
			}
		})
	}

	if s.ExitCode(nil) != 0 {
		t.Error("nil error must exit 0")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(CategoryBrowser, "launch", nil) != nil {
		t.Error("wrapping nil must return nil")
	}
	err := Wrap(CategoryBrowser, "launch chrome", browser.ErrSessionClosed)
	if err.Error() != "launch chrome: browser session is closed" {
		t.Errorf("message %q", err.Error())
	}
	if !stderrors.Is(err, browser.ErrSessionClosed) {
		t.Error("Wrap must keep the chain")
	}
	if CategoryBrowser.String() != "browser" || Category(99).String() != "general" {
		t.Error("category names")
	}
}

func TestUserFriendly(t *testing.T) {
	s := NewService()

	title, _, suggestions := s.UserFriendly(Wrap(CategoryBrowser, "launch", stderrors.New("dial tcp: connection refused")))
	if title != "WebDriver Not Reachable" || len(suggestions) == 0 {
		t.Errorf("got %q %v", title, suggestions)
	}

	title, _, _ = s.UserFriendly(stderrors.New("context deadline exceeded"))
	if title != "Timeout" {
		t.Errorf("got %q", title)
	}

	if title, _, _ := s.UserFriendly(nil); title != "" {
		t.Errorf("nil error gave %q", title)
	}
}

func TestFormatForCLI(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	err := Wrap(CategoryConfig, "load uiprobe.yaml", config.ValidationErrors{
		{Field: "run.parallel", Value: "0", Message: "must be at least 1"},
	})

	out := NewService().FormatForCLI(err)
	for _, want := range []string{
		"Error: Invalid Configuration",
		"  - run.parallel: must be at least 1 (got \"0\")",
		"Suggestions:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Technical details") {
		t.Error("technical details shown without verbose")
	}

	verbose := NewService().WithVerbose(true).FormatForCLI(err)
	if !strings.Contains(verbose, "Technical details: load uiprobe.yaml: configuration has 1 error(s)") {
		t.Errorf("verbose output:\n%s", verbose)
	}
	if NewService().FormatForCLI(nil) != "" {
		t.Error("nil error formats to empty")
	}
}
