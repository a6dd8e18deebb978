// internal/config/validation.go - validation with detailed error messages
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/valpere/UIProbe/internal/browser"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (ve ValidationError) Error() string {
	if ve.Value == "" {
		return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}
	return fmt.Sprintf("%s: %s (got %q)", ve.Field, ve.Message, ve.Value)
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []string          `json:"warnings"`
}

func (r *ValidationResult) add(field, value, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: message})
}

// Check validates the configuration and returns every problem found
func (sc *SuiteConfig) Check() *ValidationResult {
	result := &ValidationResult{
		Errors:   make([]ValidationError, 0),
		Warnings: make([]string, 0),
	}

	sc.validateBrowser(result)
	sc.validateTimeouts(result)
	sc.validateApplication(result)
	sc.validateReport(result)
	sc.validateRun(result)

	result.Valid = len(result.Errors) == 0
	return result
}

// Validate returns a single error describing every problem, or nil
func (sc *SuiteConfig) Validate() error {
	result := sc.Check()
	if result.Valid {
		return nil
	}
	return formatValidationError(result)
}

func (sc *SuiteConfig) validateBrowser(result *ValidationResult) {
	if _, err := browser.ParseName(string(sc.Browser.Name)); err != nil {
		result.add("browser.name", string(sc.Browser.Name), "must be chrome, firefox or edge")
	}
	if sc.Browser.ViewportWidth < 0 || sc.Browser.ViewportHeight < 0 {
		result.add("browser.viewport", fmt.Sprintf("%dx%d", sc.Browser.ViewportWidth, sc.Browser.ViewportHeight),
			"viewport dimensions cannot be negative")
	}
	if sc.Browser.ActionRate < 0 {
		result.add("browser.action_rate", fmt.Sprint(sc.Browser.ActionRate), "cannot be negative")
	}
	if sc.Browser.WebDriverURL != "" {
		if u, err := url.Parse(sc.Browser.WebDriverURL); err != nil || u.Host == "" {
			result.add("browser.webdriver_url", sc.Browser.WebDriverURL, "must be an absolute URL")
		}
	}
	if sc.Browser.Name == browser.Firefox && sc.Browser.WebDriverURL == "" {
		result.Warnings = append(result.Warnings,
			"firefox uses the default WebDriver endpoint "+browser.DefaultWebDriverURL)
	}
	if sc.Browser.Name == browser.Edge && sc.Browser.Headless {
		result.Warnings = append(result.Warnings, "edge does not support headless mode and will run headed")
	}
}

func (sc *SuiteConfig) validateTimeouts(result *ValidationResult) {
	t := sc.Timeouts
	if t.Implicit < 0 || t.Explicit < 0 || t.Poll < 0 || t.Case < 0 {
		result.add("timeouts", "", "timeouts cannot be negative")
	}
	if t.Poll > 0 && t.Explicit > 0 && t.Poll > t.Explicit {
		result.add("timeouts.poll", t.Poll.String(), "poll interval cannot exceed the explicit timeout")
	}
	if t.ClickAttempts < 0 {
		result.add("timeouts.click_attempts", fmt.Sprint(t.ClickAttempts), "cannot be negative")
	}
}

func (sc *SuiteConfig) validateApplication(result *ValidationResult) {
	if sc.Application.BaseURL == "" {
		return
	}
	if err := validateBaseURL(sc.Application.BaseURL); err != nil {
		result.add("application.base_url", sc.Application.BaseURL, err.Error())
	}
}

func (sc *SuiteConfig) validateReport(result *ValidationResult) {
	for _, f := range sc.Report.Formats {
		if !slices.Contains(supportedFormats, strings.ToLower(f)) {
			result.add("report.formats", f,
				fmt.Sprintf("unsupported format (supported: %s)", strings.Join(supportedFormats, ", ")))
		}
	}
	for i, s := range sc.Report.Sinks {
		field := fmt.Sprintf("report.sinks[%d]", i)
		if !slices.Contains(supportedSinks, s.Type) {
			result.add(field+".type", s.Type,
				fmt.Sprintf("unsupported sink (supported: %s)", strings.Join(supportedSinks, ", ")))
			continue
		}
		if s.DSN == "" {
			result.add(field+".dsn", "", "connection string is required")
		}
	}
	if !slices.Contains(supportedLevels, strings.ToLower(sc.Logging.Level)) {
		result.add("logging.level", sc.Logging.Level, "must be debug, info, warn or error")
	}
	if f := sc.Logging.Format; f != "json" && f != "console" {
		result.add("logging.format", f, "must be json or console")
	}
}

func (sc *SuiteConfig) validateRun(result *ValidationResult) {
	if sc.Run.Parallel < 1 {
		result.add("run.parallel", fmt.Sprint(sc.Run.Parallel), "must be at least 1")
	}
	for _, p := range []struct{ field, expr string }{{"run.run", sc.Run.Run}, {"run.skip", sc.Run.Skip}} {
		if p.expr == "" {
			continue
		}
		if _, err := regexp.Compile(p.expr); err != nil {
			result.add(p.field, p.expr, fmt.Sprintf("invalid regular expression: %v", err))
		}
	}
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must include protocol (http:// or https://)")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include hostname")
	}
	return nil
}

// ValidationErrors is every problem found in a configuration
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "configuration has %d error(s):", len(v))
	for _, e := range v {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return b.String()
}

func formatValidationError(result *ValidationResult) error {
	return ValidationErrors(result.Errors)
}
