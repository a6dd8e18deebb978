// internal/config/config_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valpere/UIProbe/internal/browser"
)

func TestLoadFromBytes(t *testing.T) {
	t.Setenv("UIPROBE_TESTER", "Jane Doe")
	configYAML := `
project:
  name: "Demo Project"
  module: "Login Tests"
  tester: "${UIPROBE_TESTER}"
browser:
  name: firefox
  headless: true
timeouts:
  implicit: 5s
  click_attempts: 3
report:
  formats: [html, junit]
  sinks:
    - type: sqlite
      dsn: results.db
run:
  parallel: 2
  skip: "webtable/.*"
`

	config, err := LoadFromBytes([]byte(configYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes failed: %v", err)
	}

	if config.Project.Tester != "Jane Doe" {
		t.Errorf("expected env expansion, got %q", config.Project.Tester)
	}
	if config.Browser.Name != browser.Firefox || !config.Browser.Headless {
		t.Errorf("unexpected browser %+v", config.Browser)
	}
	if config.Timeouts.Implicit != 5*time.Second {
		t.Errorf("expected implicit 5s, got %s", config.Timeouts.Implicit)
	}
	if config.Timeouts.Explicit != 10*time.Second {
		t.Errorf("expected default explicit 10s, got %s", config.Timeouts.Explicit)
	}
	if config.Timeouts.ClickAttempts != 3 {
		t.Errorf("expected 3 click attempts, got %d", config.Timeouts.ClickAttempts)
	}
	if config.Report.Sinks[0].Table != "test_results" {
		t.Errorf("expected default table, got %q", config.Report.Sinks[0].Table)
	}
	if config.Run.Parallel != 2 {
		t.Errorf("expected parallel 2, got %d", config.Run.Parallel)
	}
}

func TestLoadFromBytes_EmptyGivesDefaults(t *testing.T) {
	for _, content := range [][]byte{nil, {}} {
		config, err := LoadFromBytes(content)
		if err != nil {
			t.Fatalf("LoadFromBytes(%q) failed: %v", content, err)
		}
		if config.Browser.Name != browser.Chrome {
			t.Errorf("expected chrome default, got %q", config.Browser.Name)
		}
		if config.Application.ConfigFile != filepath.Join("Configuration", "config.ini") {
			t.Errorf("unexpected INI path %q", config.Application.ConfigFile)
		}
		if config.Logging.File != filepath.Join("Logs", "automation.log") {
			t.Errorf("unexpected log file %q", config.Logging.File)
		}
		if len(config.Report.Formats) != 1 || config.Report.Formats[0] != "html" {
			t.Errorf("expected html report by default, got %v", config.Report.Formats)
		}
	}
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		errorMsg string
	}{
		{"bad yaml", "browser: [unclosed", "failed to parse YAML"},
		{"unknown browser", "browser:\n  name: safari", "browser.name"},
		{"bad format", "report:\n  formats: [pdf]", "report.formats"},
		{"sink without dsn", "report:\n  sinks:\n    - type: mysql", "report.sinks[0].dsn"},
		{"unknown sink", "report:\n  sinks:\n    - type: redis\n      dsn: x", "report.sinks[0].type"},
		{"bad regex", "run:\n  run: \"(\"", "run.run"},
		{"bad base url", "application:\n  base_url: demoqa.com", "application.base_url"},
		{"bad level", "logging:\n  level: loud", "logging.level"},
		{"poll over explicit", "timeouts:\n  explicit: 1s\n  poll: 2s", "timeouts.poll"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errorMsg, err)
			}
		})
	}
}

func TestCheck_CollectsAllErrors(t *testing.T) {
	config := Default()
	config.Browser.Name = "opera"
	config.Run.Parallel = 0
	result := config.Check()
	if result.Valid {
		t.Fatal("expected invalid config")
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", result.Errors)
	}

	config = Default()
	config.Browser.Name = browser.Edge
	config.Browser.Headless = true
	result = config.Check()
	if !result.Valid || len(result.Warnings) != 1 {
		t.Errorf("expected a headless edge warning, got %+v", result)
	}
}

func TestLoadFromFile(t *testing.T) {
	if _, err := LoadFromFile(""); err == nil {
		t.Error("expected error for empty filename")
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "nested", "uiprobe.yaml")
	config := Default()
	config.Project.Tester = "QA"
	config.Browser.Headless = true
	config.Timeouts.Case = 90 * time.Second
	if err := SaveToFile(config, path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Project.Tester != "QA" || !loaded.Browser.Headless || loaded.Timeouts.Case != 90*time.Second {
		t.Errorf("round trip lost values: %+v", loaded)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := LoadFromReader(f); err != nil {
		t.Errorf("LoadFromReader failed: %v", err)
	}
	if _, err := LoadFromReader(nil); err == nil {
		t.Error("expected error for nil reader")
	}
}

func TestApplyOverrides(t *testing.T) {
	config := Default()
	headless := true
	err := config.ApplyOverrides(Overrides{
		Browser:   "edge",
		Headless:  &headless,
		BaseURL:   "https://demoqa.com",
		Parallel:  4,
		ReportDir: "out",
		Tags:      []string{"smoke"},
	})
	if err != nil {
		t.Fatalf("ApplyOverrides failed: %v", err)
	}
	if config.Browser.Name != browser.Edge || !config.Browser.Headless {
		t.Errorf("browser not overridden: %+v", config.Browser)
	}
	if config.Run.Parallel != 4 || config.Artifacts.ReportDir != "out" || config.Run.Tags[0] != "smoke" {
		t.Errorf("run settings not overridden: %+v %+v", config.Run, config.Artifacts)
	}

	// unset overrides keep file values
	config.ApplyOverrides(Overrides{})
	if config.Application.BaseURL != "https://demoqa.com" {
		t.Errorf("empty override replaced base URL: %q", config.Application.BaseURL)
	}

	if err := config.ApplyOverrides(Overrides{Browser: "lynx"}); err == nil {
		t.Error("expected invalid browser override to fail validation")
	}
}

func TestLoadApplication(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	if err := os.WriteFile(path, []byte("[COMMON]\nBaseURL = https://demoqa.com/\n"), 0644); err != nil {
		t.Fatal(err)
	}

	app, err := LoadApplication(path)
	if err != nil {
		t.Fatalf("LoadApplication failed: %v", err)
	}
	if app.BaseURL != "https://demoqa.com/" {
		t.Errorf("unexpected base URL %q", app.BaseURL)
	}
	if err := app.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	if _, err := LoadApplication(filepath.Join(dir, "absent.ini")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadApplication_MissingKey(t *testing.T) {
	for _, content := range []string{"[COMMON]\nOther = x\n", "[OTHER]\nBaseURL = https://demoqa.com\n", ""} {
		app, err := LoadApplicationBytes([]byte(content))
		if err != nil {
			t.Fatalf("LoadApplicationBytes(%q) failed: %v", content, err)
		}
		if app.BaseURL != "" {
			t.Errorf("expected empty base URL, got %q", app.BaseURL)
		}
		var verr ValidationError
		if err := app.Validate(); !errors.As(err, &verr) || verr.Field != "COMMON.BaseURL" {
			t.Errorf("expected ValidationError for COMMON.BaseURL, got %v", err)
		}
	}
}

func TestResolveBaseURL(t *testing.T) {
	config := Default()
	config.Application.BaseURL = "https://override.example"
	app, err := config.ResolveBaseURL()
	if err != nil || app.BaseURL != "https://override.example" {
		t.Fatalf("override not used: %v %v", app, err)
	}

	path := filepath.Join(t.TempDir(), "config.ini")
	os.WriteFile(path, []byte("[COMMON]\nBaseURL = https://demoqa.com\n"), 0644)
	config = Default()
	config.Application.ConfigFile = path
	app, err = config.ResolveBaseURL()
	if err != nil || app.BaseURL != "https://demoqa.com" {
		t.Fatalf("INI value not used: %v %v", app, err)
	}
}
