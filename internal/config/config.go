// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valpere/UIProbe/internal/browser"
)

// LoadFromFile loads the suite configuration from a YAML file
func LoadFromFile(filename string) (*SuiteConfig, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads the suite configuration from YAML bytes. Empty input
// yields the defaults.
func LoadFromBytes(data []byte) (*SuiteConfig, error) {
	expanded := expandEnvironmentVariables(string(data))

	var config SuiteConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadFromReader loads the suite configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*SuiteConfig, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %w", err)
	}

	return LoadFromBytes(data)
}

// Default returns a configuration with every default applied
func Default() *SuiteConfig {
	var config SuiteConfig
	applyDefaults(&config)
	return &config
}

// SaveToFile saves the configuration to a YAML file
func SaveToFile(config *SuiteConfig, filename string) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// expandEnvironmentVariables substitutes ${VAR} and $VAR references
func expandEnvironmentVariables(content string) string {
	return os.ExpandEnv(content)
}

func applyDefaults(config *SuiteConfig) {
	if config.Project.Name == "" {
		config.Project.Name = "Demo Project"
	}
	if config.Project.Module == "" {
		config.Project.Module = "UI Elements"
	}
	if config.Project.Tester == "" {
		config.Project.Tester = os.Getenv("USER")
	}

	if config.Application.ConfigFile == "" {
		config.Application.ConfigFile = filepath.Join("Configuration", "config.ini")
	}

	def := browser.DefaultBrowserConfig()
	b := &config.Browser
	if b.Name == "" {
		b.Name = def.Name
	}
	if b.ViewportWidth == 0 {
		b.ViewportWidth = def.ViewportWidth
	}
	if b.ViewportHeight == 0 {
		b.ViewportHeight = def.ViewportHeight
	}
	if b.PageLoadTimeout == 0 {
		b.PageLoadTimeout = def.PageLoadTimeout
	}

	t := &config.Timeouts
	if t.Implicit == 0 {
		t.Implicit = 10 * time.Second
	}
	if t.Explicit == 0 {
		t.Explicit = 10 * time.Second
	}
	if t.Poll == 0 {
		t.Poll = browser.DefaultPollInterval
	}
	if t.ClickAttempts == 0 {
		t.ClickAttempts = 5
	}
	if t.MaxScrolls == 0 {
		t.MaxScrolls = 10
	}
	if t.Case == 0 {
		t.Case = 2 * time.Minute
	}

	if config.Artifacts.ScreenshotDir == "" {
		config.Artifacts.ScreenshotDir = "Screenshots"
	}
	if config.Artifacts.ReportDir == "" {
		config.Artifacts.ReportDir = "Reports"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
	if config.Logging.File == "" {
		config.Logging.File = filepath.Join("Logs", "automation.log")
	}

	if config.Report.Name == "" {
		config.Report.Name = "report"
	}
	if len(config.Report.Formats) == 0 {
		config.Report.Formats = []string{"html"}
	}
	for i := range config.Report.Sinks {
		s := &config.Report.Sinks[i]
		if s.Table == "" {
			s.Table = "test_results"
		}
		if s.Type == "mongodb" {
			if s.Database == "" {
				s.Database = "uiprobe"
			}
			if s.Collection == "" {
				s.Collection = "test_results"
			}
		}
	}

	if config.Run.Parallel == 0 {
		config.Run.Parallel = 1
	}
	if config.Metrics.Listen == "" {
		config.Metrics.Listen = ":9090"
	}
}

// ApplyOverrides replaces file values with command line values that were
// set, then validates the result.
func (sc *SuiteConfig) ApplyOverrides(o Overrides) error {
	if o.Browser != "" {
		sc.Browser.Name = browser.Name(o.Browser)
	}
	if o.Headless != nil {
		sc.Browser.Headless = *o.Headless
	}
	if o.BaseURL != "" {
		sc.Application.BaseURL = o.BaseURL
	}
	if o.Parallel > 0 {
		sc.Run.Parallel = o.Parallel
	}
	if o.ReportDir != "" {
		sc.Artifacts.ReportDir = o.ReportDir
	}
	if o.Run != "" {
		sc.Run.Run = o.Run
	}
	if o.Skip != "" {
		sc.Run.Skip = o.Skip
	}
	if len(o.Tags) > 0 {
		sc.Run.Tags = o.Tags
	}
	return sc.Validate()
}
