// internal/config/types.go
package config

import (
	"time"

	"github.com/valpere/UIProbe/internal/browser"
)

// SuiteConfig is the YAML configuration of a test run
type SuiteConfig struct {
	Project     ProjectConfig         `yaml:"project" json:"project"`
	Application ApplicationConfig     `yaml:"application" json:"application"`
	Browser     browser.BrowserConfig `yaml:"browser" json:"browser"`
	Timeouts    TimeoutsConfig        `yaml:"timeouts" json:"timeouts"`
	Fixtures    FixturesConfig        `yaml:"fixtures" json:"fixtures"`
	Artifacts   ArtifactsConfig       `yaml:"artifacts" json:"artifacts"`
	Logging     LoggingConfig         `yaml:"logging" json:"logging"`
	Report      ReportConfig          `yaml:"report" json:"report"`
	Run         RunConfig             `yaml:"run" json:"run"`
	Metrics     MetricsConfig         `yaml:"metrics" json:"metrics"`
}

// ProjectConfig is the metadata shown at the top of reports
type ProjectConfig struct {
	Name   string `yaml:"name" json:"name"`
	Module string `yaml:"module" json:"module"`
	Tester string `yaml:"tester" json:"tester"`
}

// ApplicationConfig locates the application under test
type ApplicationConfig struct {
	// ConfigFile is the INI file holding COMMON/BaseURL.
	ConfigFile string `yaml:"config_file" json:"config_file"`
	// BaseURL overrides the INI value when set.
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}

// TimeoutsConfig mirrors page.Timeouts plus the per-case limit
type TimeoutsConfig struct {
	Implicit      time.Duration `yaml:"implicit" json:"implicit"`
	Explicit      time.Duration `yaml:"explicit" json:"explicit"`
	Poll          time.Duration `yaml:"poll" json:"poll"`
	ClickAttempts int           `yaml:"click_attempts" json:"click_attempts"`
	MaxScrolls    int           `yaml:"max_scrolls" json:"max_scrolls"`
	Case          time.Duration `yaml:"case" json:"case"`
}

// FixturesConfig selects where JSON test data is read from
type FixturesConfig struct {
	// Dir overrides the fixtures embedded in the binary.
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
	// DataDir is the base of files such as TestData/sampleFile.jpeg.
	DataDir string `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
}

// ArtifactsConfig holds output locations
type ArtifactsConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir" json:"screenshot_dir"`
	ReportDir     string `yaml:"report_dir" json:"report_dir"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// ReportConfig lists the result formats and history sinks
type ReportConfig struct {
	Name    string       `yaml:"name" json:"name"`
	Formats []string     `yaml:"formats" json:"formats"`
	Sinks   []SinkConfig `yaml:"sinks,omitempty" json:"sinks,omitempty"`
	// Metadata adds rows to the report header.
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// SinkConfig is a database that keeps result history
type SinkConfig struct {
	Type       string `yaml:"type" json:"type"`
	DSN        string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Table      string `yaml:"table,omitempty" json:"table,omitempty"`
	Database   string `yaml:"database,omitempty" json:"database,omitempty"`
	Collection string `yaml:"collection,omitempty" json:"collection,omitempty"`
}

// RunConfig selects and schedules cases
type RunConfig struct {
	Parallel int      `yaml:"parallel" json:"parallel"`
	Run      string   `yaml:"run,omitempty" json:"run,omitempty"`
	Skip     string   `yaml:"skip,omitempty" json:"skip,omitempty"`
	Tags     []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Listen  string `yaml:"listen" json:"listen"`
}

// Overrides are command line values that replace file values when set
type Overrides struct {
	Browser   string
	Headless  *bool
	BaseURL   string
	Parallel  int
	ReportDir string
	Run       string
	Skip      string
	Tags      []string
}

var (
	supportedFormats = []string{"html", "json", "csv", "junit", "xlsx"}
	supportedSinks   = []string{"sqlite", "postgresql", "mysql", "mongodb"}
	supportedLevels  = []string{"debug", "info", "warn", "error"}
)
