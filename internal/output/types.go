// internal/output/types.go
package output

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/valpere/UIProbe/internal/config"
	"github.com/valpere/UIProbe/internal/suite"
)

// Format is a result file format
type Format string

const (
	FormatHTML  Format = "html"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatJUnit Format = "junit"
	FormatXLSX  Format = "xlsx"
)

// Sink types keep result history in a database
const (
	SinkSQLite     = "sqlite"
	SinkPostgreSQL = "postgresql"
	SinkMySQL      = "mysql"
	SinkMongoDB    = "mongodb"
)

// ValidFormats returns all supported file formats
func ValidFormats() []Format {
	return []Format{FormatHTML, FormatJSON, FormatCSV, FormatJUnit, FormatXLSX}
}

// IsValid checks if the format is supported
func (f Format) IsValid() bool {
	for _, v := range ValidFormats() {
		if f == v {
			return true
		}
	}
	return false
}

// Extension returns the file extension for the format
func (f Format) Extension() string {
	switch f {
	case FormatJUnit:
		return ".xml"
	case FormatXLSX:
		return ".xlsx"
	default:
		return "." + string(f)
	}
}

// MimeType returns the MIME type for the format
func (f Format) MimeType() string {
	switch f {
	case FormatHTML:
		return "text/html"
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatJUnit:
		return "application/xml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Writer stores a report in one format or sink
type Writer interface {
	Name() string
	Write(ctx context.Context, r *Report) error
	Close() error
}

// Field is one metadata row
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Metadata is the ordered key/value table at the top of a report
type Metadata []Field

// Metadata keys injected from the project configuration.
const (
	KeyProject = "Project Name"
	KeyModule  = "Test Module Name"
	KeyTester  = "Tester Name"
)

// NoiseKeys are dropped from every report.
var NoiseKeys = []string{"JAVA_HOME", "Plugins"}

// ciKeys are environment variables copied into the metadata when set.
var ciKeys = []string{"CI", "BUILD_NUMBER", "BUILD_URL", "GIT_COMMIT", "GIT_BRANCH", "JAVA_HOME"}

func (m Metadata) Get(key string) (string, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of key or appends it.
func (m *Metadata) Set(key, value string) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, Field{Key: key, Value: value})
}

// Delete removes keys.
func (m *Metadata) Delete(keys ...string) {
	kept := (*m)[:0]
	for _, f := range *m {
		drop := false
		for _, k := range keys {
			if f.Key == k {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, f)
		}
	}
	*m = kept
}

// BuildMetadata collects CI variables, extra entries and the project
// fields, then drops NoiseKeys. getenv may be nil.
func BuildMetadata(project config.ProjectConfig, extra map[string]string, getenv func(string) string) Metadata {
	if getenv == nil {
		getenv = os.Getenv
	}
	var m Metadata
	for _, k := range ciKeys {
		if v := getenv(k); v != "" {
			m.Set(k, v)
		}
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, extra[k])
	}
	m.Set(KeyProject, project.Name)
	m.Set(KeyModule, project.Module)
	m.Set(KeyTester, project.Tester)
	m.Delete(NoiseKeys...)
	return m
}

// Environment describes where the run happened
type Environment struct {
	Browser   string `json:"browser"`
	Headless  bool   `json:"headless"`
	BaseURL   string `json:"base_url"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
}

// CurrentEnvironment fills the runtime fields.
func CurrentEnvironment(browserName string, headless bool, baseURL string) Environment {
	return Environment{
		Browser:   browserName,
		Headless:  headless,
		BaseURL:   baseURL,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Report is a finished run with its metadata
type Report struct {
	Title       string         `json:"title"`
	RunID       string         `json:"run_id"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Metadata    Metadata       `json:"metadata"`
	Environment Environment    `json:"environment"`
	Counts      map[string]int `json:"counts"`
	Cases       []suite.Result `json:"cases"`
}

// NewReport converts a run summary.
func NewReport(title string, sum *suite.Summary, meta Metadata, env Environment) *Report {
	counts := make(map[string]int)
	for st, n := range sum.Counts() {
		counts[string(st)] = n
	}
	return &Report{
		Title:       title,
		RunID:       sum.RunID,
		Start:       sum.Start,
		End:         sum.End,
		Metadata:    meta,
		Environment: env,
		Counts:      counts,
		Cases:       sum.Results,
	}
}

func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Passed reports whether no case failed or errored.
func (r *Report) Passed() bool {
	return r.Counts[string(suite.StatusFailed)] == 0 && r.Counts[string(suite.StatusErrored)] == 0
}

// Row is one case flattened for tabular formats
type Row struct {
	RunID         string
	Module        string
	Name          string
	Status        string
	Start         time.Time
	DurationMS    int64
	Tags          string
	Failures      string
	Error         string
	Screenshot    string
	ClickAttempts int
	ForcedClicks  int
}

// RowHeader names the Row columns in order.
var RowHeader = []string{
	"run_id", "module", "name", "status", "start", "duration_ms",
	"tags", "failures", "error", "screenshot", "click_attempts", "forced_clicks",
}

// Rows flattens the cases of r.
func (r *Report) Rows() []Row {
	rows := make([]Row, 0, len(r.Cases))
	for _, c := range r.Cases {
		rows = append(rows, Row{
			RunID:         r.RunID,
			Module:        c.Module,
			Name:          c.Name,
			Status:        string(c.Status),
			Start:         c.Start,
			DurationMS:    c.Duration.Milliseconds(),
			Tags:          strings.Join(c.Tags, ","),
			Failures:      strings.Join(c.Failures, "; "),
			Error:         c.Error,
			Screenshot:    c.Screenshot,
			ClickAttempts: c.ClickAttempts,
			ForcedClicks:  c.ForcedClicks,
		})
	}
	return rows
}

// Strings returns the row in RowHeader order.
func (row Row) Strings() []string {
	start := ""
	if !row.Start.IsZero() {
		start = row.Start.UTC().Format(time.RFC3339)
	}
	return []string{
		row.RunID, row.Module, row.Name, row.Status, start, fmt.Sprint(row.DurationMS),
		row.Tags, row.Failures, row.Error, row.Screenshot,
		fmt.Sprint(row.ClickAttempts), fmt.Sprint(row.ForcedClicks),
	}
}
