// internal/output/output_test.go
package output

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/valpere/UIProbe/internal/config"
	"github.com/valpere/UIProbe/internal/suite"
)

var runStart = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// sampleReport holds one case per status; the failed case has a
// screenshot under dir/screenshots.
func sampleReport(dir string) *Report {
	shot := filepath.Join(dir, "screenshots", "home_title_and_url_assertion_failed.png")
	sum := &suite.Summary{
		RunID: "run-1",
		Start: runStart,
		End:   runStart.Add(12 * time.Second),
		Results: []suite.Result{
			{Module: "home", Name: "logo", Status: suite.StatusPassed, Tags: []string{"smoke", "ui"},
				Start: runStart, Duration: 1500 * time.Millisecond, ClickAttempts: 2},
			{Module: "home", Name: "title_and_url", Status: suite.StatusFailed, Tags: []string{"smoke"},
				Start: runStart, Duration: 2 * time.Second, Failures: []string{"title: expected \"ToolsQA\", got \"DEMOQA\""},
				Screenshot: shot, Steps: []string{"open home"}},
			{Module: "elements", Name: "upload", Status: suite.StatusErrored, Start: runStart,
				Duration: 300 * time.Millisecond, Error: "element #uploadFile not found", ForcedClicks: 1},
			{Module: "widgets", Name: "accordion", Status: suite.StatusSkipped, Error: "download directory not configured"},
		},
	}
	meta := Metadata{{Key: KeyProject, Value: "UIProbe"}, {Key: KeyTester, Value: "QA"}}
	env := Environment{Browser: "chrome", Headless: true, BaseURL: "https://demoqa.com", GoVersion: "go1.24", OS: "linux/amd64"}
	return NewReport("Demo QA", sum, meta, env)
}

func TestFormat(t *testing.T) {
	assert.True(t, FormatJUnit.IsValid())
	assert.False(t, Format("pdf").IsValid())
	assert.Equal(t, ".xml", FormatJUnit.Extension())
	assert.Equal(t, ".xlsx", FormatXLSX.Extension())
	assert.Equal(t, ".html", FormatHTML.Extension())
	assert.Equal(t, "text/csv", FormatCSV.MimeType())
	assert.Equal(t, "application/octet-stream", Format("pdf").MimeType())
}

func TestBuildMetadata(t *testing.T) {
	env := map[string]string{"CI": "true", "JAVA_HOME": "/opt/jdk", "GIT_BRANCH": "main"}
	extra := map[string]string{"Plugins": "x", "Browser Version": "126", "Environment": "staging"}
	project := config.ProjectConfig{Name: "UIProbe", Module: "Regression", Tester: "QA"}

	m := BuildMetadata(project, extra, func(k string) string { return env[k] })

	var keys []string
	for _, f := range m {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"CI", "GIT_BRANCH", "Browser Version", "Environment", KeyProject, KeyModule, KeyTester}, keys)
	v, ok := m.Get(KeyModule)
	assert.True(t, ok)
	assert.Equal(t, "Regression", v)
	_, ok = m.Get("JAVA_HOME")
	assert.False(t, ok, "noise keys must be removed")
}

func TestBuildMetadata_ProjectOverridesExtra(t *testing.T) {
	m := BuildMetadata(config.ProjectConfig{Name: "real"}, map[string]string{KeyProject: "stale"}, func(string) string { return "" })
	v, _ := m.Get(KeyProject)
	assert.Equal(t, "real", v)
	assert.Len(t, m, 3)
}

func TestReport(t *testing.T) {
	r := sampleReport(t.TempDir())
	assert.Equal(t, 12*time.Second, r.Duration())
	assert.False(t, r.Passed())
	assert.Equal(t, map[string]int{"passed": 1, "failed": 1, "errored": 1, "skipped": 1}, r.Counts)

	rows := r.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, "smoke,ui", rows[0].Tags)
	assert.Equal(t, int64(1500), rows[0].DurationMS)
	assert.Len(t, rows[0].Strings(), len(RowHeader))
	assert.Equal(t, "", rows[3].Strings()[4], "zero start renders empty")
}

func TestJSONWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w, err := NewJSONWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), sampleReport(t.TempDir())))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second close is a no-op")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Len(t, got.Cases, 4)
	assert.Equal(t, suite.StatusFailed, got.Cases[1].Status)
	assert.Equal(t, "UIProbe", got.Metadata[0].Value)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), sampleReport(t.TempDir())))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Join(RowHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "run-1,home,title_and_url,failed,"), lines[2])
}

func TestJUnitWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")
	w, err := NewJUnitWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), sampleReport(t.TempDir())))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))

	var doc junitSuites
	require.NoError(t, xml.Unmarshal(data, &doc))
	assert.Equal(t, 4, doc.Tests)
	assert.Equal(t, 1, doc.Failures)
	assert.Equal(t, 1, doc.Errors)
	assert.Equal(t, 1, doc.Skipped)
	assert.Equal(t, "12.000", doc.Time)

	require.Len(t, doc.Suites, 3)
	assert.Equal(t, []string{"elements", "home", "widgets"},
		[]string{doc.Suites[0].Name, doc.Suites[1].Name, doc.Suites[2].Name})
	require.NotNil(t, doc.Suites[0].Properties)
	assert.Equal(t, KeyProject, doc.Suites[0].Properties.Props[0].Name)

	home := doc.Suites[1]
	assert.Equal(t, "3.500", home.Time)
	require.Len(t, home.Cases, 2)
	failed := home.Cases[1]
	require.NotNil(t, failed.Failure)
	assert.Contains(t, failed.Failure.Message, "title: expected")
	assert.Contains(t, failed.SystemOut, "screenshot: ")
	assert.Nil(t, home.Cases[0].Failure)
}

func TestHTMLWriter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")
	w, err := NewHTMLWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), sampleReport(dir)))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, "<title>Demo QA</title>")
	assert.Contains(t, page, "<tr><th>Project Name</th><td>UIProbe</td></tr>")
	assert.Contains(t, page, `href="screenshots/home_title_and_url_assertion_failed.png"`)
	assert.Contains(t, page, ">Failed</td>")
	assert.Contains(t, page, ">Skipped</th>")
	assert.Contains(t, page, "verdict-failed")
	assert.Contains(t, page, "element #uploadFile not found")
	assert.Contains(t, page, "(headless)")
}

func TestHTMLWriter_EscapesContent(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport(dir)
	r.Cases[2].Error = `<script>alert("x")</script>`

	path := filepath.Join(dir, "report.html")
	w, err := NewHTMLWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), r))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>")
	assert.Contains(t, string(data), "&lt;script&gt;")
}

func TestExcelWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	w, err := NewExcelWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), sampleReport(t.TempDir())))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, resultsSheet}, f.GetSheetList())

	title, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Demo QA", title)

	rows, err := f.GetRows(resultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, RowHeader, rows[0])
	assert.Equal(t, "title_and_url", rows[2][2])
	assert.Equal(t, "failed", rows[2][3])
}

func TestNewExcelWriter_RequiresPath(t *testing.T) {
	_, err := NewExcelWriter("")
	assert.Error(t, err)
}
