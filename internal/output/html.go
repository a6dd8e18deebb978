// internal/output/html.go
package output

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var titleCaser = cases.Title(language.English)

// HTMLWriter renders the report page. Screenshot links are relative to
// the report file so the directory can be archived as a whole.
type HTMLWriter struct {
	file *os.File
	dir  string
	tmpl *template.Template
}

// NewHTMLWriter creates the report file and parses the template.
func NewHTMLWriter(filename string) (*HTMLWriter, error) {
	dir, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, err
	}
	w := &HTMLWriter{dir: dir}
	tmpl, err := template.New("report.html.tmpl").Funcs(template.FuncMap{
		"title": titleCaser.String,
		"dur":   formatDuration,
		"rel":   w.relative,
	}).ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	w.tmpl = tmpl

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	w.file = file
	return w, nil
}

func (w *HTMLWriter) Name() string { return string(FormatHTML) }

func (w *HTMLWriter) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(w.dir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

func (w *HTMLWriter) Write(_ context.Context, r *Report) error {
	data := struct {
		Report   *Report
		Statuses []string
	}{
		Report:   r,
		Statuses: []string{"passed", "failed", "errored", "skipped"},
	}
	if err := w.tmpl.Execute(w.file, data); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

func (w *HTMLWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
