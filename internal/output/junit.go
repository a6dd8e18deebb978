// internal/output/junit.go
package output

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/valpere/UIProbe/internal/suite"
)

// JUnit XML as read by CI servers; one testsuite per module.
type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Name     string       `xml:"name,attr"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Errors   int          `xml:"errors,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       string          `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr,omitempty"`
	Properties *junitProps     `xml:"properties,omitempty"`
	Cases      []junitTestCase `xml:"testcase"`
}

type junitProps struct {
	Props []junitProp `xml:"property"`
}

type junitProp struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitMessage `xml:"failure,omitempty"`
	Error     *junitMessage `xml:"error,omitempty"`
	Skipped   *junitMessage `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr,omitempty"`
	Body    string `xml:",chardata"`
}

func seconds(ms int64) string { return fmt.Sprintf("%.3f", float64(ms)/1000) }

// buildJUnit groups the cases by module, keeping module order sorted.
func buildJUnit(r *Report) junitSuites {
	byModule := map[string]*junitSuite{}
	var modules []string
	totals := map[string]int64{}

	for _, c := range r.Cases {
		s, ok := byModule[c.Module]
		if !ok {
			s = &junitSuite{Name: c.Module}
			if !c.Start.IsZero() {
				s.Timestamp = c.Start.UTC().Format("2006-01-02T15:04:05")
			}
			byModule[c.Module] = s
			modules = append(modules, c.Module)
		}
		ms := c.Duration.Milliseconds()
		totals[c.Module] += ms

		tc := junitTestCase{Name: c.Name, ClassName: c.Module, Time: seconds(ms)}
		switch c.Status {
		case suite.StatusFailed:
			s.Failures++
			tc.Failure = &junitMessage{Message: firstLine(c.Failures), Body: strings.Join(c.Failures, "\n")}
		case suite.StatusErrored:
			s.Errors++
			tc.Error = &junitMessage{Message: c.Error, Body: c.Error}
		case suite.StatusSkipped:
			s.Skipped++
			tc.Skipped = &junitMessage{Message: c.Error}
		}
		var out []string
		if len(c.Steps) > 0 {
			out = append(out, c.Steps...)
		}
		if c.Screenshot != "" {
			out = append(out, "screenshot: "+c.Screenshot)
		}
		tc.SystemOut = strings.Join(out, "\n")

		s.Tests++
		s.Cases = append(s.Cases, tc)
	}
	sort.Strings(modules)

	doc := junitSuites{Name: r.Title, Time: seconds(r.Duration().Milliseconds())}
	for i, m := range modules {
		s := byModule[m]
		s.Time = seconds(totals[m])
		if i == 0 && len(r.Metadata) > 0 {
			props := &junitProps{}
			for _, f := range r.Metadata {
				props.Props = append(props.Props, junitProp{Name: f.Key, Value: f.Value})
			}
			s.Properties = props
		}
		doc.Tests += s.Tests
		doc.Failures += s.Failures
		doc.Errors += s.Errors
		doc.Skipped += s.Skipped
		doc.Suites = append(doc.Suites, *s)
	}
	return doc
}

func firstLine(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	line, _, _ := strings.Cut(msgs[0], "\n")
	return line
}

// JUnitWriter writes a JUnit XML report
type JUnitWriter struct {
	file *os.File
}

// NewJUnitWriter creates the XML file.
func NewJUnitWriter(filename string) (*JUnitWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML file: %w", err)
	}
	return &JUnitWriter{file: file}, nil
}

func (w *JUnitWriter) Name() string { return string(FormatJUnit) }

func (w *JUnitWriter) Write(_ context.Context, r *Report) error {
	if _, err := w.file.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w.file)
	enc.Indent("", "  ")
	if err := enc.Encode(buildJUnit(r)); err != nil {
		return fmt.Errorf("failed to encode JUnit report: %w", err)
	}
	return enc.Flush()
}

func (w *JUnitWriter) Close() error {
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
