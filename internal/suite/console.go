// internal/suite/console.go
package suite

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
	errorColor = color.New(color.FgRed, color.Bold)
	skipColor  = color.New(color.FgYellow)
	grayColor  = color.New(color.Faint)
	valueColor = color.New(color.FgCyan)
)

const (
	passMark = "✓"
	failMark = "✗"
	skipMark = "-"
)

// ConsoleListener prints one line per finished case and a summary.
type ConsoleListener struct {
	w       io.Writer
	verbose bool
	mu      sync.Mutex
}

// NewConsoleListener writes to w. Verbose also prints the steps of
// failed cases.
func NewConsoleListener(w io.Writer, verbose bool) *ConsoleListener {
	return &ConsoleListener{w: w, verbose: verbose}
}

func (l *ConsoleListener) RunStarted(runID string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s %s\n", grayColor.Sprint("run"), valueColor.Sprint(runID), grayColor.Sprintf("(%d cases)", total))
}

func (l *ConsoleListener) CaseStarted(Case) {}

func (l *ConsoleListener) CaseFinished(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dur := grayColor.Sprintf("(%s)", r.Duration.Round(time.Millisecond))
	switch r.Status {
	case StatusPassed:
		fmt.Fprintf(l.w, "  %s %s %s\n", passColor.Sprint(passMark), r.Path(), dur)
	case StatusSkipped:
		fmt.Fprintf(l.w, "  %s %s %s\n", skipColor.Sprint(skipMark), r.Path(), skipColor.Sprint(r.Error))
	default:
		c := failColor
		if r.Status == StatusErrored {
			c = errorColor
		}
		fmt.Fprintf(l.w, "  %s %s %s %s\n", c.Sprint(failMark), r.Path(), c.Sprint(r.Status), dur)
		for _, f := range r.Failures {
			fmt.Fprintf(l.w, "      %s\n", indent(f))
		}
		if r.Error != "" {
			fmt.Fprintf(l.w, "      %s\n", indent(r.Error))
		}
		if r.Screenshot != "" {
			fmt.Fprintf(l.w, "      %s %s\n", grayColor.Sprint("screenshot:"), r.Screenshot)
		}
		if l.verbose {
			for _, s := range r.Steps {
				fmt.Fprintf(l.w, "      %s %s\n", grayColor.Sprint("step:"), s)
			}
		}
	}
}

func (l *ConsoleListener) RunFinished(s *Summary) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := s.Counts()
	statuses := make([]string, 0, len(counts))
	for st := range counts {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, st := range statuses {
		n := counts[Status(st)]
		text := fmt.Sprintf("%d %s", n, st)
		switch {
		case n == 0:
			text = grayColor.Sprint(text)
		case Status(st) == StatusPassed:
			text = passColor.Sprint(text)
		case Status(st) == StatusSkipped:
			text = skipColor.Sprint(text)
		default:
			text = failColor.Sprint(text)
		}
		parts = append(parts, text)
	}
	fmt.Fprintf(l.w, "\n%s in %s\n", strings.Join(parts, ", "), valueColor.Sprint(s.Duration().Round(time.Millisecond)))
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n      ")
}
