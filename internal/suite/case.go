// internal/suite/case.go
//
// Package suite runs registered UI scenarios. Each case gets its own
// browser session, a fresh fixture document and a page.Base; the runner
// turns assertion failures, unexpected errors and panics into results and
// takes one screenshot per failed case.
package suite

import (
	"fmt"
	"regexp"
	"sync"
)

// Func is the body of a case.
type Func func(t *T)

// Case is one registered scenario.
type Case struct {
	// Module groups cases the way fixture documents do, e.g. "elements".
	Module string
	Name   string
	// Fixture names the JSON document loaded for the case. Empty means
	// none.
	Fixture string
	Tags    []string
	Run     Func
}

// Path returns "module/name", the string the run and skip filters match.
func (c Case) Path() string {
	return c.Module + "/" + c.Name
}

// HasTag reports whether the case carries tag.
func (c Case) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Registry holds cases in registration order.
type Registry struct {
	mu    sync.RWMutex
	cases []Case
	paths map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]bool)}
}

// Register adds c. Paths must be unique.
func (r *Registry) Register(c Case) error {
	if c.Module == "" || c.Name == "" {
		return fmt.Errorf("case needs a module and a name, got %q", c.Path())
	}
	if c.Run == nil {
		return fmt.Errorf("case %s has no body", c.Path())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths[c.Path()] {
		return fmt.Errorf("case %s registered twice", c.Path())
	}
	r.paths[c.Path()] = true
	r.cases = append(r.cases, c)
	return nil
}

// MustRegister registers every case and panics on the first error. It is
// meant for package initialization.
func (r *Registry) MustRegister(cases ...Case) {
	for _, c := range cases {
		if err := r.Register(c); err != nil {
			panic(err)
		}
	}
}

// Cases returns every registered case.
func (r *Registry) Cases() []Case {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Case(nil), r.cases...)
}

// Select returns the cases f accepts, in registration order.
func (r *Registry) Select(f *Filter) []Case {
	var out []Case
	for _, c := range r.Cases() {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Filter selects cases by path and tags. The zero value accepts
// everything.
type Filter struct {
	Run  *regexp.Regexp
	Skip *regexp.Regexp
	// Tags keeps cases that carry at least one of them.
	Tags []string
}

// NewFilter compiles the run and skip expressions. Empty expressions are
// ignored.
func NewFilter(run, skip string, tags []string) (*Filter, error) {
	f := &Filter{Tags: tags}
	var err error
	if run != "" {
		if f.Run, err = regexp.Compile(run); err != nil {
			return nil, fmt.Errorf("invalid run pattern: %w", err)
		}
	}
	if skip != "" {
		if f.Skip, err = regexp.Compile(skip); err != nil {
			return nil, fmt.Errorf("invalid skip pattern: %w", err)
		}
	}
	return f, nil
}

func (f *Filter) Match(c Case) bool {
	if f == nil {
		return true
	}
	if f.Run != nil && !f.Run.MatchString(c.Path()) {
		return false
	}
	if f.Skip != nil && f.Skip.MatchString(c.Path()) {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	for _, tag := range f.Tags {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}
