// internal/cases/cases.go
//
// Package cases holds the scenarios run against the demo application.
// Each module file registers its cases with a fixture document and tags.
package cases

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/page"
	"github.com/valpere/UIProbe/internal/suite"
)

// Tags used by the --tag filter.
const (
	TagSmoke      = "smoke"
	TagUI         = "ui"
	TagFunctional = "functional"
)

const (
	// The delayed alert opens after 5s and the delayed button shows after
	// 5s on the live site.
	delayedAlertWait  = 8 * time.Second
	delayedButtonWait = 8 * time.Second
	dialogWait        = 3 * time.Second
)

// All returns every scenario in registration order.
func All() []suite.Case {
	var out []suite.Case
	for _, group := range [][]suite.Case{
		homeCases(),
		elementsCases(),
		webTableCases(),
		windowsCases(),
		widgetsCases(),
		registrationCases(),
	} {
		out = append(out, group...)
	}
	return out
}

// Register adds every scenario to r.
func Register(r *suite.Registry) error {
	for _, c := range All() {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a registry holding every scenario.
func Default() *suite.Registry {
	r := suite.NewRegistry()
	r.MustRegister(All()...)
	return r
}

// expected returns the fixture string at path and stops the case when the
// document does not define it.
func expected(t *suite.T, path string) string {
	require.True(t, t.Data().Has(path), "fixture %s has no %q", t.Data().Name(), path)
	return t.Data().String(path)
}

// equalText checks that got holds a value equal to want. A missing value
// fails on its own instead of comparing as "".
func equalText(t *suite.T, want string, got page.Optional[string], what string) bool {
	v, ok := got.Get()
	if !assert.True(t, ok, "%s not found", what) {
		return false
	}
	return assert.Equal(t, want, v, what)
}

// containsText checks that got holds a value containing want.
func containsText(t *suite.T, got page.Optional[string], want, what string) bool {
	v, ok := got.Get()
	if !assert.True(t, ok, "%s not found", what) {
		return false
	}
	return assert.Contains(t, v, want, what)
}
