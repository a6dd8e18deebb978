// internal/browser/locator.go
package browser

import (
	"fmt"
	"strings"
)

// Strategy is the selector language of a Locator.
type Strategy string

const (
	ByCSS     Strategy = "css"
	ByXPath   Strategy = "xpath"
	ByTagName Strategy = "tag"
	ByID      Strategy = "id"
)

// Locator is a declarative element selector.
type Locator struct {
	By    Strategy
	Value string
}

func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }
func XPath(expr string) Locator   { return Locator{By: ByXPath, Value: expr} }
func Tag(name string) Locator     { return Locator{By: ByTagName, Value: name} }
func ID(id string) Locator        { return Locator{By: ByID, Value: id} }

// XPathf builds an XPath locator from a format string.
func XPathf(format string, args ...interface{}) Locator {
	return XPath(fmt.Sprintf(format, args...))
}

// CSSf builds a CSS locator from a format string.
func CSSf(format string, args ...interface{}) Locator {
	return CSS(fmt.Sprintf(format, args...))
}

func (l Locator) String() string {
	return string(l.By) + "=" + l.Value
}

// IsZero reports whether the locator is empty.
func (l Locator) IsZero() bool {
	return l.Value == ""
}

// CSSSelector converts the locator to an equivalent CSS selector when one
// exists. XPath has no general CSS equivalent.
func (l Locator) CSSSelector() (string, bool) {
	switch l.By {
	case ByCSS:
		return l.Value, true
	case ByTagName:
		return l.Value, true
	case ByID:
		return "#" + cssEscapeID(l.Value), true
	default:
		return "", false
	}
}

// Validate checks that the locator can be evaluated.
func (l Locator) Validate() error {
	if strings.TrimSpace(l.Value) == "" {
		return fmt.Errorf("%w: empty %s locator", ErrUnsupportedLocator, l.By)
	}
	switch l.By {
	case ByCSS, ByXPath, ByTagName, ByID:
		return nil
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrUnsupportedLocator, l.By)
	}
}

func cssEscapeID(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, "\\%x ", r)
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
