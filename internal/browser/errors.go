// internal/browser/errors.go
package browser

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("element not found")
	ErrTimeout            = errors.New("wait timed out")
	ErrClickIntercepted   = errors.New("click intercepted by another element")
	ErrNotInteractable    = errors.New("element not interactable")
	ErrDialogPending      = errors.New("a native dialog is pending")
	ErrNoDialog           = errors.New("no native dialog is pending")
	ErrUnsupportedLocator = errors.New("unsupported locator")
	ErrUnsupportedBrowser = errors.New("unsupported browser")
	ErrSessionClosed      = errors.New("browser session is closed")
	ErrNoSuchWindow       = errors.New("no such window")
)

// NotFound wraps ErrNotFound with the locator that missed.
func NotFound(loc Locator) error {
	return fmt.Errorf("%w: %s", ErrNotFound, loc)
}

// IsNotFound reports whether err means the element was absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
