// internal/page/click.go
package page

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
)

// ClickResult describes what the click helper did.
type ClickResult struct {
	Clicked bool
	// Attempts is the number of times the element was located.
	Attempts int
	// Forced is set when the native click was intercepted and a script
	// click was used instead.
	Forced bool
}

// Clicker clicks elements that may be off screen, still rendering or
// covered by overlays such as ads.
type Clicker struct {
	Driver   browser.Driver
	Log      *zap.Logger
	Attempts int
	Timeout  time.Duration
	Interval time.Duration
	Observe  func(ClickResult)
}

type clickState int

const (
	stateLocate clickState = iota
	stateScroll
	stateAwaitClickable
	stateClick
	stateDone
)

func (s clickState) String() string {
	switch s {
	case stateLocate:
		return "locate"
	case stateScroll:
		return "scroll"
	case stateAwaitClickable:
		return "await_clickable"
	case stateClick:
		return "click"
	default:
		return "done"
	}
}

// fatal errors end the loop at once; retrying cannot help.
func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, browser.ErrDialogPending) ||
		errors.Is(err, browser.ErrSessionClosed) ||
		errors.Is(err, browser.ErrUnsupportedLocator)
}

// Click makes at most c.Attempts attempts to click loc. It never fails
// loudly: exhaustion is logged and reported through the result.
func (c *Clicker) Click(ctx context.Context, loc browser.Locator) ClickResult {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	attempts := c.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var (
		res     ClickResult
		el      browser.Element
		lastErr error
		state   = stateLocate
	)
	fail := func(err error) {
		lastErr = err
		log.Debug("click attempt failed",
			zap.String("locator", loc.String()),
			zap.Int("attempt", res.Attempts),
			zap.Stringer("state", state),
			zap.Error(err))
		if fatal(ctx, err) {
			state = stateDone
			return
		}
		state = stateLocate
	}

	for state != stateDone {
		switch state {
		case stateLocate:
			if res.Attempts >= attempts {
				state = stateDone
				continue
			}
			res.Attempts++
			found, err := browser.WaitPresent(ctx, c.Driver, loc, c.Timeout, c.Interval)
			if err != nil {
				fail(err)
				continue
			}
			el = found
			state = stateScroll

		case stateScroll:
			if err := el.ScrollIntoView(ctx); err != nil {
				fail(err)
				continue
			}
			state = stateAwaitClickable

		case stateAwaitClickable:
			if err := browser.WaitClickable(ctx, el, c.Timeout, c.Interval); err != nil {
				fail(err)
				continue
			}
			state = stateClick

		case stateClick:
			err := el.Click(ctx)
			if err == nil {
				res.Clicked = true
				state = stateDone
				continue
			}
			if errors.Is(err, browser.ErrClickIntercepted) {
				log.Debug("click intercepted, clicking from script", zap.String("locator", loc.String()))
				jsErr := el.ClickJS(ctx)
				if jsErr == nil {
					res.Clicked = true
					res.Forced = true
					state = stateDone
					continue
				}
				err = jsErr
			}
			fail(err)
		}
	}

	if !res.Clicked {
		log.Warn("element could not be clicked",
			zap.String("locator", loc.String()),
			zap.Int("attempts", res.Attempts),
			zap.Error(lastErr))
	}
	if c.Observe != nil {
		c.Observe(res)
	}
	return res
}
