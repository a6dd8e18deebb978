// internal/browser/wait.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultPollInterval is used when a wait is given a non-positive interval.
const DefaultPollInterval = 250 * time.Millisecond

// Finder is anything that can locate a single element: a Driver or an Element.
type Finder interface {
	Find(ctx context.Context, loc Locator) (Element, error)
}

// Condition is evaluated by Poll until it reports true.
type Condition func(ctx context.Context) (bool, error)

// Poll evaluates cond until it returns true, the timeout expires or ctx is
// done. The condition runs at least once. A pending dialog or closed session
// aborts the wait immediately.
func Poll(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)

	var lastErr error
	for {
		ok, err := cond(ctx)
		if ok {
			return nil
		}
		if err != nil {
			if errors.Is(err, ErrDialogPending) || errors.Is(err, ErrSessionClosed) {
				return err
			}
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			if lastErr != nil {
				return fmt.Errorf("%w after %s: %v", ErrTimeout, timeout, lastErr)
			}
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		sleep := interval
		if remaining < sleep {
			sleep = remaining
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// WaitPresent waits for loc to exist under f.
func WaitPresent(ctx context.Context, f Finder, loc Locator, timeout, interval time.Duration) (Element, error) {
	var found Element
	err := Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		el, err := f.Find(ctx, loc)
		if err != nil {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s: %w", loc, err)
	}
	return found, nil
}

// WaitVisible waits for loc to exist and be displayed.
func WaitVisible(ctx context.Context, f Finder, loc Locator, timeout, interval time.Duration) (Element, error) {
	var found Element
	err := Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		el, err := f.Find(ctx, loc)
		if err != nil {
			return false, err
		}
		shown, err := el.IsDisplayed(ctx)
		if err != nil || !shown {
			return false, err
		}
		found = el
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %s to be visible: %w", loc, err)
	}
	return found, nil
}

// WaitClickable waits for el to be displayed and enabled.
func WaitClickable(ctx context.Context, el Element, timeout, interval time.Duration) error {
	return Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		return clickable(ctx, el)
	})
}

func clickable(ctx context.Context, el Element) (bool, error) {
	shown, err := el.IsDisplayed(ctx)
	if err != nil || !shown {
		return false, err
	}
	return el.IsEnabled(ctx)
}

// WaitForDialog waits for a native dialog to open on d.
func WaitForDialog(ctx context.Context, d Driver, timeout, interval time.Duration) (*Dialog, error) {
	var dlg *Dialog
	err := Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		got, err := d.Dialog(ctx)
		if errors.Is(err, ErrNoDialog) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		dlg = got
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for dialog: %w", err)
	}
	return dlg, nil
}

// WaitForWindowCount waits until d has at least n window handles and returns them.
func WaitForWindowCount(ctx context.Context, d Driver, n int, timeout, interval time.Duration) ([]string, error) {
	var handles []string
	err := Poll(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		hs, err := d.WindowHandles(ctx)
		if err != nil {
			return false, err
		}
		handles = hs
		return len(hs) >= n, nil
	})
	if err != nil {
		return handles, fmt.Errorf("waiting for %d windows: %w", n, err)
	}
	return handles, nil
}
