// internal/page/context.go
package page

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
)

// InFrame enters each frame in order, runs fn and returns the session to
// the top-level document. The exit is deferred before any frame is
// entered, so it also runs when entry fails or fn panics.
func (b *Base) InFrame(ctx context.Context, fn func(ctx context.Context) error, frames ...browser.Locator) error {
	defer func() {
		if err := b.Driver.SwitchToDefaultContent(context.WithoutCancel(ctx)); err != nil {
			b.Log.Warn("failed to leave frame", zap.Error(err))
		}
	}()

	for _, loc := range frames {
		el, err := b.find(ctx, loc)
		if err != nil {
			return fmt.Errorf("entering frame %s: %w", loc, err)
		}
		if err := b.Driver.SwitchToFrame(ctx, el); err != nil {
			return fmt.Errorf("entering frame %s: %w", loc, err)
		}
	}
	return fn(ctx)
}

// InNewWindow runs trigger, switches to the window it opened and runs fn
// there. The new window is closed and the original one restored on every
// path out.
func (b *Base) InNewWindow(ctx context.Context, trigger, fn func(ctx context.Context) error) error {
	d := b.Driver
	original, err := d.CurrentWindow(ctx)
	if err != nil {
		return fmt.Errorf("reading current window: %w", err)
	}
	before, err := d.WindowHandles(ctx)
	if err != nil {
		return fmt.Errorf("listing windows: %w", err)
	}
	if err := trigger(ctx); err != nil {
		return err
	}

	handles, err := browser.WaitForWindowCount(ctx, d, len(before)+1, b.Timeouts.Explicit, b.Timeouts.Poll)
	if err != nil {
		return err
	}
	opened := newHandle(before, handles)
	if opened == "" {
		return fmt.Errorf("%w: no new window handle", browser.ErrNoSuchWindow)
	}

	defer func() {
		exit := context.WithoutCancel(ctx)
		if err := d.SwitchToWindow(exit, opened); err == nil {
			if err := d.CloseWindow(exit); err != nil {
				b.Log.Warn("failed to close window", zap.String("window", opened), zap.Error(err))
			}
		}
		if err := d.SwitchToWindow(exit, original); err != nil {
			b.Log.Warn("failed to restore window", zap.String("window", original), zap.Error(err))
		}
	}()

	if err := d.SwitchToWindow(ctx, opened); err != nil {
		return err
	}
	return fn(ctx)
}

func newHandle(before, after []string) string {
	seen := make(map[string]bool, len(before))
	for _, h := range before {
		seen[h] = true
	}
	for _, h := range after {
		if !seen[h] {
			return h
		}
	}
	return ""
}
