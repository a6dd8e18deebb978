// internal/page/dialog.go
package page

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
)

// WaitForDialog waits up to timeout for a native dialog. A zero timeout
// uses the explicit timeout.
func (b *Base) WaitForDialog(ctx context.Context, timeout time.Duration) Optional[browser.Dialog] {
	if timeout <= 0 {
		timeout = b.Timeouts.Explicit
	}
	dlg, err := browser.WaitForDialog(ctx, b.Driver, timeout, b.Timeouts.Poll)
	if err != nil {
		b.Log.Warn("dialog did not appear", zap.Duration("timeout", timeout), zap.Error(err))
		return None[browser.Dialog]()
	}
	return Some(*dlg)
}

// AcceptDialog waits for a dialog and accepts it.
func (b *Base) AcceptDialog(ctx context.Context) bool {
	if !b.WaitForDialog(ctx, 0).OK() {
		return false
	}
	if err := b.Driver.AcceptDialog(ctx); err != nil {
		b.Log.Warn("failed to accept dialog", zap.Error(err))
		return false
	}
	return true
}

// DismissDialog waits for a dialog and dismisses it.
func (b *Base) DismissDialog(ctx context.Context) bool {
	if !b.WaitForDialog(ctx, 0).OK() {
		return false
	}
	if err := b.Driver.DismissDialog(ctx); err != nil {
		b.Log.Warn("failed to dismiss dialog", zap.Error(err))
		return false
	}
	return true
}

// AnswerPrompt waits for a prompt, types text and accepts it.
func (b *Base) AnswerPrompt(ctx context.Context, text string) bool {
	if !b.WaitForDialog(ctx, 0).OK() {
		return false
	}
	if err := b.Driver.AnswerPrompt(ctx, text); err != nil {
		b.Log.Warn("failed to answer prompt", zap.Error(err))
		return false
	}
	return true
}
