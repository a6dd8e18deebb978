// internal/browser/throttle.go
package browser

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle paces every command of d to perSecond, which slows a run down
// enough to watch it or to stay under a site's rate limits.
func Throttle(d Driver, perSecond float64, burst int) Driver {
	if burst <= 0 {
		burst = 1
	}
	return &throttledDriver{
		Driver:  d,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

type throttledDriver struct {
	Driver
	limiter *rate.Limiter
}

func (t *throttledDriver) Navigate(ctx context.Context, url string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.Driver.Navigate(ctx, url)
}

func (t *throttledDriver) Find(ctx context.Context, loc Locator) (Element, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	el, err := t.Driver.Find(ctx, loc)
	if err != nil {
		return nil, err
	}
	return &throttledElement{Element: el, limiter: t.limiter}, nil
}

func (t *throttledDriver) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	els, err := t.Driver.FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	return wrapThrottled(els, t.limiter), nil
}

// SwitchToFrame unwraps the element so the backend sees its own type.
func (t *throttledDriver) SwitchToFrame(ctx context.Context, frame Element) error {
	if te, ok := frame.(*throttledElement); ok {
		frame = te.Element
	}
	return t.Driver.SwitchToFrame(ctx, frame)
}

func wrapThrottled(els []Element, limiter *rate.Limiter) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &throttledElement{Element: el, limiter: limiter}
	}
	return out
}

// throttledElement paces the interactions; reads pass straight through.
type throttledElement struct {
	Element
	limiter *rate.Limiter
}

func (e *throttledElement) Click(ctx context.Context) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.Element.Click(ctx)
}

func (e *throttledElement) ClickJS(ctx context.Context) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.Element.ClickJS(ctx)
}

func (e *throttledElement) DoubleClick(ctx context.Context) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.Element.DoubleClick(ctx)
}

func (e *throttledElement) RightClick(ctx context.Context) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.Element.RightClick(ctx)
}

func (e *throttledElement) SendKeys(ctx context.Context, keys string) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	return e.Element.SendKeys(ctx, keys)
}

func (e *throttledElement) Find(ctx context.Context, loc Locator) (Element, error) {
	el, err := e.Element.Find(ctx, loc)
	if err != nil {
		return nil, err
	}
	return &throttledElement{Element: el, limiter: e.limiter}, nil
}

func (e *throttledElement) FindAll(ctx context.Context, loc Locator) ([]Element, error) {
	els, err := e.Element.FindAll(ctx, loc)
	if err != nil {
		return nil, err
	}
	return wrapThrottled(els, e.limiter), nil
}
