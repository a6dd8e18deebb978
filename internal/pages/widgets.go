// internal/pages/widgets.go
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

var (
	colorContainer = browser.CSS(".auto-complete__value-container--is-multi")
	colorInput     = browser.CSS(".auto-complete__value-container--is-multi input")
	colorMenu      = browser.CSS(".auto-complete__menu")
	colorChips     = browser.CSS(".auto-complete__multi-value")
)

func accordionHeading(n int) browser.Locator {
	return browser.CSSf("#section%dHeading", n)
}

func accordionContent(n int) browser.Locator {
	return browser.CSSf("#section%dContent p", n)
}

// WidgetsPage covers the accordion and auto complete widgets.
type WidgetsPage struct {
	*page.Base
}

func NewWidgetsPage(b *page.Base) *WidgetsPage {
	return &WidgetsPage{Base: b.Named("page.widgets")}
}

// OpenSection scrolls the menu until the entry is shown and clicks it.
func (p *WidgetsPage) OpenSection(ctx context.Context, s Section) bool {
	el, ok := p.ScrollUntilVisible(ctx, menuItem(s), string(s)+" menu item").Get()
	if !ok {
		return false
	}
	if err := el.Click(ctx); err != nil {
		return p.ScrollClick(ctx, menuItem(s), string(s)+" menu item")
	}
	return true
}

// ToggleAccordion opens or closes section n (1 to 3).
func (p *WidgetsPage) ToggleAccordion(ctx context.Context, n int) bool {
	loc := accordionHeading(n)
	if !p.ScrollUntilVisible(ctx, loc, "accordion heading").OK() {
		return false
	}
	return p.ScrollClick(ctx, loc, "accordion heading")
}

// AccordionText returns the content of section n once it is shown.
func (p *WidgetsPage) AccordionText(ctx context.Context, n int) page.Optional[string] {
	loc := accordionContent(n)
	el, ok := p.ScrollUntilVisible(ctx, loc, "accordion content").Get()
	if !ok {
		return page.None[string]()
	}
	text, err := el.Text(ctx)
	if err != nil {
		p.Log.Warn("accordion content not readable", zap.String("locator", loc.String()), zap.Error(err))
		return page.None[string]()
	}
	return page.Some(text)
}

// PickColors types each color into the multi-select and confirms the
// first suggestion with Enter.
func (p *WidgetsPage) PickColors(ctx context.Context, colors []string) bool {
	if !p.ScrollUntilVisible(ctx, colorContainer, "color input").OK() {
		return false
	}
	for _, c := range colors {
		if !p.Click(ctx, colorInput, "color input") ||
			!p.Fill(ctx, colorInput, "color input", c) {
			return false
		}
		if !p.IsDisplayedWithin(ctx, colorMenu, "color suggestions", p.Timeouts.Explicit) {
			return false
		}
		if !p.Type(ctx, colorInput, "color input", browser.KeyEnter) {
			return false
		}
	}
	return true
}

// SelectedColors returns the visible chips of the multi-select.
func (p *WidgetsPage) SelectedColors(ctx context.Context) []string {
	return p.Texts(ctx, colorChips)
}
