// internal/pages/home.go
//
// Package pages contains one page object per screen of the demo
// application. Page objects only translate intent into locator lookups;
// they keep no state besides the embedded page.Base.
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

// Card is one of the category cards on the landing page, in display order.
type Card int

const (
	CardElements Card = iota + 1
	CardForms
	CardAlertsFrameWindows
	CardWidgets
	CardInteractions
	CardBookStore
)

var cardNames = map[Card]string{
	CardElements:           "Elements",
	CardForms:              "Forms",
	CardAlertsFrameWindows: "Alerts, Frame & Windows",
	CardWidgets:            "Widgets",
	CardInteractions:       "Interactions",
	CardBookStore:          "Book Store Application",
}

func (c Card) String() string {
	if n, ok := cardNames[c]; ok {
		return n
	}
	return "unknown card"
}

var (
	homeLogo    = browser.XPath("//img[@src='/images/Toolsqa.jpg']")
	homeJoinNow = browser.XPath("//a[@href='https://www.toolsqa.com/selenium-training/']")
	homeLinks   = browser.Tag("a")
	homeCards   = browser.XPath("//div[@class = 'card mt-4 top-card']")
)

func homeCard(c Card) browser.Locator {
	return browser.XPathf("(//div[@class='card mt-4 top-card'])[%d]", int(c))
}

// HomePage is the landing page with the six category cards.
type HomePage struct {
	*page.Base
}

func NewHomePage(b *page.Base) *HomePage {
	return &HomePage{Base: b.Named("page.home")}
}

// LogoDisplayed reports whether the header logo is visible.
func (p *HomePage) LogoDisplayed(ctx context.Context) bool {
	return p.IsDisplayed(ctx, homeLogo, "logo")
}

// ClickJoinNow clicks the training banner, which opens a new tab.
func (p *HomePage) ClickJoinNow(ctx context.Context) bool {
	return p.ScrollClick(ctx, homeJoinNow, "Join Now banner")
}

// JoinNowTitle follows the Join Now banner and returns the title of the tab
// it opens. The tab is closed before returning.
func (p *HomePage) JoinNowTitle(ctx context.Context) page.Optional[string] {
	var title page.Optional[string]
	err := p.InNewWindow(ctx,
		func(ctx context.Context) error {
			if !p.ClickJoinNow(ctx) {
				return browser.NotFound(homeJoinNow)
			}
			return nil
		},
		func(ctx context.Context) error {
			title = p.Title(ctx)
			return nil
		})
	if err != nil {
		p.Log.Warn("Join Now tab not opened", zap.Error(err))
		return page.None[string]()
	}
	return title
}

// LinkCount counts every anchor on the page.
func (p *HomePage) LinkCount(ctx context.Context) int {
	return p.Count(ctx, homeLinks)
}

func (p *HomePage) CardCount(ctx context.Context) int {
	return len(p.Elements(ctx, homeCards))
}

// OpenCard navigates to a category through its card.
func (p *HomePage) OpenCard(ctx context.Context, c Card) bool {
	return p.ScrollClick(ctx, homeCard(c), c.String()+" card")
}
