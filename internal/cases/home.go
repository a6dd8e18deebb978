// internal/cases/home.go
package cases

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/pages"
	"github.com/valpere/UIProbe/internal/suite"
)

const homeFixture = "home_page"

func homeCases() []suite.Case {
	return []suite.Case{
		{Module: "home", Name: "title_and_url", Fixture: homeFixture, Tags: []string{TagSmoke}, Run: homeTitleAndURL},
		{Module: "home", Name: "logo", Fixture: homeFixture, Tags: []string{TagSmoke, TagUI}, Run: homeLogo},
		{Module: "home", Name: "join_now", Fixture: homeFixture, Tags: []string{TagFunctional}, Run: homeJoinNow},
		{Module: "home", Name: "link_count", Fixture: homeFixture, Tags: []string{TagUI}, Run: homeLinkCount},
		{Module: "home", Name: "card_count", Fixture: homeFixture, Tags: []string{TagUI}, Run: homeCardCount},
		{Module: "home", Name: "open_cards", Tags: []string{TagFunctional}, Run: homeOpenCards},
	}
}

func openHome(t *suite.T) *pages.HomePage {
	t.Open("/")
	return pages.NewHomePage(t.Page())
}

func homeTitleAndURL(t *suite.T) {
	home := openHome(t)
	ctx := t.Context()

	equalText(t, expected(t, "pageTitle"), home.Title(ctx), "page title")
	equalText(t, expected(t, "url"), home.URL(ctx), "page URL")
}

func homeLogo(t *suite.T) {
	home := openHome(t)
	assert.True(t, home.LogoDisplayed(t.Context()), "logo should be displayed")
}

func homeJoinNow(t *suite.T) {
	home := openHome(t)
	t.Step("open Join Now in a new tab")
	equalText(t, expected(t, "pageTitleJoinNow"), home.JoinNowTitle(t.Context()), "pageTitleJoinNow")
}

func homeLinkCount(t *suite.T) {
	home := openHome(t)
	assert.Equal(t, t.Data().Int("totalLinks"), home.LinkCount(t.Context()))
}

func homeCardCount(t *suite.T) {
	home := openHome(t)
	assert.Equal(t, t.Data().Int("totalCards"), home.CardCount(t.Context()))
}

var cardPaths = []struct {
	card pages.Card
	path string
}{
	{pages.CardElements, "/elements"},
	{pages.CardForms, "/forms"},
	{pages.CardAlertsFrameWindows, "/alertsWindows"},
	{pages.CardWidgets, "/widgets"},
	{pages.CardInteractions, "/interaction"},
	{pages.CardBookStore, "/books"},
}

func homeOpenCards(t *suite.T) {
	ctx := t.Context()
	for _, cp := range cardPaths {
		home := openHome(t)
		t.Step("open card %s", cp.card)
		require.True(t, home.OpenCard(ctx, cp.card), "card %s", cp.card)
		equalText(t, t.URL(cp.path), home.URL(ctx), "URL after card "+string(cp.card))
	}
}
