// internal/cases/widgets.go
package cases

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/pages"
	"github.com/valpere/UIProbe/internal/suite"
)

const widgetsFixture = "Widgets_module"

func widgetsCases() []suite.Case {
	return []suite.Case{
		{Module: "widgets", Name: "accordion", Fixture: widgetsFixture, Tags: []string{TagUI}, Run: widgetsAccordion},
		{Module: "widgets", Name: "auto_complete", Fixture: widgetsFixture, Tags: []string{TagFunctional}, Run: widgetsAutoComplete},
	}
}

func openWidgets(t *suite.T, section pages.Section) *pages.WidgetsPage {
	t.Open("/widgets")
	w := pages.NewWidgetsPage(t.Page())
	t.Step("open %s", section)
	require.True(t, w.OpenSection(t.Context(), section), "menu entry %s", section)
	return w
}

var accordionKeys = []string{"TextOfAccordianFirst", "TextOfAccordianSecond", "TextOfAccordianThird"}

func widgetsAccordion(t *suite.T) {
	w := openWidgets(t, pages.SectionAccordian)
	ctx := t.Context()

	for i, key := range accordionKeys {
		n := i + 1
		// The first section starts expanded.
		if n > 1 {
			t.Step("expand section %d", n)
			if !assert.True(t, w.ToggleAccordion(ctx, n), "toggle section %d", n) {
				continue
			}
		}
		containsText(t, w.AccordionText(ctx, n), expected(t, "TextOfAccordian."+key), fmt.Sprintf("accordion section %d", n))
	}
}

func widgetsAutoComplete(t *suite.T) {
	w := openWidgets(t, pages.SectionAutoComplete)
	ctx := t.Context()

	colors := t.Data().Strings("MultiColor")
	require.NotEmpty(t, colors, "fixture lists no colors")
	t.Step("pick %v", colors)
	require.True(t, w.PickColors(ctx, colors), "pick colors")
	assert.Equal(t, colors, w.SelectedColors(ctx))
}
