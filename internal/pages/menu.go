// internal/pages/menu.go
package pages

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

// Section is an entry of the left-hand navigation menu.
type Section string

const (
	SectionTextBox           Section = "Text Box"
	SectionCheckBox          Section = "Check Box"
	SectionRadioButton       Section = "Radio Button"
	SectionWebTables         Section = "Web Tables"
	SectionButtons           Section = "Buttons"
	SectionLinks             Section = "Links"
	SectionBrokenLinks       Section = "Broken Links - Images"
	SectionUploadAndDownload Section = "Upload and Download"
	SectionDynamicProperties Section = "Dynamic Properties"
	SectionPracticeForm      Section = "Practice Form"
	SectionBrowserWindows    Section = "Browser Windows"
	SectionAlerts            Section = "Alerts"
	SectionFrames            Section = "Frames"
	SectionNestedFrames      Section = "Nested Frames"
	SectionModalDialogs      Section = "Modal Dialogs"
	SectionAccordian         Section = "Accordian"
	SectionAutoComplete      Section = "Auto Complete"
)

func menuItem(s Section) browser.Locator {
	return browser.XPathf("//span[normalize-space()='%s']", string(s))
}

// openSection clicks a menu entry, scrolling the menu as needed.
func openSection(ctx context.Context, b *page.Base, s Section) bool {
	return b.ScrollClick(ctx, menuItem(s), string(s)+" menu item")
}

// awaitURLChange polls until the current URL differs from before and
// returns it.
func awaitURLChange(ctx context.Context, b *page.Base, before string) page.Optional[string] {
	var current string
	err := browser.Poll(ctx, b.Timeouts.Explicit, b.Timeouts.Poll, func(ctx context.Context) (bool, error) {
		u, err := b.Driver.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		current = u
		return strings.TrimSuffix(u, "/") != strings.TrimSuffix(before, "/"), nil
	})
	if err != nil {
		b.Log.Warn("navigation did not happen", zap.String("from", before), zap.Error(err))
		return page.None[string]()
	}
	return page.Some(current)
}
