// internal/cases/windows.go
package cases

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/pages"
	"github.com/valpere/UIProbe/internal/suite"
)

const windowsFixture = "window_handle"

func windowsCases() []suite.Case {
	c := func(name string, tags []string, fn suite.Func) suite.Case {
		return suite.Case{Module: "windows", Name: name, Fixture: windowsFixture, Tags: tags, Run: fn}
	}
	return []suite.Case{
		c("new_tab", []string{TagFunctional}, windowsNewTab),
		c("new_window", []string{TagFunctional}, windowsNewWindow),
		c("message_window", []string{TagFunctional}, windowsMessageWindow),
		c("alerts", []string{TagFunctional}, windowsAlerts),
		c("small_modal", []string{TagUI}, windowsSmallModal),
		c("large_modal", []string{TagUI}, windowsLargeModal),
		c("frames", []string{TagUI}, windowsFrames),
		c("nested_frames", []string{TagUI}, windowsNestedFrames),
	}
}

// openWindows opens the Alerts, Frame & Windows card and then section.
func openWindows(t *suite.T, section pages.Section) *pages.WindowsPage {
	t.Open("/alertsWindows")
	w := pages.NewWindowsPage(t.Page())
	t.Step("open %s", section)
	require.True(t, w.OpenSection(t.Context(), section), "menu entry %s", section)
	return w
}

// onlyWindow checks that a helper closed every window it opened.
func onlyWindow(t *suite.T) {
	handles, err := t.Page().Driver.WindowHandles(t.Context())
	t.Must(err)
	assert.Len(t, handles, 1, "extra windows left open")
}

func windowsNewTab(t *suite.T) {
	w := openWindows(t, pages.SectionBrowserWindows)
	equalText(t, expected(t, "NewTab"), w.NewTabHeading(t.Context()), "NewTab")
	onlyWindow(t)
}

func windowsNewWindow(t *suite.T) {
	w := openWindows(t, pages.SectionBrowserWindows)
	equalText(t, expected(t, "NewWindow"), w.NewWindowHeading(t.Context()), "NewWindow")
	onlyWindow(t)
}

func windowsMessageWindow(t *suite.T) {
	w := openWindows(t, pages.SectionBrowserWindows)
	equalText(t, expected(t, "NewWindowMessage"), w.NewWindowMessage(t.Context()), "NewWindowMessage")
	onlyWindow(t)
}

func windowsAlerts(t *suite.T) {
	w := openWindows(t, pages.SectionAlerts)
	ctx, data := t.Context(), t.Data()

	t.Step("simple alert")
	require.True(t, w.TriggerAlert(ctx), "alert button")
	assert.True(t, w.AcceptNextDialog(ctx, dialogWait), "alert should open")

	t.Step("delayed alert")
	require.True(t, w.TriggerTimerAlert(ctx), "timer alert button")
	assert.True(t, w.AcceptNextDialog(ctx, delayedAlertWait), "delayed alert should open")

	t.Step("confirm")
	require.True(t, w.TriggerConfirm(ctx), "confirm button")
	require.True(t, w.AcceptNextDialog(ctx, dialogWait), "confirm should open")
	equalText(t, expected(t, "ConfirmResultText"), w.ConfirmResult(ctx), "ConfirmResultText")

	t.Step("prompt")
	require.True(t, w.TriggerPrompt(ctx), "prompt button")
	require.True(t, w.AnswerNextPrompt(ctx, data.String("AlertSendText"), dialogWait), "prompt should open")
	equalText(t, expected(t, "PromptResultText"), w.PromptResult(ctx), "PromptResultText")
}

func windowsSmallModal(t *suite.T) {
	w := openWindows(t, pages.SectionModalDialogs)
	ctx := t.Context()

	equalText(t, expected(t, "NameOfThePage"), w.Heading(ctx), "NameOfThePage")
	require.True(t, w.OpenSmallModal(ctx), "open small modal")
	equalText(t, expected(t, "NameOfSmallModal"), w.SmallModalTitle(ctx), "NameOfSmallModal")
	equalText(t, expected(t, "TextOfSmallModal"), w.ModalBody(ctx), "TextOfSmallModal")
	assert.True(t, w.CloseSmallModal(ctx), "close small modal")
}

func windowsLargeModal(t *suite.T) {
	w := openWindows(t, pages.SectionModalDialogs)
	ctx := t.Context()

	require.True(t, w.OpenLargeModal(ctx), "open large modal")
	equalText(t, expected(t, "NameOfLargeModal"), w.LargeModalTitle(ctx), "NameOfLargeModal")
	containsText(t, w.LargeModalText(ctx), expected(t, "TextOfLargeModal"), "large modal text")
	assert.True(t, w.CloseLargeModal(ctx), "close large modal")
}

func windowsFrames(t *suite.T) {
	w := openWindows(t, pages.SectionFrames)
	ctx := t.Context()

	equalText(t, expected(t, "IFrameText"), w.FrameHeading(ctx), "IFrameText")
	equalText(t, expected(t, "FramesHeader"), w.Heading(ctx), "should be back in the page")
}

func windowsNestedFrames(t *suite.T) {
	w := openWindows(t, pages.SectionNestedFrames)
	ctx := t.Context()

	equalText(t, expected(t, "NestedParentText"), w.NestedParentText(ctx), "NestedParentText")
	equalText(t, expected(t, "NestedChildText"), w.NestedChildText(ctx), "NestedChildText")
	equalText(t, expected(t, "NestedFrameHeader"), w.Heading(ctx), "should be back in the page")
}
