// internal/cases/elements.go
package cases

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/pages"
	"github.com/valpere/UIProbe/internal/suite"
)

const elementsFixture = "elements_page"

func elementsCases() []suite.Case {
	c := func(name string, tags []string, fn suite.Func) suite.Case {
		return suite.Case{Module: "elements", Name: name, Fixture: elementsFixture, Tags: tags, Run: fn}
	}
	return []suite.Case{
		c("header", []string{TagSmoke}, elementsHeader),
		c("text_box", []string{TagFunctional}, elementsTextBox),
		c("check_box", []string{TagFunctional}, elementsCheckBox),
		c("radio_button", []string{TagFunctional}, elementsRadioButton),
		c("buttons", []string{TagFunctional}, elementsButtons),
		c("links", []string{TagFunctional}, elementsLinks),
		c("api_links", []string{TagFunctional}, elementsAPILinks),
		c("broken_links", []string{TagUI}, elementsBrokenLinks),
		c("upload", []string{TagFunctional}, elementsUpload),
		c("download", []string{TagFunctional}, elementsDownload),
		c("dynamic_properties", []string{TagUI}, elementsDynamicProperties),
	}
}

// openElements opens the Elements card and then section, unless section
// is empty.
func openElements(t *suite.T, section pages.Section) *pages.ElementsPage {
	t.Open("/elements")
	el := pages.NewElementsPage(t.Page())
	if section != "" {
		t.Step("open %s", section)
		require.True(t, el.OpenSection(t.Context(), section), "menu entry %s", section)
	}
	return el
}

func elementsHeader(t *suite.T) {
	el := openElements(t, "")
	equalText(t, expected(t, "elementsPageText"), el.Header(t.Context()), "elementsPageText")
}

func elementsTextBox(t *suite.T) {
	el := openElements(t, pages.SectionTextBox)
	ctx := t.Context()

	var form pages.TextBoxForm
	t.Must(t.Data().Decode("textbox", &form))

	t.Step("fill and submit the form")
	require.True(t, el.FillTextBox(ctx, form), "fill text box")
	require.True(t, el.SubmitTextBox(ctx), "submit text box")

	got, ok := el.TextBoxOutput(ctx).Get()
	require.True(t, ok, "output should be shown after submit")
	assert.Equal(t, form.FullName, got.FullName, "name")
	assert.Equal(t, form.Email, got.Email, "email")
	assert.Equal(t, form.CurrentAddress, got.CurrentAddress, "current address")
	assert.Equal(t, form.PermanentAddress, got.PermanentAddress, "permanent address")
}

func elementsCheckBox(t *suite.T) {
	el := openElements(t, pages.SectionCheckBox)
	ctx := t.Context()

	t.Step("expand the tree and select workspace")
	require.True(t, el.ExpandAll(ctx), "expand all")
	require.True(t, el.SelectWorkspace(ctx), "select workspace")
	assert.Equal(t, t.Data().Strings("checkBox.workspaceSelected"), el.SelectedNodes(ctx))
}

func elementsRadioButton(t *suite.T) {
	el := openElements(t, pages.SectionRadioButton)
	ctx := t.Context()

	require.True(t, el.SelectYes(ctx), "select yes")
	equalText(t, expected(t, "radioButton.selectedYesText"), el.RadioResult(ctx), "radioButton.selectedYesText")

	require.True(t, el.SelectImpressive(ctx), "select impressive")
	equalText(t, expected(t, "radioButton.selectedImpressiveText"), el.RadioResult(ctx), "radioButton.selectedImpressiveText")

	assert.False(t, el.NoRadioEnabled(ctx), "the no option should be disabled")
}

func elementsButtons(t *suite.T) {
	el := openElements(t, pages.SectionButtons)
	ctx := t.Context()

	require.True(t, el.DoubleClickButton(ctx), "double click")
	equalText(t, expected(t, "buttonClicked.doubleClickMessage"), el.DoubleClickMessage(ctx), "buttonClicked.doubleClickMessage")

	require.True(t, el.RightClickButton(ctx), "right click")
	equalText(t, expected(t, "buttonClicked.rightClickMessage"), el.RightClickMessage(ctx), "buttonClicked.rightClickMessage")

	require.True(t, el.DynamicClickButton(ctx), "dynamic click")
	equalText(t, expected(t, "buttonClicked.dynamicClickMessage"), el.DynamicClickMessage(ctx), "buttonClicked.dynamicClickMessage")
}

func elementsLinks(t *suite.T) {
	el := openElements(t, pages.SectionLinks)
	ctx, data := t.Context(), t.Data()

	assert.Equal(t, data.Int("linksTest.totalCountOfLinks"), el.LinkCount(ctx), "link count")
	t.Step("follow the simple link")
	equalText(t, expected(t, "linksTest.simpleLinkURL"), el.FollowSimpleLink(ctx), "linksTest.simpleLinkURL")
	t.Step("follow the dynamic link")
	equalText(t, expected(t, "linksTest.dynamicLinkURL"), el.FollowDynamicLink(ctx), "linksTest.dynamicLinkURL")
}

var apiLinks = []struct {
	link pages.APILink
	key  string
}{
	{pages.LinkCreated, "Created"},
	{pages.LinkNoContent, "NoContent"},
	{pages.LinkMoved, "Moved"},
	{pages.LinkBadRequest, "BadRequest"},
	{pages.LinkUnauthorized, "Unauthorized"},
	{pages.LinkForbidden, "Forbidden"},
	{pages.LinkNotFound, "NotFound"},
}

func elementsAPILinks(t *suite.T) {
	el := openElements(t, pages.SectionLinks)
	ctx, data := t.Context(), t.Data()

	for _, l := range apiLinks {
		t.Step("click %s", l.link)
		resp, ok := el.ClickAPILink(ctx, l.link).Get()
		if !assert.True(t, ok, "%s: no response", l.link) {
			continue
		}
		assert.Equal(t, data.Int("linksTest."+l.key), resp.Status, "%s status", l.link)
		assert.NotEmpty(t, resp.Text, "%s status text", l.link)
	}
}

func elementsBrokenLinks(t *suite.T) {
	el := openElements(t, pages.SectionBrokenLinks)
	ctx := t.Context()

	assert.True(t, el.ValidImageDisplayed(ctx), "valid image should load")
	assert.False(t, el.BrokenImageDisplayed(ctx), "broken image should not load")

	t.Step("follow the valid link")
	equalText(t, expected(t, "linksTest.ValidURL"), el.FollowValidLink(ctx), "linksTest.ValidURL")

	t.Open("/broken")
	t.Step("follow the broken link")
	equalText(t, expected(t, "linksTest.BrokenLink"), el.FollowBrokenLink(ctx), "linksTest.BrokenLink")
}

func elementsUpload(t *suite.T) {
	el := openElements(t, pages.SectionUploadAndDownload)
	ctx, data := t.Context(), t.Data()

	file := t.DataPath(data.String("UploadAndDownload.uploadFilePath"))
	require.True(t, el.UploadFile(ctx, file), "upload %s", file)
	equalText(t, expected(t, "UploadAndDownload.UploadedMessage"), el.UploadedPath(ctx), "UploadAndDownload.UploadedMessage")
}

func elementsDownload(t *suite.T) {
	dir := t.DownloadDir()
	el := openElements(t, pages.SectionUploadAndDownload)

	name := t.Data().String("UploadAndDownload.downloadFilePath")
	assert.True(t, el.Download(t.Context(), dir, name), "%s should appear in %s", name, dir)
}

func elementsDynamicProperties(t *suite.T) {
	el := openElements(t, pages.SectionDynamicProperties)
	assert.True(t, el.VisibleAfterDisplayed(t.Context(), delayedButtonWait), "delayed button should become visible")
}
