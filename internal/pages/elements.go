// internal/pages/elements.go
package pages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

var (
	elementsHeader = browser.CSS(".col-12.mt-4.col-md-6")

	textBoxUserName         = browser.XPath("//input[@id='userName']")
	textBoxUserEmail        = browser.XPath("//input[@id='userEmail']")
	textBoxCurrentAddress   = browser.XPath("//textarea[@id='currentAddress']")
	textBoxPermanentAddress = browser.XPath("//textarea[@id='permanentAddress']")
	textBoxSubmit           = browser.XPath("//button[@id='submit']")
	textBoxOutName          = browser.XPath("//p[@id='name']")
	textBoxOutEmail         = browser.XPath("//p[@id='email']")
	textBoxOutCurrent       = browser.XPath("//p[@id='currentAddress']")
	textBoxOutPermanent     = browser.XPath("//p[@id='permanentAddress']")

	checkBoxHome      = browser.XPath("//span[text()='Home']")
	checkBoxExpandAll = browser.XPath("//button[@title = 'Expand all']")
	checkBoxWorkspace = browser.XPath("//label[@for='tree-node-workspace']/span[@class='rct-checkbox']")
	checkBoxSelected  = browser.CSS("#result .text-success")

	radioYes        = browser.XPath("//label[@for='yesRadio']")
	radioImpressive = browser.XPath("//label[@for='impressiveRadio']")
	radioNo         = browser.ID("noRadio")
	radioResult     = browser.XPath("//p[@class='mt-3']")

	buttonDouble     = browser.ID("doubleClickBtn")
	buttonRight      = browser.ID("rightClickBtn")
	buttonDynamic    = browser.XPath("//button[text()='Click Me']")
	buttonDoubleMsg  = browser.ID("doubleClickMessage")
	buttonRightMsg   = browser.ID("rightClickMessage")
	buttonDynamicMsg = browser.ID("dynamicClickMessage")

	linksAll     = browser.CSS("#linkWrapper a")
	linkSimple   = browser.ID("simpleLink")
	linkDynamic  = browser.ID("dynamicLink")
	linkResponse = browser.ID("linkResponse")
	linkValid    = browser.XPath("//a[normalize-space()='Click Here for Valid Link']")
	linkBroken   = browser.XPath("//a[normalize-space()='Click Here for Broken Link']")
	imageValid   = "img[src='/images/Toolsqa.jpg']"
	imageBroken  = "img[src='/images/Toolsqa_1.jpg']"
	uploadInput  = browser.ID("uploadFile")
	uploadedPath = browser.ID("uploadedFilePath")
	downloadLink = browser.ID("downloadButton")
	visibleAfter = browser.ID("visibleAfter")
)

// TextBoxForm is the data entered into, and echoed back by, the text box
// form. The JSON names follow the fixture documents.
type TextBoxForm struct {
	FullName         string `json:"fullName"`
	Email            string `json:"emailID"`
	CurrentAddress   string `json:"currentAddress"`
	PermanentAddress string `json:"permanentAddress"`
}

// APILink is one of the links on the Links page that call a backend
// endpoint instead of navigating.
type APILink string

const (
	LinkCreated      APILink = "created"
	LinkNoContent    APILink = "no-content"
	LinkMoved        APILink = "moved"
	LinkBadRequest   APILink = "bad-request"
	LinkUnauthorized APILink = "unauthorized"
	LinkForbidden    APILink = "forbidden"
	LinkNotFound     APILink = "invalid-url"
)

// LinkResponse is the status line printed after an API link is clicked.
type LinkResponse struct {
	Status int
	Text   string
}

// The demo site misspells "status" in the first half of the message.
var linkResponsePattern = regexp.MustCompile(`sta[t]?us (\d{3}) and status text (.+)$`)

// ParseLinkResponse extracts the status code and text from the message
// shown under the API links.
func ParseLinkResponse(msg string) (LinkResponse, bool) {
	m := linkResponsePattern.FindStringSubmatch(strings.TrimSpace(msg))
	if m == nil {
		return LinkResponse{}, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return LinkResponse{}, false
	}
	return LinkResponse{Status: code, Text: strings.TrimSpace(m[2])}, true
}

// ElementsPage covers every section of the Elements category.
type ElementsPage struct {
	*page.Base
}

func NewElementsPage(b *page.Base) *ElementsPage {
	return &ElementsPage{Base: b.Named("page.elements")}
}

// Header returns the placeholder text shown before a section is chosen.
func (p *ElementsPage) Header(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, elementsHeader, "elements header")
}

func (p *ElementsPage) OpenSection(ctx context.Context, s Section) bool {
	return openSection(ctx, p.Base, s)
}

// FillTextBox types every field of the text box form.
func (p *ElementsPage) FillTextBox(ctx context.Context, f TextBoxForm) bool {
	return p.Type(ctx, textBoxUserName, "user name", f.FullName) &&
		p.Type(ctx, textBoxUserEmail, "user email", f.Email) &&
		p.Type(ctx, textBoxCurrentAddress, "current address", f.CurrentAddress) &&
		p.Type(ctx, textBoxPermanentAddress, "permanent address", f.PermanentAddress)
}

func (p *ElementsPage) SubmitTextBox(ctx context.Context) bool {
	return p.ScrollClick(ctx, textBoxSubmit, "submit button")
}

// TextBoxOutput reads the echoed values with their labels stripped.
func (p *ElementsPage) TextBoxOutput(ctx context.Context) page.Optional[TextBoxForm] {
	read := func(loc browser.Locator, name, prefix string) (string, bool) {
		v, ok := p.Text(ctx, loc, name).Get()
		return strings.TrimSpace(strings.Replace(v, prefix, "", 1)), ok
	}

	var out TextBoxForm
	var ok bool
	if out.FullName, ok = read(textBoxOutName, "name output", "Name:"); !ok {
		return page.None[TextBoxForm]()
	}
	if out.Email, ok = read(textBoxOutEmail, "email output", "Email:"); !ok {
		return page.None[TextBoxForm]()
	}
	if out.CurrentAddress, ok = read(textBoxOutCurrent, "current address output", "Current Address :"); !ok {
		return page.None[TextBoxForm]()
	}
	if out.PermanentAddress, ok = read(textBoxOutPermanent, "permanent address output", "Permananet Address :"); !ok {
		return page.None[TextBoxForm]()
	}
	return page.Some(out)
}

// ToggleHome clicks the root node of the check box tree when it is shown.
func (p *ElementsPage) ToggleHome(ctx context.Context) bool {
	if !p.IsDisplayed(ctx, checkBoxHome, "home node") {
		return false
	}
	return p.Click(ctx, checkBoxHome, "home node")
}

func (p *ElementsPage) ExpandAll(ctx context.Context) bool {
	return p.Click(ctx, checkBoxExpandAll, "expand all button")
}

// SelectWorkspace ticks the workspace node. The helper falls back to a
// script click when the label overlaps the box.
func (p *ElementsPage) SelectWorkspace(ctx context.Context) bool {
	return p.ScrollClick(ctx, checkBoxWorkspace, "workspace check box")
}

// SelectedNodes lists the node names in the selection summary.
func (p *ElementsPage) SelectedNodes(ctx context.Context) []string {
	return p.Texts(ctx, checkBoxSelected)
}

func (p *ElementsPage) SelectYes(ctx context.Context) bool {
	return p.Click(ctx, radioYes, "yes radio button")
}

// SelectImpressive clicks the label from script because the styled input
// sits on top of it.
func (p *ElementsPage) SelectImpressive(ctx context.Context) bool {
	return p.ForceClick(ctx, radioImpressive, "impressive radio button")
}

func (p *ElementsPage) NoRadioEnabled(ctx context.Context) bool {
	return p.IsEnabled(ctx, radioNo, "no radio button")
}

func (p *ElementsPage) RadioResult(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, radioResult, "radio result")
}

func (p *ElementsPage) DoubleClickButton(ctx context.Context) bool {
	return p.DoubleClick(ctx, buttonDouble, "double click button")
}

func (p *ElementsPage) RightClickButton(ctx context.Context) bool {
	return p.RightClick(ctx, buttonRight, "right click button")
}

func (p *ElementsPage) DynamicClickButton(ctx context.Context) bool {
	return p.ScrollClick(ctx, buttonDynamic, "dynamic click button")
}

func (p *ElementsPage) DoubleClickMessage(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, buttonDoubleMsg, "double click message")
}

func (p *ElementsPage) RightClickMessage(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, buttonRightMsg, "right click message")
}

func (p *ElementsPage) DynamicClickMessage(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, buttonDynamicMsg, "dynamic click message")
}

func (p *ElementsPage) LinkCount(ctx context.Context) int {
	return len(p.Elements(ctx, linksAll))
}

// FollowSimpleLink opens the plain home link in its new tab and returns
// the tab's URL.
func (p *ElementsPage) FollowSimpleLink(ctx context.Context) page.Optional[string] {
	return p.followInNewTab(ctx, linkSimple, "simple link")
}

// FollowDynamicLink does the same for the link whose text changes on
// every load.
func (p *ElementsPage) FollowDynamicLink(ctx context.Context) page.Optional[string] {
	return p.followInNewTab(ctx, linkDynamic, "dynamic link")
}

func (p *ElementsPage) followInNewTab(ctx context.Context, loc browser.Locator, name string) page.Optional[string] {
	var url page.Optional[string]
	err := p.InNewWindow(ctx,
		func(ctx context.Context) error {
			if !p.ScrollClick(ctx, loc, name) {
				return browser.NotFound(loc)
			}
			return nil
		},
		func(ctx context.Context) error {
			url = awaitURLChange(ctx, p.Base, "about:blank")
			return nil
		})
	if err != nil {
		p.Log.Warn(name+" did not open a tab", zap.Error(err))
		return page.None[string]()
	}
	return url
}

// ClickAPILink clicks one of the API links and returns the response it
// reports.
func (p *ElementsPage) ClickAPILink(ctx context.Context, l APILink) page.Optional[LinkResponse] {
	loc := browser.ID(string(l))
	if !p.ScrollClick(ctx, loc, string(l)+" link") {
		return page.None[LinkResponse]()
	}

	var resp LinkResponse
	err := browser.Poll(ctx, p.Timeouts.Explicit, p.Timeouts.Poll, func(ctx context.Context) (bool, error) {
		el, err := p.Driver.Find(ctx, linkResponse)
		if err != nil {
			if browser.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		text, err := el.Text(ctx)
		if err != nil {
			return false, err
		}
		r, ok := ParseLinkResponse(text)
		resp = r
		return ok, nil
	})
	if err != nil {
		p.Log.Warn("link response not shown",
			zap.String("link", string(l)),
			zap.String("locator", linkResponse.String()),
			zap.Error(err))
		return page.None[LinkResponse]()
	}
	return page.Some(resp)
}

const imageLoadedScript = `const img = document.querySelector(arguments[0]);
return !!img && img.complete && img.naturalWidth > 0;`

func (p *ElementsPage) imageLoaded(ctx context.Context, selector string) bool {
	v, ok := p.Script(ctx, imageLoadedScript, selector).Get()
	if !ok {
		return false
	}
	loaded, _ := v.(bool)
	return loaded
}

// ValidImageDisplayed reports whether the working image rendered.
func (p *ElementsPage) ValidImageDisplayed(ctx context.Context) bool {
	return p.IsDisplayed(ctx, browser.CSS(imageValid), "valid image") && p.imageLoaded(ctx, imageValid)
}

// BrokenImageDisplayed reports whether the broken image rendered. It is
// expected to be false.
func (p *ElementsPage) BrokenImageDisplayed(ctx context.Context) bool {
	return p.IsDisplayed(ctx, browser.CSS(imageBroken), "broken image") && p.imageLoaded(ctx, imageBroken)
}

// FollowValidLink clicks the working link and returns the URL it leads to.
func (p *ElementsPage) FollowValidLink(ctx context.Context) page.Optional[string] {
	return p.followInPlace(ctx, linkValid, "valid link")
}

func (p *ElementsPage) FollowBrokenLink(ctx context.Context) page.Optional[string] {
	return p.followInPlace(ctx, linkBroken, "broken link")
}

func (p *ElementsPage) followInPlace(ctx context.Context, loc browser.Locator, name string) page.Optional[string] {
	before := p.URL(ctx).OrElse("")
	if !p.ScrollClick(ctx, loc, name) {
		return page.None[string]()
	}
	return awaitURLChange(ctx, p.Base, before)
}

// UploadFile selects a local file in the upload input.
func (p *ElementsPage) UploadFile(ctx context.Context, path string) bool {
	return p.Upload(ctx, uploadInput, "upload input", path)
}

// UploadedPath returns the path echoed by the page, e.g. C:\fakepath\x.jpeg.
func (p *ElementsPage) UploadedPath(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, uploadedPath, "uploaded file path")
}

// Download clicks the download button and waits for name to appear in the
// browser's download directory. A copy left by an earlier run is removed
// first, so only a file written after the click counts.
func (p *ElementsPage) Download(ctx context.Context, dir, name string) bool {
	target := filepath.Join(dir, name)
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.Log.Warn("stale download could not be removed", zap.String("path", target), zap.Error(err))
		return false
	}
	if !p.ScrollClick(ctx, downloadLink, "download button") {
		return false
	}
	err := browser.Poll(ctx, p.Timeouts.Explicit, p.Timeouts.Poll, func(context.Context) (bool, error) {
		info, err := os.Stat(target)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
		return info.Size() > 0, nil
	})
	if err != nil {
		p.Log.Warn("download not found", zap.String("path", target), zap.Error(err))
		return false
	}
	return true
}

// VisibleAfterDisplayed waits up to wait for the delayed button.
func (p *ElementsPage) VisibleAfterDisplayed(ctx context.Context, wait time.Duration) bool {
	return p.IsDisplayedWithin(ctx, visibleAfter, "visible after button", wait)
}
