// internal/pages/windows.go
package pages

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

var (
	windowTabButton     = browser.XPath("//button[@id='tabButton']")
	windowWindowButton  = browser.XPath("//button[@id='windowButton']")
	windowMessageButton = browser.XPath("//button[@id='messageWindowButton']")
	windowSampleHeading = browser.ID("sampleHeading")
	windowBody          = browser.Tag("body")

	alertButton      = browser.XPath("//button[@id='alertButton']")
	alertTimerButton = browser.XPath("//button[@id='timerAlertButton']")
	alertConfirm     = browser.XPath("//button[@id='confirmButton']")
	alertConfirmOut  = browser.XPath("//span[@id='confirmResult']")
	alertPrompt      = browser.XPath("//button[@id='promtButton']")
	alertPromptOut   = browser.XPath("//span[@id='promptResult']")

	modalSmallButton = browser.XPath("//button[@id='showSmallModal']")
	modalSmallTitle  = browser.XPath("//div[@id='example-modal-sizes-title-sm']")
	modalSmallClose  = browser.XPath("//button[@id='closeSmallModal']")
	modalLargeButton = browser.XPath("//button[@id='showLargeModal']")
	modalLargeTitle  = browser.XPath("//div[@id='example-modal-sizes-title-lg']")
	modalLargeClose  = browser.XPath("//button[@id='closeLargeModal']")
	modalBody        = browser.CSS(".modal-body")
	modalLargeText   = browser.CSS(".modal-body p")
	pageHeading      = browser.CSS("h1.text-center")

	// Frame content is addressed with CSS so that every backend can
	// evaluate it inside the frame document.
	frameOne       = browser.CSS("#frame1")
	frameHeading   = browser.CSS("#sampleHeading")
	frameBody      = browser.CSS("body")
	nestedChild    = browser.CSS("iframe[srcdoc*='Child Iframe']")
	nestedChildTxt = browser.CSS("p")
)

// WindowsPage covers the Alerts, Frame & Windows category.
type WindowsPage struct {
	*page.Base
}

func NewWindowsPage(b *page.Base) *WindowsPage {
	return &WindowsPage{Base: b.Named("page.windows")}
}

func (p *WindowsPage) OpenSection(ctx context.Context, s Section) bool {
	return openSection(ctx, p.Base, s)
}

// readNewWindow clicks trigger and reads loc in the window it opens.
func (p *WindowsPage) readNewWindow(ctx context.Context, trigger, loc browser.Locator, name string) page.Optional[string] {
	var text page.Optional[string]
	err := p.InNewWindow(ctx,
		func(ctx context.Context) error {
			if !p.ScrollClick(ctx, trigger, name+" button") {
				return browser.NotFound(trigger)
			}
			return nil
		},
		func(ctx context.Context) error {
			text = p.Text(ctx, loc, name+" content")
			return nil
		})
	if err != nil {
		p.Log.Warn(name+" not opened", zap.Error(err))
		return page.None[string]()
	}
	return text
}

// NewTabHeading opens the sample page in a tab and returns its heading.
func (p *WindowsPage) NewTabHeading(ctx context.Context) page.Optional[string] {
	return p.readNewWindow(ctx, windowTabButton, windowSampleHeading, "new tab")
}

func (p *WindowsPage) NewWindowHeading(ctx context.Context) page.Optional[string] {
	return p.readNewWindow(ctx, windowWindowButton, windowSampleHeading, "new window")
}

// NewWindowMessage returns the body text of the plain message window.
func (p *WindowsPage) NewWindowMessage(ctx context.Context) page.Optional[string] {
	return p.readNewWindow(ctx, windowMessageButton, windowBody, "message window")
}

func (p *WindowsPage) TriggerAlert(ctx context.Context) bool {
	return p.ScrollClick(ctx, alertButton, "alert button")
}

// TriggerTimerAlert clicks the button whose alert opens after five seconds.
func (p *WindowsPage) TriggerTimerAlert(ctx context.Context) bool {
	return p.ScrollClick(ctx, alertTimerButton, "timer alert button")
}

func (p *WindowsPage) TriggerConfirm(ctx context.Context) bool {
	return p.ScrollClick(ctx, alertConfirm, "confirm button")
}

func (p *WindowsPage) TriggerPrompt(ctx context.Context) bool {
	return p.ScrollClick(ctx, alertPrompt, "prompt button")
}

func (p *WindowsPage) ConfirmResult(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, alertConfirmOut, "confirm result")
}

func (p *WindowsPage) PromptResult(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, alertPromptOut, "prompt result")
}

// AcceptNextDialog waits up to timeout for a dialog and accepts it.
func (p *WindowsPage) AcceptNextDialog(ctx context.Context, timeout time.Duration) bool {
	if !p.WaitForDialog(ctx, timeout).OK() {
		return false
	}
	return p.AcceptDialog(ctx)
}

// AnswerNextPrompt waits for a prompt and submits text.
func (p *WindowsPage) AnswerNextPrompt(ctx context.Context, text string, timeout time.Duration) bool {
	dlg, ok := p.WaitForDialog(ctx, timeout).Get()
	if !ok {
		return false
	}
	if dlg.Type != browser.DialogPrompt {
		p.Log.Warn("expected a prompt", zap.String("type", string(dlg.Type)))
	}
	return p.AnswerPrompt(ctx, text)
}

func (p *WindowsPage) OpenSmallModal(ctx context.Context) bool {
	return p.ScrollClick(ctx, modalSmallButton, "small modal button")
}

func (p *WindowsPage) SmallModalTitle(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, modalSmallTitle, "small modal title")
}

func (p *WindowsPage) CloseSmallModal(ctx context.Context) bool {
	return p.Click(ctx, modalSmallClose, "small modal close button")
}

func (p *WindowsPage) OpenLargeModal(ctx context.Context) bool {
	return p.ScrollClick(ctx, modalLargeButton, "large modal button")
}

func (p *WindowsPage) LargeModalTitle(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, modalLargeTitle, "large modal title")
}

func (p *WindowsPage) LargeModalText(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, modalLargeText, "large modal text")
}

func (p *WindowsPage) CloseLargeModal(ctx context.Context) bool {
	return p.Click(ctx, modalLargeClose, "large modal close button")
}

// ModalBody returns the body of whichever modal is open.
func (p *WindowsPage) ModalBody(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, modalBody, "modal body")
}

// Heading returns the main heading of the current section.
func (p *WindowsPage) Heading(ctx context.Context) page.Optional[string] {
	return p.Text(ctx, pageHeading, "page heading")
}

// readFrame runs a text lookup inside the given frame path.
func (p *WindowsPage) readFrame(ctx context.Context, loc browser.Locator, name string, frames ...browser.Locator) page.Optional[string] {
	var text page.Optional[string]
	err := p.InFrame(ctx, func(ctx context.Context) error {
		text = p.Text(ctx, loc, name)
		if !text.OK() {
			return fmt.Errorf("%s not readable", name)
		}
		return nil
	}, frames...)
	if err != nil {
		p.Log.Warn("frame lookup failed", zap.String("element", name), zap.Error(err))
		return page.None[string]()
	}
	return text
}

// FrameHeading returns the heading inside the first frame on the Frames
// page.
func (p *WindowsPage) FrameHeading(ctx context.Context) page.Optional[string] {
	return p.readFrame(ctx, frameHeading, "frame heading", frameOne)
}

// NestedParentText returns the parent frame's own text.
func (p *WindowsPage) NestedParentText(ctx context.Context) page.Optional[string] {
	return p.readFrame(ctx, frameBody, "parent frame body", frameOne)
}

// NestedChildText returns the text of the frame inside the parent frame.
func (p *WindowsPage) NestedChildText(ctx context.Context) page.Optional[string] {
	return p.readFrame(ctx, nestedChildTxt, "child frame text", frameOne, nestedChild)
}
