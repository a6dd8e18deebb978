// internal/pages/pages_test.go
package pages

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/demosite"
	"github.com/valpere/UIProbe/internal/fixture"
	"github.com/valpere/UIProbe/internal/page"
)

func fastTimeouts() page.Timeouts {
	return page.Timeouts{
		Implicit:      20 * time.Millisecond,
		Explicit:      50 * time.Millisecond,
		Poll:          2 * time.Millisecond,
		ClickAttempts: 3,
		MaxScrolls:    3,
	}
}

var site = demosite.New(demosite.DefaultBaseURL,
	demosite.WithTimerAlertDelay(20*time.Millisecond),
	demosite.WithRevealAfter(2))

// openPage starts a session on path and returns a Base bound to it.
func openPage(t *testing.T, path string) (*page.Base, *demosite.Session, *observer.ObservedLogs) {
	t.Helper()
	sess := site.NewSession()
	core, logs := observer.New(zapcore.DebugLevel)
	b := page.New(sess.Driver, zap.New(core), fastTimeouts())
	if !b.Open(context.Background(), site.URL(path)) {
		t.Fatalf("could not open %s", path)
	}
	t.Cleanup(func() { _ = sess.Quit() })
	return b, sess, logs
}

func loadFixture(t *testing.T, name string) *fixture.Data {
	t.Helper()
	data, err := fixture.NewLoader("").Load(name)
	if err != nil {
		t.Fatalf("Load(%s): %v", name, err)
	}
	return data
}

func TestHomePage(t *testing.T) {
	b, _, _ := openPage(t, "/")
	ctx := context.Background()
	home := NewHomePage(b)
	data := loadFixture(t, "home_page")

	if got := home.Title(ctx).OrElse(""); got != data.String("pageTitle") {
		t.Errorf("Title = %q, want %q", got, data.String("pageTitle"))
	}
	if got := home.URL(ctx).OrElse(""); got != data.String("url") {
		t.Errorf("URL = %q, want %q", got, data.String("url"))
	}
	if !home.LogoDisplayed(ctx) {
		t.Error("logo not displayed")
	}
	if got := home.LinkCount(ctx); got != data.Int("totalLinks") {
		t.Errorf("LinkCount = %d, want %d", got, data.Int("totalLinks"))
	}
	if got := home.CardCount(ctx); got != data.Int("totalCards") {
		t.Errorf("CardCount = %d, want %d", got, data.Int("totalCards"))
	}
	if got := home.JoinNowTitle(ctx).OrElse(""); got != data.String("pageTitleJoinNow") {
		t.Errorf("JoinNowTitle = %q, want %q", got, data.String("pageTitleJoinNow"))
	}
	handles, _ := b.Driver.WindowHandles(ctx)
	if len(handles) != 1 {
		t.Errorf("Join Now tab left open: %d windows", len(handles))
	}
	if !home.OpenCard(ctx, CardWidgets) {
		t.Fatal("OpenCard failed")
	}
	if got := home.URL(ctx).OrElse(""); got != site.URL("/widgets") {
		t.Errorf("card led to %q", got)
	}
}

func TestHomePage_NotFoundPolicy(t *testing.T) {
	b, _, logs := openPage(t, "/sample")
	ctx := context.Background()
	home := NewHomePage(b)

	if home.LogoDisplayed(ctx) {
		t.Error("logo reported on a page without one")
	}
	if n := home.CardCount(ctx); n != 0 {
		t.Errorf("CardCount = %d on a page without cards", n)
	}
	if home.JoinNowTitle(ctx).OK() {
		t.Error("expected no Join Now title")
	}
	if logs.FilterMessage("logo not found").Len() != 1 {
		t.Error("expected a warning for the missing logo")
	}
	if logs.FilterLoggerName("page.home").Len() == 0 {
		t.Error("expected entries from the page.home logger")
	}
}

func TestCard_String(t *testing.T) {
	if CardAlertsFrameWindows.String() != "Alerts, Frame & Windows" {
		t.Errorf("unexpected name %q", CardAlertsFrameWindows)
	}
	if Card(42).String() != "unknown card" {
		t.Errorf("unexpected name for out of range card %q", Card(42))
	}
}

func TestElementsPage_HeaderAndMenu(t *testing.T) {
	b, _, _ := openPage(t, "/elements")
	ctx := context.Background()
	el := NewElementsPage(b)
	data := loadFixture(t, "elements_page")

	if got := el.Header(ctx).OrElse(""); got != data.String("elementsPageText") {
		t.Errorf("Header = %q", got)
	}
	if !el.OpenSection(ctx, SectionTextBox) {
		t.Fatal("OpenSection failed")
	}
	if got := el.URL(ctx).OrElse(""); got != site.URL("/text-box") {
		t.Errorf("menu led to %q", got)
	}
}

func TestElementsPage_TextBox(t *testing.T) {
	b, _, _ := openPage(t, "/text-box")
	ctx := context.Background()
	el := NewElementsPage(b)

	var form TextBoxForm
	if err := loadFixture(t, "elements_page").Decode("textbox", &form); err != nil {
		t.Fatal(err)
	}
	if el.TextBoxOutput(ctx).OK() {
		t.Error("output shown before submit")
	}
	if !el.FillTextBox(ctx, form) || !el.SubmitTextBox(ctx) {
		t.Fatal("could not fill and submit the form")
	}
	got, ok := el.TextBoxOutput(ctx).Get()
	if !ok {
		t.Fatal("no output after submit")
	}
	if got != form {
		t.Errorf("output %+v, want %+v", got, form)
	}
}

func TestElementsPage_CheckBox(t *testing.T) {
	b, _, _ := openPage(t, "/checkbox")
	ctx := context.Background()
	el := NewElementsPage(b)

	if el.SelectWorkspace(ctx) {
		t.Fatal("workspace should not be clickable while the tree is collapsed")
	}
	if !el.ExpandAll(ctx) || !el.SelectWorkspace(ctx) {
		t.Fatal("could not expand the tree and select workspace")
	}
	want := loadFixture(t, "elements_page").Strings("checkBox.workspaceSelected")
	if got := el.SelectedNodes(ctx); !reflect.DeepEqual(got, want) {
		t.Errorf("SelectedNodes = %v, want %v", got, want)
	}
	if !el.ToggleHome(ctx) {
		t.Fatal("ToggleHome failed")
	}
	if got := el.SelectedNodes(ctx); len(got) != 17 || got[0] != "home" {
		t.Errorf("home selection = %v", got)
	}
}

func TestElementsPage_Radio(t *testing.T) {
	b, _, _ := openPage(t, "/radio-button")
	ctx := context.Background()
	el := NewElementsPage(b)
	data := loadFixture(t, "elements_page")

	if !el.SelectYes(ctx) {
		t.Fatal("SelectYes failed")
	}
	if got := el.RadioResult(ctx).OrElse(""); got != data.String("radioButton.selectedYesText") {
		t.Errorf("RadioResult = %q", got)
	}
	if el.Click(ctx, radioImpressive, "impressive label") {
		t.Error("covered label should not take a native click")
	}
	if !el.SelectImpressive(ctx) {
		t.Fatal("SelectImpressive failed")
	}
	if got := el.RadioResult(ctx).OrElse(""); got != data.String("radioButton.selectedImpressiveText") {
		t.Errorf("RadioResult = %q", got)
	}
	if !el.IsSelected(ctx, browser.ID("impressiveRadio"), "impressive radio") {
		t.Error("impressive radio not selected")
	}
	if el.NoRadioEnabled(ctx) {
		t.Error("no radio should be disabled")
	}
}

func TestElementsPage_Buttons(t *testing.T) {
	b, _, _ := openPage(t, "/buttons")
	ctx := context.Background()
	el := NewElementsPage(b)
	data := loadFixture(t, "elements_page")

	if el.DynamicClickMessage(ctx).OK() {
		t.Error("message shown before any click")
	}
	if !el.DoubleClickButton(ctx) || !el.RightClickButton(ctx) || !el.DynamicClickButton(ctx) {
		t.Fatal("button interaction failed")
	}
	checks := map[string]page.Optional[string]{
		"buttonClicked.doubleClickMessage":  el.DoubleClickMessage(ctx),
		"buttonClicked.rightClickMessage":   el.RightClickMessage(ctx),
		"buttonClicked.dynamicClickMessage": el.DynamicClickMessage(ctx),
	}
	for path, got := range checks {
		if got.OrElse("") != data.String(path) {
			t.Errorf("%s = %v, want %q", path, got, data.String(path))
		}
	}
}

func TestElementsPage_Links(t *testing.T) {
	b, _, _ := openPage(t, "/links")
	ctx := context.Background()
	el := NewElementsPage(b)
	data := loadFixture(t, "elements_page")

	if got := el.LinkCount(ctx); got != data.Int("linksTest.totalCountOfLinks") {
		t.Errorf("LinkCount = %d", got)
	}
	if got := el.FollowSimpleLink(ctx).OrElse(""); got != data.String("linksTest.simpleLinkURL") {
		t.Errorf("simple link opened %q", got)
	}
	if got := el.FollowDynamicLink(ctx).OrElse(""); got != data.String("linksTest.dynamicLinkURL") {
		t.Errorf("dynamic link opened %q", got)
	}

	cases := []struct {
		link APILink
		key  string
	}{
		{LinkCreated, "Created"},
		{LinkNoContent, "NoContent"},
		{LinkMoved, "Moved"},
		{LinkBadRequest, "BadRequest"},
		{LinkUnauthorized, "Unauthorized"},
		{LinkForbidden, "Forbidden"},
		{LinkNotFound, "NotFound"},
	}
	for _, tc := range cases {
		resp, ok := el.ClickAPILink(ctx, tc.link).Get()
		if !ok {
			t.Errorf("%s: no response", tc.link)
			continue
		}
		if want := data.Int("linksTest." + tc.key); resp.Status != want {
			t.Errorf("%s: status %d, want %d", tc.link, resp.Status, want)
		}
	}
}

func TestParseLinkResponse(t *testing.T) {
	tests := []struct {
		msg    string
		want   LinkResponse
		wantOK bool
	}{
		{"Link has responded with staus 201 and status text Created", LinkResponse{201, "Created"}, true},
		{"Link has responded with status 404 and status text Not Found", LinkResponse{404, "Not Found"}, true},
		{"  Link has responded with staus 301 and status text Moved Permanently ", LinkResponse{301, "Moved Permanently"}, true},
		{"", LinkResponse{}, false},
		{"nothing happened", LinkResponse{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseLinkResponse(tt.msg)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseLinkResponse(%q) = %+v, %v", tt.msg, got, ok)
		}
	}
}

func TestElementsPage_BrokenLinks(t *testing.T) {
	b, _, _ := openPage(t, "/broken")
	ctx := context.Background()
	el := NewElementsPage(b)
	data := loadFixture(t, "elements_page")

	if !el.ValidImageDisplayed(ctx) {
		t.Error("valid image should be displayed")
	}
	if el.BrokenImageDisplayed(ctx) {
		t.Error("broken image should not be displayed")
	}
	if got := el.FollowValidLink(ctx).OrElse(""); got != data.String("linksTest.ValidURL") {
		t.Errorf("valid link led to %q", got)
	}

	b.Open(ctx, site.URL("/broken"))
	if got := el.FollowBrokenLink(ctx).OrElse(""); got != data.String("linksTest.BrokenLink") {
		t.Errorf("broken link led to %q", got)
	}
}

func TestElementsPage_UploadDownload(t *testing.T) {
	b, _, _ := openPage(t, "/upload-download")
	ctx := context.Background()
	el := NewElementsPage(b)
	data := loadFixture(t, "elements_page")

	if !el.UploadFile(ctx, data.String("UploadAndDownload.uploadFilePath")) {
		t.Fatal("UploadFile failed")
	}
	if got := el.UploadedPath(ctx).OrElse(""); got != data.String("UploadAndDownload.UploadedMessage") {
		t.Errorf("UploadedPath = %q", got)
	}

	dir := t.TempDir()
	name := data.String("UploadAndDownload.downloadFilePath")
	if el.Download(ctx, dir, name) {
		t.Error("download reported without a download directory")
	}

	sess2 := demosite.New(demosite.DefaultBaseURL, demosite.WithDownloadDir(dir)).NewSession()
	defer sess2.Quit()
	b2 := page.New(sess2.Driver, zap.NewNop(), fastTimeouts())
	b2.Open(ctx, site.URL("/upload-download"))
	if !NewElementsPage(b2).Download(ctx, dir, name) {
		t.Fatal("Download failed")
	}
	if info, err := os.Stat(filepath.Join(dir, name)); err != nil || info.Size() == 0 {
		t.Errorf("downloaded file missing: %v", err)
	}
}

func TestElementsPage_DownloadIgnoresStaleFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	name := loadFixture(t, "elements_page").String("UploadAndDownload.downloadFilePath")
	stale := filepath.Join(dir, name)
	if err := os.WriteFile(stale, []byte("from an earlier run"), 0o644); err != nil {
		t.Fatal(err)
	}

	// This session has no download directory, so the click writes nothing.
	b, _, _ := openPage(t, "/upload-download")
	if NewElementsPage(b).Download(ctx, dir, name) {
		t.Error("Download passed on a file left by an earlier run")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale file should have been removed, stat err = %v", err)
	}

	if err := os.WriteFile(stale, []byte("from an earlier run"), 0o644); err != nil {
		t.Fatal(err)
	}
	sess := demosite.New(demosite.DefaultBaseURL, demosite.WithDownloadDir(dir)).NewSession()
	defer sess.Quit()
	b2 := page.New(sess.Driver, zap.NewNop(), fastTimeouts())
	b2.Open(ctx, site.URL("/upload-download"))
	if !NewElementsPage(b2).Download(ctx, dir, name) {
		t.Fatal("Download failed")
	}
	got, err := os.ReadFile(stale)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) == "from an earlier run" {
		t.Error("download did not replace the stale file")
	}
}

func TestElementsPage_DynamicProperties(t *testing.T) {
	b, _, _ := openPage(t, "/dynamic-properties")
	el := NewElementsPage(b)
	if !el.VisibleAfterDisplayed(context.Background(), 200*time.Millisecond) {
		t.Error("delayed button never became visible")
	}
}

// recordCells compares the data columns of a row, ignoring the action
// column.
func recordCells(row []string, r Record) bool {
	want := r.Cells()
	return len(row) >= len(want) && reflect.DeepEqual(row[:len(want)], want)
}

func TestWebTablePage(t *testing.T) {
	b, sess, _ := openPage(t, "/webtables")
	ctx := context.Background()
	table := NewWebTablePage(b)

	var users []Record
	if err := loadFixture(t, "table_data").Decode("Users", &users); err != nil {
		t.Fatal(err)
	}

	if n := table.RecordCount(ctx); n != 3 {
		t.Fatalf("RecordCount = %d, want 3", n)
	}
	if rows := len(table.Rows(ctx)); rows != 5 {
		t.Errorf("expected padding up to 5 rows, got %d", rows)
	}
	if got := table.RowData(ctx, 0); len(got) < 6 || got[0] != users[0].FirstName {
		t.Errorf("RowData(0) = %v", got)
	}
	if table.RowData(ctx, 99) != nil {
		t.Error("out of range row should be nil")
	}
	if i := table.FindRowByEmail(ctx, users[1].Email); i != 1 {
		t.Errorf("FindRowByEmail = %d, want 1", i)
	}
	if i := table.FindRowByEmail(ctx, "nobody@example.com"); i != -1 {
		t.Errorf("FindRowByEmail for missing email = %d", i)
	}

	if !table.AddRecord(ctx, users[3]) {
		t.Fatal("AddRecord failed")
	}
	if n := table.RecordCount(ctx); n != 4 {
		t.Errorf("RecordCount after add = %d", n)
	}
	i := table.FindRowByEmail(ctx, users[3].Email)
	if got := table.RowData(ctx, i); !recordCells(got, users[3]) {
		t.Errorf("added row = %v, want %v", got, users[3].Cells())
	}

	if !table.DeleteByEmail(ctx, users[0].Email) {
		t.Fatal("DeleteByEmail failed")
	}
	if table.FindRowByEmail(ctx, users[0].Email) != -1 {
		t.Error("deleted row still present")
	}
	if table.DeleteByEmail(ctx, users[0].Email) {
		t.Error("deleting a missing row should report false")
	}
	if len(sess.Users()) != 3 {
		t.Errorf("model has %d users", len(sess.Users()))
	}
}

func TestWebTablePage_FindRowByEmailExact(t *testing.T) {
	b, _, _ := openPage(t, "/webtables")
	ctx := context.Background()
	table := NewWebTablePage(b)

	var users []Record
	if err := loadFixture(t, "table_data").Decode("Users", &users); err != nil {
		t.Fatal(err)
	}
	// A suffix of a listed email is not that email.
	suffix := users[1].Email[1:]
	if i := table.FindRowByEmail(ctx, suffix); i != -1 {
		t.Errorf("FindRowByEmail(%q) = %d, want -1", suffix, i)
	}
	if table.DeleteByEmail(ctx, suffix) {
		t.Errorf("DeleteByEmail(%q) removed a row with a different email", suffix)
	}

	// A row whose email contains the target must not shadow the exact row.
	longer := users[3]
	longer.Email = "x" + users[1].Email
	if !table.AddRecord(ctx, longer) {
		t.Fatal("AddRecord failed")
	}
	if i := table.FindRowByEmail(ctx, longer.Email); i != 3 {
		t.Errorf("FindRowByEmail(%q) = %d, want 3", longer.Email, i)
	}
	if i := table.FindRowByEmail(ctx, users[1].Email); i != 1 {
		t.Errorf("FindRowByEmail(%q) = %d, want 1", users[1].Email, i)
	}
}

func TestWebTablePage_SearchOtherUser(t *testing.T) {
	b, _, _ := openPage(t, "/webtables")
	ctx := context.Background()
	table := NewWebTablePage(b)

	var users []Record
	if err := loadFixture(t, "table_data").Decode("Users", &users); err != nil {
		t.Fatal(err)
	}
	added, other := users[3], users[4]
	if added.Email == other.Email {
		t.Fatal("fixture users must have distinct emails")
	}
	if !table.AddRecord(ctx, added) || !table.Search(ctx, other.Email) {
		t.Fatal("add then search failed")
	}
	if n := table.RecordCount(ctx); n != 0 {
		t.Errorf("search for %s matched %d rows", other.Email, n)
	}
	if !table.Search(ctx, added.Email) {
		t.Fatal("Search failed")
	}
	if n := table.RecordCount(ctx); n != 1 {
		t.Errorf("search for %s matched %d rows", added.Email, n)
	}
}

func TestWebTablePage_Edit(t *testing.T) {
	b, sess, _ := openPage(t, "/webtables")
	ctx := context.Background()
	table := NewWebTablePage(b)

	var edit Record
	if err := loadFixture(t, "table_data").Decode("EditUser", &edit); err != nil {
		t.Fatal(err)
	}
	if !table.EditByEmail(ctx, edit.Email) || !table.FillForm(ctx, edit) || !table.Submit(ctx) {
		t.Fatal("edit failed")
	}
	i := table.FindRowByEmail(ctx, edit.Email)
	if got := table.RowData(ctx, i); !recordCells(got, edit) {
		t.Errorf("edited row = %v, want %v", got, edit.Cells())
	}
	if n := len(sess.Users()); n != 3 {
		t.Errorf("edit changed the row count to %d", n)
	}
	if table.EditByEmail(ctx, "nobody@example.com") {
		t.Error("editing a missing row should report false")
	}
}

func TestWindowsPage_Windows(t *testing.T) {
	b, _, _ := openPage(t, "/browser-windows")
	ctx := context.Background()
	w := NewWindowsPage(b)
	data := loadFixture(t, "window_handle")

	if got := w.NewTabHeading(ctx).OrElse(""); got != data.String("NewTab") {
		t.Errorf("NewTabHeading = %q", got)
	}
	if got := w.NewWindowHeading(ctx).OrElse(""); got != data.String("NewWindow") {
		t.Errorf("NewWindowHeading = %q", got)
	}
	if got := w.NewWindowMessage(ctx).OrElse(""); got != data.String("NewWindowMessage") {
		t.Errorf("NewWindowMessage = %q", got)
	}
	if handles, _ := b.Driver.WindowHandles(ctx); len(handles) != 1 {
		t.Errorf("%d windows left open", len(handles))
	}
}

func TestWindowsPage_Alerts(t *testing.T) {
	b, sess, _ := openPage(t, "/alerts")
	ctx := context.Background()
	w := NewWindowsPage(b)
	data := loadFixture(t, "window_handle")

	if !w.TriggerAlert(ctx) || !w.AcceptNextDialog(ctx, time.Second) {
		t.Fatal("simple alert not handled")
	}
	if !w.TriggerTimerAlert(ctx) || !w.AcceptNextDialog(ctx, time.Second) {
		t.Fatal("timer alert not handled")
	}
	if !w.TriggerConfirm(ctx) || !w.AcceptNextDialog(ctx, time.Second) {
		t.Fatal("confirm not handled")
	}
	if got := w.ConfirmResult(ctx).OrElse(""); got != data.String("ConfirmResultText") {
		t.Errorf("ConfirmResult = %q", got)
	}
	if !w.TriggerPrompt(ctx) || !w.AnswerNextPrompt(ctx, data.String("AlertSendText"), time.Second) {
		t.Fatal("prompt not handled")
	}
	if got := w.PromptResult(ctx).OrElse(""); got != data.String("PromptResultText") {
		t.Errorf("PromptResult = %q", got)
	}
	if sess.PendingDialog() != nil {
		t.Error("dialog left pending")
	}
	if w.AcceptNextDialog(ctx, 10*time.Millisecond) {
		t.Error("accepting with no dialog should report false")
	}
}

func TestWindowsPage_Modals(t *testing.T) {
	b, _, _ := openPage(t, "/modal-dialogs")
	ctx := context.Background()
	w := NewWindowsPage(b)
	data := loadFixture(t, "window_handle")

	if got := w.Heading(ctx).OrElse(""); got != data.String("NameOfThePage") {
		t.Errorf("Heading = %q", got)
	}
	if !w.OpenSmallModal(ctx) {
		t.Fatal("OpenSmallModal failed")
	}
	if got := w.SmallModalTitle(ctx).OrElse(""); got != data.String("NameOfSmallModal") {
		t.Errorf("SmallModalTitle = %q", got)
	}
	if got := w.ModalBody(ctx).OrElse(""); got != data.String("TextOfSmallModal") {
		t.Errorf("ModalBody = %q", got)
	}
	if !w.CloseSmallModal(ctx) {
		t.Fatal("CloseSmallModal failed")
	}
	if w.IsDisplayed(ctx, modalSmallTitle, "small modal title") {
		t.Error("small modal still displayed")
	}

	if !w.OpenLargeModal(ctx) {
		t.Fatal("OpenLargeModal failed")
	}
	if got := w.LargeModalTitle(ctx).OrElse(""); got != data.String("NameOfLargeModal") {
		t.Errorf("LargeModalTitle = %q", got)
	}
	if got := w.LargeModalText(ctx).OrElse(""); !strings.Contains(got, data.String("TextOfLargeModal")) {
		t.Errorf("LargeModalText = %q", got)
	}
	if !w.CloseLargeModal(ctx) {
		t.Fatal("CloseLargeModal failed")
	}
}

func TestWindowsPage_Frames(t *testing.T) {
	b, sess, _ := openPage(t, "/frames")
	ctx := context.Background()
	w := NewWindowsPage(b)
	data := loadFixture(t, "window_handle")

	if got := w.FrameHeading(ctx).OrElse(""); got != data.String("IFrameText") {
		t.Errorf("FrameHeading = %q", got)
	}
	if got := w.Heading(ctx).OrElse(""); got != data.String("FramesHeader") {
		t.Errorf("Heading after frame = %q", got)
	}

	b.Open(ctx, site.URL("/nestedframes"))
	if got := w.NestedParentText(ctx).OrElse(""); got != data.String("NestedParentText") {
		t.Errorf("NestedParentText = %q", got)
	}
	if got := w.NestedChildText(ctx).OrElse(""); got != data.String("NestedChildText") {
		t.Errorf("NestedChildText = %q", got)
	}
	if sess.FrameDepth() != 0 {
		t.Errorf("left inside a frame, depth %d", sess.FrameDepth())
	}
	if got := w.Heading(ctx).OrElse(""); got != data.String("NestedFrameHeader") {
		t.Errorf("Heading after nested frames = %q", got)
	}
}

func TestWidgetsPage(t *testing.T) {
	b, _, _ := openPage(t, "/widgets")
	ctx := context.Background()
	w := NewWidgetsPage(b)
	data := loadFixture(t, "Widgets_module")

	if !w.OpenSection(ctx, SectionAccordian) {
		t.Fatal("OpenSection failed")
	}
	if got := w.AccordionText(ctx, 1).OrElse(""); !strings.Contains(got, data.String("TextOfAccordian.TextOfAccordianFirst")) {
		t.Errorf("section 1 = %q", got)
	}
	if w.AccordionText(ctx, 2).OK() {
		t.Error("section 2 should start collapsed")
	}
	if !w.ToggleAccordion(ctx, 2) {
		t.Fatal("ToggleAccordion failed")
	}
	if got := w.AccordionText(ctx, 2).OrElse(""); !strings.Contains(got, data.String("TextOfAccordian.TextOfAccordianSecond")) {
		t.Errorf("section 2 = %q", got)
	}

	if !w.OpenSection(ctx, SectionAutoComplete) {
		t.Fatal("OpenSection failed")
	}
	colors := data.Strings("MultiColor")
	if !w.PickColors(ctx, colors) {
		t.Fatal("PickColors failed")
	}
	if got := w.SelectedColors(ctx); !reflect.DeepEqual(got, colors) {
		t.Errorf("SelectedColors = %v, want %v", got, colors)
	}
}

func TestParseBirthDate(t *testing.T) {
	for _, in := range []string{"17-May-1998", "17-may-1998", "17-MAY-1998", " 17-May-1998 "} {
		got, err := ParseBirthDate(in)
		if err != nil {
			t.Errorf("ParseBirthDate(%q): %v", in, err)
			continue
		}
		if FormatBirthDate(got) != "17 May,1998" {
			t.Errorf("ParseBirthDate(%q) = %s", in, FormatBirthDate(got))
		}
	}
	for _, in := range []string{"", "1998-05-17", "17-Mai-1998", "32-May-1998"} {
		if _, err := ParseBirthDate(in); err == nil {
			t.Errorf("ParseBirthDate(%q) should fail", in)
		}
	}
	if got := FormatBirthDate(time.Date(2001, time.March, 5, 0, 0, 0, 0, time.UTC)); got != "05 March,2001" {
		t.Errorf("FormatBirthDate = %q", got)
	}
}

func TestRegistrationPage(t *testing.T) {
	b, sess, _ := openPage(t, "/forms")
	ctx := context.Background()
	reg := NewRegistrationPage(b)
	data := loadFixture(t, "registration_form")

	var student Student
	if err := data.Decode("UserOne", &student); err != nil {
		t.Fatal(err)
	}
	student.Subjects = data.Strings("UserOne.Subjects")
	hobbies := []string{"Sports", "Reading", "Music"}

	step := func(name string, ok bool) {
		t.Helper()
		if !ok {
			t.Fatalf("step %q failed", name)
		}
	}
	step("open form", reg.OpenForm(ctx))
	step("first name", reg.EnterFirstName(ctx, student.FirstName))
	step("last name", reg.EnterLastName(ctx, student.LastName))
	step("email", reg.EnterEmail(ctx, student.Email))
	step("gender", reg.SelectGender(ctx, data.String("Expected.Gender")))
	step("mobile", reg.EnterMobile(ctx, student.Mobile))
	step("date of birth", reg.EnterDateOfBirth(ctx, student.DateOfBirth))
	for _, s := range student.Subjects {
		step("subject "+s, reg.AddSubject(ctx, s))
	}
	step("hobbies", reg.SelectHobbies(ctx, hobbies...))
	step("address", reg.EnterAddress(ctx, student.CurrentAddress))
	step("state", reg.SelectState(ctx, student.State))
	step("city", reg.SelectCity(ctx, student.City))

	picture := reg.UploadPicture(ctx, student.UploadFile).OrElse("")
	if picture != "sampleFile.jpeg" {
		t.Errorf("UploadPicture = %q", picture)
	}
	if !reflect.DeepEqual(sess.Subjects(), student.Subjects) {
		t.Errorf("subjects picked %v", sess.Subjects())
	}
	if !reg.Submit(ctx) {
		t.Fatal("Submit failed")
	}

	result := reg.Result(ctx)
	want := map[string]string{
		"Student Name":   student.FirstName + " " + student.LastName,
		"Student Email":  student.Email,
		"Gender":         data.String("Expected.Gender"),
		"Mobile":         student.Mobile,
		"Date of Birth":  data.String("Expected.Date of Birth"),
		"Subjects":       data.String("Expected.Subjects"),
		"Hobbies":        data.String("Expected.Hobbies"),
		"Picture":        picture,
		"Address":        student.CurrentAddress,
		"State and City": student.State + " " + student.City,
	}
	for k, v := range want {
		if result[k] != v {
			t.Errorf("%s = %q, want %q", k, result[k], v)
		}
	}
}

func TestRegistrationPage_InvalidBirthDate(t *testing.T) {
	b, _, logs := openPage(t, "/automation-practice-form")
	reg := NewRegistrationPage(b)
	if reg.EnterDateOfBirth(context.Background(), "May 17 1998") {
		t.Error("expected invalid date to be rejected")
	}
	if logs.FilterMessage("invalid date of birth").Len() != 1 {
		t.Error("expected the invalid date to be logged")
	}
}
