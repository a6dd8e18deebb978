// internal/demosite/markup.go
package demosite

import (
	"fmt"
	"html"
	"strings"
)

type route struct {
	label string
	path  string
}

// menu lists the navigation entries shown on every category page.
var menu = []route{
	{"Text Box", "/text-box"},
	{"Check Box", "/checkbox"},
	{"Radio Button", "/radio-button"},
	{"Web Tables", "/webtables"},
	{"Buttons", "/buttons"},
	{"Links", "/links"},
	{"Broken Links - Images", "/broken"},
	{"Upload and Download", "/upload-download"},
	{"Dynamic Properties", "/dynamic-properties"},
	{"Practice Form", "/automation-practice-form"},
	{"Browser Windows", "/browser-windows"},
	{"Alerts", "/alerts"},
	{"Frames", "/frames"},
	{"Nested Frames", "/nestedframes"},
	{"Modal Dialogs", "/modal-dialogs"},
	{"Accordian", "/accordian"},
	{"Auto Complete", "/auto-complete"},
}

// cards are the category tiles of the landing page, in display order.
var cards = []route{
	{"Elements", "/elements"},
	{"Forms", "/forms"},
	{"Alerts, Frame & Windows", "/alertsWindows"},
	{"Widgets", "/widgets"},
	{"Interactions", "/interaction"},
	{"Book Store Application", "/books"},
}

const (
	JoinNowURL     = "https://www.toolsqa.com/selenium-training/"
	JoinNowTitle   = "Tools QA - Selenium Training"
	BrokenLinkURL  = "http://the-internet.herokuapp.com/status_codes/500"
	SampleHeading  = "This is a sample page"
	WindowMessage  = "Knowledge increases by sharing but not by saving. Please share this website with your friends and in your organization."
	SmallModalText = "This is a small modal. It has very less content"
	LargeModalText = "Lorem Ipsum is simply dummy text of the printing and typesetting industry. Lorem Ipsum has been the industry's standard dummy text ever since the 1500s."
)

var accordion = []struct{ heading, text string }{
	{"What is Lorem Ipsum?", "Lorem Ipsum is simply dummy text of the printing and typesetting industry. Lorem Ipsum has been the industry's standard dummy text ever since the 1500s."},
	{"Where does it come from?", "Contrary to popular belief, Lorem Ipsum is not simply random text. It has roots in a piece of classical Latin literature from 45 BC."},
	{"Why do we use it?", "It is a long established fact that a reader will be distracted by the readable content of a page when looking at its layout."},
}

var months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func (s *Site) header() string {
	return fmt.Sprintf(`<header><a href="%s"><img src="/images/Toolsqa.jpg" alt="logo"></a></header>`, s.base)
}

// layout wraps a section body in the shared header, heading and menu.
func (s *Site) layout(heading, body string) string {
	var b strings.Builder
	b.WriteString(`<html><head><title>DEMOQA</title></head><body>`)
	b.WriteString(s.header())
	fmt.Fprintf(&b, `<div class="pattern-backgound playgound-header"><h1 class="text-center">%s</h1></div>`, html.EscapeString(heading))
	b.WriteString(`<div class="left-pannel"><ul class="menu-list">`)
	for i, m := range menu {
		fmt.Fprintf(&b, `<li class="btn btn-light" id="item-%d" data-route="%s"><span class="text">%s</span></li>`, i, m.path, html.EscapeString(m.label))
	}
	b.WriteString(`</ul></div>`)
	fmt.Fprintf(&b, `<div class="col-12 mt-4 col-md-6">%s</div>`, body)
	b.WriteString(`</body></html>`)
	return b.String()
}

func (s *Site) homePage() string {
	var b strings.Builder
	b.WriteString(`<html><head><title>DEMOQA</title></head><body>`)
	b.WriteString(s.header())
	fmt.Fprintf(&b, `<div class="home-banner"><a class="banner-image" href="%s" target="_blank"><img src="/images/WB.svg" alt="Selenium Online Training"></a></div>`, JoinNowURL)
	b.WriteString(`<div class="category-cards">`)
	for _, c := range cards {
		fmt.Fprintf(&b, `<div class="card mt-4 top-card" data-route="%s"><div class="card-body"><h5>%s</h5></div></div>`, c.path, html.EscapeString(c.label))
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

const textBoxBody = `<div class="text-field-container"><form id="userForm">
<input id="userName" type="text" placeholder="Full Name">
<input id="userEmail" type="email" placeholder="name@example.com">
<textarea id="currentAddress" placeholder="Current Address"></textarea>
<textarea id="permanentAddress"></textarea>
<button id="submit" type="button" class="btn btn-primary">Submit</button>
</form><div id="output"></div></div>`

const checkBoxBody = `<div class="check-box-tree-wrapper"><div id="tree-node">
<div class="rct-options"><button title="Expand all" class="rct-option rct-option-expand-all">+</button><button title="Collapse all" class="rct-option rct-option-collapse-all">-</button></div>
<ol><li class="rct-node"><span class="rct-text"><label for="tree-node-home"><input id="tree-node-home" type="checkbox"><span class="rct-checkbox"></span><span class="rct-title">Home</span></label></span>
<ol class="rct-children" hidden>
<li class="rct-node"><label for="tree-node-desktop"><input id="tree-node-desktop" type="checkbox"><span class="rct-checkbox"></span><span class="rct-title">Desktop</span></label></li>
<li class="rct-node"><label for="tree-node-documents"><input id="tree-node-documents" type="checkbox"><span class="rct-checkbox"></span><span class="rct-title">Documents</span></label>
<ol><li class="rct-node"><label for="tree-node-workspace"><input id="tree-node-workspace" type="checkbox"><span class="rct-checkbox"></span><span class="rct-title">WorkSpace</span></label></li></ol></li>
<li class="rct-node"><label for="tree-node-downloads"><input id="tree-node-downloads" type="checkbox"><span class="rct-checkbox"></span><span class="rct-title">Downloads</span></label></li>
</ol></li></ol></div><div id="result"></div></div>`

const radioBody = `<div><p>Do you like the site?</p>
<div class="custom-radio"><input type="radio" id="yesRadio" name="like"><label for="yesRadio">Yes</label></div>
<div class="custom-radio"><input type="radio" id="impressiveRadio" name="like"><label for="impressiveRadio" data-intercept>Impressive</label></div>
<div class="custom-radio"><input type="radio" id="noRadio" name="like" disabled><label for="noRadio">No</label></div>
<div id="radio-result"></div></div>`

const buttonsBody = `<div>
<button id="doubleClickBtn" type="button">Double Click Me</button>
<button id="rightClickBtn" type="button">Right Click Me</button>
<button id="dXk4p" type="button">Click Me</button>
<div id="button-messages"></div></div>`

var apiLinks = []struct {
	id     string
	label  string
	status int
	text   string
}{
	{"created", "Created", 201, "Created"},
	{"no-content", "No Content", 204, "No Content"},
	{"moved", "Moved", 301, "Moved Permanently"},
	{"bad-request", "Bad Request", 400, "Bad Request"},
	{"unauthorized", "Unauthorized", 401, "Unauthorized"},
	{"forbidden", "Forbidden", 403, "Forbidden"},
	{"invalid-url", "Not Found", 404, "Not Found"},
}

func (s *Site) linksBody() string {
	var b strings.Builder
	b.WriteString(`<div id="linkWrapper"><h5>Following links will open new tab</h5>`)
	fmt.Fprintf(&b, `<p><a id="simpleLink" href="%s/" target="_blank">Home</a></p>`, s.base)
	fmt.Fprintf(&b, `<p><a id="dynamicLink" href="%s/" target="_blank">HomeqT3xz</a></p>`, s.base)
	b.WriteString(`<h5>Following links will send an api call</h5>`)
	for _, l := range apiLinks {
		fmt.Fprintf(&b, `<p><a id="%s" href="javascript:void(0)">%s</a></p>`, l.id, l.label)
	}
	b.WriteString(`</div><p id="linkResponse"></p>`)
	return b.String()
}

func (s *Site) brokenBody() string {
	return fmt.Sprintf(`<div><p>Valid image</p><img src="/images/Toolsqa.jpg">
<p>Broken image</p><img src="/images/Toolsqa_1.jpg">
<p>Valid Link</p><a href="%s/">Click Here for Valid Link</a>
<p>Broken Link</p><a href="%s">Click Here for Broken Link</a></div>`, s.base, BrokenLinkURL)
}

const uploadBody = `<div><a id="downloadButton" href="#" download="sampleFile.jpeg">Download</a>
<label for="uploadFile">Select a file</label><input id="uploadFile" type="file">
<p id="uploadedFilePath"></p></div>`

const dynamicBody = `<div><p id="dynamic-text">This text has random Id</p>
<button id="enableAfter" type="button" disabled>Will enable 5 seconds</button>
<button id="colorChange" type="button" class="btn btn-primary">Color Change</button>
<button id="visibleAfter" type="button">Visible After 5 Seconds</button></div>`

const tableBody = `<div class="web-tables-wrapper">
<button id="addNewRecordButton" type="button">Add</button>
<input id="searchBox" type="text" placeholder="Type to search">
<div class="ReactTable"><div class="rt-table">
<div class="rt-thead -header"><div class="rt-tr"><div class="rt-th">First Name</div><div class="rt-th">Last Name</div><div class="rt-th">Age</div><div class="rt-th">Email</div><div class="rt-th">Salary</div><div class="rt-th">Department</div><div class="rt-th">Action</div></div></div>
<div class="rt-tbody">%s</div></div></div>
<div class="modal-content" id="registration-form-modal" hidden><form id="userForm">
<input id="firstName" type="text"><input id="lastName" type="text"><input id="userEmail" type="text">
<input id="age" type="text"><input id="salary" type="text"><input id="department" type="text">
<button id="submit" type="button">Submit</button></form></div></div>`

const windowsBody = `<div>
<button id="tabButton" type="button">New Tab</button>
<button id="windowButton" type="button">New Window</button>
<button id="messageWindowButton" type="button">New Window Message</button></div>`

const alertsBody = `<div>
<div><span>Click Button to see alert</span><button id="alertButton" type="button">Click me</button></div>
<div><span>On button click, alert will appear after 5 seconds</span><button id="timerAlertButton" type="button">Click me</button></div>
<div><span>On button click, confirm box will appear</span><button id="confirmButton" type="button">Click me</button><span id="confirmResult"></span></div>
<div><span>On button click, prompt box will appear</span><button id="promtButton" type="button">Click me</button><span id="promptResult"></span></div></div>`

const framesBody = `<div id="framesWrapper"><div>Sample Iframe page There are 2 Iframes in this page.</div>
<iframe id="frame1" width="500px" height="350px" srcdoc="<html><body><h1 id='sampleHeading'>This is a sample page</h1></body></html>"></iframe>
<iframe id="frame2" width="100px" height="100px" srcdoc="<html><body><h1 id='sampleHeading'>This is a sample page</h1></body></html>"></iframe></div>`

const nestedFramesBody = `<div id="framesWrapper"><div>Sample Nested Iframe page.</div>
<iframe id="frame1" width="500px" height="350px" srcdoc="<html><body>Parent frame<iframe srcdoc='<html><body><p>Child Iframe</p></body></html>'></iframe></body></html>"></iframe></div>`

func modalsBody() string {
	return fmt.Sprintf(`<div><button id="showSmallModal" type="button">Small modal</button>
<button id="showLargeModal" type="button">Large modal</button>
<div id="small-modal" class="modal" hidden><div class="modal-header"><div id="example-modal-sizes-title-sm" class="modal-title h4">Small Modal</div></div>
<div class="modal-body">%s</div><div class="modal-footer"><button id="closeSmallModal" type="button">Close</button></div></div>
<div id="large-modal" class="modal" hidden><div class="modal-header"><div id="example-modal-sizes-title-lg" class="modal-title h4">Large Modal</div></div>
<div class="modal-body"><p>%s</p></div><div class="modal-footer"><button id="closeLargeModal" type="button">Close</button></div></div></div>`,
		SmallModalText, LargeModalText)
}

func accordionBody() string {
	var b strings.Builder
	b.WriteString(`<div class="accordion">`)
	for i, a := range accordion {
		n := i + 1
		style := ""
		if n > 1 {
			style = ` style="display: none;"`
		}
		fmt.Fprintf(&b, `<div class="card"><div id="section%dHeading" class="card-header">%s</div><div id="section%dContent" class="card-body"%s><p>%s</p></div></div>`,
			n, a.heading, n, style, a.text)
	}
	b.WriteString(`</div>`)
	return b.String()
}

const autoCompleteBody = `<div class="auto-complete-wrapper"><p>Type multiple color names</p>
<div class="auto-complete__control"><div class="auto-complete__value-container auto-complete__value-container--is-multi">
<div class="auto-complete__input"><input id="autoCompleteMultipleInput" type="text"></div></div></div>
<div class="auto-complete__menu" hidden><div class="auto-complete__option"></div></div></div>`

func practiceFormBody() string {
	var b strings.Builder
	b.WriteString(`<div class="practice-form-wrapper"><h5>Student Registration Form</h5><form id="userForm">
<input id="firstName" type="text" placeholder="First Name"><input id="lastName" type="text" placeholder="Last Name">
<input id="userEmail" type="text" placeholder="name@example.com">
<div id="genterWrapper">`)
	for i, g := range []string{"Male", "Female", "Other"} {
		fmt.Fprintf(&b, `<input type="radio" id="gender-radio-%d" name="gender" value="%s"><label for="gender-radio-%d">%s</label>`, i+1, g, i+1, g)
	}
	b.WriteString(`</div><input id="userNumber" type="text" placeholder="Mobile Number">
<input id="dateOfBirthInput" type="text" value="19 Oct 2026">
<div class="react-datepicker" hidden><select class="react-datepicker__month-select">`)
	for _, m := range months {
		fmt.Fprintf(&b, `<option>%s</option>`, m)
	}
	b.WriteString(`</select><select class="react-datepicker__year-select">`)
	for y := 1980; y <= 2026; y++ {
		fmt.Fprintf(&b, `<option>%d</option>`, y)
	}
	b.WriteString(`</select><div class="react-datepicker__month">`)
	for d := 27; d <= 30; d++ {
		fmt.Fprintf(&b, `<div class="react-datepicker__day react-datepicker__day--%03d react-datepicker__day--outside-month">%d</div>`, d, d)
	}
	for d := 1; d <= 28; d++ {
		fmt.Fprintf(&b, `<div class="react-datepicker__day react-datepicker__day--%03d">%d</div>`, d, d)
	}
	b.WriteString(`</div></div>
<div class="subjects-auto-complete__control"><div class="subjects-auto-complete__value-container subjects-auto-complete__value-container--is-multi"><input id="subjectsInput" type="text"></div></div>
<div class="subjects-auto-complete__menu" hidden><div class="subjects-auto-complete__option"></div></div>
<div id="hobbiesWrapper">`)
	for i, h := range []string{"Sports", "Reading", "Music"} {
		fmt.Fprintf(&b, `<input type="checkbox" id="hobbies-checkbox-%d" value="%d"><label for="hobbies-checkbox-%d">%s</label>`, i+1, i+1, i+1, h)
	}
	b.WriteString(`</div><input id="uploadPicture" type="file">
<textarea id="currentAddress" placeholder="Current Address"></textarea>
<div id="state"><div class="css-placeholder">Select State</div></div>
<div id="state-menu" hidden><div id="react-select-3-option-0" data-value="NCR">NCR</div><div id="react-select-3-option-1" data-value="Uttar Pradesh">Uttar Pradesh</div><div id="react-select-3-option-2" data-value="Haryana">Haryana</div></div>
<div id="city"><div class="css-placeholder">Select City</div></div>
<div id="city-menu" hidden><div id="react-select-4-option-0" data-value="Delhi">Delhi</div><div id="react-select-4-option-1" data-value="Gurgaon">Gurgaon</div><div id="react-select-4-option-2" data-value="Noida">Noida</div></div>
<button id="submit" type="button">Submit</button></form></div>
<div id="submission"></div>`)
	return b.String()
}

func (s *Site) samplePage() string {
	return `<html><head><title>DEMOQA</title></head><body><h1 id="sampleHeading">` + SampleHeading + `</h1></body></html>`
}

const joinNowPage = `<html><head><title>` + JoinNowTitle + `</title></head><body><h1>Selenium Certification Training</h1></body></html>`

const brokenLinkPage = `<html><head><title>The Internet</title></head><body><h3>Status Codes</h3><p>This page returned a 500 status code.</p></body></html>`

func messageWindow() string {
	return `<html><head></head><body>` + WindowMessage + `</body></html>`
}
