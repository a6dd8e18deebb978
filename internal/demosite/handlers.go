// internal/demosite/handlers.go
package demosite

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/browser/memdriver"
)

// Handlers run with the driver locked. Session fields they share with
// accessor methods are guarded by sess.mu.

var workspaceNodes = []string{"workspace", "react", "angular", "veu"}

var homeNodes = []string{
	"home", "desktop", "notes", "commands", "documents", "workspace", "react", "angular", "veu",
	"office", "public", "private", "classified", "general", "downloads", "wordFile", "excelFile",
}

func selection(nodes []string) string {
	var b strings.Builder
	b.WriteString(`<span>You have selected :</span>`)
	for _, n := range nodes {
		fmt.Fprintf(&b, `<span class="text-success">%s</span>`, n)
	}
	return b.String()
}

// toggleCheck flips the checked state of the input with id and reports
// the new state.
func toggleCheck(ev *memdriver.Event, id string) bool {
	checked := browser.CSSf("#%s[checked]", id)
	if ev.Count(checked) > 0 {
		ev.RemoveAttr(browser.ID(id), "checked")
		return false
	}
	ev.SetAttr(browser.ID(id), "checked", "")
	return true
}

func (sess *Session) bindElements() {
	d := sess.Driver

	d.OnClick(browser.CSS(".text-field-container #submit"), func(ev *memdriver.Event) {
		field := func(id string) string { return html.EscapeString(ev.ValueOf(browser.ID(id))) }
		ev.SetHTML(browser.ID("output"), fmt.Sprintf(`<div class="border">`+
			`<p id="name" class="mb-1">Name:%s</p>`+
			`<p id="email" class="mb-1">Email:%s</p>`+
			`<p id="currentAddress" class="mb-1">Current Address :%s </p>`+
			`<p id="permanentAddress" class="mb-1">Permananet Address :%s</p></div>`,
			field("userName"), field("userEmail"), field("currentAddress"), field("permanentAddress")))
	})

	d.OnClick(browser.CSS(".rct-option-expand-all"), func(ev *memdriver.Event) {
		ev.RemoveAttr(browser.CSS(".rct-children"), "hidden")
	})
	d.OnClick(browser.CSS(".rct-option-collapse-all"), func(ev *memdriver.Event) {
		ev.SetAttr(browser.CSS(".rct-children"), "hidden", "")
	})
	d.OnClick(browser.CSS("label[for='tree-node-home'] .rct-title"), func(ev *memdriver.Event) {
		if toggleCheck(ev, "tree-node-home") {
			ev.SetHTML(browser.ID("result"), selection(homeNodes))
		} else {
			ev.SetHTML(browser.ID("result"), "")
		}
	})
	d.OnClick(browser.CSS("label[for='tree-node-workspace'] .rct-checkbox"), func(ev *memdriver.Event) {
		if toggleCheck(ev, "tree-node-workspace") {
			ev.SetHTML(browser.ID("result"), selection(workspaceNodes))
		} else {
			ev.SetHTML(browser.ID("result"), "")
		}
	})

	radio := func(label string) memdriver.Handler {
		return func(ev *memdriver.Event) {
			ev.SetHTML(browser.ID("radio-result"),
				fmt.Sprintf(`<p class="mt-3">You have selected <span class="text-success">%s</span></p>`, label))
		}
	}
	d.OnClick(browser.CSS("label[for='yesRadio']"), radio("Yes"))
	d.OnClick(browser.CSS("label[for='impressiveRadio']"), radio("Impressive"))

	message := func(id, text string) memdriver.Handler {
		return func(ev *memdriver.Event) {
			ev.Remove(browser.ID(id))
			ev.AppendHTML(browser.ID("button-messages"), fmt.Sprintf(`<p id="%s">%s</p>`, id, text))
		}
	}
	d.On(memdriver.EventDoubleClick, browser.ID("doubleClickBtn"), message("doubleClickMessage", "You have done a double click"))
	d.On(memdriver.EventRightClick, browser.ID("rightClickBtn"), message("rightClickMessage", "You have done a right click"))
	d.OnClick(browser.ID("dXk4p"), message("dynamicClickMessage", "You have done a dynamic click"))

	for _, l := range apiLinks {
		l := l
		d.OnClick(browser.ID(l.id), func(ev *memdriver.Event) {
			ev.SetHTML(browser.ID("linkResponse"),
				fmt.Sprintf(`Link has responded with staus <b>%d</b> and status text <b>%s</b>`, l.status, l.text))
		})
	}

	d.OnScript("naturalWidth", func(args []interface{}) interface{} {
		if len(args) == 0 {
			return false
		}
		sel, _ := args[0].(string)
		return strings.Contains(sel, "Toolsqa.jpg")
	})

	d.On(memdriver.EventChange, browser.ID("uploadFile"), func(ev *memdriver.Event) {
		ev.SetText(browser.ID("uploadedFilePath"), ev.ValueOf(browser.ID("uploadFile")))
	})
	d.OnClick(browser.ID("downloadButton"), func(ev *memdriver.Event) {
		if sess.downloadDir == "" {
			return
		}
		name := ev.Attr("download")
		// A JPEG start-of-image marker is enough for the size check.
		_ = os.WriteFile(filepath.Join(sess.downloadDir, name), []byte{0xFF, 0xD8, 0xFF, 0xE0}, 0o644)
	})
}

// rowsMarkup renders the table rows matching filter, padded with empty
// rows the way the page pads short tables.
func (sess *Session) rowsMarkup(filter string) string {
	sess.mu.Lock()
	users := append([]User(nil), sess.users...)
	sess.mu.Unlock()

	filter = strings.ToLower(strings.TrimSpace(filter))
	var rows strings.Builder
	shown := 0
	for _, u := range users {
		cells := []string{u.FirstName, u.LastName, u.Age, u.Email, u.Salary, u.Department}
		if filter != "" && !strings.Contains(strings.ToLower(strings.Join(cells, " ")), filter) {
			continue
		}
		rows.WriteString(`<div class="rt-tr-group"><div class="rt-tr">`)
		for _, c := range cells {
			fmt.Fprintf(&rows, `<div class="rt-td">%s</div>`, html.EscapeString(c))
		}
		fmt.Fprintf(&rows, `<div class="rt-td"><div class="action-buttons">`+
			`<span title="Edit" id="edit-record-%d"></span><span title="Delete" id="delete-record-%d"></span>`+
			`</div></div></div></div>`, u.ID, u.ID)
		shown++
	}
	for ; shown < 5; shown++ {
		rows.WriteString(`<div class="rt-tr-group"><div class="rt-tr -padRow"><div class="rt-td">&nbsp;</div><div class="rt-td">&nbsp;</div></div></div>`)
	}
	return rows.String()
}

// renderTable redraws the table body from the model.
func (sess *Session) renderTable(ev *memdriver.Event) {
	ev.SetHTML(browser.CSS(".rt-tbody"), sess.rowsMarkup(ev.ValueOf(browser.ID("searchBox"))))
}

var recordID = regexp.MustCompile(`-record-(\d+)$`)

func idOf(ev *memdriver.Event) int {
	m := recordID.FindStringSubmatch(ev.Attr("id"))
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

var formFields = []string{"firstName", "lastName", "userEmail", "age", "salary", "department"}

func (sess *Session) bindTable() {
	d := sess.Driver

	d.OnClick(browser.ID("addNewRecordButton"), func(ev *memdriver.Event) {
		sess.mu.Lock()
		sess.editing = 0
		sess.mu.Unlock()
		ev.RemoveAttr(browser.ID("registration-form-modal"), "hidden")
	})

	d.OnClick(browser.CSS("span[title='Edit']"), func(ev *memdriver.Event) {
		id := idOf(ev)
		sess.mu.Lock()
		sess.editing = id
		var found *User
		for i := range sess.users {
			if sess.users[i].ID == id {
				found = &sess.users[i]
			}
		}
		var values []string
		if found != nil {
			values = []string{found.FirstName, found.LastName, found.Email, found.Age, found.Salary, found.Department}
		}
		sess.mu.Unlock()
		for i, f := range formFields {
			if values != nil {
				ev.SetAttr(browser.ID(f), "value", values[i])
			}
		}
		ev.RemoveAttr(browser.ID("registration-form-modal"), "hidden")
	})

	d.OnClick(browser.CSS("span[title='Delete']"), func(ev *memdriver.Event) {
		id := idOf(ev)
		sess.mu.Lock()
		kept := sess.users[:0]
		for _, u := range sess.users {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		sess.users = kept
		sess.mu.Unlock()
		sess.renderTable(ev)
	})

	d.OnClick(browser.CSS(".modal-content #submit"), func(ev *memdriver.Event) {
		v := func(id string) string { return strings.TrimSpace(ev.ValueOf(browser.ID(id))) }
		u := User{
			FirstName:  v("firstName"),
			LastName:   v("lastName"),
			Email:      v("userEmail"),
			Age:        v("age"),
			Salary:     v("salary"),
			Department: v("department"),
		}
		if u.FirstName == "" || u.LastName == "" || !strings.Contains(u.Email, "@") {
			return
		}
		sess.mu.Lock()
		if sess.editing != 0 {
			for i := range sess.users {
				if sess.users[i].ID == sess.editing {
					u.ID = sess.editing
					sess.users[i] = u
				}
			}
		} else {
			u.ID = sess.nextID
			sess.nextID++
			sess.users = append(sess.users, u)
		}
		sess.editing = 0
		sess.mu.Unlock()

		for _, f := range formFields {
			ev.SetAttr(browser.ID(f), "value", "")
		}
		ev.SetAttr(browser.ID("registration-form-modal"), "hidden", "")
		sess.renderTable(ev)
	})

	d.On(memdriver.EventKeys, browser.ID("searchBox"), sess.renderTable)
}

func (sess *Session) bindWindows() {
	d := sess.Driver
	sample := sess.site.URL("/sample")

	d.OnClick(browser.ID("tabButton"), func(ev *memdriver.Event) { ev.OpenWindow(sample) })
	d.OnClick(browser.ID("windowButton"), func(ev *memdriver.Event) { ev.OpenWindow(sample) })
	d.OnClick(browser.ID("messageWindowButton"), func(ev *memdriver.Event) { ev.OpenWindowHTML(messageWindow()) })

	d.OnClick(browser.ID("alertButton"), func(ev *memdriver.Event) {
		ev.Alert(browser.DialogAlert, "You clicked a button", nil)
	})
	d.OnClick(browser.ID("timerAlertButton"), func(ev *memdriver.Event) {
		ev.AlertAfter(sess.site.timerDelay, browser.DialogAlert, "This alert appeared after 5 seconds", nil)
	})
	d.OnClick(browser.ID("confirmButton"), func(ev *memdriver.Event) {
		ev.Alert(browser.DialogConfirm, "Do you confirm action?", func(ev *memdriver.Event, ok bool, _ string) {
			if ok {
				ev.SetHTML(browser.ID("confirmResult"), `You selected <span class="text-success">Ok</span>`)
			} else {
				ev.SetHTML(browser.ID("confirmResult"), `You selected <span class="text-success">Cancel</span>`)
			}
		})
	})
	d.OnClick(browser.ID("promtButton"), func(ev *memdriver.Event) {
		ev.Alert(browser.DialogPrompt, "Please enter your name", func(ev *memdriver.Event, ok bool, text string) {
			if ok && text != "" {
				ev.SetHTML(browser.ID("promptResult"),
					fmt.Sprintf(`You entered <span class="text-success">%s</span>`, html.EscapeString(text)))
			}
		})
	})

	show := func(id string) memdriver.Handler {
		return func(ev *memdriver.Event) { ev.RemoveAttr(browser.ID(id), "hidden") }
	}
	hide := func(id string) memdriver.Handler {
		return func(ev *memdriver.Event) { ev.SetAttr(browser.ID(id), "hidden", "") }
	}
	d.OnClick(browser.ID("showSmallModal"), show("small-modal"))
	d.OnClick(browser.ID("closeSmallModal"), hide("small-modal"))
	d.OnClick(browser.ID("showLargeModal"), show("large-modal"))
	d.OnClick(browser.ID("closeLargeModal"), hide("large-modal"))
}

func (sess *Session) bindWidgets() {
	d := sess.Driver

	for i := range accordion {
		content := browser.CSSf("#section%dContent", i+1)
		collapsed := browser.CSSf("#section%dContent[style]", i+1)
		d.OnClick(browser.CSSf("#section%dHeading", i+1), func(ev *memdriver.Event) {
			if ev.Count(collapsed) > 0 {
				ev.RemoveAttr(content, "style")
			} else {
				ev.SetAttr(content, "style", "display: none;")
			}
		})
	}

	input := browser.CSS(".auto-complete__value-container--is-multi input")
	options := browser.CSS(".auto-complete__menu")
	d.On(memdriver.EventKeys, input, func(ev *memdriver.Event) {
		value := strings.TrimSpace(ev.ValueOf(input))
		if !strings.Contains(ev.Keys, browser.KeyEnter) {
			ev.SetText(browser.CSS(".auto-complete__option"), value)
			ev.RemoveAttr(options, "hidden")
			return
		}
		if value == "" {
			return
		}
		ev.AppendHTML(browser.CSS(".auto-complete__value-container--is-multi"),
			fmt.Sprintf(`<div class="auto-complete__multi-value"><div class="auto-complete__multi-value__label">%s</div></div>`, html.EscapeString(value)))
		ev.SetAttr(input, "value", "")
		ev.SetAttr(options, "hidden", "")
	})
}

var dayClass = regexp.MustCompile(`__day--(\d{3})`)

func (sess *Session) bindPracticeForm() {
	d := sess.Driver

	d.OnClick(browser.ID("dateOfBirthInput"), func(ev *memdriver.Event) {
		ev.RemoveAttr(browser.CSS(".react-datepicker"), "hidden")
	})
	d.OnClick(browser.CSS(".react-datepicker__day"), func(ev *memdriver.Event) {
		m := dayClass.FindStringSubmatch(ev.Attr("class"))
		if m == nil {
			return
		}
		day, _ := strconv.Atoi(m[1])
		month := ev.ValueOf(browser.CSS(".react-datepicker__month-select"))
		year := ev.ValueOf(browser.CSS(".react-datepicker__year-select"))
		if month == "" {
			month = "October"
		}
		if year == "" {
			year = "2026"
		}
		sess.mu.Lock()
		sess.dob = fmt.Sprintf("%02d %s,%s", day, month, year)
		sess.mu.Unlock()
		abbr := month
		if len(abbr) > 3 {
			abbr = abbr[:3]
		}
		ev.SetAttr(browser.ID("dateOfBirthInput"), "value", fmt.Sprintf("%02d %s %s", day, abbr, year))
		ev.SetAttr(browser.CSS(".react-datepicker"), "hidden", "")
	})

	subjects := browser.CSS(".subjects-auto-complete__value-container input")
	subjectMenu := browser.CSS(".subjects-auto-complete__menu")
	d.On(memdriver.EventKeys, subjects, func(ev *memdriver.Event) {
		value := strings.TrimSpace(ev.ValueOf(subjects))
		if !strings.Contains(ev.Keys, browser.KeyEnter) {
			ev.SetText(browser.CSS(".subjects-auto-complete__option"), value)
			ev.RemoveAttr(subjectMenu, "hidden")
			return
		}
		if value == "" {
			return
		}
		sess.mu.Lock()
		sess.subjects = append(sess.subjects, value)
		sess.mu.Unlock()
		ev.SetAttr(subjects, "value", "")
		ev.SetAttr(subjectMenu, "hidden", "")
	})

	dropdown := func(box, list string, pick func(string)) {
		d.OnClick(browser.ID(box), func(ev *memdriver.Event) {
			ev.RemoveAttr(browser.ID(list), "hidden")
		})
		d.OnClick(browser.CSSf("#%s div", list), func(ev *memdriver.Event) {
			value := ev.Attr("data-value")
			sess.mu.Lock()
			pick(value)
			sess.mu.Unlock()
			ev.SetText(browser.CSSf("#%s .css-placeholder", box), value)
			ev.SetAttr(browser.ID(list), "hidden", "")
		})
	}
	dropdown("state", "state-menu", func(v string) { sess.state = v })
	dropdown("city", "city-menu", func(v string) { sess.city = v })

	d.OnClick(browser.CSS(".practice-form-wrapper #submit"), func(ev *memdriver.Event) {
		v := func(id string) string { return strings.TrimSpace(ev.ValueOf(browser.ID(id))) }
		checked := func(prefix string, labels []string) []string {
			var out []string
			for i, l := range labels {
				if ev.Count(browser.CSSf("#%s-%d[checked]", prefix, i+1)) > 0 {
					out = append(out, l)
				}
			}
			return out
		}
		picture := v("uploadPicture")
		if i := strings.LastIndexAny(picture, `\/`); i >= 0 {
			picture = picture[i+1:]
		}
		if v("firstName") == "" || v("lastName") == "" || len(v("userNumber")) != 10 {
			return
		}

		sess.mu.Lock()
		rows := [][2]string{
			{"Student Name", v("firstName") + " " + v("lastName")},
			{"Student Email", v("userEmail")},
			{"Gender", strings.Join(checked("gender-radio", []string{"Male", "Female", "Other"}), ", ")},
			{"Mobile", v("userNumber")},
			{"Date of Birth", sess.dob},
			{"Subjects", strings.Join(sess.subjects, ", ")},
			{"Hobbies", strings.Join(checked("hobbies-checkbox", []string{"Sports", "Reading", "Music"}), ", ")},
			{"Picture", picture},
			{"Address", v("currentAddress")},
			{"State and City", strings.TrimSpace(sess.state + " " + sess.city)},
		}
		sess.mu.Unlock()

		var b strings.Builder
		b.WriteString(`<div class="modal-content"><div id="example-modal-sizes-title-lg">Thanks for submitting the form</div>`)
		b.WriteString(`<table class="table"><thead><tr><th>Label</th><th>Values</th></tr></thead><tbody>`)
		for _, r := range rows {
			fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td></tr>`, html.EscapeString(r[0]), html.EscapeString(r[1]))
		}
		b.WriteString(`</tbody></table><button id="closeLargeModal" type="button">Close</button></div>`)
		ev.SetHTML(browser.ID("submission"), b.String())
	})
}
