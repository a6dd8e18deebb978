// internal/pages/webtable.go
package pages

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

var (
	tableAdd    = browser.XPath("//button[@id='addNewRecordButton']")
	tableSearch = browser.XPath("//input[@id='searchBox']")
	tableRows   = browser.CSS(".rt-tbody .rt-tr-group")
	tableCells  = browser.CSS(".rt-td")

	formFirstName  = browser.XPath("//input[@id='firstName']")
	formLastName   = browser.XPath("//input[@id='lastName']")
	formEmail      = browser.XPath("//input[@id='userEmail']")
	formAge        = browser.XPath("//input[@id='age']")
	formSalary     = browser.XPath("//input[@id='salary']")
	formDepartment = browser.XPath("//input[@id='department']")
	formSubmit     = browser.XPath("//button[@id='submit']")
)

func rowButton(index int, title string) browser.Locator {
	return browser.CSSf(`.rt-tbody .rt-tr-group:nth-child(%d) span[title="%s"]`, index+1, title)
}

// Record is one row of the web table. JSON names match the table headers
// used in the fixture documents.
type Record struct {
	FirstName  string `json:"First Name"`
	LastName   string `json:"Last Name"`
	Age        int    `json:"Age"`
	Email      string `json:"Email"`
	Salary     int    `json:"Salary"`
	Department string `json:"Department"`
}

// Cells returns the record in column order.
func (r Record) Cells() []string {
	return []string{r.FirstName, r.LastName, strconv.Itoa(r.Age), r.Email, strconv.Itoa(r.Salary), r.Department}
}

// WebTablePage is the editable, searchable user table.
type WebTablePage struct {
	*page.Base
}

func NewWebTablePage(b *page.Base) *WebTablePage {
	return &WebTablePage{Base: b.Named("page.webtable")}
}

// Rows returns every row group, including the empty padding rows the
// table renders below the data.
func (p *WebTablePage) Rows(ctx context.Context) []browser.Element {
	return p.Elements(ctx, tableRows)
}

func cellsOf(ctx context.Context, row browser.Element) []string {
	cells, err := row.FindAll(ctx, tableCells)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		t, err := c.Text(ctx)
		if err != nil {
			return nil
		}
		out = append(out, strings.TrimSpace(t))
	}
	return out
}

// RowData returns the cell texts of the row at index, or nil when out of
// range.
func (p *WebTablePage) RowData(ctx context.Context, index int) []string {
	rows := p.Rows(ctx)
	if index < 0 || index >= len(rows) {
		p.Log.Warn("row index out of range", zap.Int("index", index), zap.Int("rows", len(rows)))
		return nil
	}
	return cellsOf(ctx, rows[index])
}

// emailColumn is the Email cell: First Name, Last Name, Age, Email, ...
const emailColumn = 3

// FindRowByEmail returns the index of the first row whose Email cell is
// exactly email, or -1.
func (p *WebTablePage) FindRowByEmail(ctx context.Context, email string) int {
	for i, row := range p.Rows(ctx) {
		cells := cellsOf(ctx, row)
		if len(cells) > emailColumn && cells[emailColumn] == email {
			return i
		}
	}
	return -1
}

// RecordCount counts rows holding data. Padding rows have blank cells.
func (p *WebTablePage) RecordCount(ctx context.Context) int {
	n := 0
	for _, row := range p.Rows(ctx) {
		if text, err := row.Text(ctx); err == nil && strings.TrimSpace(text) != "" {
			n++
		}
	}
	return n
}

// Search replaces the search box contents with keyword.
func (p *WebTablePage) Search(ctx context.Context, keyword string) bool {
	return p.Fill(ctx, tableSearch, "search box", keyword)
}

func (p *WebTablePage) ClickAdd(ctx context.Context) bool {
	return p.ScrollClick(ctx, tableAdd, "add button")
}

// FillForm clears and fills every field of the registration dialog.
func (p *WebTablePage) FillForm(ctx context.Context, r Record) bool {
	return p.Fill(ctx, formFirstName, "first name", r.FirstName) &&
		p.Fill(ctx, formLastName, "last name", r.LastName) &&
		p.Fill(ctx, formEmail, "email", r.Email) &&
		p.Fill(ctx, formAge, "age", strconv.Itoa(r.Age)) &&
		p.Fill(ctx, formSalary, "salary", strconv.Itoa(r.Salary)) &&
		p.Fill(ctx, formDepartment, "department", r.Department)
}

func (p *WebTablePage) Submit(ctx context.Context) bool {
	return p.ScrollClick(ctx, formSubmit, "submit button")
}

// AddRecord opens the dialog, fills it and submits.
func (p *WebTablePage) AddRecord(ctx context.Context, r Record) bool {
	return p.ClickAdd(ctx) && p.FillForm(ctx, r) && p.Submit(ctx)
}

func (p *WebTablePage) EditByIndex(ctx context.Context, index int) bool {
	return p.ScrollClick(ctx, rowButton(index, "Edit"), "edit button")
}

func (p *WebTablePage) DeleteByIndex(ctx context.Context, index int) bool {
	return p.ScrollClick(ctx, rowButton(index, "Delete"), "delete button")
}

// EditByEmail opens the edit dialog of the row mentioning email.
func (p *WebTablePage) EditByEmail(ctx context.Context, email string) bool {
	i := p.FindRowByEmail(ctx, email)
	if i < 0 {
		p.Log.Warn("no row for email, nothing to edit", zap.String("email", email))
		return false
	}
	return p.EditByIndex(ctx, i)
}

// DeleteByEmail removes the row whose Email cell is email.
func (p *WebTablePage) DeleteByEmail(ctx context.Context, email string) bool {
	i := p.FindRowByEmail(ctx, email)
	if i < 0 {
		p.Log.Warn("no row for email, nothing to delete", zap.String("email", email))
		return false
	}
	return p.DeleteByIndex(ctx, i)
}
