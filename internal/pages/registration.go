// internal/pages/registration.go
package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/valpere/UIProbe/internal/browser"
	"github.com/valpere/UIProbe/internal/page"
)

var (
	regFirstName   = browser.XPath("//input[@id='firstName']")
	regLastName    = browser.XPath("//input[@id='lastName']")
	regEmail       = browser.XPath("//input[@id='userEmail']")
	regMobile      = browser.XPath("//input[@id='userNumber']")
	regBirthInput  = browser.XPath("//input[@id='dateOfBirthInput']")
	regMonthSelect = browser.XPath("//select[@class='react-datepicker__month-select']")
	regYearSelect  = browser.XPath("//select[@class='react-datepicker__year-select']")
	regSubjects    = browser.CSS(".subjects-auto-complete__value-container input")
	regSubjectMenu = browser.CSS(".subjects-auto-complete__menu")
	regAddress     = browser.XPath("//textarea[@id='currentAddress']")
	regPicture     = browser.XPath("//input[@id='uploadPicture']")
	regState       = browser.XPath("//div[contains(text(),'Select State')]")
	regCity        = browser.XPath("//div[contains(text(),'Select City')]")
	regSubmit      = browser.XPath("//button[@id='submit']")
	regResultCells = browser.XPath("//tbody/tr/td")
)

func regLabel(text string) browser.Locator {
	return browser.XPathf("//label[normalize-space()='%s']", text)
}

func regBirthDay(day int) browser.Locator {
	return browser.XPathf("//div[contains(@class, 'react-datepicker__day') and not(contains(@class, 'outside-month')) and text()='%d']", day)
}

func regOption(text string) browser.Locator {
	return browser.XPathf("//div[contains(text(), '%s')]", text)
}

// Student is the practice form input. JSON names follow the fixture
// documents; subjects are read separately to keep their order.
type Student struct {
	FirstName      string   `json:"FirstName"`
	LastName       string   `json:"LastName"`
	Email          string   `json:"UserEmail"`
	Mobile         string   `json:"MobileNumber"`
	DateOfBirth    string   `json:"DateOfBirth"`
	Subjects       []string `json:"-"`
	UploadFile     string   `json:"UploadFile"`
	CurrentAddress string   `json:"CurrentAddress"`
	State          string   `json:"State"`
	City           string   `json:"City"`
}

const birthLayout = "2-January-2006"

var titleCase = cases.Title(language.English)

// ParseBirthDate reads a "dd-Month-yyyy" date. The month name is matched
// without regard to case.
func ParseBirthDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date of birth %q is not dd-Month-yyyy", s)
	}
	parts[1] = titleCase.String(parts[1])
	t, err := time.Parse(birthLayout, strings.Join(parts, "-"))
	if err != nil {
		return time.Time{}, fmt.Errorf("date of birth %q: %w", s, err)
	}
	return t, nil
}

// FormatBirthDate renders a date the way the submission summary shows it,
// e.g. "17 May,1998".
func FormatBirthDate(t time.Time) string {
	return t.Format("02 January,2006")
}

// RegistrationPage is the student practice form.
type RegistrationPage struct {
	*page.Base
}

func NewRegistrationPage(b *page.Base) *RegistrationPage {
	return &RegistrationPage{Base: b.Named("page.registration")}
}

func (p *RegistrationPage) OpenForm(ctx context.Context) bool {
	return openSection(ctx, p.Base, SectionPracticeForm)
}

// enter focuses loc through the click helper, then types text.
func (p *RegistrationPage) enter(ctx context.Context, loc browser.Locator, name, text string) bool {
	return p.ScrollClick(ctx, loc, name) && p.Type(ctx, loc, name, text)
}

func (p *RegistrationPage) EnterFirstName(ctx context.Context, v string) bool {
	return p.enter(ctx, regFirstName, "first name", v)
}

func (p *RegistrationPage) EnterLastName(ctx context.Context, v string) bool {
	return p.enter(ctx, regLastName, "last name", v)
}

func (p *RegistrationPage) EnterEmail(ctx context.Context, v string) bool {
	return p.enter(ctx, regEmail, "email", v)
}

// SelectGender clicks the label of a gender option ("Male", "Female",
// "Other").
func (p *RegistrationPage) SelectGender(ctx context.Context, gender string) bool {
	return p.ScrollClick(ctx, regLabel(gender), "gender "+gender)
}

func (p *RegistrationPage) EnterMobile(ctx context.Context, v string) bool {
	return p.enter(ctx, regMobile, "mobile number", v)
}

// EnterDateOfBirth picks a "dd-Month-yyyy" date in the calendar popup.
func (p *RegistrationPage) EnterDateOfBirth(ctx context.Context, dob string) bool {
	t, err := ParseBirthDate(dob)
	if err != nil {
		p.Log.Warn("invalid date of birth", zap.String("value", dob), zap.Error(err))
		return false
	}
	return p.ScrollClick(ctx, regBirthInput, "date of birth input") &&
		p.Select(ctx, regMonthSelect, "month dropdown", t.Month().String()) &&
		p.Select(ctx, regYearSelect, "year dropdown", strconv.Itoa(t.Year())) &&
		p.ScrollClick(ctx, regBirthDay(t.Day()), fmt.Sprintf("day %d", t.Day()))
}

// AddSubject types a subject and accepts the suggestion.
func (p *RegistrationPage) AddSubject(ctx context.Context, subject string) bool {
	if !p.ScrollClick(ctx, regSubjects, "subjects input") ||
		!p.Type(ctx, regSubjects, "subjects input", subject) {
		return false
	}
	if !p.IsDisplayedWithin(ctx, regSubjectMenu, "subject suggestions", p.Timeouts.Explicit) {
		return false
	}
	return p.Type(ctx, regSubjects, "subjects input", browser.KeyEnter)
}

// SelectHobbies ticks each hobby by its label.
func (p *RegistrationPage) SelectHobbies(ctx context.Context, hobbies ...string) bool {
	for _, h := range hobbies {
		if !p.ScrollClick(ctx, regLabel(h), "hobby "+h) {
			return false
		}
	}
	return true
}

// UploadPicture selects a file and returns the file name the form reports.
func (p *RegistrationPage) UploadPicture(ctx context.Context, path string) page.Optional[string] {
	if !p.Upload(ctx, regPicture, "picture input", path) {
		return page.None[string]()
	}
	return page.Map(p.Value(ctx, regPicture, "picture input"), func(v string) string {
		if i := strings.LastIndexAny(v, `\/`); i >= 0 {
			return v[i+1:]
		}
		return v
	})
}

func (p *RegistrationPage) EnterAddress(ctx context.Context, v string) bool {
	return p.enter(ctx, regAddress, "current address", v)
}

// SelectState opens the state dropdown and picks name.
func (p *RegistrationPage) SelectState(ctx context.Context, name string) bool {
	return p.ScrollClick(ctx, regState, "state dropdown") &&
		p.ScrollClick(ctx, regOption(name), "state "+name)
}

func (p *RegistrationPage) SelectCity(ctx context.Context, name string) bool {
	return p.ScrollClick(ctx, regCity, "city dropdown") &&
		p.ScrollClick(ctx, regOption(name), "city "+name)
}

func (p *RegistrationPage) Submit(ctx context.Context) bool {
	return p.ScrollClick(ctx, regSubmit, "submit button")
}

// Result reads the submission summary as label to value pairs.
func (p *RegistrationPage) Result(ctx context.Context) map[string]string {
	cells := p.Texts(ctx, regResultCells)
	out := make(map[string]string, len(cells)/2)
	for i := 0; i+1 < len(cells); i += 2 {
		out[cells[i]] = cells[i+1]
	}
	return out
}
