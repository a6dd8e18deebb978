// internal/cases/registration.go
package cases

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/UIProbe/internal/pages"
	"github.com/valpere/UIProbe/internal/suite"
)

var hobbies = []string{"Sports", "Reading", "Music"}

func registrationCases() []suite.Case {
	return []suite.Case{
		{Module: "registration", Name: "practice_form", Fixture: "registration_form", Tags: []string{TagSmoke, TagFunctional}, Run: registrationPracticeForm},
	}
}

func registrationPracticeForm(t *suite.T) {
	t.Open("/forms")
	reg := pages.NewRegistrationPage(t.Page())
	ctx, data := t.Context(), t.Data()

	var s pages.Student
	t.Must(data.Decode("UserOne", &s))
	s.Subjects = data.Strings("UserOne.Subjects")
	gender := data.String("Expected.Gender")

	step := func(name string, ok bool) {
		t.Step(name)
		require.True(t, ok, "step %q", name)
	}
	step("open form", reg.OpenForm(ctx))
	step("first name", reg.EnterFirstName(ctx, s.FirstName))
	step("last name", reg.EnterLastName(ctx, s.LastName))
	step("email", reg.EnterEmail(ctx, s.Email))
	step("gender", reg.SelectGender(ctx, gender))
	step("mobile", reg.EnterMobile(ctx, s.Mobile))
	step("date of birth", reg.EnterDateOfBirth(ctx, s.DateOfBirth))
	for _, sub := range s.Subjects {
		step("subject "+sub, reg.AddSubject(ctx, sub))
	}
	step("hobbies", reg.SelectHobbies(ctx, hobbies...))

	picture, ok := reg.UploadPicture(ctx, t.DataPath(s.UploadFile)).Get()
	step("picture", ok)

	step("address", reg.EnterAddress(ctx, s.CurrentAddress))
	step("state", reg.SelectState(ctx, s.State))
	step("city", reg.SelectCity(ctx, s.City))
	step("submit", reg.Submit(ctx))

	result := reg.Result(ctx)
	want := map[string]string{
		"Student Name":   s.FirstName + " " + s.LastName,
		"Student Email":  s.Email,
		"Gender":         gender,
		"Mobile":         s.Mobile,
		"Date of Birth":  data.String("Expected.Date of Birth"),
		"Subjects":       data.String("Expected.Subjects"),
		"Hobbies":        data.String("Expected.Hobbies"),
		"Picture":        picture,
		"Address":        s.CurrentAddress,
		"State and City": s.State + " " + s.City,
	}
	for label, v := range want {
		assert.Equal(t, v, result[label], label)
	}
}
