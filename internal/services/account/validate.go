// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package account

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BirthDateLayout is the accepted birth date format.
const BirthDateLayout = "2006-01-02"

var (
	nameRegexp  = regexp.MustCompile(`^[a-zA-Z ]*$`)
	emailRegexp = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)
)

// SignupParams holds the fields submitted at registration.
type SignupParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// normalize trims surrounding whitespace from every field.
func (p SignupParams) normalize() SignupParams {
	return SignupParams{
		FirstName: strings.TrimSpace(p.FirstName),
		LastName:  strings.TrimSpace(p.LastName),
		BirthDate: strings.TrimSpace(p.BirthDate),
		Email:     strings.TrimSpace(p.Email),
		Password:  strings.TrimSpace(p.Password),
	}
}

type check struct {
	value any
	code  string
	rules []validation.Rule
}

// Validate checks normalized params in a fixed order and reports the
// first failing rule.
func (p SignupParams) Validate() error {
	required := func(v string) check {
		return check{v, CodeSignupFieldsEmpty, []validation.Rule{validation.Required}}
	}

	checks := []check{
		required(p.FirstName),
		required(p.LastName),
		required(p.BirthDate),
		required(p.Email),
		required(p.Password),
		{p.FirstName, CodeSignupInvalidFirstName, []validation.Rule{validation.Match(nameRegexp)}},
		{p.LastName, CodeSignupInvalidLastName, []validation.Rule{validation.Match(nameRegexp)}},
		{p.BirthDate, CodeSignupInvalidBirthDate, []validation.Rule{validation.Date(BirthDateLayout)}},
		{p.Email, CodeSignupInvalidEmail, []validation.Rule{validation.Match(emailRegexp)}},
	}
	checks = append(checks, passwordChecks(p.Password)...)

	return runChecks(checks)
}

func validatePassword(password string) error {
	return runChecks(passwordChecks(password))
}

// passwordChecks bounds a password by characters below and by bytes above.
func passwordChecks(password string) []check {
	return []check{
		{password, CodePasswordTooShort, []validation.Rule{validation.Required, validation.RuneLength(MinPasswordLength, 0)}},
		{password, CodePasswordTooLong, []validation.Rule{validation.Length(0, MaxPasswordBytes)}},
	}
}

// httpURL accepts absolute http and https URLs.
var httpURL = validation.By(func(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http or https URL")
	}
	return nil
})

func validateRedirectURL(redirectURL string) error {
	return runChecks([]check{
		{redirectURL, CodeResetInvalidRedirect, []validation.Rule{validation.Required, httpURL}},
	})
}

func runChecks(checks []check) error {
	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return newError(KindValidation, c.code, err)
		}
	}
	return nil
}
