package services

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/rentacat/rentacat/internal/common"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRe  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s'-]+$`)
)

func validateEmail(email string) error {
	if email == "" || len(email) > 255 || !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", common.ErrValidation)
	}
	return nil
}

func validateName(field, name string) error {
	if len(name) < 2 || len(name) > 100 || !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %s must be 2-100 characters, letters only", common.ErrValidation, field)
	}
	return nil
}

// validatePassword enforces the registration policy: 8-100 characters with
// at least one upper-case letter, one lower-case letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrValidation)
	}
	if len(password) > 100 {
		return fmt.Errorf("%w: password must be at most 100 characters", common.ErrValidation)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("%w: password must contain an upper-case letter, a lower-case letter and a digit", common.ErrValidation)
	}

	return nil
}

func validateDescription(description string) error {
	if len(description) > 1000 {
		return fmt.Errorf("%w: description must be at most 1000 characters", common.ErrValidation)
	}
	return nil
}
