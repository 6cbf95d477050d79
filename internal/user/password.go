package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrWeakPassword wraps every password-policy rejection.
var ErrWeakPassword = errors.New("password too weak")

// ErrInvalidEmail rejects malformed email addresses.
var ErrInvalidEmail = errors.New("invalid email address")

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// commonPasswords is the deny-list of passwords seen constantly in breach
// dumps; checked case-insensitively.
var commonPasswords = map[string]struct{}{
	"123456":      {},
	"password":    {},
	"qwerty":      {},
	"abc123":      {},
	"admin123":    {},
	"welcome":     {},
	"monkey123":   {},
	"football":    {},
	"password123": {},
	"12345678":    {},
}

const specialChars = `!@#$%^&*(),.?":{}|<>`

// CheckPassword enforces the registration password policy: at least 8
// characters with an upper-case letter, a lower-case letter, a digit and a
// special character, and not on the common-password deny-list.
func CheckPassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters", ErrWeakPassword)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return fmt.Errorf("%w: must contain an upper-case letter", ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: must contain a lower-case letter", ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
	case !hasSpecial:
		return fmt.Errorf("%w: must contain a special character", ErrWeakPassword)
	}

	if _, common := commonPasswords[strings.ToLower(password)]; common {
		return fmt.Errorf("%w: too common", ErrWeakPassword)
	}
	return nil
}

// CheckEmail validates the address format. Deliverability is not checked.
func CheckEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	return nil
}
