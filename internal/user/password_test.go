package user

import (
	"errors"
	"testing"
)

func TestCheckPassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Str0ng!pass", true},
		{"valid with punctuation", "Film?Fan.2024", true},
		{"too short", "Ab1!xyz", false},
		{"no upper", "weak1pass!", false},
		{"no lower", "WEAK1PASS!", false},
		{"no digit", "WeakPass!!", false},
		{"no special", "WeakPass11", false},
		{"common password", "password123", false},
		{"common uppercased", "PASSWORD123", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPassword(tc.password)
			if tc.ok && err != nil {
				t.Fatalf("CheckPassword(%q) = %v, want nil", tc.password, err)
			}
			if !tc.ok && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("CheckPassword(%q) = %v, want ErrWeakPassword", tc.password, err)
			}
		})
	}
}

func TestCheckEmail(t *testing.T) {
	for _, email := range []string{"alice@example.com", "a.b-c@mail.example.org", "x_1@host.io"} {
		if err := CheckEmail(email); err != nil {
			t.Errorf("CheckEmail(%q) = %v, want nil", email, err)
		}
	}
	for _, email := range []string{"", "alice", "alice@", "@example.com", "a b@example.com", "alice@example"} {
		if err := CheckEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("CheckEmail(%q) = %v, want ErrInvalidEmail", email, err)
		}
	}
}
