package utils

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword is returned when a password does not satisfy the
// strength policy. The same message is used at the HTTP boundary and
// inside the recovery service, which re-checks instead of trusting
// the boundary.
var ErrWeakPassword = errors.New("password too weak: it must be at least 8 characters and contain uppercase, lowercase, number, and special character")

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
// A malformed hash is a non-match, never an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePasswordStrength enforces the password policy: minimum
// length 8 with at least one uppercase letter, one lowercase letter,
// one digit and one character that is neither letter nor digit.
func ValidatePasswordStrength(plain string) error {
	var upper, lower, digit, special bool
	n := 0
	for _, r := range plain {
		n++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if n < 8 || !upper || !lower || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}
