// File: internal/common/password.go
package common

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a plaintext password against a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const MinPasswordLength = 8

// ValidatePasswordComplexity enforces the signup password policy: at least
// MinPasswordLength characters with an upper-case letter, a lower-case
// letter, a digit and a special character.
func ValidatePasswordComplexity(password string) error {
	if len(password) < MinPasswordLength {
		return ErrBadRequest.WithDetails("Password must be at least 8 characters long.")
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
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrBadRequest.WithDetails("Password must contain upper and lower case letters, a digit and a special character.")
	}
	return nil
}
