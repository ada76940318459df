package cryptox

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the fixed bcrypt work factor for stored credentials.
const PasswordHashCost = 10

const minPasswordLength = 8

// HashPassword returns a bcrypt digest with a per-call random salt embedded
// in the output.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest.
// Comparison cost tracks the digest, not the raw secret length.
func VerifyPassword(password, encodedHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
		return errors.New("password does not match")
	}
	return nil
}

// ValidatePasswordStrength checks the password policy: minimum length plus at
// least one uppercase letter, lowercase letter, digit, and special character.
// It returns every violated rule rather than stopping at the first, so the
// caller can surface the full list.
func ValidatePasswordStrength(password string) []string {
	var reasons []string

	if len(password) < minPasswordLength {
		reasons = append(reasons, fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	if !upper {
		reasons = append(reasons, "password must contain at least one uppercase letter")
	}
	if !lower {
		reasons = append(reasons, "password must contain at least one lowercase letter")
	}
	if !digit {
		reasons = append(reasons, "password must contain at least one number")
	}
	if !special {
		reasons = append(reasons, "password must contain at least one special character")
	}

	return reasons
}
