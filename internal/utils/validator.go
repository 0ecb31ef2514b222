package utils

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordSymbols is the fixed punctuation set accepted as the special
// character in passwords.
const passwordSymbols = `!@#$%^&*()_+-=[]{}|;:,.<>?`

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// PasswordViolations returns every strength rule the password violates.
// An empty slice means the password is acceptable. Rules are checked
// together so the caller can report all of them at once.
func PasswordViolations(password string) []string {
	var violations []string

	if len(password) < 8 {
		violations = append(violations, "must be at least 8 characters long")
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSymbol := false

	for _, char := range password {
		switch {
		case 'A' <= char && char <= 'Z':
			hasUpper = true
		case 'a' <= char && char <= 'z':
			hasLower = true
		case '0' <= char && char <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, char):
			hasSymbol = true
		}
	}

	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if !hasSymbol {
		violations = append(violations, "must contain a special character")
	}

	return violations
}

// ValidatePassword reports whether the password satisfies every strength rule
func ValidatePassword(password string) bool {
	return len(PasswordViolations(password)) == 0
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
