package domain

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var usernameRe = regexp.MustCompile(`^[\w\-.]+$`)

// ValidateUsername enforces the registration username rules.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 50 {
		return fmt.Errorf("username must be between 3 and 50 characters")
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username contains disallowed characters")
	}
	return nil
}

// ValidateSecret enforces the configured minimum secret length.
func ValidateSecret(secret string, minLen int) error {
	if utf8.RuneCountInString(secret) < minLen {
		return fmt.Errorf("password must be at least %d characters", minLen)
	}
	return nil
}

// ClampSkillValue bounds a skill value to the valid 0..100 range.
func ClampSkillValue(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
