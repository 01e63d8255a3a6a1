package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxEmailLength   = 255
	MaxNumberLength  = 32
	MaxTextLength    = 10000
	MinPasswordChars = 6
)

var (
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	numberPattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]*$`)
)

// ValidEmail checks basic email shape
func ValidEmail(s string) bool {
	if s == "" || len(s) > MaxEmailLength {
		return false
	}
	return emailPattern.MatchString(s)
}

// ValidPhoneNumber checks a dialable number (digits with optional formatting)
func ValidPhoneNumber(s string) bool {
	if s == "" || len(s) > MaxNumberLength {
		return false
	}
	return numberPattern.MatchString(s)
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}
