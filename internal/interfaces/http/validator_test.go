package http

import "testing"

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.com", "user.name@sub.domain.org"}
	invalid := []string{"", "no-at-sign", "a@b", "a b@c.com"}

	for _, s := range valid {
		if !ValidEmail(s) {
			t.Fatalf("ValidEmail(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Fatalf("ValidEmail(%q) = true", s)
		}
	}
}

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{"5511999", "+55 (11) 99999-0000", "5511888"}
	invalid := []string{"", "abc", "+", "5511999@s.whatsapp.net"}

	for _, s := range valid {
		if !ValidPhoneNumber(s) {
			t.Fatalf("ValidPhoneNumber(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if ValidPhoneNumber(s) {
			t.Fatalf("ValidPhoneNumber(%q) = true", s)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("a\x00b"); got != "ab" {
		t.Fatalf("null bytes must be removed, got %q", got)
	}
}
