package utils

import (
	"regexp"
	"testing"
)

func TestGenerateShareTokenFormat(t *testing.T) {
	hex32 := regexp.MustCompile(`^[0-9a-f]{32}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := GenerateShareToken()
		if !hex32.MatchString(tok) {
			t.Fatalf("token %q is not 32 lowercase hex chars", tok)
		}
		if seen[tok] {
			t.Fatalf("token %q repeated", tok)
		}
		seen[tok] = true
	}
}

func TestGenerateReferenceFormat(t *testing.T) {
	ref := GenerateReference()
	if !regexp.MustCompile(`^[0-9A-F]{8}$`).MatchString(ref) {
		t.Errorf("reference %q is not 8 uppercase hex chars", ref)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "parent+kid@example.org", "host.name@camps.io"}
	invalid := []string{"", "plainaddress", "@no-local.com", "no-at.com", "spaces in@x.com", "a@b"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}
