package validation

import (
	"testing"
)

func TestValidateVarCustomTags(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		value string
		tag   string
		valid bool
	}{
		{"CSCE 121", "coursecode", true},
		{"MATH 151", "coursecode", true},
		{"csce 121", "coursecode", false},
		{"CSCE121", "coursecode", false},
		{"CSCE 12", "coursecode", false},
		{"Fall 2024", "termlabel", true},
		{"Winter 2025", "termlabel", true},
		{"Autumn 2024", "termlabel", false},
		{"Fall 1999", "termlabel", false},
		{"Fall2024", "termlabel", false},
	}
	for _, tc := range cases {
		err := v.ValidateVar(tc.value, tc.tag)
		if tc.valid && err != nil {
			t.Errorf("%q should satisfy %s, got %v", tc.value, tc.tag, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%q should fail %s", tc.value, tc.tag)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("student@tamu.edu") {
		t.Error("plain address should validate")
	}
	if ValidateEmail("not-an-email") {
		t.Error("address without a domain should fail")
	}
	if ValidateEmail("a@b") {
		t.Error("address without a TLD should fail")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  Jane Doe\x00 "); got != "Jane Doe" {
		t.Errorf("expected null bytes and padding stripped, got %q", got)
	}
}
