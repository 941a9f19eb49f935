package util

import (
	"encoding/json"
	"testing"
)

func TestValidateDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-01-01",
		"2024-12-31",
		"2025-06-15",
	}

	for _, date := range testCases {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestValidateDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		if err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateMood(t *testing.T) {
	for _, mood := range []string{"", "😊", "😭", "🙂"} {
		if err := ValidateMood(mood); err != nil {
			t.Errorf("ValidateMood(%q) error = %v, want nil", mood, err)
		}
	}

	if err := ValidateMood("way-too-long-mood-token"); err == nil {
		t.Error("overlong mood should be rejected")
	}
}

func TestNormalizeTags(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want string
	}{
		{"array", `["travel","food"]`, "travel,food"},
		{"array with blanks", `[" travel ","","food"]`, "travel,food"},
		{"string passthrough", `"travel,food"`, "travel,food"},
		{"empty array", `[]`, ""},
		{"empty string", `""`, ""},
	}

	for _, tc := range testCases {
		got, err := NormalizeTags(json.RawMessage(tc.raw))
		if err != nil {
			t.Errorf("%s: NormalizeTags(%s) error = %v", tc.name, tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: NormalizeTags(%s) = %q, want %q", tc.name, tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeTags_Missing(t *testing.T) {
	got, err := NormalizeTags(nil)
	if err != nil || got != "" {
		t.Errorf("NormalizeTags(nil) = (%q, %v), want (\"\", nil)", got, err)
	}
}

func TestNormalizeTags_WrongType(t *testing.T) {
	if _, err := NormalizeTags(json.RawMessage(`42`)); err == nil {
		t.Error("numeric tags should be rejected")
	}
	if _, err := NormalizeTags(json.RawMessage(`{"a":1}`)); err == nil {
		t.Error("object tags should be rejected")
	}
}
