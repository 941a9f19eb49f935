package util

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ValidateDate checks the entry date format (must be YYYY-MM-DD).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateMood checks the mood token (optional, short).
func ValidateMood(mood string) error {
	if len(mood) > 16 {
		return fmt.Errorf("mood too long, max 16 bytes")
	}
	return nil
}

// NormalizeTags converts a raw tags value into the stored comma-joined form.
// Older clients send a string, newer ones an array; both are accepted.
func NormalizeTags(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", fmt.Errorf("tags must be a string or an array of strings")
	}

	parts := make([]string, 0, len(list))
	for _, t := range list {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ","), nil
}
