package domain

import (
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	when := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)
	if got := FormatTimestamp(&when, PlaceholderUnknown); got != "09/03/2025" {
		t.Errorf("expected 09/03/2025, got %s", got)
	}

	if got := FormatTimestamp(nil, PlaceholderRecently); got != PlaceholderRecently {
		t.Errorf("expected %s for nil, got %s", PlaceholderRecently, got)
	}

	var zero time.Time
	if got := FormatTimestamp(&zero, PlaceholderUnknown); got != PlaceholderUnknown {
		t.Errorf("expected %s for zero time, got %s", PlaceholderUnknown, got)
	}
}
