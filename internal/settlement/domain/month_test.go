package settlement

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	month, err := ParseMonth("2025-06")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	if got := month.String(); got != "2025-06" {
		t.Fatalf("expected 2025-06, got %s", got)
	}
	if got := month.Days(); got != 30 {
		t.Fatalf("expected 30 days, got %d", got)
	}
	if got := month.Start(); !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start: %v", got)
	}
	if got := month.End(); !got.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end: %v", got)
	}
}

func TestParseMonth_Invalid(t *testing.T) {
	for _, value := range []string{"", "2025", "2025-13", "2025-00", "not-a-month", "2025-06-01"} {
		if _, err := ParseMonth(value); !errors.Is(err, ErrInvalidMonth) {
			t.Fatalf("expected ErrInvalidMonth for %q, got %v", value, err)
		}
	}
}

func TestMonthDays_LeapFebruary(t *testing.T) {
	month, err := ParseMonth("2024-02")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	if got := month.Days(); got != 29 {
		t.Fatalf("expected 29 days, got %d", got)
	}
}

func TestMonthContains(t *testing.T) {
	month, _ := ParseMonth("2025-06")

	inside := time.Date(2025, 6, 30, 23, 50, 0, 0, time.UTC)
	if !month.Contains(inside) {
		t.Fatalf("expected last day to be contained")
	}
	if month.Contains(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected next month start to be outside")
	}
	if month.Contains(time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected previous month end to be outside")
	}
	if month.Contains(time.Time{}) {
		t.Fatalf("expected zero date to be outside")
	}
}

func TestMonthOf(t *testing.T) {
	month := MonthOf(time.Date(2025, 6, 17, 9, 30, 0, 0, time.UTC))
	if got := month.String(); got != "2025-06" {
		t.Fatalf("expected 2025-06, got %s", got)
	}
}
