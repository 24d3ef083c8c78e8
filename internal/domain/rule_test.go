package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCanonicalSubreddit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase passthrough", "golang", "golang"},
		{"uppercase folded", "GoLang", "golang"},
		{"surrounding whitespace", "  golang  ", "golang"},
		{"r/ prefix stripped", "r/golang", "golang"},
		{"R/ prefix stripped", "R/GoLang", "golang"},
		{"prefix inside name kept", "programming", "programming"},
		{"whitespace then prefix", "  r/AskReddit ", "askreddit"},
		{"empty", "", ""},
		{"only whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalSubreddit(tt.input); got != tt.want {
				t.Errorf("CanonicalSubreddit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	got, err := ParseWeekday("  WEDNESDAY ")
	if err != nil {
		t.Fatalf("ParseWeekday returned error: %v", err)
	}
	if got != Wednesday {
		t.Errorf("expected Wednesday, got %v", got)
	}

	if _, err := ParseWeekday("Funday"); !errors.Is(err, ErrUnknownWeekday) {
		t.Errorf("expected ErrUnknownWeekday, got %v", err)
	}
}

func TestWeekdayOfIsMondayBased(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-07 a Sunday.
	if got := WeekdayOf(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)); got != Monday {
		t.Errorf("expected Monday, got %v", got)
	}
	if got := WeekdayOf(time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)); got != Sunday {
		t.Errorf("expected Sunday, got %v", got)
	}
}

func TestRuleSlot(t *testing.T) {
	rule := BestTimeRule{Subreddit: "golang", Weekday: "friday", Hour: " 18 "}

	weekday, hour, err := rule.Slot()
	if err != nil {
		t.Fatalf("Slot returned error: %v", err)
	}
	if weekday != Friday || hour != 18 {
		t.Errorf("expected (Friday, 18), got (%v, %d)", weekday, hour)
	}
}

func TestRuleSlotRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		rule BestTimeRule
		want error
	}{
		{"unknown weekday", BestTimeRule{Weekday: "Someday", Hour: "10"}, ErrUnknownWeekday},
		{"non-numeric hour", BestTimeRule{Weekday: "Monday", Hour: "noon"}, ErrInvalidHour},
		{"hour too large", BestTimeRule{Weekday: "Monday", Hour: "24"}, ErrInvalidHour},
		{"negative hour", BestTimeRule{Weekday: "Monday", Hour: "-1"}, ErrInvalidHour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.rule.Slot(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSlotRoundTrip(t *testing.T) {
	instant := time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)

	serialized := FormatSlot(instant)
	if serialized != "2024-03-08 18:00:00" {
		t.Fatalf("unexpected serialization %q", serialized)
	}

	parsed, err := ParseSlot(serialized)
	if err != nil {
		t.Fatalf("ParseSlot returned error: %v", err)
	}
	if !parsed.Equal(instant) {
		t.Errorf("round trip changed the instant: %v != %v", parsed, instant)
	}
}
