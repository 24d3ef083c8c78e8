package domain

import (
	"strconv"
	"strings"
)

// BestTimeRule is one row of the per-subreddit best-time table: a recurring
// weekly (weekday, hour) slot considered favorable for posting.
// Weekday and Hour are kept as raw strings so that a malformed row is
// representable and can be skipped at parse time instead of failing a load.
type BestTimeRule struct {
	Subreddit string
	Weekday   string
	Hour      string
}

// Slot returns the parsed (weekday, hour) pair of the rule.
// Hour must be an integer in 0..23 UTC.
func (r BestTimeRule) Slot() (Weekday, int, error) {
	weekday, err := ParseWeekday(r.Weekday)
	if err != nil {
		return 0, 0, err
	}

	hour, err := strconv.Atoi(strings.TrimSpace(r.Hour))
	if err != nil {
		return 0, 0, ErrInvalidHour
	}
	if hour < 0 || hour > 23 {
		return 0, 0, ErrInvalidHour
	}

	return weekday, hour, nil
}

// Matches reports whether the rule applies to the given subreddit,
// comparing canonical forms.
func (r BestTimeRule) Matches(subreddit string) bool {
	return CanonicalSubreddit(r.Subreddit) == CanonicalSubreddit(subreddit)
}

// CanonicalSubreddit normalizes a subreddit name for comparison and keying:
// surrounding whitespace and a leading "r/" marker are stripped, the rest is
// lowercased. Every comparison site must go through this function.
func CanonicalSubreddit(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= 2 && strings.EqualFold(trimmed[:2], "r/") {
		trimmed = trimmed[2:]
	}
	return strings.ToLower(strings.TrimSpace(trimmed))
}
