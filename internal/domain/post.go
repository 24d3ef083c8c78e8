package domain

import (
	"time"
)

// SlotLayout is the canonical serialization of a post time: UTC, no offset
// suffix. Display conversion to any other zone happens outside the core.
const SlotLayout = "2006-01-02 15:04:05"

// DayLayout keys a UTC calendar date for daily-cap counting.
const DayLayout = "2006-01-02"

// Post is one row of the post queue.
// PostTime == nil means the post is unscheduled and eligible for bulk
// assignment. A post is never re-scheduled once a time is assigned.
type Post struct {
	ID         string
	ClientName string
	Subreddit  string
	Title      string
	URL        string
	FlairText  string
	PostTime   *time.Time
	Posted     bool
	CreatedAt  time.Time
}

// Scheduled reports whether the post has an assigned time.
func (p *Post) Scheduled() bool {
	return p.PostTime != nil
}

// ClientTemplate is one row of the client table. Credentials for the posting
// platform live alongside these fields in storage but are not modeled here;
// authentication is the posting worker's concern, not the scheduler's.
type ClientTemplate struct {
	ClientName     string
	RedditUsername string
	UserAgent      string
}

// FormatSlot serializes an instant in the canonical form.
func FormatSlot(t time.Time) string {
	return t.UTC().Format(SlotLayout)
}

// ParseSlot parses the canonical serialization back into a UTC instant.
func ParseSlot(s string) (time.Time, error) {
	return time.Parse(SlotLayout, s)
}

// DayKey returns the UTC calendar date of t as a comparable key.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
