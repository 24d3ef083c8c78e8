package schedule

import (
	"time"

	"github.com/reddwatch/postqueue/internal/domain"
)

// Preview is the result of a candidate search without any persistence.
type Preview struct {
	Subreddit  string     `json:"subreddit"`
	Candidates []string   `json:"candidates"`
	Pick       *string    `json:"pick,omitempty"`
	PickTime   *time.Time `json:"-"`
	RuleCount  int        `json:"rule_count"`
}

// ScheduleResult reports a single-post scheduling attempt. Assigned == false
// with an empty Slot is the normal "no slots" outcome, not an error.
type ScheduleResult struct {
	PostID   string `json:"post_id"`
	Assigned bool   `json:"assigned"`
	Slot     string `json:"slot,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Item statuses within a bulk run report.
const (
	StatusAssigned     = "assigned"
	StatusUnassignable = "unassignable"
	StatusFailed       = "failed"
)

type RunItem struct {
	PostID    string `json:"post_id"`
	Subreddit string `json:"subreddit"`
	Slot      string `json:"slot,omitempty"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// RunResult is the partial-success report of one bulk run. An individual
// post's failure never aborts the batch; it lands here instead.
type RunResult struct {
	RunID             string    `json:"run_id"`
	ProcessedCount    int       `json:"processed_count"`
	AssignedCount     int       `json:"assigned_count"`
	UnassignableCount int       `json:"unassignable_count"`
	FailedCount       int       `json:"failed_count"`
	Items             []RunItem `json:"items"`
}

type CreatePostRequest struct {
	ClientName string `json:"client_name"`
	Subreddit  string `json:"subreddit"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FlairText  string `json:"flair_text,omitempty"`
}

func (r CreatePostRequest) validate() error {
	if r.ClientName == "" || r.Subreddit == "" || r.Title == "" || r.URL == "" {
		return ErrMissingFields
	}
	return nil
}

func newRunItem(post domain.Post, status, slot, reason string) RunItem {
	return RunItem{
		PostID:    post.ID,
		Subreddit: domain.CanonicalSubreddit(post.Subreddit),
		Slot:      slot,
		Status:    status,
		Reason:    reason,
	}
}
