package slot

import (
	"context"
	"testing"
	"time"

	"github.com/reddwatch/postqueue/internal/domain"
)

func mustSlot(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := domain.ParseSlot(value)
	if err != nil {
		t.Fatalf("failed to parse slot %q: %v", value, err)
	}
	return parsed
}

func scheduledPost(t *testing.T, subreddit, slot string) domain.Post {
	t.Helper()

	at := mustSlot(t, slot)
	return domain.Post{
		ID:        "post-" + subreddit + "-" + slot,
		Subreddit: subreddit,
		PostTime:  &at,
	}
}

// monday 2024-01-01 00:00:00 UTC, used by the concrete scenarios.
func mondayNow(t *testing.T) time.Time {
	t.Helper()

	now := mustSlot(t, "2024-01-01 00:00:00")
	if now.Weekday() != time.Monday {
		t.Fatalf("fixture is not a Monday: %v", now.Weekday())
	}
	return now
}

func TestFindCandidates_SingleRuleSingleWeek(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
	}

	got := FindCandidates(context.Background(), "test", rules, nil, mondayNow(t), 1, 4)

	if len(got) != 1 {
		t.Fatalf("expected exactly one candidate, got %d: %v", len(got), got)
	}
	want := mustSlot(t, "2024-01-03 14:00:00")
	if !got[0].Equal(want) {
		t.Errorf("candidate = %v, want %v", got[0], want)
	}
}

func TestFindCandidates_DailyCapPushesToNextWeek(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
	}
	existing := []domain.Post{
		scheduledPost(t, "test", "2024-01-03 08:00:00"),
		scheduledPost(t, "test", "2024-01-03 10:00:00"),
		scheduledPost(t, "test", "2024-01-03 12:00:00"),
		scheduledPost(t, "test", "2024-01-03 16:00:00"),
	}
	now := mondayNow(t)

	if got := FindCandidates(context.Background(), "test", rules, existing, now, 1, 4); len(got) != 0 {
		t.Fatalf("expected no candidates within one week, got %v", got)
	}

	got := FindCandidates(context.Background(), "test", rules, existing, now, 2, 4)
	if len(got) != 1 {
		t.Fatalf("expected exactly one candidate with two-week horizon, got %d: %v", len(got), got)
	}
	want := mustSlot(t, "2024-01-10 14:00:00")
	if !got[0].Equal(want) {
		t.Errorf("candidate = %v, want %v", got[0], want)
	}
}

func TestFindCandidates_StrictlyFuture(t *testing.T) {
	// Rule lands on "now"'s own weekday at an hour already passed.
	now := mustSlot(t, "2024-01-01 15:30:00")
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Monday", Hour: "14"},
	}

	got := FindCandidates(context.Background(), "test", rules, nil, now, 4, 4)

	if len(got) != 3 {
		t.Fatalf("expected 3 candidates (week 0 is in the past), got %d: %v", len(got), got)
	}
	for _, candidate := range got {
		if !candidate.After(now) {
			t.Errorf("candidate %v is not strictly after now %v", candidate, now)
		}
	}
	want := mustSlot(t, "2024-01-08 14:00:00")
	if !got[0].Equal(want) {
		t.Errorf("first candidate = %v, want %v", got[0], want)
	}
}

func TestFindCandidates_OrderedAndWithinHorizon(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Sunday", Hour: "20"},
		{Subreddit: "test", Weekday: "Tuesday", Hour: "9"},
		{Subreddit: "test", Weekday: "Friday", Hour: "0"},
	}
	now := mondayNow(t)
	horizonWeeks := 3

	got := FindCandidates(context.Background(), "test", rules, nil, now, horizonWeeks, 4)

	if len(got) != 9 {
		t.Fatalf("expected 9 candidates, got %d", len(got))
	}
	limit := now.AddDate(0, 0, horizonWeeks*7+6)
	for i, candidate := range got {
		if i > 0 && candidate.Before(got[i-1]) {
			t.Errorf("candidates out of order at %d: %v before %v", i, candidate, got[i-1])
		}
		if candidate.After(limit) {
			t.Errorf("candidate %v beyond horizon limit %v", candidate, limit)
		}
	}
}

func TestFindCandidates_Deterministic(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
		{Subreddit: "test", Weekday: "Saturday", Hour: "18"},
	}
	existing := []domain.Post{
		scheduledPost(t, "test", "2024-01-06 18:00:00"),
	}
	now := mondayNow(t)

	first := FindCandidates(context.Background(), "test", rules, existing, now, 4, 4)
	second := FindCandidates(context.Background(), "test", rules, existing, now, 4, 4)

	if len(first) != len(second) {
		t.Fatalf("repeated calls returned different lengths: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Errorf("candidate %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestFindCandidates_MalformedRuleSkipped(t *testing.T) {
	valid := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
	}
	withMalformed := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Funday", Hour: "14"},
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
		{Subreddit: "test", Weekday: "Saturday", Hour: "not-a-number"},
		{Subreddit: "test", Weekday: "Sunday", Hour: "24"},
	}
	now := mondayNow(t)

	want := FindCandidates(context.Background(), "test", valid, nil, now, 4, 4)
	got := FindCandidates(context.Background(), "test", withMalformed, nil, now, 4, 4)

	if len(got) != len(want) {
		t.Fatalf("malformed rules changed result: got %d candidates, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("candidate %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindCandidates_SubredditMatchingIsCanonical(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: " TestSub ", Weekday: "Wednesday", Hour: "14"},
	}
	now := mondayNow(t)

	got := FindCandidates(context.Background(), "r/testsub", rules, nil, now, 1, 4)
	if len(got) != 1 {
		t.Fatalf("expected r/ prefix and case to be ignored, got %d candidates", len(got))
	}

	other := FindCandidates(context.Background(), "testsub2", rules, nil, now, 1, 4)
	if len(other) != 0 {
		t.Errorf("expected no candidates for a different subreddit, got %v", other)
	}
}

func TestFindCandidates_CapCountsOnlyMatchingSubreddit(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
	}
	// Four posts on the candidate date, but to another subreddit.
	existing := []domain.Post{
		scheduledPost(t, "other", "2024-01-03 08:00:00"),
		scheduledPost(t, "other", "2024-01-03 10:00:00"),
		scheduledPost(t, "other", "2024-01-03 12:00:00"),
		scheduledPost(t, "other", "2024-01-03 16:00:00"),
	}

	got := FindCandidates(context.Background(), "test", rules, existing, mondayNow(t), 1, 4)
	if len(got) != 1 {
		t.Fatalf("posts to other subreddits must not count against the cap, got %d candidates", len(got))
	}
}

func TestFindCandidates_UnscheduledPostsIgnoredForCap(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
	}
	existing := []domain.Post{
		{ID: "queued-1", Subreddit: "test"},
		{ID: "queued-2", Subreddit: "test"},
		{ID: "queued-3", Subreddit: "test"},
		{ID: "queued-4", Subreddit: "test"},
	}

	got := FindCandidates(context.Background(), "test", rules, existing, mondayNow(t), 1, 4)
	if len(got) != 1 {
		t.Fatalf("unscheduled posts must not count against the cap, got %d candidates", len(got))
	}
}

func TestFindCandidates_DuplicateRulesKeepTies(t *testing.T) {
	rules := []domain.BestTimeRule{
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
		{Subreddit: "test", Weekday: "Wednesday", Hour: "14"},
	}

	got := FindCandidates(context.Background(), "test", rules, nil, mondayNow(t), 1, 4)
	if len(got) != 2 {
		t.Fatalf("expected tie instants to be kept, got %d candidates", len(got))
	}
	if !got[0].Equal(got[1]) {
		t.Errorf("expected identical instants, got %v and %v", got[0], got[1])
	}
}
