package slot

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/reddwatch/postqueue/internal/domain"
)

// FindCandidates enumerates the valid future posting slots for a subreddit.
//
// Each best-time rule matching the subreddit is projected onto the next
// horizonWeeks weeks from now: the candidate lands on the rule's weekday at
// the rule's hour, minutes and below zeroed, UTC. Candidates are rejected
// when they are not strictly in the future or when the subreddit already has
// dailyCap posts scheduled on that UTC calendar date. A rule with an
// unparseable weekday or hour is logged and skipped; it never aborts
// discovery of the remaining slots.
//
// The result is sorted ascending and fully deterministic for fixed inputs.
// Identical instants produced by duplicate rules are kept; consumers that
// take a slot must mark it used so the duplicate is not consumed as well.
// An empty result is a normal outcome, not an error.
func FindCandidates(
	ctx context.Context,
	subreddit string,
	rules []domain.BestTimeRule,
	existing []domain.Post,
	now time.Time,
	horizonWeeks int,
	dailyCap int,
) []time.Time {
	target := domain.CanonicalSubreddit(subreddit)
	now = now.UTC()

	dayCounts := countScheduledPerDay(target, existing)

	candidates := make([]time.Time, 0, horizonWeeks)
	for _, rule := range rules {
		if domain.CanonicalSubreddit(rule.Subreddit) != target {
			continue
		}

		weekday, hour, err := rule.Slot()
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed best-time rule",
				slog.String("subreddit", rule.Subreddit),
				slog.String("weekday", rule.Weekday),
				slog.String("hour", rule.Hour),
				slog.String("error", err.Error()),
			)
			continue
		}

		daysUntilTarget := (int(weekday) - int(domain.WeekdayOf(now)) + 7) % 7

		for week := 0; week < horizonWeeks; week++ {
			day := now.AddDate(0, 0, daysUntilTarget+7*week)
			candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)

			if !candidate.After(now) {
				continue
			}
			if dailyCap > 0 && dayCounts[domain.DayKey(candidate)] >= dailyCap {
				slog.DebugContext(ctx, "candidate rejected, daily cap reached",
					slog.String("subreddit", target),
					slog.Time("candidate", candidate),
					slog.Int("daily_cap", dailyCap),
				)
				continue
			}

			candidates = append(candidates, candidate)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Before(candidates[j])
	})

	return candidates
}

// countScheduledPerDay counts scheduled posts to the canonical subreddit per
// UTC calendar date. The counts come from the snapshot the caller passed in;
// nothing is re-read from storage here.
func countScheduledPerDay(canonical string, posts []domain.Post) map[string]int {
	counts := make(map[string]int)
	for _, post := range posts {
		if !post.Scheduled() {
			continue
		}
		if domain.CanonicalSubreddit(post.Subreddit) != canonical {
			continue
		}
		counts[domain.DayKey(*post.PostTime)]++
	}
	return counts
}
