package bulk

import (
	"context"
	"log/slog"
	"time"

	"github.com/reddwatch/postqueue/internal/domain"
	"github.com/reddwatch/postqueue/internal/service/slot"
)

// Result reports one bulk-assignment run: the assignments made, in input
// order, and the IDs of posts no unused candidate could be found for.
// An unassignable post is a normal partial-success outcome, not an error.
type Result struct {
	Assignments  []domain.Assignment
	Unassignable []string
}

// AssignAll assigns a slot to every unscheduled post, honoring the per-day
// cap and keeping every assigned instant globally unique within the run,
// across subreddits.
//
// Posts are processed in input order. For each post the candidate list is
// derived from the same allPosts snapshot taken by the caller at run start:
// assignments made earlier in the run do not feed back into the daily-cap
// counts, only the used-instant set prevents collisions. Changing that would
// be a visible behavior change for operators, so the snapshot semantics stay.
func AssignAll(
	ctx context.Context,
	unscheduled []domain.Post,
	rules []domain.BestTimeRule,
	allPosts []domain.Post,
	now time.Time,
	horizonWeeks int,
	dailyCap int,
) Result {
	used := make(map[time.Time]struct{})
	result := Result{
		Assignments:  make([]domain.Assignment, 0, len(unscheduled)),
		Unassignable: make([]string, 0),
	}

	for _, post := range unscheduled {
		candidates := slot.FindCandidates(ctx, post.Subreddit, rules, allPosts, now, horizonWeeks, dailyCap)

		assigned := false
		for _, candidate := range candidates {
			if _, taken := used[candidate]; taken {
				continue
			}

			used[candidate] = struct{}{}
			result.Assignments = append(result.Assignments, domain.Assignment{
				PostID: post.ID,
				Slot:   candidate,
			})
			assigned = true

			slog.DebugContext(ctx, "bulk: slot assigned",
				slog.String("post_id", post.ID),
				slog.String("subreddit", post.Subreddit),
				slog.Time("slot", candidate),
			)
			break
		}

		if !assigned {
			result.Unassignable = append(result.Unassignable, post.ID)
			slog.InfoContext(ctx, "bulk: no unused slot for post",
				slog.String("post_id", post.ID),
				slog.String("subreddit", post.Subreddit),
				slog.Int("candidate_count", len(candidates)),
			)
		}
	}

	return result
}
