package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/reddwatch/postqueue/internal/config"
	"github.com/reddwatch/postqueue/internal/domain"
	"github.com/reddwatch/postqueue/internal/observability/metrics"
	"github.com/reddwatch/postqueue/internal/observability/tracing"
	"github.com/reddwatch/postqueue/internal/service/bulk"
	"github.com/reddwatch/postqueue/internal/service/slot"
)

var ErrMissingFields = errors.New("client_name, subreddit, title and url are required")

// Service runs scheduling operations over fresh storage snapshots. The slot
// and bulk packages stay pure; reading the tables, reserving instants,
// persisting assignments and recording outcomes all happen here.
type Service struct {
	rules       domain.RuleStore
	posts       domain.PostStore
	clients     domain.ClientStore
	reservation domain.SlotReservation
	recorder    domain.ScheduleResultRecorder
	picker      *slot.Picker
	metrics     *metrics.ScheduleMetrics

	horizonWeeks int
	dailyCap     int
}

func NewService(
	rules domain.RuleStore,
	posts domain.PostStore,
	clients domain.ClientStore,
	reservation domain.SlotReservation,
	recorder domain.ScheduleResultRecorder,
	scheduleMetrics *metrics.ScheduleMetrics,
	cfg *config.ScheduleConfig,
) *Service {
	return &Service{
		rules:        rules,
		posts:        posts,
		clients:      clients,
		reservation:  reservation,
		recorder:     recorder,
		picker:       slot.NewPicker(cfg.PickTopK),
		metrics:      scheduleMetrics,
		horizonWeeks: cfg.HorizonWeeks,
		dailyCap:     cfg.DailyCap,
	}
}

// CreatePost appends an unscheduled post to the queue, stamped from the
// named client template.
func (s *Service) CreatePost(ctx context.Context, req CreatePostRequest) (*domain.Post, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	client, err := s.clients.GetClient(ctx, req.ClientName)
	if err != nil {
		return nil, fmt.Errorf("load client template: %w", err)
	}

	post := &domain.Post{
		ID:         uuid.NewString(),
		ClientName: client.ClientName,
		Subreddit:  req.Subreddit,
		Title:      req.Title,
		URL:        req.URL,
		FlairText:  req.FlairText,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	slog.InfoContext(ctx, "post queued",
		slog.String("post_id", post.ID),
		slog.String("client", post.ClientName),
		slog.String("subreddit", domain.CanonicalSubreddit(post.Subreddit)),
	)

	return post, nil
}

// PreviewNext returns the ranked candidate slots for a subreddit plus the
// pick-policy choice, without persisting anything.
func (s *Service) PreviewNext(ctx context.Context, subreddit string, now time.Time) (*Preview, error) {
	rules, posts, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	searchCtx, span := tracing.StartCandidateSearchSpan(ctx, domain.CanonicalSubreddit(subreddit), now)
	candidates := slot.FindCandidates(searchCtx, subreddit, rules, posts, now, s.horizonWeeks, s.dailyCap)
	tracing.RecordCandidateSearchResult(span, len(candidates))
	span.End()

	if s.metrics != nil {
		s.metrics.RecordCandidatesFound(ctx, "preview", len(candidates))
	}

	preview := &Preview{
		Subreddit:  domain.CanonicalSubreddit(subreddit),
		Candidates: make([]string, 0, len(candidates)),
		RuleCount:  countMatchingRules(subreddit, rules),
	}
	for _, candidate := range candidates {
		preview.Candidates = append(preview.Candidates, domain.FormatSlot(candidate))
	}

	if picked, ok := s.picker.Pick(candidates); ok {
		serialized := domain.FormatSlot(picked)
		preview.Pick = &serialized
		preview.PickTime = &picked
	}

	return preview, nil
}

// ScheduleOne assigns a slot to a single post. An empty candidate list is a
// normal outcome reported in the result, never an error; only storage
// failures surface as errors.
func (s *Service) ScheduleOne(ctx context.Context, postID string, now time.Time) (*ScheduleResult, error) {
	start := time.Now()
	runCtx, span := tracing.StartScheduleRunSpan(ctx, "single", now)
	defer span.End()

	result, err := s.scheduleOne(runCtx, postID, now)

	assigned := 0
	if err == nil && result.Assigned {
		assigned = 1
	}
	tracing.RecordScheduleRunResult(span, 1, assigned, 1-assigned, 0, err)

	if s.metrics != nil {
		s.metrics.RecordRunDuration(ctx, "single", time.Since(start))
	}

	return result, err
}

func (s *Service) scheduleOne(ctx context.Context, postID string, now time.Time) (*ScheduleResult, error) {
	rules, posts, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	var post *domain.Post
	for i := range posts {
		if posts[i].ID == postID {
			post = &posts[i]
			break
		}
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}
	if post.Scheduled() {
		return nil, domain.ErrPostAlreadyScheduled
	}

	candidates := slot.FindCandidates(ctx, post.Subreddit, rules, posts, now, s.horizonWeeks, s.dailyCap)
	if s.metrics != nil {
		s.metrics.RecordCandidatesFound(ctx, "single", len(candidates))
	}

	if len(candidates) == 0 {
		s.recordOutcome(ctx, "single", StatusUnassignable)
		slog.InfoContext(ctx, "no candidate slots for post",
			slog.String("post_id", post.ID),
			slog.String("subreddit", domain.CanonicalSubreddit(post.Subreddit)),
			slog.Int("horizon_weeks", s.horizonWeeks),
		)
		return &ScheduleResult{
			PostID: post.ID,
			Reason: "no best-time slots available within the horizon",
		}, nil
	}

	for _, candidate := range s.attemptOrder(candidates) {
		taken, err := s.reserve(ctx, "single", candidate)
		if err == nil && taken {
			continue
		}

		if assignErr := s.posts.AssignTime(ctx, post.ID, domain.FormatSlot(candidate)); assignErr != nil {
			s.release(ctx, candidate)
			s.recordOutcome(ctx, "single", StatusFailed)
			return nil, fmt.Errorf("persist assignment: %w", assignErr)
		}

		s.recordOutcome(ctx, "single", StatusAssigned)
		s.recordRun(ctx, domain.ScheduleRunRecord{
			RunID:          uuid.NewString(),
			Mode:           "single",
			StartedAt:      now,
			ProcessedCount: 1,
			AssignedCount:  1,
		}, []domain.AssignmentRecord{{
			PostID:    post.ID,
			Subreddit: domain.CanonicalSubreddit(post.Subreddit),
			Slot:      candidate,
		}})

		slog.InfoContext(ctx, "post scheduled",
			slog.String("post_id", post.ID),
			slog.String("subreddit", domain.CanonicalSubreddit(post.Subreddit)),
			slog.Time("slot", candidate),
		)

		return &ScheduleResult{
			PostID:   post.ID,
			Assigned: true,
			Slot:     domain.FormatSlot(candidate),
		}, nil
	}

	s.recordOutcome(ctx, "single", StatusUnassignable)
	return &ScheduleResult{
		PostID: post.ID,
		Reason: "all candidate slots are held by a concurrent run",
	}, nil
}

// ScheduleAll backfills every unscheduled post. Snapshots are taken once at
// run start; individual persistence failures are reported per post and the
// run continues.
func (s *Service) ScheduleAll(ctx context.Context, now time.Time) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	runCtx, span := tracing.StartScheduleRunSpan(ctx, "bulk", now)
	defer span.End()

	rules, posts, err := s.loadSnapshot(runCtx)
	if err != nil {
		tracing.RecordScheduleRunResult(span, 0, 0, 0, 0, err)
		return nil, err
	}

	unscheduled, err := s.posts.ListUnscheduled(runCtx)
	if err != nil {
		tracing.RecordScheduleRunResult(span, 0, 0, 0, 0, err)
		return nil, fmt.Errorf("list unscheduled posts: %w", err)
	}

	slog.InfoContext(runCtx, "bulk scheduling started",
		slog.String("run_id", runID),
		slog.Int("unscheduled_count", len(unscheduled)),
	)

	assignment := bulk.AssignAll(runCtx, unscheduled, rules, posts, now, s.horizonWeeks, s.dailyCap)

	postsByID := make(map[string]domain.Post, len(unscheduled))
	for _, post := range unscheduled {
		postsByID[post.ID] = post
	}

	result := &RunResult{
		RunID:          runID,
		ProcessedCount: len(unscheduled),
		Items:          make([]RunItem, 0, len(unscheduled)),
	}
	assignmentRecords := make([]domain.AssignmentRecord, 0, len(assignment.Assignments))

	for _, assigned := range assignment.Assignments {
		post := postsByID[assigned.PostID]

		taken, err := s.reserve(runCtx, "bulk", assigned.Slot)
		if err == nil && taken {
			result.FailedCount++
			result.Items = append(result.Items, newRunItem(post, StatusFailed, "", "slot held by a concurrent run"))
			s.recordOutcome(runCtx, "bulk", StatusFailed)
			continue
		}

		if err := s.posts.AssignTime(runCtx, assigned.PostID, assigned.SlotString()); err != nil {
			s.release(runCtx, assigned.Slot)
			result.FailedCount++
			result.Items = append(result.Items, newRunItem(post, StatusFailed, "", err.Error()))
			s.recordOutcome(runCtx, "bulk", StatusFailed)
			slog.ErrorContext(runCtx, "failed to persist assignment",
				slog.String("run_id", runID),
				slog.String("post_id", assigned.PostID),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.AssignedCount++
		result.Items = append(result.Items, newRunItem(post, StatusAssigned, assigned.SlotString(), ""))
		s.recordOutcome(runCtx, "bulk", StatusAssigned)
		assignmentRecords = append(assignmentRecords, domain.AssignmentRecord{
			RunID:     runID,
			PostID:    assigned.PostID,
			Subreddit: domain.CanonicalSubreddit(post.Subreddit),
			Slot:      assigned.Slot,
		})
	}

	for _, postID := range assignment.Unassignable {
		post := postsByID[postID]
		result.UnassignableCount++
		result.Items = append(result.Items, newRunItem(post, StatusUnassignable, "", "no unused best-time slot within the horizon"))
		s.recordOutcome(runCtx, "bulk", StatusUnassignable)
	}

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordRunDuration(ctx, "bulk", duration)
	}
	tracing.RecordScheduleRunResult(span, result.ProcessedCount, result.AssignedCount, result.UnassignableCount, result.FailedCount, nil)

	s.recordRun(runCtx, domain.ScheduleRunRecord{
		RunID:             runID,
		Mode:              "bulk",
		StartedAt:         now,
		ProcessedCount:    result.ProcessedCount,
		AssignedCount:     result.AssignedCount,
		UnassignableCount: result.UnassignableCount,
		FailedCount:       result.FailedCount,
		DurationSeconds:   duration.Seconds(),
	}, assignmentRecords)

	slog.InfoContext(runCtx, "bulk scheduling finished",
		slog.String("run_id", runID),
		slog.Int("processed", result.ProcessedCount),
		slog.Int("assigned", result.AssignedCount),
		slog.Int("unassignable", result.UnassignableCount),
		slog.Int("failed", result.FailedCount),
	)

	return result, nil
}

// ListClients returns the client templates posts can be created under.
func (s *Service) ListClients(ctx context.Context) ([]domain.ClientTemplate, error) {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// ListSubreddits returns the distinct canonical subreddit names present in
// the best-time table.
func (s *Service) ListSubreddits(ctx context.Context) ([]string, error) {
	rules, err := s.rules.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, rule := range rules {
		canonical := domain.CanonicalSubreddit(rule.Subreddit)
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		names = append(names, canonical)
	}
	sort.Strings(names)

	return names, nil
}

func (s *Service) loadSnapshot(ctx context.Context) ([]domain.BestTimeRule, []domain.Post, error) {
	rules, err := s.rules.ListRules(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list rules: %w", err)
	}

	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}

	return rules, posts, nil
}

// attemptOrder puts the policy pick first and keeps the remaining
// candidates in ascending order as fallbacks for reservation conflicts.
func (s *Service) attemptOrder(candidates []time.Time) []time.Time {
	picked, ok := s.picker.Pick(candidates)
	if !ok {
		return nil
	}

	ordered := make([]time.Time, 0, len(candidates))
	ordered = append(ordered, picked)
	skipped := false
	for _, candidate := range candidates {
		if !skipped && candidate.Equal(picked) {
			skipped = true
			continue
		}
		ordered = append(ordered, candidate)
	}
	return ordered
}

// reserve returns taken == true when a concurrent run holds the slot. A
// reservation backend error degrades to "not taken": single-operator
// deployments keep working without redis.
func (s *Service) reserve(ctx context.Context, mode string, candidate time.Time) (bool, error) {
	if s.reservation == nil {
		return false, nil
	}

	ok, err := s.reservation.Reserve(ctx, candidate)
	if err != nil {
		slog.WarnContext(ctx, "slot reservation unavailable, proceeding without it",
			slog.Time("slot", candidate),
			slog.String("error", err.Error()),
		)
		return false, err
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.RecordReservationLoss(ctx, mode)
		}
		return true, nil
	}
	return false, nil
}

func (s *Service) release(ctx context.Context, candidate time.Time) {
	if s.reservation == nil {
		return
	}
	if err := s.reservation.Release(ctx, candidate); err != nil {
		slog.WarnContext(ctx, "failed to release slot reservation",
			slog.Time("slot", candidate),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordOutcome(ctx context.Context, mode, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordPostProcessed(ctx, mode, outcome)
	}
}

func (s *Service) recordRun(ctx context.Context, run domain.ScheduleRunRecord, assignments []domain.AssignmentRecord) {
	if s.recorder == nil {
		return
	}

	if err := s.recorder.RecordRun(ctx, run); err != nil {
		slog.WarnContext(ctx, "failed to record schedule run",
			slog.String("run_id", run.RunID),
			slog.String("error", err.Error()),
		)
	}
	if err := s.recorder.RecordAssignments(ctx, assignments); err != nil {
		slog.WarnContext(ctx, "failed to record assignments",
			slog.String("run_id", run.RunID),
			slog.String("error", err.Error()),
		)
	}
}

func countMatchingRules(subreddit string, rules []domain.BestTimeRule) int {
	count := 0
	for _, rule := range rules {
		if rule.Matches(subreddit) {
			count++
		}
	}
	return count
}
