package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reddwatch/postqueue/internal/domain"
	"github.com/reddwatch/postqueue/internal/service/schedule"
)

// displayZone is the operator-facing projection of slot times. Storage and
// scheduling stay in UTC; the local string is derived at response time only.
const displayZone = "America/New_York"

type ScheduleHandler struct {
	scheduleService *schedule.Service
	location        *time.Location
}

func NewScheduleHandler(scheduleService *schedule.Service) *ScheduleHandler {
	location, err := time.LoadLocation(displayZone)
	if err != nil {
		slog.Warn("display timezone unavailable, falling back to UTC",
			slog.String("zone", displayZone),
			slog.String("error", err.Error()),
		)
		location = time.UTC
	}

	return &ScheduleHandler{
		scheduleService: scheduleService,
		location:        location,
	}
}

type createPostResponse struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
	Subreddit  string `json:"subreddit"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	FlairText  string `json:"flair_text,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type previewResponse struct {
	Subreddit  string   `json:"subreddit"`
	RuleCount  int      `json:"rule_count"`
	Candidates []string `json:"candidates"`
	Pick       *string  `json:"pick,omitempty"`
	PickLocal  *string  `json:"pick_local,omitempty"`
}

type clientResponse struct {
	ClientName     string `json:"client_name"`
	RedditUsername string `json:"reddit_username"`
	UserAgent      string `json:"user_agent"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *ScheduleHandler) HandleCreatePost(c *gin.Context) {
	ctx := c.Request.Context()

	var req schedule.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	post, err := h.scheduleService.CreatePost(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrMissingFields):
			respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, domain.ErrClientNotFound):
			respondError(c, http.StatusNotFound, "client_not_found", "no client template with that name")
		default:
			slog.ErrorContext(ctx, "failed to create post",
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, createPostResponse{
		ID:         post.ID,
		ClientName: post.ClientName,
		Subreddit:  post.Subreddit,
		Title:      post.Title,
		URL:        post.URL,
		FlairText:  post.FlairText,
		CreatedAt:  post.CreatedAt.Format(time.RFC3339),
	})
}

func (h *ScheduleHandler) HandlePreview(c *gin.Context) {
	ctx := c.Request.Context()

	subreddit := c.Query("subreddit")
	if subreddit == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "subreddit query parameter is required")
		return
	}

	now, ok := h.resolveNow(c)
	if !ok {
		return
	}

	preview, err := h.scheduleService.PreviewNext(ctx, subreddit, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build preview",
			slog.String("subreddit", subreddit),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	resp := previewResponse{
		Subreddit:  preview.Subreddit,
		RuleCount:  preview.RuleCount,
		Candidates: preview.Candidates,
		Pick:       preview.Pick,
	}
	if preview.PickTime != nil {
		local := preview.PickTime.In(h.location).Format("2006-01-02 15:04 MST")
		resp.PickLocal = &local
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ScheduleHandler) HandleSchedulePost(c *gin.Context) {
	ctx := c.Request.Context()

	postID := c.Param("id")
	if postID == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "post id is required")
		return
	}

	now, ok := h.resolveNow(c)
	if !ok {
		return
	}

	result, err := h.scheduleService.ScheduleOne(ctx, postID, now)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post_not_found", "no post with that id")
		case errors.Is(err, domain.ErrPostAlreadyScheduled):
			respondError(c, http.StatusConflict, "already_scheduled", "post already has an assigned time")
		default:
			slog.ErrorContext(ctx, "failed to schedule post",
				slog.String("post_id", postID),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScheduleHandler) HandleScheduleBulk(c *gin.Context) {
	ctx := c.Request.Context()

	now, ok := h.resolveNow(c)
	if !ok {
		return
	}

	result, err := h.scheduleService.ScheduleAll(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "bulk scheduling failed",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScheduleHandler) HandleListSubreddits(c *gin.Context) {
	ctx := c.Request.Context()

	names, err := h.scheduleService.ListSubreddits(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list subreddits",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"subreddits": names})
}

func (h *ScheduleHandler) HandleListClients(c *gin.Context) {
	ctx := c.Request.Context()

	clients, err := h.scheduleService.ListClients(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list clients",
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, clientResponse{
			ClientName:     client.ClientName,
			RedditUsername: client.RedditUsername,
			UserAgent:      client.UserAgent,
		})
	}

	c.JSON(http.StatusOK, gin.H{"clients": out})
}

// resolveNow reads the optional virtual time from the now query parameter.
// Scheduling is deterministic given a clock reading, so exposing the clock
// makes runs reproducible in tests and dry runs.
func (h *ScheduleHandler) resolveNow(c *gin.Context) (time.Time, bool) {
	nowStr := c.Query("now")
	if nowStr == "" {
		return time.Now().UTC(), true
	}

	parsed, err := time.Parse(time.RFC3339, nowStr)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "invalid now time format, expected RFC3339")
		return time.Time{}, false
	}

	now := parsed.UTC()
	slog.InfoContext(c.Request.Context(), "using virtual time",
		slog.Time("virtual_now", now),
	)
	return now, true
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{
		Error:   code,
		Message: message,
	})
}
