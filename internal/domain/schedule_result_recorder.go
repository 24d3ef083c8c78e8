package domain

import (
	"context"
	"time"
)

// ScheduleRunRecord captures the outcome of one scheduling run for offline
// analysis of slot utilization.
type ScheduleRunRecord struct {
	RunID             string
	Mode              string // "single" or "bulk"
	StartedAt         time.Time
	ProcessedCount    int
	AssignedCount     int
	UnassignableCount int
	FailedCount       int
	DurationSeconds   float64
}

// AssignmentRecord captures one assigned slot within a run.
type AssignmentRecord struct {
	RunID     string
	PostID    string
	Subreddit string
	Slot      time.Time
}

// ScheduleResultRecorder persists run outcomes to an analytics backend.
type ScheduleResultRecorder interface {
	RecordRun(ctx context.Context, record ScheduleRunRecord) error
	RecordAssignments(ctx context.Context, records []AssignmentRecord) error
	Flush(ctx context.Context) error
	Close() error
}
