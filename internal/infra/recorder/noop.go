package recorder

import (
	"context"

	"github.com/reddwatch/postqueue/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ScheduleResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordRun(_ context.Context, _ domain.ScheduleRunRecord) error {
	return nil
}

func (n *noopRecorder) RecordAssignments(_ context.Context, _ []domain.AssignmentRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
