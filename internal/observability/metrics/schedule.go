package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	scheduleMeterName = "schedule.service"
)

type ScheduleMetrics struct {
	postsProcessed    metric.Int64Counter
	candidatesFound   metric.Int64Histogram
	runDuration       metric.Float64Histogram
	reservationLosses metric.Int64Counter
}

func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(scheduleMeterName)

	postsProcessed, err := meter.Int64Counter(
		"schedule_posts_total",
		metric.WithDescription("Total number of posts processed by scheduling runs"),
		metric.WithUnit("{post}"),
	)
	if err != nil {
		return nil, err
	}

	candidatesFound, err := meter.Int64Histogram(
		"schedule_slot_candidates",
		metric.WithDescription("Candidate slots found per discovery"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"schedule_run_duration_seconds",
		metric.WithDescription("Scheduling run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	reservationLosses, err := meter.Int64Counter(
		"schedule_reservation_losses_total",
		metric.WithDescription("Candidates lost to a concurrent run's reservation"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		postsProcessed:    postsProcessed,
		candidatesFound:   candidatesFound,
		runDuration:       runDuration,
		reservationLosses: reservationLosses,
	}, nil
}

func (m *ScheduleMetrics) RecordPostProcessed(ctx context.Context, mode, outcome string) {
	m.postsProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
}

func (m *ScheduleMetrics) RecordCandidatesFound(ctx context.Context, mode string, count int) {
	m.candidatesFound.Record(ctx, int64(count), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

func (m *ScheduleMetrics) RecordRunDuration(ctx context.Context, mode string, duration time.Duration) {
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

func (m *ScheduleMetrics) RecordReservationLoss(ctx context.Context, mode string) {
	m.reservationLosses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
	))
}
