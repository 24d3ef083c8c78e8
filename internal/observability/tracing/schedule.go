package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/reddwatch/postqueue/internal/service/schedule"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartCandidateSearchSpan(ctx context.Context, subreddit string, now time.Time) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.candidate_search",
		trace.WithAttributes(
			attribute.String("subreddit", subreddit),
			attribute.String("now", now.Format(time.RFC3339)),
		),
	)
}

func StartScheduleRunSpan(ctx context.Context, mode string, now time.Time) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.run",
		trace.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("now", now.Format(time.RFC3339)),
		),
	)
}

func RecordCandidateSearchResult(span trace.Span, candidateCount int) {
	span.SetAttributes(attribute.Int("candidates.count", candidateCount))
}

func RecordScheduleRunResult(span trace.Span, processed, assigned, unassignable, failed int, err error) {
	span.SetAttributes(
		attribute.Int("run.processed_count", processed),
		attribute.Int("run.assigned_count", assigned),
		attribute.Int("run.unassignable_count", unassignable),
		attribute.Int("run.failed_count", failed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
