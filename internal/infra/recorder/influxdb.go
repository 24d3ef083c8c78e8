package recorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/reddwatch/postqueue/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

// NewRecorder returns an InfluxDB-backed recorder, or a noop recorder when
// recording is disabled or unconfigured. Recording failures never fail a
// scheduling run; they are logged and dropped.
func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, schedule result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "schedule result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordRun(ctx context.Context, record domain.ScheduleRunRecord) error {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	point := influxdb2.NewPoint(
		"schedule_run",
		map[string]string{
			"run_id": runID,
			"mode":   record.Mode,
		},
		map[string]any{
			"processed_count":    record.ProcessedCount,
			"assigned_count":     record.AssignedCount,
			"unassignable_count": record.UnassignableCount,
			"failed_count":       record.FailedCount,
			"duration_seconds":   record.DurationSeconds,
		},
		time.Now(),
	)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write schedule run to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", runID),
			slog.String("mode", record.Mode),
		)
	}

	return nil
}

func (r *influxDBRecorder) RecordAssignments(ctx context.Context, records []domain.AssignmentRecord) error {
	if len(records) == 0 {
		return nil
	}

	for _, record := range records {
		runID := record.RunID
		if runID == "" {
			runID = "default"
		}

		point := influxdb2.NewPoint(
			"schedule_assignment",
			map[string]string{
				"run_id":    runID,
				"subreddit": record.Subreddit,
			},
			map[string]any{
				"post_id":   record.PostID,
				"slot":      domain.FormatSlot(record.Slot),
				"slot_unix": record.Slot.Unix(),
			},
			time.Now(),
		)

		if err := r.writeAPI.WritePoint(ctx, point); err != nil {
			slog.WarnContext(ctx, "failed to write assignment to InfluxDB",
				slog.String("error", err.Error()),
				slog.String("post_id", record.PostID),
				slog.Time("slot", record.Slot),
			)
		}
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
