package logging

import (
	"log/slog"
	"os"
)

// Environment selects the log output format: human-readable for dev,
// JSON for everything else.
type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

// Module labels log records with the subsystem that emitted them.
type Module string

// ServiceInfo identifies the running service in logs and telemetry.
type ServiceInfo struct {
	Name    string
	Version string
}

// NewLogger builds the process-wide logger. Every record carries the
// service name and version so aggregated logs stay attributable.
func NewLogger(env Environment, level slog.Level, service ServiceInfo, module Module) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == EnvDev {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		slog.String("service", service.Name),
		slog.String("version", service.Version),
		slog.String("module", string(module)),
	)
}
