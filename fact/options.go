package fact

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// WithLogger sets the logger used for resolution outcomes.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

// WithTracer records a span for every fact computation.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *registryConfig) {
		c.tracer = tracer
	}
}

// WithMeter records resolution counts and durations.
func WithMeter(meter metric.Meter) Option {
	return func(c *registryConfig) {
		c.meter = meter
	}
}
