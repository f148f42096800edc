package fact

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Resolution outcomes recorded on spans and metrics.
const (
	OutcomeAvailable   = "available"
	OutcomeUnavailable = "unavailable"
	OutcomeNotConfined = "not_confined"
	OutcomeMemoized    = "memoized"
)

type telemetry struct {
	tracer   trace.Tracer
	count    metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry(tracer trace.Tracer, meter metric.Meter) (*telemetry, error) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	t := &telemetry{tracer: tracer}
	if meter == nil {
		return t, nil
	}

	var err error
	t.count, err = meter.Int64Counter(
		"facts.resolve.count",
		metric.WithDescription("Number of fact resolutions by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return t, fmt.Errorf("create resolve counter: %w", err)
	}

	t.duration, err = meter.Float64Histogram(
		"facts.resolve.duration",
		metric.WithDescription("Fact computation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return t, fmt.Errorf("create resolve duration histogram: %w", err)
	}

	return t, nil
}

func (t *telemetry) start(ctx context.Context, name, runID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "fact.resolve", trace.WithAttributes(
		attribute.String("fact.name", name),
		attribute.String("fact.run_id", runID),
	))
}

// finish ends span and records the outcome. err, if set, is recorded on the span;
// failed marks the span as an error (panics), not merely an unavailable fact.
func (t *telemetry) finish(ctx context.Context, span trace.Span, name, outcome string, elapsed time.Duration, err error, failed bool) {
	span.SetAttributes(attribute.String("fact.outcome", outcome))
	if err != nil {
		span.RecordError(err)
	}
	if failed && err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	t.record(ctx, name, outcome)
	if t.duration != nil {
		t.duration.Record(ctx, float64(elapsed.Microseconds())/1000.0, metric.WithAttributes(
			attribute.String("fact.name", name),
			attribute.String("fact.outcome", outcome),
		))
	}
}

func (t *telemetry) record(ctx context.Context, name, outcome string) {
	if t.count == nil {
		return
	}
	t.count.Add(ctx, 1, metric.WithAttributes(
		attribute.String("fact.name", name),
		attribute.String("fact.outcome", outcome),
	))
}
