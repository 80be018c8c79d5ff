package registry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// Metric and span names emitted by the registry.
const (
	SpanExecute      = "tool.execute"
	MetricExecutions = "youtube_mcp.tool.executions"
	MetricDuration   = "youtube_mcp.tool.duration"
)

type instruments struct {
	executions metric.Int64Counter
	duration   metric.Float64Histogram
}

// newInstruments creates the execution instruments. A meter that refuses an
// instrument degrades to a no-op one; telemetry never blocks dispatch.
func newInstruments(meter metric.Meter, logger *slog.Logger) *instruments {
	inst := &instruments{
		executions: metricnoop.Int64Counter{},
		duration:   metricnoop.Float64Histogram{},
	}

	executions, err := meter.Int64Counter(
		MetricExecutions,
		metric.WithDescription("Number of tool executions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		logger.Warn("failed to create metric", "metric", MetricExecutions, "error", err)
	} else {
		inst.executions = executions
	}

	duration, err := meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Tool execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		logger.Warn("failed to create metric", "metric", MetricDuration, "error", err)
	} else {
		inst.duration = duration
	}
	return inst
}

// observation is what Execute learned about one call.
type observation struct {
	tool      string
	chainable bool
	success   bool
	code      string
	start     time.Time
}

func (o observation) outcome() string {
	if o.success {
		return "success"
	}
	return "failure"
}

// record finishes the span and records the metrics for one call.
func (i *instruments) record(ctx context.Context, span trace.Span, o observation) {
	span.SetAttributes(
		attribute.Bool("tool.success", o.success),
		attribute.Bool("tool.chainable", o.chainable),
	)
	if o.success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetAttributes(attribute.String("error.code", o.code))
		span.SetStatus(codes.Error, o.code)
	}

	opts := metric.WithAttributes(
		attribute.String("tool", o.tool),
		attribute.String("outcome", o.outcome()),
	)
	i.executions.Add(ctx, 1, opts)
	i.duration.Record(ctx, float64(time.Since(o.start))/float64(time.Millisecond), opts)
}
