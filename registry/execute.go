package registry

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Execute runs the named tool and always returns a Result.
//
// The pipeline is: resolve the entry, check args against the input schema,
// build the tool with its factory (chainable tools receive the registry as
// their Invoker), run it, and wrap the outcome. Unknown names, bad
// arguments, construction errors, run errors and panics all become failure
// results. Execute keeps no per-call state on the registry, so concurrent
// calls are independent; whether a tool tolerates concurrent runs is up to
// the tool.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) tool.Result {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, span := r.tracer.Start(ctx, SpanExecute,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", name),
			attribute.String("tool.request_id", requestID),
		),
	)
	defer span.End()

	obs := observation{tool: name, start: start}
	ec := toolerr.ErrorContext{StartTime: start, Source: name, RequestID: requestID}

	m, ok := r.module(name)
	if !ok {
		obs.code = toolerr.ErrCodeNotFound
		r.metrics.record(ctx, span, obs)
		r.logger.Warn("tool not found", "tool", name, "request_id", requestID)
		return r.errors.ToolError(toolerr.NotFound(name), ec)
	}
	obs.chainable = m.Descriptor.Chainable

	if args == nil {
		args = map[string]any{}
	}

	if r.validateArgs {
		if errs := m.Descriptor.InputSchema.Check(args); len(errs) > 0 {
			obs.code = toolerr.ErrCodeInvalidInput
			r.metrics.record(ctx, span, obs)
			r.logger.Warn("invalid tool arguments", "tool", name, "request_id", requestID, "error", errs)

			res := r.errors.ValidationError("invalid arguments: "+errs.Error(), name)
			res.Metadata.RequestID = requestID
			res.Metadata.ResponseTime = tool.Since(start)
			return res
		}
	}

	data, err := r.run(ctx, m, args)
	if err != nil {
		obs.code, _ = toolerr.Classify(err)
		r.metrics.record(ctx, span, obs)
		span.RecordError(err)
		r.logger.Warn("tool execution failed",
			"tool", name,
			"request_id", requestID,
			"code", obs.code,
			"error", err,
		)
		return r.errors.ToolError(err, ec)
	}

	obs.success = true
	r.metrics.record(ctx, span, obs)

	meta := &tool.Metadata{
		QuotaUsed:    m.Descriptor.QuotaCost,
		ResponseTime: tool.Since(start),
		Source:       name,
		RequestID:    requestID,
	}
	r.logger.Debug("tool executed", "tool", name, "request_id", requestID, "duration_ms", meta.ResponseTime)
	return tool.Ok(data, meta)
}

// run constructs and invokes one tool, converting a panic in either step
// into an error.
func (r *Registry) run(ctx context.Context, m Module, args map[string]any) (data any, err error) {
	name := m.Descriptor.Name
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", "tool", name, "panic", fmt.Sprint(p), "stack", string(debug.Stack()))
			data = nil
			err = toolerr.New(name, "run", toolerr.ErrCodeExecutionFailed, "panic: "+toolerr.Normalize(p)).
				WithKind(toolerr.KindExecution)
		}
	}()

	t, err := m.Factory.New(r.env, r)
	if err != nil {
		return nil, toolerr.New(name, "construct", toolerr.ErrCodeExecutionFailed, "failed to construct tool").
			WithKind(toolerr.KindExecution).
			WithCause(err)
	}
	return t.Run(ctx, args)
}
