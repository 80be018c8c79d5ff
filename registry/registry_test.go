package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/youtube-mcp/schema"
	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func simpleModule(name string, fn tool.RunFunc) Module {
	return Module{
		Descriptor: tool.Descriptor{
			Name:        name,
			Description: "test tool " + name,
			InputSchema: schema.Object(nil),
			QuotaCost:   tool.Cost(1),
		},
		Factory: tool.Simple(func(tool.Env) (tool.Tool, error) { return fn, nil }),
	}
}

func echoModule() Module {
	m := simpleModule("echo", func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"echo": args["text"]}, nil
	})
	m.Descriptor.InputSchema = schema.Object(map[string]schema.JSON{
		"text": schema.String(),
	}, "text")
	return m
}

func newTestRegistry(t *testing.T, modules ...Module) *Registry {
	t.Helper()
	reg := New(StaticSource(modules...), WithLogger(quietLogger()))
	require.NoError(t, reg.LoadAll(context.Background()))
	return reg
}

func TestLoadAllIdempotent(t *testing.T) {
	var calls atomic.Int32
	src := SourceFunc(func(context.Context) ([]Module, error) {
		calls.Add(1)
		return []Module{echoModule()}, nil
	})

	reg := New(src, WithLogger(quietLogger()))
	require.NoError(t, reg.LoadAll(context.Background()))
	require.NoError(t, reg.LoadAll(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, reg.Len())
}

func TestLoadAllRejectsBadModules(t *testing.T) {
	invalid := simpleModule("bad", nil)
	invalid.Descriptor.Description = ""

	negative := simpleModule("negative", nil)
	negative.Descriptor.QuotaCost = tool.Cost(-1)

	mismatched := simpleModule("mismatched", nil)
	mismatched.Descriptor.Chainable = true

	noFactory := simpleModule("no_factory", nil)
	noFactory.Factory = tool.Factory{}

	duplicate := simpleModule("echo", func(context.Context, map[string]any) (any, error) {
		return "second", nil
	})

	reg := newTestRegistry(t, echoModule(), invalid, negative, mismatched, noFactory, duplicate)

	assert.Equal(t, 1, reg.Len())
	for _, name := range []string{"bad", "negative", "mismatched", "no_factory"} {
		_, ok := reg.Lookup(name)
		assert.False(t, ok, name)
	}

	// First registration wins.
	res := reg.Execute(context.Background(), "echo", map[string]any{"text": "hi"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, map[string]any{"echo": "hi"}, res.Data)
}

func TestLoadAllSourceError(t *testing.T) {
	cause := errors.New("table unavailable")
	reg := New(SourceFunc(func(context.Context) ([]Module, error) {
		return nil, cause
	}), WithLogger(quietLogger()))

	err := reg.LoadAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var te *toolerr.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, toolerr.KindLoad, te.Kind)
	assert.Equal(t, toolerr.ErrCodeLoadFailed, te.Code)
	assert.Equal(t, 0, reg.Len())

	assert.Error(t, New(nil, WithLogger(quietLogger())).LoadAll(context.Background()))
}

func TestListSortedAndLookup(t *testing.T) {
	reg := newTestRegistry(t,
		simpleModule("zeta", nil),
		simpleModule("alpha", nil),
		simpleModule("mid", nil),
	)

	var names []string
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)

	d, ok := reg.Lookup("mid")
	require.True(t, ok)
	assert.Equal(t, "test tool mid", d.Description)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestExecuteNotFound(t *testing.T) {
	reg := newTestRegistry(t, echoModule())

	res := reg.Execute(context.Background(), "nope", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "tool not found: nope", res.Error)
	assert.Nil(t, res.Data)
	require.NoError(t, res.Validate())
}

func TestExecuteSuccessMetadata(t *testing.T) {
	reg := newTestRegistry(t, echoModule())

	res := reg.Execute(context.Background(), "echo", map[string]any{"text": "hello"})
	require.True(t, res.Success, res.Error)
	require.NoError(t, res.Validate())
	require.NotNil(t, res.Metadata)
	require.NotNil(t, res.Metadata.QuotaUsed)
	assert.Equal(t, 1, *res.Metadata.QuotaUsed)
	assert.Equal(t, "echo", res.Metadata.Source)
	assert.NotEmpty(t, res.Metadata.RequestID)
	assert.GreaterOrEqual(t, res.Metadata.ResponseTime, int64(0))
}

func TestExecuteNilDataBecomesEmptyObject(t *testing.T) {
	reg := newTestRegistry(t, simpleModule("void", func(context.Context, map[string]any) (any, error) {
		return nil, nil
	}))

	res := reg.Execute(context.Background(), "void", nil)
	require.True(t, res.Success)
	assert.Equal(t, map[string]any{}, res.Data)
}

func TestExecuteArgumentValidation(t *testing.T) {
	var ran atomic.Bool
	m := echoModule()
	m.Factory = tool.Simple(func(tool.Env) (tool.Tool, error) {
		return tool.RunFunc(func(context.Context, map[string]any) (any, error) {
			ran.Store(true)
			return "ran", nil
		}), nil
	})

	reg := newTestRegistry(t, m)

	res := reg.Execute(context.Background(), "echo", map[string]any{"text": 42})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid arguments")
	assert.Contains(t, res.Error, "text")
	require.NotNil(t, res.Metadata.QuotaUsed)
	assert.Equal(t, 0, *res.Metadata.QuotaUsed)
	assert.Equal(t, "echo", res.Metadata.Source)
	assert.False(t, ran.Load())

	res = reg.Execute(context.Background(), "echo", nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "required field text is missing")

	lax := New(StaticSource(m), WithLogger(quietLogger()), WithArgumentValidation(false))
	require.NoError(t, lax.LoadAll(context.Background()))
	res = lax.Execute(context.Background(), "echo", map[string]any{"text": 42})
	assert.True(t, res.Success)
	assert.True(t, ran.Load())
}

func TestExecuteToolError(t *testing.T) {
	reg := newTestRegistry(t, simpleModule("failing", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("upstream exploded")
	}))

	res := reg.Execute(context.Background(), "failing", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "upstream exploded", res.Error)
	assert.Nil(t, res.Data)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, "failing", res.Metadata.Source)
}

func TestExecuteRecoversPanics(t *testing.T) {
	runPanic := simpleModule("run_panic", func(context.Context, map[string]any) (any, error) {
		panic("kaboom")
	})
	buildPanic := Module{
		Descriptor: simpleModule("build_panic", nil).Descriptor,
		Factory: tool.Simple(func(tool.Env) (tool.Tool, error) {
			panic(errors.New("constructor blew up"))
		}),
	}
	weirdPanic := simpleModule("weird_panic", func(context.Context, map[string]any) (any, error) {
		panic(struct{ n int }{7})
	})

	reg := newTestRegistry(t, runPanic, buildPanic, weirdPanic)

	var res tool.Result
	require.NotPanics(t, func() {
		res = reg.Execute(context.Background(), "run_panic", nil)
	})
	assert.False(t, res.Success)
	assert.Equal(t, "panic: kaboom", res.Error)

	res = reg.Execute(context.Background(), "build_panic", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "panic: constructor blew up", res.Error)

	res = reg.Execute(context.Background(), "weird_panic", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "panic: "+toolerr.FallbackMessage, res.Error)
}

func TestExecuteConstructionError(t *testing.T) {
	m := Module{
		Descriptor: simpleModule("unbuildable", nil).Descriptor,
		Factory: tool.Simple(func(tool.Env) (tool.Tool, error) {
			return nil, errors.New("missing credentials")
		}),
	}
	reg := newTestRegistry(t, m)

	res := reg.Execute(context.Background(), "unbuildable", nil)
	assert.False(t, res.Success)
	assert.Equal(t, "failed to construct tool: missing credentials", res.Error)
}

func TestExecuteChainable(t *testing.T) {
	var seenEnv tool.Env
	chain := Module{
		Descriptor: tool.Descriptor{
			Name:        "shout",
			Description: "echoes in upper case",
			InputSchema: schema.Object(map[string]schema.JSON{"text": schema.String()}, "text"),
			QuotaCost:   tool.Cost(2),
			Chainable:   true,
		},
		Factory: tool.Chainable(func(env tool.Env, inv tool.Invoker) (tool.Tool, error) {
			seenEnv = env
			return tool.RunFunc(func(ctx context.Context, args map[string]any) (any, error) {
				inner := inv.Execute(ctx, "echo", args)
				if !inner.Success {
					return nil, errors.New(inner.Error)
				}
				echoed := inner.Data.(map[string]any)["echo"].(string)
				return strings.ToUpper(echoed), nil
			}), nil
		}),
	}

	reg := New(StaticSource(echoModule(), chain),
		WithLogger(quietLogger()),
		WithEnv(tool.Env{MaxResults: 25}),
	)
	require.NoError(t, reg.LoadAll(context.Background()))

	res := reg.Execute(context.Background(), "shout", map[string]any{"text": "hey"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "HEY", res.Data)
	assert.Equal(t, 2, *res.Metadata.QuotaUsed)
	assert.Equal(t, int64(25), seenEnv.MaxResults)
	assert.NotNil(t, seenEnv.Logger)
}

func TestEnvDefaults(t *testing.T) {
	reg := New(StaticSource())
	assert.Equal(t, int64(DefaultMaxResults), reg.env.MaxResults)
	assert.NotNil(t, reg.env.Logger)
}

func TestReload(t *testing.T) {
	var mu sync.Mutex
	modules := []Module{echoModule()}
	fail := false
	src := SourceFunc(func(context.Context) ([]Module, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("gone")
		}
		out := make([]Module, len(modules))
		copy(out, modules)
		return out, nil
	})

	reg := New(src, WithLogger(quietLogger()))
	require.NoError(t, reg.LoadAll(context.Background()))
	assert.Equal(t, 1, reg.Len())

	mu.Lock()
	modules = []Module{simpleModule("fresh", nil), simpleModule("other", nil)}
	mu.Unlock()

	require.NoError(t, reg.Reload(context.Background()))
	assert.Equal(t, 2, reg.Len())
	_, ok := reg.Lookup("echo")
	assert.False(t, ok)

	mu.Lock()
	fail = true
	mu.Unlock()

	assert.Error(t, reg.Reload(context.Background()))
	assert.Equal(t, 2, reg.Len(), "failed reload keeps the previous catalog")
}

func TestConcurrentExecutions(t *testing.T) {
	const n = 3
	var started sync.WaitGroup
	started.Add(n)
	release := make(chan struct{})

	blocking := func(name string) Module {
		return simpleModule(name, func(ctx context.Context, _ map[string]any) (any, error) {
			started.Done()
			select {
			case <-release:
				return name, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		})
	}

	reg := newTestRegistry(t, blocking("a"), blocking("b"), blocking("c"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results := make(chan tool.Result, n)
	for _, name := range []string{"a", "b", "c"} {
		go func(name string) {
			results <- reg.Execute(ctx, name, nil)
		}(name)
	}

	// All three must be running at once before any is released.
	started.Wait()
	close(release)

	got := map[any]bool{}
	for i := 0; i < n; i++ {
		res := <-results
		require.True(t, res.Success, res.Error)
		got[res.Data] = true
	}
	assert.Equal(t, map[any]bool{"a": true, "b": true, "c": true}, got)
}

func TestTelemetry(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	failing := simpleModule("failing", func(context.Context, map[string]any) (any, error) {
		return nil, toolerr.ErrTimeout
	})

	reg := New(StaticSource(echoModule(), failing),
		WithLogger(quietLogger()),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	require.NoError(t, reg.LoadAll(context.Background()))

	reg.Execute(context.Background(), "echo", map[string]any{"text": "x"})
	reg.Execute(context.Background(), "failing", nil)
	reg.Execute(context.Background(), "missing", nil)

	spans := sr.Ended()
	require.Len(t, spans, 3)
	for _, s := range spans {
		assert.Equal(t, SpanExecute, s.Name())
	}

	first := attrMap(spans[0].Attributes())
	assert.Equal(t, "echo", first["tool.name"].AsString())
	assert.True(t, first["tool.success"].AsBool())
	assert.False(t, first["tool.chainable"].AsBool())

	second := attrMap(spans[1].Attributes())
	assert.False(t, second["tool.success"].AsBool())
	assert.Equal(t, toolerr.ErrCodeTimeout, second["error.code"].AsString())

	third := attrMap(spans[2].Attributes())
	assert.Equal(t, toolerr.ErrCodeNotFound, third["error.code"].AsString())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	outcomes := map[string]int64{}
	var durations uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case MetricExecutions:
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					outcome, _ := dp.Attributes.Value("outcome")
					outcomes[outcome.AsString()] += dp.Value
				}
			case MetricDuration:
				hist, ok := m.Data.(metricdata.Histogram[float64])
				require.True(t, ok)
				for _, dp := range hist.DataPoints {
					durations += dp.Count
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{"success": 1, "failure": 2}, outcomes)
	assert.Equal(t, uint64(3), durations)
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}
