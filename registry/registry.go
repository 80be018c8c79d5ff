// Package registry holds the catalog of tools and dispatches calls to them.
//
// Tools are discovered from a Source (usually the build-time table returned
// by StaticSource), validated once, and kept in memory for the lifetime of
// the process. Every call goes through Execute, which resolves the tool,
// checks its arguments, constructs it according to its factory kind, runs it,
// and converts whatever happens into a tool.Result. Nothing a tool does,
// including panicking, escapes Execute.
//
// Example:
//
//	reg := registry.New(registry.StaticSource(tools.Modules()...),
//	    registry.WithEnv(tool.Env{YouTube: api}),
//	    registry.WithLogger(logger),
//	)
//	if err := reg.LoadAll(ctx); err != nil {
//	    return err
//	}
//	res := reg.Execute(ctx, "get_video_details", map[string]any{"id": "dQw4w9WgXcQ"})
package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DefaultMaxResults is the page size handed to tools when the Env leaves it unset.
const DefaultMaxResults = 10

// Module pairs a tool's descriptor with the factory that builds it.
type Module struct {
	Descriptor tool.Descriptor
	Factory    tool.Factory
}

// Source enumerates the modules available to a registry.
type Source interface {
	// Modules returns every module the source knows about. An error means
	// discovery itself failed; individual bad modules are returned as-is and
	// rejected by the registry.
	Modules(ctx context.Context) ([]Module, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]Module, error)

// Modules calls f(ctx).
func (f SourceFunc) Modules(ctx context.Context) ([]Module, error) {
	return f(ctx)
}

type staticSource []Module

func (s staticSource) Modules(context.Context) ([]Module, error) {
	out := make([]Module, len(s))
	copy(out, s)
	return out, nil
}

// StaticSource returns a Source over a fixed registration table.
func StaticSource(modules ...Module) Source {
	return staticSource(modules)
}

// Registry is the tool catalog. It is safe for concurrent use; the catalog is
// written only by LoadAll and Reload.
type Registry struct {
	source       Source
	env          tool.Env
	logger       *slog.Logger
	tracer       trace.Tracer
	meter        metric.Meter
	validateArgs bool
	errors       *toolerr.Handler
	metrics      *instruments

	mu      sync.RWMutex
	entries map[string]Module
	loaded  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithEnv sets the execution context handed to every factory.
func WithEnv(env tool.Env) Option {
	return func(r *Registry) {
		r.env = env
	}
}

// WithLogger sets the registry logger. It also becomes the Env logger when
// the Env does not carry one.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithTracer sets the tracer used for execution spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

// WithMeter sets the meter used for execution metrics.
func WithMeter(meter metric.Meter) Option {
	return func(r *Registry) {
		r.meter = meter
	}
}

// WithArgumentValidation toggles checking arguments against each tool's
// input schema before it runs. Enabled by default.
func WithArgumentValidation(enabled bool) Option {
	return func(r *Registry) {
		r.validateArgs = enabled
	}
}

// New creates a registry over src. Call LoadAll before executing tools.
func New(src Source, opts ...Option) *Registry {
	r := &Registry{
		source:       src,
		validateArgs: true,
		entries:      make(map[string]Module),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.env.Logger == nil {
		r.env.Logger = r.logger
	}
	if r.env.MaxResults <= 0 {
		r.env.MaxResults = DefaultMaxResults
	}
	if r.tracer == nil {
		r.tracer = tracenoop.NewTracerProvider().Tracer("registry")
	}
	if r.meter == nil {
		r.meter = metricnoop.NewMeterProvider().Meter("registry")
	}
	r.errors = toolerr.NewHandler(toolerr.WithLogger(r.logger))
	r.metrics = newInstruments(r.meter, r.logger)
	return r
}

// LoadAll discovers and validates every module from the source. It is
// idempotent: once the catalog is loaded further calls return nil without
// touching the source.
//
// Modules with an invalid descriptor, a factory that disagrees with the
// descriptor, or a name already taken are logged and skipped. A failure of
// the source itself is returned as a *toolerr.Error of kind load.
func (r *Registry) LoadAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}
	entries, err := r.discover(ctx)
	if err != nil {
		return err
	}
	r.entries = entries
	r.loaded = true
	return nil
}

// Reload rebuilds the catalog from the source and swaps it in whole. On
// error the previous catalog is kept.
func (r *Registry) Reload(ctx context.Context) error {
	entries, err := r.discover(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = entries
	r.loaded = true
	r.mu.Unlock()

	r.logger.Info("tool catalog reloaded", "tools", len(entries))
	return nil
}

func (r *Registry) discover(ctx context.Context) (map[string]Module, error) {
	if r.source == nil {
		return nil, toolerr.New("", "load", toolerr.ErrCodeLoadFailed, "no tool source configured").
			WithKind(toolerr.KindLoad)
	}

	modules, err := r.source.Modules(ctx)
	if err != nil {
		return nil, toolerr.New("", "load", toolerr.ErrCodeLoadFailed, "tool discovery failed").
			WithKind(toolerr.KindLoad).
			WithCause(err)
	}

	entries := make(map[string]Module, len(modules))
	for _, m := range modules {
		name := m.Descriptor.Name
		if err := m.Descriptor.Validate(); err != nil {
			r.logger.Warn("skipping tool with invalid descriptor", "tool", name, "error", err)
			continue
		}
		if err := m.Descriptor.CheckFactory(m.Factory); err != nil {
			r.logger.Warn("skipping tool with mismatched factory", "tool", name, "error", err)
			continue
		}
		if _, dup := entries[name]; dup {
			r.logger.Warn("skipping duplicate tool", "tool", name)
			continue
		}
		entries[name] = m
		r.logger.Debug("tool loaded", "tool", name, "kind", m.Factory.Kind())
	}

	r.logger.Info("tool catalog loaded", "tools", len(entries), "discovered", len(modules))
	return entries, nil
}

// List returns every loaded descriptor sorted by name.
func (r *Registry) List() []tool.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tool.Descriptor, 0, len(r.entries))
	for _, m := range r.entries {
		out = append(out, m.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (tool.Descriptor, bool) {
	m, ok := r.module(name)
	return m.Descriptor, ok
}

// Len returns the number of loaded tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) module(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.entries[name]
	return m, ok
}

var _ tool.Invoker = (*Registry)(nil)
