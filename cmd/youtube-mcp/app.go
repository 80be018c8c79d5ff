package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/youtube-mcp/config"
	"github.com/zero-day-ai/youtube-mcp/registry"
	"github.com/zero-day-ai/youtube-mcp/tool"
	"github.com/zero-day-ai/youtube-mcp/toolerr"
	"github.com/zero-day-ai/youtube-mcp/tools"
	"github.com/zero-day-ai/youtube-mcp/youtube"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/zero-day-ai/youtube-mcp"

// exit is replaced in tests so a critical startup failure does not end the test binary.
var exit = os.Exit

// app is everything a command needs once configuration has been resolved.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
	shutdown func(context.Context) error
}

// newApp loads configuration, builds the logger, telemetry and upstream
// client, and loads the tool catalog.
func newApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging)

	tracer, shutdown, err := setupTracing(ctx, cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	env := tool.Env{Logger: logger, MaxResults: cfg.YouTube.GetMaxResults()}
	if key := cfg.YouTube.GetAPIKey(); key != "" {
		endpoint, _ := cmd.Flags().GetString("youtube-endpoint")
		client, err := youtube.New(ctx, youtube.Config{
			APIKey:   key,
			Endpoint: endpoint,
			Timeout:  cfg.YouTube.GetTimeout(),
		}, youtube.WithLogger(logger))
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		env.YouTube = client
	} else {
		logger.Warn("no YouTube API key configured; upstream tools will fail", "env", config.EnvAPIKey)
	}

	reg := registry.New(registry.StaticSource(tools.Modules()...),
		registry.WithEnv(env),
		registry.WithLogger(logger),
		registry.WithTracer(tracer),
		registry.WithMeter(otel.GetMeterProvider().Meter(instrumentationName)),
	)
	if err := reg.LoadAll(ctx); err != nil {
		handler := toolerr.NewHandler(toolerr.WithLogger(logger), toolerr.WithExit(exit))
		handler.SystemError(err, toolerr.Component{Name: "registry", Operation: "load"}, true)
		_ = shutdown(ctx)
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, registry: reg, shutdown: shutdown}, nil
}

func (a *app) close(ctx context.Context) {
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", "error", err)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromCurrentDir()
		if errors.Is(err, config.ErrNotFound) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if cfg.Logging == nil {
			cfg.Logging = &config.LoggingConfig{}
		}
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes to w, never stdout: stdout carries the stdio transport.
func newLogger(w io.Writer, l *config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.GetLevel()}
	if l.GetFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// setupTracing installs an OTLP/HTTP exporter when an endpoint is configured.
func setupTracing(ctx context.Context, t *config.TelemetryConfig) (trace.Tracer, func(context.Context) error, error) {
	if !t.Enabled() {
		return tracenoop.NewTracerProvider().Tracer(instrumentationName), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(t.OTLPEndpoint)}
	if t.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("otel: failed to create exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", t.GetServiceName())),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("otel: failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return provider.Tracer(instrumentationName), provider.Shutdown, nil
}
