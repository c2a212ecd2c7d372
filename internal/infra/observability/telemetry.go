package observability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// LoadConfig parses OTel settings from the environment, same env-tag idiom
// as internal/infra/config.
func LoadConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse observability config: %w", err)
	}
	return &cfg, nil
}

// TracerProvider owns the sdktrace.TracerProvider's lifecycle so cmd/server
// can shut it down on exit.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracerProvider builds a tracer. With no exporter endpoint configured (or
// when disabled) it returns a no-op tracer so every manager.TakeRequest span
// is free — matching how the teacher falls back gracefully when an
// integration isn't configured.
func NewTracerProvider(cfg *Config, logger *slog.Logger) (*TracerProvider, error) {
	if !cfg.Enabled || cfg.ExporterEndpoint == "" {
		tracer := noop.NewTracerProvider().Tracer(cfg.ServiceName)
		return &TracerProvider{tracer: tracer}, nil
	}

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.ExporterEndpoint),
		otlptracehttp.WithTimeout(cfg.ExporterTimeout),
	}
	if cfg.ExporterInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	client := otlptracehttp.NewClient(opts...)
	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		return nil, fmt.Errorf("failed to build OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(cfg.BatchTimeout)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRatio)),
	)
	otel.SetTracerProvider(provider)

	logger.Info("tracer provider initialized",
		"service", cfg.ServiceName,
		"endpoint", cfg.ExporterEndpoint,
		"sampling_ratio", cfg.SamplingRatio)

	return &TracerProvider{provider: provider, tracer: provider.Tracer(cfg.ServiceName)}, nil
}

// Tracer returns the tracer manager.Manager should be constructed with.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// Shutdown flushes any pending spans. Safe to call on a no-op provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}
