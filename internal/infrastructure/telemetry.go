package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"aetdeficit/internal/config"
)

// InstrumentationName names the tracer and meter of the report pipeline.
const InstrumentationName = "aetdeficit"

// Telemetry holds the OpenTelemetry providers of one run. Spans are written
// as JSON lines to the trace file; metrics are gathered into a Prometheus
// registry and written as a node_exporter textfile on Shutdown.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry

	traceFile   *os.File
	metricsPath string
	logger      *slog.Logger
}

// InitializeTelemetry installs the global tracer and meter providers the
// configuration asks for. With both disabled the global no-op providers
// stay in place and Shutdown does nothing.
func InitializeTelemetry(cfg config.TelemetryConfig, version string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Telemetry{logger: logger}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(version),
	)

	if cfg.Tracing {
		if err := t.initializeTracing(cfg.TraceFile, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	}

	if cfg.Metrics {
		if err := t.initializeMetrics(cfg.MetricsFile, res); err != nil {
			_ = t.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	logger.Info("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.Bool("metrics_enabled", cfg.Metrics))
	return t, nil
}

func (t *Telemetry) initializeTracing(path string, res *resource.Resource) error {
	f, err := openAppendFile(path)
	if err != nil {
		return err
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	t.traceFile = f
	t.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(t.TracerProvider)

	t.logger.Debug("Tracing initialized", slog.String("trace_file", path))
	return nil
}

func (t *Telemetry) initializeMetrics(path string, res *resource.Resource) error {
	if path == "" {
		return fmt.Errorf("metrics file path is empty")
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.Registry = registry
	t.metricsPath = path
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(t.MeterProvider)

	t.logger.Debug("Metrics initialized", slog.String("metrics_file", path))
	return nil
}

// Shutdown flushes pending spans, writes the metrics textfile and releases
// the providers. It is safe to call on a nil Telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
		t.TracerProvider = nil
	}
	if t.traceFile != nil {
		if err := t.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace file: %w", err))
		}
		t.traceFile = nil
	}

	if t.MeterProvider != nil {
		if err := os.MkdirAll(filepath.Dir(t.metricsPath), 0755); err != nil {
			errs = append(errs, fmt.Errorf("create metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsPath, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		}
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
		t.MeterProvider = nil
	}

	return errors.Join(errs...)
}

func openAppendFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("trace file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
