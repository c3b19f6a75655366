package operations

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"aetdeficit/internal/dataprocessing"
	"aetdeficit/internal/infrastructure"
	"aetdeficit/pkg/contracts/domain"
)

var tracer = otel.Tracer(infrastructure.InstrumentationName)

// ReportMetrics holds the instruments recorded by a report run.
type ReportMetrics struct {
	plotsTotal   metric.Int64Counter
	plotDuration metric.Float64Histogram
	inputRows    metric.Int64Counter
	runsTotal    metric.Int64Counter
}

// CreateReportMetrics creates the report instruments on meter.
func CreateReportMetrics(meter metric.Meter) (*ReportMetrics, error) {
	plotsTotal, err := meter.Int64Counter(
		"aetdeficit_plots_total",
		metric.WithDescription("Total number of plot jobs attempted, by status"),
	)
	if err != nil {
		return nil, err
	}

	plotDuration, err := meter.Float64Histogram(
		"aetdeficit_plot_duration_seconds",
		metric.WithDescription("Time to build, render and export one plot"),
	)
	if err != nil {
		return nil, err
	}

	inputRows, err := meter.Int64Counter(
		"aetdeficit_input_rows_total",
		metric.WithDescription("Input rows read, by filter outcome"),
	)
	if err != nil {
		return nil, err
	}

	runsTotal, err := meter.Int64Counter(
		"aetdeficit_runs_total",
		metric.WithDescription("Total number of report runs, by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &ReportMetrics{
		plotsTotal:   plotsTotal,
		plotDuration: plotDuration,
		inputRows:    inputRows,
		runsTotal:    runsTotal,
	}, nil
}

// defaultReportMetrics creates instruments on the global meter provider,
// falling back to no-op instruments.
func defaultReportMetrics() *ReportMetrics {
	m, err := CreateReportMetrics(otel.Meter(infrastructure.InstrumentationName))
	if err != nil {
		m, _ = CreateReportMetrics(noop.NewMeterProvider().Meter(infrastructure.InstrumentationName))
	}
	return m
}

func (m *ReportMetrics) recordPlot(ctx context.Context, result domain.PlotResult) {
	attrs := metric.WithAttributes(
		attribute.String("status", string(result.Status)),
		attribute.String("period", result.Job.Period.Label),
	)
	m.plotsTotal.Add(ctx, 1, attrs)
	m.plotDuration.Record(ctx, result.Duration.Seconds(), attrs)
}

func (m *ReportMetrics) recordFilter(ctx context.Context, stats dataprocessing.FilterStats) {
	m.inputRows.Add(ctx, int64(stats.Kept), metric.WithAttributes(attribute.String("outcome", "kept")))
	m.inputRows.Add(ctx, int64(stats.Dropped), metric.WithAttributes(attribute.String("outcome", "dropped")))
}

func (m *ReportMetrics) recordRun(ctx context.Context, err error) {
	outcome := "success"
	if err != nil {
		outcome = string(GetErrorType(err))
	}
	m.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
