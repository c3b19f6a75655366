package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"aetdeficit/internal/charts"
	"aetdeficit/internal/config"
	"aetdeficit/internal/dataprocessing"
	"aetdeficit/internal/exporter"
	"aetdeficit/internal/infrastructure"
	"aetdeficit/pkg/contracts/domain"
)

// PlotExporter writes one figure to a file.
type PlotExporter interface {
	Export(fig charts.Figure, path string) error
}

// RunLogger appends lines to the plain-text run log.
type RunLogger interface {
	Printf(format string, args ...any) error
}

// RunnerConfig holds what the runner needs from the report configuration.
type RunnerConfig struct {
	OutputDir  string
	Vegetation []domain.VegetationType
	Periods    []domain.TimePeriod
	Chart      charts.Options
	Policy     FailurePolicy
}

// NewRunnerConfig derives the runner settings from a report configuration.
func NewRunnerConfig(cfg config.ReportConfig) RunnerConfig {
	return RunnerConfig{
		OutputDir:  cfg.OutputDir,
		Vegetation: cfg.Vegetation,
		Periods:    cfg.Periods,
		Chart:      ChartOptions(cfg),
		Policy:     ParseFailurePolicy(cfg.FailurePolicy),
	}
}

// ChartOptions maps the report configuration onto figure options. With
// PrimaryUsesBaseline set, primary points use the first period's columns.
func ChartOptions(cfg config.ReportConfig) charts.Options {
	opts := charts.Options{
		PrimarySource: cfg.PrimarySource,
		FallbackStyle: cfg.FallbackStyle,
		Styles:        cfg.Styles,
	}
	if cfg.PrimaryUsesBaseline && len(cfg.Periods) > 0 {
		baseline := cfg.Periods[0]
		opts.Baseline = &baseline
	}
	return opts
}

// Report is the outcome of a run.
type Report struct {
	TraceID    string
	StartedAt  time.Time
	FinishedAt time.Time
	Filter     dataprocessing.FilterStats
	Results    []domain.PlotResult
}

// Succeeded returns the number of plots written.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == domain.PlotStatusCompleted {
			n++
		}
	}
	return n
}

// Failed returns the number of plots that could not be written.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == domain.PlotStatusFailed {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ReportRunner renders every (vegetation type, time period) plot of a run.
type ReportRunner struct {
	cfg      RunnerConfig
	exporter PlotExporter
	runLog   RunLogger
	metrics  *ReportMetrics
	logger   *slog.Logger
}

// NewReportRunner creates a runner writing figures with exp and success
// lines to runLog.
func NewReportRunner(cfg RunnerConfig, exp PlotExporter, runLog RunLogger, logger *slog.Logger) *ReportRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportRunner{
		cfg:      cfg,
		exporter: exp,
		runLog:   runLog,
		metrics:  defaultReportMetrics(),
		logger:   infrastructure.WithComponent(logger, "report_runner"),
	}
}

// WithMetrics replaces the instruments the runner records to.
func (r *ReportRunner) WithMetrics(m *ReportMetrics) *ReportRunner {
	if m != nil {
		r.metrics = m
	}
	return r
}

// Jobs returns the plot jobs in run order: vegetation outer, period inner.
func (r *ReportRunner) Jobs() []domain.PlotJob {
	jobs := make([]domain.PlotJob, 0, len(r.cfg.Vegetation)*len(r.cfg.Periods))
	for _, veg := range r.cfg.Vegetation {
		for _, period := range r.cfg.Periods {
			jobs = append(jobs, domain.PlotJob{Vegetation: veg, Period: period})
		}
	}
	return jobs
}

// Run renders every job against table. The returned report is never nil
// and holds one result per attempted job, also when an error is returned.
func (r *ReportRunner) Run(ctx context.Context, table *domain.PointTable) (*Report, error) {
	report := &Report{
		TraceID:   infrastructure.GetTraceID(ctx),
		StartedAt: time.Now(),
	}
	defer func() { report.FinishedAt = time.Now() }()

	ctx, span := tracer.Start(ctx, StageRender)
	defer span.End()

	jobs := r.Jobs()
	span.SetAttributes(attribute.Int("jobs", len(jobs)))
	tracker := NewProgressTracker(StageRender, len(jobs))

	r.logger.InfoContext(ctx, "Rendering plots",
		slog.Int("jobs", len(jobs)),
		slog.Int("rows", table.Len()),
		slog.String("policy", string(r.cfg.Policy)))

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			current, total, _, _ := tracker.GetProgress()
			span.SetStatus(codes.Error, "cancelled")
			return report, NewCancellationError(StageRender, err).
				WithContext("attempted", current).
				WithContext("total", total)
		}

		result := r.runJob(ctx, job, table)
		report.Results = append(report.Results, result)
		tracker.Increment(job.Key())

		if result.Status == domain.PlotStatusFailed {
			r.logger.ErrorContext(ctx, "Plot failed",
				slog.String("vegetation", job.Vegetation.Code),
				slog.String("period", job.Period.Label),
				slog.String("error", result.ErrorMessage()))
			if r.cfg.Policy == FailFast {
				span.SetStatus(codes.Error, "plot failed")
				return report, NewItemError(job, result.Err)
			}
			continue
		}

		if err := r.runLog.Printf(msgPlotCreated, job.Vegetation.Code, job.Period.Label, result.Path); err != nil {
			return report, NewPipelineError(StageRender, "write run log", err)
		}

		current, total, pct, _ := tracker.GetProgress()
		r.logger.InfoContext(ctx, "Plot created",
			slog.String("vegetation", job.Vegetation.Code),
			slog.String("period", job.Period.Label),
			slog.String("path", result.Path),
			slog.Int("primary_points", result.PrimaryPoints),
			slog.Int("other_points", result.OtherPoints),
			slog.Int("current", current),
			slog.Int("total", total),
			slog.Float64("progress", pct))
	}

	r.logger.InfoContext(ctx, "Rendering finished",
		slog.Int("succeeded", report.Succeeded()),
		slog.Int("failed", report.Failed()),
		slog.String("elapsed", tracker.GetElapsedTimeString()))

	if failed := report.Failed(); failed > 0 {
		span.SetStatus(codes.Error, "plots failed")
		return report, fmt.Errorf("%w: %d of %d", ErrPlotsFailed, failed, len(jobs))
	}
	return report, nil
}

func (r *ReportRunner) runJob(ctx context.Context, job domain.PlotJob, table *domain.PointTable) domain.PlotResult {
	ctx, span := tracer.Start(ctx, "plot", trace.WithAttributes(
		attribute.String("veg_type", job.Vegetation.Code),
		attribute.String("period", job.Period.Label),
	))
	defer span.End()

	start := time.Now()
	fig := charts.BuildFigure(table, job.Vegetation, job.Period, r.cfg.Chart)
	primary, other := fig.Counts()

	result := domain.PlotResult{
		Job:           job,
		Path:          filepath.Join(r.cfg.OutputDir, exporter.PlotFileName(job.Vegetation.Code, job.Period.Label)),
		PrimaryPoints: primary,
		OtherPoints:   other,
		Status:        domain.PlotStatusCompleted,
	}

	for _, l := range fig.Layers {
		if l.Skipped > 0 {
			r.logger.DebugContext(ctx, "Skipped points with missing coordinates",
				slog.String("plot", job.Key()),
				slog.String("source", l.Source),
				slog.Int("skipped", l.Skipped))
		}
	}

	span.SetAttributes(
		attribute.Int("primary_points", primary),
		attribute.Int("other_points", other),
	)

	if err := r.exporter.Export(fig, result.Path); err != nil {
		result.Status = domain.PlotStatusFailed
		result.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "export failed")
	}
	result.Duration = time.Since(start)
	r.metrics.recordPlot(ctx, result)
	return result
}
