package operations

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"aetdeficit/internal/config"
	"aetdeficit/internal/dataprocessing"
	"aetdeficit/internal/exporter"
	"aetdeficit/internal/infrastructure"
	"aetdeficit/internal/validation"
)

// Pipeline runs one complete report: setup, load, filter, render and
// manifest. It owns the run log for the duration of Execute.
type Pipeline struct {
	cfg       config.ReportConfig
	paths     *config.Paths
	validator *validation.FileValidator
	csv       *exporter.CSVWriter
	exporter  PlotExporter
	echo      io.Writer
	metrics   *ReportMetrics
	logger    *slog.Logger
}

// NewPipeline creates a pipeline writing PDFs of the configured figure size.
func NewPipeline(cfg config.ReportConfig, paths *config.Paths, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		paths:     paths,
		validator: validation.NewFileValidator(logger),
		csv:       exporter.NewCSVWriter(logger),
		exporter:  exporter.NewPDFWriter(cfg.FigureWidth, cfg.FigureHeight, logger),
		metrics:   defaultReportMetrics(),
		logger:    infrastructure.WithComponent(logger, "pipeline"),
	}
}

// WithExporter replaces the PDF exporter.
func (p *Pipeline) WithExporter(exp PlotExporter) *Pipeline {
	p.exporter = exp
	return p
}

// WithMetrics replaces the instruments the run records to.
func (p *Pipeline) WithMetrics(m *ReportMetrics) *Pipeline {
	if m != nil {
		p.metrics = m
	}
	return p
}

// WithEcho copies every run log line to w.
func (p *Pipeline) WithEcho(w io.Writer) *Pipeline {
	p.echo = w
	return p
}

// Execute runs the report. The returned report is never nil. Errors that
// stop the run before rendering are *PipelineError; a failed plot surfaces
// as *ItemError under FailFast or wraps ErrPlotsFailed under Continue.
// Every outcome after the run log is open ends with one overall line.
func (p *Pipeline) Execute(ctx context.Context) (report *Report, err error) {
	ctx, span := tracer.Start(ctx, "report_run")
	defer func() {
		p.metrics.recordRun(ctx, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(GetErrorType(err)))
		}
		span.End()
	}()

	started := time.Now()
	report = &Report{TraceID: infrastructure.GetTraceID(ctx), StartedAt: started}

	if err := p.setup(); err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}

	runLog, err := infrastructure.OpenRunLog(p.paths.LogFile, p.echo)
	if err != nil {
		report.FinishedAt = time.Now()
		return report, NewPipelineError(StageSetup, "open run log", err).
			WithContext("path", p.paths.LogFile)
	}
	defer func() {
		if cerr := runLog.Close(); cerr != nil {
			p.logger.Warn("Failed to close run log",
				slog.String("path", runLog.Path()),
				slog.String("error", cerr.Error()))
		}
	}()

	report, err = p.run(ctx, runLog)
	report.StartedAt = started
	if report.FinishedAt.IsZero() {
		report.FinishedAt = time.Now()
	}

	if err != nil {
		p.logger.ErrorContext(ctx, "Report run failed",
			slog.String("error_type", string(GetErrorType(err))),
			slog.String("error", err.Error()))
		if lerr := runLog.Printf(msgRunFailed, config.AppName, err); lerr != nil {
			p.logger.Error("Failed to write run log", slog.String("error", lerr.Error()))
		}
		return report, err
	}

	if err := runLog.Printf(msgRunComplete, config.AppName); err != nil {
		return report, NewPipelineError(StageManifest, "write run log", err)
	}
	p.logger.InfoContext(ctx, "Report run completed",
		slog.Int("plots", report.Succeeded()),
		slog.Duration("duration", report.Duration()))
	return report, nil
}

func (p *Pipeline) setup() error {
	p.paths.LogPathResolution(p.logger)

	if err := p.paths.EnsureDirectories(); err != nil {
		return NewPipelineError(StageSetup, "create directories", err)
	}
	if err := p.validator.ValidateOutputDirectory(p.paths.OutputDir); err != nil {
		return NewPipelineError(StageSetup, "validate output directory", err)
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, runLog RunLogger) (*Report, error) {
	empty := &Report{TraceID: infrastructure.GetTraceID(ctx)}

	if err := p.validator.ValidateInputTable(p.cfg.InputPath); err != nil {
		return empty, NewPipelineError(StageLoad, "validate input", err).
			WithContext("path", p.cfg.InputPath)
	}

	_, loadSpan := tracer.Start(ctx, StageLoad)
	table, err := dataprocessing.LoadPoints(p.cfg.InputPath, p.cfg.NumericColumns())
	if err != nil {
		loadSpan.SetStatus(codes.Error, "load failed")
		loadSpan.End()
		return empty, NewPipelineError(StageLoad, "load input", err).
			WithContext("path", p.cfg.InputPath)
	}
	loadSpan.SetAttributes(attribute.Int("rows", table.Len()))
	loadSpan.End()

	filtered, stats := dataprocessing.FilterNonNegativeAET(table, p.cfg.AETColumns())
	p.metrics.recordFilter(ctx, stats)
	p.logger.InfoContext(ctx, "Filtered negative AET rows",
		slog.Int("total", stats.Total),
		slog.Int("kept", stats.Kept),
		slog.Int("dropped", stats.Dropped))

	runner := NewReportRunner(NewRunnerConfig(p.cfg), p.exporter, runLog, p.logger).WithMetrics(p.metrics)
	report, runErr := runner.Run(ctx, filtered)
	report.Filter = stats

	if err := p.csv.WriteManifest(p.paths.ManifestFile, report.Results); err != nil {
		if runErr != nil {
			p.logger.Error("Failed to write manifest",
				slog.String("path", p.paths.ManifestFile),
				slog.String("error", err.Error()))
			return report, runErr
		}
		return report, NewPipelineError(StageManifest, "write manifest", err).
			WithContext("path", p.paths.ManifestFile)
	}
	return report, runErr
}
