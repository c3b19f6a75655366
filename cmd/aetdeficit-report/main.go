package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aetdeficit/internal/config"
	"aetdeficit/internal/infrastructure"
	"aetdeficit/internal/operations"
	"aetdeficit/pkg/contracts"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to aetdeficit.yaml if present)")
	inputPath := flag.String("in", "", "input table, .xlsx or .csv (overrides report.input_path)")
	outputDir := flag.String("out", "", "directory for the PDF plots (overrides report.output_dir)")
	continueOnError := flag.Bool("continue", false, "keep rendering after a plot fails")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString(config.AppName))
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if err := applyFlags(cfg, *inputPath, *outputDir, *continueOnError); err != nil {
		slog.Error("Invalid command line", "error", err)
		return 1
	}

	paths := config.NewPaths(cfg.Report, time.Now())
	resolveOutputFiles(cfg, paths)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, contracts.Version, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			logger.Warn("Failed to flush telemetry", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureTraceID(ctx)

	logger.InfoContext(ctx, "Starting report run",
		slog.String("app", config.AppName),
		slog.String("version", contracts.Version),
		slog.String("input", cfg.Report.InputPath),
		slog.String("output_dir", paths.OutputDir),
		slog.String("failure_policy", cfg.Report.FailurePolicy))

	pipeline := operations.NewPipeline(cfg.Report, paths, logger)
	if cfg.Logging.Output == "file" {
		pipeline.WithEcho(os.Stdout)
	}

	report, err := pipeline.Execute(ctx)
	printSummary(os.Stdout, report)
	if err != nil {
		return 1
	}
	return 0
}

// resolveOutputFiles places the app log, trace and metrics files in the
// workspace unless the configuration names them.
func resolveOutputFiles(cfg *config.Config, paths *config.Paths) {
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = paths.AppLogFile
	}
	if cfg.Telemetry.TraceFile == "" {
		cfg.Telemetry.TraceFile = paths.TraceFile
	}
	if cfg.Telemetry.MetricsFile == "" {
		cfg.Telemetry.MetricsFile = paths.MetricsFile
	}
}

// applyFlags overlays command line values onto cfg and revalidates it.
func applyFlags(cfg *config.Config, inputPath, outputDir string, continueOnError bool) error {
	if inputPath != "" {
		cfg.Report.InputPath = inputPath
	}
	if outputDir != "" {
		cfg.Report.OutputDir = outputDir
	}
	if continueOnError {
		cfg.Report.FailurePolicy = string(operations.Continue)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("apply flags: %w", err)
	}
	return nil
}
