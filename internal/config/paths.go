package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains every file system location a report run touches.
// It is derived once from the report configuration and the run date.
type Paths struct {
	OutputDir    string
	WorkspaceDir string
	LogFile      string
	ManifestFile string
	AppLogFile   string
	TraceFile    string
	MetricsFile  string
}

// NewPaths resolves the run paths. The run log and manifest carry the run
// date so that each day's runs share one log.
func NewPaths(cfg ReportConfig, runDate time.Time) *Paths {
	workspace := filepath.Join(cfg.OutputDir, WorkspaceDirName)
	stamp := runDate.Format(RunDateLayout)
	return &Paths{
		OutputDir:    cfg.OutputDir,
		WorkspaceDir: workspace,
		LogFile:      filepath.Join(workspace, fmt.Sprintf("%s_%s.LogFile.txt", cfg.OutName, stamp)),
		ManifestFile: filepath.Join(workspace, fmt.Sprintf("%s_%s.manifest.csv", cfg.OutName, stamp)),
		AppLogFile:   filepath.Join(workspace, fmt.Sprintf("%s.app.log", cfg.OutName)),
		TraceFile:    filepath.Join(workspace, fmt.Sprintf("%s.trace.json", cfg.OutName)),
		MetricsFile:  filepath.Join(workspace, fmt.Sprintf("%s.prom", cfg.OutName)),
	}
}

// EnsureDirectories creates the output and workspace directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.WorkspaceDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved run paths",
		slog.String("output_dir", p.OutputDir),
		slog.String("workspace_dir", p.WorkspaceDir),
		slog.String("log_file", p.LogFile),
		slog.String("manifest_file", p.ManifestFile))
}
