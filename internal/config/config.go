package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "aetdeficit/internal/errors"
	"aetdeficit/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ReportConfig describes one report run: where the input
// lives, where figures go, and what to draw.
type ReportConfig struct {
	InputPath     string  `yaml:"input_path" envconfig:"INPUT_PATH" validate:"required"`
	OutputDir     string  `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	OutName       string  `yaml:"out_name" envconfig:"OUT_NAME" validate:"required"`
	PrimarySource string  `yaml:"primary_source" envconfig:"PRIMARY_SOURCE" validate:"required"`
	FallbackStyle string  `yaml:"fallback_style" envconfig:"FALLBACK_STYLE" validate:"required"`
	FailurePolicy string  `yaml:"failure_policy" envconfig:"FAILURE_POLICY" validate:"oneof=fail_fast continue"`
	FigureWidth   float64 `yaml:"figure_width" envconfig:"FIGURE_WIDTH" validate:"gt=0"`
	FigureHeight  float64 `yaml:"figure_height" envconfig:"FIGURE_HEIGHT" validate:"gt=0"`

	// PrimaryUsesBaseline draws primary-source points with the first
	// period's columns no matter which period is being rendered.
	PrimaryUsesBaseline bool `yaml:"primary_uses_baseline" envconfig:"PRIMARY_USES_BASELINE"`

	Vegetation []domain.VegetationType       `yaml:"vegetation" ignored:"true" validate:"required,min=1,unique=Code,dive"`
	Periods    []domain.TimePeriod           `yaml:"periods" ignored:"true" validate:"required,min=1,unique=Label,dive"`
	Styles     map[string]domain.SourceStyle `yaml:"styles" ignored:"true" validate:"required,dive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig controls the OpenTelemetry span export and the
// Prometheus textfile written at the end of a run. Empty file paths are
// resolved against the workspace directory.
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	Metrics     bool   `yaml:"metrics" envconfig:"METRICS"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from compiled-in defaults, an optional
// YAML file and AETPLOT_* environment variables, in increasing precedence.
// An empty path searches the usual locations; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("load config file %s", path), err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if _, ok := c.Report.Styles[c.Report.FallbackStyle]; !ok {
		return apperrors.NewConfigError(
			fmt.Sprintf("fallback style %q has no entry in styles", c.Report.FallbackStyle), nil)
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	return nil
}

// AETColumns returns the AET column of every configured period, in order.
func (r ReportConfig) AETColumns() []string {
	cols := make([]string, 0, len(r.Periods))
	for _, p := range r.Periods {
		cols = append(cols, p.AETColumn)
	}
	return cols
}

// NumericColumns returns every AET and Deficit column the report reads.
func (r ReportConfig) NumericColumns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, p := range r.Periods {
		for _, c := range []string{p.AETColumn, p.DeficitColumn} {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"aetdeficit.yaml",
		"configs/aetdeficit.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns the compiled-in configuration for the PCM vulnerability
// assessment graphs.
func Default() *Config {
	styles := make(map[string]domain.SourceStyle, len(DefaultStyles))
	for k, v := range DefaultStyles {
		styles[k] = v
	}
	return &Config{
		Report: ReportConfig{
			InputPath:           DefaultInputPath,
			OutputDir:           DefaultOutputDir,
			OutName:             DefaultOutName,
			PrimarySource:       DefaultPrimarySource,
			FallbackStyle:       DefaultFallbackStyle,
			FailurePolicy:       DefaultFailurePolicy,
			FigureWidth:         DefaultFigureWidth,
			FigureHeight:        DefaultFigureHeight,
			PrimaryUsesBaseline: true,
			Vegetation:          append([]domain.VegetationType(nil), DefaultVegetation...),
			Periods:             append([]domain.TimePeriod(nil), DefaultPeriods...),
			Styles:              styles,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "both",
		},
		Telemetry: TelemetryConfig{
			Metrics: true,
		},
	}
}
