package operations

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aetdeficit/internal/config"
	"aetdeficit/internal/exporter"
)

const pointsCSV = `VegType,Source,AET_Historic,AET_MidCentury,Deficit_Historic,Deficit_MidCentury
REDW,PCM,800,750,200,260
REDW,GBIF,600,650,300,350
REDW,GBIF,-5,10,1,2
BLUO,Other,400,380,500,540
`

var runDate = time.Date(2024, 5, 30, 9, 0, 0, 0, time.UTC)

func setupPipeline(t *testing.T, input string) (config.ReportConfig, *config.Paths) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default().Report
	cfg.InputPath = filepath.Join(dir, "points.csv")
	cfg.OutputDir = filepath.Join(dir, "Graphs")
	require.NoError(t, os.WriteFile(cfg.InputPath, []byte(input), 0644))

	return cfg, config.NewPaths(cfg, runDate)
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func TestPipeline_Execute(t *testing.T) {
	cfg, paths := setupPipeline(t, pointsCSV)
	var echo bytes.Buffer

	report, err := NewPipeline(cfg, paths, nil).WithEcho(&echo).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Filter.Total)
	assert.Equal(t, 1, report.Filter.Dropped)
	assert.Equal(t, 24, report.Succeeded())

	pdfs, err := filepath.Glob(filepath.Join(cfg.OutputDir, "*.pdf"))
	require.NoError(t, err)
	assert.Len(t, pdfs, 24)
	for _, name := range []string{"REDW_Historic (1981-2010).pdf", "REDW_Mid Century (2040-2059) Ensemble GCM.pdf"} {
		content, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")), name)
	}

	for _, res := range report.Results {
		if res.Job.Vegetation.Code == "REDW" {
			assert.Equal(t, 1, res.PrimaryPoints)
			assert.Equal(t, 1, res.OtherPoints, "negative AET row must be dropped")
		}
	}

	lines := readLines(t, paths.LogFile)
	require.Len(t, lines, 25)
	assert.Contains(t, lines[0], " - Successfully created graphed - ANGR - Historic (1981-2010) - see - ")
	assert.True(t, strings.HasSuffix(lines[24], " - Successfully completed - aetdeficit-report"))
	assert.Equal(t, 25, strings.Count(echo.String(), "\n"))

	f, err := os.Open(paths.ManifestFile)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 25)
	assert.Equal(t, "\ufeff"+exporter.ManifestHeaders[0], records[0][0])
}

func TestPipeline_ExecuteAppendsToExistingLog(t *testing.T) {
	cfg, paths := setupPipeline(t, pointsCSV)
	pipeline := NewPipeline(cfg, paths, nil)

	_, err := pipeline.Execute(context.Background())
	require.NoError(t, err)
	_, err = pipeline.Execute(context.Background())
	require.NoError(t, err)

	assert.Len(t, readLines(t, paths.LogFile), 50)
}

func TestPipeline_ExecuteOverwritesExistingPlot(t *testing.T) {
	cfg, paths := setupPipeline(t, pointsCSV)
	target := filepath.Join(cfg.OutputDir, "REDW_Historic (1981-2010).pdf")
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0755))
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0644))

	_, err := NewPipeline(cfg, paths, nil).Execute(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}

func TestPipeline_ExecuteMissingInput(t *testing.T) {
	cfg, paths := setupPipeline(t, pointsCSV)
	cfg.InputPath = filepath.Join(filepath.Dir(cfg.InputPath), "missing.csv")

	report, err := NewPipeline(cfg, paths, nil).Execute(context.Background())

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.NotNil(t, report)
	assert.Empty(t, report.Results)

	lines := readLines(t, paths.LogFile)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], " - Exiting Error - aetdeficit-report")

	pdfs, _ := filepath.Glob(filepath.Join(cfg.OutputDir, "*.pdf"))
	assert.Empty(t, pdfs)
}

func TestPipeline_ExecuteMissingColumn(t *testing.T) {
	cfg, paths := setupPipeline(t, "VegType,Source,AET_Historic\nREDW,PCM,800\n")

	_, err := NewPipeline(cfg, paths, nil).Execute(context.Background())

	require.Error(t, err)
	var pErr *PipelineError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, StageLoad, pErr.Stage)
}

func TestPipeline_ExecuteUnsupportedFormat(t *testing.T) {
	cfg, paths := setupPipeline(t, pointsCSV)
	cfg.InputPath = strings.TrimSuffix(cfg.InputPath, ".csv") + ".txt"
	require.NoError(t, os.WriteFile(cfg.InputPath, []byte(pointsCSV), 0644))

	_, err := NewPipeline(cfg, paths, nil).Execute(context.Background())

	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestPipeline_ExecuteFailurePolicies(t *testing.T) {
	tests := []struct {
		name        string
		policy      string
		wantResults int
		wantPlots   int
	}{
		{name: "fail fast", policy: "fail_fast", wantResults: 17, wantPlots: 16},
		{name: "continue", policy: "continue", wantResults: 24, wantPlots: 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, paths := setupPipeline(t, pointsCSV)
			cfg.FailurePolicy = tt.policy
			exp := newRecordingExporter("REDW_Historic (1981-2010)")

			report, err := NewPipeline(cfg, paths, nil).WithExporter(exp).Execute(context.Background())

			require.Error(t, err)
			assert.Len(t, report.Results, tt.wantResults)
			assert.Len(t, exp.paths, tt.wantPlots)

			lines := readLines(t, paths.LogFile)
			assert.Len(t, lines, tt.wantPlots+1)
			assert.Contains(t, lines[len(lines)-1], "Exiting Error - aetdeficit-report")

			manifest := readLines(t, paths.ManifestFile)
			assert.Len(t, manifest, tt.wantResults+1)
			assert.Contains(t, strings.Join(manifest, "\n"), "failed")
		})
	}
}

func TestPipeline_ExecuteCancelled(t *testing.T) {
	cfg, paths := setupPipeline(t, pointsCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(cfg, paths, nil).Execute(ctx)

	require.Error(t, err)
	assert.True(t, IsCancelled(err))
}
