package operations

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"

	"aetdeficit/internal/charts"
	"aetdeficit/internal/config"
	"aetdeficit/pkg/contracts/domain"
)

type recordingExporter struct {
	figures map[string]charts.Figure
	paths   []string
	failOn  map[string]bool
}

func newRecordingExporter(failOn ...string) *recordingExporter {
	e := &recordingExporter{
		figures: make(map[string]charts.Figure),
		failOn:  make(map[string]bool),
	}
	for _, key := range failOn {
		e.failOn[key] = true
	}
	return e
}

func (e *recordingExporter) Export(fig charts.Figure, path string) error {
	if e.failOn[fig.Job.Key()] {
		return fmt.Errorf("disk full")
	}
	e.figures[fig.Job.Key()] = fig
	e.paths = append(e.paths, path)
	return nil
}

type memoryRunLog struct {
	lines []string
	err   error
}

func (l *memoryRunLog) Printf(format string, args ...any) error {
	if l.err != nil {
		return l.err
	}
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	return nil
}

func testRunnerConfig(t *testing.T, policy FailurePolicy) RunnerConfig {
	t.Helper()
	cfg := config.Default().Report
	cfg.OutputDir = t.TempDir()
	rc := NewRunnerConfig(cfg)
	rc.Policy = policy
	return rc
}

func point(veg, source string, aetHist, aetMid, defHist, defMid float64) domain.Point {
	return domain.Point{
		VegType: veg,
		Source:  source,
		Values: map[string]float64{
			"AET_Historic":       aetHist,
			"AET_MidCentury":     aetMid,
			"Deficit_Historic":   defHist,
			"Deficit_MidCentury": defMid,
		},
	}
}

func TestParseFailurePolicy(t *testing.T) {
	assert.Equal(t, Continue, ParseFailurePolicy("continue"))
	assert.Equal(t, FailFast, ParseFailurePolicy("fail_fast"))
	assert.Equal(t, FailFast, ParseFailurePolicy(""))
	assert.Equal(t, FailFast, ParseFailurePolicy("retry"))
}

func TestChartOptions(t *testing.T) {
	cfg := config.Default().Report

	opts := ChartOptions(cfg)
	require.NotNil(t, opts.Baseline)
	assert.Equal(t, "AET_Historic", opts.Baseline.AETColumn)
	assert.Equal(t, "PCM", opts.PrimarySource)
	assert.Equal(t, "Other", opts.FallbackStyle)

	cfg.PrimaryUsesBaseline = false
	assert.Nil(t, ChartOptions(cfg).Baseline)
}

func TestReportRunner_Jobs(t *testing.T) {
	runner := NewReportRunner(testRunnerConfig(t, FailFast), newRecordingExporter(), &memoryRunLog{}, nil)

	jobs := runner.Jobs()

	require.Len(t, jobs, 24)
	assert.Equal(t, "ANGR_Historic (1981-2010)", jobs[0].Key())
	assert.Equal(t, "ANGR_Mid Century (2040-2059) Ensemble GCM", jobs[1].Key())
	assert.Equal(t, "BLUO_Historic (1981-2010)", jobs[2].Key())
	assert.Equal(t, "SSCR_Mid Century (2040-2059) Ensemble GCM", jobs[23].Key())
}

func TestReportRunner_RunWritesEveryPlot(t *testing.T) {
	rc := testRunnerConfig(t, FailFast)
	exp := newRecordingExporter()
	runLog := &memoryRunLog{}
	runner := NewReportRunner(rc, exp, runLog, nil)

	report, err := runner.Run(context.Background(), &domain.PointTable{})

	require.NoError(t, err)
	assert.Len(t, report.Results, 24)
	assert.Equal(t, 24, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.False(t, report.FinishedAt.IsZero())

	require.Len(t, runLog.lines, 24)
	want := filepath.Join(rc.OutputDir, "ANGR_Historic (1981-2010).pdf")
	assert.Equal(t, "Successfully created graphed - ANGR - Historic (1981-2010) - see - "+want, runLog.lines[0])
	assert.Equal(t, want, exp.paths[0])
}

func TestReportRunner_RunPrimaryPointUsesHistoricColumns(t *testing.T) {
	exp := newRecordingExporter()
	runner := NewReportRunner(testRunnerConfig(t, FailFast), exp, &memoryRunLog{}, nil)
	table := &domain.PointTable{Points: []domain.Point{
		point("REDW", "PCM", 800, 750, 200, 260),
	}}

	report, err := runner.Run(context.Background(), table)
	require.NoError(t, err)

	for _, label := range []string{"Historic (1981-2010)", "Mid Century (2040-2059) Ensemble GCM"} {
		fig, ok := exp.figures["REDW_"+label]
		require.True(t, ok, label)
		require.Len(t, fig.Layers, 1)
		assert.Equal(t, plotter.XYs{{X: 200, Y: 800}}, fig.Layers[0].XYs)
	}

	for _, res := range report.Results {
		if res.Job.Vegetation.Code == "REDW" {
			assert.Equal(t, 1, res.PrimaryPoints)
			assert.Equal(t, 0, res.OtherPoints)
		} else {
			assert.Zero(t, res.PrimaryPoints+res.OtherPoints)
		}
	}
}

func TestReportRunner_RunFailFast(t *testing.T) {
	exp := newRecordingExporter("BLUO_Historic (1981-2010)")
	runLog := &memoryRunLog{}
	runner := NewReportRunner(testRunnerConfig(t, FailFast), exp, runLog, nil)

	report, err := runner.Run(context.Background(), &domain.PointTable{})

	require.Error(t, err)
	var itemErr *ItemError
	require.ErrorAs(t, err, &itemErr)
	assert.Equal(t, "BLUO", itemErr.Job.Vegetation.Code)
	assert.Equal(t, ErrorTypeItem, GetErrorType(err))
	assert.False(t, IsFatal(err))

	require.Len(t, report.Results, 3)
	assert.Equal(t, domain.PlotStatusFailed, report.Results[2].Status)
	assert.Equal(t, "disk full", report.Results[2].ErrorMessage())
	assert.Len(t, runLog.lines, 2)
}

func TestReportRunner_RunContinue(t *testing.T) {
	exp := newRecordingExporter("BLUO_Historic (1981-2010)", "SSCR_Historic (1981-2010)")
	runLog := &memoryRunLog{}
	runner := NewReportRunner(testRunnerConfig(t, Continue), exp, runLog, nil)

	report, err := runner.Run(context.Background(), &domain.PointTable{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPlotsFailed))
	assert.Contains(t, err.Error(), "2 of 24")
	assert.Len(t, report.Results, 24)
	assert.Equal(t, 22, report.Succeeded())
	assert.Equal(t, 2, report.Failed())
	assert.Len(t, runLog.lines, 22)
}

func TestReportRunner_RunCancelled(t *testing.T) {
	exp := newRecordingExporter()
	runner := NewReportRunner(testRunnerConfig(t, FailFast), exp, &memoryRunLog{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, &domain.PointTable{})

	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, report.Results)
	assert.Empty(t, exp.paths)
}

func TestReportRunner_RunLogFailureIsFatal(t *testing.T) {
	runLog := &memoryRunLog{err: errors.New("read-only file system")}
	runner := NewReportRunner(testRunnerConfig(t, Continue), newRecordingExporter(), runLog, nil)

	report, err := runner.Run(context.Background(), &domain.PointTable{})

	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, ErrorTypeFatal, GetErrorType(err))
	assert.Len(t, report.Results, 1)
}

func TestReport_Duration(t *testing.T) {
	assert.Zero(t, (&Report{}).Duration())
}
