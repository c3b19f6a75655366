package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"aetdeficit/pkg/contracts/domain"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				sums[m.Name] += dp.Value
			}
		}
	}
	return sums
}

func newTestMetrics(t *testing.T) (*ReportMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := CreateReportMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func TestReportRunner_RecordsPlotMetrics(t *testing.T) {
	m, reader := newTestMetrics(t)
	exp := newRecordingExporter("REDW_Historic (1981-2010)")
	runner := NewReportRunner(testRunnerConfig(t, Continue), exp, &memoryRunLog{}, nil).WithMetrics(m)

	_, err := runner.Run(context.Background(), &domain.PointTable{})
	require.Error(t, err)

	sums := collectSums(t, reader)
	assert.Equal(t, int64(24), sums["aetdeficit_plots_total"])
}

func TestPipeline_RecordsRunMetrics(t *testing.T) {
	m, reader := newTestMetrics(t)
	cfg, paths := setupPipeline(t, pointsCSV)

	_, err := NewPipeline(cfg, paths, nil).WithMetrics(m).WithExporter(newRecordingExporter()).Execute(context.Background())
	require.NoError(t, err)

	sums := collectSums(t, reader)
	assert.Equal(t, int64(1), sums["aetdeficit_runs_total"])
	assert.Equal(t, int64(4), sums["aetdeficit_input_rows_total"])
	assert.Equal(t, int64(24), sums["aetdeficit_plots_total"])
}
