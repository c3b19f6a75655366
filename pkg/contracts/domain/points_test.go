package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoint_Value(t *testing.T) {
	p := Point{VegType: "REDW", Source: "PCM", Values: map[string]float64{"AET_Historic": 800}}

	assert.Equal(t, 800.0, p.Value("AET_Historic"))
	assert.True(t, math.IsNaN(p.Value("Deficit_Historic")))
}

func TestPointTable_Where(t *testing.T) {
	table := &PointTable{
		Columns: []string{"VegType", "Source"},
		Points: []Point{
			{VegType: "REDW", Source: "PCM"},
			{VegType: "BLUO", Source: "GBIF"},
			{VegType: "REDW", Source: "GBIF"},
		},
	}

	redw := table.Where(func(p Point) bool { return p.VegType == "REDW" })

	assert.Equal(t, 2, redw.Len())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, table.Columns, redw.Columns)
}

func TestPointTable_NilSafe(t *testing.T) {
	var table *PointTable
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.HasColumn("VegType"))
}

func TestPointTable_HasColumn(t *testing.T) {
	table := &PointTable{Columns: []string{"VegType", "Source", "AET_Historic"}}
	assert.True(t, table.HasColumn("AET_Historic"))
	assert.False(t, table.HasColumn("aet_historic"))
}

func TestPlotJob_Key(t *testing.T) {
	job := PlotJob{
		Vegetation: VegetationType{Code: "REDW", Name: "Redwood Forest"},
		Period:     TimePeriod{Label: "Historic (1981-2010)"},
	}
	assert.Equal(t, "REDW_Historic (1981-2010)", job.Key())
}

func TestPlotResult_ErrorMessage(t *testing.T) {
	assert.Empty(t, PlotResult{Status: PlotStatusCompleted}.ErrorMessage())
	assert.Equal(t, "boom", PlotResult{Status: PlotStatusFailed, Err: errors.New("boom")}.ErrorMessage())
}
