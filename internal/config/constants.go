package config

import "aetdeficit/pkg/contracts/domain"

// Application constants
const (
	AppName   = "aetdeficit-report"
	EnvPrefix = "AETPLOT"

	DefaultInputPath     = "PCM_AETDeficit_20240530.csv"
	DefaultOutputDir     = "Graphs"
	DefaultOutName       = "PCM_AETDeficit"
	DefaultPrimarySource = "PCM"
	DefaultFallbackStyle = "Other"
	DefaultFailurePolicy = "fail_fast"

	// Figure size in inches
	DefaultFigureWidth  = 10.0
	DefaultFigureHeight = 6.0

	WorkspaceDirName = "workspace"
	RunDateLayout    = "20060102"
)

// DefaultVegetation lists the vegetation communities graphed by default.
var DefaultVegetation = []domain.VegetationType{
	{Code: "ANGR", Name: "California Annual Grassland"},
	{Code: "BLUO", Name: "Blue Oak Woodland"},
	{Code: "CHRT", Name: "Bald Hills Prairie"},
	{Code: "CLOW", Name: "Coast Live Oak Woodlands"},
	{Code: "DEPR", Name: "Coastal Terrace Prairie"},
	{Code: "DGLF", Name: "Douglas Fir Forest"},
	{Code: "DUNE", Name: "Coastal Dune Scrub"},
	{Code: "FRSH", Name: "Freshwater Wetlands"},
	{Code: "REDW", Name: "Redwood Forest"},
	{Code: "SALT", Name: "Coastal Salt Marsh"},
	{Code: "SCRB", Name: "Northern Coastal Scrub"},
	{Code: "SSCR", Name: "Southern Coastal Scrub"},
}

// DefaultPeriods lists the time periods graphed by default. The first
// entry is the baseline period.
var DefaultPeriods = []domain.TimePeriod{
	{Label: "Historic (1981-2010)", AETColumn: "AET_Historic", DeficitColumn: "Deficit_Historic"},
	{Label: "Mid Century (2040-2059) Ensemble GCM", AETColumn: "AET_MidCentury", DeficitColumn: "Deficit_MidCentury"},
}

// DefaultStyles maps a data source to its marker style.
var DefaultStyles = map[string]domain.SourceStyle{
	"PCM":   {Size: 50, Color: "#1f77b4"},
	"GBIF":  {Size: 10, Color: "#ff7f0e"},
	"Other": {Size: 10, Color: "#2ca02c"},
}
