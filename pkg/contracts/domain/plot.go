package domain

import "time"

// PlotJob is one (vegetation type, time period) combination to render.
type PlotJob struct {
	Vegetation VegetationType `json:"vegetation"`
	Period     TimePeriod     `json:"period"`
}

// Key returns the deterministic identifier of the job, which is also the
// base name of its output file.
func (j PlotJob) Key() string {
	return j.Vegetation.Code + "_" + j.Period.Label
}

// PlotStatus is the outcome of a single plot job.
type PlotStatus string

const (
	PlotStatusCompleted PlotStatus = "completed"
	PlotStatusFailed    PlotStatus = "failed"
)

// PlotResult records what happened to one plot job during a run.
type PlotResult struct {
	Job           PlotJob       `json:"job"`
	Path          string        `json:"path"`
	PrimaryPoints int           `json:"primary_points"`
	OtherPoints   int           `json:"other_points"`
	Status        PlotStatus    `json:"status" validate:"required,oneof=completed failed"`
	Err           error         `json:"-"`
	Duration      time.Duration `json:"duration"`
}

// ErrorMessage returns the failure message, or an empty string on success.
func (r PlotResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
