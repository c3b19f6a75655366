package operations

// FailurePolicy decides what a run does after a single plot fails.
type FailurePolicy string

const (
	// FailFast aborts the run at the first failed plot.
	FailFast FailurePolicy = "fail_fast"
	// Continue records the failed plot and moves on to the next one.
	Continue FailurePolicy = "continue"
)

// ParseFailurePolicy maps a configuration value to a policy. Unknown
// values fall back to FailFast.
func ParseFailurePolicy(s string) FailurePolicy {
	if FailurePolicy(s) == Continue {
		return Continue
	}
	return FailFast
}

// Pipeline stage identifiers
const (
	StageSetup    = "setup"
	StageLoad     = "load"
	StageFilter   = "filter"
	StageRender   = "render"
	StageManifest = "manifest"
)

// Run log messages
const (
	msgPlotCreated = "Successfully created graphed - %s - %s - see - %s"
	msgRunComplete = "Successfully completed - %s"
	msgRunFailed   = "Exiting Error - %s - %v"
)
