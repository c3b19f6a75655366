// Package config provides the configuration for a report run.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Compiled-in defaults (lowest priority)
//
// # Environment Variables
//
// Scalar settings can be overridden with AETPLOT_* variables:
//
//	AETPLOT_REPORT_INPUT_PATH=/data/PCM_AETDeficit.xlsx
//	AETPLOT_REPORT_OUTPUT_DIR=/data/Graphs
//	AETPLOT_REPORT_FAILURE_POLICY=continue
//	AETPLOT_LOGGING_LEVEL=debug
//	AETPLOT_TELEMETRY_TRACING=true
//
// The vegetation list, time periods and source styles are structured values
// and can only be changed through the YAML file:
//
//	report:
//	  vegetation:
//	    - code: REDW
//	      name: Redwood Forest
//	  styles:
//	    iNat: {size: 10, color: "#9467bd"}
//
// # Paths
//
// Paths derives the workspace directory, the dated run log and manifest
// file names, and the default app log, trace and metrics files from the
// output directory and output name.
package config
