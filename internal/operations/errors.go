package operations

import (
	"errors"
	"fmt"

	"aetdeficit/pkg/contracts/domain"
)

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeFatal        ErrorType = "fatal"
	ErrorTypeItem         ErrorType = "item"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// PipelineError is a failure that ends the whole run: the input cannot be
// loaded, a directory or the run log cannot be created, or the run was
// cancelled.
type PipelineError struct {
	Type    ErrorType              `json:"type"`
	Stage   string                 `json:"stage,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"cause,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e == nil {
		return "unknown pipeline error"
	}
	msg := fmt.Sprintf("[%s] %s: %s", e.Type, e.Stage, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WithContext adds context to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewPipelineError creates a fatal error for stage.
func NewPipelineError(stage, message string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeFatal,
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}

// NewCancellationError creates a new cancellation error
func NewCancellationError(stage string, cause error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeCancellation,
		Stage:   stage,
		Message: "operation was cancelled",
		Cause:   cause,
	}
}

// ItemError is the failure of one plot job. Under the Continue policy it is
// recorded in the run report instead of ending the run.
type ItemError struct {
	Job   domain.PlotJob
	Cause error
}

// Error implements the error interface
func (e *ItemError) Error() string {
	return fmt.Sprintf("[%s] plot %s: %v", ErrorTypeItem, e.Job.Key(), e.Cause)
}

// Unwrap returns the underlying error
func (e *ItemError) Unwrap() error {
	return e.Cause
}

// NewItemError creates a new item error
func NewItemError(job domain.PlotJob, cause error) *ItemError {
	return &ItemError{Job: job, Cause: cause}
}

// ErrPlotsFailed is returned by a run that finished under the Continue
// policy with at least one failed plot.
var ErrPlotsFailed = errors.New("one or more plots failed")

// IsFatal reports whether err ended the run before all jobs were attempted.
func IsFatal(err error) bool {
	var pErr *PipelineError
	return errors.As(err, &pErr)
}

// IsCancelled reports whether err comes from a cancelled run.
func IsCancelled(err error) bool {
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Type == ErrorTypeCancellation
	}
	return false
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Type
	}
	var iErr *ItemError
	if errors.As(err, &iErr) {
		return ErrorTypeItem
	}
	return ErrorTypeFatal
}
