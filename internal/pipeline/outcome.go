// Package pipeline is the step resolution and execution engine. It turns
// the configured list of raw step references into resolved callables,
// validates all of them before anything runs, then executes them in order
// against the shared build state, applying the run's stop-on-error /
// stop-on-warning policy to each outcome.
package pipeline

import "fmt"

// Status is the lifecycle state of one step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "success"
	StatusWarned    Status = "warning"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// RunStatus is the terminal state of a whole pipeline run.
type RunStatus string

const (
	RunCompleted             RunStatus = "completed"
	RunCompletedWithWarnings RunStatus = "completed_with_warnings"
	RunAborted               RunStatus = "aborted"
)

// StepResult is the recorded outcome of one configured step.
type StepResult struct {
	Step     string  `json:"step"`
	Raw      string  `json:"raw"`
	Status   Status  `json:"status"`
	Duration float64 `json:"duration"`
	Message  string  `json:"message,omitempty"`
	Fatal    bool    `json:"fatal,omitempty"`
}

// WarningError signals a step that finished its work but wants the run
// flagged. Under stop_on_warning it pauses the pipeline like an error would.
type WarningError struct {
	msg string
}

func (e *WarningError) Error() string { return e.msg }

// Warningf builds a warning outcome for a step to return.
func Warningf(format string, args ...any) error {
	return &WarningError{msg: fmt.Sprintf(format, args...)}
}

// FatalError signals a step failure that no later step can recover from.
// The policy still decides whether the run continues; the report records
// the severity.
type FatalError struct {
	msg string
}

func (e *FatalError) Error() string { return e.msg }

// Fatalf builds a fatal outcome for a step to return.
func Fatalf(format string, args ...any) error {
	return &FatalError{msg: fmt.Sprintf(format, args...)}
}
