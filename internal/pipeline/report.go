package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Report is the terminal result of one pipeline run: every configured
// step's outcome in order, plus the overall status.
type Report struct {
	Timestamp    time.Time    `json:"timestamp"`
	Status       RunStatus    `json:"status"`
	AbortReason  string       `json:"abort_reason,omitempty"`
	Steps        []StepResult `json:"results"`
	TotalTime    float64      `json:"total_time"`
	SuccessCount int          `json:"success_count"`
	FailedCount  int          `json:"failed_count"`
	WarnedCount  int          `json:"warned_count"`
	SkippedCount int          `json:"skipped_count"`
}

// finalize computes the aggregate counters from the per-step results.
func (r *Report) finalize() {
	r.TotalTime = 0
	r.SuccessCount, r.FailedCount, r.WarnedCount, r.SkippedCount = 0, 0, 0, 0
	for _, s := range r.Steps {
		r.TotalTime += s.Duration
		switch s.Status {
		case StatusSucceeded:
			r.SuccessCount++
		case StatusWarned:
			r.WarnedCount++
		case StatusFailed:
			r.FailedCount++
		case StatusSkipped:
			r.SkippedCount++
		}
	}
}

// Succeeded reports whether every executed step succeeded and the run was
// not aborted.
func (r *Report) Succeeded() bool {
	return r.Status == RunCompleted
}

// Save writes the report as indented JSON.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode pipeline report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write pipeline report: %w", err)
	}
	return nil
}
