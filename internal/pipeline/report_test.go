package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFinalizeCounters(t *testing.T) {
	r := &Report{
		Timestamp: time.Now(),
		Status:    RunAborted,
		Steps: []StepResult{
			{Step: "a", Status: StatusSucceeded, Duration: 0.5},
			{Step: "b", Status: StatusWarned, Duration: 0.25},
			{Step: "c", Status: StatusFailed, Duration: 0.25},
			{Step: "d", Status: StatusSkipped},
		},
	}
	r.finalize()

	assert.Equal(t, 1, r.SuccessCount)
	assert.Equal(t, 1, r.WarnedCount)
	assert.Equal(t, 1, r.FailedCount)
	assert.Equal(t, 1, r.SkippedCount)
	assert.InDelta(t, 1.0, r.TotalTime, 1e-9)
	assert.False(t, r.Succeeded())
}

func TestReportSave(t *testing.T) {
	r := &Report{
		Timestamp:   time.Now(),
		Status:      RunCompletedWithWarnings,
		AbortReason: "",
		Steps: []StepResult{
			{Step: "_print_header", Raw: "_print_header", Status: StatusSucceeded, Duration: 0.01},
			{Step: "filter", Raw: "abi_filter.ABIFilter.filter('x86')", Status: StatusWarned, Message: "no x86 libraries present"},
		},
	}
	r.finalize()

	path := filepath.Join(t.TempDir(), "build_report.json")
	require.NoError(t, r.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RunCompletedWithWarnings, decoded.Status)
	require.Len(t, decoded.Steps, 2)
	assert.Equal(t, "abi_filter.ABIFilter.filter('x86')", decoded.Steps[1].Raw)
	assert.Equal(t, 1, decoded.SuccessCount)
	assert.Equal(t, 1, decoded.WarnedCount)
}
