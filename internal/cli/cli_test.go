package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "build.hcl", cfg.ConfigPath)
	assert.Equal(t, ".", cfg.ProjectRoot)
	assert.Equal(t, "tint", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ListSteps)
}

func TestParsePositionalConfigPath(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"/proj/build.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "/proj/build.hcl", cfg.ConfigPath)
	assert.Equal(t, "/proj", cfg.ProjectRoot)
}

func TestParseConfigFlagWinsOverPositional(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"--config", "/a/build.hcl", "/b/build.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "/a/build.hcl", cfg.ConfigPath)
}

func TestParseOptions(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{
		"--log-format", "JSON",
		"--log-level", "DEBUG",
		"--list-steps",
		"--report", "out/report.json",
		"--project-root", "/proj",
		"-c", "custom.hcl",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "custom.hcl", cfg.ConfigPath)
	assert.Equal(t, "/proj", cfg.ProjectRoot)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.ListSteps)
	assert.Equal(t, "out/report.json", cfg.ReportPath)
}

func TestParseInvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"--log-format", "xml"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "log format")
}

func TestParseInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"--log-level", "loud"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseHelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "apkforge")
}

func TestParseUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"--bogus"}, &out)
	require.Error(t, err)

	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}
