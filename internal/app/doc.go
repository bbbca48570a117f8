// Package app wires the application together: logger, configuration,
// build state, step registry, orchestrator, and the pipeline engine run.
package app
