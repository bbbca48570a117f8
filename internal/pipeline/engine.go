package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/All1eexx/ApkForge/internal/build"
	"github.com/All1eexx/ApkForge/internal/ctxlog"
	"github.com/All1eexx/ApkForge/internal/literal"
	"github.com/All1eexx/ApkForge/internal/registry"
)

// Orchestrator is the top-level object whose own methods form the default
// namespace for single-segment step references, and which owns the shared
// build state.
type Orchestrator interface {
	// Step looks up a built-in step callable by name.
	Step(name string) (any, bool)
	// StepNames lists the built-in step names, for diagnostics.
	StepNames() []string
	// State returns the run's shared build state.
	State() *build.State
}

// SymbolSource resolves module names for two- and three-segment step
// references.
type SymbolSource interface {
	Module(name string) (*registry.Module, bool)
}

// Policy is the run's fault-tolerance configuration. A zero or negative
// timeout disables the operator pause entirely: a stop flag then aborts the
// run on the spot, which is what CI wants.
type Policy struct {
	StopOnError    bool
	StopOnWarning  bool
	TimeoutSeconds int
}

// Engine executes one configured pipeline. Steps run strictly one at a
// time; the instance cache and build state rely on that.
type Engine struct {
	orch      Orchestrator
	symbols   SymbolSource
	policy    Policy
	prompter  Prompter
	params    ParamTable
	instances map[string]any
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPrompter replaces the console prompter, mainly for tests and
// embedding.
func WithPrompter(p Prompter) Option {
	return func(e *Engine) { e.prompter = p }
}

// WithParamTable replaces the constructor parameter table.
func WithParamTable(t ParamTable) Option {
	return func(e *Engine) { e.params = t }
}

// New creates an Engine over the given orchestrator and symbol source.
func New(orch Orchestrator, symbols SymbolSource, policy Policy, opts ...Option) *Engine {
	e := &Engine{
		orch:     orch,
		symbols:  symbols,
		policy:   policy,
		prompter: &ConsolePrompter{In: os.Stdin, Out: os.Stdout},
		params:   DefaultParamTable(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates every configured step reference, then executes the steps in
// order, applying the policy after each outcome. Parse and resolution
// failures surface here before any step has run. The returned report lists
// one result per configured step.
func (e *Engine) Run(ctx context.Context, steps []string) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	targets, err := e.validate(steps)
	if err != nil {
		return nil, err
	}
	logger.Debug("All step references resolved.", "count", len(targets))

	// The instance cache is scoped to one run.
	e.instances = make(map[string]any)

	report := &Report{Timestamp: time.Now(), Status: RunCompleted}
	logger.Info("Pipeline starting.", "steps", len(targets))

	for i, tgt := range targets {
		logger.Info("Step starting.", "index", i+1, "total", len(targets), "step", tgt.desc.DisplayName())

		res := e.invoke(ctx, tgt)
		report.Steps = append(report.Steps, res)

		switch res.Status {
		case StatusSucceeded:
			logger.Info("Step finished.", "step", res.Step, "duration", res.Duration)
			continue
		case StatusWarned:
			logger.Warn("Step finished with warnings.", "step", res.Step, "warning", res.Message)
			report.Status = RunCompletedWithWarnings
			if !e.policy.StopOnWarning {
				continue
			}
		case StatusFailed:
			logger.Error("Step failed.", "step", res.Step, "error", res.Message)
			report.Status = RunCompletedWithWarnings
			if !e.policy.StopOnError {
				logger.Info("Continuing despite error (configured pipeline behavior).")
				continue
			}
		}

		reason := res.Status.describe(res.Step, res.Message)
		if e.policy.TimeoutSeconds <= 0 {
			e.abort(report, targets[i+1:], reason)
			logger.Warn("Pipeline aborted.", "reason", reason)
			break
		}
		timeout := time.Duration(e.policy.TimeoutSeconds) * time.Second
		if !e.prompter.Continue(ctx, reason, timeout) {
			e.abort(report, targets[i+1:], reason+" (stopped by operator)")
			logger.Warn("Pipeline stopped by operator.", "step", res.Step)
			break
		}
		logger.Info("Continuing after pause.", "step", res.Step)
	}

	report.finalize()
	logger.Info("Pipeline finished.", "status", report.Status,
		"succeeded", report.SuccessCount, "failed", report.FailedCount, "total_time", report.TotalTime)
	return report, nil
}

func (s Status) describe(step, message string) string {
	if s == StatusWarned {
		return "step " + step + " completed with warnings: " + message
	}
	return "step " + step + " failed: " + message
}

// abort marks the remaining steps skipped and the run aborted.
func (e *Engine) abort(report *Report, remaining []*target, reason string) {
	report.Status = RunAborted
	report.AbortReason = reason
	for _, tgt := range remaining {
		report.Steps = append(report.Steps, StepResult{
			Step:   tgt.desc.DisplayName(),
			Raw:    tgt.desc.Raw,
			Status: StatusSkipped,
		})
	}
}

// invoke runs one resolved step and classifies its outcome.
func (e *Engine) invoke(ctx context.Context, tgt *target) StepResult {
	res := StepResult{
		Step:   tgt.desc.DisplayName(),
		Raw:    tgt.desc.Raw,
		Status: StatusRunning,
	}
	start := time.Now()
	err := e.call(ctx, tgt)
	res.Duration = time.Since(start).Seconds()

	var (
		warn    *WarningError
		fatal   *FatalError
		badCall *registry.BadCallError
	)
	switch {
	case err == nil:
		if warnings := e.orch.State().ConsumeWarnings(); len(warnings) > 0 {
			res.Status = StatusWarned
			res.Message = strings.Join(warnings, "; ")
		} else {
			res.Status = StatusSucceeded
		}
	case errors.As(err, &warn):
		res.Status = StatusWarned
		res.Message = warn.Error()
	case errors.As(err, &fatal):
		res.Status = StatusFailed
		res.Fatal = true
		res.Message = fatal.Error()
	case errors.As(err, &badCall):
		res.Status = StatusFailed
		res.Message = (&ArgumentResolutionError{Target: res.Step, Err: errors.New(badCall.Reason)}).Error()
	default:
		res.Status = StatusFailed
		res.Message = err.Error()
	}
	return res
}

// call obtains the callable (constructing the backing instance for method
// targets) and invokes it with the step's explicit arguments, or none.
func (e *Engine) call(ctx context.Context, tgt *target) error {
	var recv any
	if tgt.kind == targetMethod {
		inst, err := e.instanceFor(tgt)
		if err != nil {
			return err
		}
		recv = inst
	}

	var args []literal.Value
	if tgt.desc.HasArgs {
		args = tgt.desc.Args
	}
	return registry.Call(ctx, tgt.desc.DisplayName(), tgt.fn, recv, args)
}
