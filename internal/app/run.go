package app

import (
	"context"
	"fmt"

	"github.com/All1eexx/ApkForge/internal/ctxlog"
	"github.com/All1eexx/ApkForge/internal/pipeline"
)

// Run executes the configured pipeline, or lists the available step
// symbols when requested. A run that did not complete returns an error
// naming the abort reason.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.appCfg.ListSteps {
		a.listSteps()
		return nil
	}

	policy := pipeline.Policy{
		StopOnError:    a.cfg.Pipeline.GetStopOnError(),
		StopOnWarning:  a.cfg.Pipeline.GetStopOnWarning(),
		TimeoutSeconds: a.cfg.Pipeline.GetTimeoutSeconds(),
	}
	engine := pipeline.New(a.forge, a.registry, policy)

	report, err := engine.Run(ctx, a.cfg.Pipeline.Steps)
	if err != nil {
		return err
	}

	if a.cfg.Pipeline.GetSaveReport() || a.appCfg.ReportPath != "" {
		path := a.reportPath()
		if err := report.Save(path); err != nil {
			a.logger.Error("Failed to save pipeline report.", "path", path, "error", err)
		} else {
			a.logger.Info("Pipeline report saved.", "path", path)
		}
	}

	if report.Status == pipeline.RunAborted {
		return fmt.Errorf("pipeline aborted: %s", report.AbortReason)
	}
	return nil
}

// listSteps prints every step reference the configuration could use:
// built-in orchestrator steps, module functions, and type methods.
func (a *App) listSteps() {
	fmt.Fprintln(a.outW, "Available pipeline steps:")
	for _, name := range a.forge.StepNames() {
		fmt.Fprintf(a.outW, "  %s\n", name)
	}
	for _, modName := range a.registry.ModuleNames() {
		mod, _ := a.registry.Module(modName)
		for _, fnName := range mod.FunctionNames() {
			fmt.Fprintf(a.outW, "  %s.%s\n", modName, fnName)
		}
		for _, typeName := range mod.TypeNames() {
			typ, _ := mod.Type(typeName)
			for _, methodName := range typ.MethodNames() {
				fmt.Fprintf(a.outW, "  %s.%s.%s\n", modName, typeName, methodName)
			}
		}
	}
}
