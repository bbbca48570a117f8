package pipeline

import (
	"fmt"
	"strings"

	"github.com/All1eexx/ApkForge/internal/registry"
	"github.com/All1eexx/ApkForge/internal/stepref"
)

type targetKind int

const (
	targetOrchestrator targetKind = iota
	targetFunction
	targetMethod
)

// target is one fully resolved step: its descriptor plus the callable it
// dispatches to. For method targets the instance is constructed lazily at
// invocation time; resolution itself has no side effects.
type target struct {
	desc stepref.Descriptor
	kind targetKind
	fn   any
	typ  *registry.Type
}

// validate parses and resolves every configured step before any of them
// runs. The first reference that fails to parse or resolve aborts the whole
// run, so a typo late in the pipeline cannot waste the side effects of the
// steps before it.
func (e *Engine) validate(steps []string) ([]*target, error) {
	targets := make([]*target, 0, len(steps))
	for i, raw := range steps {
		desc, err := stepref.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		tgt, err := e.resolve(desc, i)
		if err != nil {
			return nil, err
		}
		targets = append(targets, tgt)
	}
	return targets, nil
}

// resolve maps a descriptor's path to its callable: one segment targets an
// orchestrator method, two a module function, three a method of a module
// type.
func (e *Engine) resolve(desc stepref.Descriptor, pos int) (*target, error) {
	notFound := func(format string, args ...any) error {
		return &StepNotFoundError{Raw: desc.Raw, Position: pos, Reason: fmt.Sprintf(format, args...)}
	}

	switch len(desc.Path) {
	case 1:
		name := desc.Path[0]
		fn, ok := e.orch.Step(name)
		if !ok {
			reason := fmt.Sprintf("no orchestrator step named %q", name)
			if similar := similarNames(name, e.orch.StepNames()); len(similar) > 0 {
				reason += "; did you mean: " + strings.Join(similar, ", ")
			}
			return nil, notFound("%s", reason)
		}
		return &target{desc: desc, kind: targetOrchestrator, fn: fn}, nil

	case 2:
		modName, fnName := desc.Path[0], desc.Path[1]
		mod, ok := e.symbols.Module(modName)
		if !ok {
			return nil, notFound("no module named %q", modName)
		}
		if _, isType := mod.Type(fnName); isType {
			return nil, notFound("%s.%s is a type, not a function; reference one of its methods instead", modName, fnName)
		}
		fn, ok := mod.Function(fnName)
		if !ok {
			return nil, notFound("module %q has no function %q", modName, fnName)
		}
		return &target{desc: desc, kind: targetFunction, fn: fn}, nil

	case 3:
		modName, typeName, methodName := desc.Path[0], desc.Path[1], desc.Path[2]
		mod, ok := e.symbols.Module(modName)
		if !ok {
			return nil, notFound("no module named %q", modName)
		}
		typ, ok := mod.Type(typeName)
		if !ok {
			return nil, notFound("module %q has no type %q", modName, typeName)
		}
		fn, ok := typ.Method(methodName)
		if !ok {
			return nil, notFound("type %s has no method %q (available: %s)",
				typ.ID(), methodName, strings.Join(typ.MethodNames(), ", "))
		}
		return &target{desc: desc, kind: targetMethod, fn: fn, typ: typ}, nil

	default:
		return nil, notFound("too many path segments; the deepest supported form is module.Type.method")
	}
}

// similarNames returns up to five candidates containing the query, for the
// not-found hint.
func similarNames(query string, candidates []string) []string {
	query = strings.ToLower(query)
	var out []string
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), query) || strings.Contains(query, strings.ToLower(c)) {
			out = append(out, c)
			if len(out) == 5 {
				break
			}
		}
	}
	return out
}
