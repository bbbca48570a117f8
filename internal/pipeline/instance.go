package pipeline

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/All1eexx/ApkForge/internal/build"
	"github.com/All1eexx/ApkForge/internal/registry"
)

// ParamResolver produces a constructor argument from the current build
// state.
type ParamResolver func(*build.State) (any, error)

// ParamTable maps recognized constructor parameter names to their build
// state resolvers. The set is fixed for a run; an unrecognized name is a
// constructor resolution error unless the step supplies explicit arguments.
type ParamTable map[string]ParamResolver

// DefaultParamTable returns the standard parameter table. The names mirror
// what step types conventionally call their dependencies.
func DefaultParamTable() ParamTable {
	return ParamTable{
		"modded_dir": func(s *build.State) (any, error) {
			if s.Paths == nil {
				return nil, fmt.Errorf("project paths are not resolved")
			}
			return s.Paths.ModdedDir, nil
		},
		"android_sdk": func(s *build.State) (any, error) {
			if s.Paths == nil {
				return nil, fmt.Errorf("project paths are not resolved")
			}
			return s.Paths.AndroidSDK, nil
		},
		"paths": func(s *build.State) (any, error) {
			return s.Paths, nil
		},
		"config": func(s *build.State) (any, error) {
			return s.Config, nil
		},
		"logger": func(s *build.State) (any, error) {
			return s.Logger, nil
		},
		"apktool_jar": func(s *build.State) (any, error) {
			return foundOrNil(s, build.FoundApktoolJar), nil
		},
		"baksmali_jar": func(s *build.State) (any, error) {
			return foundOrNil(s, build.FoundBaksmaliJar), nil
		},
		"source_apk": func(s *build.State) (any, error) {
			return foundOrNil(s, build.FoundSourceAPK), nil
		},
	}
}

func foundOrNil(s *build.State, name string) any {
	if p, ok := s.FoundFile(name); ok {
		return p
	}
	return nil
}

// instanceFor returns the constructed instance backing a method target,
// creating and caching it on first use. Exactly one instance exists per
// type per run, so methods of the same type observe shared state.
func (e *Engine) instanceFor(tgt *target) (any, error) {
	key := tgt.typ.ID()
	if inst, ok := e.instances[key]; ok {
		return inst, nil
	}

	state := e.orch.State()
	params := tgt.typ.ConstructorParams()
	args := make([]any, len(params))
	for i, name := range params {
		resolver, ok := e.params[name]
		if !ok {
			// With explicit call arguments in the reference, optional-shaped
			// constructor parameters may stay unset; anything else is
			// unconstructible.
			if tgt.desc.HasArgs && zeroSkippable(tgt.typ.ConstructorParamType(i)) {
				args[i] = nil
				continue
			}
			return nil, &ConstructorResolutionError{Type: key, Param: name}
		}
		val, err := resolver(state)
		if err != nil {
			return nil, &ConstructorResolutionError{Type: key, Param: name, Err: err}
		}
		args[i] = val
	}

	inst, err := registry.Construct(key, tgt.typ.Constructor(), args)
	if err != nil {
		var bad *registry.BadCallError
		if errors.As(err, &bad) {
			return nil, &ConstructorResolutionError{Type: key, Err: errors.New(bad.Reason)}
		}
		return nil, fmt.Errorf("failed to construct %s: %w", key, err)
	}
	e.instances[key] = inst
	return inst, nil
}

// zeroSkippable reports whether a constructor parameter type has a usable
// zero value when no resolver covers it.
func zeroSkippable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
