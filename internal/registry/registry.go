// Package registry is the symbol table behind step resolution. Compiled-in
// modules register their free functions and types (constructor plus named
// methods) under the string identifiers used in pipeline step references.
// The engine resolves references against this table and never touches
// reflection directly; all dynamic invocation lives here.
//
// Registration happens once at startup. Mis-registrations (duplicate names,
// non-function handlers, constructor arity mismatches) are programmer
// errors and panic immediately, so the binary fails loudly rather than at
// some later step execution.
package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
)

// Registrar is implemented by every compiled-in module package.
type Registrar interface {
	Register(r *Registry)
}

// Registry maps module names to their symbol tables for one application
// instance.
type Registry struct {
	modules map[string]*Module
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// AddModule creates and returns the symbol table for a named module.
func (r *Registry) AddModule(name string) *Module {
	if _, exists := r.modules[name]; exists {
		panic(fmt.Sprintf("registry: module %q already registered", name))
	}
	slog.Debug("Registering module.", "name", name)
	m := &Module{
		name:      name,
		functions: make(map[string]any),
		types:     make(map[string]*Type),
	}
	r.modules[name] = m
	return m
}

// Module looks up a registered module by name.
func (r *Registry) Module(name string) (*Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// ModuleNames returns the registered module names, sorted.
func (r *Registry) ModuleNames() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Module is the symbol table of one registered module: its free functions
// and its types.
type Module struct {
	name      string
	functions map[string]any
	types     map[string]*Type
}

// Name returns the module's registered name.
func (m *Module) Name() string { return m.name }

// RegisterFunction registers a free function under the given name. fn must
// be a Go function; it may take a leading context.Context and must return
// error (alone or as its last result).
func (m *Module) RegisterFunction(name string, fn any) {
	if _, exists := m.functions[name]; exists {
		panic(fmt.Sprintf("registry: function %q already registered in module %q", name, m.name))
	}
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		panic(fmt.Sprintf("registry: %s.%s is not a function", m.name, name))
	}
	slog.Debug("Registering function.", "module", m.name, "name", name)
	m.functions[name] = fn
}

// Function looks up a registered free function.
func (m *Module) Function(name string) (any, bool) {
	fn, ok := m.functions[name]
	return fn, ok
}

// FunctionNames returns the registered function names, sorted.
func (m *Module) FunctionNames() []string {
	names := make([]string, 0, len(m.functions))
	for name := range m.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterType registers a type with its constructor and the declared names
// of the constructor's parameters, in order. The constructor must be a
// function returning the instance, optionally with a trailing error. The
// parameter names are what the engine resolves against its build-state
// lookup table when it auto-constructs an instance.
func (m *Module) RegisterType(name string, ctor any, params ...string) *Type {
	if _, exists := m.types[name]; exists {
		panic(fmt.Sprintf("registry: type %q already registered in module %q", name, m.name))
	}
	ct := reflect.TypeOf(ctor)
	if ct == nil || ct.Kind() != reflect.Func {
		panic(fmt.Sprintf("registry: constructor for %s.%s is not a function", m.name, name))
	}
	if ct.IsVariadic() {
		panic(fmt.Sprintf("registry: constructor for %s.%s must not be variadic", m.name, name))
	}
	if ct.NumIn() != len(params) {
		panic(fmt.Sprintf("registry: constructor for %s.%s takes %d parameters but %d names were declared",
			m.name, name, ct.NumIn(), len(params)))
	}
	switch ct.NumOut() {
	case 1:
		// instance only
	case 2:
		if ct.Out(1) != errorType {
			panic(fmt.Sprintf("registry: constructor for %s.%s must return (T) or (T, error)", m.name, name))
		}
	default:
		panic(fmt.Sprintf("registry: constructor for %s.%s must return (T) or (T, error)", m.name, name))
	}
	slog.Debug("Registering type.", "module", m.name, "name", name, "params", params)
	t := &Type{
		module:  m.name,
		name:    name,
		ctor:    ctor,
		params:  append([]string(nil), params...),
		methods: make(map[string]any),
		recv:    ct.Out(0),
	}
	m.types[name] = t
	return t
}

// Type looks up a registered type.
func (m *Module) Type(name string) (*Type, bool) {
	t, ok := m.types[name]
	return t, ok
}

// TypeNames returns the registered type names, sorted.
func (m *Module) TypeNames() []string {
	names := make([]string, 0, len(m.types))
	for name := range m.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Type describes one registered type: how to construct it and which methods
// it exposes to the pipeline.
type Type struct {
	module  string
	name    string
	ctor    any
	params  []string
	methods map[string]any
	recv    reflect.Type
}

// ID is the cache identity of the type, "module.Type".
func (t *Type) ID() string { return t.module + "." + t.name }

// Name returns the type's registered name.
func (t *Type) Name() string { return t.name }

// Constructor returns the registered constructor function.
func (t *Type) Constructor() any { return t.ctor }

// ConstructorParams returns the declared constructor parameter names.
func (t *Type) ConstructorParams() []string {
	return append([]string(nil), t.params...)
}

// ConstructorParamType returns the Go type of the i-th constructor
// parameter.
func (t *Type) ConstructorParamType(i int) reflect.Type {
	return reflect.TypeOf(t.ctor).In(i)
}

// RegisterMethod registers a method under the given name, in method
// expression form: a function whose first parameter is the receiver. It
// returns the Type so registrations chain.
func (t *Type) RegisterMethod(name string, fn any) *Type {
	if _, exists := t.methods[name]; exists {
		panic(fmt.Sprintf("registry: method %q already registered on %s", name, t.ID()))
	}
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		panic(fmt.Sprintf("registry: method %s.%s is not a function", t.ID(), name))
	}
	if ft.NumIn() == 0 || !t.recv.AssignableTo(ft.In(0)) {
		panic(fmt.Sprintf("registry: method %s.%s must take the receiver (%s) as its first parameter",
			t.ID(), name, t.recv))
	}
	slog.Debug("Registering method.", "type", t.ID(), "name", name)
	t.methods[name] = fn
	return t
}

// Method looks up a registered method.
func (t *Type) Method(name string) (any, bool) {
	fn, ok := t.methods[name]
	return fn, ok
}

// MethodNames returns the registered method names, sorted.
func (t *Type) MethodNames() []string {
	names := make([]string, 0, len(t.methods))
	for name := range t.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
