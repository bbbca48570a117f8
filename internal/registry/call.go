package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/All1eexx/ApkForge/internal/literal"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// BadCallError reports a mismatch between a step's arguments and the
// signature of the resolved callable. The engine treats it as an
// argument-resolution failure of that step, distinct from an error the
// callable itself returned.
type BadCallError struct {
	Target string
	Reason string
}

func (e *BadCallError) Error() string {
	return fmt.Sprintf("cannot invoke %s: %s", e.Target, e.Reason)
}

// Call invokes fn with the given literal arguments. When recv is non-nil it
// is passed as the first parameter (method expression form). A leading
// context.Context parameter, after the receiver if any, is satisfied from
// ctx. Remaining parameters are filled positionally from args; a variadic
// final parameter absorbs any surplus. The callable's trailing error result,
// if any, is returned as-is.
func Call(ctx context.Context, target string, fn any, recv any, args []literal.Value) error {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func {
		return &BadCallError{Target: target, Reason: "not a function"}
	}
	ft := fnVal.Type()

	var in []reflect.Value
	next := 0

	if recv != nil {
		if ft.NumIn() == 0 {
			return &BadCallError{Target: target, Reason: "method takes no receiver"}
		}
		rv := reflect.ValueOf(recv)
		if !rv.Type().AssignableTo(ft.In(0)) {
			return &BadCallError{
				Target: target,
				Reason: fmt.Sprintf("receiver %s is not assignable to %s", rv.Type(), ft.In(0)),
			}
		}
		in = append(in, rv)
		next = 1
	}

	if next < ft.NumIn() && ft.In(next) == contextType {
		in = append(in, reflect.ValueOf(ctx))
		next++
	}

	fixed := ft.NumIn() - next
	if ft.IsVariadic() {
		fixed--
		if len(args) < fixed {
			return &BadCallError{
				Target: target,
				Reason: fmt.Sprintf("requires at least %d argument(s), got %d", fixed, len(args)),
			}
		}
	} else if len(args) != fixed {
		return &BadCallError{
			Target: target,
			Reason: fmt.Sprintf("requires %d argument(s), got %d", fixed, len(args)),
		}
	}

	for i, arg := range args {
		var paramType reflect.Type
		if ft.IsVariadic() && i >= fixed {
			paramType = ft.In(ft.NumIn() - 1).Elem()
		} else {
			paramType = ft.In(next + i)
		}
		val, err := convert(arg, paramType)
		if err != nil {
			return &BadCallError{
				Target: target,
				Reason: fmt.Sprintf("argument %d: %v", i+1, err),
			}
		}
		in = append(in, val)
	}

	return checkResults(fnVal.Call(in))
}

// Construct invokes a registered constructor with already resolved Go
// values. A nil argument produces the parameter's zero value.
func Construct(target string, ctor any, args []any) (any, error) {
	fnVal := reflect.ValueOf(ctor)
	ft := fnVal.Type()
	if len(args) != ft.NumIn() {
		return nil, &BadCallError{
			Target: target,
			Reason: fmt.Sprintf("constructor requires %d argument(s), got %d", ft.NumIn(), len(args)),
		}
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		paramType := ft.In(i)
		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}
		av := reflect.ValueOf(arg)
		switch {
		case av.Type().AssignableTo(paramType):
			in[i] = av
		case av.Type().ConvertibleTo(paramType):
			in[i] = av.Convert(paramType)
		default:
			return nil, &BadCallError{
				Target: target,
				Reason: fmt.Sprintf("constructor argument %d: %s is not assignable to %s", i+1, av.Type(), paramType),
			}
		}
	}

	out := fnVal.Call(in)
	if len(out) == 2 {
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return out[0].Interface(), nil
}

// checkResults extracts the trailing error from a reflective call.
func checkResults(out []reflect.Value) error {
	if len(out) == 0 {
		return nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		if err, _ := last.Interface().(error); err != nil {
			return err
		}
	}
	return nil
}

// convert materializes a literal value as the given Go parameter type.
func convert(v literal.Value, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
		return reflect.ValueOf(v.Interface()), nil
	}

	if v.IsNull() {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("null is not usable as %s", t)
	}

	switch t.Kind() {
	case reflect.String:
		if v.Kind() != literal.KindString {
			return reflect.Value{}, typeMismatch(v, t)
		}
		return reflect.ValueOf(v.AsString()).Convert(t), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Kind() != literal.KindInt {
			return reflect.Value{}, typeMismatch(v, t)
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowInt(v.AsInt()) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", v.AsInt(), t)
		}
		rv.SetInt(v.AsInt())
		return rv, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Kind() != literal.KindInt || v.AsInt() < 0 {
			return reflect.Value{}, typeMismatch(v, t)
		}
		rv := reflect.New(t).Elem()
		if rv.OverflowUint(uint64(v.AsInt())) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", v.AsInt(), t)
		}
		rv.SetUint(uint64(v.AsInt()))
		return rv, nil

	case reflect.Float32, reflect.Float64:
		if v.Kind() != literal.KindInt && v.Kind() != literal.KindFloat {
			return reflect.Value{}, typeMismatch(v, t)
		}
		rv := reflect.New(t).Elem()
		rv.SetFloat(v.AsFloat())
		return rv, nil

	case reflect.Bool:
		if v.Kind() != literal.KindBool {
			return reflect.Value{}, typeMismatch(v, t)
		}
		return reflect.ValueOf(v.AsBool()).Convert(t), nil

	case reflect.Slice:
		if v.Kind() != literal.KindList {
			return reflect.Value{}, typeMismatch(v, t)
		}
		elems := v.Elems()
		out := reflect.MakeSlice(t, len(elems), len(elems))
		for i, e := range elems {
			ev, err := convert(e, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil

	case reflect.Map:
		if v.Kind() != literal.KindMap {
			return reflect.Value{}, typeMismatch(v, t)
		}
		if t.Key().Kind() != reflect.String {
			return reflect.Value{}, fmt.Errorf("map parameter %s must have string keys", t)
		}
		out := reflect.MakeMapWithSize(t, v.Len())
		for _, entry := range v.Entries() {
			ev, err := convert(entry.Value, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("key %q: %w", entry.Key, err)
			}
			out.SetMapIndex(reflect.ValueOf(entry.Key).Convert(t.Key()), ev)
		}
		return out, nil
	}

	return reflect.Value{}, fmt.Errorf("parameter type %s is not supported for literal arguments", t)
}

func typeMismatch(v literal.Value, t reflect.Type) error {
	return fmt.Errorf("%s literal is not usable as %s", v.Kind(), t)
}
