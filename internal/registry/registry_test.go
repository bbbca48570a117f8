package registry

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/All1eexx/ApkForge/internal/literal"
)

type counter struct {
	total int64
}

func newCounter(start int64) *counter { return &counter{total: start} }

func (c *counter) Add(ctx context.Context, n int64) error {
	c.total += n
	return nil
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	m := r.AddModule("math")
	m.RegisterFunction("noop", func(ctx context.Context) error { return nil })
	typ := m.RegisterType("Counter", newCounter, "start")
	typ.RegisterMethod("add", (*counter).Add)

	got, ok := r.Module("math")
	require.True(t, ok)
	assert.Equal(t, "math", got.Name())

	_, ok = r.Module("missing")
	assert.False(t, ok)

	_, ok = m.Function("noop")
	assert.True(t, ok)
	_, ok = m.Function("missing")
	assert.False(t, ok)

	ct, ok := m.Type("Counter")
	require.True(t, ok)
	assert.Equal(t, "math.Counter", ct.ID())
	assert.Equal(t, []string{"start"}, ct.ConstructorParams())
	_, ok = ct.Method("add")
	assert.True(t, ok)

	assert.Equal(t, []string{"math"}, r.ModuleNames())
	assert.Equal(t, []string{"add"}, ct.MethodNames())
}

func TestRegistrationPanics(t *testing.T) {
	t.Run("duplicate module", func(t *testing.T) {
		r := New()
		r.AddModule("m")
		assert.Panics(t, func() { r.AddModule("m") })
	})

	t.Run("non-function handler", func(t *testing.T) {
		r := New()
		m := r.AddModule("m")
		assert.Panics(t, func() { m.RegisterFunction("f", 42) })
	})

	t.Run("constructor arity mismatch", func(t *testing.T) {
		r := New()
		m := r.AddModule("m")
		assert.Panics(t, func() { m.RegisterType("T", newCounter, "a", "b") })
	})

	t.Run("method without receiver", func(t *testing.T) {
		r := New()
		m := r.AddModule("m")
		typ := m.RegisterType("Counter", newCounter, "start")
		assert.Panics(t, func() {
			typ.RegisterMethod("bad", func(ctx context.Context) error { return nil })
		})
	})
}

func TestCallConvertsArguments(t *testing.T) {
	var gotName string
	var gotCount int
	var gotRatio float64
	var gotFlag bool
	var gotTags []string
	var gotOpts map[string]any

	fn := func(ctx context.Context, name string, count int, ratio float64, flag bool, tags []string, opts map[string]any) error {
		gotName, gotCount, gotRatio, gotFlag, gotTags, gotOpts = name, count, ratio, flag, tags, opts
		return nil
	}

	args, err := literal.ParseArgs("'apk', 3, 0.5, True, ['a', 'b'], {'k': 1}")
	require.NoError(t, err)

	err = Call(context.Background(), "test.fn", fn, nil, args)
	require.NoError(t, err)

	assert.Equal(t, "apk", gotName)
	assert.Equal(t, 3, gotCount)
	assert.Equal(t, 0.5, gotRatio)
	assert.True(t, gotFlag)
	assert.Equal(t, []string{"a", "b"}, gotTags)
	assert.Equal(t, map[string]any{"k": int64(1)}, gotOpts)
}

func TestCallVariadic(t *testing.T) {
	var got []string
	fn := func(ctx context.Context, abis ...string) error {
		got = abis
		return nil
	}

	args, err := literal.ParseArgs("'arm64-v8a', 'x86_64'")
	require.NoError(t, err)
	require.NoError(t, Call(context.Background(), "t", fn, nil, args))
	assert.Equal(t, []string{"arm64-v8a", "x86_64"}, got)

	// Variadic with no arguments at all is fine too.
	got = nil
	require.NoError(t, Call(context.Background(), "t", fn, nil, nil))
	assert.Empty(t, got)
}

func TestCallMethodExpression(t *testing.T) {
	c := newCounter(10)
	args := []literal.Value{literal.IntVal(5)}

	err := Call(context.Background(), "math.Counter.add", (*counter).Add, c, args)
	require.NoError(t, err)
	assert.Equal(t, int64(15), c.total)
}

func TestCallArityMismatch(t *testing.T) {
	fn := func(ctx context.Context, a string, b string) error { return nil }

	err := Call(context.Background(), "t", fn, nil, []literal.Value{literal.StringVal("x")})
	require.Error(t, err)

	var bad *BadCallError
	require.ErrorAs(t, err, &bad)
	assert.Contains(t, bad.Reason, "requires 2 argument(s)")
}

func TestCallTypeMismatch(t *testing.T) {
	fn := func(ctx context.Context, n int) error { return nil }

	err := Call(context.Background(), "t", fn, nil, []literal.Value{literal.StringVal("x")})
	var bad *BadCallError
	require.ErrorAs(t, err, &bad)
}

func TestCallPropagatesHandlerError(t *testing.T) {
	sentinel := errors.New("boom")
	fn := func(ctx context.Context) error { return sentinel }

	err := Call(context.Background(), "t", fn, nil, nil)
	assert.ErrorIs(t, err, sentinel)

	var bad *BadCallError
	assert.False(t, errors.As(err, &bad), "handler errors are not call errors")
}

func TestCallNullArguments(t *testing.T) {
	var gotLogger *slog.Logger
	var gotTags []string
	fn := func(ctx context.Context, logger *slog.Logger, tags []string) error {
		gotLogger = logger
		gotTags = tags
		return nil
	}

	args := []literal.Value{literal.NullVal(), literal.NullVal()}
	require.NoError(t, Call(context.Background(), "t", fn, nil, args))
	assert.Nil(t, gotLogger)
	assert.Nil(t, gotTags)
}

func TestConstruct(t *testing.T) {
	inst, err := Construct("math.Counter", newCounter, []any{int64(7)})
	require.NoError(t, err)
	c, ok := inst.(*counter)
	require.True(t, ok)
	assert.Equal(t, int64(7), c.total)
}

func TestConstructNilFillsZero(t *testing.T) {
	type widget struct {
		log *slog.Logger
	}
	ctor := func(log *slog.Logger) *widget { return &widget{log: log} }

	inst, err := Construct("m.Widget", ctor, []any{nil})
	require.NoError(t, err)
	assert.Nil(t, inst.(*widget).log)
}

func TestConstructPropagatesError(t *testing.T) {
	sentinel := errors.New("no disk")
	ctor := func() (*counter, error) { return nil, sentinel }

	_, err := Construct("m.T", ctor, nil)
	assert.ErrorIs(t, err, sentinel)
}

func TestConstructTypeMismatch(t *testing.T) {
	_, err := Construct("m.T", newCounter, []any{"not a number"})
	var bad *BadCallError
	require.ErrorAs(t, err, &bad)
}
