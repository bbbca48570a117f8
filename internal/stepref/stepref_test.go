package stepref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/All1eexx/ApkForge/internal/literal"
)

func TestParseBareReference(t *testing.T) {
	d, err := Parse("_print_header")
	require.NoError(t, err)

	assert.Equal(t, []string{"_print_header"}, d.Path)
	assert.False(t, d.HasArgs)
	assert.Nil(t, d.Args)
	assert.Equal(t, "_print_header", d.DisplayName())
}

func TestParseTypeMethodWithArgs(t *testing.T) {
	d, err := Parse("abi_filter.ABIFilter.filter('arm64-v8a')")
	require.NoError(t, err)

	assert.Equal(t, []string{"abi_filter", "ABIFilter", "filter"}, d.Path)
	require.True(t, d.HasArgs)
	require.Len(t, d.Args, 1)
	assert.True(t, d.Args[0].Equal(literal.StringVal("arm64-v8a")))
	assert.Equal(t, "abi_filter.ABIFilter.filter", d.DisplayName())
}

func TestParseEmptyArgList(t *testing.T) {
	d, err := Parse("file_cleaner.FileCleaner.cleanup_temp_dirs()")
	require.NoError(t, err)

	assert.True(t, d.HasArgs, "explicit () is distinct from a bare reference")
	assert.Empty(t, d.Args)
}

func TestParseTrimsWhitespace(t *testing.T) {
	d, err := Parse("  sdk_detector.find_sdk  ")
	require.NoError(t, err)
	assert.Equal(t, "sdk_detector.find_sdk", d.Raw)
	assert.Equal(t, []string{"sdk_detector", "find_sdk"}, d.Path)
}

func TestParseDeterministic(t *testing.T) {
	const raw = "mod.Type.method(1, 'a', [True])"
	first, err := Parse(raw)
	require.NoError(t, err)
	second, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, first.Raw, second.Raw)
	assert.Equal(t, first.Path, second.Path)
	require.Len(t, second.Args, len(first.Args))
	for i := range first.Args {
		assert.True(t, first.Args[i].Equal(second.Args[i]))
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"only args", "('x')"},
		{"unbalanced open", "step("},
		{"unbalanced close", "step)"},
		{"bad segment", "mod..method"},
		{"segment with dash", "my-step"},
		{"segment starting with digit", "1step"},
		{"bad argument literal", "step(foo)"},
		{"operator argument", "step(1 + 2)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			require.Error(t, err)
			var malformed *MalformedStepError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestParseArgumentErrorWrapped(t *testing.T) {
	_, err := Parse("step(unquoted)")
	require.Error(t, err)

	var argErr *literal.MalformedArgumentError
	assert.ErrorAs(t, err, &argErr, "literal parser errors propagate through Unwrap")
}
