package abifilter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/All1eexx/ApkForge/internal/pipeline"
	"github.com/All1eexx/ApkForge/internal/registry"
)

func makeLibTree(t *testing.T, abis ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, abi := range abis {
		dir := filepath.Join(root, "lib", abi)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "libgame.so"), []byte("elf"), 0o644))
	}
	return root
}

func TestFilterKeepsRequestedABIs(t *testing.T) {
	root := makeLibTree(t, "arm64-v8a", "armeabi-v7a", "x86")
	f := NewABIFilter(root, nil, nil)

	require.NoError(t, f.Filter(context.Background(), "arm64-v8a"))

	assert.DirExists(t, filepath.Join(root, "lib", "arm64-v8a"))
	assert.NoDirExists(t, filepath.Join(root, "lib", "armeabi-v7a"))
	assert.NoDirExists(t, filepath.Join(root, "lib", "x86"))
}

func TestFilterLeavesUnknownDirectories(t *testing.T) {
	root := makeLibTree(t, "arm64-v8a")
	other := filepath.Join(root, "lib", "assets")
	require.NoError(t, os.MkdirAll(other, 0o755))

	f := NewABIFilter(root, nil, nil)
	err := f.Filter(context.Background(), "x86_64")

	// x86_64 is requested but absent, so the call reports a warning after
	// pruning.
	var warn *pipeline.WarningError
	require.True(t, errors.As(err, &warn))
	assert.DirExists(t, other, "non-ABI directories under lib/ are untouched")
	assert.NoDirExists(t, filepath.Join(root, "lib", "arm64-v8a"))
}

func TestFilterWarnsOnMissingRequestedABI(t *testing.T) {
	root := makeLibTree(t, "arm64-v8a")
	f := NewABIFilter(root, nil, nil)

	err := f.Filter(context.Background(), "arm64-v8a", "mips64")

	var warn *pipeline.WarningError
	require.True(t, errors.As(err, &warn))
	assert.Contains(t, warn.Error(), "mips64")
	assert.DirExists(t, filepath.Join(root, "lib", "arm64-v8a"))
}

func TestFilterNoKeepListKeepsAll(t *testing.T) {
	root := makeLibTree(t, "arm64-v8a", "x86")
	f := NewABIFilter(root, nil, nil)

	require.NoError(t, f.Filter(context.Background()))

	assert.DirExists(t, filepath.Join(root, "lib", "arm64-v8a"))
	assert.DirExists(t, filepath.Join(root, "lib", "x86"))
}

func TestFilterMissingLibDir(t *testing.T) {
	f := NewABIFilter(t.TempDir(), nil, nil)
	require.NoError(t, f.Filter(context.Background(), "arm64-v8a"))
}

func TestPrintSummary(t *testing.T) {
	root := makeLibTree(t, "arm64-v8a")
	f := NewABIFilter(root, nil, nil)
	require.NoError(t, f.PrintSummary(context.Background()))
}

func TestRegisterExposesType(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	mod, ok := r.Module("abi_filter")
	require.True(t, ok)
	typ, ok := mod.Type("ABIFilter")
	require.True(t, ok)
	assert.Equal(t, []string{"modded_dir", "config", "logger"}, typ.ConstructorParams())
	assert.ElementsMatch(t, []string{"filter", "print_summary"}, typ.MethodNames())
}
