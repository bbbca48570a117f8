package forge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/All1eexx/ApkForge/internal/build"
	"github.com/All1eexx/ApkForge/internal/config"
)

func newTestForge(t *testing.T) (*Forge, string) {
	t.Helper()
	root := t.TempDir()
	cfg, err := config.LoadBytes([]byte(`
pipeline {
  steps = ["_print_header"]
}
`), "build.hcl")
	require.NoError(t, err)
	paths := build.NewPaths(root, cfg)
	state := build.NewState(cfg, paths, nil)
	return New(state), root
}

func TestStepTable(t *testing.T) {
	f, _ := newTestForge(t)

	for _, name := range []string{
		"_print_header", "_print_platform_info", "_load_keystore_config",
		"_find_files", "_detect_sdk", "_print_final_summary",
	} {
		fn, ok := f.Step(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}
	_, ok := f.Step("_decompile_apk")
	assert.False(t, ok)

	names := f.StepNames()
	assert.Len(t, names, 6)
	assert.IsIncreasing(t, names)
}

func TestPrintStepsSucceed(t *testing.T) {
	f, _ := newTestForge(t)
	ctx := context.Background()

	require.NoError(t, f.printHeader(ctx))
	require.NoError(t, f.printPlatformInfo(ctx))
	require.NoError(t, f.printFinalSummary(ctx))
}

func TestFindFiles(t *testing.T) {
	f, root := newTestForge(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "OriginalGame"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "OriginalGame", "game.apk"), []byte("apk"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tools"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tools", "apktool_2.9.3.jar"), []byte("jar"), 0o644))

	require.NoError(t, f.findFiles(context.Background()))

	apk, ok := f.state.FoundFile(build.FoundSourceAPK)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "OriginalGame", "game.apk"), apk)

	jar, ok := f.state.FoundFile(build.FoundApktoolJar)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "tools", "apktool_2.9.3.jar"), jar)

	assert.Empty(t, f.state.ConsumeWarnings(), "unconfigured missing jars stay silent")
}

func TestFindFilesNoSourceAPK(t *testing.T) {
	f, root := newTestForge(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "OriginalGame"), 0o755))

	err := f.findFiles(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source APK not found")
}

func TestFindFilesWarnsOnConfiguredJarMissing(t *testing.T) {
	f, root := newTestForge(t)
	f.state.Paths.ApktoolJar = filepath.Join(root, "nope", "apktool.jar")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "OriginalGame"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "OriginalGame", "game.apk"), []byte("apk"), 0o644))

	require.NoError(t, f.findFiles(context.Background()))

	warnings := f.state.ConsumeWarnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "apktool_jar")
}

func TestLoadKeystoreConfig(t *testing.T) {
	f, root := newTestForge(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "release.keystore"), []byte("ks"), 0o644))
	ksConfig, err := json.Marshal(map[string]string{
		"keystore_path":     "release.keystore",
		"keystore_alias":    "release",
		"keystore_password": "secret",
		"key_password":      "secret",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "keystore.json"), ksConfig, 0o600))

	require.NoError(t, f.loadKeystoreConfig(context.Background()))

	require.NotNil(t, f.state.Keystore)
	assert.Equal(t, "release", f.state.Keystore.Alias)
	assert.Equal(t, filepath.Join(root, "release.keystore"), f.state.Keystore.Path)
}

func TestLoadKeystoreConfigMissing(t *testing.T) {
	f, _ := newTestForge(t)
	require.Error(t, f.loadKeystoreConfig(context.Background()))
}
