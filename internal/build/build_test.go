package build

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/All1eexx/ApkForge/internal/config"
)

func TestNewPathsDefaults(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(root, nil)

	assert.Equal(t, root, p.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "OriginalGame"), p.OriginalDir)
	assert.Equal(t, filepath.Join(root, "ModdedGame"), p.ModdedDir)
	assert.Equal(t, filepath.Join(root, "src"), p.SrcDir)
	assert.Equal(t, filepath.Join(root, "keystore.json"), p.Keystore)
	assert.Empty(t, p.AndroidSDK)
	assert.Empty(t, p.ApktoolJar)
}

func TestNewPathsFromConfig(t *testing.T) {
	root := t.TempDir()
	cfg, err := config.LoadBytes([]byte(`
paths {
  modded_dir  = "out/modded"
  apktool_jar = "tools/apktool.jar"
  android_sdk = "/opt/android-sdk"
}
pipeline {
  steps = ["_print_header"]
}
`), "build.hcl")
	require.NoError(t, err)

	p := NewPaths(root, cfg)
	assert.Equal(t, filepath.Join(root, "out", "modded"), p.ModdedDir)
	assert.Equal(t, filepath.Join(root, "tools", "apktool.jar"), p.ApktoolJar)
	assert.Equal(t, "/opt/android-sdk", p.AndroidSDK)
}

func TestExpand(t *testing.T) {
	root := "/project"

	assert.Empty(t, Expand(root, ""))
	assert.Equal(t, "/abs/path", Expand(root, "/abs/path"))
	assert.Equal(t, "/project/rel/path", Expand(root, "rel/path"))

	t.Setenv("FORGE_TEST_DIR", "/env/dir")
	assert.Equal(t, "/env/dir/sdk", Expand(root, "${FORGE_TEST_DIR}/sdk"))
}

func TestStateWarnings(t *testing.T) {
	s := NewState(nil, nil, nil)

	assert.Empty(t, s.ConsumeWarnings())

	s.RecordWarning("first")
	s.RecordWarning("second")

	got := s.ConsumeWarnings()
	assert.Equal(t, []string{"first", "second"}, got)
	assert.Empty(t, s.ConsumeWarnings(), "warnings clear once consumed")
}

func TestStateChangesAndFoundFiles(t *testing.T) {
	s := NewState(nil, nil, nil)

	s.RecordChange("versionCode", "1", "2")
	changes := s.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, Change{Name: "versionCode", Old: "1", New: "2"}, changes[0])

	_, ok := s.FoundFile(FoundSourceAPK)
	assert.False(t, ok)

	s.FoundFiles[FoundSourceAPK] = "/apk/base.apk"
	p, ok := s.FoundFile(FoundSourceAPK)
	assert.True(t, ok)
	assert.Equal(t, "/apk/base.apk", p)
}
