// Package build holds the shared, mutable build state threaded through the
// pipeline: the loaded configuration, the resolved project paths, files
// discovered during the run, and the warnings and changes steps record.
package build

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/All1eexx/ApkForge/internal/config"
)

// Paths is the resolved directory and tool layout of one project.
type Paths struct {
	ProjectRoot string
	OriginalDir string
	ModdedDir   string
	SrcDir      string
	DistDir     string
	AndroidSDK  string
	ApktoolJar  string
	BaksmaliJar string
	SmaliJar    string
	Keystore    string
}

// NewPaths resolves the configured path layout against the project root,
// filling in the conventional defaults for anything unset.
func NewPaths(projectRoot string, cfg *config.Config) *Paths {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		root = filepath.Clean(projectRoot)
	}

	var pc config.PathsBlock
	if cfg != nil && cfg.Paths != nil {
		pc = *cfg.Paths
	}

	return &Paths{
		ProjectRoot: root,
		OriginalDir: Expand(root, orDefault(pc.OriginalDir, "OriginalGame")),
		ModdedDir:   Expand(root, orDefault(pc.ModdedDir, "ModdedGame")),
		SrcDir:      Expand(root, orDefault(pc.SrcDir, "src")),
		DistDir:     Expand(root, orDefault(pc.DistDir, "dist")),
		AndroidSDK:  Expand(root, pc.AndroidSDK),
		ApktoolJar:  Expand(root, pc.ApktoolJar),
		BaksmaliJar: Expand(root, pc.BaksmaliJar),
		SmaliJar:    Expand(root, pc.SmaliJar),
		Keystore:    Expand(root, orDefault(pc.Keystore, "keystore.json")),
	}
}

// Expand resolves a configured path value: "~" expands to the home
// directory, ${VAR} references expand from the environment, and relative
// paths resolve against the project root. An empty value stays empty.
func Expand(projectRoot, path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	path = os.ExpandEnv(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}
	return filepath.Clean(path)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
