// Package filecleaner removes temporary files and directories left behind
// by build steps.
package filecleaner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/All1eexx/ApkForge/internal/registry"
)

// Module registers the file_cleaner symbols.
type Module struct{}

// Register implements registry.Registrar.
func (m *Module) Register(r *registry.Registry) {
	mod := r.AddModule("file_cleaner")
	mod.RegisterType("FileCleaner", NewFileCleaner, "logger").
		RegisterMethod("cleanup_temp_dirs", (*FileCleaner).CleanupTempDirs).
		RegisterMethod("cleanup_by_pattern", (*FileCleaner).CleanupByPattern)
}

// FileCleaner deletes build leftovers. Removal failures are logged, not
// fatal; a stray temp file must not break the pipeline.
type FileCleaner struct {
	logger *slog.Logger
}

func NewFileCleaner(logger *slog.Logger) *FileCleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCleaner{logger: logger}
}

// CleanupTempDirs removes each given path, file or directory.
func (c *FileCleaner) CleanupTempDirs(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	c.logger.Info("Cleaning up temporary files.", "count", len(paths))
	for _, p := range paths {
		c.remove(p)
	}
	return nil
}

// CleanupByPattern removes entries directly inside dir that match the glob
// pattern. A missing directory is a no-op.
func (c *FileCleaner) CleanupByPattern(ctx context.Context, dir, pattern string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return err
	}
	for _, m := range matches {
		c.remove(m)
	}
	return nil
}

func (c *FileCleaner) remove(path string) {
	info, err := os.Lstat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		c.logger.Warn("Could not clean up path.", "path", path, "error", err)
		return
	}
	c.logger.Debug("Removed.", "path", path)
}
