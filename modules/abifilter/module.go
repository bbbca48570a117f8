// Package abifilter prunes native library directories in the decompiled
// APK tree, keeping only the requested ABIs to cut APK size.
package abifilter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/All1eexx/ApkForge/internal/config"
	"github.com/All1eexx/ApkForge/internal/pipeline"
	"github.com/All1eexx/ApkForge/internal/registry"
)

// allABIs is the set of directory names under lib/ that count as ABI
// directories; anything else under lib/ is left alone.
var allABIs = map[string]bool{
	"armeabi":     true,
	"armeabi-v7a": true,
	"arm64-v8a":   true,
	"x86":         true,
	"x86_64":      true,
	"mips":        true,
	"mips64":      true,
}

// Module registers the abi_filter symbols.
type Module struct{}

// Register implements registry.Registrar.
func (m *Module) Register(r *registry.Registry) {
	mod := r.AddModule("abi_filter")
	mod.RegisterType("ABIFilter", NewABIFilter, "modded_dir", "config", "logger").
		RegisterMethod("filter", (*ABIFilter).Filter).
		RegisterMethod("print_summary", (*ABIFilter).PrintSummary)
}

// ABIFilter filters the lib/ ABI directories of one decompiled APK.
type ABIFilter struct {
	libDir        string
	keep          []string
	removeOthers  bool
	warnIfMissing bool
	logger        *slog.Logger
}

// NewABIFilter builds the filter over the decompile directory. The ABI
// selection comes from configuration; a filter step may override it with
// explicit arguments.
func NewABIFilter(moddedDir string, cfg *config.Config, logger *slog.Logger) *ABIFilter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &ABIFilter{
		libDir:        filepath.Join(moddedDir, "lib"),
		removeOthers:  true,
		warnIfMissing: true,
		logger:        logger,
	}
	if cfg != nil {
		f.keep = cfg.KeepABIs()
		f.removeOthers = cfg.RemoveOtherABIs()
		f.warnIfMissing = cfg.WarnIfMissingABIs()
	}
	return f
}

// Filter removes ABI directories outside the kept set. Explicit arguments
// override the configured keep list for this call. Requested ABIs that are
// absent from the APK produce a warning outcome when configured to warn.
func (f *ABIFilter) Filter(ctx context.Context, abis ...string) error {
	keep := f.keep
	if len(abis) > 0 {
		keep = abis
	}
	if len(keep) == 0 {
		f.logger.Info("No ABI filter specified, keeping all.")
		return nil
	}

	existing, err := f.abiDirs()
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		f.logger.Info("No ABI directories found, skipping filter.", "lib_dir", f.libDir)
		return nil
	}

	keepSet := make(map[string]bool, len(keep))
	for _, abi := range keep {
		keepSet[abi] = true
	}

	var kept, removed, missing []string
	for _, name := range existing {
		switch {
		case keepSet[name]:
			kept = append(kept, name)
		case f.removeOthers:
			if err := os.RemoveAll(filepath.Join(f.libDir, name)); err != nil {
				return fmt.Errorf("failed to remove ABI directory %s: %w", name, err)
			}
			removed = append(removed, name)
		default:
			kept = append(kept, name)
		}
	}
	for _, abi := range keep {
		if !contains(existing, abi) {
			missing = append(missing, abi)
		}
	}

	f.logger.Info("ABI filtering complete.",
		"kept", strings.Join(kept, ", "), "removed", strings.Join(removed, ", "))

	if len(missing) > 0 && f.warnIfMissing {
		return pipeline.Warningf("requested ABIs not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PrintSummary logs each remaining ABI directory with its shared library
// count and size.
func (f *ABIFilter) PrintSummary(ctx context.Context) error {
	existing, err := f.abiDirs()
	if err != nil {
		return err
	}
	for _, name := range existing {
		libs, _ := filepath.Glob(filepath.Join(f.libDir, name, "*.so"))
		var total int64
		for _, lib := range libs {
			if info, err := os.Stat(lib); err == nil {
				total += info.Size()
			}
		}
		f.logger.Info("ABI directory.",
			"abi", name, "libraries", len(libs), "size_kb", total/1024)
	}
	return nil
}

// abiDirs lists the recognized ABI directory names under lib/, sorted. A
// missing lib/ directory is not an error; the APK simply has no native
// code.
func (f *ABIFilter) abiDirs() ([]string, error) {
	entries, err := os.ReadDir(f.libDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && allABIs[e.Name()] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
