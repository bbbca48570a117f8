// Package forge is the build orchestrator. Its step table carries the
// built-in underscore-named steps a pipeline references with a single path
// segment, and it owns the shared build state those steps populate.
package forge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/All1eexx/ApkForge/internal/build"
	"github.com/All1eexx/ApkForge/internal/config"
	"github.com/All1eexx/ApkForge/internal/ctxlog"
	"github.com/All1eexx/ApkForge/internal/fsutil"
	"github.com/All1eexx/ApkForge/internal/pipeline"
	"github.com/All1eexx/ApkForge/modules/sdkdetector"
)

// Forge exposes the built-in pipeline steps over the run's build state.
type Forge struct {
	state *build.State
	steps map[string]any
}

// New creates the orchestrator. The step names keep their historical
// leading underscore; configured pipelines reference them verbatim.
func New(state *build.State) *Forge {
	f := &Forge{state: state}
	f.steps = map[string]any{
		"_print_header":         f.printHeader,
		"_print_platform_info":  f.printPlatformInfo,
		"_load_keystore_config": f.loadKeystoreConfig,
		"_find_files":           f.findFiles,
		"_detect_sdk":           f.detectSDK,
		"_print_final_summary":  f.printFinalSummary,
	}
	return f
}

// Step implements pipeline.Orchestrator.
func (f *Forge) Step(name string) (any, bool) {
	fn, ok := f.steps[name]
	return fn, ok
}

// StepNames implements pipeline.Orchestrator.
func (f *Forge) StepNames() []string {
	names := make([]string, 0, len(f.steps))
	for name := range f.steps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// State implements pipeline.Orchestrator.
func (f *Forge) State() *build.State { return f.state }

func (f *Forge) printHeader(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("============================================================")
	logger.Info("Build started.", "time", f.state.StartTime.Format(time.RFC1123))
	logger.Info("============================================================")
	return nil
}

func (f *Forge) printPlatformInfo(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	wd, _ := os.Getwd()
	logger.Info("Platform.",
		"os", runtime.GOOS, "arch", runtime.GOARCH, "go", runtime.Version(), "working_dir", wd)

	sdk := f.state.Paths.AndroidSDK
	if sdk == "" {
		logger.Info("Android SDK path not configured; detection runs later.")
		return nil
	}
	if _, err := os.Stat(sdk); err != nil {
		logger.Warn("Configured Android SDK path does not exist.", "path", sdk)
		return nil
	}
	logger.Info("Android SDK found.", "path", sdk)
	f.logSDKComponents(logger, sdk)
	return nil
}

func (f *Forge) logSDKComponents(logger *slog.Logger, sdk string) {
	for _, name := range []string{"platforms", "build-tools", "platform-tools"} {
		dir := filepath.Join(sdk, name)
		if _, err := os.Stat(dir); err != nil {
			logger.Warn("SDK component missing.", "component", name)
			continue
		}
		if name == "platforms" {
			versions, _ := filepath.Glob(filepath.Join(dir, "android-*"))
			sort.Strings(versions)
			if len(versions) > 3 {
				versions = versions[:3]
			}
			for i, v := range versions {
				versions[i] = filepath.Base(v)
			}
			logger.Info("SDK component present.", "component", name, "versions", strings.Join(versions, ", "))
			continue
		}
		logger.Info("SDK component present.", "component", name)
	}
}

func (f *Forge) loadKeystoreConfig(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	paths := f.state.Paths
	logger.Info("Loading keystore configuration.", "path", paths.Keystore)

	ks, err := config.LoadKeystore(paths.Keystore, paths.ProjectRoot)
	if err != nil {
		return err
	}
	f.state.Keystore = ks
	logger.Info("Keystore config loaded.", "keystore", filepath.Base(ks.Path), "alias", ks.Alias)
	return nil
}

// findFiles locates the tool jars and the source APK. A configured jar
// that cannot be found anywhere is a warning; a missing source APK stops
// the build, nothing downstream can run without it.
func (f *Forge) findFiles(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	paths := f.state.Paths
	logger.Info("Finding required files.")

	jars := []struct {
		key        string
		configured string
		pattern    string
	}{
		{build.FoundApktoolJar, paths.ApktoolJar, "apktool*.jar"},
		{build.FoundBaksmaliJar, paths.BaksmaliJar, "baksmali*.jar"},
		{build.FoundSmaliJar, paths.SmaliJar, "smali*.jar"},
	}
	for _, jar := range jars {
		found := f.locateJar(jar.configured, jar.pattern)
		if found == "" {
			if jar.configured != "" {
				f.state.RecordWarning(fmt.Sprintf("configured %s not found: %s", jar.key, jar.configured))
			}
			continue
		}
		f.state.FoundFiles[jar.key] = found
		logger.Info("Found tool.", "name", jar.key, "path", found)
	}

	apk := fsutil.FirstMatch(paths.OriginalDir, "*.apk")
	if apk == "" {
		return fmt.Errorf("source APK not found in %s", paths.OriginalDir)
	}
	f.state.FoundFiles[build.FoundSourceAPK] = apk
	logger.Info("Found source APK.", "path", apk)
	return nil
}

// locateJar prefers the configured path, then falls back to a recursive
// search under the project root.
func (f *Forge) locateJar(configured, pattern string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	matches, err := fsutil.FindByPattern(f.state.Paths.ProjectRoot, pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

func (f *Forge) detectSDK(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	sdk := sdkdetector.Detect(f.state.Paths.AndroidSDK)
	if sdk == "" {
		return pipeline.Warningf("Android SDK not found; set ANDROID_SDK_ROOT or the paths.android_sdk setting")
	}
	f.state.Paths.AndroidSDK = sdk
	logger.Info("Android SDK detected.", "path", sdk)
	return nil
}

func (f *Forge) printFinalSummary(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	elapsed := time.Since(f.state.StartTime)
	logger.Info("Build summary.", "elapsed", elapsed.Round(time.Millisecond).String())

	for _, ch := range f.state.Changes() {
		logger.Info("Changed value.", "name", ch.Name, "old", ch.Old, "new", ch.New)
	}
	for name, path := range f.state.FoundFiles {
		logger.Info("Resolved file.", "name", name, "path", path)
	}
	return nil
}
