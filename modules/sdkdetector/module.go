// Package sdkdetector locates an installed Android SDK by checking the
// conventional environment variables, the per-platform install locations,
// and finally sdkmanager on PATH.
package sdkdetector

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/All1eexx/ApkForge/internal/ctxlog"
	"github.com/All1eexx/ApkForge/internal/pipeline"
	"github.com/All1eexx/ApkForge/internal/registry"
)

var envVars = []string{"ANDROID_SDK_ROOT", "ANDROID_HOME", "ANDROID_SDK"}

// Module registers the sdk_detector symbols.
type Module struct{}

// Register implements registry.Registrar.
func (m *Module) Register(r *registry.Registry) {
	mod := r.AddModule("sdk_detector")
	mod.RegisterFunction("find_sdk", FindSDK)
}

// FindSDK is the find_sdk step. It logs where the SDK was found, or
// reports a warning outcome when no installation exists anywhere.
func FindSDK(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	sdk := Detect("")
	if sdk == "" {
		return pipeline.Warningf("Android SDK not found; set ANDROID_SDK_ROOT or install it to a standard location")
	}
	logger.Info("Android SDK located.", "path", sdk)
	return nil
}

// Detect returns the Android SDK root, or "" when none exists. A non-empty
// configured path wins when it points at an existing directory.
func Detect(configured string) string {
	if configured != "" && dirExists(configured) {
		return configured
	}
	for _, name := range envVars {
		if p := os.Getenv(name); p != "" && dirExists(p) {
			return p
		}
	}
	for _, p := range platformPaths() {
		if dirExists(p) {
			return p
		}
	}
	return fromSdkmanager()
}

func platformPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join(home, "AppData", "Local", "Android", "Sdk"),
			`C:\Android\sdk`,
			`C:\android-sdk`,
			filepath.Join(home, "Android", "Sdk"),
		}
	case "darwin":
		return []string{
			filepath.Join(home, "Library", "Android", "sdk"),
			"/usr/local/share/android-sdk",
			"/opt/android-sdk",
			filepath.Join(home, "Android", "sdk"),
		}
	default:
		return []string{
			filepath.Join(home, "Android", "Sdk"),
			filepath.Join(home, "android-sdk"),
			"/usr/lib/android-sdk",
			"/usr/local/lib/android-sdk",
			"/opt/android-sdk",
			"/opt/google/android-sdk",
			filepath.Join(home, ".local", "share", "android-sdk"),
		}
	}
}

// fromSdkmanager walks up from a sdkmanager binary on PATH. The binary
// lives in <sdk>/cmdline-tools/.../bin or <sdk>/tools/bin, so grandparent
// of the bin directory is a reasonable guess for the SDK root.
func fromSdkmanager() string {
	bin, err := exec.LookPath("sdkmanager")
	if err != nil {
		return ""
	}
	root := filepath.Dir(filepath.Dir(filepath.Dir(bin)))
	if dirExists(root) {
		return root
	}
	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
