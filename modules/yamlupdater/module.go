// Package yamlupdater rewrites the decompiled APK's apktool.yml with the
// configured version and application name. The rest of the document,
// including apktool's custom root tag, passes through untouched.
package yamlupdater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/All1eexx/ApkForge/internal/registry"
)

const metaFileName = "apktool.yml"

// Module registers the yaml_updater symbols.
type Module struct{}

// Register implements registry.Registrar.
func (m *Module) Register(r *registry.Registry) {
	mod := r.AddModule("yaml_updater")
	mod.RegisterType("YamlUpdater", NewYamlUpdater, "modded_dir", "logger").
		RegisterMethod("update", (*YamlUpdater).Update)
}

// YamlUpdater edits the apktool.yml inside one decompile directory.
type YamlUpdater struct {
	path   string
	logger *slog.Logger
}

func NewYamlUpdater(moddedDir string, logger *slog.Logger) *YamlUpdater {
	if logger == nil {
		logger = slog.Default()
	}
	return &YamlUpdater{path: filepath.Join(moddedDir, metaFileName), logger: logger}
}

// Update sets versionCode, versionName, and the output APK filename, which
// becomes "appName (versionName).apk". Keys the document does not carry
// are added under their conventional locations.
func (u *YamlUpdater) Update(ctx context.Context, versionCode int64, versionName, appName string) error {
	data, err := os.ReadFile(u.path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", metaFileName, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", metaFileName, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("unexpected %s structure: root is not a mapping", metaFileName)
	}
	root := doc.Content[0]

	apkName := fmt.Sprintf("%s (%s).apk", appName, versionName)
	u.logValues("old", root)

	setScalar(root, "apkFileName", apkName)
	versionInfo := mappingValue(root, "versionInfo")
	if versionInfo == nil {
		versionInfo = appendMapping(root, "versionInfo")
	}
	setScalar(versionInfo, "versionCode", fmt.Sprintf("%d", versionCode))
	setScalar(versionInfo, "versionName", versionName)

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", metaFileName, err)
	}
	if err := os.WriteFile(u.path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", metaFileName, err)
	}

	u.logger.Info("apktool.yml updated.",
		"version_code", versionCode, "version_name", versionName, "apk_file_name", apkName)
	return nil
}

func (u *YamlUpdater) logValues(label string, root *yaml.Node) {
	name := scalarValue(root, "apkFileName")
	var code, version string
	if vi := mappingValue(root, "versionInfo"); vi != nil {
		code = scalarValue(vi, "versionCode")
		version = scalarValue(vi, "versionName")
	}
	u.logger.Info("apktool.yml values.",
		"state", label, "version_code", code, "version_name", version, "apk_file_name", name)
}

// Mapping nodes interleave key and value nodes in Content.

func findValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalarValue(mapping *yaml.Node, key string) string {
	if n := findValue(mapping, key); n != nil && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	if n := findValue(mapping, key); n != nil && n.Kind == yaml.MappingNode {
		return n
	}
	return nil
}

func setScalar(mapping *yaml.Node, key, value string) {
	if n := findValue(mapping, key); n != nil {
		n.SetString(value)
		return
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	v := &yaml.Node{}
	v.SetString(value)
	mapping.Content = append(mapping.Content, k, v)
}

func appendMapping(mapping *yaml.Node, key string) *yaml.Node {
	k := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	mapping.Content = append(mapping.Content, k, v)
	return v
}
