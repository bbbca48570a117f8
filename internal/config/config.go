// Package config loads the project build configuration from build.hcl: the
// app identity, the directory and tool paths, the ABI filter settings, and
// the pipeline block (ordered step references plus the run's fault-tolerance
// policy). Free-form attributes in the settings block are surfaced as a
// generic tree for steps that want ad-hoc configuration.
package config

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFileName is the config file looked up in the project root.
const DefaultFileName = "build.hcl"

// Config is the decoded build configuration.
type Config struct {
	Project  *ProjectBlock  `hcl:"project,block"`
	Paths    *PathsBlock    `hcl:"paths,block"`
	ABI      *ABIBlock      `hcl:"abi,block"`
	Pipeline *PipelineBlock `hcl:"pipeline,block"`
	Raw      *settingsBlock `hcl:"settings,block"`

	// Settings holds the decoded attributes of the settings block.
	Settings map[string]any
}

// ProjectBlock identifies the app being built.
type ProjectBlock struct {
	AppName       string `hcl:"app_name"`
	ApplicationID string `hcl:"application_id,optional"`
	VersionCode   int64  `hcl:"version_code"`
	VersionName   string `hcl:"version_name"`
}

// PathsBlock configures the project's directory layout and tool locations.
// Relative paths resolve against the project root.
type PathsBlock struct {
	OriginalDir string `hcl:"original_dir,optional"`
	ModdedDir   string `hcl:"modded_dir,optional"`
	SrcDir      string `hcl:"src_dir,optional"`
	DistDir     string `hcl:"dist_dir,optional"`
	AndroidSDK  string `hcl:"android_sdk,optional"`
	ApktoolJar  string `hcl:"apktool_jar,optional"`
	BaksmaliJar string `hcl:"baksmali_jar,optional"`
	SmaliJar    string `hcl:"smali_jar,optional"`
	Keystore    string `hcl:"keystore,optional"`
}

// ABIBlock configures native library filtering.
type ABIBlock struct {
	KeepOnly      []string `hcl:"keep_only,optional"`
	RemoveOthers  *bool    `hcl:"remove_others,optional"`
	WarnIfMissing *bool    `hcl:"warn_if_missing,optional"`
}

// PipelineBlock is the ordered list of step references plus the run policy.
type PipelineBlock struct {
	Steps          []string `hcl:"steps"`
	StopOnError    *bool    `hcl:"stop_on_error,optional"`
	StopOnWarning  *bool    `hcl:"stop_on_warning,optional"`
	TimeoutSeconds *int     `hcl:"timeout_seconds,optional"`
	SaveReport     *bool    `hcl:"save_report,optional"`
}

type settingsBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

// Load reads and decodes the config file at path.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	return decode(file)
}

// LoadBytes decodes config from an in-memory buffer. filename only labels
// diagnostics.
func LoadBytes(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	return decode(file)
}

func decode(file *hcl.File) (*Config, error) {
	cfg := &Config{}
	if diags := gohcl.DecodeBody(file.Body, nil, cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %w", diags)
	}

	if cfg.Pipeline == nil {
		return nil, fmt.Errorf("config has no pipeline block")
	}

	cfg.Settings = map[string]any{}
	if cfg.Raw != nil {
		attrs, diags := cfg.Raw.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to read settings block: %w", diags)
		}
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			val, diags := attrs[name].Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to evaluate setting %q: %w", name, diags)
			}
			cfg.Settings[name] = ctyToGo(val)
		}
	}

	return cfg, nil
}

// Setting returns a value from the settings block.
func (c *Config) Setting(name string) (any, bool) {
	v, ok := c.Settings[name]
	return v, ok
}

// BoolSetting returns a boolean setting, or def when absent or non-boolean.
func (c *Config) BoolSetting(name string, def bool) bool {
	if v, ok := c.Settings[name]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetStopOnError reports whether an error outcome pauses the run.
// Default true.
func (p *PipelineBlock) GetStopOnError() bool {
	if p.StopOnError != nil {
		return *p.StopOnError
	}
	return true
}

// GetStopOnWarning reports whether a warning outcome pauses the run.
// Default false.
func (p *PipelineBlock) GetStopOnWarning() bool {
	if p.StopOnWarning != nil {
		return *p.StopOnWarning
	}
	return false
}

// GetTimeoutSeconds is the operator-decision timeout for a paused run.
// Default 30.
func (p *PipelineBlock) GetTimeoutSeconds() int {
	if p.TimeoutSeconds != nil {
		return *p.TimeoutSeconds
	}
	return 30
}

// GetSaveReport reports whether a JSON run report is written after the run.
func (p *PipelineBlock) GetSaveReport() bool {
	return p.SaveReport != nil && *p.SaveReport
}

// KeepABIs returns the configured ABI allow-list, nil when unset.
func (c *Config) KeepABIs() []string {
	if c.ABI == nil {
		return nil
	}
	return c.ABI.KeepOnly
}

// RemoveOtherABIs reports whether unlisted ABI directories are deleted.
// Default true.
func (c *Config) RemoveOtherABIs() bool {
	if c.ABI == nil || c.ABI.RemoveOthers == nil {
		return true
	}
	return *c.ABI.RemoveOthers
}

// WarnIfMissingABIs reports whether a requested-but-absent ABI is a warning.
// Default true.
func (c *Config) WarnIfMissingABIs() bool {
	if c.ABI == nil || c.ABI.WarnIfMissing == nil {
		return true
	}
	return *c.ABI.WarnIfMissing
}

// ctyToGo converts a decoded HCL value to plain Go data: strings, int64 or
// float64 numbers, bools, []any, and map[string]any.
func ctyToGo(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString()
	case t == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case t == cty.Bool:
		return v.True()
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ctyToGo(ev))
		}
		return out
	case t.IsObjectType() || t.IsMapType():
		out := map[string]any{}
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			out[kv.AsString()] = ctyToGo(ev)
		}
		return out
	}
	return v.GoString()
}
