package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file from the project root into the process
// environment, if one exists. Already-set variables win.
func LoadDotenv(projectRoot string) error {
	path := filepath.Join(projectRoot, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnvOverrides lets CI and local shells override selected project
// fields without editing build.hcl. It returns the names of the fields that
// were overridden.
func (c *Config) ApplyEnvOverrides() []string {
	var applied []string

	override := func(envVar, field string, set func(string) bool) {
		val := os.Getenv(envVar)
		if val == "" {
			return
		}
		if !set(val) {
			slog.Warn("Ignoring unparseable environment override.", "var", envVar, "value", val)
			return
		}
		slog.Info("Applied environment override.", "var", envVar, "field", field)
		applied = append(applied, field)
	}

	if c.Project != nil {
		override("BUILD_VERSION_CODE", "version_code", func(v string) bool {
			code, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return false
			}
			c.Project.VersionCode = code
			return true
		})
		override("BUILD_VERSION_NAME", "version_name", func(v string) bool {
			c.Project.VersionName = v
			return true
		})
		override("BUILD_APP_NAME", "app_name", func(v string) bool {
			c.Project.AppName = v
			return true
		})
		override("BUILD_PACKAGE_ID", "application_id", func(v string) bool {
			c.Project.ApplicationID = v
			return true
		})
	}

	override("PIPELINE_STOP_ON_ERROR", "stop_on_error", func(v string) bool {
		b, ok := parseBool(v)
		if !ok {
			return false
		}
		c.Pipeline.StopOnError = &b
		return true
	})
	override("PIPELINE_STOP_ON_WARNING", "stop_on_warning", func(v string) bool {
		b, ok := parseBool(v)
		if !ok {
			return false
		}
		c.Pipeline.StopOnWarning = &b
		return true
	})
	override("PIPELINE_TIMEOUT_SECONDS", "timeout_seconds", func(v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		c.Pipeline.TimeoutSeconds = &n
		return true
	})

	return applied
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}
