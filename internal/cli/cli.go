package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/All1eexx/ApkForge/internal/app"
	"github.com/All1eexx/ApkForge/internal/config"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("apkforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ApkForge - a configurable Android APK build pipeline.

Usage:
  apkforge [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to a build.hcl file. Defaults to ./build.hcl.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the build configuration file.")
	cFlag := flagSet.String("c", "", "Path to the build configuration file (shorthand).")
	rootFlag := flagSet.String("project-root", "", "Project root directory. Defaults to the config file's directory.")
	logFormatFlag := flagSet.String("log-format", "tint", "Log output format. Options: 'text', 'json', or 'tint'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	listStepsFlag := flagSet.Bool("list-steps", false, "List every available pipeline step and exit.")
	reportFlag := flagSet.String("report", "", "Write the run report to this path.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	switch {
	case *configFlag != "":
		path = *configFlag
	case *cFlag != "":
		path = *cFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	default:
		path = config.DefaultFileName
	}

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:  path,
		ProjectRoot: *rootFlag,
		LogFormat:   strings.ToLower(*logFormatFlag),
		LogLevel:    strings.ToLower(*logLevelFlag),
		ListSteps:   *listStepsFlag,
		ReportPath:  *reportFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}
