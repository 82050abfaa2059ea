package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mahami/internal/clierr"
	"mahami/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagConfig   string
	flagDB       string
	flagJSON     bool
	flagYAML     bool
	flagCompact  bool
	flagNoColor  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mahami",
	Short: "Personal to-do manager with reminders",
	Long: `mahami keeps a local list of tasks with categories, priorities, due dates
and reminders. Run it without arguments to open the terminal UI.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config file")
	pf.StringVar(&flagDB, "db", "", "path to the task database (overrides db_path)")
	pf.BoolVar(&flagJSON, "json", false, "output as JSON")
	pf.BoolVar(&flagYAML, "yaml", false, "output as YAML")
	pf.BoolVar(&flagCompact, "compact", false, "one line per task")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable color output")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// reportError prints err in the active output format and returns the exit code.
func reportError(stdout, stderr io.Writer, err error) int {
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) {
		code := clierr.InternalError
		if isUsageError(err) {
			code = clierr.InvalidInput
		}
		cliErr = clierr.New(code, err.Error())
	}

	switch outputFormat() {
	case output.FormatJSON:
		output.JSONError(stdout, cliErr.Code, cliErr.Message, cliErr.Details)
		return cliErr.ExitCode()
	case output.FormatYAML:
		_ = output.YAML(stdout, output.ErrorResponse{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details})
		return cliErr.ExitCode()
	}
	fmt.Fprintln(stderr, "Error:", cliErr.Message)
	return cliErr.ExitCode()
}

// isUsageError spots flag and argument errors raised by cobra itself.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, p := range []string{"unknown flag", "unknown command", "unknown shorthand", "accepts ", "requires at least", "invalid argument", "flag needs an argument"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func outputFormat() output.Format {
	return output.Detect(flagJSON, flagYAML, flagCompact)
}
