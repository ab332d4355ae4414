package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpyw/ignorefile/internal/config"
	"github.com/mpyw/ignorefile/internal/logging"
	"github.com/mpyw/ignorefile/internal/runner"
)

// loadConfig layers the configuration: defaults, the config file,
// IGNOREFILE_* variables, then flags set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("ignore") {
		cfg.IgnoreFile = flagIgnore
	}
	if changed("temp-dir") {
		cfg.TempDir = flagTempDir
	}
	if changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
	if changed("auto-update") {
		cfg.AutoUpdate = flagAutoUpdate
	}
	if changed("rules") {
		cfg.Rules = flagRules
	}
	if changed("tests") {
		cfg.Tests = flagTests
	}
	if changed("sequential") {
		cfg.Sequential = flagSequential
	}
	if changed("report-unused") {
		cfg.ReportUnused = flagReportUnused
	}

	return cfg, cfg.Validate()
}

func newRunner(cmd *cobra.Command) (*runner.Runner, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	return &runner.Runner{Config: cfg, Logger: logger}, nil
}

func patternsOf(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}

	return args
}
