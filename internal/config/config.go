// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when it exists and no file is given explicitly.
const DefaultFile = ".ignorefile.yaml"

// EnvPrefix prefixes every environment variable read by [ApplyEnv].
const EnvPrefix = "IGNOREFILE_"

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the run configuration. Values are layered: defaults, then the
// YAML file, then IGNOREFILE_* variables, then command line flags.
type Config struct {
	// IgnoreFile is the directive file; empty disables it.
	IgnoreFile string `yaml:"ignore_file"`
	// AutoUpdate comments out stale directive lines.
	AutoUpdate bool `yaml:"auto_update"`
	// Rules to run; empty means the default rules.
	Rules []string `yaml:"rules" validate:"dive,required"`
	// Tests loads test packages too.
	Tests bool `yaml:"tests"`
	// Sequential runs analyzers one at a time.
	Sequential bool `yaml:"sequential"`
	// TempDir holds working copies while directive files are rewritten.
	TempDir string `yaml:"temp_dir"`
	// ReportUnused reports //ignorefile:ignore comments that suppressed nothing.
	ReportUnused bool `yaml:"report_unused"`

	Log Log `yaml:"log"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path reads
// [DefaultFile] if it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides c with IGNOREFILE_* variables found by lookup,
// typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	boolean := func(name string, dst *bool) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}

		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %w", ErrInvalid, EnvPrefix, name, err)
		}
		*dst = b

		return nil
	}

	str("FILE", &c.IgnoreFile)
	str("TEMP_DIR", &c.TempDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "RULES"); ok {
		c.Rules = SplitList(v)
	}

	return errors.Join(
		boolean("AUTO_UPDATE", &c.AutoUpdate),
		boolean("TESTS", &c.Tests),
		boolean("SEQUENTIAL", &c.Sequential),
		boolean("REPORT_UNUSED", &c.ReportUnused),
	)
}

// Validate checks c with its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
