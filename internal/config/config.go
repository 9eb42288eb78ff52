// Package config provides configuration management for tokfilter.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (TOKFILTER_ prefix)
//  3. Config file (.tokfilter.yaml)
//
// With no source present the defaults reproduce the classic run: read
// train.bin, val.bin and meta.pkl from the working directory, drop token
// IDs above 60 and write the *_filtered siblings next to them.
package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Supported report formats.
const (
	ReportFormatText = "text"
	ReportFormatJSON = "json"
	ReportFormatYAML = "yaml"
)

// Dataset defaults.
const (
	DefaultThreshold = 60
	DefaultMetaFile  = "meta.pkl"
	DefaultSuffix    = "_filtered"
)

// DefaultSplits returns the split names processed when none are configured.
func DefaultSplits() []string {
	return []string{"train", "val"}
}

// Config represents the global configuration for tokfilter.
type Config struct {
	// LogLevel controls the verbosity of log output.
	// Valid values: debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat controls the format of log output.
	// Valid values: text, json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Threshold is the inclusive upper bound of retained token IDs.
	Threshold int `mapstructure:"threshold" json:"threshold"`

	// Dir holds the <split>.bin inputs and the metadata file.
	Dir string `mapstructure:"dir" json:"dir"`

	// OutDir receives the filtered files. Empty means Dir.
	OutDir string `mapstructure:"out-dir" json:"outDir"`

	// Splits lists the dataset partitions to filter, in report order.
	Splits []string `mapstructure:"splits" json:"splits"`

	// Meta is the metadata file name, relative to Dir.
	Meta string `mapstructure:"meta" json:"meta"`

	// Suffix is appended to every output file stem.
	Suffix string `mapstructure:"suffix" json:"suffix"`

	// ReportFormat selects the report encoding: text, json, yaml.
	ReportFormat string `mapstructure:"report-format" json:"reportFormat"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load() — not read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:     LogLevelInfo,
		LogFormat:    LogFormatText,
		Threshold:    DefaultThreshold,
		Dir:          ".",
		Splits:       DefaultSplits(),
		Meta:         DefaultMetaFile,
		Suffix:       DefaultSuffix,
		ReportFormat: ReportFormatText,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		// valid
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	switch c.ReportFormat {
	case ReportFormatText, ReportFormatJSON, ReportFormatYAML:
		// valid
	default:
		return fmt.Errorf("invalid report format %q: must be one of text, json, yaml", c.ReportFormat)
	}

	if c.Threshold < 0 || c.Threshold > math.MaxUint16 {
		return fmt.Errorf("invalid threshold %d: must be within 0..%d", c.Threshold, math.MaxUint16)
	}

	if len(c.Splits) == 0 {
		return fmt.Errorf("at least one split is required")
	}

	seen := make(map[string]struct{}, len(c.Splits))
	for _, s := range c.Splits {
		if s == "" || strings.ContainsAny(s, `/\`) {
			return fmt.Errorf("invalid split name %q", s)
		}

		if _, dup := seen[s]; dup {
			return fmt.Errorf("duplicate split name %q", s)
		}

		seen[s] = struct{}{}
	}

	if c.Meta == "" {
		return fmt.Errorf("metadata file name must not be empty")
	}

	// An empty suffix would make every output overwrite its input.
	if c.Suffix == "" && (c.OutDir == "" || filepath.Clean(c.OutDir) == filepath.Clean(c.Dir)) {
		return fmt.Errorf("empty suffix requires an out-dir different from dir")
	}

	return nil
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// EffectiveOutDir returns OutDir, or Dir when OutDir is unset.
func (c *Config) EffectiveOutDir() string {
	if c.OutDir == "" {
		return c.Dir
	}

	return c.OutDir
}

// TokenThreshold returns the validated threshold as a token ID.
func (c *Config) TokenThreshold() uint16 {
	return uint16(c.Threshold) //nolint:gosec // range checked in Validate
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("threshold", d.Threshold)
	v.SetDefault("dir", d.Dir)
	v.SetDefault("out-dir", d.OutDir)
	v.SetDefault("splits", d.Splits)
	v.SetDefault("meta", d.Meta)
	v.SetDefault("suffix", d.Suffix)
	v.SetDefault("report-format", d.ReportFormat)
}

// configureEnv sets up environment variable support.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("TOKFILTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

// configureFile sets up the config file source.
func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	// Auto-discovery mode.
	v.SetConfigName(".tokfilter")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tokfilter"))
	}

	if err := v.ReadInConfig(); err != nil {
		// No config file found → perfectly fine in auto-discovery.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		// Found a file but it was malformed.
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags walks from cmd up to the root and binds all PersistentFlags.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
