// Package config loads specnaz settings from defaults, an optional config
// file, SPECNAZ_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the config file looked up (without extension) in the
// current directory and then in the user's home directory.
const FileName = ".specnaz"

// EnvPrefix prefixes environment overrides, e.g. SPECNAZ_OUTPUT_FORMAT.
const EnvPrefix = "SPECNAZ"

// Config represents the complete specnaz configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
	Run     RunConfig     `mapstructure:"run"`
}

// OutputConfig controls how results are reported
type OutputConfig struct {
	// Format is "text" (console tree) or "json" (one event per line)
	Format string `mapstructure:"format"`
	// Color enables ANSI colors in text output (default: true)
	Color bool `mapstructure:"color"`
	// Progress shows a progress bar on stderr while running
	Progress bool `mapstructure:"progress"`
}

// LoggingConfig controls diagnostic logging on stderr
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: warn)
	Level string `mapstructure:"level"`
	// Format is "text" or "json"
	Format string `mapstructure:"format"`
}

// StoreConfig controls run history recording
type StoreConfig struct {
	// Path is the SQLite database file; empty disables recording
	Path string `mapstructure:"path"`
}

// RunConfig controls test execution
type RunConfig struct {
	// FailOnFocused makes a run fail when any test is focused, so focused
	// tests cannot slip through CI
	FailOnFocused bool `mapstructure:"fail_on_focused"`
	// Filter is a glob on spec names; empty runs every spec
	Filter string `mapstructure:"filter"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			Progress: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Store: StoreConfig{},
		Run:   RunConfig{},
	}
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("output.progress", defaults.Output.Progress)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("store.path", defaults.Store.Path)

	v.SetDefault("run.fail_on_focused", defaults.Run.FailOnFocused)
	v.SetDefault("run.filter", defaults.Run.Filter)
}

// New returns a viper instance with defaults, environment binding and the
// config file read in. With configFile empty the file is optional and
// looked up as FileName; an explicit configFile must exist.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}
