package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aryankumar/fanout/internal/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "FANOUT"

// Loader reads a run configuration file and layers environment and flag overrides on top
type Loader struct {
	configPath string
	viper      *viper.Viper
}

// NewLoader creates a loader for the configuration file at configPath
func NewLoader(configPath string) *Loader {
	v := viper.New()
	v.SetDefault(KeyThreadCount, DefaultThreadCount)
	v.SetDefault(KeyTimeoutMs, DefaultTimeoutMs)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return &Loader{
		configPath: configPath,
		viper:      v,
	}
}

// BindFlag lets a command-line flag override key when the flag is set explicitly
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind to %q", key)
	}
	return l.viper.BindPFlag(key, flag)
}

// ConfigFileUsed returns the path of the file the loader reads
func (l *Loader) ConfigFileUsed() string {
	return l.configPath
}

// Load reads, schema-checks, decodes and validates the run configuration.
// Every validation failure matches util.ErrInvalidConfig.
func (l *Loader) Load() (RunConfig, error) {
	if l.configPath == "" {
		return RunConfig{}, util.NewValidationError("config", nil, "a config file path is required")
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return RunConfig{}, fmt.Errorf("unable to open config file at %s: %w", l.configPath, err)
	}

	format := formatFor(l.configPath)
	if err := ValidateSchema(data, format); err != nil {
		return RunConfig{}, fmt.Errorf("config file %s: %w", l.configPath, err)
	}

	l.viper.SetConfigType(format)
	if err := l.viper.ReadConfig(bytes.NewReader(data)); err != nil {
		return RunConfig{}, fmt.Errorf("unable to parse config content: %w", err)
	}

	var cfg RunConfig
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return RunConfig{}, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the dispatcher cannot run with.
// All problems are reported together.
func (c RunConfig) Validate() error {
	errs := &util.MultiError{}

	if c.WorkerCount <= 0 {
		errs.Add(util.NewValidationError(KeyThreadCount, c.WorkerCount, "must be a positive integer"))
	}

	if c.TimeoutMillis < 0 {
		errs.Add(util.NewValidationError(KeyTimeoutMs, c.TimeoutMillis, "must not be negative"))
	}

	if strings.TrimSpace(c.CommandTemplate) == "" {
		errs.Add(util.NewValidationError(KeyCmdToRun, nil, "command template is required"))
	}

	for i, host := range c.Hostnames {
		if host == "" {
			errs.Add(util.NewValidationError(fmt.Sprintf("%s[%d]", KeyHostnames, i), nil, "hostname must not be empty"))
		}
	}

	return errs.ErrorOrNil()
}

// formatFor picks the decoder by file extension; anything that is not YAML is read as JSON
func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
