package config

import (
	"math"
	"time"
)

// Config keys as they appear in the run configuration file. Viper lower-cases keys
// internally, so environment overrides are FANOUT_HOSTNAMES, FANOUT_CMDTORUN and so on.
const (
	KeyHostnames   = "hostnames"
	KeyCmdToRun    = "cmdToRun"
	KeyHostnameTag = "hostnameTag"
	KeyThreadCount = "threadCount"
	KeyTimeoutMs   = "timeoutMs"
)

// Defaults applied when the configuration file leaves a key out.
// An explicit zero is kept so that validation can reject it.
const (
	DefaultThreadCount = 5
	DefaultTimeoutMs   = 30000
)

// RunConfig describes one fan-out run: which hosts, which command, how wide and how long
type RunConfig struct {
	// Hostnames is the ordered list of targets; duplicates are allowed and the list may be empty
	Hostnames []string `mapstructure:"hostnames" yaml:"hostnames" json:"hostnames"`

	// CommandTemplate is the shell command run once per hostname
	CommandTemplate string `mapstructure:"cmdToRun" yaml:"cmdToRun" json:"cmdToRun"`

	// PlaceholderTag is replaced by the hostname everywhere in CommandTemplate
	PlaceholderTag string `mapstructure:"hostnameTag" yaml:"hostnameTag" json:"hostnameTag"`

	// WorkerCount bounds how many commands run at once
	WorkerCount int `mapstructure:"threadCount" yaml:"threadCount" json:"threadCount"`

	// TimeoutMillis is the per-command deadline in milliseconds
	TimeoutMillis int64 `mapstructure:"timeoutMs" yaml:"timeoutMs" json:"timeoutMs"`
}

// maxTimeoutMillis is the largest millisecond count a time.Duration can hold
const maxTimeoutMillis = math.MaxInt64 / int64(time.Millisecond)

// Timeout returns the per-command deadline as a duration.
// Values too large for a time.Duration saturate to the longest one.
func (c RunConfig) Timeout() time.Duration {
	if c.TimeoutMillis > maxTimeoutMillis {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}
