// Package config provides configuration management for ctxkeeper.
package config

import (
	"time"

	"github.com/ctxkeeper/ctxkeeper/internal/core"
)

// Config holds the tool configuration loaded from ~/.claude/ctxkeeper.yaml.
// Every field has a working default; the file is optional.
type Config struct {
	// ContextPath is where the context document lives.
	ContextPath string `yaml:"context_path"`
	// ChangelogPath is where mutation diffs are appended.
	ChangelogPath string `yaml:"changelog_path"`
	// LogLevel controls the zap logger ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
	// ProbeTimeoutSeconds bounds each scanner command invocation.
	ProbeTimeoutSeconds int `yaml:"probe_timeout_seconds"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		ContextPath:         core.ContextFile(),
		ChangelogPath:       core.ChangelogFile(),
		LogLevel:            "info",
		ProbeTimeoutSeconds: 10,
	}
}

// ProbeTimeout returns the per-probe command timeout as a duration.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}
