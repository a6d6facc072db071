package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctxkeeper/ctxkeeper/internal/core"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of ctxkeeper.yaml configuration files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// LoadFromFile loads configuration from a YAML file.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if cfg.ContextPath == "" {
		cfg.ContextPath = core.ContextFile()
	}
	if cfg.ChangelogPath == "" {
		cfg.ChangelogPath = core.ChangelogFile()
	}
	if cfg.ProbeTimeoutSeconds <= 0 {
		cfg.ProbeTimeoutSeconds = DefaultConfig().ProbeTimeoutSeconds
	}

	l.logger.Debug("loaded configuration", zap.String("path", path))
	return cfg, nil
}

// LoadDefaultConfigPath loads configuration from the default path.
func (l *Loader) LoadDefaultConfigPath() (*Config, error) {
	return l.LoadFromFile(core.ConfigFile())
}

// SaveToFile writes the configuration as YAML, creating the parent
// directory when needed.
func (l *Loader) SaveToFile(cfg *Config, path string) error {
	content, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	l.logger.Info("saved configuration", zap.String("path", path))
	return nil
}
