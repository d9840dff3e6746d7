package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ConfigYAML is the on-disk server configuration. Empty fields leave the
// corresponding Config value untouched, so the file only needs to name what
// it overrides.
type ConfigYAML struct {
	Listen      string `yaml:"listen,omitempty"`
	Metrics     string `yaml:"metrics,omitempty"`
	HistoryFile string `yaml:"history_file,omitempty"`
	HistoryDB   string `yaml:"history_db,omitempty"`
	LogLevel    string `yaml:"log_level,omitempty"`
	LogFormat   string `yaml:"log_format,omitempty"`
}

// LoadConfigFile reads a YAML config file and overlays its non-empty values
// onto cfg.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from user-provided CLI config
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return ApplyConfigYAML(data, cfg)
}

// ApplyConfigYAML parses YAML data and overlays it onto cfg.
func ApplyConfigYAML(data []byte, cfg *Config) error {
	var y ConfigYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if y.Listen != "" {
		cfg.ListenAddr = y.Listen
	}
	if y.Metrics != "" {
		cfg.MetricsAddr = y.Metrics
	}
	if y.HistoryFile != "" {
		cfg.HistoryFile = y.HistoryFile
	}
	if y.HistoryDB != "" {
		cfg.HistoryDB = y.HistoryDB
	}
	if y.LogLevel != "" {
		cfg.LogLevel = y.LogLevel
	}
	if y.LogFormat != "" {
		cfg.LogFormat = y.LogFormat
	}
	return nil
}

// ExportConfigYAML renders the effective configuration as YAML, for
// inspection with the -export-config flag.
func ExportConfigYAML(cfg Config) ([]byte, error) {
	y := ConfigYAML{
		Listen:      cfg.ListenAddr,
		Metrics:     cfg.MetricsAddr,
		HistoryFile: cfg.HistoryFile,
		HistoryDB:   cfg.HistoryDB,
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
	}
	return yaml.Marshal(&y)
}
