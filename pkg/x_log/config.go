package x_log

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//
// ---------- Defaults ----------

const (
	defaultConfigPath = "./trielog.json"
	envConfigPath     = "TRIE_LOG_CONFIG"
)

var defaultConfig = Config{
	Level:      "info",
	LogFile:    "logs/trie.log",
	ToConsole:  true,
	Style:      "dark",
	MaxSize:    10, // MB
	MaxBackups: 5,
	MaxAge:     7, // days
	Compress:   true,
}

// Config controls the global logger.
type Config struct {
	Level       string `json:"Level" yaml:"level" mapstructure:"level"`
	LogFile     string `json:"LogFile" yaml:"log_file" mapstructure:"log_file"`
	ToConsole   bool   `json:"ToConsole" yaml:"to_console" mapstructure:"to_console"`
	ToFile      bool   `json:"ToFile" yaml:"to_file" mapstructure:"to_file"`
	ColoredFile bool   `json:"ColoredFile" yaml:"colored_file" mapstructure:"colored_file"`
	Style       string `json:"Style" yaml:"style" mapstructure:"style"`
	MaxSize     int    `json:"MaxSize" yaml:"max_size" mapstructure:"max_size"`
	MaxBackups  int    `json:"MaxBackups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge      int    `json:"MaxAge" yaml:"max_age" mapstructure:"max_age"`
	Compress    bool   `json:"Compress" yaml:"compress" mapstructure:"compress"`
}

// DefaultConfig returns a copy of the built-in settings.
func DefaultConfig() Config { return defaultConfig }

//
// ---------- LoadConfig ----------

// LoadConfig reads a JSON logger config. An empty path falls back to
// TRIE_LOG_CONFIG and then ./trielog.json. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		if path = os.Getenv(envConfigPath); path == "" {
			path = defaultConfigPath
		}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig
			return &cfg, nil
		}
		return nil, fmt.Errorf("read log config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse log config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills zero fields from defaultConfig.
func applyDefaults(cfg *Config) {
	if cfg.Level == "" {
		cfg.Level = defaultConfig.Level
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultConfig.LogFile
	}
	if cfg.Style == "" {
		cfg.Style = defaultConfig.Style
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultConfig.MaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultConfig.MaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultConfig.MaxAge
	}
}
