package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Option mutates a Config under construction.
type Option func(*Config) error

// New applies opts in order on top of Default.
func New(opts ...Option) (*Config, error) {
	cfg := Default()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithValues decodes a nested map onto the config.
func WithValues(values map[string]any) Option {
	return func(c *Config) error {
		return decode(values, c)
	}
}

// FromFile reads a JSON or YAML file.
func FromFile(path string) Option {
	return func(c *Config) error {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}
		data = ReplaceEnvVars(data)

		raw := map[string]any{}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, &raw)
		default:
			err = json.Unmarshal(data, &raw)
		}
		if err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return decode(raw, c)
	}
}

// FromEnv maps PREFIX_SECTION_KEY variables onto section.key, e.g.
// TRIE_NATS_URL sets nats.url and TRIE_LOG_LEVEL sets log_level.
func FromEnv(prefix string) Option {
	return func(c *Config) error {
		raw := map[string]any{}
		for _, e := range os.Environ() {
			k, v, ok := strings.Cut(e, "=")
			if !ok || !strings.HasPrefix(k, prefix) {
				continue
			}
			key := strings.ToLower(strings.TrimPrefix(k, prefix))
			section, field, nested := strings.Cut(key, "_")
			if nested && isSection(section) {
				m, _ := raw[section].(map[string]any)
				if m == nil {
					m = map[string]any{}
					raw[section] = m
				}
				m[field] = ParseEnvValue(v)
				continue
			}
			raw[key] = ParseEnvValue(v)
		}
		return decode(raw, c)
	}
}

func isSection(s string) bool {
	switch s {
	case "trie", "nats", "http", "db", "logger":
		return true
	}
	return false
}

func decode(raw map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// ParseEnvValue keeps booleans typed. Numbers and durations stay strings
// and are converted by the weakly typed decoder.
func ParseEnvValue(v string) any {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

// ReplaceEnvVars expands ${VAR} references.
func ReplaceEnvVars(data []byte) []byte {
	return []byte(os.Expand(string(data), os.Getenv))
}
