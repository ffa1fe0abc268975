// Package config loads minitrie runtime settings from JSON or YAML files
// and TRIE_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rskv-p/minitrie/pkg/x_db"
	"github.com/rskv-p/minitrie/pkg/x_log"
	"github.com/rskv-p/minitrie/pkg/x_tree"
)

const (
	EnvConfigPath = "TRIE_CONFIG"
	EnvPrefix     = "TRIE_"
)

// Config holds every runtime setting.
type Config struct {
	Trie     TrieSettings `json:"trie" yaml:"trie" mapstructure:"trie"`
	NATS     NATSSettings `json:"nats" yaml:"nats" mapstructure:"nats"`
	HTTP     HTTPSettings `json:"http" yaml:"http" mapstructure:"http"`
	DB       DBSettings   `json:"db" yaml:"db" mapstructure:"db"`
	LogLevel string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	Logger   x_log.Config `json:"logger" yaml:"logger" mapstructure:"logger"`
}

// TrieSettings selects the layout and the dictionary file.
type TrieSettings struct {
	Kind   string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
	Order  string `json:"order" yaml:"order" mapstructure:"order"`
	Path   string `json:"path" yaml:"path" mapstructure:"path"`
	// SaveOnStop writes the dictionary back to Path when the service stops.
	SaveOnStop bool `json:"save_on_stop" yaml:"save_on_stop" mapstructure:"save_on_stop"`
}

// NATSSettings configures the request/reply transport.
type NATSSettings struct {
	URL      string        `json:"url" yaml:"url" mapstructure:"url"`
	Embedded bool          `json:"embedded" yaml:"embedded" mapstructure:"embedded"`
	Host     string        `json:"host" yaml:"host" mapstructure:"host"`
	Port     int           `json:"port" yaml:"port" mapstructure:"port"`
	Prefix   string        `json:"prefix" yaml:"prefix" mapstructure:"prefix"`
	Queue    string        `json:"queue" yaml:"queue" mapstructure:"queue"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// HTTPSettings configures the REST and websocket API.
type HTTPSettings struct {
	Enabled   bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Addr      string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	JWTSecret string        `json:"jwt_secret" yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl" yaml:"token_ttl" mapstructure:"token_ttl"`
}

// DBSettings points at the SQL word store.
type DBSettings struct {
	Dialect    string `json:"dialect" yaml:"dialect" mapstructure:"dialect"`
	DSN        string `json:"dsn" yaml:"dsn" mapstructure:"dsn"`
	Dictionary string `json:"dictionary" yaml:"dictionary" mapstructure:"dictionary"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Trie: TrieSettings{
			Kind:   string(x_tree.KindCompact),
			Format: x_tree.FormatPreOrder.String(),
			Order:  "dfs",
			Path:   "dict.bin",
		},
		NATS: NATSSettings{
			URL:     "nats://127.0.0.1:4222",
			Host:    "127.0.0.1",
			Port:    4222,
			Prefix:  "trie",
			Queue:   "trie",
			Timeout: 2 * time.Second,
		},
		HTTP: HTTPSettings{
			Addr:     ":8080",
			TokenTTL: 12 * time.Hour,
		},
		DB: DBSettings{
			Dialect:    "sqlite",
			DSN:        "trie.db",
			Dictionary: "default",
		},
		LogLevel: "info",
		Logger:   x_log.DefaultConfig(),
	}
}

// Load reads path on top of Default. The format follows the extension:
// .yaml and .yml are YAML, everything else JSON. ${VAR} references are
// expanded before parsing.
func Load(path string) (*Config, error) {
	return New(FromFile(path))
}

// LoadFromEnv applies prefixed environment variables on top of Default.
func LoadFromEnv(prefix string) *Config {
	cfg, err := New(FromEnv(prefix))
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadWithFallback loads TRIE_CONFIG when set, then applies TRIE_*
// variables. A broken file falls back to environment only.
func LoadWithFallback() *Config {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if cfg, err := New(FromFile(path), FromEnv(EnvPrefix)); err == nil {
			return cfg
		}
	}
	return LoadFromEnv(EnvPrefix)
}

// Resolve loads path plus TRIE_* variables when path is set, and falls
// back to LoadWithFallback otherwise. The result is validated.
func Resolve(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = LoadWithFallback()
	} else {
		c, err := New(FromFile(path), FromEnv(EnvPrefix))
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TrieOptions parses the trie section.
func (cfg *Config) TrieOptions() (x_tree.Kind, []x_tree.Option, error) {
	kind, err := x_tree.ParseKind(cfg.Trie.Kind)
	if err != nil {
		return "", nil, err
	}
	format, err := x_tree.ParseFormat(cfg.Trie.Format)
	if err != nil {
		return "", nil, err
	}
	order, err := x_tree.ParseOrder(cfg.Trie.Order)
	if err != nil {
		return "", nil, err
	}
	return kind, []x_tree.Option{x_tree.WithFormat(format), x_tree.WithOrder(order)}, nil
}

// Database maps the db section onto x_db settings.
func (cfg *Config) Database() x_db.Config {
	return x_db.Config{
		Dialect:  x_db.Dialect(strings.ToLower(cfg.DB.Dialect)),
		DSN:      cfg.DB.DSN,
		LogLevel: cfg.LogLevel,
	}
}

// Log returns the logger section with the top-level level applied.
func (cfg *Config) Log() *x_log.Config {
	lc := cfg.Logger
	if cfg.LogLevel != "" {
		lc.Level = cfg.LogLevel
	}
	return &lc
}

// Validate reports every invalid field at once.
func (cfg *Config) Validate() error {
	var bad []string
	if _, _, err := cfg.TrieOptions(); err != nil {
		bad = append(bad, err.Error())
	}
	if cfg.Trie.Path == "" {
		bad = append(bad, "trie.path")
	}
	if cfg.NATS.Prefix == "" {
		bad = append(bad, "nats.prefix")
	}
	if cfg.NATS.Embedded && (cfg.NATS.Port < -1 || cfg.NATS.Port > 65535) {
		bad = append(bad, fmt.Sprintf("nats.port(%d)", cfg.NATS.Port))
	}
	if !cfg.NATS.Embedded && cfg.NATS.URL == "" {
		bad = append(bad, "nats.url")
	}
	if cfg.HTTP.Enabled && cfg.HTTP.Addr == "" {
		bad = append(bad, "http.addr")
	}
	// a DSN enables login, so tokens need a real key
	if cfg.HTTP.Enabled && cfg.DB.DSN != "" && weakSecret(cfg.HTTP.JWTSecret) {
		bad = append(bad, "http.jwt_secret")
	}
	switch strings.ToLower(cfg.DB.Dialect) {
	case "sqlite", "postgres":
	default:
		bad = append(bad, fmt.Sprintf("db.dialect(%q)", cfg.DB.Dialect))
	}
	if cfg.LogLevel == "" {
		bad = append(bad, "log_level")
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(bad, ", "))
	}
	return nil
}

func weakSecret(s string) bool {
	return s == "" || s == placeholderSecret
}

const (
	placeholderSecret = "change-me"
	redacted          = "xxxxx"
)

var dsnPassword = regexp.MustCompile(`(?i)(password=)('[^']*'|\S+)`)

// redactDSN hides the password of a URL or key=value DSN.
func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(dsn, "${1}"+redacted)
}

// String renders the config as JSON with secrets redacted.
func (cfg *Config) String() string {
	c := *cfg
	if c.HTTP.JWTSecret != "" {
		c.HTTP.JWTSecret = redacted
	}
	c.DB.DSN = redactDSN(c.DB.DSN)
	data, _ := json.MarshalIndent(&c, "", "  ")
	return string(data)
}

func (cfg *Config) Dump(w io.Writer) {
	_, _ = io.WriteString(w, cfg.String())
}
