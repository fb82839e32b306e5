package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tsis/api"
	"github.com/rustyeddy/tsis/calculator"
	"github.com/rustyeddy/tsis/risk"
)

// Environment variables that override file values.
const (
	EnvAPIToken = "TSIS_API_TOKEN"
	EnvAPIURL   = "TSIS_API_URL"
	EnvDBPath   = "TSIS_DB_PATH"
)

// Config is the complete tsis configuration
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// APIConfig points the calculator at the risk services
type APIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
	Timeout string `json:"timeout" yaml:"timeout"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to time.Duration
func (a APIConfig) ParseTimeout() (time.Duration, error) {
	if a.Timeout == "" {
		return api.DefaultTimeout, nil
	}
	return time.ParseDuration(a.Timeout)
}

// JournalConfig locates the SQLite database
type JournalConfig struct {
	DBPath     string `json:"db_path" yaml:"db_path"`
	SessionKey string `json:"session_key,omitempty" yaml:"session_key,omitempty"`
}

// ServerConfig configures `tsis serve`
type ServerConfig struct {
	Addr     string        `json:"addr" yaml:"addr"`
	Tokens   []string      `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Timezone string        `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Defaults risk.Settings `json:"defaults" yaml:"defaults"`
}

// Location resolves Timezone, defaulting to the local zone.
func (s ServerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json or console
}

type MetricsConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load reads path when it is non-empty, otherwise starts from Default.
// Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFromFile(path)
	}
	cfg := Default()
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads .env files into the process environment. Variables already
// set win. With no files it reads ./.env if present.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		return godotenv.Load()
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// ApplyEnv overlays TSIS_* environment variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		c.API.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		c.Journal.DBPath = v
	}
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL")
	}
	if d, err := c.API.ParseTimeout(); err != nil || d <= 0 {
		return fmt.Errorf("api.timeout must be a positive duration")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := c.Server.Location(); err != nil {
		return fmt.Errorf("server.timezone: %w", err)
	}
	if err := c.Server.Defaults.Validate(); err != nil {
		return fmt.Errorf("server.defaults: %w", err)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: api.DefaultBaseURL,
			Timeout: api.DefaultTimeout.String(),
		},
		Journal: JournalConfig{
			DBPath:     "./tsis.db",
			SessionKey: calculator.SessionKey,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Defaults: risk.DefaultSettings(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
