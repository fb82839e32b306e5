package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tsis/risk"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvDBPath, "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "tsis-calculator", cfg.Journal.SessionKey)
	assert.Equal(t, risk.DefaultSettings(), cfg.Server.Defaults)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: true,
			errMsg:  "api.base_url is required",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.API.BaseURL = "localhost:8080" },
			wantErr: true,
			errMsg:  "api.base_url must be an http(s) URL",
		},
		{
			name:    "bad timeout",
			mutate:  func(c *Config) { c.API.Timeout = "soon" },
			wantErr: true,
			errMsg:  "api.timeout must be a positive duration",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.API.Timeout = "-1s" },
			wantErr: true,
			errMsg:  "api.timeout must be a positive duration",
		},
		{
			name:    "missing db path",
			mutate:  func(c *Config) { c.Journal.DBPath = "" },
			wantErr: true,
			errMsg:  "journal.db_path is required",
		},
		{
			name:    "missing server addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Server.Timezone = "Mars/Olympus" },
			wantErr: true,
			errMsg:  "server.timezone",
		},
		{
			name:    "invalid default settings",
			mutate:  func(c *Config) { c.Server.Defaults.AccountBalance = 0 },
			wantErr: true,
			errMsg:  "server.defaults",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Tokens = []string{"a", "b"}
			cfg.Server.Defaults.MaxSharesPerTrade = 250
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.API, loaded.API)
			assert.Equal(t, cfg.Journal, loaded.Journal)
			assert.Equal(t, cfg.Server.Tokens, loaded.Server.Tokens)
			assert.Equal(t, int64(250), loaded.Server.Defaults.MaxSharesPerTrade)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://risk.example.com/api/v1\n"), 0600))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://risk.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "./tsis.db", cfg.Journal.DBPath)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed"), 0600))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIToken, " tok-123 ")
	t.Setenv(EnvAPIURL, "https://env.example.com/api/v1")
	t.Setenv(EnvDBPath, "/tmp/env.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.API.Token)
	assert.Equal(t, "https://env.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, "/tmp/env.db", cfg.Journal.DBPath)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvAPIToken))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(EnvAPIToken+"=from-file\n"), 0600))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv(EnvAPIToken))

	assert.Error(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		timeout  string
		expected string
		wantErr  bool
	}{
		{"30s", "30s", false},
		{"1m", "1m0s", false},
		{"", "30s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.timeout, func(t *testing.T) {
			d, err := APIConfig{Timeout: tt.timeout}.ParseTimeout()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}
