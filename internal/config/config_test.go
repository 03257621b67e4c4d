package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log:
  level: "debug"
telegram:
  token: "test_token"
  api_url: "http://localhost:8081"
  timeout: "3s"
  auto_status: true
  offset: 40
poll:
  interval: "250ms"
archive:
  sqlite_path: "test.db"
  redis_addr: "localhost:6379"
  redis_key: "bot:log"
metrics:
  listen_addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "test_token", cfg.Telegram.Token)
	assert.Equal(t, "http://localhost:8081", cfg.Telegram.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Telegram.GetTimeout())
	assert.True(t, cfg.Telegram.AutoStatus)
	assert.Equal(t, 40, cfg.Telegram.Offset)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.GetInterval())
	assert.Equal(t, "test.db", cfg.Archive.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.Archive.RedisAddr)
	assert.Equal(t, "bot:log", cfg.Archive.RedisKey)
	assert.Equal(t, ":9100", cfg.Metrics.ListenAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists_FallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
}

func TestLoadDefault(t *testing.T) {
	cfg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "10s", cfg.Telegram.Timeout)
	assert.Equal(t, "telebind:messages", cfg.Archive.RedisKey)
	assert.False(t, cfg.Telegram.AutoStatus)
	assert.Empty(t, cfg.Telegram.Token)
	assert.NotEmpty(t, DefaultConfigBytes())
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_TOKEN", "secret-from-env")
	path := writeConfig(t, `
telegram:
  token: "${TEST_TOKEN}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Telegram.Token)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("TELEBIND_TELEGRAM_TOKEN", "env-token")
	t.Setenv("TELEBIND_TELEGRAM_AUTO_STATUS", "true")
	t.Setenv("TELEBIND_POLL_INTERVAL", "5s")
	path := writeConfig(t, `
telegram:
  token: "file-token"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.True(t, cfg.Telegram.AutoStatus)
	assert.Equal(t, 5*time.Second, cfg.Poll.GetInterval())
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `telegram:
  token: "my-custom-token"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "my-custom-token", cfg.Telegram.Token)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "10s", cfg.Telegram.Timeout)
	assert.Equal(t, "1s", cfg.Poll.Interval)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "telegram: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadDefault()
		require.NoError(t, err)
		cfg.Telegram.Token = "123:abc"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Telegram.Token = "" }, wantErr: "telegram.token is required"},
		{name: "relative api url", mutate: func(c *Config) { c.Telegram.APIURL = "api.telegram.org" }, wantErr: "telegram.api_url"},
		{name: "bad timeout", mutate: func(c *Config) { c.Telegram.Timeout = "soon" }, wantErr: "telegram.timeout: invalid duration"},
		{name: "negative interval", mutate: func(c *Config) { c.Poll.Interval = "-1s" }, wantErr: "poll.interval must be positive"},
		{name: "negative offset", mutate: func(c *Config) { c.Telegram.Offset = -1 }, wantErr: "telegram.offset"},
		{
			name:    "redis without key",
			mutate:  func(c *Config) { c.Archive.RedisAddr = "localhost:6379"; c.Archive.RedisKey = "" },
			wantErr: "archive.redis_key is required",
		},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := &Config{}
	cfg.Telegram.Timeout = "x"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.token is required")
	assert.Contains(t, err.Error(), "telegram.timeout")
	assert.Contains(t, err.Error(), "log.level")
}

func TestDurationFallbacks(t *testing.T) {
	var tg TelegramConfig
	assert.Equal(t, DefaultTimeout, tg.GetTimeout())
	tg.Timeout = "garbage"
	assert.Equal(t, DefaultTimeout, tg.GetTimeout())

	var p PollConfig
	assert.Equal(t, DefaultPollInterval, p.GetInterval())
}

func TestSlogLevel(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	cfg.Log.Level = "debug"
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	cfg.Log.Level = "error"
	assert.Equal(t, slog.LevelError, cfg.SlogLevel())
}
