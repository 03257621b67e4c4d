package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// DefaultPollInterval is used when poll.interval is empty or invalid.
const DefaultPollInterval = time.Second

// DefaultTimeout is used when telegram.timeout is empty or invalid.
const DefaultTimeout = 10 * time.Second

type TelegramConfig struct {
	Token      string `yaml:"token" env:"TELEBIND_TELEGRAM_TOKEN"`
	APIURL     string `yaml:"api_url" env:"TELEBIND_TELEGRAM_API_URL"`
	Timeout    string `yaml:"timeout" env:"TELEBIND_TELEGRAM_TIMEOUT"`
	AutoStatus bool   `yaml:"auto_status" env:"TELEBIND_TELEGRAM_AUTO_STATUS"`
	Offset     int    `yaml:"offset" env:"TELEBIND_TELEGRAM_OFFSET"`
}

// GetTimeout returns the parsed per-call timeout.
// Falls back to DefaultTimeout if not configured or invalid.
func (c *TelegramConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, DefaultTimeout)
}

type PollConfig struct {
	Interval string `yaml:"interval" env:"TELEBIND_POLL_INTERVAL"`
}

// GetInterval returns the pause between two polls.
func (c *PollConfig) GetInterval() time.Duration {
	return parseDuration(c.Interval, DefaultPollInterval)
}

// ArchiveConfig selects where polled messages are stored. Empty values
// disable the matching sink.
type ArchiveConfig struct {
	SQLitePath string `yaml:"sqlite_path" env:"TELEBIND_ARCHIVE_SQLITE_PATH"`
	RedisAddr  string `yaml:"redis_addr" env:"TELEBIND_ARCHIVE_REDIS_ADDR"`
	RedisKey   string `yaml:"redis_key" env:"TELEBIND_ARCHIVE_REDIS_KEY"`
}

type Config struct {
	Log struct {
		Level string `yaml:"level" env:"TELEBIND_LOG_LEVEL"`
	} `yaml:"log"`
	Telegram TelegramConfig `yaml:"telegram"`
	Poll     PollConfig     `yaml:"poll"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Metrics  struct {
		ListenAddr string `yaml:"listen_addr" env:"TELEBIND_METRICS_LISTEN_ADDR"`
	} `yaml:"metrics"`
}

// Load loads configuration from the specified file path.
// It first loads the embedded default configuration, then merges the user config on top.
// Finally, it overrides values with environment variables.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			slog.Warn("config file not found, using defaults", "path", path)
		} else {
			expandedData := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expandedData, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			slog.Info("loaded user config", "path", path)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads the embedded default configuration.
func LoadDefault() (*Config, error) {
	return Load("")
}

// DefaultConfigBytes returns the raw embedded default configuration.
// Useful for generating example config files.
func DefaultConfigBytes() []byte {
	return defaultConfig
}

// Validate checks configuration for required fields and valid ranges.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.Token == "" {
		errs = append(errs, errors.New("telegram.token is required"))
	}
	if c.Telegram.APIURL != "" {
		if u, err := url.Parse(c.Telegram.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("telegram.api_url: must be an absolute URL, got %q", c.Telegram.APIURL))
		}
	}
	if c.Telegram.Offset < 0 {
		errs = append(errs, fmt.Errorf("telegram.offset must not be negative, got %d", c.Telegram.Offset))
	}

	durations := []struct {
		name  string
		value string
	}{
		{"telegram.timeout", c.Telegram.Timeout},
		{"poll.interval", c.Poll.Interval},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration format %q: %w", d.name, d.value, err))
			continue
		}
		if parsed <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.name, d.value))
		}
	}

	if c.Archive.RedisAddr != "" && c.Archive.RedisKey == "" {
		errs = append(errs, errors.New("archive.redis_key is required when archive.redis_addr is set"))
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: must be one of 'debug', 'info', 'warn', 'error', got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel maps log.level to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
