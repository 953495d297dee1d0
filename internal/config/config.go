package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/gobarber/internal/logging"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "gobarber.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config is the client configuration.
// Precedence: flags > environment > file > defaults.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type APIConfig struct {
	URL     string        `yaml:"url" env:"GOBARBER_API_URL"`
	Timeout time.Duration `yaml:"timeout" env:"GOBARBER_API_TIMEOUT"`
}

// StoreConfig selects the persistence backend. Options is driver specific and
// decoded with Options* helpers.
type StoreConfig struct {
	Driver  string         `yaml:"driver" env:"GOBARBER_STORE"`
	Path    string         `yaml:"path" env:"GOBARBER_STORE_PATH"`
	Options map[string]any `yaml:"options"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"GOBARBER_LOG_LEVEL"`
	Format string `yaml:"format" env:"GOBARBER_LOG_FORMAT"` // text or json
}

type SessionConfig struct {
	KeyPrefix    string `yaml:"key_prefix" env:"GOBARBER_KEY_PREFIX"`
	SingleFlight bool   `yaml:"single_flight" env:"GOBARBER_SINGLE_FLIGHT"`
}

type MetricsConfig struct {
	// Addr enables a Prometheus /metrics listener when set (e.g. ":2112").
	Addr string `yaml:"addr" env:"GOBARBER_METRICS_ADDR"`
}

// RedisOptions are the store.options of the redis driver.
type RedisOptions struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			URL:     "http://localhost:3333",
			Timeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   defaultStorePath(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Session: SessionConfig{
			KeyPrefix: "@gobarber:",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".gobarber", "storage.json")
	}
	return filepath.Join(home, ".gobarber", "storage.json")
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path means DefaultFile, which may be absent; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No file: defaults and environment only.
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.URL) == "" {
		return errors.New("api.url is required")
	}
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	case DriverFile, DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for the %s driver", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// RedisOptions decodes store.options for the redis driver.
func (s StoreConfig) RedisOptions() (RedisOptions, error) {
	opts := RedisOptions{Addr: "localhost:6379", Prefix: "gobarber:kv:"}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &opts,
	})
	if err != nil {
		return RedisOptions{}, err
	}
	if err := dec.Decode(s.Options); err != nil {
		return RedisOptions{}, fmt.Errorf("invalid redis options: %w", err)
	}
	if addr := os.Getenv("GOBARBER_REDIS_ADDR"); addr != "" {
		opts.Addr = addr
	}
	return opts, nil
}

// Logger builds the application logger described by the log block.
func (l LogConfig) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	if l.Format == "json" {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}
