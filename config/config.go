package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	JWT       JWTConfig       `toml:"jwt"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Redis     RedisConfig     `toml:"redis"`
	Log       LogConfig       `toml:"log"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Port         string   `toml:"port"`
	Env          string   `toml:"env"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	CORSOrigin   string   `toml:"cors_origin"`
}

type DatabaseConfig struct {
	Driver          string   `toml:"driver"` // mysql | postgres | sqlite
	DSN             string   `toml:"dsn"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	ConnectAttempts uint     `toml:"connect_attempts"`
}

type JWTConfig struct {
	Secret string   `toml:"secret"`
	Expiry Duration `toml:"expiry"`
	Issuer string   `toml:"issuer"`
}

// CatalogConfig configures the TMDB provider. ReadToken (v4 bearer) wins over APIKey when both are set.
type CatalogConfig struct {
	BaseURL      string   `toml:"base_url"`
	ImageBaseURL string   `toml:"image_base_url"`
	APIKey       string   `toml:"api_key"`
	ReadToken    string   `toml:"read_token"`
	Timeout      Duration `toml:"timeout"`
	RequestsPerS float64  `toml:"requests_per_second"`
	CacheTTL     Duration `toml:"cache_ttl"`
}

// RedisConfig is optional; an empty URL disables the catalog cache.
type RedisConfig struct {
	URL string `toml:"url"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"` // text | json
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `toml:"requests_per_minute"`
	Burst             int `toml:"burst"`
}

// Duration lets TOML carry values like "15s" or "168h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

var (
	ErrMissingSecret = errors.New("jwt secret must be set in production")
	ErrUnknownDriver = errors.New("unknown database driver")
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Env:          "development",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
			CORSOrigin:   "http://localhost:5173",
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			DSN:             "watchlist:watchlist@tcp(localhost:3306)/watchlist?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: Duration{time.Hour},
			ConnectAttempts: 5,
		},
		JWT: JWTConfig{
			Secret: "change-me-in-production",
			Expiry: Duration{7 * 24 * time.Hour},
			Issuer: "watchlist",
		},
		Catalog: CatalogConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			Timeout:      Duration{10 * time.Second},
			RequestsPerS: 20,
			CacheTTL:     Duration{24 * time.Hour},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 100,
			Burst:             20,
		},
	}
}

// Load builds the config from defaults, then the TOML file at path (skipped when path is
// empty or missing), then .env and the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Env, "APP_ENV")
	setString(&c.Server.CORSOrigin, "CORS_ORIGIN")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.JWT.Secret, "JWT_SECRET")
	setString(&c.Catalog.APIKey, "TMDB_KEY")
	setString(&c.Catalog.ReadToken, "TMDB_READ_TOKEN")
	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Log.File, "LOG_FILE")
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRY: %w", err)
		}
		c.JWT.Expiry = Duration{d}
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
		}
		c.RateLimit.RequestsPerMinute = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) IsProduction() bool { return c.Server.Env == "production" }

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == Default().JWT.Secret) {
		return ErrMissingSecret
	}
	if c.JWT.Expiry.Duration <= 0 {
		return fmt.Errorf("jwt expiry must be positive")
	}
	return nil
}
