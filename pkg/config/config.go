// Package config loads the job configuration from an optional YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Sternrassler/f1-etl/pkg/cache"
	"github.com/Sternrassler/f1-etl/pkg/client"
	"github.com/Sternrassler/f1-etl/pkg/logging"
	"github.com/Sternrassler/f1-etl/pkg/ratelimit"
	"github.com/Sternrassler/f1-etl/pkg/sink"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and by unparseable overrides.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults.
const (
	DefaultSeason   = "2025"
	DefaultPageSize = 100
	DefaultDBDriver = sink.DriverSQLite
	DefaultDBDSN    = "f1.db"
	DefaultCSVDir   = "f1_csv"
	DefaultMongoDB  = "f1"
	DefaultJobName  = "f1_etl"
)

type Config struct {
	Season    string   `yaml:"season"`
	PageSize  int      `yaml:"page_size"`
	Endpoints []string `yaml:"endpoints"`
	DocsDir   string   `yaml:"docs_dir"`

	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	CSV      CSVConfig      `yaml:"csv"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type APIConfig struct {
	BaseURL   string           `yaml:"base_url"`
	UserAgent string           `yaml:"user_agent"`
	Timeout   time.Duration    `yaml:"timeout"`
	RateLimit ratelimit.Policy `yaml:"rate_limit"`
}

// DatabaseConfig selects the table sink. An empty driver disables it.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// CSVConfig selects the CSV sink. An empty dir disables it.
type CSVConfig struct {
	Dir string `yaml:"dir"`
}

// MongoConfig enables the document sink when URI is set.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// CacheConfig enables the Redis page cache when RedisURL is set.
type CacheConfig struct {
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// MetricsConfig enables a Pushgateway push at the end of the run.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used without file or environment.
func Default() *Config {
	return &Config{
		Season:   DefaultSeason,
		PageSize: DefaultPageSize,
		API: APIConfig{
			BaseURL:   client.DefaultBaseURL,
			UserAgent: client.DefaultUserAgent,
			Timeout:   client.DefaultTimeout,
			RateLimit: ratelimit.DefaultPolicy(),
		},
		Database: DatabaseConfig{Driver: DefaultDBDriver, DSN: DefaultDBDSN},
		CSV:      CSVConfig{Dir: DefaultCSVDir},
		Mongo:    MongoConfig{Database: DefaultMongoDB},
		Cache:    CacheConfig{TTL: cache.DefaultTTL},
		Metrics:  MetricsConfig{Job: DefaultJobName},
		Log:      LogConfig{Level: string(logging.LevelInfo)},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. Unset or empty variables
// leave the field unchanged.
func (c *Config) ApplyEnv() error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	str("F1_SEASON", &c.Season)
	str("F1_BASE_URL", &c.API.BaseURL)
	str("F1_USER_AGENT", &c.API.UserAgent)
	str("F1_DOCS_DIR", &c.DocsDir)
	str("F1_CSV_DIR", &c.CSV.Dir)
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_DSN", &c.Database.DSN)
	str("MONGO_URI", &c.Mongo.URI)
	str("MONGO_DATABASE", &c.Mongo.Database)
	str("REDIS_URL", &c.Cache.RedisURL)
	str("PUSHGATEWAY_URL", &c.Metrics.PushgatewayURL)
	str("LOG_LEVEL", &c.Log.Level)

	if v := os.Getenv("F1_ENDPOINTS"); strings.TrimSpace(v) != "" {
		c.Endpoints = splitList(v)
	}

	if v := os.Getenv("F1_PAGE_SIZE"); v != "" {
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: F1_PAGE_SIZE=%q: %v", ErrInvalidConfig, v, err)
		}
		c.PageSize = n
	}
	if v := os.Getenv("F1_MAX_RETRIES"); v != "" {
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: F1_MAX_RETRIES=%q: %v", ErrInvalidConfig, v, err)
		}
		c.API.RateLimit.MaxRetries = n
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		b, err := cast.ToBoolE(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: LOG_PRETTY=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Log.Pretty = b
	}

	return nil
}

// Validate checks the configuration for values the job cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Season) == "" {
		problems = append(problems, "season is required")
	}
	if c.PageSize < 1 {
		problems = append(problems, fmt.Sprintf("page_size must be >= 1 (got %d)", c.PageSize))
	}
	if c.API.BaseURL == "" {
		problems = append(problems, "api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("api.timeout must be > 0 (got %s)", c.API.Timeout))
	}
	if err := c.API.RateLimit.Validate(); err != nil {
		problems = append(problems, "api.rate_limit: "+err.Error())
	}
	if c.Database.Driver != "" {
		if !lo.Contains(sink.Drivers(), c.Database.Driver) {
			problems = append(problems, fmt.Sprintf("database.driver %q is not one of %s",
				c.Database.Driver, strings.Join(sink.Drivers(), ", ")))
		}
		if c.Database.DSN == "" {
			problems = append(problems, "database.dsn is required when database.driver is set")
		}
	}
	if c.Cache.RedisURL != "" && c.Cache.TTL <= 0 {
		problems = append(problems, fmt.Sprintf("cache.ttl must be > 0 (got %s)", c.Cache.TTL))
	}
	if err := logging.ValidateLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ClientConfig derives the API client configuration.
func (c *Config) ClientConfig() client.Config {
	cc := client.DefaultConfig()
	cc.BaseURL = c.API.BaseURL
	cc.UserAgent = c.API.UserAgent
	cc.Timeout = c.API.Timeout
	cc.RateLimit = c.API.RateLimit
	cc.CacheTTL = c.Cache.TTL
	return cc
}

// LoggingConfig derives the logging configuration.
func (c *Config) LoggingConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = logging.LogLevel(strings.ToLower(strings.TrimSpace(c.Log.Level)))
	lc.Pretty = c.Log.Pretty
	return lc
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Compact(parts)
}
