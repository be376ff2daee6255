package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Credential store backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the admin console.
type Config struct {
	// APIBaseURL is the root of the admin REST API, e.g. http://localhost:5000/api.
	APIBaseURL     string
	RequestTimeout time.Duration

	// DataDir holds the local SQLite credential database.
	DataDir           string
	CredentialBackend string
	RedisAddr         string
	RedisDB           int
	RedisKeyPrefix    string

	// PageLimit is the page size used by every collection screen.
	PageLimit int

	OnlineCheckInterval time.Duration

	// PurgeSchedule is a cron spec (seconds field first). Empty disables the
	// scheduled purge of expired accounts.
	PurgeSchedule string

	LogFormat string
	LogLevel  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 10 * time.Second
	c.DataDir = ".adminconsole"
	c.CredentialBackend = BackendSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.RedisKeyPrefix = "adminconsole:"
	c.PageLimit = 12
	c.OnlineCheckInterval = 5 * time.Second
	c.PurgeSchedule = ""
	c.LogFormat = "text"
	c.LogLevel = "info"
}

// Validate reports settings that would make the console unusable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	if c.PageLimit <= 0 {
		return errors.New("page limit must be positive")
	}
	switch c.CredentialBackend {
	case BackendSQLite, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown credential backend %q", c.CredentialBackend)
	}
	if c.RequestTimeout < 0 || c.OnlineCheckInterval < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (including a dotenv file) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
