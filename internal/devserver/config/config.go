// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: bind address for the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty means a random
//     key is generated at startup, which invalidates tokens across restarts.
//   - TokenTTL: access token lifetime.
//   - AdminEmail / AdminPassword: the seeded administrator credential.
//   - Version / NodeEnv: values reported by the system info route.
//   - LogFormat / LogLevel: zerolog output settings.
type Config struct {
	Addr          string
	SecretKey     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
	Version       string
	NodeEnv       string
	LogFormat     string
	LogLevel      string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.SecretKey = ""
	c.TokenTTL = 60 * time.Minute
	c.AdminEmail = "admin@admin.com"
	c.AdminPassword = "admin123"
	c.Version = "1.0.0"
	c.NodeEnv = "development"
	c.LogFormat = "console"
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
