package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
	"github.com/dmitrijs2005/adminconsole/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. timex.Duration accepts both "90m" strings and integer nanoseconds.
type JsonConfig struct {
	Addr          string         `json:"addr"`
	SecretKey     string         `json:"secret_key"`
	TokenTTL      timex.Duration `json:"token_ttl"`
	AdminEmail    string         `json:"admin_email"`
	AdminPassword string         `json:"admin_password"`
	Version       string         `json:"version"`
	NodeEnv       string         `json:"node_env"`
	LogFormat     string         `json:"log_format"`
	LogLevel      string         `json:"log_level"`
}

// parseJson loads values from the JSON file named by -c or -config into
// config. Without the flag nothing is loaded. Fields absent from the file keep
// their current values. Unreadable files and invalid JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Addr, c.Addr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.Version, c.Version)
	setString(&config.NodeEnv, c.NodeEnv)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
