package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
	"github.com/dmitrijs2005/adminconsole/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-checked fields let a partial file override only what it names.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DataDir             string         `json:"data_dir"`
	CredentialBackend   string         `json:"credential_backend"`
	RedisAddr           string         `json:"redis_addr"`
	RedisDB             *int           `json:"redis_db"`
	RedisKeyPrefix      string         `json:"redis_key_prefix"`
	PageLimit           int            `json:"page_limit"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PurgeSchedule       string         `json:"purge_schedule"`
	LogFormat           string         `json:"log_format"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing happens. Read or decode errors
// panic; the caller is expected to fail fast on a broken config file.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.CredentialBackend, jc.CredentialBackend)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisKeyPrefix, jc.RedisKeyPrefix)
	setString(&cfg.PurgeSchedule, jc.PurgeSchedule)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.PageLimit > 0 {
		cfg.PageLimit = jc.PageLimit
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
