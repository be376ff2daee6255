package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// Environment variables understood by parseEnv.
const (
	EnvAPIBaseURL          = "ADMIN_API_BASE_URL"
	EnvRequestTimeout      = "ADMIN_REQUEST_TIMEOUT"
	EnvDataDir             = "ADMIN_DATA_DIR"
	EnvCredentialBackend   = "ADMIN_CREDENTIAL_BACKEND"
	EnvRedisAddr           = "ADMIN_REDIS_ADDR"
	EnvRedisDB             = "ADMIN_REDIS_DB"
	EnvRedisKeyPrefix      = "ADMIN_REDIS_PREFIX"
	EnvPageLimit           = "ADMIN_PAGE_LIMIT"
	EnvOnlineCheckInterval = "ADMIN_ONLINE_CHECK_INTERVAL"
	EnvPurgeSchedule       = "ADMIN_PURGE_SCHEDULE"
	EnvLogFormat           = "ADMIN_LOG_FORMAT"
	EnvLogLevel            = "ADMIN_LOG_LEVEL"
)

// parseEnv loads a dotenv file into the process environment (without
// overriding variables that are already set) and overlays ADMIN_* values.
//
// The file comes from -env; otherwise ./.env is used when present. An
// explicitly requested file that cannot be loaded panics, as do malformed
// numeric or duration values.
func parseEnv(cfg *Config) {
	loadDotenv(flagx.EnvFile(os.Args[1:]))

	if v, ok := lookup(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvRequestTimeout); ok {
		cfg.RequestTimeout = mustDuration(EnvRequestTimeout, v)
	}
	if v, ok := lookup(EnvDataDir); ok {
		cfg.DataDir = v
	}
	if v, ok := lookup(EnvCredentialBackend); ok {
		cfg.CredentialBackend = strings.ToLower(v)
	}
	if v, ok := lookup(EnvRedisAddr); ok {
		cfg.RedisAddr = v
	}
	if v, ok := lookup(EnvRedisDB); ok {
		cfg.RedisDB = mustInt(EnvRedisDB, v)
	}
	if v, ok := lookup(EnvRedisKeyPrefix); ok {
		cfg.RedisKeyPrefix = v
	}
	if v, ok := lookup(EnvPageLimit); ok {
		cfg.PageLimit = mustInt(EnvPageLimit, v)
	}
	if v, ok := lookup(EnvOnlineCheckInterval); ok {
		cfg.OnlineCheckInterval = mustDuration(EnvOnlineCheckInterval, v)
	}
	if v, ok := lookup(EnvPurgeSchedule); ok {
		cfg.PurgeSchedule = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
}

func loadDotenv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
		return
	}
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func mustInt(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return n
}

func mustDuration(key, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return d
}
