package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
)

var knownFlags = []string{"-a", "-t", "-d", "-s", "-r", "-l", "-i", "-p", "-log", "-log-level"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string      admin API base URL
//	-t int         request timeout (seconds)
//	-d string      local data directory
//	-s string      credential backend: sqlite|memory|redis
//	-r string      redis address
//	-l int         page size
//	-i int         online check interval (seconds)
//	-p string      purge cron schedule
//	-log string    log format: text|json|console
//	-log-level     debug|info|warn|error
//
// Only the flags above are considered (flagx.FilterArgs), so other components
// may parse their own. Parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "admin API base URL")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.CredentialBackend, "s", cfg.CredentialBackend, "credential backend (sqlite|memory|redis)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.IntVar(&cfg.PageLimit, "l", cfg.PageLimit, "page size")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.PurgeSchedule, "p", cfg.PurgeSchedule, "cron schedule for purging expired accounts")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format (text|json|console)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
