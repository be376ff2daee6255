package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/adminconsole/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   seeded admin email
//	-p string   seeded admin password
//	-n string   environment name reported by system info
//	-log string log format: console|json
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so -c/-config can coexist with them.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-u", "-p", "-n", "-log"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.AdminEmail, "u", config.AdminEmail, "admin email")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "admin password")
	fs.StringVar(&config.NodeEnv, "n", config.NodeEnv, "environment name")
	fs.StringVar(&config.LogFormat, "log", config.LogFormat, "log format (console|json)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
}
