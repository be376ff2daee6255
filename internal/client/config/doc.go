// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: a dotenv file (-env, or ./.env when present) loaded with
//     godotenv, then ADMIN_* variables.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "request_timeout": "10s",
//	  "credential_backend": "sqlite",
//	  "data_dir": ".adminconsole",
//	  "page_limit": 12,
//	  "purge_schedule": "0 0 3 * * *"
//	}
package config
