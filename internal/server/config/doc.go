// Package config loads runtime configuration for the ubadesk auth server.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (see the env tags on Config).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   HTTP bind address (e.g. ":5000")
//	-g string   gRPC health bind address ("" disables it)
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity (hours)
//	-r string   Redis address for the profile cache ("" disables it)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
//	{
//	  "http_addr": ":5000",
//	  "health_addr": ":50051",
//	  "database_dsn": "postgres://...",
//	  "secret_key": "...",
//	  "token_ttl": "720h",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_password": "",
//	  "redis_db": 0,
//	  "cache_ttl": "5m",
//	  "rate_limit_rps": 5,
//	  "rate_limit_burst": 10,
//	  "admin_email": "admin@example.com",
//	  "admin_password": "",
//	  "log_level": "info"
//	}
package config
