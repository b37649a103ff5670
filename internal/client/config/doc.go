// Package config loads runtime configuration for the ubadesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables (UBA_* names, see the env tags on Config).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the auth API (e.g. http://127.0.0.1:5000)
//	-g string   host:port of the server's gRPC health endpoint ("" = use HTTP)
//	-d string   directory holding the local session database
//	-t int      per-request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Intervals use timex.Duration, so they accept "3s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "health_addr": "127.0.0.1:50051",
//	  "data_dir": "data",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "log_level": "error"
//	}
package config
