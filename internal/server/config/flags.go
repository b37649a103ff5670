package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/flagx"
)

// parseFlags overlays cfg with the flags listed in the package doc.
// It panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "a", "g", "d", "s", "t", "r", "l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "a", cfg.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address and port to run the gRPC health service")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	tokenTTL := fs.Int("t", int(cfg.TokenTTL.Hours()), "token validity (in hours)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenTTL = time.Duration(*tokenTTL) * time.Hour
}
