package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only the flags owned by
// this package are parsed; it panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "a", "g", "d", "t", "i", "l")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth API")
	fs.StringVar(&cfg.HealthAddr, "g", cfg.HealthAddr, "address of the gRPC health endpoint")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "directory for the local session database")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
