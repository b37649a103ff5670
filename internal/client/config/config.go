package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime settings for the ubadesk CLI.
type Config struct {
	ServerURL           string        `env:"UBA_SERVER_URL"`
	HealthAddr          string        `env:"UBA_HEALTH_ADDR"`
	DataDir             string        `env:"UBA_DATA_DIR"`
	RequestTimeout      time.Duration `env:"UBA_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"UBA_ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"UBA_LOG_LEVEL"`
}

// DatabaseFile is the name of the SQLite file inside DataDir.
const DatabaseFile = "session.db"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.HealthAddr = "127.0.0.1:50051"
	c.DataDir = "data"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "error"
}

// LoadConfig builds a Config from defaults, then JSON, environment and
// flags, later sources taking precedence. It panics on malformed input.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// parseEnv overlays variables that are set; unset ones keep earlier values.
func parseEnv(cfg *Config) {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		panic(err)
	}
}
