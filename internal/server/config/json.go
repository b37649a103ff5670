package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ubadesk/internal/flagx"
	"github.com/dmitrijs2005/ubadesk/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "5m" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr       *string         `json:"http_addr"`
	HealthAddr     *string         `json:"health_addr"`
	DatabaseDSN    *string         `json:"database_dsn"`
	SecretKey      *string         `json:"secret_key"`
	TokenTTL       *timex.Duration `json:"token_ttl"`
	RedisAddr      *string         `json:"redis_addr"`
	RedisPassword  *string         `json:"redis_password"`
	RedisDB        *int            `json:"redis_db"`
	CacheTTL       *timex.Duration `json:"cache_ttl"`
	RateLimitRPS   *float64        `json:"rate_limit_rps"`
	RateLimitBurst *int            `json:"rate_limit_burst"`
	AdminEmail     *string         `json:"admin_email"`
	AdminPassword  *string         `json:"admin_password"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.HTTPAddr, jc.HTTPAddr)
	setString(&cfg.HealthAddr, jc.HealthAddr)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.AdminEmail, jc.AdminEmail)
	setString(&cfg.AdminPassword, jc.AdminPassword)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.TokenTTL != nil {
		cfg.TokenTTL = jc.TokenTTL.Duration
	}
	if jc.CacheTTL != nil {
		cfg.CacheTTL = jc.CacheTTL.Duration
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
	if jc.RateLimitRPS != nil {
		cfg.RateLimitRPS = *jc.RateLimitRPS
	}
	if jc.RateLimitBurst != nil {
		cfg.RateLimitBurst = *jc.RateLimitBurst
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
