package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/unidash/unidash-api/internal/policy"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	JWTSecret       string
	CatalogCacheTTL time.Duration
	BatchLookback   int
	YearOffset      int
	MaxCASlots      int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Policy returns the batch policy constants configured for this deployment.
func (c Config) Policy() policy.Config {
	return policy.Config{
		LookbackWindow: c.BatchLookback,
		YearOffset:     c.YearOffset,
		MaxCASlots:     c.MaxCASlots,
	}
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("UNIDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "UniDash API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("catalog.cache_ttl", "5m")
	v.SetDefault("batch.lookback", 3)
	v.SetDefault("batch.year_offset", 25)
	v.SetDefault("batch.max_ca_slots", 2)

	ttlString := v.GetString("catalog.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		CatalogCacheTTL: ttl,
		BatchLookback:   v.GetInt("batch.lookback"),
		YearOffset:      v.GetInt("batch.year_offset"),
		MaxCASlots:      v.GetInt("batch.max_ca_slots"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.BatchLookback < 0 {
		cfg.BatchLookback = 3
	}

	if cfg.YearOffset <= 0 {
		cfg.YearOffset = 25
	}

	if cfg.MaxCASlots <= 0 {
		cfg.MaxCASlots = 2
	}

	return cfg, nil
}
