// Package config loads the engine configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"gte=1,lte=65535"`
	LogLevel    string `validate:"oneof=DEBUG INFO WARN ERROR"`
	LogFormat   string `validate:"oneof=json text"`
	Environment string

	// Round economics
	HouseEdge     float64 `validate:"gt=0,lt=1"`
	MaxMultiplier float64 `validate:"gt=1"`
	MinStake      float64 `validate:"gt=0"`
	MaxStake      float64 `validate:"gtfield=MinStake"`
	MaxPlayers    int     `validate:"gte=1"`

	// Round cadence
	GrowthConstant time.Duration `validate:"gt=0"`
	TickInterval   time.Duration `validate:"gt=0"`
	Countdown      time.Duration `validate:"gt=0"`
	RoundPause     time.Duration `validate:"gte=0"`

	Currency    string `validate:"len=3"`
	HistorySize int    `validate:"gte=1"`

	// Postgres is optional: the engine runs fully in-memory without it.
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Environment: getEnv("ENVIRONMENT", "development"),
		Currency:    getEnv("CURRENCY", "USD"),
		DBUser:      getEnv("DB_USER", ""),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "fairengine"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.HouseEdge, err = getEnvFloat("HOUSE_EDGE", 0.01); err != nil {
		return nil, err
	}
	if cfg.MaxMultiplier, err = getEnvFloat("MAX_MULTIPLIER", 1_000_000); err != nil {
		return nil, err
	}
	if cfg.MinStake, err = getEnvFloat("MIN_STAKE", 0.01); err != nil {
		return nil, err
	}
	if cfg.MaxStake, err = getEnvFloat("MAX_STAKE", 10_000); err != nil {
		return nil, err
	}
	if cfg.MaxPlayers, err = getEnvInt("MAX_PLAYERS", 500); err != nil {
		return nil, err
	}
	if cfg.HistorySize, err = getEnvInt("HISTORY_SIZE", 100); err != nil {
		return nil, err
	}
	if cfg.GrowthConstant, err = getEnvDuration("GROWTH_CONSTANT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = getEnvDuration("TICK_INTERVAL", 100*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Countdown, err = getEnvDuration("COUNTDOWN", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RoundPause, err = getEnvDuration("ROUND_PAUSE", 3*time.Second); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DatabaseConfigured reports whether Postgres connection details were given.
func (c *Config) DatabaseConfigured() bool {
	return c.DBUser != ""
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return parsed, nil
}
