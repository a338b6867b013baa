package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration. Values come from defaults, then the
// YAML file named by RIDEFLEET_CONFIG, then environment variables.
type Config struct {
	Port int `yaml:"port"`

	// Storage: Postgres wins over SQLite; neither means in-memory.
	DatabaseURL string `yaml:"databaseUrl"`
	SQLitePath  string `yaml:"sqlitePath"`
	DBMigrate   bool   `yaml:"dbMigrate"`

	// Event fan-out
	RedisURL string `yaml:"redisUrl"`

	// Request limits
	RateRPS      float64 `yaml:"rateRps"`
	RateBurst    int     `yaml:"rateBurst"`
	MaxBodyBytes int64   `yaml:"maxBodyBytes"`

	// World limits for worlds submitted over HTTP
	MaxSteps    int `yaml:"maxSteps"`
	MaxVehicles int `yaml:"maxVehicles"`
}

func Default() *Config {
	return &Config{
		Port:         8080,
		DBMigrate:    true,
		RateRPS:      20,
		RateBurst:    40,
		MaxBodyBytes: 8 << 20,
		MaxSteps:     10_000_000,
		MaxVehicles:  10_000,
	}
}

// Load builds the effective configuration.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("RIDEFLEET_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("config: invalid port %d", cfg.Port)
	}
	if cfg.MaxSteps <= 0 || cfg.MaxVehicles <= 0 {
		return nil, fmt.Errorf("config: world limits must be positive (steps %d, vehicles %d)", cfg.MaxSteps, cfg.MaxVehicles)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	if v := os.Getenv("DB_MIGRATE"); v != "" {
		c.DBMigrate = !strings.EqualFold(v, "false")
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateRPS = f
		}
	}
	c.RateBurst = getEnvInt("RATE_BURST", c.RateBurst)
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxBodyBytes = n
		}
	}
	c.MaxSteps = getEnvInt("MAX_STEPS", c.MaxSteps)
	c.MaxVehicles = getEnvInt("MAX_VEHICLES", c.MaxVehicles)
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Public returns the configuration with secrets reduced to presence flags.
func (c *Config) Public() map[string]any {
	return map[string]any{
		"PORT":             c.Port,
		"DB_MIGRATE":       c.DBMigrate,
		"RATE_RPS":         c.RateRPS,
		"RATE_BURST":       c.RateBurst,
		"MAX_BODY_BYTES":   c.MaxBodyBytes,
		"MAX_STEPS":        c.MaxSteps,
		"MAX_VEHICLES":     c.MaxVehicles,
		"SQLITE_PATH":      c.SQLitePath,
		"HAS_DATABASE_URL": c.DatabaseURL != "",
		"HAS_REDIS_URL":    c.RedisURL != "",
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
