// Package config loads application configuration from the environment,
// with a best-effort .env bootstrap for local runs.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Addr     string
	Database DatabaseConfig
	Session  SessionConfig
}

// DatabaseConfig selects the catalog store backend.
type DatabaseConfig struct {
	Driver string // "sqlite" or "postgres"
	Path   string // SQLite database file path
	DSN    string // Postgres DSN, used when Driver is "postgres"
}

// SessionConfig selects the session store backend. An empty RedisAddr
// falls back to the in-process store.
type SessionConfig struct {
	RedisAddr string
	TTL       time.Duration
}

// Load reads configuration from environment variables with defaults that
// suit a local development run.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment:", err)
	}

	return &Config{
		Addr: getEnv("ADDR", ":8080"),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite"),
			Path:   getEnv("DB_PATH", "grocery_store.db"),
			DSN:    getEnv("DB_DSN", ""),
		},
		Session: SessionConfig{
			RedisAddr: getEnv("REDIS_ADDR", ""),
			TTL:       getEnvDuration("SESSION_TTL", 24*time.Hour),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("invalid duration for %s, using default: %v", key, err)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
