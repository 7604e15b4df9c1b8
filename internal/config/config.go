package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	JWTSecret   string
	TokenTTL    time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string // empty means stdout
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:freelancercms.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "devjwtsecretdevjwtsecretdevjwtse")
	cfg.TokenTTL = getDuration("TOKEN_TTL", 7*24*time.Hour)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	cfg.LogFile = os.Getenv("LOG_FILE")
	return cfg
}

// Production reports whether the app runs with production settings
// (secure cookies, long asset caches).
func (c Config) Production() bool { return c.Env == "production" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
