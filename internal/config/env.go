package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultEnvironment        = "development"
	defaultPort               = "8080"
	defaultHandshakeRateLimit = "30-M"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return &Config{
		JWTSecret:          jwtSecret,
		Environment:        getEnv("ENVIRONMENT", defaultEnvironment),
		Port:               getEnv("PORT", defaultPort),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		AllowedOrigins:     splitList(os.Getenv("ALLOWED_ORIGINS")),
		HandshakeRateLimit: getEnv("HANDSHAKE_RATE_LIMIT", defaultHandshakeRateLimit),
	}, nil
}

// reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// splits a comma separated list, dropping blanks
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
