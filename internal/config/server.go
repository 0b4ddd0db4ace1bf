// Package config provides configuration management for Opsdesk.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvDevelopment is the default local development environment.
	EnvDevelopment Environment = "development"
	// EnvStaging is the staging/pre-production environment.
	EnvStaging Environment = "staging"
	// EnvProduction is the production environment.
	EnvProduction Environment = "production"
)

// ServerConfig holds server-level configuration loaded from environment variables.
type ServerConfig struct {
	Environment       Environment
	ListenAddr        string        // address the HTTP server binds to (default: ":8080")
	DatabaseURL       string        // Postgres connection string
	CORSOrigins       []string      // allowed CORS origins, empty means same-origin only
	APIToken          string        // static bearer token; empty disables authentication
	RateLimitRequests int           // requests allowed per period, 0 disables limiting (default: 300)
	RateLimitPeriod   time.Duration // rate limit window (default: 1m)
	ShutdownTimeout   time.Duration // graceful shutdown deadline (default: 15s)
}

// LoadServerConfig reads server configuration from environment variables.
func LoadServerConfig() ServerConfig {
	env := Environment(os.Getenv("ENV"))
	switch env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// valid
	default:
		env = EnvDevelopment
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		listenAddr = ":" + port
	}

	rateLimitRequests := getEnvInt("RATE_LIMIT_REQUESTS", 300)
	if rateLimitRequests < 0 {
		rateLimitRequests = 300
	}

	return ServerConfig{
		Environment:       env,
		ListenAddr:        listenAddr,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		CORSOrigins:       splitList(os.Getenv("CORS_ORIGINS")),
		APIToken:          os.Getenv("API_TOKEN"),
		RateLimitRequests: rateLimitRequests,
		RateLimitPeriod:   getEnvDuration("RATE_LIMIT_PERIOD", time.Minute),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

// splitList parses a comma-separated environment value, dropping empty entries.
func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvInt reads an integer from an environment variable, returning the default if unset or invalid.
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration reads a duration from an environment variable, returning the default if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
