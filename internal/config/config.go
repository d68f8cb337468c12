// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Optional subsystems are
// feature-flagged by leaving their variables unset: an empty OmdbURL or
// OmdbAPIKey disables the movie details endpoint, an empty AMQPURL disables
// catalog event publishing.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	OmdbURL    string // external movie detail API base URL (optional)
	OmdbAPIKey string // external movie detail API key (optional)
	AMQPURL    string // RabbitMQ URL for catalog events (optional)

	BasicAuthUsers string // credential overrides "user:pass:ROLE|ROLE,..." (optional)
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values cause the program to exit.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		OmdbURL:        os.Getenv("OMDB_URL"),
		OmdbAPIKey:     os.Getenv("OMDB_API_KEY"),
		AMQPURL:        amqpURL(),
		BasicAuthUsers: os.Getenv("BASIC_AUTH_USERS"),
	}
}

// DetailsEnabled reports whether the external movie detail provider is
// configured. Both the URL and the API key are needed.
func (c Config) DetailsEnabled() bool {
	return c.OmdbURL != "" && c.OmdbAPIKey != ""
}

func amqpURL() string {
	if v := os.Getenv("AMQP_URL"); v != "" {
		return v
	}
	return os.Getenv("RABBITMQ_URL")
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
