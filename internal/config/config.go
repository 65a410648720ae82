// Package config handles configuration loading for the academia service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the academia service.
type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	JWTSecret       string
	JWTExpiry       time.Duration
	LoginRateLimit  int
	LoginRateWindow time.Duration
	AllowedOrigins  []string
	TrustedProxies  []string
	Port            string
	Environment     string
	LogLevel        string
	SwaggerHost     string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		DBHost:          GetEnv("DB_HOST", ""),
		DBPort:          GetEnv("DB_PORT", "5432"),
		DBUser:          GetEnv("DB_USER", ""),
		DBPassword:      GetEnv("DB_PASSWORD", ""),
		DBName:          GetEnv("DB_NAME", ""),
		DBSSLMode:       GetEnv("DB_SSLMODE", "disable"),
		RedisHost:       GetEnv("REDIS_HOST", ""),
		RedisPort:       GetEnv("REDIS_PORT", "6379"),
		RedisPassword:   GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		JWTExpiry:       parseDuration(GetEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		LoginRateLimit:  parseInt(GetEnv("LOGIN_RATE_LIMIT", "10"), 10),
		LoginRateWindow: parseDuration(GetEnv("LOGIN_RATE_WINDOW", "15m"), 15*time.Minute),
		AllowedOrigins:  parseList(GetEnv("ALLOWED_ORIGINS", "")),
		TrustedProxies:  parseList(GetEnv("TRUSTED_PROXIES", "")),
		Port:            GetEnv("PORT", "5001"),
		Environment:     GetEnv("ENVIRONMENT", "development"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		SwaggerHost:     GetEnv("SWAGGER_HOST", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error

	required := map[string]string{
		"DB_HOST":     c.DBHost,
		"DB_USER":     c.DBUser,
		"DB_PASSWORD": c.DBPassword,
		"DB_NAME":     c.DBName,
		"REDIS_HOST":  c.RedisHost,
		"JWT_SECRET":  c.JWTSecret,
	}
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "REDIS_HOST", "JWT_SECRET"} {
		if required[key] == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}

	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.LoginRateLimit <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_LIMIT must be positive"))
	}
	if c.LoginRateWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetEnv returns the value of key, or defaultValue when unset or empty.
func GetEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseInt(value string, defaultValue int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func parseList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
