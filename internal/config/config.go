package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// External salon API (the booking backend this service consumes).
	SalonAPIBaseURL string
	SalonAPITimeout time.Duration

	// Booking rules.
	BookingHorizonDays int
	MinSearchPhoneLen  int

	// Widget sessions.
	SessionTTL time.Duration

	// Per-IP rate limit on the public form endpoints.
	FormRatePerSecond float64
	FormBurst         int

	// Visitor preference store.
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	PrefsTTL      time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
		SalonAPIBaseURL:    getEnv("SALON_API_BASE_URL", "http://localhost:8000"),
		SalonAPITimeout:    getEnvAsDuration("SALON_API_TIMEOUT", 15*time.Second),
		BookingHorizonDays: getEnvAsInt("BOOKING_HORIZON_DAYS", 30),
		MinSearchPhoneLen:  getEnvAsInt("MIN_SEARCH_PHONE_LEN", 14),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		FormRatePerSecond:  getEnvAsFloat("FORM_RATE_PER_SECOND", 0.5),
		FormBurst:          getEnvAsInt("FORM_BURST", 5),
		RedisAddr:          getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),
		PrefsTTL:           getEnvAsDuration("PREFS_TTL", 0),
	}
}

func splitAndTrim(raw string) []string {
	if strings.TrimSpace(raw) == "" {
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

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
