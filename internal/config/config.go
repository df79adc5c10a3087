package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default quiet-hours window for reminder digests.
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Config holds the service configuration, sourced from environment variables
// (optionally loaded from a .env file).
type Config struct {
	// HTTPAddr is the listen address of the API server.
	HTTPAddr string
	// LogMode selects the logger encoder ("dev" or "prod").
	LogMode string
	// TelegramToken enables the reminder digest channel when set.
	TelegramToken string
	// NotificationStartHour and NotificationEndHour bound the hours during
	// which reminder digests may be sent.
	NotificationStartHour int
	NotificationEndHour   int
}

// Load reads configuration from the environment, after loading .env if one
// exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		LogMode:               getEnv("LOG_MODE", "dev"),
		TelegramToken:         os.Getenv("TELEGRAM_BOT_TOKEN"),
		NotificationStartHour: getEnvInt("NOTIFICATION_START_HOUR", DefaultNotificationStartHour),
		NotificationEndHour:   getEnvInt("NOTIFICATION_END_HOUR", DefaultNotificationEndHour),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
