package config

import (
	"log"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env      string
	Port     string
	LogLevel string

	// Calendar used for "today", month buckets and day counts.
	Location *time.Location

	// Budget defaults
	DefaultWarningThreshold float64
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),
	}

	tz := getEnv("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: invalid TIMEZONE value '%s', falling back to Local\n", tz)
		loc = time.Local
	}
	config.Location = loc

	thresholdStr := getEnv("DEFAULT_WARNING_THRESHOLD", "0.8")
	threshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil || threshold < 0 || threshold > 1 {
		log.Printf("Warning: invalid DEFAULT_WARNING_THRESHOLD value '%s', falling back to 0.8\n", thresholdStr)
		threshold = 0.8
	}
	config.DefaultWarningThreshold = threshold

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Now returns the current time in the configured calendar.
func (c *Config) Now() time.Time {
	return time.Now().In(c.Location)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
