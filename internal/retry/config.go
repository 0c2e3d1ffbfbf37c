package retry

import (
	"os"
	"strconv"
	"time"
)

// Config holds retry configuration
type Config struct {
	Enabled    bool          // Enable/disable retry mechanism
	MaxRetries int           // Retries after the initial attempt
	Delay      time.Duration // Fixed delay between attempts
}

// LoadConfig loads retry configuration from environment variables.
// Defaults match the daemon's observed settling time: 20 retries,
// one second apart.
func LoadConfig() Config {
	return Config{
		Enabled:    getEnvAsBool("RETRY_ENABLED", true),
		MaxRetries: getEnvAsInt("RETRY_MAX_RETRIES", 20),
		Delay:      time.Duration(getEnvAsInt("RETRY_DELAY_MS", 1000)) * time.Millisecond,
	}
}

// Helper: get bool from env
func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// Helper: get int from env
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
