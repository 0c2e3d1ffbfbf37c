package config

import (
	"fmt"
	"os"
)

type Config struct {
	// DaemonBinary is the chain daemon executable to shell out to
	DaemonBinary string

	// CacheDir holds one JSON file per cached contract deployment
	CacheDir string

	// LogLevel is one of debug/info/warn/error
	LogLevel string

	// MetricsAddr serves prometheus metrics when non-empty (e.g. ":9465")
	MetricsAddr string
}

// Load returns the harness configuration from environment variables
func Load() *Config {
	return &Config{
		DaemonBinary: getEnv("DAEMON_BINARY", "secretd"),
		CacheDir:     getEnv("CONTRACT_CACHE_DIR", "cached_contracts"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MetricsAddr:  getEnv("METRICS_ADDR", ""),
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.DaemonBinary == "" {
		return fmt.Errorf("DaemonBinary is required")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("CacheDir is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// Helper: get string from env
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
