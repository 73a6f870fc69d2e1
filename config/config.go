package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings. It is read from the environment once at
// startup and never re-read while the service is running.
type Config struct {
	Host string
	Port string

	// ScraperKey gates the scrape endpoint. Empty means no key is required.
	ScraperKey string

	CacheTTL      time.Duration
	SweepInterval time.Duration

	// NavTimeout bounds how long a page navigation may take before it is
	// treated as failed. SettleDelay is the fixed wait after load for
	// client-side rendering to populate price content; it is a tunable
	// trade-off between latency and catching slow-rendering pages.
	NavTimeout  time.Duration
	SettleDelay time.Duration

	RateLimitEnabled bool
	RateLimitRPS     float64

	AllowedOrigins []string

	// BrowserBin overrides Chromium auto-detection when set.
	BrowserBin string
}

// Load reads the configuration from environment variables, applying defaults
func Load() *Config {
	return &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8080"),
		ScraperKey:       getEnv("SCRAPER_KEY", ""),
		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 900)) * time.Second,
		SweepInterval:    getEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),
		NavTimeout:       time.Duration(getEnvInt("NAV_TIMEOUT_MS", 35000)) * time.Millisecond,
		SettleDelay:      time.Duration(getEnvInt("SETTLE_DELAY_MS", 2000)) * time.Millisecond,
		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     getEnvFloat("RATE_LIMIT_RPS", 5),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		BrowserBin:       getEnv("BROWSER_BIN", ""),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
