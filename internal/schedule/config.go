// Package schedule provides the HTTP client for the remote scheduling
// service, which owns events, availability overrides, and agent preferences.
package schedule

import (
	"os"
	"time"
)

// Config holds the configuration for scheduling service API access.
type Config struct {
	// BaseURL is the scheduling service API base URL
	BaseURL string

	// Token is the access token for API authentication
	Token string

	// AgentID identifies the agent whose calendar this service manages
	AgentID string

	// Timeout for API requests
	Timeout time.Duration
}

// DefaultConfig returns the default configuration, reading from environment variables.
func DefaultConfig() Config {
	return Config{
		BaseURL: getEnv("SCHEDULE_API_URL", "http://localhost:9080"),
		Token:   getEnv("SCHEDULE_API_TOKEN", ""),
		AgentID: getEnv("SCHEDULE_AGENT_ID", ""),
		Timeout: 30 * time.Second,
	}
}

// getEnv returns an environment variable value or a default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
