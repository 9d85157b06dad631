package config

import (
	"os"
	"strconv"
	"time"
)

// AgentConfig holds configuration for the external interview agent service.
type AgentConfig struct {
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"-"` // Never serialize

	// Timeout bounds every agent call. Timeouts surface as a distinct error
	// so clients can present "please retry" instead of a generic failure.
	Timeout time.Duration `json:"timeout"`
}

// AgentConfigFromEnv reads the agent configuration from the environment.
func AgentConfigFromEnv() *AgentConfig {
	return &AgentConfig{
		BaseURL: os.Getenv("AGENT_BASE_URL"),
		APIKey:  os.Getenv("AGENT_API_KEY"),
		Timeout: time.Duration(getEnvInt("AGENT_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

// IsConfigured returns true if the agent endpoint is set.
func (c *AgentConfig) IsConfigured() bool {
	return c.BaseURL != ""
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
