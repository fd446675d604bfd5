// Package config provides configuration loading and management.
package config

import "time"

// Default values used when neither the config file, environment nor flags
// provide a value.
const (
	DefaultDashboardURL = "http://localhost:8000"
	DefaultTimeoutMS    = 5000
)

// Config is the persisted dashboard configuration.
// Loaded from ~/.ai-dashboard/config.json; environment variables override the file.
type Config struct {
	// DashboardURL is the base URL of the generated backend.
	// Env: DASHBOARD_URL, Default: http://localhost:8000
	DashboardURL string `json:"dashboard_url" mapstructure:"dashboard_url"`

	// APIKey is used as the bearer token when set; login is skipped.
	// Env: DASHBOARD_API_KEY
	APIKey string `json:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout is the per-request HTTP timeout in milliseconds.
	// Env: DASHBOARD_TIMEOUT, Default: 5000
	Timeout int `json:"timeout" mapstructure:"timeout"`

	// Username and Password are only ever read from the environment
	// (DASHBOARD_USERNAME, DASHBOARD_PASSWORD) and never persisted.
	Username string `json:"-" mapstructure:"-"`
	Password string `json:"-" mapstructure:"-"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		DashboardURL: DefaultDashboardURL,
		Timeout:      DefaultTimeoutMS,
	}
}

// TimeoutDuration returns Timeout as a time.Duration, falling back to the default.
func (c *Config) TimeoutDuration() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeoutMS * time.Millisecond
	}
	return time.Duration(c.Timeout) * time.Millisecond
}

// HasCredentials reports whether the dashboard can be authenticated against.
func (c *Config) HasCredentials() bool {
	if c == nil {
		return false
	}
	return c.APIKey != "" || (c.Username != "" && c.Password != "")
}
