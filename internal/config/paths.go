package config

import (
	"os"
	"path/filepath"
)

// Environment variable names read by the CLI.
const (
	EnvConfig       = "DASHBOARD_CONFIG"
	EnvDashboardURL = "DASHBOARD_URL"
	EnvAPIKey       = "DASHBOARD_API_KEY"
	EnvTimeout      = "DASHBOARD_TIMEOUT"
	EnvUsername     = "DASHBOARD_USERNAME"
	EnvPassword     = "DASHBOARD_PASSWORD"
)

// Paths contains standard filesystem paths for the CLI.
type Paths struct {
	// ConfigFile is the path to the config file (~/.ai-dashboard/config.json).
	ConfigFile string

	// HomeDir is the CLI home directory (~/.ai-dashboard).
	HomeDir string
}

// DefaultPaths returns the default paths.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".ai-dashboard")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.json"),
		HomeDir:    home,
	}, nil
}

// GetConfigFile returns the config file path.
// If DASHBOARD_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
