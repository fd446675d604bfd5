package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Loader reads and writes the config file.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("dashboard_url", DefaultDashboardURL)
	v.SetDefault("timeout", DefaultTimeoutMS)

	return &Loader{v: v}
}

// Load reads the config file at path. A missing file is not an error: the
// returned Config then holds defaults and found is false.
// Environment overrides are applied by Resolve, not here.
func (l *Loader) Load(path string) (cfg *Config, found bool, err error) {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return nil, false, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)

	if err := l.v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, false, fmt.Errorf("reading config file %s: %w", expandedPath, err)
			}
		}
	} else {
		found = true
	}

	cfg = &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, false, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, found, nil
}

// Save writes cfg to path as a whole-file JSON document.
// The parent directory is created with 0700 and the file with 0600,
// since the file may hold an API key.
func Save(path string, cfg *Config) error {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
