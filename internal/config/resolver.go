package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aiimpact/tracker/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records the winning value for a key and what it shadowed.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolveOptions carries the raw inputs for resolution.
type ResolveOptions struct {
	// ConfigFlag is the --config flag value (empty if not set).
	ConfigFlag string

	// DashboardURLFlag is the --dashboard-url flag value (empty if not set).
	DashboardURLFlag string
}

// Resolved is the configuration after applying precedence
// flag > env > config file > default.
type Resolved struct {
	// Config is the merged configuration.
	Config *Config

	// ConfigPath is the config file that was consulted.
	ConfigPath string

	// ConfigFound reports whether ConfigPath existed.
	ConfigFound bool

	// Values lists every resolved key with its source, in display order.
	Values []ResolvedValue
}

// Resolve loads the config file and applies environment and flag overrides.
func Resolve(opts ResolveOptions) (*Resolved, error) {
	path := opts.ConfigFlag
	if path == "" {
		var err error
		path, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	fileCfg, found, err := NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	res := &Resolved{
		Config:      &Config{},
		ConfigPath:  path,
		ConfigFound: found,
	}

	fileOrDefault := func(fileValue, def string) (string, ConfigSource) {
		if found && fileValue != "" && fileValue != def {
			return fileValue, SourceConfig
		}
		return def, SourceDefault
	}

	urlBase, urlSrc := fileOrDefault(fileCfg.DashboardURL, DefaultDashboardURL)
	urlVal := resolveString("dashboard_url", opts.DashboardURLFlag, os.Getenv(EnvDashboardURL), urlBase, urlSrc)
	res.Config.DashboardURL = urlVal.Value
	res.Values = append(res.Values, urlVal)

	keySrc := SourceDefault
	if fileCfg.APIKey != "" {
		keySrc = SourceConfig
	}
	keyVal := resolveString("api_key", "", os.Getenv(EnvAPIKey), fileCfg.APIKey, keySrc)
	res.Config.APIKey = keyVal.Value
	keyVal.Value = redact(keyVal.Value)
	for src, v := range keyVal.Shadowed {
		keyVal.Shadowed[src] = redact(v)
	}
	res.Values = append(res.Values, keyVal)

	timeoutBase, timeoutSrc := fileOrDefault(strconv.Itoa(fileCfg.Timeout), strconv.Itoa(DefaultTimeoutMS))
	timeoutVal := resolveString("timeout", "", os.Getenv(EnvTimeout), timeoutBase, timeoutSrc)
	timeout, err := strconv.Atoi(timeoutVal.Value)
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %q from %s: must be a positive number of milliseconds", timeoutVal.Value, timeoutVal.Source)
	}
	res.Config.Timeout = timeout
	res.Values = append(res.Values, timeoutVal)

	res.Config.Username = os.Getenv(EnvUsername)
	res.Config.Password = os.Getenv(EnvPassword)

	return res, nil
}

// resolveString picks flag, then env, then the base value.
func resolveString(key, flagValue, envValue, base string, baseSource ConfigSource) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}

	switch {
	case flagValue != "":
		rv.Value, rv.Source = flagValue, SourceFlag
		if envValue != "" {
			rv.Shadowed[SourceEnv] = envValue
		}
		if base != "" {
			rv.Shadowed[baseSource] = base
		}
	case envValue != "":
		rv.Value, rv.Source = envValue, SourceEnv
		if base != "" {
			rv.Shadowed[baseSource] = base
		}
	default:
		rv.Value, rv.Source = base, baseSource
	}

	return rv
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
