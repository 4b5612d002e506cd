// Package config loads the project configuration (phlint.toml, falling
// back to .phlint.yaml) through viper, and exposes the ignore-pattern,
// self-check, and host-stub knobs CLI flags can then override.
package config

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config is the merged project configuration: file-backed defaults,
// overridable by CLI flags (the caller applies overrides after Load
// returns, matching viper's BindPFlag precedence).
type Config struct {
	IgnoreFilePrefixes []string `mapstructure:"ignore_file_prefixes" toml:"ignore_file_prefixes"`
	IgnoreGlobs        []string `mapstructure:"ignore_globs" toml:"ignore_globs"`
	SelfCheck          bool     `mapstructure:"self_check" toml:"self_check"`
	HostStubPath       string   `mapstructure:"host_stub_path" toml:"host_stub_path"`
}

// Default returns the zero-configuration defaults used when no config
// file is found.
func Default() Config {
	return Config{}
}

// Load reads phlint.toml (or, failing that, .phlint.yaml) from cwd and
// any explicitly-supplied path, registering a config name, type, and
// search path with viper before calling ReadInConfig. A missing config
// file is not an error — Default() is returned instead.
func Load(explicitPath string) (Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("phlint")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if explicitPath != "" {
			return Config{}, err
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return tryYAML()
		}
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// tryYAML falls back to .phlint.yaml when no phlint.toml exists, using
// viper's yaml decoder directly (go-toml/v2 only parses TOML).
func tryYAML() (Config, error) {
	v := viper.New()
	v.SetConfigName(".phlint")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return Default(), nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MarshalTOML renders cfg back to TOML text — used by WriteDefault and
// by tests that round-trip a Config through go-toml/v2 directly rather
// than through viper's file-search machinery.
func MarshalTOML(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// WriteDefault writes a starter phlint.toml to path unless one already
// exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := MarshalTOML(Config{IgnoreFilePrefixes: []string{"_"}})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// IsIgnored reports whether path should be skipped, via
// --ignore-file-prefix (checked against the base filename) or a full
// doublestar glob pattern in IgnoreGlobs.
func (c Config) IsIgnored(path string) bool {
	base := path
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		base = path[idx+1:]
	}
	for _, prefix := range c.IgnoreFilePrefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	for _, pattern := range c.IgnoreGlobs {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if matched, err := doublestar.PathMatch(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// Merge layers override on top of c: any non-zero field in override
// wins, matching the flags-beat-config precedence and
// describe.
func (c Config) Merge(override Config) Config {
	merged := c
	if len(override.IgnoreFilePrefixes) > 0 {
		merged.IgnoreFilePrefixes = override.IgnoreFilePrefixes
	}
	if len(override.IgnoreGlobs) > 0 {
		merged.IgnoreGlobs = override.IgnoreGlobs
	}
	if override.SelfCheck {
		merged.SelfCheck = true
	}
	if override.HostStubPath != "" {
		merged.HostStubPath = override.HostStubPath
	}
	return merged
}
