package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrNotConfigured is returned when no config file existed and a default one
// was written for the operator to edit.
var ErrNotConfigured = errors.New("config file was not present, a default one has been created")

// LoadFile merges the TOML config file at path into cfg. Fields named in
// overridden (flag names that were set explicitly on the command line) are
// left untouched so flags win over the file.
//
// If the file does not exist, a default file is written from cfg's current
// values and ErrNotConfigured is returned.
func LoadFile(path string, cfg *Config, overridden map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if werr := writeDefault(path, cfg); werr != nil {
				return werr
			}
			return fmt.Errorf("%w: %s", ErrNotConfigured, path)
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var file Config
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	apply := func(flagName string, dst *string, src string) {
		if src != "" && !overridden[flagName] {
			*dst = src
		}
	}
	apply("java", &cfg.JavaPath, file.JavaPath)
	apply("jar", &cfg.JarPath, file.JarPath)
	apply("xmx", &cfg.MaxMemory, file.MaxMemory)
	apply("xms", &cfg.MinMemory, file.MinMemory)
	apply("restart-time", &cfg.RestartTime, file.RestartTime)
	apply("metrics", &cfg.MetricsAddr, file.MetricsAddr)

	return nil
}

// writeDefault writes a starter config file from cfg's current values.
func writeDefault(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
