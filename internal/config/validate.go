package config

import (
	"fmt"
	"net"
	"regexp"
	"time"
)

// memoryPattern matches JVM memory sizes like "2g", "512m", "1024k".
var memoryPattern = regexp.MustCompile(`^\d+[kKmMgG]$`)

// Validate checks the configuration for errors.
// Returns the first error found, or nil if the config is valid.
func Validate(cfg *Config) error {
	if cfg.JarPath == "" {
		return fmt.Errorf("jar path is required")
	}
	if cfg.JavaPath == "" {
		return fmt.Errorf("java path is required")
	}

	if !memoryPattern.MatchString(cfg.MaxMemory) {
		return fmt.Errorf("invalid -xmx value %q (expected e.g. 2g, 512m)", cfg.MaxMemory)
	}
	if !memoryPattern.MatchString(cfg.MinMemory) {
		return fmt.Errorf("invalid -xms value %q (expected e.g. 2g, 512m)", cfg.MinMemory)
	}

	if cfg.RestartTime != "" {
		if _, err := time.Parse("15:04", cfg.RestartTime); err != nil {
			return fmt.Errorf("invalid -restart-time %q (expected HH:MM): %w", cfg.RestartTime, err)
		}
	}

	if cfg.MaxRestarts < 0 {
		return fmt.Errorf("-max-restarts must be >= 0, got %d", cfg.MaxRestarts)
	}
	if cfg.BackoffInitial <= 0 {
		return fmt.Errorf("-backoff-initial must be positive, got %v", cfg.BackoffInitial)
	}
	if cfg.BackoffMax < cfg.BackoffInitial {
		return fmt.Errorf("-backoff-max (%v) must be >= -backoff-initial (%v)", cfg.BackoffMax, cfg.BackoffInitial)
	}
	if cfg.BackoffMultiply < 1.0 {
		return fmt.Errorf("-backoff-multiply must be >= 1.0, got %v", cfg.BackoffMultiply)
	}

	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("invalid -metrics address %q: %w", cfg.MetricsAddr, err)
		}
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("invalid -log-format %q (expected json or text)", cfg.LogFormat)
	}

	return nil
}
