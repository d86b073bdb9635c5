// Package config provides configuration management for go-mc-warden.
//
// Resolution order: built-in defaults, then the TOML config file, then
// command-line flags (flags win over the file).
package config

import "time"

// Config holds all configuration options for the warden.
type Config struct {
	// Config file
	ConfigPath string `toml:"-"`

	// Server process
	JavaPath  string `toml:"java-path"`
	JarPath   string `toml:"jar-path"`
	MaxMemory string `toml:"max-memory"`
	MinMemory string `toml:"min-memory"`

	// Scheduled restart, wall-clock "HH:MM" local time.
	RestartTime string `toml:"restart-time"`

	// Crash-restart policy
	MaxRestarts     int           `toml:"-"` // 0 = unlimited
	BackoffInitial  time.Duration `toml:"-"`
	BackoffMax      time.Duration `toml:"-"`
	BackoffMultiply float64       `toml:"-"`

	// Observability
	MetricsAddr string `toml:"metrics-addr"`
	Verbose     bool   `toml:"-"`
	LogFormat   string `toml:"-"` // json, text

	// Diagnostic modes
	PrintCmd    bool `toml:"-"`
	PauseOnExit bool `toml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ConfigPath: "mcwarden.toml",

		JavaPath:  "java",
		JarPath:   "minecraft_server.jar",
		MaxMemory: "2g",
		MinMemory: "2g",

		RestartTime: "22:00",

		MaxRestarts:     0, // Unlimited
		BackoffInitial:  2 * time.Second,
		BackoffMax:      2 * time.Minute,
		BackoffMultiply: 1.7,

		MetricsAddr: "0.0.0.0:17092",
		Verbose:     false,
		LogFormat:   "text",

		PauseOnExit: false,
	}
}
