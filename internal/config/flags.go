package config

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses command-line flags over the defaults and returns the
// Config plus the set of flag names that were given explicitly (used so that
// flags override the config file).
func ParseFlags() (*Config, map[string]bool, error) {
	cfg := DefaultConfig()

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `mcwarden - Minecraft server console warden

Launches the server, mirrors its console to this terminal, classifies console
events, and restarts the server on a daily schedule and after crashes.

Usage:
  mcwarden [flags]

Server:
`)
		printFlagCategory([]string{"config", "java", "jar", "xmx", "xms"})

		fmt.Fprintf(os.Stderr, "\nRestart Policy:\n")
		printFlagCategory([]string{"restart-time", "max-restarts", "backoff-initial", "backoff-max", "backoff-multiply"})

		fmt.Fprintf(os.Stderr, "\nObservability:\n")
		printFlagCategory([]string{"metrics", "v", "log-format"})

		fmt.Fprintf(os.Stderr, "\nDiagnostics:\n")
		printFlagCategory([]string{"print-cmd", "pause-on-exit"})

		fmt.Fprintf(os.Stderr, `
Examples:
  # Run with the config file in the working directory
  mcwarden

  # One-off run against a specific jar, restarting at 04:30 local time
  mcwarden -jar paper-1.17.1.jar -xmx 4g -xms 4g -restart-time 04:30

`)
	}

	// Server
	flag.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, `Config file path ("" = no config file)`)
	flag.StringVar(&cfg.JavaPath, "java", cfg.JavaPath, "Path to the java binary")
	flag.StringVar(&cfg.JarPath, "jar", cfg.JarPath, "Path to the server jar")
	flag.StringVar(&cfg.MaxMemory, "xmx", cfg.MaxMemory, "JVM maximum memory (-Xmx)")
	flag.StringVar(&cfg.MinMemory, "xms", cfg.MinMemory, "JVM minimum memory (-Xms)")

	// Restart policy
	flag.StringVar(&cfg.RestartTime, "restart-time", cfg.RestartTime, `Daily restart time, local "HH:MM" ("" = never)`)
	flag.IntVar(&cfg.MaxRestarts, "max-restarts", cfg.MaxRestarts, "Max crash restarts before giving up (0 = unlimited)")
	flag.DurationVar(&cfg.BackoffInitial, "backoff-initial", cfg.BackoffInitial, "Initial crash-restart delay")
	flag.DurationVar(&cfg.BackoffMax, "backoff-max", cfg.BackoffMax, "Maximum crash-restart delay")
	flag.Float64Var(&cfg.BackoffMultiply, "backoff-multiply", cfg.BackoffMultiply, "Crash-restart delay multiplier")

	// Observability
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, `Prometheus metrics address ("" = disabled)`)
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	// Diagnostics
	flag.BoolVar(&cfg.PrintCmd, "print-cmd", cfg.PrintCmd, "Print the java command and exit")
	flag.BoolVar(&cfg.PauseOnExit, "pause-on-exit", cfg.PauseOnExit, "Wait for enter before exiting")

	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	return cfg, set, nil
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(names []string) {
	flag.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s\n    \t%s", f.Name, f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "0s" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}
