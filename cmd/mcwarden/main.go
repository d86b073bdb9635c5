// Package main provides the mcwarden CLI entry point.
//
// mcwarden launches a Minecraft server, mirrors its console to the current
// terminal, classifies console events, and keeps the server alive through
// scheduled daily restarts and crash restarts.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcwarden/go-mc-warden/internal/config"
	"github.com/mcwarden/go-mc-warden/internal/logging"
	"github.com/mcwarden/go-mc-warden/internal/metrics"
	"github.com/mcwarden/go-mc-warden/internal/parser"
	"github.com/mcwarden/go-mc-warden/internal/process"
	"github.com/mcwarden/go-mc-warden/internal/scheduler"
	"github.com/mcwarden/go-mc-warden/internal/stats"
	"github.com/mcwarden/go-mc-warden/internal/warden"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/mcwarden
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("mcwarden %s\n", version)
			return 0
		}
	}

	cfg, setFlags, err := config.ParseFlags()
	if err != nil {
		printError("parsing flags: %v", err)
		return 1
	}

	logger := logging.New(cfg.LogFormat, "info", cfg.Verbose)
	logging.SetDefault(logger)

	if cfg.ConfigPath != "" {
		if err := config.LoadFile(cfg.ConfigPath, cfg, setFlags); err != nil {
			if errors.Is(err, config.ErrNotConfigured) {
				printError("%v", err)
				fmt.Fprintln(os.Stderr, "Edit it and run mcwarden again.")
				return pause(cfg, 1)
			}
			printError("%v", err)
			return pause(cfg, 1)
		}
	}

	if err := config.Validate(cfg); err != nil {
		printError("configuration: %v", err)
		return pause(cfg, 1)
	}

	javaCfg := &process.JavaConfig{
		JavaPath:  cfg.JavaPath,
		JarPath:   cfg.JarPath,
		MaxMemory: cfg.MaxMemory,
		MinMemory: cfg.MinMemory,
	}

	// Handle -print-cmd mode
	if cfg.PrintCmd {
		runner := process.NewJavaRunner(javaCfg)
		fmt.Println("# Java command that would be run:")
		fmt.Println()
		fmt.Println(runner.CommandString())
		return 0
	}

	logger.Info("starting",
		"version", version,
		"jar", cfg.JarPath,
		"restart_time", cfg.RestartTime,
		"metrics_addr", cfg.MetricsAddr,
	)

	printBanner(cfg, version)

	// Compiling the classifier tables takes a noticeable moment; do it before
	// the server starts spewing output.
	parser.Preload()

	tracker := stats.NewTracker()

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector = metrics.NewCollector(metrics.CollectorConfig{
			Version: version,
			JarPath: cfg.JarPath,
		})

		srv := metrics.NewServer(cfg.MetricsAddr, logger)
		if err := srv.Start(); err != nil {
			printError("metrics server: %v", err)
			return pause(cfg, 1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	sink := newEventSink(logger, tracker, collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if collector != nil {
		go tickUptime(ctx, collector)
	}

	var scheduledRestarts int
	sched := scheduler.New(scheduler.Config{
		Java:        javaCfg,
		RestartTime: cfg.RestartTime,
		MaxRestarts: cfg.MaxRestarts,
		Backoff: scheduler.BackoffConfig{
			Initial:    cfg.BackoffInitial,
			Max:        cfg.BackoffMax,
			Multiplier: cfg.BackoffMultiply,
			JitterPct:  scheduler.DefaultBackoffConfig().JitterPct,
		},
		Sink:   sink,
		Logger: logger,
		Callbacks: scheduler.Callbacks{
			OnStart: func(pid int) {
				if collector != nil {
					collector.ServerStarted()
				}
			},
			OnExit: func(exitCode int, uptime time.Duration) {
				if collector != nil {
					collector.RecordExit(exitCode, uptime)
				}
			},
			OnCrashRestart: func(attempt int, delay time.Duration) {
				if collector != nil {
					collector.ServerRestarted("crash")
				}
			},
			OnScheduledRestart: func() {
				scheduledRestarts++
				if collector != nil {
					collector.ServerRestarted("scheduled")
				}
			},
		},
	})

	start := time.Now()
	runErr := sched.Run(ctx)

	code := 0
	switch {
	case runErr == nil:
	case errors.Is(runErr, context.Canceled):
		logger.Info("interrupted")
	default:
		logger.Error("supervision_failed", "error", runErr)
		code = 1
	}

	fmt.Fprint(os.Stderr, stats.FormatExitSummary(tracker.Snapshot(), stats.SummaryConfig{
		Duration:          time.Since(start),
		MetricsAddr:       cfg.MetricsAddr,
		ServerStarts:      1 + scheduledRestarts + sched.Restarts(),
		CrashRestarts:     sched.Restarts(),
		ScheduledRestarts: scheduledRestarts,
	}))

	return pause(cfg, code)
}

// newEventSink builds the console sink that classifies each mirrored line and
// feeds the tracker, the metrics collector, and the debug log.
func newEventSink(logger *slog.Logger, tracker *stats.Tracker, collector *metrics.Collector) warden.ConsoleSink {
	return warden.SinkFunc(func(w *warden.Warden, line string) {
		tracker.ObserveLine()
		if collector != nil {
			collector.RecordLine()
		}

		ev := parser.Classify(line)
		if ev == nil {
			return
		}

		tracker.ObserveEvent(ev)
		if collector != nil {
			collector.RecordEvent(ev)
			collector.SetPlayersOnline(tracker.PlayersOnline())
		}

		switch ev.Type {
		case parser.EventDoneLoading:
			logger.Info("server_ready", "seconds", ev.Seconds)
		case parser.EventOverloaded:
			logger.Warn("server_overloaded", "ms_behind", ev.MsBehind, "ticks_behind", ev.TicksBehind)
		case parser.EventPlayerJoined:
			logger.Info("player_joined", "username", ev.Username, "online", tracker.PlayersOnline())
		case parser.EventPlayerLeft:
			logger.Info("player_left", "username", ev.Username, "online", tracker.PlayersOnline())
		case parser.EventPlayerDied:
			logger.Info("player_died", "death_message", ev.DeathMessage)
		default:
			logger.Debug("console_event", "type", ev.Type.String())
		}
	})
}

// tickUptime refreshes the uptime gauge while the supervisor runs.
func tickUptime(ctx context.Context, collector *metrics.Collector) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			collector.Tick()
		}
	}
}

// pause waits for enter before returning code when -pause-on-exit is set.
// Useful when the warden runs in a terminal window that closes on exit.
func pause(cfg *config.Config, code int) int {
	if !cfg.PauseOnExit {
		return code
	}
	fmt.Fprint(os.Stderr, "Press enter to exit...")
	bufio.NewReader(os.Stdin).ReadString('\n')
	return code
}
