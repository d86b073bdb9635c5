// Package metrics provides Prometheus metrics for mcwarden.
//
// All metrics are aggregate and low cardinality: one supervised server, with
// event counters labelled by the classified event type.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcwarden/go-mc-warden/internal/parser"
)

// --- Panel 1: Supervisor Overview ---
var (
	wardenInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcwarden_info",
			Help: "Information about the supervisor (value always 1)",
		},
		[]string{"version", "jar"},
	)

	wardenServerUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcwarden_server_up",
			Help: "Whether the server process is currently running (0 or 1)",
		},
	)

	wardenUptimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcwarden_server_uptime_seconds",
			Help: "Seconds since the current server process started",
		},
	)
)

// --- Panel 2: Console Events ---
var (
	wardenConsoleLinesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcwarden_console_lines_total",
			Help: "Total console lines observed",
		},
	)

	wardenEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcwarden_events_total",
			Help: "Classified console events by type",
		},
		[]string{"type"},
	)

	wardenPlayersOnline = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcwarden_players_online",
			Help: "Players currently online, from join/leave events",
		},
	)

	wardenOverloadMsBehind = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mcwarden_overload_ms_behind",
			Help:    "Milliseconds the server tick loop reported falling behind",
			Buckets: []float64{2000, 3000, 5000, 10000, 30000, 60000, 120000},
		},
	)
)

// --- Panel 3: Lifecycle ---
var (
	wardenServerStartsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcwarden_server_starts_total",
			Help: "Total server process starts",
		},
	)

	wardenServerRestartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcwarden_server_restarts_total",
			Help: "Server restarts by reason",
		},
		[]string{"reason"}, // "scheduled" | "crash"
	)

	wardenServerExitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcwarden_server_exits_total",
			Help: "Server exits by exit code category",
		},
		[]string{"category"}, // "success", "error", "signal"
	)

	wardenRunUptimeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mcwarden_run_uptime_seconds",
			Help:    "Server process uptime per run",
			Buckets: []float64{1, 5, 30, 60, 300, 600, 1800, 3600, 7200, 43200, 86400},
		},
	)

	wardenCommandsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcwarden_commands_sent_total",
			Help: "Console commands injected by the supervisor",
		},
	)
)

// Collector manages all Prometheus metrics for the supervisor.
type Collector struct {
	startTime time.Time

	mu        sync.Mutex
	runStart  time.Time
	starts    int64
	restarts  int64
	exitCodes map[int]int64
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Version string
	JarPath string
}

// NewCollector creates a new metrics collector on the default registry.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{
		startTime: time.Now(),
		exitCodes: make(map[int]int64),
	}

	registry.MustRegister(
		// Panel 1: Supervisor Overview
		wardenInfo,
		wardenServerUp,
		wardenUptimeSeconds,

		// Panel 2: Console Events
		wardenConsoleLinesTotal,
		wardenEventsTotal,
		wardenPlayersOnline,
		wardenOverloadMsBehind,

		// Panel 3: Lifecycle
		wardenServerStartsTotal,
		wardenServerRestartsTotal,
		wardenServerExitsTotal,
		wardenRunUptimeSeconds,
		wardenCommandsSentTotal,
	)

	wardenInfo.WithLabelValues(cfg.Version, cfg.JarPath).Set(1)

	return c
}

// RecordLine records that a console line was observed.
func (c *Collector) RecordLine() {
	wardenConsoleLinesTotal.Inc()
}

// RecordEvent records a classified console event.
func (c *Collector) RecordEvent(ev *parser.Event) {
	if ev == nil {
		return
	}
	wardenEventsTotal.WithLabelValues(ev.Type.String()).Inc()

	if ev.Type == parser.EventOverloaded {
		wardenOverloadMsBehind.Observe(float64(ev.MsBehind))
	}
}

// SetPlayersOnline updates the online player gauge.
func (c *Collector) SetPlayersOnline(n int) {
	wardenPlayersOnline.Set(float64(n))
}

// RecordCommand records a console command injected by the supervisor.
func (c *Collector) RecordCommand() {
	wardenCommandsSentTotal.Inc()
}

// ServerStarted records a server process start.
func (c *Collector) ServerStarted() {
	wardenServerStartsTotal.Inc()
	wardenServerUp.Set(1)

	c.mu.Lock()
	c.starts++
	c.runStart = time.Now()
	c.mu.Unlock()
}

// ServerRestarted records a restart by reason ("scheduled" or "crash").
func (c *Collector) ServerRestarted(reason string) {
	wardenServerRestartsTotal.WithLabelValues(reason).Inc()

	c.mu.Lock()
	c.restarts++
	c.mu.Unlock()
}

// RecordExit records a server process exit.
func (c *Collector) RecordExit(exitCode int, uptime time.Duration) {
	category := "error"
	if exitCode == 0 {
		category = "success"
	} else if exitCode > 128 {
		category = "signal"
	}
	wardenServerExitsTotal.WithLabelValues(category).Inc()
	wardenRunUptimeSeconds.Observe(uptime.Seconds())
	wardenServerUp.Set(0)
	wardenPlayersOnline.Set(0)

	c.mu.Lock()
	c.exitCodes[exitCode]++
	c.mu.Unlock()
}

// Tick refreshes the uptime gauge. Call periodically while the server runs.
func (c *Collector) Tick() {
	c.mu.Lock()
	start := c.runStart
	c.mu.Unlock()

	if start.IsZero() {
		wardenUptimeSeconds.Set(0)
		return
	}
	wardenUptimeSeconds.Set(time.Since(start).Seconds())
}

// TotalStarts returns the total number of server starts.
func (c *Collector) TotalStarts() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

// TotalRestarts returns the total number of restarts.
func (c *Collector) TotalRestarts() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restarts
}

// ExitCodes returns a copy of the observed exit code counts.
func (c *Collector) ExitCodes() map[int]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[int]int64, len(c.exitCodes))
	for code, n := range c.exitCodes {
		out[code] = n
	}
	return out
}
