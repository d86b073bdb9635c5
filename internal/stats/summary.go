// Package stats accumulates console-event statistics over a supervision run.
//
// This file implements the exit summary formatter which displays a run report
// at program exit.
package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/mcwarden/go-mc-warden/internal/parser"
)

// Summary is a snapshot of accumulated statistics.
type Summary struct {
	Timestamp time.Time
	Duration  time.Duration

	Lines  int64
	Events int64
	Counts map[parser.EventType]int64

	PlayersOnline int
	PeakPlayers   int

	// Overload lag percentiles in milliseconds.
	LagP50Ms float64
	LagP95Ms float64
	LagP99Ms float64
	LagMaxMs int64
}

// SummaryConfig holds run-level context for summary formatting.
type SummaryConfig struct {
	// Duration is the total run duration.
	Duration time.Duration

	// MetricsAddr is the Prometheus metrics endpoint address.
	MetricsAddr string

	// ServerStarts is the total number of server process starts.
	ServerStarts int

	// CrashRestarts is the number of crash restarts that occurred.
	CrashRestarts int

	// ScheduledRestarts is the number of scheduled restarts that occurred.
	ScheduledRestarts int
}

// FormatExitSummary formats accumulated stats for display at program exit.
func FormatExitSummary(s *Summary, cfg SummaryConfig) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("═══════════════════════════════════════════════════════════════\n")
	b.WriteString("                    mcwarden Exit Summary\n")
	b.WriteString("═══════════════════════════════════════════════════════════════\n\n")

	fmt.Fprintf(&b, "Run Duration:           %s\n", FormatDuration(cfg.Duration))
	fmt.Fprintf(&b, "Server Starts:          %d\n", cfg.ServerStarts)
	if cfg.ScheduledRestarts > 0 {
		fmt.Fprintf(&b, "Scheduled Restarts:     %d\n", cfg.ScheduledRestarts)
	}
	if cfg.CrashRestarts > 0 {
		fmt.Fprintf(&b, "Crash Restarts:         %d\n", cfg.CrashRestarts)
	}
	b.WriteString("\n")

	if s != nil {
		b.WriteString("───────────────────────────────────────────────────────────────\n")
		b.WriteString("                       Console Activity\n")
		b.WriteString("───────────────────────────────────────────────────────────────\n\n")

		fmt.Fprintf(&b, "  Lines Seen:           %s\n", FormatNumber(s.Lines))
		fmt.Fprintf(&b, "  Events Classified:    %s\n\n", FormatNumber(s.Events))

		fmt.Fprintf(&b, "  %-20s %10s\n", "Event", "Count")
		b.WriteString("  " + strings.Repeat("─", 31) + "\n")
		for et := parser.EventDoneLoading; et <= parser.EventPlayerLeft; et++ {
			if n := s.Counts[et]; n > 0 {
				fmt.Fprintf(&b, "  %-20s %10s\n", et.String(), FormatNumber(n))
			}
		}
		b.WriteString("\n")

		b.WriteString("───────────────────────────────────────────────────────────────\n")
		b.WriteString("                           Players\n")
		b.WriteString("───────────────────────────────────────────────────────────────\n\n")

		fmt.Fprintf(&b, "  Online at Exit:       %d\n", s.PlayersOnline)
		fmt.Fprintf(&b, "  Peak Concurrent:      %d\n\n", s.PeakPlayers)

		if s.Counts[parser.EventOverloaded] > 0 {
			b.WriteString("───────────────────────────────────────────────────────────────\n")
			b.WriteString("                        Overload Lag\n")
			b.WriteString("───────────────────────────────────────────────────────────────\n\n")

			fmt.Fprintf(&b, "  P50 (median):         %.0f ms\n", s.LagP50Ms)
			fmt.Fprintf(&b, "  P95:                  %.0f ms\n", s.LagP95Ms)
			fmt.Fprintf(&b, "  P99:                  %.0f ms\n", s.LagP99Ms)
			fmt.Fprintf(&b, "  Max:                  %d ms\n\n", s.LagMaxMs)
		}
	}

	if cfg.MetricsAddr != "" {
		fmt.Fprintf(&b, "Metrics endpoint was: http://%s/metrics\n", cfg.MetricsAddr)
	}

	b.WriteString("═══════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatDuration formats a duration as HH:MM:SS.
func FormatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatNumber formats a number with K/M suffixes for readability.
func FormatNumber(n int64) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}
