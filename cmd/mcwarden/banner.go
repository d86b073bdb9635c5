package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/mcwarden/go-mc-warden/internal/config"
)

var (
	colorPrimary = lipgloss.Color("#10B981") // Green
	colorAccent  = lipgloss.Color("#F59E0B") // Amber
	colorError   = lipgloss.Color("#EF4444") // Red
	colorMuted   = lipgloss.Color("#9CA3AF") // Medium gray

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(12)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)
)

// printBanner prints the startup banner.
func printBanner(cfg *config.Config, version string) {
	rows := []string{
		titleStyle.Render("mcwarden "+version) + "  Minecraft server console warden",
		"",
		labelStyle.Render("Jar:") + cfg.JarPath,
		labelStyle.Render("Memory:") + fmt.Sprintf("-Xmx%s -Xms%s", cfg.MaxMemory, cfg.MinMemory),
	}
	if cfg.RestartTime != "" {
		rows = append(rows, labelStyle.Render("Restart:")+"daily at "+cfg.RestartTime)
	} else {
		rows = append(rows, labelStyle.Render("Restart:")+warnStyle.Render("crash-only (no schedule)"))
	}
	if cfg.MetricsAddr != "" {
		rows = append(rows, labelStyle.Render("Metrics:")+fmt.Sprintf("http://%s/metrics", cfg.MetricsAddr))
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, bannerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	fmt.Fprintln(os.Stderr)
}

// printError prints a styled fatal error to stderr.
func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+fmt.Sprintf(format, args...))
}
