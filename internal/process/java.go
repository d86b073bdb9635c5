// Package process builds executable commands for the supervised Minecraft
// server process.
package process

import (
	"context"
	"os/exec"
	"strings"
)

// JavaConfig holds configuration for launching the server JVM.
type JavaConfig struct {
	// JavaPath is the path to the java binary.
	JavaPath string

	// JarPath is the path to the server jar file.
	//
	// The server uses the current working directory as its own working
	// directory, which may cause surprises if JarPath points outside it.
	JarPath string

	// MaxMemory is the JVM -Xmx value, e.g. "2g" or "1024k".
	MaxMemory string

	// MinMemory is the JVM -Xms value, e.g. "2g" or "1024k".
	MinMemory string

	// ExtraArgs are additional JVM arguments inserted before -jar.
	ExtraArgs []string
}

// DefaultJavaConfig returns a JavaConfig with sensible defaults.
func DefaultJavaConfig() *JavaConfig {
	return &JavaConfig{
		JavaPath:  "java",
		JarPath:   "minecraft_server.jar",
		MaxMemory: "2g",
		MinMemory: "2g",
	}
}

// JavaRunner builds java commands for the server process.
type JavaRunner struct {
	config *JavaConfig
}

// NewJavaRunner creates a new runner with the given configuration.
// Zero-valued fields fall back to the defaults.
func NewJavaRunner(cfg *JavaConfig) *JavaRunner {
	def := DefaultJavaConfig()
	if cfg.JavaPath == "" {
		cfg.JavaPath = def.JavaPath
	}
	if cfg.JarPath == "" {
		cfg.JarPath = def.JarPath
	}
	if cfg.MaxMemory == "" {
		cfg.MaxMemory = def.MaxMemory
	}
	if cfg.MinMemory == "" {
		cfg.MinMemory = def.MinMemory
	}
	return &JavaRunner{config: cfg}
}

// Name returns "java".
func (r *JavaRunner) Name() string {
	return "java"
}

// BuildCommand creates an exec.Cmd for the server with all configured options.
func (r *JavaRunner) BuildCommand(ctx context.Context) (*exec.Cmd, error) {
	args := r.buildArgs()
	cmd := exec.CommandContext(ctx, r.config.JavaPath, args...)
	return cmd, nil
}

// buildArgs constructs the java command-line arguments:
//
//	java -Xmx<max> -Xms<min> [extra...] -jar <jar> nogui
func (r *JavaRunner) buildArgs() []string {
	args := []string{
		"-Xmx" + r.config.MaxMemory,
		"-Xms" + r.config.MinMemory,
	}
	args = append(args, r.config.ExtraArgs...)
	args = append(args, "-jar", r.config.JarPath, "nogui")
	return args
}

// Config returns the runner's configuration.
func (r *JavaRunner) Config() *JavaConfig {
	return r.config
}

// CommandString returns the command that would be executed (for diagnostics).
func (r *JavaRunner) CommandString() string {
	return r.config.JavaPath + " " + strings.Join(r.buildArgs(), " ")
}
