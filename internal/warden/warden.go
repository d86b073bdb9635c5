// Package warden supervises a Minecraft server child process.
//
// A Warden owns the child process and its stdin/stdout pipes. The process
// handle and the two pipe endpoints are guarded by three independent locks so
// that waiting for exit, killing the process, injecting commands, and the two
// mirror loops never block one another.
package warden

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/mcwarden/go-mc-warden/internal/process"
)

// Warden is a handle for the server process, allowing mirroring of its
// console and injection of commands.
type Warden struct {
	logger *slog.Logger

	// Process handle, guarded independently of the pipes so Wait/Kill can
	// be issued concurrently with an active Run.
	procMu    sync.Mutex
	cmd       *exec.Cmd
	procState *os.ProcessState

	// Child stdin. The lock serializes the input mirror loop and Command
	// callers, guaranteeing line-atomic writes.
	stdinMu sync.Mutex
	stdin   io.WriteCloser

	// Child stdout. The lock is held by the output mirror loop for its
	// whole duration.
	stdoutMu sync.Mutex
	stdout   io.ReadCloser

	// Host-side stdio. Overridable in tests.
	hostIn  io.Reader
	hostOut io.Writer
}

// New builds the java command from cfg and spawns the server process with its
// stdin and stdout captured and its stderr inherited from the parent.
// A launch or pipe-capture failure is returned as a wrapped spawn error.
func New(cfg *process.JavaConfig, logger *slog.Logger) (*Warden, error) {
	if cfg == nil {
		cfg = process.DefaultJavaConfig()
	}
	runner := process.NewJavaRunner(cfg)
	cmd, err := runner.BuildCommand(context.Background())
	if err != nil {
		return nil, fmt.Errorf("spawn: build command: %w", err)
	}
	return Spawn(cmd, logger)
}

// Spawn starts an already-built command under a new Warden, capturing its
// stdin and stdout pipes. The command must not have been started.
func Spawn(cmd *exec.Cmd, logger *slog.Logger) (*Warden, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("spawn: capture stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("spawn: capture stdout: %w", err)
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", cmd.Path, err)
	}

	logger.Debug("server_spawned", "pid", cmd.Process.Pid, "path", cmd.Path)

	return &Warden{
		logger:  logger,
		cmd:     cmd,
		stdin:   stdin,
		stdout:  stdout,
		hostIn:  os.Stdin,
		hostOut: os.Stdout,
	}, nil
}

// Run mirrors the host's stdin to the child's stdin, and the child's stdout
// to the host's stdout and the sink. It returns once both loops have ended,
// or immediately with the first fatal I/O error (the surviving loop is not
// awaited in that case).
//
// End-of-stream and broken-pipe conditions end a loop cleanly and are not
// reported as errors; they are how a loop learns the far side has closed.
func (w *Warden) Run(sink ConsoleSink) error {
	if sink == nil {
		sink = NopSink{}
	}

	results := make(chan error, 2)
	go func() { results <- w.mirrorInput() }()
	go func() { results <- w.mirrorOutput(sink) }()

	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			return err
		}
	}
	return nil
}

// mirrorInput reads lines from the host's stdin and forwards the exact bytes
// to the child's stdin.
func (w *Warden) mirrorInput() error {
	r := bufio.NewReader(w.hostIn)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			w.stdinMu.Lock()
			_, werr := io.WriteString(w.stdin, line)
			w.stdinMu.Unlock()
			if werr != nil {
				if isClosedPipe(werr) {
					w.logger.Debug("input_mirror_done", "reason", "child stdin closed")
					return nil
				}
				return fmt.Errorf("write child stdin: %w", werr)
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			w.logger.Debug("input_mirror_done", "reason", "host stdin eof")
			return nil
		case errors.Is(err, syscall.EINTR):
			// Interrupted read, retry.
		default:
			return fmt.Errorf("read host stdin: %w", err)
		}
	}
}

// mirrorOutput reads lines from the child's stdout, writes the identical
// bytes to the host's stdout, and delivers each line (trailing terminator
// removed) to the sink.
//
// The output-channel lock is held until this loop returns; the sink runs
// between one read and the next, so a blocking sink delays delivery.
func (w *Warden) mirrorOutput(sink ConsoleSink) error {
	w.stdoutMu.Lock()
	defer w.stdoutMu.Unlock()

	r := bufio.NewReader(w.stdout)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if _, werr := io.WriteString(w.hostOut, line); werr != nil {
				return fmt.Errorf("write host stdout: %w", werr)
			}
			sink.OnConsoleLine(w, strings.TrimRight(line, "\r\n"))
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), isClosedPipe(err):
			w.logger.Debug("output_mirror_done", "reason", "child stdout closed")
			return nil
		case errors.Is(err, syscall.EINTR):
			// Interrupted read, retry.
		default:
			return fmt.Errorf("read child stdout: %w", err)
		}
	}
}

// Command trims the text and writes it with a single trailing newline to the
// child's stdin as one unbroken write. It may be called concurrently with the
// input mirror loop and with other Command callers.
func (w *Warden) Command(text string) error {
	line := append([]byte(strings.TrimSpace(text)), '\n')

	w.stdinMu.Lock()
	defer w.stdinMu.Unlock()
	if _, err := w.stdin.Write(line); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// Wait blocks until the server process exits and returns its exit code.
// It takes only the process-handle lock, so it can run concurrently with an
// active Run, and it does not touch the pipes (the output mirror keeps
// draining buffered lines after exit). Safe to call more than once.
func (w *Warden) Wait() (int, error) {
	w.procMu.Lock()
	defer w.procMu.Unlock()

	if w.procState != nil {
		return exitCode(w.procState), nil
	}

	ps, err := w.cmd.Process.Wait()
	if err != nil {
		return -1, fmt.Errorf("wait: %w", err)
	}
	w.procState = ps
	return exitCode(ps), nil
}

// Close releases the parent's ends of the child's pipes. A mirror loop
// blocked on the child's stdout observes this as a clean end-of-stream.
func (w *Warden) Close() error {
	w.stdin.Close()
	return w.stdout.Close()
}

// Kill force-terminates the server process.
func (w *Warden) Kill() error {
	w.procMu.Lock()
	defer w.procMu.Unlock()

	if w.cmd.Process == nil {
		return errors.New("kill: process not started")
	}
	if err := w.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill: %w", err)
	}
	return nil
}

// Pid returns the process ID of the server.
func (w *Warden) Pid() int {
	w.procMu.Lock()
	defer w.procMu.Unlock()
	if w.cmd.Process == nil {
		return 0
	}
	return w.cmd.Process.Pid
}

// isClosedPipe reports whether err is a broken-pipe or closed-file condition,
// the designed non-error signal that the far end of a pipe has closed.
func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}

// exitCode extracts an exit code from a ProcessState.
// Signal exits map to 128 + signal number.
func exitCode(ps *os.ProcessState) int {
	if status, ok := ps.Sys().(syscall.WaitStatus); ok {
		if status.Signaled() {
			return 128 + int(status.Signal())
		}
		return status.ExitStatus()
	}
	return ps.ExitCode()
}
