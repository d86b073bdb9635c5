package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcwarden/go-mc-warden/internal/process"
	"github.com/mcwarden/go-mc-warden/internal/warden"
)

// stopGrace is how long a "stop" command gets before the process is killed.
const stopGrace = 30 * time.Second

// drainTimeout bounds how long runOnce waits for the mirror loops after the
// process has exited. The input mirror can stay blocked on host stdin
// indefinitely, so this wait is best-effort.
const drainTimeout = 2 * time.Second

// Callbacks contains optional callback functions for scheduler events.
type Callbacks struct {
	// OnStateChange is called when the server state changes.
	OnStateChange func(oldState, newState State)

	// OnStart is called when the server process starts.
	OnStart func(pid int)

	// OnExit is called when the server process exits.
	OnExit func(exitCode int, uptime time.Duration)

	// OnCrashRestart is called before a crash-restart attempt.
	OnCrashRestart func(attempt int, delay time.Duration)

	// OnScheduledRestart is called when a scheduled restart begins.
	OnScheduledRestart func()
}

// Config holds configuration for creating a new Scheduler.
type Config struct {
	Java        *process.JavaConfig
	RestartTime string // "HH:MM" local wall-clock; "" disables scheduled restarts
	MaxRestarts int    // 0 = unlimited crash restarts
	Backoff     BackoffConfig
	Sink        warden.ConsoleSink
	Logger      *slog.Logger
	Callbacks   Callbacks
}

// Scheduler owns the restart policy around a Warden: it spawns the server,
// warns players ahead of the daily restart, issues "stop", and restarts the
// process after a scheduled stop or a crash.
type Scheduler struct {
	java        *process.JavaConfig
	restartTime string
	maxRestarts int
	backoff     *Backoff
	sink        warden.ConsoleSink
	logger      *slog.Logger
	callbacks   Callbacks

	state   State
	stateMu sync.RWMutex

	crashes int
}

// New creates a new Scheduler with the given configuration.
func New(cfg Config) *Scheduler {
	sink := cfg.Sink
	if sink == nil {
		sink = warden.NopSink{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		java:        cfg.Java,
		restartTime: cfg.RestartTime,
		maxRestarts: cfg.MaxRestarts,
		backoff:     NewBackoff(cfg.Backoff),
		sink:        sink,
		logger:      logger,
		callbacks:   cfg.Callbacks,
		state:       StateCreated,
	}
}

// Run supervises the server until it terminates cleanly outside a scheduled
// restart, a fatal error occurs, the crash-restart limit is reached, or the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			s.setState(StateStopped)
			return ctx.Err()
		}

		if s.maxRestarts > 0 && s.crashes >= s.maxRestarts {
			s.setState(StateStopped)
			s.logger.Warn("max_restarts_reached", "restarts", s.crashes, "max", s.maxRestarts)
			return errors.New("max restarts reached")
		}

		scheduled, exitCode, uptime, err := s.runOnce(ctx)
		if ctx.Err() != nil {
			s.setState(StateStopped)
			return ctx.Err()
		}
		if err != nil {
			s.setState(StateStopped)
			return err
		}

		if scheduled {
			s.logger.Info("scheduled_restart", "exit_code", exitCode, "uptime", uptime.String())
			if cb := s.callbacks.OnScheduledRestart; cb != nil {
				cb()
			}
			s.backoff.Reset()
			continue
		}

		if exitCode == 0 {
			s.setState(StateStopped)
			s.logger.Info("server_terminated", "uptime", uptime.String())
			return nil
		}

		// Crash: restart with backoff.
		if ShouldReset(uptime, exitCode) {
			s.backoff.Reset()
		}
		delay := s.backoff.Next()
		s.crashes++

		if cb := s.callbacks.OnCrashRestart; cb != nil {
			cb(s.crashes, delay)
		}
		s.logger.Warn("server_crashed",
			"exit_code", exitCode,
			"uptime", uptime.String(),
			"attempt", s.crashes,
			"delay", delay.String(),
		)

		s.setState(StateBackoff)
		select {
		case <-ctx.Done():
			s.setState(StateStopped)
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// runOnce spawns the server and runs it until it exits. It reports whether
// the exit was a scheduled restart, the exit code, and the uptime.
func (s *Scheduler) runOnce(ctx context.Context) (scheduled bool, exitCode int, uptime time.Duration, err error) {
	s.setState(StateStarting)

	w, err := warden.New(s.java, s.logger)
	if err != nil {
		return false, 1, 0, err
	}
	defer w.Close()

	start := time.Now()
	s.setState(StateRunning)
	s.logger.Info("server_started", "pid", w.Pid())
	if cb := s.callbacks.OnStart; cb != nil {
		cb(w.Pid())
	}

	runDone := make(chan error, 1)
	go func() { runDone <- w.Run(s.sink) }()

	waitDone := make(chan int, 1)
	go func() {
		code, _ := w.Wait()
		waitDone <- code
	}()

	stop := make(chan struct{})
	var restartRequested atomic.Bool
	var superviseWg sync.WaitGroup
	superviseWg.Add(1)
	go func() {
		defer superviseWg.Done()
		s.supervise(ctx, w, stop, &restartRequested)
	}()

	var runErr error
	select {
	case exitCode = <-waitDone:
		// Process exited; give the output mirror a moment to drain. The
		// input mirror may stay blocked on host stdin, so don't wait for it.
		select {
		case runErr = <-runDone:
		case <-time.After(drainTimeout):
		}
	case runErr = <-runDone:
		if runErr != nil {
			// Fatal mirror error with the process still alive: bring the
			// server down before surfacing the error.
			s.shutdown(w)
		}
		exitCode = <-waitDone
	}
	close(stop)
	superviseWg.Wait()

	uptime = time.Since(start)
	s.logger.Info("server_exited", "exit_code", exitCode, "uptime", uptime.String())
	if cb := s.callbacks.OnExit; cb != nil {
		cb(exitCode, uptime)
	}

	return restartRequested.Load(), exitCode, uptime, runErr
}

// supervise waits out the restart schedule: it broadcasts countdown warnings,
// then requests the scheduled stop. It also reacts to context cancellation by
// shutting the server down. The stop channel is closed when the run ends for
// any other reason.
func (s *Scheduler) supervise(ctx context.Context, w *warden.Warden, stop <-chan struct{}, restartRequested *atomic.Bool) {
	if s.restartTime == "" {
		select {
		case <-stop:
		case <-ctx.Done():
			s.shutdown(w)
		}
		return
	}

	next, err := NextRestart(time.Now(), s.restartTime)
	if err != nil {
		// Validation should have rejected the config; run without a schedule.
		s.logger.Error("restart_schedule_invalid", "restart_time", s.restartTime, "error", err)
		next = time.Time{}
	}

	if !next.IsZero() {
		s.logger.Info("restart_scheduled",
			"at", next.Format(time.RFC3339),
			"remaining", time.Until(next).Round(time.Minute).String(),
		)
	}

	for _, offset := range warnOffsets {
		at := next.Add(-offset)
		if at.Before(time.Now()) {
			continue
		}
		switch s.waitUntil(ctx, stop, at) {
		case waitStopped:
			return
		case waitCancelled:
			s.shutdown(w)
			return
		case waitElapsed:
			if err := w.Command(warnCommand(offset)); err != nil {
				s.logger.Debug("restart_warning_failed", "error", err)
				return
			}
		}
	}

	switch s.waitUntil(ctx, stop, next) {
	case waitStopped:
		return
	case waitCancelled:
		s.shutdown(w)
		return
	case waitElapsed:
		restartRequested.Store(true)
		s.logger.Info("restart_stopping_server")
		if err := w.Command("stop"); err != nil {
			s.logger.Debug("restart_stop_failed", "error", err)
			return
		}
		w.Wait()
	}
}

type waitResult int

const (
	waitElapsed waitResult = iota
	waitStopped
	waitCancelled
)

// waitUntil sleeps until t, the stop channel closes, or the context is
// cancelled, whichever comes first.
func (s *Scheduler) waitUntil(ctx context.Context, stop <-chan struct{}, t time.Time) waitResult {
	d := time.Until(t)
	if d <= 0 {
		return waitElapsed
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return waitElapsed
	case <-stop:
		return waitStopped
	case <-ctx.Done():
		return waitCancelled
	}
}

// shutdown stops the server gracefully, killing it if the "stop" command does
// not bring it down within the grace period.
func (s *Scheduler) shutdown(w *warden.Warden) {
	if err := w.Command("stop"); err != nil {
		w.Kill()
		return
	}

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(stopGrace):
		s.logger.Warn("force_killing_server", "pid", w.Pid())
		w.Kill()
	}
}

// State returns the current state of the scheduler.
func (s *Scheduler) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Restarts returns the number of crash restarts that have occurred.
func (s *Scheduler) Restarts() int {
	return s.crashes
}

// setState updates the state and calls the callback if registered.
func (s *Scheduler) setState(newState State) {
	s.stateMu.Lock()
	oldState := s.state
	s.state = newState
	s.stateMu.Unlock()

	if s.callbacks.OnStateChange != nil && oldState != newState {
		s.callbacks.OnStateChange(oldState, newState)
	}
}
