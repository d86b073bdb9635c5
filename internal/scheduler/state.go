// Package scheduler drives the server across runs: scheduled daily restarts
// with countdown warnings, and crash restarts with exponential backoff.
package scheduler

// State represents the current state of the supervised server.
type State int

const (
	// StateCreated is the initial state before the server has started.
	StateCreated State = iota

	// StateStarting indicates the server process is being spawned.
	StateStarting

	// StateRunning indicates the server is actively running.
	StateRunning

	// StateBackoff indicates the scheduler is waiting before a crash restart.
	StateBackoff

	// StateStopped indicates the server has been permanently stopped.
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateBackoff:
		return "backoff"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsActive returns true if the state represents a live or restarting server.
func (s State) IsActive() bool {
	return s == StateStarting || s == StateRunning || s == StateBackoff
}

// IsTerminal returns true if the state is a terminal state.
func (s State) IsTerminal() bool {
	return s == StateStopped
}
