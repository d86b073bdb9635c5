package scheduler

import (
	"testing"
	"time"
)

func TestBackoff_GrowthAndCap(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		Initial:    100 * time.Millisecond,
		Max:        300 * time.Millisecond,
		Multiplier: 2.0,
		JitterPct:  0, // Deterministic
	})

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond, // Capped
		300 * time.Millisecond,
	}
	for i, w := range want {
		if got := b.Next(); got != w {
			t.Errorf("attempt %d: delay = %v, want %v", i, got, w)
		}
	}
	if b.Attempts() != len(want) {
		t.Errorf("Attempts() = %d, want %d", b.Attempts(), len(want))
	}
}

func TestBackoff_Reset(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		Initial:    100 * time.Millisecond,
		Max:        1 * time.Second,
		Multiplier: 2.0,
		JitterPct:  0,
	})

	b.Next()
	b.Next()
	b.Reset()

	if b.Attempts() != 0 {
		t.Errorf("Attempts() after Reset = %d, want 0", b.Attempts())
	}
	if got := b.Calculate(); got != 100*time.Millisecond {
		t.Errorf("delay after Reset = %v, want 100ms", got)
	}
}

func TestBackoff_JitterBounds(t *testing.T) {
	b := NewBackoff(BackoffConfig{
		Initial:    1 * time.Second,
		Max:        1 * time.Second,
		Multiplier: 2.0,
		JitterPct:  0.4,
	})

	// Jitter is centered: delay stays within ±20% of the base.
	lo := 800 * time.Millisecond
	hi := 1200 * time.Millisecond
	for i := 0; i < 100; i++ {
		got := b.Calculate()
		if got < lo || got > hi {
			t.Fatalf("jittered delay %v outside [%v, %v]", got, lo, hi)
		}
	}
}

func TestBackoff_SanitizesConfig(t *testing.T) {
	b := NewBackoff(BackoffConfig{}) // All zero

	got := b.Calculate()
	if got <= 0 {
		t.Errorf("delay from zero config = %v, want > 0", got)
	}

	// Max below Initial gets raised to Initial.
	b = NewBackoff(BackoffConfig{
		Initial:    10 * time.Second,
		Max:        1 * time.Second,
		Multiplier: 2.0,
		JitterPct:  0,
	})
	for i := 0; i < 5; i++ {
		if got := b.Next(); got != 10*time.Second {
			t.Errorf("attempt %d: delay = %v, want 10s", i, got)
		}
	}
}

func TestShouldReset(t *testing.T) {
	tests := []struct {
		name     string
		uptime   time.Duration
		exitCode int
		want     bool
	}{
		{"long uptime", 6 * time.Minute, 1, true},
		{"exactly at threshold", BackoffResetThreshold, 1, true},
		{"short uptime clean exit", 1 * time.Minute, 0, true},
		{"short uptime crash", 1 * time.Minute, 1, false},
		{"instant crash", 0, 137, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldReset(tt.uptime, tt.exitCode); got != tt.want {
				t.Errorf("ShouldReset(%v, %d) = %v, want %v", tt.uptime, tt.exitCode, got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateBackoff, "backoff"},
		{StateStopped, "stopped"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_Predicates(t *testing.T) {
	active := []State{StateStarting, StateRunning, StateBackoff}
	for _, s := range active {
		if !s.IsActive() {
			t.Errorf("%v.IsActive() = false, want true", s)
		}
	}
	if StateCreated.IsActive() || StateStopped.IsActive() {
		t.Error("created/stopped should not be active")
	}
	if !StateStopped.IsTerminal() {
		t.Error("stopped should be terminal")
	}
	if StateRunning.IsTerminal() {
		t.Error("running should not be terminal")
	}
}
