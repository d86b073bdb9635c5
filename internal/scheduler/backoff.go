package scheduler

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig holds the configuration for crash-restart backoff.
type BackoffConfig struct {
	Initial    time.Duration // Initial delay (default: 2s)
	Max        time.Duration // Maximum delay (default: 2m)
	Multiplier float64       // Multiplier for each attempt (default: 1.7)
	JitterPct  float64       // Jitter as a fraction of delay (default: 0.4 = ±20%)
}

// DefaultBackoffConfig returns sensible defaults for crash restarts.
// A Minecraft server takes tens of seconds to boot, so the initial delay is
// larger than a typical service-restart backoff.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    2 * time.Second,
		Max:        2 * time.Minute,
		Multiplier: 1.7,
		JitterPct:  0.4,
	}
}

// Backoff calculates exponential backoff delays with jitter.
type Backoff struct {
	config   BackoffConfig
	attempts int
	rng      *rand.Rand
}

// NewBackoff creates a Backoff calculator seeded for non-deterministic jitter.
func NewBackoff(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = DefaultBackoffConfig().Initial
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = DefaultBackoffConfig().Multiplier
	}
	return &Backoff{
		config: cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next backoff delay and increments the attempt counter.
func (b *Backoff) Next() time.Duration {
	delay := b.Calculate()
	b.attempts++
	return delay
}

// Calculate returns the current backoff delay without incrementing attempts.
func (b *Backoff) Calculate() time.Duration {
	delay := float64(b.config.Initial) * math.Pow(b.config.Multiplier, float64(b.attempts))

	if delay > float64(b.config.Max) {
		delay = float64(b.config.Max)
	}

	if b.config.JitterPct > 0 {
		jitterRange := delay * b.config.JitterPct
		delay += jitterRange*b.rng.Float64() - jitterRange/2
	}

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// Reset resets the attempt counter to zero.
func (b *Backoff) Reset() {
	b.attempts = 0
}

// Attempts returns the current attempt count.
func (b *Backoff) Attempts() int {
	return b.attempts
}

// BackoffResetThreshold is the minimum uptime before backoff resets: a server
// that survived this long is considered to have booted successfully, so a
// later crash starts a fresh backoff sequence.
const BackoffResetThreshold = 5 * time.Minute

// ShouldReset determines if backoff should be reset based on uptime and exit
// code.
func ShouldReset(uptime time.Duration, exitCode int) bool {
	if uptime >= BackoffResetThreshold {
		return true
	}
	return exitCode == 0
}
