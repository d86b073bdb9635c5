// Package stats accumulates console-event statistics over a supervision run.
//
// This file implements the Tracker, which counts classified events, follows
// the set of players currently online, and keeps a T-Digest of overload lag
// samples for percentile reporting in the exit summary.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/mcwarden/go-mc-warden/internal/parser"
)

// Tracker accumulates event statistics.
//
// Thread-safe: all methods can be called concurrently.
type Tracker struct {
	startTime time.Time

	// Line counts
	linesSeen  atomic.Int64
	eventsSeen atomic.Int64

	// Per-type event counts, indexed by parser.EventType.
	countsMu sync.Mutex
	counts   map[parser.EventType]int64

	// Players currently believed online, from join/leave events.
	playersMu sync.Mutex
	players   map[string]struct{}
	peak      int

	// Overload lag samples in milliseconds.
	lagDigest   *tdigest.TDigest
	lagDigestMu sync.Mutex // TDigest is not thread-safe
	lagMax      atomic.Int64
}

// NewTracker creates a Tracker with the clock started.
func NewTracker() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		counts:    make(map[parser.EventType]int64),
		players:   make(map[string]struct{}),
		lagDigest: tdigest.NewWithCompression(100), // ~100 centroids, ~10KB
	}
}

// ObserveLine records that a console line was seen, classified or not.
func (t *Tracker) ObserveLine() {
	t.linesSeen.Add(1)
}

// ObserveEvent records a classified event.
func (t *Tracker) ObserveEvent(ev *parser.Event) {
	if ev == nil {
		return
	}
	t.eventsSeen.Add(1)

	t.countsMu.Lock()
	t.counts[ev.Type]++
	t.countsMu.Unlock()

	switch ev.Type {
	case parser.EventPlayerJoined:
		t.playerJoined(ev.Username)
	case parser.EventPlayerLeft:
		t.playerLeft(ev.Username)
	case parser.EventOverloaded:
		t.observeLag(ev.MsBehind)
	}
}

func (t *Tracker) playerJoined(name string) {
	t.playersMu.Lock()
	t.players[name] = struct{}{}
	if len(t.players) > t.peak {
		t.peak = len(t.players)
	}
	t.playersMu.Unlock()
}

func (t *Tracker) playerLeft(name string) {
	t.playersMu.Lock()
	delete(t.players, name)
	t.playersMu.Unlock()
}

func (t *Tracker) observeLag(ms uint) {
	t.lagDigestMu.Lock()
	t.lagDigest.Add(float64(ms), 1)
	t.lagDigestMu.Unlock()

	for {
		old := t.lagMax.Load()
		if int64(ms) <= old {
			break
		}
		if t.lagMax.CompareAndSwap(old, int64(ms)) {
			break
		}
	}
}

// LinesSeen returns the total number of console lines observed.
func (t *Tracker) LinesSeen() int64 {
	return t.linesSeen.Load()
}

// EventsSeen returns the total number of classified events.
func (t *Tracker) EventsSeen() int64 {
	return t.eventsSeen.Load()
}

// Count returns the number of events observed for a type.
func (t *Tracker) Count(et parser.EventType) int64 {
	t.countsMu.Lock()
	defer t.countsMu.Unlock()
	return t.counts[et]
}

// PlayersOnline returns the number of players currently believed online.
func (t *Tracker) PlayersOnline() int {
	t.playersMu.Lock()
	defer t.playersMu.Unlock()
	return len(t.players)
}

// PeakPlayers returns the highest observed concurrent player count.
func (t *Tracker) PeakPlayers() int {
	t.playersMu.Lock()
	defer t.playersMu.Unlock()
	return t.peak
}

// LagQuantile returns the q-th quantile of overload lag in milliseconds,
// or 0 if no overload events were observed.
func (t *Tracker) LagQuantile(q float64) float64 {
	t.lagDigestMu.Lock()
	defer t.lagDigestMu.Unlock()
	v := t.lagDigest.Quantile(q)
	if v != v { // NaN when the digest is empty
		return 0
	}
	return v
}

// Elapsed returns the duration since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Snapshot computes a point-in-time Summary of all accumulated statistics.
// The returned struct is safe to use after the call returns.
func (t *Tracker) Snapshot() *Summary {
	s := &Summary{
		Timestamp: time.Now(),
		Duration:  t.Elapsed(),
		Lines:     t.linesSeen.Load(),
		Events:    t.eventsSeen.Load(),
		Counts:    make(map[parser.EventType]int64),
	}

	t.countsMu.Lock()
	for et, n := range t.counts {
		s.Counts[et] = n
	}
	t.countsMu.Unlock()

	t.playersMu.Lock()
	s.PlayersOnline = len(t.players)
	s.PeakPlayers = t.peak
	t.playersMu.Unlock()

	s.LagP50Ms = t.LagQuantile(0.50)
	s.LagP95Ms = t.LagQuantile(0.95)
	s.LagP99Ms = t.LagQuantile(0.99)
	s.LagMaxMs = t.lagMax.Load()

	return s
}
