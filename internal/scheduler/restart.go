package scheduler

import (
	"fmt"
	"time"
)

// warnOffsets are the lead times at which players are warned before a
// scheduled restart, in descending order.
var warnOffsets = []time.Duration{
	30 * time.Minute,
	10 * time.Minute,
	5 * time.Minute,
	1 * time.Minute,
}

// NextRestart returns the next occurrence of the wall-clock time restartAt
// ("HH:MM", in now's location) strictly after now. Today's occurrence if it
// is still ahead, otherwise tomorrow's.
func NextRestart(now time.Time, restartAt string) (time.Time, error) {
	at, err := time.Parse("15:04", restartAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse restart time %q: %w", restartAt, err)
	}

	next := time.Date(now.Year(), now.Month(), now.Day(),
		at.Hour(), at.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next, nil
}

// warnCommand is the console command broadcast to players ahead of a
// scheduled restart.
func warnCommand(offset time.Duration) string {
	return fmt.Sprintf("say %d minutes until server restart", int(offset.Minutes()))
}
