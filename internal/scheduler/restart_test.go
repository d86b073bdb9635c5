package scheduler

import (
	"testing"
	"time"
)

func TestNextRestart(t *testing.T) {
	now := time.Date(2026, 8, 23, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		restartAt string
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "later today",
			restartAt: "22:00",
			want:      time.Date(2026, 8, 23, 22, 0, 0, 0, time.Local),
		},
		{
			name:      "already passed rolls to tomorrow",
			restartAt: "09:30",
			want:      time.Date(2026, 8, 24, 9, 30, 0, 0, time.Local),
		},
		{
			name:      "exactly now rolls to tomorrow",
			restartAt: "10:00",
			want:      time.Date(2026, 8, 24, 10, 0, 0, 0, time.Local),
		},
		{
			name:      "midnight",
			restartAt: "00:00",
			want:      time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local),
		},
		{
			name:      "invalid hour",
			restartAt: "25:00",
			wantErr:   true,
		},
		{
			name:      "not a time",
			restartAt: "tea time",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRestart(now, tt.restartAt)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NextRestart(%q) succeeded, want error", tt.restartAt)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextRestart(%q): %v", tt.restartAt, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRestart(%q) = %v, want %v", tt.restartAt, got, tt.want)
			}
			if !got.After(now) {
				t.Errorf("NextRestart(%q) = %v, not after now %v", tt.restartAt, got, now)
			}
		})
	}
}

func TestWarnCommand(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{30 * time.Minute, "say 30 minutes until server restart"},
		{10 * time.Minute, "say 10 minutes until server restart"},
		{5 * time.Minute, "say 5 minutes until server restart"},
		{1 * time.Minute, "say 1 minutes until server restart"},
	}

	for _, tt := range tests {
		if got := warnCommand(tt.offset); got != tt.want {
			t.Errorf("warnCommand(%v) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestWarnOffsets_Descending(t *testing.T) {
	for i := 1; i < len(warnOffsets); i++ {
		if warnOffsets[i] >= warnOffsets[i-1] {
			t.Fatalf("warnOffsets not strictly descending at %d: %v", i, warnOffsets)
		}
	}
}
