package parser

import (
	"fmt"
	"sync"
	"testing"
)

const (
	shortPrefix = "[09:58:23] [Server thread/INFO]:"
	warnShort   = "[09:58:23] [Server thread/WARN]:"
	longPrefix  = "[23Aug2026 09:58:23.123] [Server thread/INFO] [net.minecraft.server]:"
	chatAsync   = "[09:58:23] [Async Chat Thread - #0/INFO]:"
)

func TestClassify_DoneLoading(t *testing.T) {
	ev := Classify(shortPrefix + ` Done (12.345s)! For help, type "help"`)
	if ev == nil {
		t.Fatal("Classify returned nil")
	}
	if ev.Type != EventDoneLoading {
		t.Errorf("Type = %v, want %v", ev.Type, EventDoneLoading)
	}
	if ev.Seconds != 12.345 {
		t.Errorf("Seconds = %v, want 12.345", ev.Seconds)
	}
}

func TestClassify_StartingServer(t *testing.T) {
	ev := Classify(shortPrefix + " Starting minecraft server version 1.17.1")
	if ev == nil {
		t.Fatal("Classify returned nil")
	}
	if ev.Type != EventStartingServer {
		t.Errorf("Type = %v, want %v", ev.Type, EventStartingServer)
	}
	if ev.Version != "1.17.1" {
		t.Errorf("Version = %q, want %q", ev.Version, "1.17.1")
	}
}

func TestClassify_StoppingServer(t *testing.T) {
	ev := Classify(shortPrefix + " Stopping server")
	if ev == nil {
		t.Fatal("Classify returned nil")
	}
	if ev.Type != EventStoppingServer {
		t.Errorf("Type = %v, want %v", ev.Type, EventStoppingServer)
	}
}

func TestClassify_Overloaded(t *testing.T) {
	line := warnShort + " Can't keep up! Is the server overloaded? Running 2000ms or 40 ticks behind"
	ev := Classify(line)
	if ev == nil {
		t.Fatal("Classify returned nil")
	}
	if ev.Type != EventOverloaded {
		t.Errorf("Type = %v, want %v", ev.Type, EventOverloaded)
	}
	// First number is milliseconds, second is ticks.
	if ev.MsBehind != 2000 {
		t.Errorf("MsBehind = %d, want 2000", ev.MsBehind)
	}
	if ev.TicksBehind != 40 {
		t.Errorf("TicksBehind = %d, want 40", ev.TicksBehind)
	}
}

func TestClassify_MovedWrongly(t *testing.T) {
	tests := []struct {
		name string
		line string
		user string
	}{
		{
			name: "player moved wrongly",
			line: warnShort + " Alex moved wrongly!",
			user: "Alex",
		},
		{
			name: "player moved too quickly",
			line: warnShort + " Alex moved too quickly! 12.3,0.0,9.8",
			user: "Alex",
		},
		{
			name: "vehicle rider",
			line: warnShort + " Boat (vehicle of Alex) moved wrongly! 0.5,0.0,0.5",
			user: "Alex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify(tt.line)
			if ev == nil {
				t.Fatal("Classify returned nil")
			}
			if ev.Type != EventPlayerMovedWrongly {
				t.Errorf("Type = %v, want %v", ev.Type, EventPlayerMovedWrongly)
			}
			if ev.Username != tt.user {
				t.Errorf("Username = %q, want %q", ev.Username, tt.user)
			}
		})
	}
}

func TestClassify_PlayerDied(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "slain by mob",
			line: shortPrefix + " Alex was slain by Zombie",
			want: "Alex was slain by Zombie",
		},
		{
			name: "slain using item",
			line: shortPrefix + " Alex was slain by Bob using Diamond Sword",
			// The attacker placeholder is greedy, so it swallows the item tail.
			want: "Alex was slain by Bob using Diamond Sword",
		},
		{
			name: "drowned escaping",
			line: shortPrefix + " Alex drowned whilst trying to escape Zombie",
			want: "Alex drowned",
		},
		{
			name: "fell from a high place",
			line: shortPrefix + " Steve fell from a high place",
			want: "Steve fell from a high place",
		},
		{
			name: "intentional game design",
			line: shortPrefix + " Steve was killed by Intentional Game Design",
			want: "Steve was killed by Intentional Game Design",
		},
		{
			// Chat-like punctuation inside the attacker does not demote the
			// line to a chat message; the death rule is tried first.
			name: "angle brackets in attacker",
			line: shortPrefix + " Alex was slain by <Herobrine>",
			want: "Alex was slain by <Herobrine>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify(tt.line)
			if ev == nil {
				t.Fatal("Classify returned nil")
			}
			if ev.Type != EventPlayerDied {
				t.Errorf("Type = %v, want %v", ev.Type, EventPlayerDied)
			}
			if ev.DeathMessage != tt.want {
				t.Errorf("DeathMessage = %q, want %q", ev.DeathMessage, tt.want)
			}
		})
	}
}

func TestClassify_ChatMessage(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		user    string
		message string
	}{
		{
			name:    "server thread chat",
			line:    shortPrefix + " <Alex> hello world",
			user:    "Alex",
			message: "hello world",
		},
		{
			name:    "async chat thread",
			line:    chatAsync + " <Alex> hi from paper",
			user:    "Alex",
			message: "hi from paper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify(tt.line)
			if ev == nil {
				t.Fatal("Classify returned nil")
			}
			if ev.Type != EventChatMessage {
				t.Errorf("Type = %v, want %v", ev.Type, EventChatMessage)
			}
			if ev.Username != tt.user {
				t.Errorf("Username = %q, want %q", ev.Username, tt.user)
			}
			if ev.Message != tt.message {
				t.Errorf("Message = %q, want %q", ev.Message, tt.message)
			}
		})
	}
}

func TestClassify_JoinLeave(t *testing.T) {
	ev := Classify(shortPrefix + " Alex joined the game")
	if ev == nil || ev.Type != EventPlayerJoined || ev.Username != "Alex" {
		t.Errorf("join: got %+v, want EventPlayerJoined for Alex", ev)
	}

	ev = Classify(shortPrefix + " Alex left the game")
	if ev == nil || ev.Type != EventPlayerLeft || ev.Username != "Alex" {
		t.Errorf("leave: got %+v, want EventPlayerLeft for Alex", ev)
	}
}

func TestClassify_UsernameLength(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		matches bool
	}{
		{"two chars too short", "ab", false},
		{"three chars minimum", "abc", true},
		{"sixteen chars maximum", "abcdefghijklmnop", true},
		{"seventeen chars too long", "abcdefghijklmnopq", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Classify(fmt.Sprintf("%s %s joined the game", shortPrefix, tt.user))
			if tt.matches {
				if ev == nil || ev.Type != EventPlayerJoined || ev.Username != tt.user {
					t.Errorf("got %+v, want EventPlayerJoined for %q", ev, tt.user)
				}
			} else if ev != nil {
				t.Errorf("got %+v, want nil", ev)
			}
		})
	}
}

func TestClassify_LongPrefix(t *testing.T) {
	ev := Classify(longPrefix + " Alex joined the game")
	if ev == nil {
		t.Fatal("Classify returned nil")
	}
	if ev.Type != EventPlayerJoined || ev.Username != "Alex" {
		t.Errorf("got %+v, want EventPlayerJoined for Alex", ev)
	}
}

func TestClassify_ColoredLine(t *testing.T) {
	line := "\x1b[32m" + shortPrefix + "\x1b[0m Alex joined the game"
	ev := Classify(line)
	if ev == nil {
		t.Fatal("Classify returned nil for colored line")
	}
	if ev.Type != EventPlayerJoined || ev.Username != "Alex" {
		t.Errorf("got %+v, want EventPlayerJoined for Alex", ev)
	}
}

func TestClassify_NoMatch(t *testing.T) {
	lines := []string{
		"",
		"not a server line",
		// Missing prefix
		`Done (12.345s)! For help, type "help"`,
		// Wrong thread/level for the rule
		shortPrefix + " Can't keep up! Is the server overloaded? Running 2000ms or 40 ticks behind",
		// Prefix only
		shortPrefix,
		// Unknown message
		shortPrefix + " Preparing spawn area: 95%",
		// Non-player chat sender (too short)
		shortPrefix + " <ab> hi",
	}

	for _, line := range lines {
		if ev := Classify(line); ev != nil {
			t.Errorf("Classify(%q) = %+v, want nil", line, ev)
		}
	}
}

func TestClassify_ChatQuotingDeath(t *testing.T) {
	// A chat message quoting a death message must classify as chat: the death
	// rule requires the message to start immediately after the prefix.
	ev := Classify(shortPrefix + " <Alex> Bob drowned")
	if ev == nil {
		t.Fatal("Classify returned nil")
	}
	if ev.Type != EventChatMessage {
		t.Errorf("Type = %v, want %v", ev.Type, EventChatMessage)
	}
	if ev.Message != "Bob drowned" {
		t.Errorf("Message = %q, want %q", ev.Message, "Bob drowned")
	}
}

func TestClassify_Concurrent(t *testing.T) {
	Preload()

	lines := []string{
		shortPrefix + " Alex joined the game",
		shortPrefix + " <Alex> hello",
		warnShort + " Can't keep up! Is the server overloaded? Running 2000ms or 40 ticks behind",
		shortPrefix + " Alex was slain by Zombie",
		"noise",
	}
	wants := []EventType{
		EventPlayerJoined,
		EventChatMessage,
		EventOverloaded,
		EventPlayerDied,
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				for j, line := range lines {
					ev := Classify(line)
					if j < len(wants) {
						if ev == nil || ev.Type != wants[j] {
							t.Errorf("Classify(%q) = %+v, want type %v", line, ev, wants[j])
							return
						}
					} else if ev != nil {
						t.Errorf("Classify(%q) = %+v, want nil", line, ev)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
