package parser

import (
	"regexp"
	"strconv"
	"sync"
)

// usernamePattern matches a Minecraft username: 3-16 word characters.
const usernamePattern = `[\w\d]{3,16}`

// Log-prefix grammar. Every rule requires the line to begin with a timestamp
// bracket (either an 8-character HH:MM:SS form or a day-of-week + date +
// 12-character time form), an optional bracketed logger-name tag, and a
// bracketed thread/level tag.
//
// Example prefixes:
//
//	[09:58:23] [Server thread/INFO]:
//	[23Aug2026 09:58:23.123] [Server thread/WARN] [net.minecraft.server]:
const (
	infoPrefix     = `^\[(?:[\d\w]{9} [\d:.]{12}|[\d:]{8})\] \[Server thread/INFO\](?: \[[\w.]+/?\])?:`
	infoChatPrefix = `^\[(?:[\d\w]{9} [\d:.]{12}|[\d:]{8})\] \[(?:Server thread/INFO|Async Chat Thread - #\d+/INFO)\](?: \[[\w.]+/?\])?:`
	warnPrefix     = `^\[(?:[\d\w]{9} [\d:.]{12}|[\d:]{8})\] \[Server thread/WARN\](?: \[[\w.]+/?\])?:`
)

// ruleTable holds the compiled classification rules. It is built exactly once
// per process and read without synchronization afterwards.
type ruleTable struct {
	doneLoading    *regexp.Regexp
	startingServer *regexp.Regexp
	stoppingServer *regexp.Regexp
	overloaded     *regexp.Regexp
	movedWrongly   *regexp.Regexp
	playerDied     *regexp.Regexp
	chatMessage    *regexp.Regexp
	playerJoined   *regexp.Regexp
	playerLeft     *regexp.Regexp
}

var (
	rulesOnce sync.Once
	rules     *ruleTable
)

// ruleTableFor returns the process-wide rule table, compiling it on first use.
func ruleTableFor() *ruleTable {
	rulesOnce.Do(func() {
		rules = compileRules()
	})
	return rules
}

// Preload compiles the rule table ahead of the first Classify call. The
// death-message alternation is large, so callers that care about first-line
// latency can pay the compilation cost up front.
func Preload() {
	ruleTableFor()
}

func compileRules() *ruleTable {
	return &ruleTable{
		doneLoading:    regexp.MustCompile(infoPrefix + ` Done \((\d+\.\d+)s\)! For help, type "help"`),
		startingServer: regexp.MustCompile(infoPrefix + ` Starting minecraft server version (.+)`),
		stoppingServer: regexp.MustCompile(infoPrefix + ` Stopping server`),
		overloaded:     regexp.MustCompile(warnPrefix + ` Can't keep up! Is the server overloaded\? Running (\d+)ms or (\d+) ticks behind`),
		movedWrongly:   regexp.MustCompile(warnPrefix + ` (?:(` + usernamePattern + `)|.+ \(vehicle of (` + usernamePattern + `)\)) moved (?:too quickly|wrongly)!.*`),
		playerDied:     regexp.MustCompile(infoPrefix + ` (` + deathAlternation() + `)`),
		chatMessage:    regexp.MustCompile(infoChatPrefix + ` <(` + usernamePattern + `)> (.+)`),
		playerJoined:   regexp.MustCompile(infoPrefix + ` (` + usernamePattern + `) joined the game`),
		playerLeft:     regexp.MustCompile(infoPrefix + ` (` + usernamePattern + `) left the game`),
	}
}

// Classify sanitizes a console line and matches it against the rule table in
// priority order; the first matching rule wins. It returns nil when no rule
// matches. Classify never fails and is safe for concurrent use.
//
// Rules with numeric captures fail closed: a capture that does not parse
// causes the rule to be skipped rather than surfacing an error.
func Classify(line string) *Event {
	line = Sanitize(line)
	t := ruleTableFor()

	if m := t.doneLoading.FindStringSubmatch(line); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &Event{Type: EventDoneLoading, Seconds: secs}
		}
	}

	if m := t.startingServer.FindStringSubmatch(line); m != nil {
		return &Event{Type: EventStartingServer, Version: m[1]}
	}

	if t.stoppingServer.MatchString(line) {
		return &Event{Type: EventStoppingServer}
	}

	if m := t.overloaded.FindStringSubmatch(line); m != nil {
		ms, msErr := strconv.ParseUint(m[1], 10, 32)
		ticks, ticksErr := strconv.ParseUint(m[2], 10, 32)
		if msErr == nil && ticksErr == nil {
			return &Event{Type: EventOverloaded, TicksBehind: uint(ticks), MsBehind: uint(ms)}
		}
	}

	if m := t.movedWrongly.FindStringSubmatch(line); m != nil {
		// The username is either the direct actor or the rider of a vehicle,
		// whichever alternative captured.
		username := m[1]
		if username == "" {
			username = m[2]
		}
		return &Event{Type: EventPlayerMovedWrongly, Username: username}
	}

	if m := t.playerDied.FindStringSubmatch(line); m != nil {
		return &Event{Type: EventPlayerDied, DeathMessage: m[1]}
	}

	if m := t.chatMessage.FindStringSubmatch(line); m != nil {
		return &Event{Type: EventChatMessage, Username: m[1], Message: m[2]}
	}

	if m := t.playerJoined.FindStringSubmatch(line); m != nil {
		return &Event{Type: EventPlayerJoined, Username: m[1]}
	}

	if m := t.playerLeft.FindStringSubmatch(line); m != nil {
		return &Event{Type: EventPlayerLeft, Username: m[1]}
	}

	return nil
}
