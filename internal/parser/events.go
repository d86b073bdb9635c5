// Package parser classifies Minecraft server console output into typed events.
//
// Classification is a pure function of the line text: the line is first
// stripped of terminal escape sequences, then matched against an ordered rule
// table where the first matching rule wins. The rule table (including a large
// death-message alternation) is compiled once per process on first use.
//
// Tested server version:
//
//	Minecraft Java Edition 1.17.1 (vanilla log format)
//
// The death-message table is versioned against that release. Newer or older
// releases may use wording the table does not cover; unrecognized lines simply
// classify as no event.
package parser

// EventType identifies the category of a classified console line.
type EventType int

const (
	// EventDoneLoading is emitted when the server finishes starting up.
	EventDoneLoading EventType = iota

	// EventStartingServer is emitted early in startup.
	// Not every server version emits this line.
	EventStartingServer

	// EventStoppingServer is emitted when the server begins shutting down.
	// Not every server version emits this line.
	EventStoppingServer

	// EventOverloaded is emitted when the server complains about running
	// behind its tick schedule.
	EventOverloaded

	// EventPlayerMovedWrongly is emitted when a player (or a player's
	// vehicle) "moved wrongly" or "moved too quickly".
	EventPlayerMovedWrongly

	// EventPlayerDied is emitted when a player death message is recognized.
	EventPlayerDied

	// EventChatMessage is emitted for player chat.
	EventChatMessage

	// EventPlayerJoined is emitted when a player joins.
	EventPlayerJoined

	// EventPlayerLeft is emitted when a player leaves.
	EventPlayerLeft
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventDoneLoading:
		return "done_loading"
	case EventStartingServer:
		return "starting_server"
	case EventStoppingServer:
		return "stopping_server"
	case EventOverloaded:
		return "overloaded"
	case EventPlayerMovedWrongly:
		return "player_moved_wrongly"
	case EventPlayerDied:
		return "player_died"
	case EventChatMessage:
		return "chat_message"
	case EventPlayerJoined:
		return "player_joined"
	case EventPlayerLeft:
		return "player_left"
	default:
		return "unknown"
	}
}

// Event represents one classified console line. Only the fields relevant to
// Type are populated; an Event is never mutated after construction.
type Event struct {
	Type EventType

	// Seconds is the startup duration (EventDoneLoading).
	Seconds float64

	// Version is the server version string (EventStartingServer).
	Version string

	// TicksBehind and MsBehind report how far the server is running behind
	// (EventOverloaded).
	TicksBehind uint
	MsBehind    uint

	// Username is the acting player (EventPlayerMovedWrongly,
	// EventChatMessage, EventPlayerJoined, EventPlayerLeft).
	Username string

	// Message is the chat text (EventChatMessage).
	Message string

	// DeathMessage is the full matched death message, not decomposed into
	// victim/attacker/item (EventPlayerDied).
	DeathMessage string
}
