package parser

import "strings"

// Terminal emulator states for Sanitize. Only enough of the state machine is
// implemented to recognize and discard escape sequences; no display state is
// kept.
type sanitizeState int

const (
	stateGround sanitizeState = iota
	stateEscape               // after ESC
	stateCSI                  // after ESC [
	stateOSC                  // after ESC ]
	stateOSCEsc               // after ESC within an OSC string (ST terminator)
)

const esc = '\x1b'

// Sanitize strips terminal escape and control sequences from raw console
// output. Printable characters and newlines are kept verbatim; color codes,
// cursor movement, OSC strings, and all other control bytes are consumed and
// produce no output.
//
// Sanitize is idempotent: sanitizing already-clean text returns it unchanged.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	state := stateGround
	for _, r := range s {
		switch state {
		case stateGround:
			switch {
			case r == esc:
				state = stateEscape
			case r == '\n':
				b.WriteRune('\n')
			case r < 0x20 || r == 0x7f:
				// Control byte: newline is the only one preserved.
			default:
				b.WriteRune(r)
			}

		case stateEscape:
			switch r {
			case '[':
				state = stateCSI
			case ']':
				state = stateOSC
			default:
				// Two-character escape sequence, fully consumed.
				state = stateGround
			}

		case stateCSI:
			// Parameter bytes (0x30-0x3f) and intermediate bytes (0x20-0x2f)
			// are consumed until a final byte (0x40-0x7e) ends the sequence.
			if r >= 0x40 && r <= 0x7e {
				state = stateGround
			}

		case stateOSC:
			// OSC strings end with BEL or ST (ESC \).
			switch r {
			case '\a':
				state = stateGround
			case esc:
				state = stateOSCEsc
			}

		case stateOSCEsc:
			state = stateGround
		}
	}

	return b.String()
}
