package k4

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// CommandKind identifies the semantic class of a client command.
type CommandKind int

const (
	// KindInvalid indicates input that matched no known command form.
	KindInvalid CommandKind = iota
	// KindQuery requests the current azimuth position.
	KindQuery
	// KindMove requests rotation to a target azimuth.
	KindMove
	// KindStop requests that rotation stops immediately.
	KindStop
)

// String returns the string representation of the command kind.
func (k CommandKind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindMove:
		return "move"
	case KindStop:
		return "stop"
	default:
		return "invalid"
	}
}

// Command is the decoded, semantic form of one client request.
type Command struct {
	Kind CommandKind
	// Azimuth is the move target in degrees. It is only meaningful when
	// Kind is KindMove. The parser accepts any decimal digit run, so the
	// value is not restricted to [0, 359]; range enforcement happens at
	// the session level where the wire format constrains it.
	Azimuth int
}

// ParseCommand decodes raw client bytes into a Command.
//
// Bytes outside the ASCII range are dropped rather than rejected, and the
// remaining text is trimmed of surrounding whitespace before classification:
//
//   - a leading 'C' or 'c' is a query, regardless of what follows
//   - 'M' or 'm' followed immediately by one or more decimal digits is a
//     move; leading zeros are allowed ("M030" moves to 30). A bare "M"
//     with no digits is not a move and falls through
//   - exactly "S", "STOP" (case-insensitive) or ";" is a stop
//
// Everything else, including empty input, yields KindInvalid. ParseCommand
// never fails: malformed input produces an invalid Command, not an error.
func ParseCommand(data []byte) Command {
	text := strings.TrimSpace(asciiString(data))
	if text == "" {
		return Command{Kind: KindInvalid}
	}

	switch text[0] {
	case 'C', 'c':
		return Command{Kind: KindQuery}

	case 'M', 'm':
		if azimuth, ok := leadingNumber(text[1:]); ok {
			return Command{Kind: KindMove, Azimuth: azimuth}
		}
		// 'M' without digits is not a move; fall through to the stop
		// forms below, matching the classification order of the protocol.
	}

	if text == ";" || strings.EqualFold(text, "S") || strings.EqualFold(text, "STOP") {
		return Command{Kind: KindStop}
	}

	return Command{Kind: KindInvalid}
}

// asciiString decodes data as ASCII, silently dropping any byte outside the
// 7-bit range.
func asciiString(data []byte) string {
	ascii := true
	for _, c := range data {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(data)
	}

	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c < utf8.RuneSelf {
			b.WriteByte(c)
		}
	}

	return b.String()
}

// leadingNumber parses the run of decimal digits at the start of s.
// It reports false when s does not start with a digit, or when the run does
// not fit in an int.
func leadingNumber(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}

	return n, true
}
