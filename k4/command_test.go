package k4

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseCommand_Classification verifies command classification across the
// documented command forms, including case-insensitivity and whitespace
// trimming.
func TestParseCommand_Classification(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Command
	}{
		{"query upper", "C", Command{Kind: KindQuery}},
		{"query lower", "c", Command{Kind: KindQuery}},
		{"query padded", " c ", Command{Kind: KindQuery}},
		{"query with trailer", "C2", Command{Kind: KindQuery}},
		{"move padded digits", "M030", Command{Kind: KindMove, Azimuth: 30}},
		{"move lower", "m7", Command{Kind: KindMove, Azimuth: 7}},
		{"move zero", "M000", Command{Kind: KindMove, Azimuth: 0}},
		{"move with trailer", "M120;", Command{Kind: KindMove, Azimuth: 120}},
		{"move surrounded by whitespace", "\r\n M359 \r\n", Command{Kind: KindMove, Azimuth: 359}},
		{"bare M is not a move", "M", Command{Kind: KindInvalid}},
		{"M with letters is not a move", "Mstop", Command{Kind: KindInvalid}},
		{"stop short upper", "S", Command{Kind: KindStop}},
		{"stop short lower", "s", Command{Kind: KindStop}},
		{"stop word", "stop", Command{Kind: KindStop}},
		{"stop word mixed case", "StOp", Command{Kind: KindStop}},
		{"stop semicolon", ";", Command{Kind: KindStop}},
		{"stop word with trailer is invalid", "STOPPED", Command{Kind: KindInvalid}},
		{"empty", "", Command{Kind: KindInvalid}},
		{"whitespace only", " \r\n\t", Command{Kind: KindInvalid}},
		{"junk", "XYZ", Command{Kind: KindInvalid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ParseCommand([]byte(tt.input)))
		})
	}
}

// TestParseCommand_NonASCII verifies that bytes outside the ASCII range are
// dropped rather than failing the parse.
func TestParseCommand_NonASCII(t *testing.T) {
	require := require.New(t)

	// A stray high byte in front of a valid query.
	cmd := ParseCommand([]byte{0xFF, 'C'})
	require.Equal(Command{Kind: KindQuery}, cmd)

	// High bytes interleaved with a move command.
	cmd = ParseCommand([]byte{'M', 0x80, '4', 0xFE, '5'})
	require.Equal(Command{Kind: KindMove, Azimuth: 45}, cmd)

	// Nothing but high bytes decodes to an empty command.
	cmd = ParseCommand([]byte{0xC3, 0xA9, 0xFF})
	require.Equal(Command{Kind: KindInvalid}, cmd)
}

// TestParseCommand_LeadingZerosAndBigValues verifies digit-run parsing edge
// cases: leading zeros, values beyond the azimuth range, and digit runs too
// long to fit in an int.
func TestParseCommand_LeadingZerosAndBigValues(t *testing.T) {
	require := require.New(t)

	require.Equal(Command{Kind: KindMove, Azimuth: 5}, ParseCommand([]byte("M0005")))

	// The parser does not range-check; 1000 is accepted and left to the
	// session to reject.
	require.Equal(Command{Kind: KindMove, Azimuth: 1000}, ParseCommand([]byte("M1000")))

	// A digit run that overflows int is not a valid move.
	huge := "M" + strconv.Itoa(1<<30) + "00000000000000000000"
	require.Equal(Command{Kind: KindInvalid}, ParseCommand([]byte(huge)))
}
