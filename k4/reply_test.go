package k4

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFormatPosition verifies the position line is always zero-padded to
// three digits.
func TestFormatPosition(t *testing.T) {
	require := require.New(t)

	require.Equal([]byte("AZ=045\r\n"), FormatPosition(45))
	require.Equal([]byte("AZ=000\r\n"), FormatPosition(0))
	require.Equal([]byte("AZ=359\r\n"), FormatPosition(359))
}

// TestFormatReply covers the reply mapping for every command kind,
// including the historical behavior where a failed move/stop still answers
// OK unless strict acknowledgment is enabled.
func TestFormatReply(t *testing.T) {
	errSend := errors.New("broken pipe")

	tests := []struct {
		name      string
		cmd       Command
		res       Result
		strictAck bool
		expected  string
	}{
		{"query position", Command{Kind: KindQuery}, Position(45), false, "AZ=045\r\n"},
		{"query failed", Command{Kind: KindQuery}, Failed(errSend), false, "ERROR\r\n"},
		{"move acked", Command{Kind: KindMove, Azimuth: 200}, Acked(), false, "OK\r\n"},
		{"move failed still OK", Command{Kind: KindMove, Azimuth: 200}, Failed(errSend), false, "OK\r\n"},
		{"move failed strict", Command{Kind: KindMove, Azimuth: 200}, Failed(errSend), true, "ERROR\r\n"},
		{"stop acked", Command{Kind: KindStop}, Acked(), false, "OK\r\n"},
		{"stop failed still OK", Command{Kind: KindStop}, Failed(errSend), false, "OK\r\n"},
		{"stop failed strict", Command{Kind: KindStop}, Failed(errSend), true, "ERROR\r\n"},
		{"invalid", Command{Kind: KindInvalid}, Result{}, false, "ERROR\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, string(FormatReply(tt.cmd, tt.res, tt.strictAck)))
		})
	}
}
