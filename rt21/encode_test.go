package rt21

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncodeMove_Table checks the documented formatting examples against
// literal expected wire strings.
func TestEncodeMove_Table(t *testing.T) {
	tests := []struct {
		azimuth  int
		expected string
	}{
		{0, "AP0000\r;"},
		{7, "AP0007\r;"},
		{35, "AP0035\r;"},
		{180, "AP0180\r;"},
		{359, "AP0359\r;"},
		{999, "AP0999\r;"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, EncodeMove(tt.azimuth))
		})
	}
}

// TestEncodeMove_FullRange verifies that every representable azimuth
// produces exactly "AP0" + three zero-padded digits + "\r;".
func TestEncodeMove_FullRange(t *testing.T) {
	require := require.New(t)

	for n := 0; n <= MaxMoveAzimuth; n++ {
		cmd := EncodeMove(n)

		require.Len(cmd, 8, "azimuth %d", n)
		require.Equal("AP0", cmd[:3], "azimuth %d", n)
		require.Equal("\r;", cmd[6:], "azimuth %d", n)

		parsed, err := strconv.Atoi(cmd[3:6])
		require.NoError(err, "azimuth %d", n)
		require.Equal(n, parsed, "azimuth %d", n)
	}
}

// TestStopCommand pins the stop literal.
func TestStopCommand(t *testing.T) {
	require.Equal(t, ";", StopCommand)
}
