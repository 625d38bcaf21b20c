package rt21

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pipeClient returns a Client wired to an in-memory peer acting as the
// device side.
func pipeClient(t *testing.T, ackTimeout time.Duration) (*Client, net.Conn) {
	t.Helper()

	clientSide, deviceSide := net.Pipe()
	t.Cleanup(func() {
		_ = clientSide.Close()
		_ = deviceSide.Close()
	})

	return NewClient(clientSide, ackTimeout, nil), deviceSide
}

// TestQueryPosition_Success verifies that the query literal goes out and the
// azimuth is parsed from the device response.
func TestQueryPosition_Success(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)

	go func() {
		buf := make([]byte, 64)
		n, _ := device.Read(buf)
		if string(buf[:n]) == "AI1\r;" {
			_, _ = device.Write([]byte("045;"))
		}
	}()

	azimuth, err := client.QueryPosition()
	require.NoError(err)
	require.Equal(45, azimuth)
}

// TestQueryPosition_FirstDigitRun verifies that the first run of digits wins
// when the response carries more than one.
func TestQueryPosition_FirstDigitRun(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)

	go func() {
		buf := make([]byte, 64)
		_, _ = device.Read(buf)
		_, _ = device.Write([]byte("AZ=030 raw=456;"))
	}()

	azimuth, err := client.QueryPosition()
	require.NoError(err)
	require.Equal(30, azimuth)
}

// TestQueryPosition_NoDigits verifies that a response without digits is a
// failure, not a zero position.
func TestQueryPosition_NoDigits(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)

	go func() {
		buf := make([]byte, 64)
		_, _ = device.Read(buf)
		_, _ = device.Write([]byte(";;;no digits"))
	}()

	_, err := client.QueryPosition()
	require.ErrorIs(err, ErrNoDigits)
}

// TestQueryPosition_ReadError verifies that a device that closes the
// connection mid-query surfaces a read error.
func TestQueryPosition_ReadError(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)

	go func() {
		buf := make([]byte, 64)
		_, _ = device.Read(buf)
		_ = device.Close()
	}()

	_, err := client.QueryPosition()
	require.Error(err)
	require.Contains(err.Error(), "read query response")
}

// TestSend_NoAck verifies that an acknowledgment timeout is a normal
// outcome for move/stop commands.
func TestSend_NoAck(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, 50*time.Millisecond)

	go func() {
		buf := make([]byte, 64)
		_, _ = device.Read(buf)
		// stay silent — let the ack window expire
	}()

	require.NoError(client.Send(EncodeMove(200)))
}

// TestSend_AckCaptured verifies that an acknowledgment that does arrive is
// consumed without error.
func TestSend_AckCaptured(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)

	go func() {
		buf := make([]byte, 64)
		n, _ := device.Read(buf)
		if string(buf[:n]) == StopCommand {
			_, _ = device.Write([]byte("OK;"))
		}
	}()

	require.NoError(client.Send(StopCommand))
}

// TestSend_WriteError verifies that a failed command write is reported.
func TestSend_WriteError(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)
	_ = device.Close()

	err := client.Send(StopCommand)
	require.Error(err)
	require.Contains(err.Error(), "send command")
	require.ErrorIs(err, io.ErrClosedPipe)
}

// TestSend_AckReadError verifies that a non-timeout ack read failure is
// reported to the caller; the session decides whether it reaches the client.
func TestSend_AckReadError(t *testing.T) {
	require := require.New(t)

	client, device := pipeClient(t, time.Second)

	go func() {
		buf := make([]byte, 64)
		_, _ = device.Read(buf)
		_ = device.Close()
	}()

	err := client.Send(EncodeMove(90))
	require.Error(err)
	require.Contains(err.Error(), "read acknowledgment")
}

// TestClient_CloseIdempotent verifies Close can be called repeatedly and
// that operations on a closed client fail fast.
func TestClient_CloseIdempotent(t *testing.T) {
	require := require.New(t)

	client, _ := pipeClient(t, time.Second)

	require.NoError(client.Close())
	require.NoError(client.Close())

	_, err := client.QueryPosition()
	require.ErrorIs(err, ErrClientClosed)
	require.ErrorIs(client.Send(StopCommand), ErrClientClosed)
}

// TestDial_ConnectTimeout verifies that dialing an unreachable device fails
// within the configured bound instead of hanging.
func TestDial_ConnectTimeout(t *testing.T) {
	require := require.New(t)

	// Reserve a port and close the listener so nothing accepts on it.
	lst, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	address := lst.Addr().String()
	require.NoError(lst.Close())

	start := time.Now()
	_, err = Dial(context.Background(), ClientConfig{
		Address:        address,
		ConnectTimeout: 200 * time.Millisecond,
	})
	require.Error(err)
	require.Less(time.Since(start), 5*time.Second)
}

// TestFirstDigitRun exercises the response scanner directly.
func TestFirstDigitRun(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		ok       bool
	}{
		{"030;", 30, true},
		{"45", 45, true},
		{"pos: 123 deg", 123, true},
		{"1a2b3c", 1, true},
		{";;;no digits", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, ok := firstDigitRun([]byte(tt.input))
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.expected, n)
			}
		})
	}
}
