package cliconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		changed map[string]bool
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{
			name: "applies environment values",
			env: map[string]string{
				"ROTBRIDGE_LISTEN_ADDRESS":   ":7000",
				"ROTBRIDGE_DEVICE_ADDRESS":   "10.0.0.5:6555",
				"ROTBRIDGE_ACK_TIMEOUT":      "750ms",
				"ROTBRIDGE_READ_BUFFER_SIZE": "2048",
				"ROTBRIDGE_STRICT_ACK":       "true",
				"ROTBRIDGE_LOG_LEVEL":        "debug",
			},
			changed: map[string]bool{},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, ":7000", cfg.ListenAddress)
				require.Equal(t, "10.0.0.5:6555", cfg.DeviceAddress)
				require.Equal(t, 750*time.Millisecond, cfg.AckTimeout)
				require.Equal(t, 2048, cfg.ReadBufferSize)
				require.True(t, cfg.StrictAck)
				require.Equal(t, "debug", cfg.LogLevel)
			},
		},
		{
			name: "changed flags win over environment",
			env: map[string]string{
				"ROTBRIDGE_LISTEN_ADDRESS": ":7000",
				"ROTBRIDGE_STRICT_ACK":     "1",
			},
			changed: map[string]bool{"listen": true, "strict-ack": true},
			check: func(t *testing.T, cfg Config) {
				require.Equal(t, DefaultListenAddress, cfg.ListenAddress)
				require.False(t, cfg.StrictAck)
			},
		},
		{
			name: "invalid duration is an error",
			env: map[string]string{
				"ROTBRIDGE_ACK_TIMEOUT": "not-a-duration",
			},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, test.changed)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			test.check(t, cfg)
		})
	}
}
