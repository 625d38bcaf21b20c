package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	ListenAddress  string `toml:"listen_address"`
	DeviceAddress  string `toml:"device_address"`
	ConnectTimeout string `toml:"connect_timeout"`
	AckTimeout     string `toml:"ack_timeout"`
	CloseTimeout   string `toml:"close_timeout"`
	ReadBufferSize int    `toml:"read_buffer_size"`
	StrictAck      *bool  `toml:"strict_ack"`
	LogLevel       string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path,
// ~/.rotbridge/config.toml, or "" if the home directory is not accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".rotbridge", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.ListenAddress, &cfg.ListenAddress)
	s.setString("device", fc.DeviceAddress, &cfg.DeviceAddress)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("ack-timeout", fc.AckTimeout, &cfg.AckTimeout); err != nil {
		return err
	}
	if err := s.setDuration("close-timeout", fc.CloseTimeout, &cfg.CloseTimeout); err != nil {
		return err
	}

	s.setInt("read-buffer", fc.ReadBufferSize, &cfg.ReadBufferSize)
	s.setBool("strict-ack", fc.StrictAck, &cfg.StrictAck)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
