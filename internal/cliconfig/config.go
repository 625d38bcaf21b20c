// Package cliconfig assembles the rotbridge daemon configuration from three
// sources with fixed precedence: command-line flags override ROTBRIDGE_*
// environment variables, which override the TOML config file, which overrides
// the built-in defaults.
package cliconfig

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Defaults match the deployment the translator was written for: the bridge
// and the device both speak on port 6555.
const (
	DefaultListenAddress = ":6555"
	DefaultDeviceAddress = "192.168.1.8:6555"
)

// Config holds CLI configuration for rotbridge.
type Config struct {
	ListenAddress string
	DeviceAddress string

	ConnectTimeout time.Duration
	AckTimeout     time.Duration
	CloseTimeout   time.Duration

	ReadBufferSize int
	StrictAck      bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ListenAddress:  DefaultListenAddress,
		DeviceAddress:  DefaultDeviceAddress,
		ConnectTimeout: 5 * time.Second,
		AckTimeout:     2 * time.Second,
		CloseTimeout:   3 * time.Second,
		ReadBufferSize: 1024,
		LogLevel:       "info",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.ListenAddress, err)
	}

	host, _, err := net.SplitHostPort(c.DeviceAddress)
	if err != nil {
		return fmt.Errorf("invalid device address %q: %w", c.DeviceAddress, err)
	}
	if host == "" {
		return fmt.Errorf("device address %q has no host", c.DeviceAddress)
	}

	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if c.AckTimeout <= 0 {
		return fmt.Errorf("ack timeout must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not
// changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
