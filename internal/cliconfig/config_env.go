package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (ROTBRIDGE_*). It respects flags that have been explicitly set (changed
// map). Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv("ROTBRIDGE_LISTEN_ADDRESS"), &cfg.ListenAddress)
	s.setString("device", os.Getenv("ROTBRIDGE_DEVICE_ADDRESS"), &cfg.DeviceAddress)
	s.setString("log-level", os.Getenv("ROTBRIDGE_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("connect-timeout", os.Getenv("ROTBRIDGE_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("ack-timeout", os.Getenv("ROTBRIDGE_ACK_TIMEOUT"), &cfg.AckTimeout); err != nil {
		return err
	}
	if err := s.setDuration("close-timeout", os.Getenv("ROTBRIDGE_CLOSE_TIMEOUT"), &cfg.CloseTimeout); err != nil {
		return err
	}

	if err := s.setIntFromString("read-buffer", os.Getenv("ROTBRIDGE_READ_BUFFER_SIZE"), &cfg.ReadBufferSize); err != nil {
		return err
	}

	s.setBoolFromString("strict-ack", os.Getenv("ROTBRIDGE_STRICT_ACK"), &cfg.StrictAck)

	return nil
}
