package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/arloliu/go-rotbridge/bridge"
	"github.com/arloliu/go-rotbridge/internal/cliconfig"
	"github.com/arloliu/go-rotbridge/logger"
	"github.com/arloliu/go-rotbridge/rt21"
)

// probeTimeout bounds the startup reachability probe. The probe is advisory:
// the bridge starts serving clients whether or not the device answers.
const probeTimeout = 5 * time.Second

const longHelp = `
rotbridge sits between a K4 transceiver and a Green Heron RT-21 rotator
controller, translating between their TCP command dialects.

Each client connection gets its own dedicated device connection; sessions are
fully isolated and torn down together. Configure via file
(~/.rotbridge/config.toml), ROTBRIDGE_* environment variables, or flags —
flags win over environment, environment wins over file.
`

var exampleUsage = strings.TrimSpace(`
  rotbridge --listen :6555 --device 192.168.1.8:6555
  rotbridge --config /etc/rotbridge/config.toml --log-level debug
  rotbridge selftest
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "rotbridge",
		Short:   "Bridge K4 rotator commands to an RT-21 controller over TCP",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveConfig(cmd, &cfg, cfgPath); err != nil {
				return err
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.rotbridge/config.toml)")
	root.Flags().StringVar(&cfg.ListenAddress, "listen", cfg.ListenAddress, "host:port to listen on for clients")
	root.Flags().StringVar(&cfg.DeviceAddress, "device", cfg.DeviceAddress, "host:port of the RT-21 controller")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "timeout for dialing the device at session start")
	root.Flags().DurationVar(&cfg.AckTimeout, "ack-timeout", cfg.AckTimeout, "wait for the optional move/stop acknowledgment")
	root.Flags().DurationVar(&cfg.CloseTimeout, "close-timeout", cfg.CloseTimeout, "grace period for sessions during shutdown")
	root.Flags().IntVar(&cfg.ReadBufferSize, "read-buffer", cfg.ReadBufferSize, "per-session client read buffer size in bytes")
	root.Flags().BoolVar(&cfg.StrictAck, "strict-ack", cfg.StrictAck, "answer ERROR instead of OK when a move/stop send fails")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(newSelftestCommand())

	if err := root.Execute(); err != nil {
		logger.Error("rotbridge failed", "error", err)
		os.Exit(1)
	}
}

// resolveConfig layers the config file and ROTBRIDGE_* environment variables
// under any explicitly set flags, then validates the result.
func resolveConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return err
		}
	} else if cfgPath != "" {
		return fmt.Errorf("config file %s does not exist", cfgPath)
	}

	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return err
	}

	return cfg.Validate()
}

func runServe(ctx context.Context, cfg cliconfig.Config) error {
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	log := logger.GetLogger()

	bridgeCfg, err := bridge.NewConfig(cfg.ListenAddress, cfg.DeviceAddress,
		bridge.WithConnectTimeout(cfg.ConnectTimeout),
		bridge.WithAckTimeout(cfg.AckTimeout),
		bridge.WithCloseTimeout(cfg.CloseTimeout),
		bridge.WithReadBufferSize(cfg.ReadBufferSize),
		bridge.WithStrictAck(cfg.StrictAck),
		bridge.WithLogger(log),
	)
	if err != nil {
		return err
	}

	listener, err := bridge.NewListener(bridgeCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probeDevice(ctx, cfg, log)

	served := make(chan error, 1)
	go func() { served <- listener.ListenAndServe(ctx) }()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
		log.Info("received signal, shutting down")
	}

	return listener.Shutdown()
}

// probeDevice checks device reachability once at startup, the way the
// historical translator did. Failures are warnings only: sessions dial their
// own connections and report their own errors.
func probeDevice(ctx context.Context, cfg cliconfig.Config, log logger.Logger) {
	client, err := rt21.Dial(ctx, rt21.ClientConfig{
		Address:        cfg.DeviceAddress,
		ConnectTimeout: cfg.ConnectTimeout,
		AckTimeout:     cfg.AckTimeout,
		Logger:         log,
	})
	if err != nil {
		log.Warn("device probe: connect failed", "address", cfg.DeviceAddress, "error", err)
		return
	}
	defer func() { _ = client.Close() }()

	// the query read has no deadline of its own; closing the client is what
	// bounds the probe
	watchdog := time.AfterFunc(probeTimeout, func() { _ = client.Close() })
	defer watchdog.Stop()

	azimuth, err := client.QueryPosition()
	if err != nil {
		log.Warn("device probe: position query failed", "address", cfg.DeviceAddress, "error", err)
		return
	}

	log.Info("device probe ok", "address", cfg.DeviceAddress, "azimuth", azimuth)
}

// newSelftestCommand exercises the device command encoder without any network
// I/O, printing one line per check.
func newSelftestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Verify the RT-21 command encoding against known-good frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := []struct {
				name string
				got  string
				want string
			}{
				{"move 0", rt21.EncodeMove(0), "AP0000\r;"},
				{"move 35", rt21.EncodeMove(35), "AP0035\r;"},
				{"move 180", rt21.EncodeMove(180), "AP0180\r;"},
				{"move 359", rt21.EncodeMove(359), "AP0359\r;"},
				{"stop", rt21.StopCommand, ";"},
			}

			failed := 0
			for _, check := range checks {
				status := "✓"
				if check.got != check.want {
					status = "✗"
					failed++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-8s %q\n", status, check.name, check.got)
			}

			if failed > 0 {
				return fmt.Errorf("%d encoding check(s) failed", failed)
			}

			return nil
		},
	}
}
