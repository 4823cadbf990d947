// Irblaster-bridge exposes a local IR transmitter over a websocket.
//
// It runs on the machine wired to the IR LED (typically a Raspberry Pi with
// a LIRC transmitter) and accepts pulse frames or whole AEHA commands from
// irblaster clients on the network. With --advertise the bridge registers
// itself over mDNS so 'irblaster scan' can find it.
//
// Usage:
//
//	irblaster-bridge serve [flags]
//
// See 'irblaster-bridge serve --help' for available options.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/bridge"
	"github.com/muurk/irblaster/internal/discovery"
	"github.com/muurk/irblaster/internal/lirc"
	"github.com/muurk/irblaster/internal/logging"
	"github.com/muurk/irblaster/internal/transmit"
	"github.com/muurk/irblaster/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "irblaster-bridge",
	Short: "irblaster websocket bridge",
	Long: `A websocket bridge that transmits IR frames on behalf of irblaster clients.

Clients send pulse frames or AEHA commands as JSON messages; the bridge
transmits them one at a time through its local transmitter and replies
when each request is done.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve command flags
var (
	host         string
	port         int
	path         string
	lircDevice   string
	dryRun       bool
	advertise    bool
	instanceName string
	logLevel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bridge",
	Long: `Start the websocket bridge.

Frames are transmitted through --lirc (default /dev/lirc0). With --dry-run
frames are only recorded, which is useful for testing clients. GET /healthz
reports the bridge ID, version and number of frames sent.`,
	Example: `  # Serve the default transmitter and advertise over mDNS
  irblaster-bridge serve --advertise

  # Custom port and device, debug logging
  irblaster-bridge serve --port 9000 --lirc /dev/lirc1 --log-level debug

  # Test without hardware
  irblaster-bridge serve --dry-run`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&host, "host", "", "Listen address (empty = all interfaces)")
	serveCmd.Flags().IntVar(&port, "port", discovery.DefaultPort, "Listen port")
	serveCmd.Flags().StringVar(&path, "path", discovery.DefaultPath, "Websocket endpoint path")
	serveCmd.Flags().StringVar(&lircDevice, "lirc", lirc.DefaultDevice, "LIRC transmitter device")
	serveCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Record frames instead of transmitting")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the bridge over mDNS")
	serveCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default irblaster-<id>)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.MarkFlagsMutuallyExclusive("lirc", "dry-run")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	var peripheral transmit.Peripheral
	if dryRun {
		peripheral = transmit.NewRecorder()
		logging.Warn("Dry run: frames are recorded, not transmitted")
	} else {
		dev, err := lirc.Open(lircDevice, lirc.OptionsFromTiming(aeha.DefaultTiming))
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", lircDevice, err)
		}
		defer func() {
			if err := dev.Close(); err != nil {
				logging.Warn("Failed to close transmitter", zap.Error(err))
			}
		}()
		peripheral = dev
	}

	srv, err := bridge.New(&bridge.Config{
		Host:         host,
		Port:         port,
		Path:         path,
		Peripheral:   peripheral,
		Advertise:    advertise,
		InstanceName: instanceName,
	})
	if err != nil {
		return fmt.Errorf("failed to create bridge: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "irblaster-bridge %s (id %s) listening on port %d%s\n", version.Version, srv.ID(), port, path)
	return srv.Start(ctx)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "irblaster-bridge %s (commit: %s)\n", version.Version, version.Commit)
	},
}
