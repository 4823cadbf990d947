// Irblaster encodes and transmits AEHA infrared remote-control commands.
//
// Commands are given either as raw bytes (customer code plus one or more
// payloads) or by name from the remote registry in the user config file.
// Frames are sent through a local LIRC transmitter, a networked
// irblaster-bridge, or recorded with --dry-run.
//
// Usage:
//
//	irblaster [command] [flags]
//
// See 'irblaster --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/logging"
	"github.com/muurk/irblaster/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath overrides the registry location for every command
var configPath string

var rootCmd = &cobra.Command{
	Use:   "irblaster",
	Short: "AEHA infrared remote control",
	Long: `Encode and transmit AEHA (Japanese "Kadenkyo") infrared remote commands.

Commands can be given as raw hex bytes or looked up by name in the remote
registry (see 'irblaster remotes'). Frames are sent through a local LIRC
transmitter, a networked irblaster-bridge, or recorded with --dry-run.

Logging is silent unless IRBLASTER_LOG_LEVEL is set (debug, info, warn, error).`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Registry file (default $IRBLASTER_CONFIG or the user config dir)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "irblaster %s\n", version.Full())
	},
}
