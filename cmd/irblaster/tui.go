package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/ui"
)

func init() {
	addTargetFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Pick and send registry commands interactively",
	Long: `Open an interactive list of every command in the registry.
Press enter to transmit the selected command, / to filter, q to quit.`,
	Example: `  irblaster tui
  irblaster tui --bridge ws://pi.local:8765/ws`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := loadRegistry()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Carrier settings come from the default timing; per-remote timing is
		// applied by the picker for each send
		t, err := openTarget(ctx, reg.Preferences, aeha.DefaultTiming)
		if err != nil {
			return err
		}
		defer func() { _ = t.Close() }()

		return ui.RunRemotePicker(ctx, reg, newDriver(t, aeha.DefaultTiming), t.Name)
	},
}
