package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/ui"
)

func init() {
	addCommandFlags(sendCmd)
	addTargetFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Transmit a command",
	Long: `Transmit a command, one frame per payload with an 8ms gap after each.

The transmitter is --lirc, --bridge or --dry-run. Without any of them the
registry preferences are used: bridge_url if set, otherwise lirc_device.`,
	Example: `  # Send a registry command through the local transmitter
  irblaster send --remote aircon --command power_on

  # Send raw bytes through a bridge
  irblaster send --customer 23CB --payload 200002 --bridge ws://pi.local:8765/ws

  # Multi-frame command, recorded only
  irblaster send --customer 23CB --payload 200002 --payload 204002 --dry-run`,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	c, timing, label, err := resolveCommand()
	if err != nil {
		return err
	}

	reg, _, err := loadRegistry()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, err := openTarget(ctx, reg.Preferences, timing)
	if err != nil {
		return err
	}
	defer func() { _ = t.Close() }()

	out := cmd.OutOrStdout()
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:   "Send",
		Command: "irblaster " + strings.Join(os.Args[1:], " "),
		Params: map[string]string{
			"Command": label,
			"Target":  t.Name,
			"Frames":  fmt.Sprint(len(c.Payloads)),
		},
		Output: out,
	})
	if err := runner.Send(ctx, newDriver(t, timing), c); err != nil {
		return err
	}

	if t.Recorder != nil {
		p := ui.NewPrinter(out)
		p.Newline()
		for i, frame := range t.Recorder.Frames() {
			p.Println(fmt.Sprintf("# recorded frame %d: %X", i+1, c.Payloads[i]))
			p.PrintPulseSummary(frame)
		}
	}
	return nil
}
