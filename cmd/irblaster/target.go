package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/bridge"
	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/lirc"
	"github.com/muurk/irblaster/internal/transmit"
)

// Target selection flags shared by send, tui and mqtt
var (
	lircDevice  string
	bridgeURL   string
	dryRun      bool
	pollTimeout time.Duration
)

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lircDevice, "lirc", "", "LIRC transmitter device (default from config, /dev/lirc0)")
	cmd.Flags().StringVar(&bridgeURL, "bridge", "", "Send through an irblaster-bridge (ws://host:8765/ws)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Record frames instead of transmitting")
	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 2*time.Second, "Maximum wait for the transmitter to finish one frame")
	cmd.MarkFlagsMutuallyExclusive("lirc", "bridge", "dry-run")
}

// target is an opened transmitter
type target struct {
	Name       string
	Peripheral transmit.Peripheral
	Recorder   *transmit.Recorder // Set for --dry-run
	closer     io.Closer
}

// Close releases the transmitter
func (t *target) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// openTarget opens the transmitter chosen by the flags, falling back to the
// registry preferences: bridge URL first, then the LIRC device.
func openTarget(ctx context.Context, prefs *config.Preferences, timing aeha.Timing) (*target, error) {
	if dryRun {
		rec := transmit.NewRecorder()
		return &target{Name: "dry-run", Peripheral: rec, Recorder: rec}, nil
	}

	url, device := bridgeURL, lircDevice
	if url == "" && device == "" && prefs != nil {
		url, device = prefs.BridgeURL, prefs.LircDevice
	}

	if url != "" {
		client, err := bridge.Dial(ctx, url)
		if err != nil {
			return nil, err
		}
		return &target{Name: url, Peripheral: client, closer: client}, nil
	}

	if device == "" {
		device = lirc.DefaultDevice
	}
	dev, err := lirc.Open(device, lirc.OptionsFromTiming(timing))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", device, err)
	}
	return &target{Name: device, Peripheral: dev, closer: dev}, nil
}

// newDriver creates a driver for t using timing and --poll-timeout
func newDriver(t *target, timing aeha.Timing) *transmit.Driver {
	d := transmit.NewDriver(t.Peripheral)
	d.Timing = timing
	d.PollTimeout = pollTimeout
	return d
}
