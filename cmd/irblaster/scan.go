package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/discovery"
)

var (
	scanTimeout int
	useBridge   string
)

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from config, 5)")
	scanCmd.Flags().StringVar(&useBridge, "use", "", "Make the bridge with this ID the default send target")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for irblaster bridges on the network",
	Long: `Scan for irblaster-bridge instances using mDNS/DNS-SD discovery.

Every bridge found is recorded in the config file with its URL and the time
it was last seen.`,
	Example: `  # Scan with the configured timeout
  irblaster scan

  # Longer scan, then send through the bridge by default
  irblaster scan --timeout 15 --use 3f9a1c0b2d4e`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, path, err := loadRegistry()
	if err != nil {
		return err
	}

	timeout := reg.Preferences.DiscoverDuration()
	if scanTimeout > 0 {
		timeout = time.Duration(scanTimeout) * time.Second
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for bridges (timeout: %s)...\n\n", timeout)

	bridges, err := discovery.ScanForBridges(timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	discovery.SortBridges(bridges)

	if err := recordBridges(reg, bridges, useBridge); err != nil {
		return err
	}
	printBridges(out, bridges)

	if len(bridges) == 0 {
		return nil
	}
	return reg.SaveTo(path)
}

// recordBridges stores every bridge in reg and, if useID is set, makes that
// bridge the default send target
func recordBridges(reg *config.Registry, bridges []*discovery.Bridge, useID string) error {
	var used bool
	for _, b := range bridges {
		reg.UpdateBridgeLastSeen(b.ID, b.URL())
		if useID != "" && (b.ID == useID || b.Instance == useID) {
			reg.Preferences.BridgeURL = b.URL()
			used = true
		}
	}
	if useID != "" && !used {
		return fmt.Errorf("bridge %s not found", useID)
	}
	return nil
}

func printBridges(w io.Writer, bridges []*discovery.Bridge) {
	if len(bridges) == 0 {
		fmt.Fprintln(w, "No bridges found.")
		fmt.Fprintln(w, "\nTroubleshooting:")
		fmt.Fprintln(w, "  - Ensure irblaster-bridge is running with --advertise")
		fmt.Fprintln(w, "  - Check both machines are on the same network segment")
		fmt.Fprintln(w, "  - Try increasing --timeout")
		return
	}

	fmt.Fprintf(w, "Found %d bridge(s):\n\n", len(bridges))
	for i, b := range bridges {
		fmt.Fprintf(w, "%d. %s\n", i+1, b.Instance)
		fmt.Fprintf(w, "   ID:      %s\n", b.ID)
		fmt.Fprintf(w, "   URL:     %s\n", b.URL())
		if b.Version != "" {
			fmt.Fprintf(w, "   Version: %s\n", b.Version)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "Use 'irblaster send --bridge <url> ...' to transmit through a bridge")
}
