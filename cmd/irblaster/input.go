package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/config"
)

// Command selection flags shared by encode, pulses and send
var (
	customerHex string
	payloadHex  []string
	remoteName  string
	commandName string
)

func addCommandFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&customerHex, "customer", "", "Customer code as hex bytes (e.g. 23CB or 0x23,0xCB)")
	cmd.Flags().StringArrayVar(&payloadHex, "payload", nil, "Payload as hex bytes; repeat for multi-frame commands")
	cmd.Flags().StringVar(&remoteName, "remote", "", "Remote name from the registry")
	cmd.Flags().StringVar(&commandName, "command", "", "Command name of --remote")
	cmd.MarkFlagsRequiredTogether("remote", "command")
	cmd.MarkFlagsMutuallyExclusive("remote", "customer")
	cmd.MarkFlagsMutuallyExclusive("command", "payload")
}

// loadRegistry reads the registry from --config or the default location
func loadRegistry() (*config.Registry, string, error) {
	path := configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}

	reg, err := config.LoadRegistryFrom(path)
	if err != nil {
		return nil, "", err
	}
	return reg, path, nil
}

// parseRawCommand builds a command from hex flag values
func parseRawCommand(customer string, payloads []string) (aeha.Command, error) {
	if customer == "" {
		return aeha.Command{}, fmt.Errorf("--customer is required (or use --remote and --command)")
	}
	if len(payloads) == 0 {
		return aeha.Command{}, fmt.Errorf("at least one --payload is required")
	}

	cc, err := config.ParseHexBytes(customer)
	if err != nil {
		return aeha.Command{}, fmt.Errorf("invalid --customer: %w", err)
	}

	cmd := aeha.Command{CustomerCode: cc}
	for i, p := range payloads {
		b, err := config.ParseHexBytes(p)
		if err != nil {
			return aeha.Command{}, fmt.Errorf("invalid --payload #%d: %w", i+1, err)
		}
		cmd.Payloads = append(cmd.Payloads, b)
	}
	return cmd, nil
}

// resolveCommand returns the command selected by the flags, with the timing
// of its remote (or the default timing for raw commands)
func resolveCommand() (aeha.Command, aeha.Timing, string, error) {
	if remoteName != "" {
		reg, _, err := loadRegistry()
		if err != nil {
			return aeha.Command{}, aeha.Timing{}, "", err
		}
		cmd, timing, err := reg.Command(remoteName, commandName)
		if err != nil {
			return aeha.Command{}, aeha.Timing{}, "", err
		}
		return cmd, timing, remoteName + "/" + commandName, nil
	}

	cmd, err := parseRawCommand(customerHex, payloadHex)
	if err != nil {
		return aeha.Command{}, aeha.Timing{}, "", err
	}
	return cmd, aeha.DefaultTiming, fmt.Sprintf("%X", cmd.CustomerCode), nil
}
