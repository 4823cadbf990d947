package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/ui"
)

var (
	remoteDescription string
	assumeYes         bool
)

func init() {
	remotesAddCmd.Flags().StringVar(&customerHex, "customer", "", "Customer code as hex bytes")
	remotesAddCmd.Flags().StringVar(&remoteDescription, "description", "", "Free-form description")
	_ = remotesAddCmd.MarkFlagRequired("customer")

	remotesAddCommandCmd.Flags().StringArrayVar(&payloadHex, "payload", nil, "Payload as hex bytes; repeat for multi-frame commands")
	remotesAddCommandCmd.Flags().StringVar(&remoteDescription, "description", "", "Free-form description")
	_ = remotesAddCommandCmd.MarkFlagRequired("payload")

	remotesRemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	remotesCmd.AddCommand(remotesListCmd)
	remotesCmd.AddCommand(remotesShowCmd)
	remotesCmd.AddCommand(remotesAddCmd)
	remotesCmd.AddCommand(remotesAddCommandCmd)
	remotesCmd.AddCommand(remotesRemoveCmd)
	rootCmd.AddCommand(remotesCmd)
}

var remotesCmd = &cobra.Command{
	Use:   "remotes",
	Short: "Manage the remote registry",
	Long: `Manage the remotes stored in the config file.

A remote is an appliance's customer code plus named commands; each command
has one or more payloads, sent as consecutive frames.`,
}

var remotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, path, err := loadRegistry()
		if err != nil {
			return err
		}
		listRemotes(cmd.OutOrStdout(), reg, path)
		return nil
	},
}

func listRemotes(w io.Writer, reg *config.Registry, path string) {
	names := reg.RemoteNames()
	if len(names) == 0 {
		fmt.Fprintf(w, "No remotes in %s\n", path)
		fmt.Fprintln(w, "Add one with: irblaster remotes add <name> --customer <hex>")
		return
	}

	fmt.Fprintf(w, "%-16s %-10s %s\n", "REMOTE", "CUSTOMER", "COMMANDS")
	for _, name := range names {
		r := reg.GetRemote(name)
		fmt.Fprintf(w, "%-16s %-10s %s\n", name, r.CustomerCode, strings.Join(r.CommandNames(), ", "))
	}
}

var remotesShowCmd = &cobra.Command{
	Use:   "show <remote>",
	Short: "Show a remote and its commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, _, err := loadRegistry()
		if err != nil {
			return err
		}
		return showRemote(cmd.OutOrStdout(), reg, args[0])
	},
}

func showRemote(w io.Writer, reg *config.Registry, name string) error {
	r := reg.GetRemote(name)
	if r == nil {
		return &config.LookupError{Kind: "remote", Name: name, Err: config.ErrRemoteNotFound}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(map[string]*config.Remote{name: r})
}

var remotesAddCmd = &cobra.Command{
	Use:     "add <remote>",
	Short:   "Add a remote",
	Example: `  irblaster remotes add aircon --customer 23CB --description "Living room AC"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, path, err := loadRegistry()
		if err != nil {
			return err
		}
		if reg.GetRemote(args[0]) != nil {
			return fmt.Errorf("remote %q already exists", args[0])
		}

		cc, err := config.ParseHexBytes(customerHex)
		if err != nil {
			return fmt.Errorf("invalid --customer: %w", err)
		}
		reg.EnsureRemote(args[0], cc).Description = remoteDescription

		if err := reg.SaveTo(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added remote %s (customer code %X)\n", args[0], cc)
		return nil
	},
}

var remotesAddCommandCmd = &cobra.Command{
	Use:   "add-command <remote> <command>",
	Short: "Add or replace a command of a remote",
	Example: `  # Single-frame command
  irblaster remotes add-command tv power --payload 20

  # Two-frame command
  irblaster remotes add-command aircon power_on --payload 204002 --payload 204002`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, path, err := loadRegistry()
		if err != nil {
			return err
		}

		payloads := make([][]byte, 0, len(payloadHex))
		for i, p := range payloadHex {
			b, err := config.ParseHexBytes(p)
			if err != nil {
				return fmt.Errorf("invalid --payload #%d: %w", i+1, err)
			}
			payloads = append(payloads, b)
		}

		if err := reg.SetCommand(args[0], args[1], remoteDescription, payloads...); err != nil {
			return err
		}
		if err := reg.SaveTo(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s/%s (%d frames)\n", args[0], args[1], len(payloads))
		return nil
	},
}

var remotesRemoveCmd = &cobra.Command{
	Use:   "remove <remote> [command]",
	Short: "Remove a remote or one of its commands",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, path, err := loadRegistry()
		if err != nil {
			return err
		}

		what := args[0]
		if len(args) == 2 {
			what += "/" + args[1]
		}
		if !assumeYes && !ui.Confirm(os.Stdin, cmd.OutOrStdout(), "Remove "+what, []string{"This cannot be undone"}) {
			return nil
		}

		var removed bool
		if len(args) == 2 {
			removed = reg.RemoveCommand(args[0], args[1])
		} else {
			removed = reg.RemoveRemote(args[0])
		}
		if !removed {
			return fmt.Errorf("%s not found", what)
		}

		if err := reg.SaveTo(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", what)
		return nil
	},
}
