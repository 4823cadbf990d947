// Package config provides user configuration management for irblaster.
//
// This package manages a YAML-based configuration file that stores the
// remotes the user has taught irblaster (customer code plus named commands),
// bridges seen on the network, and application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/irblaster/config.yaml or $HOME/.config/irblaster/config.yaml
//   - macOS: $HOME/.config/irblaster/config.yaml
//   - Windows: %LOCALAPPDATA%\irblaster\config.yaml
//
// IRBLASTER_CONFIG overrides the location on every platform.
//
// # File Format
//
//	version: 1
//	remotes:
//	  aircon:
//	    customer_code: 23CB
//	    commands:
//	      power_off:
//	        payloads: ["200002"]
//	preferences:
//	  lirc_device: /dev/lirc0
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cmd, timing, err := registry.Command("aircon", "power_off")
//	if errors.Is(err, config.ErrCommandNotFound) {
//	    ...
//	}
//
// # Validation
//
// Validate reports every problem in the file at once as a
// *multierror.Error. LoadRegistryFrom and SaveTo both validate.
//
// # Thread Safety
//
// File operations are protected by a mutex to ensure atomic writes. A
// *Registry itself is not safe for concurrent mutation.
package config
