package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Validate checks the whole registry and reports every problem found.
// The returned error is a *multierror.Error of *ValidationError values,
// or nil.
func (r *Registry) Validate() error {
	var result *multierror.Error

	add := func(field, format string, args ...interface{}) {
		result = multierror.Append(result, &ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if r.Version != CurrentVersion {
		add("version", "unsupported config version %d (expected %d)", r.Version, CurrentVersion)
	}

	for _, name := range r.RemoteNames() {
		remote := r.Remotes[name]
		prefix := "remotes." + name

		if strings.TrimSpace(name) == "" {
			add(prefix, "remote name must not be empty")
		}
		if remote == nil {
			add(prefix, "remote has no definition")
			continue
		}
		if len(remote.CustomerCode) == 0 {
			add(prefix+".customer_code", "must contain at least one byte")
		}
		if remote.Timing != nil {
			if err := remote.EffectiveTiming().Validate(); err != nil {
				add(prefix+".timing", "%v", err)
			}
		}

		for _, cmdName := range remote.CommandNames() {
			def := remote.Commands[cmdName]
			cmdPrefix := prefix + ".commands." + cmdName
			if def == nil || len(def.Payloads) == 0 {
				add(cmdPrefix+".payloads", "command needs at least one payload")
				continue
			}
			for i, p := range def.Payloads {
				if len(p) == 0 {
					add(fmt.Sprintf("%s.payloads[%d]", cmdPrefix, i), "must contain at least one byte")
				}
			}
		}
	}

	if p := r.Preferences; p != nil {
		if p.DiscoverTimeout < 0 {
			add("preferences.discover_timeout", "must not be negative")
		}
		if strings.ContainsAny(p.MQTTPrefix, "#+") {
			add("preferences.mqtt_prefix", "must not contain MQTT wildcards")
		}
	}

	return result.ErrorOrNil()
}
