package bridge

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/logging"
)

// appID salts the machine ID so the advertised value can't be correlated
// with other software on the host
const appID = "irblaster"

// BridgeID returns a stable identifier for this host.
// Falls back to the hostname when no machine ID is available.
func BridgeID() string {
	id, err := machineid.ProtectedID(appID)
	if err == nil && id != "" {
		if len(id) > 12 {
			id = id[:12]
		}
		return id
	}

	logging.Warn("Machine ID unavailable, using hostname", zap.Error(err))
	host, herr := os.Hostname()
	if herr != nil || host == "" {
		return "irblaster"
	}
	return host
}
