package discovery

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TXT record keys advertised by irblaster-bridge
const (
	TXTKeyID      = "id"
	TXTKeyVersion = "version"
	TXTKeyPath    = "path"
)

// Bridge represents a discovered irblaster-bridge on the network
type Bridge struct {
	// ID is the bridge's stable identifier (TXT "id")
	ID string

	// Instance is the mDNS service instance name (e.g., "livingroom")
	Instance string

	// Hostname is the mDNS hostname (e.g., "pi.local.")
	Hostname string

	// IP is the address to connect to (IPv4 preferred)
	IP string

	// Port is the websocket port
	Port int

	// Path is the websocket endpoint (TXT "path", default /ws)
	Path string

	// Version is the bridge software version (TXT "version")
	Version string

	// Metadata contains every mDNS TXT record
	Metadata map[string]string

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the bridge
func (b *Bridge) String() string {
	return fmt.Sprintf("irblaster bridge %s (%s) at %s", b.ID, b.Instance, net.JoinHostPort(b.IP, strconv.Itoa(b.Port)))
}

// URL returns the websocket URL for the bridge
func (b *Bridge) URL() string {
	path := b.Path
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "ws://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port)) + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Bridge) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}

// TXTRecords builds the TXT records a bridge advertises
func TXTRecords(id, version, path string) []string {
	return []string{
		TXTKeyID + "=" + id,
		TXTKeyVersion + "=" + version,
		TXTKeyPath + "=" + path,
	}
}

// parseTXT turns "key=value" records into a map
func parseTXT(records []string) map[string]string {
	metadata := make(map[string]string, len(records))
	for _, txt := range records {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}
	return metadata
}

// SortBridges orders bridges by instance name then ID
func SortBridges(bridges []*Bridge) {
	sort.Slice(bridges, func(i, j int) bool {
		if bridges[i].Instance != bridges[j].Instance {
			return bridges[i].Instance < bridges[j].Instance
		}
		return bridges[i].ID < bridges[j].ID
	})
}
