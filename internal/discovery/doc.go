// Package discovery finds irblaster bridges on the local network over mDNS.
//
// Bridges advertise the "_irblaster._tcp" service with TXT records:
//   - id: stable bridge identifier (derived from the host's machine ID)
//   - version: bridge software version
//   - path: websocket endpoint, normally /ws
//
// Entries without an id record are ignored.
//
// # Usage Example
//
//	bridges, err := discovery.ScanForBridges(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range bridges {
//	    fmt.Printf("Found: %s -> %s\n", b.Instance, b.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Bridges must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// Each scan uses its own resolver. Results from the resolver goroutine are
// collected under a mutex.
package discovery
