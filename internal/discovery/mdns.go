package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by irblaster-bridge
	ServiceType = "_irblaster._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for bridge discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default bridge port
	DefaultPort = 8765

	// DefaultPath is the default websocket endpoint
	DefaultPath = "/ws"
)

// Scanner handles mDNS bridge discovery
type Scanner struct {
	// Timeout is the maximum time to wait for bridge discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForBridges discovers all bridges on the local network
func (s *Scanner) ScanForBridges() ([]*Bridge, error) {
	return s.ScanForBridgesWithContext(context.Background())
}

// ScanForBridgesWithContext discovers bridges with a custom context.
// Entries are de-duplicated by bridge ID.
func (s *Scanner) ScanForBridgesWithContext(ctx context.Context) ([]*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	collector := newCollector()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if bridge := s.parseServiceEntry(entry); bridge != nil {
				collector.add(bridge)
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for context to complete (timeout or cancellation)
	<-ctx.Done()

	// The resolver closes entries once it stops; don't block forever if it doesn't
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	bridges := collector.list()
	logging.Info("mDNS scan complete", zap.Int("bridges", len(bridges)))
	return bridges, nil
}

// WaitForBridge waits for a specific bridge by ID (or instance name)
func (s *Scanner) WaitForBridge(id string) (*Bridge, error) {
	return s.WaitForBridgeWithContext(context.Background(), id)
}

// WaitForBridgeWithContext waits for a specific bridge with a custom context
func (s *Scanner) WaitForBridgeWithContext(ctx context.Context, id string) (*Bridge, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	bridgeChan := make(chan *Bridge, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			bridge := s.parseServiceEntry(entry)
			if bridge != nil && (bridge.ID == id || bridge.Instance == id) {
				select {
				case bridgeChan <- bridge:
				default:
				}
				cancel() // Found the bridge, cancel context
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case bridge := <-bridgeChan:
		return bridge, nil
	case <-ctx.Done():
		// The bridge may have been delivered just as the context was cancelled
		select {
		case bridge := <-bridgeChan:
			return bridge, nil
		default:
		}
		return nil, fmt.Errorf("bridge %s not found within %s", id, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Bridge.
// Returns nil if the entry has no id record or no address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Bridge {
	metadata := parseTXT(entry.Text)
	id := metadata[TXTKeyID]
	if id == "" {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	path := metadata[TXTKeyPath]
	if path == "" {
		path = DefaultPath
	}

	return &Bridge{
		ID:           id,
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		Version:      metadata[TXTKeyVersion],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// collector accumulates bridges from the resolver goroutine
type collector struct {
	mu      sync.Mutex
	order   []string
	bridges map[string]*Bridge
}

func newCollector() *collector {
	return &collector{bridges: make(map[string]*Bridge)}
}

func (c *collector) add(b *Bridge) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, seen := c.bridges[b.ID]; !seen {
		c.order = append(c.order, b.ID)
		logging.Debug("Discovered bridge",
			zap.String("id", b.ID),
			zap.String("url", b.URL()),
		)
	}
	c.bridges[b.ID] = b
}

func (c *collector) list() []*Bridge {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Bridge, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.bridges[id])
	}
	return out
}

// ScanForBridges is a convenience function to scan for bridges with a custom timeout
func ScanForBridges(timeout time.Duration) ([]*Bridge, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForBridges()
}

// FindBridge searches for a specific bridge with the default timeout
func FindBridge(id string) (*Bridge, error) {
	return NewScanner().WaitForBridge(id)
}
