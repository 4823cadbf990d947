package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance string, port int, txt []string, v4, v6 []net.IP) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	e.HostName = "pi.local."
	e.Port = port
	e.Text = txt
	e.AddrIPv4 = v4
	e.AddrIPv6 = v6
	return e
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantIP   string
		wantPort int
		wantURL  string
	}{
		{
			name: "bridge with IPv4",
			entry: entry("livingroom", 8765,
				[]string{"id=abc123", "version=1.2.0", "path=/ws"},
				[]net.IP{net.ParseIP("192.168.4.16")}, nil),
			wantID:   "abc123",
			wantIP:   "192.168.4.16",
			wantPort: 8765,
			wantURL:  "ws://192.168.4.16:8765/ws",
		},
		{
			name: "bridge with no port specified",
			entry: entry("kitchen", 0, []string{"id=k1"},
				[]net.IP{net.ParseIP("10.0.0.5")}, nil),
			wantID:   "k1",
			wantIP:   "10.0.0.5",
			wantPort: DefaultPort,
			wantURL:  "ws://10.0.0.5:8765/ws",
		},
		{
			name: "custom path without slash",
			entry: entry("lab", 9000, []string{"id=lab", "path=ir"},
				[]net.IP{net.ParseIP("10.0.0.6")}, nil),
			wantID:   "lab",
			wantIP:   "10.0.0.6",
			wantPort: 9000,
			wantURL:  "ws://10.0.0.6:9000/ir",
		},
		{
			name: "IPv6 only bridge",
			entry: entry("attic", 8765, []string{"id=v6"},
				nil, []net.IP{net.ParseIP("fe80::1")}),
			wantID:   "v6",
			wantIP:   "fe80::1",
			wantPort: 8765,
			wantURL:  "ws://[fe80::1]:8765/ws",
		},
		{
			name: "both address families prefers IPv4",
			entry: entry("den", 8765, []string{"id=den"},
				[]net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantID:   "den",
			wantIP:   "192.168.1.50",
			wantPort: 8765,
			wantURL:  "ws://192.168.1.50:8765/ws",
		},
		{
			name: "missing id record",
			entry: entry("stranger", 8765, []string{"version=1.0"},
				[]net.IP{net.ParseIP("192.168.1.1")}, nil),
			wantNil: true,
		},
		{
			name:    "no IP address",
			entry:   entry("ghost", 8765, []string{"id=ghost"}, nil, nil),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if bridge != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", bridge)
				}
				return
			}

			if bridge == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil bridge")
			}
			if bridge.ID != tt.wantID {
				t.Errorf("bridge.ID = %v, want %v", bridge.ID, tt.wantID)
			}
			if bridge.IP != tt.wantIP {
				t.Errorf("bridge.IP = %v, want %v", bridge.IP, tt.wantIP)
			}
			if bridge.Port != tt.wantPort {
				t.Errorf("bridge.Port = %v, want %v", bridge.Port, tt.wantPort)
			}
			if got := bridge.URL(); got != tt.wantURL {
				t.Errorf("bridge.URL() = %v, want %v", got, tt.wantURL)
			}
			if bridge.Instance != tt.entry.Instance {
				t.Errorf("bridge.Instance = %v, want %v", bridge.Instance, tt.entry.Instance)
			}
			if time.Since(bridge.DiscoveredAt) > time.Second {
				t.Errorf("bridge.DiscoveredAt is not recent: %v", bridge.DiscoveredAt)
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	got := parseTXT([]string{"id=abc", "path=/ws", "flag", "note=a=b"})

	want := map[string]string{
		"id":   "abc",
		"path": "/ws",
		"flag": "", // Key without value
		"note": "a=b",
	}
	if len(got) != len(want) {
		t.Errorf("parseTXT() has %d entries, want %d", len(got), len(want))
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("parseTXT()[%q] = %q, want %q", key, got[key], value)
		}
	}
}

func TestTXTRecordsRoundTrip(t *testing.T) {
	md := parseTXT(TXTRecords("abc", "1.0.0", "/ws"))
	if md[TXTKeyID] != "abc" || md[TXTKeyVersion] != "1.0.0" || md[TXTKeyPath] != "/ws" {
		t.Errorf("TXT records did not round trip: %v", md)
	}
}

func TestCollectorDeduplicates(t *testing.T) {
	c := newCollector()
	c.add(&Bridge{ID: "b", IP: "10.0.0.1", Port: 1})
	c.add(&Bridge{ID: "a", IP: "10.0.0.2", Port: 1})
	c.add(&Bridge{ID: "b", IP: "10.0.0.3", Port: 1})

	list := c.list()
	if len(list) != 2 {
		t.Fatalf("list() has %d bridges, want 2", len(list))
	}
	if list[0].ID != "b" || list[0].IP != "10.0.0.3" {
		t.Errorf("list()[0] = %v, want latest entry for b", list[0])
	}

	SortBridges(list)
	if list[0].ID != "a" {
		t.Errorf("SortBridges() first = %v, want a", list[0].ID)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestBridgeGetMetadata(t *testing.T) {
	var b Bridge
	if b.GetMetadata("id") != "" {
		t.Error("GetMetadata() on nil metadata should be empty")
	}
	b.Metadata = map[string]string{"id": "x"}
	if b.GetMetadata("id") != "x" {
		t.Error("GetMetadata() = wrong value")
	}
}
