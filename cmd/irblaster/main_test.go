package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/discovery"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("irblaster %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestParseRawCommand(t *testing.T) {
	cmd, err := parseRawCommand("0x23,0xCB", []string{"200002", "20 40 02"})
	if err != nil {
		t.Fatalf("parseRawCommand() error = %v", err)
	}
	if !bytes.Equal(cmd.CustomerCode, []byte{0x23, 0xCB}) {
		t.Errorf("CustomerCode = %X", cmd.CustomerCode)
	}
	if len(cmd.Payloads) != 2 || !bytes.Equal(cmd.Payloads[1], []byte{0x20, 0x40, 0x02}) {
		t.Errorf("Payloads = %X", cmd.Payloads)
	}

	tests := []struct {
		name     string
		customer string
		payloads []string
		want     string
	}{
		{"no customer", "", []string{"20"}, "--customer"},
		{"no payload", "23CB", nil, "--payload"},
		{"bad customer", "ZZ", []string{"20"}, "invalid --customer"},
		{"bad payload", "23CB", []string{"20", "123"}, "#2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRawCommand(tt.customer, tt.payloads)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestWriteEncode(t *testing.T) {
	cmd := aeha.Command{CustomerCode: []byte{0x23, 0xCB}, Payloads: [][]byte{{0x20}}}

	var text bytes.Buffer
	if err := writeEncode(&text, cmd, false, "text"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(text.String()); got != "11000100 11010011 01100100 01110000" {
		t.Errorf("text output = %q", got)
	}

	var js bytes.Buffer
	if err := writeEncode(&js, cmd, true, "json"); err != nil {
		t.Fatal(err)
	}
	var frames []encodedFrame
	if err := json.Unmarshal(js.Bytes(), &frames); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(frames) != 1 || frames[0].Bitstream != "11000100110100110110010001110000" || frames[0].Bits != 32 {
		t.Errorf("frames = %+v", frames)
	}
	if len(frames[0].Fields) != 5 {
		t.Errorf("--explain should include 5 fields, got %d", len(frames[0].Fields))
	}

	if err := writeEncode(&js, cmd, false, "xml"); err == nil {
		t.Error("unknown format should fail")
	}
	if err := writeEncode(&js, aeha.Command{CustomerCode: []byte{0x23}}, false, "text"); err == nil {
		t.Error("no payloads should fail")
	}
}

func TestWritePulses(t *testing.T) {
	cmd := aeha.Command{CustomerCode: []byte{0x23, 0xCB}, Payloads: [][]byte{{0x20}, {0x20, 0x00, 0x02}}}
	frames, err := buildFrames(cmd, aeha.DefaultTiming)
	if err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := writePulses(&js, cmd, frames, "json"); err != nil {
		t.Fatal(err)
	}
	var out []pulseFrame
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 2 || len(out[0].Pulses) != 67 || len(out[1].Pulses) != 99 {
		t.Fatalf("unexpected frames: %d", len(out))
	}
	if out[0].Pulses[0] != 3400 || out[0].Pulses[1] != 1750 {
		t.Errorf("frame should start with the leader, got %v", out[0].Pulses[:2])
	}

	var text bytes.Buffer
	if err := writePulses(&text, cmd, frames, "text"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "(3400, 1750) (436, 1308) (436, 1308) (436, 436)") {
		t.Errorf("text output missing pairs:\n%s", text.String())
	}
}

func TestPlotFile(t *testing.T) {
	if got := plotFile("out.png", 0, 1); got != "out.png" {
		t.Errorf("single frame = %q", got)
	}
	if got := plotFile("dir/out.svg", 1, 3); got != "dir/out-2.svg" {
		t.Errorf("multi frame = %q", got)
	}
}

func TestRecordBridges(t *testing.T) {
	reg := config.NewRegistry()
	bridges := []*discovery.Bridge{
		{ID: "aaa", Instance: "kitchen", IP: "192.168.1.5", Port: 8765, Path: "/ws"},
		{ID: "bbb", Instance: "lounge", IP: "192.168.1.6", Port: 8765, Path: "/ws"},
	}

	if err := recordBridges(reg, bridges, "lounge"); err != nil {
		t.Fatalf("recordBridges() error = %v", err)
	}
	if len(reg.Bridges) != 2 || reg.Bridges["aaa"].LastURL != "ws://192.168.1.5:8765/ws" {
		t.Errorf("Bridges = %+v", reg.Bridges)
	}
	if reg.Preferences.BridgeURL != "ws://192.168.1.6:8765/ws" {
		t.Errorf("BridgeURL = %q", reg.Preferences.BridgeURL)
	}

	if err := recordBridges(reg, bridges, "attic"); err == nil {
		t.Error("unknown --use bridge should fail")
	}
}

func TestRemotesAndDryRunSend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	execute(t, "--config", path, "remotes", "add", "aircon", "--customer", "23CB")
	execute(t, "--config", path, "remotes", "add-command", "aircon", "power_on", "--payload", "204002", "--payload", "204002")

	reg, err := config.LoadRegistryFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := reg.GetRemote("aircon").CommandNames(); len(got) != 1 || got[0] != "power_on" {
		t.Fatalf("commands = %v", got)
	}

	list := execute(t, "--config", path, "remotes", "list")
	if !strings.Contains(list, "aircon") || !strings.Contains(list, "23CB") {
		t.Errorf("list output = %q", list)
	}

	show := execute(t, "--config", path, "remotes", "show", "aircon")
	if !strings.Contains(show, "customer_code: 23CB") {
		t.Errorf("show output = %q", show)
	}

	sent := execute(t, "--config", path, "send", "--remote", "aircon", "--command", "power_on", "--dry-run")
	for _, want := range []string{"Send complete", "recorded frame 2: 204002", "99"} {
		if !strings.Contains(sent, want) {
			t.Errorf("send output missing %q:\n%s", want, sent)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	if out := execute(t, "version"); !strings.HasPrefix(out, "irblaster ") {
		t.Errorf("version output = %q", out)
	}
}
