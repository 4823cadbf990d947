package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/transmit"
)

func testRegistry(t *testing.T) *config.Registry {
	t.Helper()
	reg := config.NewRegistry()
	reg.EnsureRemote("aircon", []byte{0x23, 0xCB})
	if err := reg.SetCommand("aircon", "power_off", "Off", []byte{0x20, 0x00, 0x02}); err != nil {
		t.Fatal(err)
	}
	if err := reg.SetCommand("aircon", "power_on", "On", []byte{0x20, 0x40, 0x02}, []byte{0x20, 0x40, 0x02}); err != nil {
		t.Fatal(err)
	}
	return reg
}

// runSend executes the send command from a batch, skipping the spinner tick
func runSend(t *testing.T, cmd tea.Cmd) sentMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatal("expected a batch of commands")
	}
	msg, ok := batch[0]().(sentMsg)
	if !ok {
		t.Fatal("first command should transmit")
	}
	return msg
}

func TestCommandItems(t *testing.T) {
	items := CommandItems(testRegistry(t))
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}

	first := items[0].(commandItem)
	if first.Title() != "aircon › power_off" {
		t.Errorf("Title() = %q", first.Title())
	}
	if got := items[1].(commandItem).Description(); got != "On • 2 frames" {
		t.Errorf("Description() = %q", got)
	}
}

func TestRemoteModelSend(t *testing.T) {
	rec := transmit.NewRecorder()
	d := transmit.NewDriver(rec)
	d.Sleep = noSleep

	m := NewRemoteModel(context.Background(), testRegistry(t), d, "dry-run")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(RemoteModel)
	if !strings.Contains(m.View(), "Sending aircon › power_off") {
		t.Error("view should show the command being sent")
	}

	// A second enter while sending is ignored
	if _, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); again != nil {
		t.Error("enter while sending should not start another transmission")
	}

	msg := runSend(t, cmd)
	if msg.err != nil {
		t.Fatalf("send error = %v", msg.err)
	}

	next, _ = m.Update(msg)
	m = next.(RemoteModel)
	if m.Sent() != 1 {
		t.Errorf("Sent() = %d, want 1", m.Sent())
	}
	if len(rec.Frames()) != 1 {
		t.Errorf("frames written = %d, want 1", len(rec.Frames()))
	}
	if !strings.Contains(m.View(), "sent in") {
		t.Error("view should report the completed send")
	}
}

func TestRemoteModelSendFailure(t *testing.T) {
	d := transmit.NewDriver(&transmit.Recorder{WriteErr: errors.New("no device")})
	d.Sleep = noSleep

	m := NewRemoteModel(context.Background(), testRegistry(t), d, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msg := runSend(t, cmd)
	next, _ := m.Update(msg)
	m = next.(RemoteModel)

	if !transmit.IsPeripheralError(m.LastError()) {
		t.Errorf("LastError() = %v, want peripheral error", m.LastError())
	}
	if m.Sent() != 0 {
		t.Error("failed sends should not be counted")
	}
	if !strings.Contains(m.View(), "no device") {
		t.Error("view should show the failure")
	}
}

func TestRemoteModelQuit(t *testing.T) {
	m := NewRemoteModel(context.Background(), testRegistry(t), transmit.NewDriver(transmit.NewRecorder()), "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestRemoteModelEmpty(t *testing.T) {
	m := NewRemoteModel(context.Background(), config.NewRegistry(), transmit.NewDriver(transmit.NewRecorder()), "")

	if !strings.Contains(m.View(), "No remote commands") {
		t.Error("empty registry should show a hint")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter with nothing selected should do nothing")
	}
}
