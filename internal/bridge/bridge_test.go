package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/transmit"
)

var customerCode = []byte{0x23, 0xCB}

type session struct {
	server   *Server
	rec      *transmit.Recorder
	client   *Client
	httpTest *httptest.Server
}

func startSession(t *testing.T) *session {
	t.Helper()

	rec := transmit.NewRecorder()
	srv, err := New(&Config{Peripheral: rec})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := Dial(ctx, url)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		ts.Close()
	})

	return &session{server: srv, rec: rec, client: client, httpTest: ts}
}

func newClientDriver(c *Client) *transmit.Driver {
	drv := transmit.NewDriver(c)
	drv.PollTimeout = 2 * time.Second
	return drv
}

func TestDriverThroughBridge(t *testing.T) {
	s := startSession(t)
	drv := newClientDriver(s.client)

	payloads := [][]byte{{0x20, 0x00, 0x02}, {0x12, 0x34, 0x56}}
	require.NoError(t, drv.Send(context.Background(), customerCode, payloads...))

	frames := s.rec.Frames()
	require.Len(t, frames, 2)
	for i, p := range payloads {
		want, err := aeha.DefaultTiming.FrameFor(customerCode, p)
		require.NoError(t, err)
		require.Equal(t, want, frames[i])
	}
	require.True(t, s.client.Done())
}

func TestBridgeRejectsInvalidFrame(t *testing.T) {
	s := startSession(t)
	drv := newClientDriver(s.client)

	err := drv.SendFrame(context.Background(), aeha.PulseFrame{3400, 1750})
	require.True(t, transmit.IsPeripheralError(err))

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Contains(t, remote.Message, "odd number")
	require.Empty(t, s.rec.Frames())

	// The client recovers for the next frame
	require.NoError(t, drv.SendFrame(context.Background(), aeha.PulseFrame{3400, 1750, 436}))
	require.Len(t, s.rec.Frames(), 1)
}

func TestBridgePeripheralFailure(t *testing.T) {
	s := startSession(t)
	s.rec.WriteErr = errors.New("device unplugged")
	drv := newClientDriver(s.client)

	err := drv.Send(context.Background(), customerCode, []byte{0x20})
	require.True(t, transmit.IsPeripheralError(err))
	require.Contains(t, err.Error(), "device unplugged")
}

func TestClientSendCommand(t *testing.T) {
	s := startSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := aeha.Command{CustomerCode: customerCode, Payloads: [][]byte{{0x20}, {0x21}}}
	require.NoError(t, s.client.SendCommand(ctx, cmd))
	require.Len(t, s.rec.Frames(), 2)

	err := s.client.SendCommand(ctx, aeha.Command{CustomerCode: customerCode, Payloads: [][]byte{{}}})
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	require.Contains(t, remote.Message, "payload")

	err = s.client.SendCommand(ctx, aeha.Command{CustomerCode: customerCode})
	require.ErrorAs(t, err, &remote)
}

func TestClientAfterClose(t *testing.T) {
	s := startSession(t)
	require.NoError(t, s.client.Close())

	require.True(t, s.client.Done())
	require.ErrorIs(t, s.client.WritePulses(aeha.PulseFrame{436}), ErrClosed)
	require.ErrorIs(t, s.client.SendCommand(context.Background(), aeha.Command{}), ErrClosed)
}

func TestHealthz(t *testing.T) {
	s := startSession(t)

	drv := newClientDriver(s.client)
	require.NoError(t, drv.Send(context.Background(), customerCode, []byte{0x20}))

	resp, err := http.Get(s.httpTest.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, s.server.ID(), health.ID)
	require.Equal(t, 1, health.Connections)
	require.Equal(t, uint64(1), health.Sent)
}

func TestHandleRequestUnknownType(t *testing.T) {
	srv, err := New(&Config{Peripheral: transmit.NewRecorder()})
	require.NoError(t, err)

	reply := srv.handleRequest(context.Background(), Request{Type: "reboot", ID: 7})
	require.Equal(t, TypeError, reply.Type)
	require.Equal(t, uint64(7), reply.ID)
	require.Contains(t, reply.Error, "unknown request type")
}

func TestNewRequiresPeripheral(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)

	_, err = New(&Config{Peripheral: transmit.NewRecorder(), Timing: aeha.Timing{Unit: 1}})
	require.Error(t, err)
}

func TestStartStopsOnCancel(t *testing.T) {
	srv, err := New(&Config{Host: "127.0.0.1", Port: 0, Peripheral: transmit.NewRecorder()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestRequestJSON(t *testing.T) {
	cmd := aeha.Command{CustomerCode: customerCode, Payloads: [][]byte{{0x20, 0x00, 0x02}}}
	data, err := json.Marshal(NewCommandRequest(3, cmd))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"command","id":3,"customer_code":"23CB","payloads":["200002"]}`, string(data))

	var req Request
	require.NoError(t, json.Unmarshal(data, &req))
	require.Equal(t, cmd, req.Command())

	data, err = json.Marshal(NewPulsesRequest(4, aeha.PulseFrame{3400, 1750, 436}))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"pulses","id":4,"pulses":[3400,1750,436]}`, string(data))
}

func TestRequestFrame(t *testing.T) {
	tests := []struct {
		name    string
		pulses  []uint32
		wantErr string
	}{
		{"valid", []uint32{3400, 1750, 436}, ""},
		{"empty", nil, "no pulses"},
		{"even", []uint32{3400, 1750}, "odd number"},
		{"zero", []uint32{3400, 0, 436}, "zero duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Request{Type: TypePulses, Pulses: tt.pulses}.Frame()
			if tt.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, aeha.PulseFrame(tt.pulses), frame)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBridgeID(t *testing.T) {
	id := BridgeID()
	require.NotEmpty(t, id)
	require.Equal(t, id, BridgeID(), "ID must be stable")
}
