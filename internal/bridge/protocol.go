package bridge

import (
	"fmt"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/config"
)

// Message types exchanged over the bridge websocket
const (
	// TypePulses asks the bridge to transmit one prepared pulse frame
	TypePulses = "pulses"
	// TypeCommand asks the bridge to encode and transmit a whole command
	TypeCommand = "command"
	// TypeDone acknowledges a completed request
	TypeDone = "done"
	// TypeError reports a failed request
	TypeError = "error"
)

// Request is a client to bridge message
type Request struct {
	Type string `json:"type"`
	ID   uint64 `json:"id"`

	// pulses
	Pulses []uint32 `json:"pulses,omitempty"`

	// command
	CustomerCode config.HexBytes   `json:"customer_code,omitempty"`
	Payloads     []config.HexBytes `json:"payloads,omitempty"`
}

// Reply is a bridge to client message
type Reply struct {
	Type  string `json:"type"`
	ID    uint64 `json:"id"`
	Error string `json:"error,omitempty"`
}

// Health is the body of GET /healthz
type Health struct {
	Status      string `json:"status"`
	ID          string `json:"id"`
	Version     string `json:"version"`
	Connections int    `json:"connections"`
	Sent        uint64 `json:"frames_sent"`
}

// NewPulsesRequest builds a pulses request
func NewPulsesRequest(id uint64, frame aeha.PulseFrame) Request {
	return Request{Type: TypePulses, ID: id, Pulses: []uint32(frame)}
}

// NewCommandRequest builds a command request
func NewCommandRequest(id uint64, cmd aeha.Command) Request {
	req := Request{Type: TypeCommand, ID: id, CustomerCode: config.HexBytes(cmd.CustomerCode)}
	for _, p := range cmd.Payloads {
		req.Payloads = append(req.Payloads, config.HexBytes(p))
	}
	return req
}

// Frame returns the pulse frame of a pulses request
func (r Request) Frame() (aeha.PulseFrame, error) {
	if len(r.Pulses) == 0 {
		return nil, fmt.Errorf("pulses request has no pulses")
	}
	if len(r.Pulses)%2 == 0 {
		return nil, fmt.Errorf("pulse frame must have an odd number of durations, got %d", len(r.Pulses))
	}
	for i, us := range r.Pulses {
		if us == 0 {
			return nil, fmt.Errorf("pulse %d has zero duration", i)
		}
	}
	return aeha.PulseFrame(r.Pulses), nil
}

// Command returns the AEHA command of a command request
func (r Request) Command() aeha.Command {
	cmd := aeha.Command{CustomerCode: []byte(r.CustomerCode)}
	for _, p := range r.Payloads {
		cmd.Payloads = append(cmd.Payloads, []byte(p))
	}
	return cmd
}

func doneReply(id uint64) Reply {
	return Reply{Type: TypeDone, ID: id}
}

func errorReply(id uint64, err error) Reply {
	return Reply{Type: TypeError, ID: id, Error: err.Error()}
}

// RemoteError is a failure reported by the bridge
type RemoteError struct {
	ID      uint64
	Message string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("bridge request %d failed: %s", e.ID, e.Message)
}

func (r Reply) err() error {
	if r.Type == TypeError {
		return &RemoteError{ID: r.ID, Message: r.Error}
	}
	return nil
}
