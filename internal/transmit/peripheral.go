package transmit

import (
	"sync"

	"github.com/muurk/irblaster/internal/aeha"
)

// Peripheral is a pulse-generation device that drives the IR LED.
//
// WritePulses starts transmitting a frame and may return before the frame has
// left the LED. Done reports whether the last written frame has finished.
type Peripheral interface {
	WritePulses(frame aeha.PulseFrame) error
	Done() bool
}

// ErrorReporter is implemented by peripherals that learn about failures only
// after a frame completes (e.g. a remote bridge). The driver calls Err once
// Done reports true; Err returns the failure and clears it.
type ErrorReporter interface {
	Err() error
}

// Recorder is an in-memory Peripheral that records every frame.
// It backs --dry-run and the tests of everything that transmits.
type Recorder struct {
	// PollsUntilDone is how many Done calls return false after each write
	PollsUntilDone int
	// Stuck makes Done never report completion
	Stuck bool
	// WriteErr is returned by WritePulses when set
	WriteErr error
	// DoneErr is reported through Err after each frame completes
	DoneErr error

	mu      sync.Mutex
	frames  []aeha.PulseFrame
	polls   int
	pending bool
}

// NewRecorder creates a Recorder that completes immediately
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WritePulses implements Peripheral
func (r *Recorder) WritePulses(frame aeha.PulseFrame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.WriteErr != nil {
		return r.WriteErr
	}
	r.frames = append(r.frames, append(aeha.PulseFrame(nil), frame...))
	r.polls = 0
	r.pending = true
	return nil
}

// Done implements Peripheral
func (r *Recorder) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.pending {
		return true
	}
	if r.Stuck {
		return false
	}
	r.polls++
	if r.polls > r.PollsUntilDone {
		r.pending = false
		return true
	}
	return false
}

// Err implements ErrorReporter
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending {
		return nil
	}
	return r.DoneErr
}

// Frames returns a copy of every recorded frame
func (r *Recorder) Frames() []aeha.PulseFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]aeha.PulseFrame(nil), r.frames...)
}

// Polls returns the number of Done calls made for the current frame
func (r *Recorder) Polls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polls
}

// Reset discards recorded frames
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
	r.polls = 0
	r.pending = false
}
