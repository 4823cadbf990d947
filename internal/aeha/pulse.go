package aeha

import (
	"fmt"
	"time"
)

// AEHA protocol timing in microseconds
const (
	// UnitUS is the base pulse width T
	UnitUS = 436
	// HeaderMarkUS is the leader mark
	HeaderMarkUS = 3400
	// HeaderSpaceUS is the leader space
	HeaderSpaceUS = 1750
	// FrameGapUS is the silence between consecutive frames of one command
	FrameGapUS = 8000

	// CarrierHz is the IR modulation frequency
	CarrierHz = 38_000
	// DutyCycle is the carrier duty cycle in percent
	DutyCycle = 33
)

// Timing holds the pulse widths (microseconds) used to turn a bitstream into
// a pulse frame.
type Timing struct {
	Unit        uint32 `json:"unit_us" yaml:"unit_us"`
	HeaderMark  uint32 `json:"header_mark_us" yaml:"header_mark_us"`
	HeaderSpace uint32 `json:"header_space_us" yaml:"header_space_us"`
	FrameGap    uint32 `json:"frame_gap_us" yaml:"frame_gap_us"`
	CarrierHz   uint32 `json:"carrier_hz" yaml:"carrier_hz"`
	DutyCycle   uint32 `json:"duty_cycle" yaml:"duty_cycle"`
}

// DefaultTiming is the standard AEHA timing
var DefaultTiming = Timing{
	Unit:        UnitUS,
	HeaderMark:  HeaderMarkUS,
	HeaderSpace: HeaderSpaceUS,
	FrameGap:    FrameGapUS,
	CarrierHz:   CarrierHz,
	DutyCycle:   DutyCycle,
}

// Validate checks that every pulse width is non-zero
func (t Timing) Validate() error {
	switch {
	case t.Unit == 0:
		return NewValidationError("timing.unit_us", "must be greater than zero")
	case t.HeaderMark == 0:
		return NewValidationError("timing.header_mark_us", "must be greater than zero")
	case t.HeaderSpace == 0:
		return NewValidationError("timing.header_space_us", "must be greater than zero")
	case t.DutyCycle > 100:
		return NewValidationError("timing.duty_cycle", fmt.Sprintf("must be 0-100, got %d", t.DutyCycle))
	}
	return nil
}

// UnitDuration returns T as a time.Duration
func (t Timing) UnitDuration() time.Duration {
	return time.Duration(t.Unit) * time.Microsecond
}

// GapDuration returns the inter-frame gap as a time.Duration
func (t Timing) GapDuration() time.Duration {
	return time.Duration(t.FrameGap) * time.Microsecond
}

// PulseFrame is a sequence of pulse durations in microseconds, alternating
// mark (LED on) and space (LED off), starting and ending with a mark.
type PulseFrame []uint32

// FrameLength returns the pulse count for a bitstream of n bits
func FrameLength(n int) int {
	return 2 + 2*n + 1
}

// Duration returns the total on-air time of the frame
func (f PulseFrame) Duration() time.Duration {
	var total uint64
	for _, us := range f {
		total += uint64(us)
	}
	return time.Duration(total) * time.Microsecond
}

// MarkSpace is one mark/space pair of a frame
type MarkSpace struct {
	Mark  uint32 `json:"mark"`
	Space uint32 `json:"space"`
}

// String returns the pair as "(mark, space)"
func (m MarkSpace) String() string {
	return fmt.Sprintf("(%d, %d)", m.Mark, m.Space)
}

// Pairs groups the frame into mark/space pairs. The trailing mark is returned
// with a zero space.
func (f PulseFrame) Pairs() []MarkSpace {
	pairs := make([]MarkSpace, 0, (len(f)+1)/2)
	for i := 0; i < len(f); i += 2 {
		p := MarkSpace{Mark: f[i]}
		if i+1 < len(f) {
			p.Space = f[i+1]
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// Pulses converts a bitstream into a pulse frame.
//
// The frame is [HeaderMark, HeaderSpace], then [T, T] for every '0' and
// [T, 3T] for every '1', then a trailing [T]. Any other character is
// rejected with a validation error.
func (t Timing) Pulses(bits Bitstream) (PulseFrame, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	frame := make(PulseFrame, 0, FrameLength(len(bits)))
	frame = append(frame, t.HeaderMark, t.HeaderSpace)
	for i := 0; i < len(bits); i++ {
		switch bits[i] {
		case '0':
			frame = append(frame, t.Unit, t.Unit)
		case '1':
			frame = append(frame, t.Unit, 3*t.Unit)
		default:
			return nil, NewValidationError(fmt.Sprintf("bits[%d]", i),
				fmt.Sprintf("invalid bit character %q (expected '0' or '1')", bits[i]))
		}
	}
	frame = append(frame, t.Unit)

	return frame, nil
}

// FrameFor encodes one payload and converts it into a pulse frame
func (t Timing) FrameFor(customerCode, payload []byte) (PulseFrame, error) {
	bits, err := Encode(customerCode, payload)
	if err != nil {
		return nil, err
	}
	return t.Pulses(bits)
}

// GenerateFrame converts a bitstream into a pulse frame using DefaultTiming
func GenerateFrame(bits Bitstream) (PulseFrame, error) {
	return DefaultTiming.Pulses(bits)
}
