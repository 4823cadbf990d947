package aeha

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestGenerateFrame(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name string
		bits Bitstream
		want PulseFrame
	}{
		{"empty stream", "", PulseFrame{3400, 1750, 436}},
		{"zero", "0", PulseFrame{3400, 1750, 436, 436, 436}},
		{"one", "1", PulseFrame{3400, 1750, 436, 1308, 436}},
		{"zero one", "01", PulseFrame{3400, 1750, 436, 436, 436, 1308, 436}},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			frame, err := GenerateFrame(tt.bits)
			c.Assert(err, qt.IsNil)
			c.Assert(frame, qt.DeepEquals, tt.want)
		})
	}
}

func TestGenerateFrameLength(t *testing.T) {
	c := qt.New(t)

	for _, n := range []int{0, 1, 7, 32, 48, 200} {
		bits := Bitstream(strings.Repeat("10", n)[:n])
		frame, err := GenerateFrame(bits)
		c.Assert(err, qt.IsNil)
		c.Assert(frame, qt.HasLen, 2*n+3)
		c.Assert(FrameLength(n), qt.Equals, 2*n+3)
	}
}

func TestGenerateFrameRejectsInvalidCharacters(t *testing.T) {
	c := qt.New(t)

	for _, bits := range []Bitstream{"2", "01 1", "0b01"} {
		frame, err := GenerateFrame(bits)
		c.Assert(frame, qt.IsNil)
		c.Assert(IsValidationError(err), qt.IsTrue, qt.Commentf("bits %q", bits))
	}
}

func TestGenerateFrameFromEncodedStream(t *testing.T) {
	c := qt.New(t)

	bits, err := Encode([]byte{0x23, 0xCB}, []byte{0x20})
	c.Assert(err, qt.IsNil)

	frame, err := GenerateFrame(bits)
	c.Assert(err, qt.IsNil)
	c.Assert(frame, qt.HasLen, FrameLength(32))

	// Every bit maps to a T mark followed by a T or 3T space
	for i := 0; i < bits.Len(); i++ {
		mark, space := frame[2+2*i], frame[3+2*i]
		c.Assert(mark, qt.Equals, uint32(UnitUS))
		if bits[i] == '1' {
			c.Assert(space, qt.Equals, uint32(3*UnitUS))
		} else {
			c.Assert(space, qt.Equals, uint32(UnitUS))
		}
	}
	c.Assert(frame[len(frame)-1], qt.Equals, uint32(UnitUS))
}

func TestTimingVariant(t *testing.T) {
	c := qt.New(t)

	timing := Timing{Unit: 400, HeaderMark: 3200, HeaderSpace: 1600, FrameGap: 10000}
	frame, err := timing.Pulses("10")
	c.Assert(err, qt.IsNil)
	c.Assert(frame, qt.DeepEquals, PulseFrame{3200, 1600, 400, 1200, 400, 400, 400})
}

func TestTimingValidate(t *testing.T) {
	c := qt.New(t)

	c.Assert(DefaultTiming.Validate(), qt.IsNil)

	tests := []struct {
		name   string
		timing Timing
	}{
		{"zero unit", Timing{HeaderMark: 1, HeaderSpace: 1}},
		{"zero header mark", Timing{Unit: 1, HeaderSpace: 1}},
		{"zero header space", Timing{Unit: 1, HeaderMark: 1}},
		{"duty cycle over 100", Timing{Unit: 1, HeaderMark: 1, HeaderSpace: 1, DutyCycle: 101}},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(IsValidationError(tt.timing.Validate()), qt.IsTrue)
			_, err := tt.timing.Pulses("01")
			c.Assert(IsValidationError(err), qt.IsTrue)
		})
	}
}

func TestTimingDurations(t *testing.T) {
	c := qt.New(t)

	c.Assert(DefaultTiming.UnitDuration(), qt.Equals, 436*time.Microsecond)
	c.Assert(DefaultTiming.GapDuration(), qt.Equals, 8*time.Millisecond)
}

func TestPulseFrameDurationAndPairs(t *testing.T) {
	c := qt.New(t)

	frame := PulseFrame{3400, 1750, 436, 436, 436, 1308, 436}
	c.Assert(frame.Duration(), qt.Equals, 8202*time.Microsecond)
	c.Assert(frame.Pairs(), qt.DeepEquals, []MarkSpace{
		{Mark: 3400, Space: 1750},
		{Mark: 436, Space: 436},
		{Mark: 436, Space: 1308},
		{Mark: 436},
	})
	c.Assert(MarkSpace{Mark: 436, Space: 1308}.String(), qt.Equals, "(436, 1308)")
}

func TestFrameFor(t *testing.T) {
	c := qt.New(t)

	frame, err := DefaultTiming.FrameFor([]byte{0x23, 0xCB}, []byte{0x20, 0x00, 0x02})
	c.Assert(err, qt.IsNil)
	c.Assert(frame, qt.HasLen, FrameLength(48))

	_, err = DefaultTiming.FrameFor([]byte{0x23, 0xCB}, nil)
	c.Assert(IsValidationError(err), qt.IsTrue)
}
