package lirc

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/muurk/irblaster/internal/aeha"
)

func TestEncodeFrame(t *testing.T) {
	c := qt.New(t)

	frame := aeha.PulseFrame{3400, 1750, 436, 436, 436, 1308, 436}
	buf := EncodeFrame(frame)
	c.Assert(buf, qt.HasLen, 4*len(frame))

	for i, want := range frame {
		c.Assert(binary.NativeEndian.Uint32(buf[4*i:]), qt.Equals, want)
	}
}

func TestEncodeFrameLittleEndian(t *testing.T) {
	c := qt.New(t)

	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 1)
	if probe[0] != 1 {
		c.Skip("host is big-endian")
	}

	c.Assert(EncodeFrame(aeha.PulseFrame{3400}), qt.DeepEquals, []byte{0x48, 0x0D, 0x00, 0x00})
}

func TestValidateFrame(t *testing.T) {
	c := qt.New(t)

	c.Assert(validateFrame(aeha.PulseFrame{436}), qt.IsNil)
	c.Assert(validateFrame(nil), qt.ErrorMatches, "lirc: empty frame")
	c.Assert(validateFrame(aeha.PulseFrame{3400, 1750}), qt.ErrorMatches, ".*odd number.*")
}

func TestOptionsFromTiming(t *testing.T) {
	c := qt.New(t)

	opts := OptionsFromTiming(aeha.DefaultTiming)
	c.Assert(opts, qt.Equals, Options{CarrierHz: 38_000, DutyCycle: 33})
}
