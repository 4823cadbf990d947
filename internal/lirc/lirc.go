package lirc

import (
	"encoding/binary"
	"errors"

	"github.com/muurk/irblaster/internal/aeha"
)

// DefaultDevice is the first LIRC transmitter
const DefaultDevice = "/dev/lirc0"

// ErrUnsupported is returned by Open on platforms without LIRC
var ErrUnsupported = errors.New("lirc: not supported on this platform")

// ErrClosed is returned when writing to a closed device
var ErrClosed = errors.New("lirc: device closed")

// Options configures a device when it is opened
type Options struct {
	// CarrierHz sets the modulation frequency (0 leaves the driver default)
	CarrierHz uint32
	// DutyCycle sets the carrier duty cycle in percent (0 leaves the driver default)
	DutyCycle uint32
}

// OptionsFromTiming returns the carrier settings of t
func OptionsFromTiming(t aeha.Timing) Options {
	return Options{CarrierHz: t.CarrierHz, DutyCycle: t.DutyCycle}
}

// EncodeFrame serialises a pulse frame into the byte layout the kernel
// expects: one uint32 per duration in host byte order.
func EncodeFrame(frame aeha.PulseFrame) []byte {
	buf := make([]byte, 4*len(frame))
	for i, us := range frame {
		binary.NativeEndian.PutUint32(buf[4*i:], us)
	}
	return buf
}

func validateFrame(frame aeha.PulseFrame) error {
	if len(frame) == 0 {
		return errors.New("lirc: empty frame")
	}
	if len(frame)%2 == 0 {
		return errors.New("lirc: frame must have an odd number of durations")
	}
	return nil
}
