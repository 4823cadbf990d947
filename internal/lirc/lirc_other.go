//go:build !linux

package lirc

import "github.com/muurk/irblaster/internal/aeha"

// Device is a LIRC transmitter. LIRC is only available on Linux.
type Device struct{}

// Open always fails on this platform
func Open(path string, opts Options) (*Device, error) {
	return nil, ErrUnsupported
}

// Path returns an empty string
func (d *Device) Path() string { return "" }

// WritePulses always fails on this platform
func (d *Device) WritePulses(frame aeha.PulseFrame) error {
	return ErrUnsupported
}

// Done always reports true
func (d *Device) Done() bool { return true }

// Close does nothing
func (d *Device) Close() error { return nil }
