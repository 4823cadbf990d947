//go:build linux

package lirc

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/logging"
)

// ioctl request numbers from <linux/lirc.h>
const (
	lircGetFeatures      = 0x80046900 // _IOR('i', 0x00, __u32)
	lircSetSendCarrier   = 0x40046913 // _IOW('i', 0x13, __u32)
	lircSetSendDutyCycle = 0x40046915 // _IOW('i', 0x15, __u32)

	lircCanSendPulse = 0x00000002
)

// Device is a LIRC transmitter. It implements transmit.Peripheral.
type Device struct {
	path string

	mu      sync.Mutex
	file    *os.File
	pending bool
}

// Open opens a LIRC device for writing and applies opts
func Open(path string, opts Options) (*Device, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	d := &Device{path: path, file: f}
	if err := d.configure(opts); err != nil {
		f.Close()
		return nil, err
	}

	logging.Info("Opened LIRC device",
		zap.String("path", path),
		zap.Uint32("carrier_hz", opts.CarrierHz),
		zap.Uint32("duty_cycle", opts.DutyCycle),
	)
	return d, nil
}

func (d *Device) configure(opts Options) error {
	fd := int(d.file.Fd())

	features, err := unix.IoctlGetUint32(fd, lircGetFeatures)
	switch {
	case isNotTTY(err):
		logging.Debug("Device does not report LIRC features", zap.String("path", d.path))
	case err != nil:
		return fmt.Errorf("failed to read features of %s: %w", d.path, err)
	case features&lircCanSendPulse == 0:
		return fmt.Errorf("%s cannot send pulses (features 0x%08x)", d.path, features)
	}

	if opts.CarrierHz > 0 {
		if err := setUint(fd, lircSetSendCarrier, opts.CarrierHz); err != nil {
			return fmt.Errorf("failed to set carrier on %s: %w", d.path, err)
		}
	}
	if opts.DutyCycle > 0 {
		if err := setUint(fd, lircSetSendDutyCycle, opts.DutyCycle); err != nil {
			return fmt.Errorf("failed to set duty cycle on %s: %w", d.path, err)
		}
	}
	return nil
}

// setUint issues a write ioctl, ignoring devices that do not implement it
func setUint(fd int, req uint, value uint32) error {
	err := unix.IoctlSetPointerInt(fd, req, int(value))
	if isNotTTY(err) || errors.Is(err, unix.EINVAL) {
		logging.Debug("Ignoring unsupported LIRC ioctl",
			zap.Uint("request", req),
			zap.Error(err),
		)
		return nil
	}
	return err
}

func isNotTTY(err error) bool {
	return errors.Is(err, unix.ENOTTY)
}

// Path returns the device path
func (d *Device) Path() string {
	return d.path
}

// WritePulses transmits frame. The call blocks until the kernel has sent it.
func (d *Device) WritePulses(frame aeha.PulseFrame) error {
	if err := validateFrame(frame); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return ErrClosed
	}

	d.pending = true
	buf := EncodeFrame(frame)
	n, err := d.file.Write(buf)
	d.pending = false
	if err != nil {
		return fmt.Errorf("failed to write to %s: %w", d.path, err)
	}
	if n != len(buf) {
		return fmt.Errorf("short write to %s: %d of %d bytes", d.path, n, len(buf))
	}

	logging.LogRawBytes("LIRC write", buf)
	return nil
}

// Done reports whether the last frame has been transmitted
func (d *Device) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.pending
}

// Close closes the device
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
