// Package lirc drives Linux kernel IR transmitters (/dev/lircN).
//
// The kernel accepts a raw pulse frame as an odd-length array of uint32
// microsecond durations in host byte order, alternating pulse and space and
// starting and ending with a pulse. That is exactly the shape of
// aeha.PulseFrame, so a Device writes frames without any conversion other
// than serialisation.
//
// A write blocks until the kernel has finished transmitting, so Done reports
// true as soon as WritePulses has returned.
//
// Carrier and duty cycle are set with the LIRC_SET_SEND_CARRIER and
// LIRC_SET_SEND_DUTY_CYCLE ioctls when the device is opened. Devices (and
// regular files used for captures) that do not support those ioctls are
// accepted.
package lirc
