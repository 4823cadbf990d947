// Package transmit drives an IR peripheral with AEHA frames.
//
// A Driver encodes every payload of a command up front, then for each frame
// writes the pulse durations to a Peripheral, polls Done at the protocol's
// unit interval until the frame has left the LED, and waits the inter-frame
// gap before the next one.
//
// Peripherals:
//   - lirc.Device writes to a Linux /dev/lircN transmitter
//   - bridge.Client forwards frames to a remote irblaster-bridge
//   - Recorder keeps frames in memory (dry runs and tests)
//
// Usage:
//
//	drv := transmit.NewDriver(dev)
//	drv.PollTimeout = time.Second
//	err := drv.Send(ctx, []byte{0x23, 0xCB}, []byte{0x20})
//	if transmit.IsPeripheralError(err) {
//	    // device rejected the frame
//	}
//
// Errors:
//
// All errors returned by Driver are *Error values. Use IsInvocationError,
// IsEncodeError, IsPeripheralError, IsTimeoutError and IsCanceled to
// classify them; the underlying cause is available through errors.Unwrap.
package transmit
