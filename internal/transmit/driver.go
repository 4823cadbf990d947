package transmit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/logging"
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// FrameEvent describes a frame that has been fully transmitted
type FrameEvent struct {
	Index int // 0-based frame index
	Total int // Frames in this send
	Bits  aeha.Bitstream
	Frame aeha.PulseFrame
}

// Driver sends AEHA commands through a Peripheral.
//
// For every payload the driver writes one pulse frame, polls the peripheral
// every Timing.Unit until it reports completion, then waits Timing.FrameGap.
// A Driver is not safe for concurrent use.
type Driver struct {
	Peripheral Peripheral
	Timing     aeha.Timing

	// PollTimeout bounds the wait for one frame to complete (0 = no limit)
	PollTimeout time.Duration

	// Sleep is used for the poll interval and the frame gap
	Sleep SleepFunc

	// OnFrame is called after each frame completes (optional)
	OnFrame func(FrameEvent)
}

// NewDriver creates a driver with the standard AEHA timing
func NewDriver(p Peripheral) *Driver {
	return &Driver{
		Peripheral: p,
		Timing:     aeha.DefaultTiming,
		Sleep:      SleepContext,
	}
}

// SleepContext sleeps for d, returning early with ctx.Err() if ctx is done
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Send encodes and transmits one frame per payload.
//
// Returns an invocation error, before anything is written, when no payloads
// are given. All payloads are encoded before the first frame is written, so
// an invalid payload never results in a partial transmission.
func (d *Driver) Send(ctx context.Context, customerCode []byte, payloads ...[]byte) error {
	return d.SendCommand(ctx, aeha.Command{CustomerCode: customerCode, Payloads: payloads})
}

// SendCommand transmits every payload of cmd
func (d *Driver) SendCommand(ctx context.Context, cmd aeha.Command) error {
	if len(cmd.Payloads) == 0 {
		return newError(ErrTypeInvocation, -1, "send requires at least one payload", ErrNoPayloads)
	}

	streams, err := aeha.EncodeCommand(cmd)
	if err != nil {
		return newError(ErrTypeEncode, -1, "failed to encode command", err)
	}

	frames := make([]aeha.PulseFrame, len(streams))
	for i, bits := range streams {
		frame, err := d.Timing.Pulses(bits)
		if err != nil {
			return newError(ErrTypeEncode, i, "failed to generate pulses", err)
		}
		frames[i] = frame
	}

	logging.Info("Sending command",
		zap.String("customer_code", fmt.Sprintf("%X", cmd.CustomerCode)),
		zap.Int("frames", len(frames)),
	)

	for i, frame := range frames {
		logging.LogFrame("Transmitting frame", streams[i], frame)

		if err := d.transmit(ctx, i, frame); err != nil {
			return err
		}
		if d.OnFrame != nil {
			d.OnFrame(FrameEvent{Index: i, Total: len(frames), Bits: streams[i], Frame: frame})
		}
		if err := d.sleep(ctx, d.Timing.GapDuration()); err != nil {
			return newError(ErrTypeCanceled, i, "canceled during frame gap", err)
		}
	}

	return nil
}

// SendFrame writes a prepared pulse frame and waits for it to complete.
// No frame gap is applied.
func (d *Driver) SendFrame(ctx context.Context, frame aeha.PulseFrame) error {
	if len(frame) == 0 {
		return newError(ErrTypeInvocation, -1, "frame is empty", nil)
	}
	return d.transmit(ctx, 0, frame)
}

// transmit writes one frame and polls until the peripheral reports done
func (d *Driver) transmit(ctx context.Context, index int, frame aeha.PulseFrame) error {
	if err := ctx.Err(); err != nil {
		return newError(ErrTypeCanceled, index, "canceled before write", err)
	}

	if err := d.Peripheral.WritePulses(frame); err != nil {
		logging.Error("Peripheral rejected frame",
			zap.Int("frame", index),
			zap.Error(err),
		)
		return newError(ErrTypePeripheral, index, "failed to write pulses", err)
	}

	interval := d.Timing.UnitDuration()
	var waited time.Duration
	polls := 0
	for !d.Peripheral.Done() {
		if d.PollTimeout > 0 && waited >= d.PollTimeout {
			return newError(ErrTypeTimeout, index,
				"peripheral did not complete within "+d.PollTimeout.String(), nil)
		}
		if err := d.sleep(ctx, interval); err != nil {
			return newError(ErrTypeCanceled, index, "canceled while waiting for peripheral", err)
		}
		waited += interval
		polls++
	}

	if reporter, ok := d.Peripheral.(ErrorReporter); ok {
		if err := reporter.Err(); err != nil {
			return newError(ErrTypePeripheral, index, "peripheral reported failure", err)
		}
	}

	logging.Debug("Frame complete",
		zap.Int("frame", index),
		zap.Int("polls", polls),
	)
	return nil
}

func (d *Driver) sleep(ctx context.Context, dur time.Duration) error {
	sleep := d.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	err := sleep(ctx, dur)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	// Sleep implementations only fail on cancellation; normalise anything else
	return context.Canceled
}
