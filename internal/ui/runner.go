package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/transmit"
)

// RunnerConfig holds what a send prints around the transmission
type RunnerConfig struct {
	Title   string            // e.g., "Send"
	Command string            // e.g., "irblaster send --remote aircon --command power_on"
	Params  map[string]string // Shown in the header
	Output  io.Writer         // Default: os.Stdout
	Width   int               // Default: terminal width
}

// Runner prints header, per-frame progress and result for a send
type Runner struct {
	config RunnerConfig
	out    io.Writer
	width  int
}

// NewRunner creates a runner
func NewRunner(config RunnerConfig) *Runner {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}
	return &Runner{config: config, out: out, width: clampWidth(width)}
}

// Send transmits cmd through d, printing one line per completed frame.
// Any OnFrame hook already set on d is still called.
func (r *Runner) Send(ctx context.Context, d *transmit.Driver, cmd aeha.Command) error {
	start := time.Now()

	_, _ = fmt.Fprintln(r.out, NewHeader(r.config.Title, r.config.Command, r.config.Params).SetWidth(r.width).Render())
	_, _ = fmt.Fprintln(r.out)

	prog := NewProgress("", len(cmd.Payloads)).SetWidth(r.width)
	names := make([]string, len(cmd.Payloads))
	for i, p := range cmd.Payloads {
		names[i] = fmt.Sprintf("Frame %d: %X", i+1, p)
	}
	prog.SetStepNames(names)

	prev := d.OnFrame
	d.OnFrame = func(ev transmit.FrameEvent) {
		prog.CompleteStep(ev.Index+1, ev.Frame.Duration().Round(time.Microsecond).String())
		_, _ = fmt.Fprintln(r.out, prog.RenderStep(prog.Steps[ev.Index]))
		if prev != nil {
			prev(ev)
		}
	}
	defer func() { d.OnFrame = prev }()

	err := d.SendCommand(ctx, cmd)
	elapsed := time.Since(start)
	_, _ = fmt.Fprintln(r.out)

	if err != nil {
		var terr *transmit.Error
		if errors.As(err, &terr) && terr.Frame >= 0 {
			prog.FailStep(terr.Frame+1, terr.Type.String())
			_, _ = fmt.Fprintln(r.out, prog.RenderStep(prog.Steps[terr.Frame]))
			_, _ = fmt.Fprintln(r.out)
		}
		_, _ = fmt.Fprintln(r.out, NewFailureResult(r.config.Title+" failed", err, TroubleshootingFor(err)).SetWidth(r.width).Render())
		return err
	}

	details := map[string]string{
		"Customer": fmt.Sprintf("%X", cmd.CustomerCode),
		"Frames":   fmt.Sprint(len(cmd.Payloads)),
		"Duration": elapsed.Round(time.Millisecond).String(),
	}
	_, _ = fmt.Fprintln(r.out, NewSuccessResult(r.config.Title+" complete", details).SetWidth(r.width).Render())
	return nil
}
