package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/config"
	"github.com/muurk/irblaster/internal/ui"
	"github.com/muurk/irblaster/internal/waveform"
)

var (
	explain      bool
	outputFormat string
	plotPath     string
)

func init() {
	addCommandFlags(encodeCmd)
	encodeCmd.Flags().BoolVar(&explain, "explain", false, "Show the field-by-field breakdown of each frame")
	encodeCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")

	addCommandFlags(pulsesCmd)
	pulsesCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
	pulsesCmd.Flags().StringVar(&plotPath, "plot", "", "Render the waveform to an image (png, svg, pdf)")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(pulsesCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a command into AEHA bitstreams",
	Long: `Encode a customer code and payloads into AEHA bitstreams, one per payload.

Each frame is the bit-reversed customer code, a 4-bit parity, the low nibble
of the first payload byte, the remaining payload bytes and a checksum.`,
	Example: `  # Encode one frame
  irblaster encode --customer 23CB --payload 20

  # Explain every field
  irblaster encode --customer 0x23,0xCB --payload 200002 --explain

  # Encode a registry command as JSON
  irblaster encode --remote aircon --command power_on --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, _, _, err := resolveCommand()
		if err != nil {
			return err
		}
		return writeEncode(cmd.OutOrStdout(), c, explain, outputFormat)
	},
}

// encodedFrame is the JSON form of one encoded payload
type encodedFrame struct {
	Payload   config.HexBytes `json:"payload"`
	Bitstream string          `json:"bitstream"`
	Bits      int             `json:"bits"`
	Fields    []aeha.Field    `json:"fields,omitempty"`
}

func writeEncode(w io.Writer, cmd aeha.Command, explain bool, format string) error {
	frames := make([]encodedFrame, 0, len(cmd.Payloads))
	layouts := make([]*aeha.Layout, 0, len(cmd.Payloads))
	for _, payload := range cmd.Payloads {
		layout, err := aeha.Describe(cmd.CustomerCode, payload)
		if err != nil {
			return err
		}
		bits := layout.Bitstream()
		f := encodedFrame{Payload: payload, Bitstream: string(bits), Bits: bits.Len()}
		if explain {
			f.Fields = layout.Fields
		}
		frames = append(frames, f)
		layouts = append(layouts, layout)
	}
	if len(frames) == 0 {
		return fmt.Errorf("at least one --payload is required")
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(frames)
	case "text", "":
		p := ui.NewPrinter(w)
		for i, f := range frames {
			if len(frames) > 1 {
				p.Println(fmt.Sprintf("# frame %d: %X", i+1, []byte(f.Payload)))
			}
			if explain {
				p.PrintLayout(layouts[i])
				p.Newline()
				continue
			}
			p.Println(aeha.Bitstream(f.Bitstream).Grouped(8))
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}
}

var pulsesCmd = &cobra.Command{
	Use:   "pulses",
	Short: "Print the pulse frames of a command",
	Long: `Convert a command into the mark/space pulse frames sent to the IR LED.

Each frame starts with the 3400/1750us leader, then one pair per bit
('0' = 436/436us, '1' = 436/1308us) and a trailing 436us mark. Registry
commands use their remote's timing.`,
	Example: `  # Print mark/space pairs
  irblaster pulses --customer 23CB --payload 20

  # JSON pulse arrays
  irblaster pulses --remote aircon --command power_off --format json

  # Plot the waveform
  irblaster pulses --customer 23CB --payload 20 --plot frame.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, timing, label, err := resolveCommand()
		if err != nil {
			return err
		}

		frames, err := buildFrames(c, timing)
		if err != nil {
			return err
		}
		if err := writePulses(cmd.OutOrStdout(), c, frames, outputFormat); err != nil {
			return err
		}

		if plotPath == "" {
			return nil
		}
		for i, frame := range frames {
			path := plotFile(plotPath, i, len(frames))
			p, err := waveform.Plot(frame, fmt.Sprintf("%s frame %d", label, i+1))
			if err != nil {
				return err
			}
			if err := waveform.Save(p, path); err != nil {
				return fmt.Errorf("failed to save plot: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
		}
		return nil
	},
}

func buildFrames(cmd aeha.Command, timing aeha.Timing) ([]aeha.PulseFrame, error) {
	if len(cmd.Payloads) == 0 {
		return nil, fmt.Errorf("at least one --payload is required")
	}
	frames := make([]aeha.PulseFrame, len(cmd.Payloads))
	for i, payload := range cmd.Payloads {
		frame, err := timing.FrameFor(cmd.CustomerCode, payload)
		if err != nil {
			return nil, err
		}
		frames[i] = frame
	}
	return frames, nil
}

// pulseFrame is the JSON form of one pulse frame
type pulseFrame struct {
	Payload    config.HexBytes `json:"payload"`
	Pulses     []uint32        `json:"pulses"`
	DurationUS int64           `json:"duration_us"`
}

func writePulses(w io.Writer, cmd aeha.Command, frames []aeha.PulseFrame, format string) error {
	switch format {
	case "json":
		out := make([]pulseFrame, len(frames))
		for i, f := range frames {
			out[i] = pulseFrame{Payload: cmd.Payloads[i], Pulses: f, DurationUS: f.Duration().Microseconds()}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "text", "":
		p := ui.NewPrinter(w)
		for i, f := range frames {
			p.Println(fmt.Sprintf("# frame %d: %X", i+1, cmd.Payloads[i]))
			pairs := f.Pairs()
			parts := make([]string, len(pairs))
			for j, pair := range pairs {
				parts[j] = pair.String()
			}
			p.Println(strings.Join(parts, " "))
			p.PrintPulseSummary(f)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}
}

// plotFile returns path for a single frame, or path with a -N suffix before
// the extension when several frames are plotted
func plotFile(path string, index, total int) string {
	if total <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), index+1, ext)
}
