// Package waveform renders pulse frames as LED on/off square waves.
package waveform

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/muurk/irblaster/internal/aeha"
)

// Default image size
var (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 3 * vg.Inch
)

// Points converts a frame into the corners of its square wave.
// X is time in milliseconds, Y is 1 while the LED is on (mark) and 0 while
// it is off (space). The wave starts and ends at 0.
func Points(frame aeha.PulseFrame) plotter.XYs {
	pts := make(plotter.XYs, 0, 2*len(frame)+2)
	pts = append(pts, plotter.XY{X: 0, Y: 0})

	var t float64
	for i, us := range frame {
		level := 0.0
		if i%2 == 0 {
			level = 1
		}
		end := t + float64(us)/1000
		pts = append(pts, plotter.XY{X: t, Y: level}, plotter.XY{X: end, Y: level})
		t = end
	}

	return append(pts, plotter.XY{X: t, Y: 0})
}

// Plot builds a plot of frame
func Plot(frame aeha.PulseFrame, title string) (*plot.Plot, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("cannot plot an empty frame")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (ms)"
	p.Y.Label.Text = "LED"
	p.Y.Min = -0.2
	p.Y.Max = 1.2
	p.NominalY("off", "on")

	line, err := plotter.NewLine(Points(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to build waveform: %w", err)
	}
	line.LineStyle.Width = vg.Points(1)

	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// Write renders p to output in the given format (png, svg, pdf, ...)
func Write(p *plot.Plot, output io.Writer, format string) error {
	w, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return err
	}
	_, err = w.WriteTo(output)
	return err
}

// Save renders p to path; the format is taken from the file extension
func Save(p *plot.Plot, path string) (err error) {
	format := FormatFromPath(path)
	if format == "" {
		return fmt.Errorf("cannot determine image format of %s", path)
	}

	output, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := output.Close(); cerr != nil {
			err = combineErrors(err, cerr)
		}
	}()
	return Write(p, output, format)
}

// FormatFromPath returns the image format for a file name, or "" if unknown
func FormatFromPath(path string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "svg", "pdf", "eps", "tif", "tiff", "jpg", "jpeg":
		return ext
	default:
		return ""
	}
}

func combineErrors(errors ...error) (err error) {
	for _, e := range errors {
		switch {
		case e == nil:
			// ignore
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}
	return err
}
