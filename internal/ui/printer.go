package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/irblaster/internal/aeha"
)

// Printer writes UI components to a writer.
// This is how CLI commands output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to w.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Println(NewSuccessResult(title, details).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details map[string]string) {
	p.Println(NewWarningResult(title, details).SetWidth(p.width).Render())
}

// PrintError prints a failure box with tips chosen from err
func (p *Printer) PrintError(title string, err error) {
	p.Println(NewFailureResult(title, err, TroubleshootingFor(err)).SetWidth(p.width).Render())
}

// PrintLayout prints the coloured bitstream followed by the field table
func (p *Printer) PrintLayout(layout *aeha.Layout) {
	p.Println(RenderBitstream(layout))
	p.Newline()
	p.Println(RenderLayoutTable(layout))
}

// PrintPulseSummary prints the frame summary line
func (p *Printer) PrintPulseSummary(frame aeha.PulseFrame) {
	p.Println(RenderPulseSummary(frame))
}
