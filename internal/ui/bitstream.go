package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/irblaster/internal/aeha"
)

// RenderBitstream renders every field of the layout in its own colour,
// fields separated by a space, followed by a legend.
func RenderBitstream(layout *aeha.Layout) string {
	parts := make([]string, len(layout.Fields))
	for i, f := range layout.Fields {
		parts[i] = FieldStyle(f.Kind).Render(f.Bits)
	}

	kinds := []aeha.FieldKind{aeha.FieldCustomer, aeha.FieldParity, aeha.FieldData0, aeha.FieldData, aeha.FieldChecksum}
	legend := make([]string, 0, len(kinds))
	for _, k := range kinds {
		legend = append(legend, FieldStyle(k).Render("■ "+k.String()))
	}

	return "  " + strings.Join(parts, " ") + "\n  " + strings.Join(legend, "  ")
}

// RenderLayoutTable renders one row per field: name, offset, bits and value
func RenderLayoutTable(layout *aeha.Layout) string {
	head := lipgloss.NewStyle().Foreground(MutedColor).Bold(true)

	lines := []string{head.Render(fmt.Sprintf("  %-12s %6s  %-8s  %s", "FIELD", "OFFSET", "BITS", "VALUE"))}
	for _, f := range layout.Fields {
		lines = append(lines, fmt.Sprintf("  %-12s %6d  %s  %s",
			f.Name, f.Offset,
			FieldStyle(f.Kind).Render(fmt.Sprintf("%-8s", f.Bits)),
			ResultValueStyle.Render(fmt.Sprintf("0x%02X", f.Value)),
		))
	}
	return strings.Join(lines, "\n")
}

// RenderPulseSummary describes a frame in one line:
// pulse count, on-air time, header pair and the number of 0 and 1 bits.
func RenderPulseSummary(frame aeha.PulseFrame) string {
	pairs := frame.Pairs()
	if len(pairs) < 2 {
		return fmt.Sprintf("  %d pulses, %s", len(frame), frame.Duration())
	}

	// Data pairs sit between the header pair and the trailing mark
	data := pairs[1 : len(pairs)-1]
	ones := 0
	for _, p := range data {
		if p.Space > p.Mark {
			ones++
		}
	}

	return fmt.Sprintf("  %s pulses, %s on air, header %s, %d bits (%s ones, %s zeros)",
		ResultValueStyle.Render(fmt.Sprint(len(frame))),
		ResultValueStyle.Render(frame.Duration().String()),
		pairs[0],
		len(data),
		FieldStyle(aeha.FieldData).Render(fmt.Sprint(ones)),
		FieldStyle(aeha.FieldCustomer).Render(fmt.Sprint(len(data)-ones)),
	)
}
