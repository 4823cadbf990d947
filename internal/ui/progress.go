package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus represents the current state of a step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Step is one frame of a send
type Step struct {
	Number  int    // 1-based
	Name    string // e.g., "Frame 1: 200002"
	Status  StepStatus
	Message string // e.g., "42.1ms"
}

// Progress tracks the frames of a multi-payload send
type Progress struct {
	Label   string
	Steps   []Step
	Current int     // Last started step (1-based)
	Percent float64 // 0.0 - 1.0
	bar     progress.Model
}

// NewProgress creates a progress display with total pending steps
func NewProgress(label string, total int) *Progress {
	steps := make([]Step, total)
	for i := range steps {
		steps[i] = Step{Number: i + 1, Status: StepPending}
	}
	return &Progress{
		Label: label,
		Steps: steps,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Total returns the number of steps
func (p *Progress) Total() int {
	return len(p.Steps)
}

// SetWidth sizes the progress bar for the terminal width
func (p *Progress) SetWidth(width int) *Progress {
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return p
}

// SetStepNames sets the names for all steps
func (p *Progress) SetStepNames(names []string) *Progress {
	for i, name := range names {
		if i < len(p.Steps) {
			p.Steps[i].Name = name
		}
	}
	return p
}

// UpdateStep updates a step's status and optional message.
// Out of range step numbers are ignored.
func (p *Progress) UpdateStep(number int, status StepStatus, message string) {
	if number < 1 || number > len(p.Steps) {
		return
	}
	p.Steps[number-1].Status = status
	p.Steps[number-1].Message = message

	if status == StepRunning {
		p.Current = number
		return
	}

	finished := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			finished++
		}
	}
	p.Percent = float64(finished) / float64(len(p.Steps))
}

// StartStep marks a step as running
func (p *Progress) StartStep(number int, message string) {
	p.UpdateStep(number, StepRunning, message)
}

// CompleteStep marks a step as complete
func (p *Progress) CompleteStep(number int, message string) {
	p.UpdateStep(number, StepComplete, message)
}

// FailStep marks a step as failed
func (p *Progress) FailStep(number int, message string) {
	p.UpdateStep(number, StepFailed, message)
}

// Render returns the label, bar and step list
func (p *Progress) Render() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(p.Label))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]",
		p.bar.ViewAs(p.Percent), p.Percent*100, p.Current, len(p.Steps))))
	b.WriteString("\n\n")

	lines := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		lines[i] = p.RenderStep(s)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

// RenderStep renders a single step line: "[1/3] Frame 1: 20   ✓  (42ms)"
func (p *Progress) RenderStep(step Step) string {
	var (
		marker string
		style  lipgloss.Style
	)
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, len(p.Steps))
	b.WriteString(style.Render(step.Name))

	const nameColumn = 45
	pad := nameColumn - lipgloss.Width(step.Name)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}
