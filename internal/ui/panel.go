package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-lists/internal/model"
)

// ProgressBar renders a bar of width cells followed by the rounded
// percentage of done over total.
func ProgressBar(done, total, width int) string {
	if width < 5 {
		width = 5
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s %3d%%", bar, model.Percent(done, total))
}

// Panel draws lines in a frame using the printer's theme.
func (p *Printer) Panel(lines []string) {
	t := p.theme
	maxw := 0
	for _, ln := range lines {
		if w := lipgloss.Width(ln); w > maxw {
			maxw = w
		}
	}
	fmt.Fprintln(p.Out, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		pad := strings.Repeat(" ", maxw-lipgloss.Width(ln))
		fmt.Fprintln(p.Out, t.V+" "+ln+pad+" "+t.V)
	}
	fmt.Fprintln(p.Out, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}
