package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// ColorMode decides when escape codes are written.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Printer writes the CLI's styled output.
type Printer struct {
	Out   io.Writer
	Err   io.Writer
	theme Theme
	color bool
}

// NewPrinter colors output only when out is a terminal, unless mode says
// otherwise. The mono theme never colors.
func NewPrinter(out, errw io.Writer, theme Theme, mode ColorMode) *Printer {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	color := false
	switch mode {
	case ColorAlways:
		color = true
	case ColorAuto:
		color = IsTerminal(out)
	}
	if theme.Plain {
		color = false
	}
	return &Printer{Out: out, Err: errw, theme: theme, color: color}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (p *Printer) Theme() Theme { return p.theme }

// C wraps s in color when coloring is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) Println(a ...any) { fmt.Fprintln(p.Out, a...) }

func (p *Printer) Printf(format string, a ...any) { fmt.Fprintf(p.Out, format, a...) }

func (p *Printer) OK(msg string) { fmt.Fprintln(p.Out, p.C(p.theme.Success, symCheck+" "+msg)) }

func (p *Printer) Fail(msg string) { fmt.Fprintln(p.Err, p.C(p.theme.Error, symCross+" "+msg)) }

// Hint prints a muted line on the error stream.
func (p *Printer) Hint(msg string) { fmt.Fprintln(p.Err, p.C(p.theme.Muted, msg)) }
