package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 3, 6, "██░░░░  33%"},
		{2, 3, 6, "████░░  67%"},
		{3, 3, 5, "█████ 100%"},
		{1, 2, 1, "██░░░  50%"},
	}
	for _, c := range cases {
		if got := ProgressBar(c.done, c.total, c.width); got != c.want {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", c.done, c.total, c.width, got, c.want)
		}
	}
}

func TestPrinterNoColorOffTerminal(t *testing.T) {
	var out, errw bytes.Buffer
	p := NewPrinter(&out, &errw, ThemeNamed("classic"), ColorAuto)
	p.OK("ajouté")
	p.Fail("raté")
	if out.String() != "✔ ajouté\n" {
		t.Errorf("out = %q", out.String())
	}
	if errw.String() != "✖ raté\n" {
		t.Errorf("err = %q", errw.String())
	}
}

func TestPrinterForcedColor(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, ThemeNamed("classic"), ColorAlways)
	if got := p.C(fgGreen, "x"); got != fgGreen+"x"+reset {
		t.Errorf("C = %q", got)
	}
	mono := NewPrinter(&out, &out, ThemeNamed("mono"), ColorAlways)
	if got := mono.C(fgGreen, "x"); got != "x" {
		t.Errorf("mono C = %q", got)
	}
}

func TestPanelAlignsColoredLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, &out, ThemeNamed("mono"), ColorNever)
	p.Panel([]string{"ab", fgGreen + "abcd" + reset})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	want := []string{
		"+------+",
		"| ab   |",
		"| " + fgGreen + "abcd" + reset + " |",
		"+------+",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestThemeNamed(t *testing.T) {
	if ThemeNamed("NEON").Name != "neon" {
		t.Error("case-insensitive lookup")
	}
	if ThemeNamed("bogus").Name != "classic" {
		t.Error("fallback")
	}
	if ThemeNamed("classic").Box(true) != "☑" {
		t.Error("box")
	}
}
