package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type field struct {
	label  string
	secret bool
}

// form is a column of labelled text inputs with one focused at a time.
type form struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

func newForm(fields ...field) form {
	f := form{}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		ti.Placeholder = fd.label
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.inputs = append(f.inputs, ti)
		f.labels = append(f.labels, fd.label)
	}
	return f
}

func (f *form) focusFirst() tea.Cmd {
	f.focus = 0
	return f.refocus()
}

func (f *form) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *form) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *form) move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.refocus()
}

func (f *form) last() bool { return f.focus == len(f.inputs)-1 }

func (f *form) value(i int) string { return f.inputs[i].Value() }

func (f *form) set(i int, v string) { f.inputs[i].SetValue(v) }

func (f *form) clear() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
}

// update feeds msg to the focused input.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) View() string {
	var b strings.Builder
	for i, ti := range f.inputs {
		label := mutedStyle.Render(f.labels[i])
		if i == f.focus {
			label = accentStyle.Render(f.labels[i])
		}
		b.WriteString(label + "\n" + ti.View() + "\n")
	}
	return b.String()
}
