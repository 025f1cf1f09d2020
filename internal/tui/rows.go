package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/ui"
)

// row is a list.Item that knows how to draw itself on one line.
type row interface {
	list.Item
	render() string
}

type listRow struct{ model.TodoList }

func (r listRow) FilterValue() string { return r.Title }

func (r listRow) render() string {
	style := pendingStyle
	if r.TotalTasks > 0 && r.CompletedTasks == r.TotalTasks {
		style = successStyle
	}
	return fmt.Sprintf("%s  %s %s",
		r.Title,
		style.Render(fmt.Sprintf("%d%%", r.Progress())),
		mutedStyle.Render(fmt.Sprintf("(%d/%d)", r.CompletedTasks, r.TotalTasks)),
	)
}

type taskRow struct {
	model.TodoItem
	theme ui.Theme
}

func (r taskRow) FilterValue() string { return r.Content }

func (r taskRow) render() string {
	if r.Done {
		return successStyle.Render(r.theme.Box(true)) + " " + doneStyle.Render(r.Content)
	}
	return mutedStyle.Render(r.theme.Box(false)) + " " + r.Content
}

// rowDelegate draws single-line rows with a selection marker.
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+r.render())
}

func newRowList(singular, plural string, extra ...key.Binding) list.Model {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName(singular, plural)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	// letters are taken by the screen's own actions
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "pgdown"), key.WithHelp("→", "page suiv."))
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("left", "pgup"), key.WithHelp("←", "page préc."))

	l.AdditionalShortHelpKeys = func() []key.Binding { return extra }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extra }
	return l
}

func listRows(lists []model.TodoList) []list.Item {
	out := make([]list.Item, 0, len(lists))
	for _, l := range lists {
		out = append(out, listRow{l})
	}
	return out
}

func taskRows(items []model.TodoItem, theme ui.Theme) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, taskRow{TodoItem: it, theme: theme})
	}
	return out
}
