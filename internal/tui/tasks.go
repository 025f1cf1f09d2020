package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/optimistic"
	"github.com/Makepad-fr/tada-lists/internal/service"
	"github.com/Makepad-fr/tada-lists/internal/ui"
)

type (
	tasksLoadedMsg struct {
		items []model.TodoItem
		err   error
	}
	tasksChangedMsg struct {
		items []model.TodoItem
		err   error
	}
)

var filterOrder = []model.Filter{model.FilterAll, model.FilterChecked, model.FilterUnchecked}

var filterLabels = map[model.Filter]string{
	model.FilterAll:       "Toutes",
	model.FilterChecked:   "Terminées",
	model.FilterUnchecked: "En cours",
}

// tasksScreen shows the tasks of one list.
type tasksScreen struct {
	svc    *service.TaskService
	meta   model.TodoList
	theme  ui.Theme
	scope  scope
	state  loadState
	items  []model.TodoItem
	filter model.Filter
	rows   list.Model
	spin   spinner.Model
	input  textinput.Model
	mode   inputMode
	editID string
	err    string
}

func newTasksScreen(svc *service.TaskService, meta model.TodoList, theme ui.Theme) *tasksScreen {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	l := newRowList("tâche", "tâches",
		toggleKey, addKey, editKey, deleteKey, filterKey, checkAllKey, uncheckAllKey, backKey)
	l.SetFilteringEnabled(false)
	l.SetShowTitle(false)
	return &tasksScreen{
		svc:    svc,
		meta:   meta,
		theme:  theme,
		filter: model.FilterAll,
		rows:   l,
		spin:   newSpinner(),
		input:  ti,
	}
}

func (s *tasksScreen) Focus(parent context.Context) tea.Cmd {
	s.scope.begin(parent)
	s.endInput()
	return s.load()
}

func (s *tasksScreen) Blur() {
	s.scope.end()
	s.endInput()
}

// header lines plus the input box
func (s *tasksScreen) SetSize(w, h int) { s.rows.SetSize(w, h-8) }

func (s *tasksScreen) Capturing() bool { return s.mode != modeNone }

func (s *tasksScreen) load() tea.Cmd {
	s.state = stateLoading
	s.err = ""
	svc, id := s.svc, s.meta.ID
	return tea.Batch(s.spin.Tick, s.scope.run(func(ctx context.Context) tea.Msg {
		items, err := svc.Load(ctx, id)
		return tasksLoadedMsg{items: items, err: err}
	}))
}

func (s *tasksScreen) mutate(fn func(ctx context.Context, cur []model.TodoItem) ([]model.TodoItem, error)) tea.Cmd {
	cur := s.items
	return s.scope.run(func(ctx context.Context) tea.Msg {
		items, err := fn(ctx, cur)
		return tasksChangedMsg{items: items, err: err}
	})
}

func (s *tasksScreen) setItems(items []model.TodoItem) tea.Cmd {
	s.items = items
	return s.rows.SetItems(taskRows(s.filter.Apply(items), s.theme))
}

func (s *tasksScreen) selected() (model.TodoItem, bool) {
	r, ok := s.rows.SelectedItem().(taskRow)
	return r.TodoItem, ok
}

func (s *tasksScreen) Update(msg tea.Msg) tea.Cmd {
	msg, ok := s.scope.unwrap(msg)
	if !ok {
		return nil
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.state != stateLoading {
			return nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return cmd

	case tasksLoadedMsg:
		if msg.err != nil {
			s.state = stateErrored
			s.err = userMessage(msg.err)
			return nil
		}
		s.state = stateReady
		return s.setItems(msg.items)

	case tasksChangedMsg:
		if msg.err != nil {
			s.err = userMessage(msg.err)
			return nil
		}
		s.err = ""
		return s.setItems(msg.items)

	case tea.KeyMsg:
		if s.mode != modeNone {
			return s.updateInput(msg)
		}
		if key.Matches(msg, backKey) {
			return emit(backMsg{})
		}
		if s.state != stateReady {
			if key.Matches(msg, refreshKey) {
				return s.load()
			}
			return nil
		}
		svc := s.svc
		switch {
		case key.Matches(msg, refreshKey):
			return s.load()
		case key.Matches(msg, toggleKey):
			if it, ok := s.selected(); ok {
				return s.mutate(func(ctx context.Context, cur []model.TodoItem) ([]model.TodoItem, error) {
					return svc.Toggle(ctx, cur, it.ID)
				})
			}
			return nil
		case key.Matches(msg, addKey):
			return s.startInput(modeAdd, "", "Nouvelle tâche...")
		case key.Matches(msg, editKey):
			if it, ok := s.selected(); ok {
				s.editID = it.ID
				return s.startInput(modeEdit, it.Content, "Modifier la tâche...")
			}
			return nil
		case key.Matches(msg, deleteKey):
			if it, ok := s.selected(); ok {
				return s.mutate(func(ctx context.Context, cur []model.TodoItem) ([]model.TodoItem, error) {
					return svc.Delete(ctx, cur, it.ID)
				})
			}
			return nil
		case key.Matches(msg, filterKey):
			return s.cycleFilter()
		case key.Matches(msg, checkAllKey):
			return s.mutate(svc.CheckAll)
		case key.Matches(msg, uncheckAllKey):
			return s.mutate(svc.UncheckAll)
		}
	}

	if s.mode != modeNone {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	s.rows, cmd = s.rows.Update(msg)
	return cmd
}

func (s *tasksScreen) cycleFilter() tea.Cmd {
	for i, f := range filterOrder {
		if f == s.filter {
			s.filter = filterOrder[(i+1)%len(filterOrder)]
			break
		}
	}
	return s.setItems(s.items)
}

func (s *tasksScreen) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	s.mode = mode
	s.err = ""
	s.input.Placeholder = placeholder
	s.input.SetValue(value)
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s *tasksScreen) endInput() {
	s.mode = modeNone
	s.editID = ""
	s.input.SetValue("")
	s.input.Blur()
}

func (s *tasksScreen) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.endInput()
		return nil
	case "enter":
		value, mode, id := s.input.Value(), s.mode, s.editID
		s.endInput()
		svc, listID := s.svc, s.meta.ID
		if mode == modeAdd {
			return s.mutate(func(ctx context.Context, cur []model.TodoItem) ([]model.TodoItem, error) {
				return svc.Add(ctx, listID, cur, value)
			})
		}
		return s.mutate(func(ctx context.Context, cur []model.TodoItem) ([]model.TodoItem, error) {
			return svc.Edit(ctx, cur, id, value)
		})
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *tasksScreen) header() string {
	st := model.StatsOf(s.items)
	var filters []string
	for _, f := range filterOrder {
		if f == s.filter {
			filters = append(filters, accentStyle.Render("["+filterLabels[f]+"]"))
		} else {
			filters = append(filters, mutedStyle.Render(filterLabels[f]))
		}
	}
	return strings.Join([]string{
		titleStyle.Render(s.meta.Title),
		fmt.Sprintf("Progression : %d%%", optimistic.CalculateProgress(s.items)),
		mutedStyle.Render(ui.ProgressBar(st.Completed, st.Count, 28)),
		fmt.Sprintf("Tâches réalisées : %s", successStyle.Render(fmt.Sprintf("%d/%d", st.Completed, st.Count))),
		"Filtre : " + strings.Join(filters, " "),
	}, "\n")
}

func (s *tasksScreen) View() string {
	switch s.state {
	case stateLoading:
		return titleStyle.Render(s.meta.Title) + "\n\n" +
			s.spin.View() + " " + mutedStyle.Render("Chargement des tâches...")
	case stateErrored:
		return titleStyle.Render(s.meta.Title) + "\n\n" +
			errorStyle.Render(s.err) + "\n\n" + helpStyle.Render("r pour réessayer · échap retour")
	}

	body := s.rows.View()
	if len(s.rows.Items()) == 0 {
		body = mutedStyle.Render("Aucune tâche.") + "\n\n" + helpStyle.Render("a ajouter · f filtre · échap retour")
	}
	content := s.header() + "\n\n" + body
	if s.mode != modeNone {
		title := "Nouvelle tâche"
		if s.mode == modeEdit {
			title = "Modifier la tâche"
		}
		content += "\n" + inputBoxStyle.Render(title+"\n"+s.input.View())
	}
	if s.err != "" {
		content += "\n" + errorStyle.Render(s.err)
	}
	return content
}
