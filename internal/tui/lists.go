package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/service"
)

type (
	listsLoadedMsg struct {
		lists []model.TodoList
		err   error
	}
	listsChangedMsg struct {
		lists []model.TodoList
		err   error
	}
)

// listsScreen shows the user's lists with their progress.
type listsScreen struct {
	svc    *service.ListService
	scope  scope
	state  loadState
	lists  []model.TodoList
	list   list.Model
	spin   spinner.Model
	input  textinput.Model
	mode   inputMode
	editID string
	err    string
}

func newListsScreen(svc *service.ListService) *listsScreen {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	l := newRowList("liste", "listes", addKey, editKey, deleteKey, openKey, refreshKey)
	l.Title = "Mes listes"
	l.SetFilteringEnabled(true)
	return &listsScreen{svc: svc, list: l, spin: newSpinner(), input: ti}
}

func (s *listsScreen) Focus(parent context.Context) tea.Cmd {
	s.scope.begin(parent)
	s.endInput()
	return s.load()
}

func (s *listsScreen) Blur() {
	s.scope.end()
	s.endInput()
}

func (s *listsScreen) SetSize(w, h int) { s.list.SetSize(w, h-3) }

func (s *listsScreen) Capturing() bool {
	return s.mode != modeNone || s.list.SettingFilter()
}

func (s *listsScreen) load() tea.Cmd {
	s.state = stateLoading
	s.err = ""
	svc := s.svc
	return tea.Batch(s.spin.Tick, s.scope.run(func(ctx context.Context) tea.Msg {
		lists, err := svc.Load(ctx)
		return listsLoadedMsg{lists: lists, err: err}
	}))
}

// mutate runs fn against the collection as it is now.
func (s *listsScreen) mutate(fn func(ctx context.Context, cur []model.TodoList) ([]model.TodoList, error)) tea.Cmd {
	cur := s.lists
	return s.scope.run(func(ctx context.Context) tea.Msg {
		lists, err := fn(ctx, cur)
		return listsChangedMsg{lists: lists, err: err}
	})
}

func (s *listsScreen) setLists(lists []model.TodoList) tea.Cmd {
	s.lists = lists
	s.list.Title = fmt.Sprintf("%s   %s %d", titleStyle.Render("Mes listes"), accentStyle.Render("Total"), len(lists))
	return s.list.SetItems(listRows(lists))
}

func (s *listsScreen) selected() (model.TodoList, bool) {
	r, ok := s.list.SelectedItem().(listRow)
	return r.TodoList, ok
}

func (s *listsScreen) Update(msg tea.Msg) tea.Cmd {
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

	case listsLoadedMsg:
		if msg.err != nil {
			s.state = stateErrored
			s.err = userMessage(msg.err)
			return nil
		}
		s.state = stateReady
		return s.setLists(msg.lists)

	case listsChangedMsg:
		if msg.err != nil {
			s.err = userMessage(msg.err)
			return nil
		}
		s.err = ""
		return s.setLists(msg.lists)

	case tea.KeyMsg:
		if s.mode != modeNone {
			return s.updateInput(msg)
		}
		if s.state != stateReady {
			if key.Matches(msg, refreshKey) {
				return s.load()
			}
			return nil
		}
		if s.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, refreshKey):
			return s.load()
		case key.Matches(msg, addKey):
			return s.startInput(modeAdd, "", "Nom de la nouvelle liste...")
		case key.Matches(msg, editKey):
			if l, ok := s.selected(); ok {
				s.editID = l.ID
				return s.startInput(modeEdit, l.Title, "Nouveau titre...")
			}
			return nil
		case key.Matches(msg, deleteKey):
			if l, ok := s.selected(); ok {
				svc, id := s.svc, l.ID
				return s.mutate(func(ctx context.Context, cur []model.TodoList) ([]model.TodoList, error) {
					return svc.Delete(ctx, cur, id)
				})
			}
			return nil
		case key.Matches(msg, openKey):
			if l, ok := s.selected(); ok {
				return emit(openListMsg{list: l})
			}
			return nil
		}
	}

	if s.mode != modeNone {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return cmd
}

func (s *listsScreen) startInput(mode inputMode, value, placeholder string) tea.Cmd {
	s.mode = mode
	s.err = ""
	s.input.Placeholder = placeholder
	s.input.SetValue(value)
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s *listsScreen) endInput() {
	s.mode = modeNone
	s.editID = ""
	s.input.SetValue("")
	s.input.Blur()
}

func (s *listsScreen) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.endInput()
		return nil
	case "enter":
		value, mode, id := s.input.Value(), s.mode, s.editID
		s.endInput()
		svc := s.svc
		if mode == modeAdd {
			return s.mutate(func(ctx context.Context, cur []model.TodoList) ([]model.TodoList, error) {
				return svc.Add(ctx, cur, value)
			})
		}
		return s.mutate(func(ctx context.Context, cur []model.TodoList) ([]model.TodoList, error) {
			return svc.Rename(ctx, cur, id, value)
		})
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *listsScreen) View() string {
	switch s.state {
	case stateLoading:
		return s.spin.View() + " " + mutedStyle.Render("Chargement des listes...")
	case stateErrored:
		return errorStyle.Render(s.err) + "\n\n" + helpStyle.Render("r pour réessayer")
	}

	content := s.list.View()
	if len(s.lists) == 0 {
		content = titleStyle.Render("Mes listes") + "\n\n" +
			mutedStyle.Render("Aucune liste. Appuyez sur a pour en créer une.")
	}
	if s.mode != modeNone {
		title := "Nouvelle liste"
		if s.mode == modeEdit {
			title = "Renommer la liste"
		}
		content += "\n" + inputBoxStyle.Render(title+"\n"+s.input.View())
	}
	if s.err != "" {
		content += "\n" + errorStyle.Render(s.err)
	}
	return content
}
