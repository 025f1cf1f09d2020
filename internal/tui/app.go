// Package tui is the interactive terminal front end: a tab bar over the
// screens of the app, with the task screen pushed on top of the lists.
package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/service"
	"github.com/Makepad-fr/tada-lists/internal/ui"
)

const (
	tabSignIn  = "Se connecter"
	tabSignUp  = "S'inscrire"
	tabHome    = "Accueil"
	tabLists   = "TodoLists"
	tabAbout   = "A Propos"
	tabSignOut = "Deconnexion"
)

// Options tune the program.
type Options struct {
	Theme string
	// Inline keeps the UI in the normal screen buffer.
	Inline bool
}

type tab struct {
	title  string
	screen screen
}

// App is the root Bubble Tea model.
type App struct {
	ctx    context.Context
	deps   service.Services
	theme  ui.Theme
	tabs   []tab
	active int
	pushed screen
	width  int
	height int
}

// New builds the root model. theme supplies the task checkbox symbols.
func New(ctx context.Context, deps service.Services, theme ui.Theme) *App {
	a := &App{ctx: ctx, deps: deps, theme: theme, width: 80, height: 24}
	a.resetTabs()
	return a
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, deps service.Services, opts Options) error {
	popts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.Inline {
		popts = append(popts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(New(ctx, deps, ui.ThemeNamed(opts.Theme)), popts...).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (a *App) resetTabs() {
	if a.deps.Auth.Session().Authenticated() {
		a.tabs = []tab{
			{tabHome, newHomeScreen(a.deps.Auth.Session())},
			{tabLists, newListsScreen(a.deps.Lists)},
			{tabAbout, aboutScreen{}},
			{tabSignOut, newSignOutScreen(a.deps.Auth)},
		}
	} else {
		a.tabs = []tab{
			{tabSignIn, newSignInScreen(a.deps.Auth)},
			{tabSignUp, newSignUpScreen(a.deps.Auth)},
		}
	}
	a.active = 0
	a.pushed = nil
	w, h := a.contentSize()
	for _, t := range a.tabs {
		t.screen.SetSize(w, h)
	}
}

// contentSize is what is left inside the frame, tab bar and footer.
func (a *App) contentSize() (int, int) {
	return max(a.width-4, 20), max(a.height-6, 5)
}

func (a *App) current() screen {
	if a.pushed != nil {
		return a.pushed
	}
	return a.tabs[a.active].screen
}

func (a *App) capturing() bool {
	c, ok := a.current().(capturer)
	return ok && c.Capturing()
}

func (a *App) switchTo(i int) tea.Cmd {
	if i == a.active && a.pushed == nil {
		return nil
	}
	a.current().Blur()
	a.pushed = nil
	a.active = i
	log.Debug().Str("tab", a.tabs[i].title).Msg("tab focused")
	return a.current().Focus(a.ctx)
}

func (a *App) Init() tea.Cmd { return a.current().Focus(a.ctx) }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		w, h := a.contentSize()
		for _, t := range a.tabs {
			t.screen.SetSize(w, h)
		}
		if a.pushed != nil {
			a.pushed.SetSize(w, h)
		}
		return a, nil

	case tea.KeyMsg:
		n := len(a.tabs)
		switch msg.String() {
		case "ctrl+c":
			return a, a.quit()
		case "ctrl+right":
			return a, a.switchTo((a.active + 1) % n)
		case "ctrl+left":
			return a, a.switchTo((a.active + n - 1) % n)
		}
		if a.capturing() {
			break
		}
		switch s := msg.String(); s {
		case "q":
			return a, a.quit()
		case "tab":
			return a, a.switchTo((a.active + 1) % n)
		case "shift+tab":
			return a, a.switchTo((a.active + n - 1) % n)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if i, _ := strconv.Atoi(s); i <= n {
				return a, a.switchTo(i - 1)
			}
		}

	case signedInMsg, signedOutMsg:
		a.current().Blur()
		a.resetTabs()
		return a, a.current().Focus(a.ctx)

	case openListMsg:
		a.current().Blur()
		ts := newTasksScreen(a.deps.Tasks, msg.list, a.theme)
		ts.SetSize(a.contentSize())
		a.pushed = ts
		return a, ts.Focus(a.ctx)

	case backMsg:
		if a.pushed == nil {
			return a, nil
		}
		a.pushed.Blur()
		a.pushed = nil
		return a, a.current().Focus(a.ctx)

	case gotoTabMsg:
		for i, t := range a.tabs {
			if t.title == msg.title {
				return a, a.switchTo(i)
			}
		}
		return a, nil
	}
	return a, a.current().Update(msg)
}

func (a *App) quit() tea.Cmd {
	a.current().Blur()
	return tea.Quit
}

func (a *App) View() string {
	titles := make([]string, 0, len(a.tabs))
	for i, t := range a.tabs {
		if i == a.active {
			titles = append(titles, activeTabStyle.Render(t.title))
		} else {
			titles = append(titles, inactiveTabStyle.Render(t.title))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, titles...)

	parts := []string{bar, "", a.current().View()}
	if h, ok := a.current().(helper); ok {
		parts = append(parts, "", helpStyle.Render(h.Help()))
	}
	return panelString(strings.Join(parts, "\n"), a.width)
}
