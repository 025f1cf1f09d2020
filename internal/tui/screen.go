package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/service"
)

// screen is one page of the app. Focus runs every time the screen becomes
// visible and Blur when it is left.
type screen interface {
	Focus(parent context.Context) tea.Cmd
	Blur()
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
}

// capturer is implemented by screens that may be typing into an input, in
// which case the app leaves single keys alone.
type capturer interface {
	Capturing() bool
}

// helper screens provide the footer help line.
type helper interface {
	Help() string
}

// navigation
type (
	signedInMsg  struct{}
	signedOutMsg struct{}
	openListMsg  struct{ list model.TodoList }
	backMsg      struct{}
	gotoTabMsg   struct{ title string }
)

type loadState int

const (
	stateLoading loadState = iota
	stateReady
	stateErrored
)

type inputMode int

const (
	modeNone inputMode = iota
	modeAdd
	modeEdit
)

func newSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle))
}

// userMessage is the text shown for err.
func userMessage(err error) string {
	var f *service.Failure
	if errors.As(err, &f) {
		return f.Msg
	}
	return err.Error()
}
