package tui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-lists/internal/log"
)

// generations is shared by every screen so a generation never repeats,
// even across screen instances.
var generations atomic.Uint64

// scope ties remote calls to the time a screen is visible. begin starts a
// fresh generation; end cancels whatever is still in flight.
type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
}

// scopedMsg carries a result back with the generation that produced it.
type scopedMsg struct {
	gen uint64
	msg tea.Msg
}

func (s *scope) begin(parent context.Context) {
	s.end()
	s.ctx, s.cancel = context.WithCancel(parent)
	s.gen = generations.Add(1)
}

func (s *scope) end() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *scope) active() bool { return s.cancel != nil }

// run executes fn off the UI goroutine with the scope's context.
func (s *scope) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	if !s.active() {
		return nil
	}
	ctx, gen := s.ctx, s.gen
	return func() tea.Msg {
		return scopedMsg{gen: gen, msg: fn(ctx)}
	}
}

// unwrap returns the payload of a scoped message, or ok=false when it
// belongs to an older generation. Other messages pass through.
func (s *scope) unwrap(msg tea.Msg) (tea.Msg, bool) {
	sm, isScoped := msg.(scopedMsg)
	if !isScoped {
		return msg, true
	}
	if !s.active() || sm.gen != s.gen {
		log.Debug().Uint64("gen", sm.gen).Uint64("current", s.gen).Msg("stale result dropped")
		return nil, false
	}
	return sm.msg, true
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
