package service

import (
	"context"
	"strings"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/optimistic"
	"github.com/Makepad-fr/tada-lists/internal/session"
)

// TaskService drives the tasks of one list.
type TaskService struct {
	backend Backend
	sess    *session.Session
}

func NewTaskService(backend Backend, sess *session.Session) *TaskService {
	return &TaskService{backend: backend, sess: sess}
}

func (s *TaskService) Load(ctx context.Context, listID string) ([]model.TodoItem, error) {
	token, _, err := s.sess.Credentials()
	if err != nil {
		return nil, fail(MsgNotSignedIn, err)
	}
	items, err := s.backend.GetTodoListItems(ctx, listID, token)
	if err != nil {
		return nil, fail(MsgTasksFetch, err)
	}
	return items, nil
}

func (s *TaskService) Add(ctx context.Context, listID string, items []model.TodoItem, content string) ([]model.TodoItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return items, fail(MsgTaskEmpty, nil)
	}
	token, _, err := s.sess.Credentials()
	if err != nil {
		return items, fail(MsgNotSignedIn, err)
	}
	created, err := s.backend.CreateTodoItem(ctx, listID, content, token)
	if err != nil {
		return items, fail(MsgTaskAdd, err)
	}
	out := make([]model.TodoItem, 0, len(items)+1)
	out = append(out, items...)
	return append(out, created), nil
}

// Toggle flips the done flag of task id after the server accepts it.
func (s *TaskService) Toggle(ctx context.Context, items []model.TodoItem, id string) ([]model.TodoItem, error) {
	idx := -1
	for i, it := range items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items, fail(optimistic.MsgNotFound, nil)
	}
	token, _, err := s.sess.Credentials()
	if err != nil {
		return items, fail(MsgNotSignedIn, err)
	}
	done := !items[idx].Done
	if _, err := s.backend.UpdateTodoItem(ctx, id, model.ItemPatch{Done: &done}, token); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("toggle failed")
		return items, fail(MsgTaskUpdate, err)
	}
	out := append([]model.TodoItem(nil), items...)
	out[idx] = out[idx].WithDone(done)
	return out, nil
}

// Edit changes a task's content to what the server echoes back.
func (s *TaskService) Edit(ctx context.Context, items []model.TodoItem, id, content string) ([]model.TodoItem, error) {
	if strings.TrimSpace(content) == "" {
		return items, fail(MsgTextRequired, nil)
	}
	token, _, err := s.sess.Credentials()
	if err != nil {
		return items, fail(MsgNotSignedIn, err)
	}
	var o outcome[model.TodoItem]
	optimistic.EditItem(ctx, id, content, items, o.setItems, s.updateContent, token, o.setError, optimistic.ScopeItems)
	return o.result(items)
}

func (s *TaskService) Delete(ctx context.Context, items []model.TodoItem, id string) ([]model.TodoItem, error) {
	token, _, err := s.sess.Credentials()
	if err != nil {
		return items, fail(MsgNotSignedIn, err)
	}
	var o outcome[model.TodoItem]
	optimistic.DeleteItem(ctx, id, items, o.setItems, s.backend.DeleteTodoItem, token, o.setError)
	return o.result(items)
}

// CheckAll marks every task done. Tasks whose update fails keep their state.
func (s *TaskService) CheckAll(ctx context.Context, items []model.TodoItem) ([]model.TodoItem, error) {
	return s.setAll(ctx, items, true)
}

// UncheckAll marks every task not done. Tasks whose update fails keep their state.
func (s *TaskService) UncheckAll(ctx context.Context, items []model.TodoItem) ([]model.TodoItem, error) {
	return s.setAll(ctx, items, false)
}

func (s *TaskService) setAll(ctx context.Context, items []model.TodoItem, done bool) ([]model.TodoItem, error) {
	token, _, err := s.sess.Credentials()
	if err != nil {
		return items, fail(MsgNotSignedIn, err)
	}
	out := items
	optimistic.SetAllDone(ctx, items, done, s.backend.UpdateTodoItem, token, func(xs []model.TodoItem) { out = xs })
	return out, nil
}

func (s *TaskService) updateContent(ctx context.Context, id string, payload any, token string) (model.TodoItem, error) {
	patch, _ := payload.(model.ItemPatch)
	return s.backend.UpdateTodoItem(ctx, id, patch, token)
}
