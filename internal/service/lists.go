package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/optimistic"
	"github.com/Makepad-fr/tada-lists/internal/session"
)

// ListService drives the list-of-lists screen.
type ListService struct {
	backend Backend
	sess    *session.Session
}

func NewListService(backend Backend, sess *session.Session) *ListService {
	return &ListService{backend: backend, sess: sess}
}

// Load fetches the user's lists and joins each with its task counts. A list
// whose counts cannot be fetched shows 0/0.
func (s *ListService) Load(ctx context.Context) ([]model.TodoList, error) {
	token, username, err := s.sess.Credentials()
	if err != nil {
		return nil, fail(MsgNotSignedIn, err)
	}
	lists, err := s.backend.GetTodoLists(ctx, username, token)
	if err != nil {
		return nil, fail(MsgListsFetch, err)
	}

	out := make([]model.TodoList, len(lists))
	var wg sync.WaitGroup
	for i, l := range lists {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats, err := s.backend.GetTodoListStats(ctx, l.ID, token)
			if err != nil {
				log.Warn().Err(err).Str("list", l.Title).Msg("list stats unavailable")
				stats = model.Stats{}
			}
			out[i] = l.WithStats(stats)
		}()
	}
	wg.Wait()
	return out, nil
}

// Add creates a list and appends it with empty counts.
func (s *ListService) Add(ctx context.Context, lists []model.TodoList, name string) ([]model.TodoList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return lists, fail(MsgListNameReq, nil)
	}
	token, username, err := s.sess.Credentials()
	if err != nil {
		return lists, fail(MsgNotSignedIn, err)
	}
	created, err := s.backend.CreateTodoList(ctx, username, name, token)
	if err != nil {
		return lists, fail(MsgListAdd, err)
	}
	out := make([]model.TodoList, 0, len(lists)+1)
	out = append(out, lists...)
	return append(out, created.WithStats(model.Stats{})), nil
}

// Rename changes a list's title. The new title is applied from the input
// once the server accepts it.
func (s *ListService) Rename(ctx context.Context, lists []model.TodoList, id, title string) ([]model.TodoList, error) {
	if strings.TrimSpace(title) == "" {
		return lists, fail(MsgTextRequired, nil)
	}
	token, _, err := s.sess.Credentials()
	if err != nil {
		return lists, fail(MsgNotSignedIn, err)
	}
	var o outcome[model.TodoList]
	optimistic.EditItem(ctx, id, title, lists, o.setItems, s.updateTitle, token, o.setError, optimistic.ScopeLists)
	return o.result(lists)
}

// Delete removes a list (and its tasks) once the server confirms.
func (s *ListService) Delete(ctx context.Context, lists []model.TodoList, id string) ([]model.TodoList, error) {
	token, _, err := s.sess.Credentials()
	if err != nil {
		return lists, fail(MsgNotSignedIn, err)
	}
	var o outcome[model.TodoList]
	optimistic.DeleteItem(ctx, id, lists, o.setItems, s.backend.DeleteTodoList, token, o.setError)
	return o.result(lists)
}

func (s *ListService) updateTitle(ctx context.Context, id string, payload any, token string) (model.TodoList, error) {
	title, _ := payload.(string)
	return s.backend.UpdateTodoList(ctx, id, model.ListPatch{Title: title}, token)
}
