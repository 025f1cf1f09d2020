// Package optimistic reconciles a screen's local collection with the result
// of a remote mutation.
//
// Policies per mutation:
//   - list titles are applied from the user's input once the server accepts,
//   - task content is taken from the server's echoed task,
//   - deletes only touch the collection after the server confirms.
package optimistic

import (
	"context"
	"strings"
	"sync"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/model"
)

// User-facing messages.
const (
	MsgNotFound     = "Élément introuvable."
	MsgEmptyText    = "Le texte ne peut pas être vide."
	MsgUpdateFailed = "Erreur lors de la mise à jour de l'élément."
	MsgDeleteFailed = "Erreur lors de la suppression de l'élément."
)

// Scope selects the payload shape and the apply policy of EditItem.
type Scope string

const (
	ScopeLists Scope = "TodoLists"
	ScopeItems Scope = "TodoList"
)

// Entity is a collection element addressable by id with one editable text.
type Entity[T any] interface {
	Key() string
	Text() string
	WithText(string) T
}

// UpdateFunc sends payload for id. For ScopeLists the payload is the trimmed
// title (string); for ScopeItems it is a model.ItemPatch with Content set.
type UpdateFunc[T any] func(ctx context.Context, id string, payload any, token string) (T, error)

// DeleteFunc removes id remotely and returns the number of deleted nodes.
type DeleteFunc func(ctx context.Context, id, token string) (int, error)

// EditItem updates the text of element id. setItems is only called on
// success; setError receives "" on success and a message otherwise.
func EditItem[T Entity[T]](
	ctx context.Context,
	id, newValue string,
	items []T,
	setItems func([]T),
	update UpdateFunc[T],
	token string,
	setError func(string),
	scope Scope,
) {
	if indexOf(items, id) < 0 {
		setError(MsgNotFound)
		return
	}

	text := strings.TrimSpace(newValue)
	if scope == ScopeLists && text == "" {
		setError(MsgEmptyText)
		return
	}

	var payload any = text
	if scope != ScopeLists {
		payload = model.ItemPatch{Content: &text}
	}

	updated, err := update(ctx, id, payload, token)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Str("scope", string(scope)).Msg("edit failed")
		setError(MsgUpdateFailed)
		return
	}

	out := make([]T, len(items))
	for i, it := range items {
		if it.Key() != id {
			out[i] = it
			continue
		}
		if scope == ScopeLists {
			out[i] = it.WithText(text)
		} else {
			out[i] = it.WithText(updated.Text())
		}
	}
	setItems(out)
	setError("")
}

// DeleteItem removes element id after the server confirms.
func DeleteItem[T Entity[T]](
	ctx context.Context,
	id string,
	items []T,
	setItems func([]T),
	remove DeleteFunc,
	token string,
	setError func(string),
) {
	if _, err := remove(ctx, id, token); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("delete failed")
		setError(MsgDeleteFailed)
		return
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.Key() != id {
			out = append(out, it)
		}
	}
	setItems(out)
	setError("")
}

// CalculateProgress is round(100*done/total) over items, 0 when empty.
func CalculateProgress(items []model.TodoItem) int {
	return model.Percent(model.StatsOf(items).Completed, len(items))
}

// ItemUpdateFunc patches one task remotely.
type ItemUpdateFunc func(ctx context.Context, id string, patch model.ItemPatch, token string) (model.TodoItem, error)

// SetAllDone sends one update per task concurrently and waits for all of
// them. A task whose update fails keeps its previous state. commit is called
// once, with every task in the original order.
func SetAllDone(
	ctx context.Context,
	items []model.TodoItem,
	done bool,
	update ItemUpdateFunc,
	token string,
	commit func([]model.TodoItem),
) {
	out := make([]model.TodoItem, len(items))
	var wg sync.WaitGroup
	for i, it := range items {
		wg.Add(1)
		go func() {
			defer wg.Done()
			flag := done
			if _, err := update(ctx, it.ID, model.ItemPatch{Done: &flag}, token); err != nil {
				log.Warn().Err(err).Str("id", it.ID).Bool("done", done).Msg("bulk update failed")
				out[i] = it
				return
			}
			out[i] = it.WithDone(done)
		}()
	}
	wg.Wait()
	commit(out)
}

func indexOf[T Entity[T]](items []T, id string) int {
	for i, it := range items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}
