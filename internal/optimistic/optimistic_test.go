package optimistic

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/Makepad-fr/tada-lists/internal/model"
)

var errRemote = errors.New("remote failure")

type recorder[T any] struct {
	sets   [][]T
	errors []string
}

func (r *recorder[T]) setItems(xs []T)     { r.sets = append(r.sets, xs) }
func (r *recorder[T]) setError(msg string) { r.errors = append(r.errors, msg) }

func (r *recorder[T]) lastError() string {
	if len(r.errors) == 0 {
		return "<none>"
	}
	return r.errors[len(r.errors)-1]
}

func sampleItems() []model.TodoItem {
	return []model.TodoItem{
		{ID: "1", Content: "pain"},
		{ID: "2", Content: "lait", Done: true},
		{ID: "3", Content: "oeufs"},
	}
}

func TestCalculateProgress(t *testing.T) {
	cases := []struct {
		name  string
		items []model.TodoItem
		want  int
	}{
		{"empty", nil, 0},
		{"half", []model.TodoItem{{Done: true}, {}, {Done: true}, {}}, 50},
		{"all", []model.TodoItem{{Done: true}}, 100},
		{"third", []model.TodoItem{{Done: true}, {}, {}}, 33},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CalculateProgress(c.items); got != c.want {
				t.Errorf("CalculateProgress = %d, want %d", got, c.want)
			}
		})
	}
}

func TestEditItemNotFound(t *testing.T) {
	for _, scope := range []Scope{ScopeLists, ScopeItems} {
		var calls int32
		rec := &recorder[model.TodoItem]{}
		update := func(context.Context, string, any, string) (model.TodoItem, error) {
			atomic.AddInt32(&calls, 1)
			return model.TodoItem{}, nil
		}
		EditItem(context.Background(), "missing", "x", sampleItems(), rec.setItems, update, "tok", rec.setError, scope)

		if calls != 0 {
			t.Errorf("%s: remote update called %d times", scope, calls)
		}
		if rec.lastError() != MsgNotFound {
			t.Errorf("%s: error = %q", scope, rec.lastError())
		}
		if len(rec.sets) != 0 {
			t.Errorf("%s: collection committed", scope)
		}
	}
}

func TestEditListRejectsBlank(t *testing.T) {
	lists := []model.TodoList{{ID: "l1", Title: "Courses"}}
	for _, in := range []string{"", "   "} {
		called := false
		rec := &recorder[model.TodoList]{}
		update := func(context.Context, string, any, string) (model.TodoList, error) {
			called = true
			return model.TodoList{}, nil
		}
		EditItem(context.Background(), "l1", in, lists, rec.setItems, update, "tok", rec.setError, ScopeLists)
		if called {
			t.Errorf("%q: remote update called", in)
		}
		if rec.lastError() != MsgEmptyText {
			t.Errorf("%q: error = %q", in, rec.lastError())
		}
	}
}

func TestEditItemForwardsBlankOutsideLists(t *testing.T) {
	var got any
	rec := &recorder[model.TodoItem]{}
	update := func(_ context.Context, _ string, payload any, _ string) (model.TodoItem, error) {
		got = payload
		return model.TodoItem{ID: "1", Content: ""}, nil
	}
	EditItem(context.Background(), "1", "   ", sampleItems(), rec.setItems, update, "tok", rec.setError, ScopeItems)

	patch, ok := got.(model.ItemPatch)
	if !ok || patch.Content == nil || *patch.Content != "" || patch.Done != nil {
		t.Fatalf("payload = %#v", got)
	}
	if len(rec.sets) != 1 {
		t.Fatalf("commits = %d", len(rec.sets))
	}
}

func TestEditListAppliesTrimmedInput(t *testing.T) {
	lists := []model.TodoList{
		{ID: "l1", Title: "Courses", TotalTasks: 3, CompletedTasks: 1},
		{ID: "l2", Title: "Travail"},
	}
	var payload any
	var token string
	rec := &recorder[model.TodoList]{}
	update := func(_ context.Context, _ string, p any, tok string) (model.TodoList, error) {
		payload, token = p, tok
		// the server echo is ignored for lists
		return model.TodoList{ID: "l1", Title: "server title"}, nil
	}
	EditItem(context.Background(), "l1", "  Marché  ", lists, rec.setItems, update, "tok", rec.setError, ScopeLists)

	if payload != "Marché" || token != "tok" {
		t.Errorf("payload = %#v token = %q", payload, token)
	}
	if len(rec.sets) != 1 {
		t.Fatalf("commits = %d", len(rec.sets))
	}
	want := []model.TodoList{
		{ID: "l1", Title: "Marché", TotalTasks: 3, CompletedTasks: 1},
		{ID: "l2", Title: "Travail"},
	}
	if !reflect.DeepEqual(rec.sets[0], want) {
		t.Errorf("lists = %+v", rec.sets[0])
	}
	if rec.lastError() != "" {
		t.Errorf("error not cleared: %q", rec.lastError())
	}
}

func TestEditItemTakesServerContent(t *testing.T) {
	items := sampleItems()
	rec := &recorder[model.TodoItem]{}
	update := func(context.Context, string, any, string) (model.TodoItem, error) {
		return model.TodoItem{ID: "2", Content: "new", Done: false}, nil
	}
	EditItem(context.Background(), "2", "typed", items, rec.setItems, update, "tok", rec.setError, ScopeItems)

	got := rec.sets[0]
	want := sampleItems()
	want[1].Content = "new" // done stays local
	if !reflect.DeepEqual(got, want) {
		t.Errorf("items = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(items, sampleItems()) {
		t.Error("input slice was mutated")
	}
}

func TestEditItemFailureKeepsCollection(t *testing.T) {
	rec := &recorder[model.TodoItem]{}
	update := func(context.Context, string, any, string) (model.TodoItem, error) {
		return model.TodoItem{}, errRemote
	}
	EditItem(context.Background(), "1", "x", sampleItems(), rec.setItems, update, "tok", rec.setError, ScopeItems)
	if len(rec.sets) != 0 {
		t.Error("collection committed on failure")
	}
	if rec.lastError() != MsgUpdateFailed {
		t.Errorf("error = %q", rec.lastError())
	}
}

func TestDeleteItem(t *testing.T) {
	rec := &recorder[model.TodoItem]{}
	var gotID, gotToken string
	remove := func(_ context.Context, id, tok string) (int, error) {
		gotID, gotToken = id, tok
		return 1, nil
	}
	DeleteItem(context.Background(), "2", sampleItems(), rec.setItems, remove, "tok", rec.setError)

	if gotID != "2" || gotToken != "tok" {
		t.Errorf("remove(%q, %q)", gotID, gotToken)
	}
	want := []model.TodoItem{sampleItems()[0], sampleItems()[2]}
	if len(rec.sets) != 1 || !reflect.DeepEqual(rec.sets[0], want) {
		t.Errorf("sets = %+v", rec.sets)
	}
	if rec.lastError() != "" {
		t.Errorf("error = %q", rec.lastError())
	}
}

func TestDeleteItemFailureLeavesCollection(t *testing.T) {
	items := sampleItems()
	rec := &recorder[model.TodoItem]{}
	remove := func(context.Context, string, string) (int, error) { return 0, errRemote }
	DeleteItem(context.Background(), "2", items, rec.setItems, remove, "tok", rec.setError)

	if len(rec.sets) != 0 {
		t.Error("collection committed on failure")
	}
	if !reflect.DeepEqual(items, sampleItems()) {
		t.Error("collection changed")
	}
	if rec.lastError() != MsgDeleteFailed {
		t.Errorf("error = %q", rec.lastError())
	}
}

func TestSetAllDonePartialFailure(t *testing.T) {
	items := []model.TodoItem{
		{ID: "1", Content: "a"},
		{ID: "2", Content: "b"},
		{ID: "3", Content: "c"},
	}
	var calls int32
	update := func(_ context.Context, id string, patch model.ItemPatch, _ string) (model.TodoItem, error) {
		atomic.AddInt32(&calls, 1)
		if patch.Done == nil || !*patch.Done {
			t.Errorf("patch for %s = %+v", id, patch)
		}
		if id == "2" {
			return model.TodoItem{}, errRemote
		}
		return model.TodoItem{ID: id, Done: true}, nil
	}
	var commits [][]model.TodoItem
	SetAllDone(context.Background(), items, true, update, "tok", func(xs []model.TodoItem) {
		commits = append(commits, xs)
	})

	if calls != 3 {
		t.Errorf("remote calls = %d, want 3", calls)
	}
	if len(commits) != 1 {
		t.Fatalf("commits = %d, want exactly 1", len(commits))
	}
	want := []model.TodoItem{
		{ID: "1", Content: "a", Done: true},
		{ID: "2", Content: "b"},
		{ID: "3", Content: "c", Done: true},
	}
	if !reflect.DeepEqual(commits[0], want) {
		t.Errorf("committed %+v", commits[0])
	}
}

func TestSetAllDoneUncheck(t *testing.T) {
	items := []model.TodoItem{{ID: "1", Done: true}, {ID: "2", Done: true}}
	update := func(_ context.Context, id string, _ model.ItemPatch, _ string) (model.TodoItem, error) {
		return model.TodoItem{ID: id}, nil
	}
	var got []model.TodoItem
	SetAllDone(context.Background(), items, false, update, "tok", func(xs []model.TodoItem) { got = xs })
	if CalculateProgress(got) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestSetAllDoneEmpty(t *testing.T) {
	committed := false
	SetAllDone(context.Background(), nil, true, nil, "tok", func(xs []model.TodoItem) {
		committed = true
		if len(xs) != 0 {
			t.Errorf("got %d items", len(xs))
		}
	})
	if !committed {
		t.Error("empty batch must still commit once")
	}
}
