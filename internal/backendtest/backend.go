// Package backendtest is an in-memory stand-in for the remote to-do API,
// shared by the service, TUI and CLI tests.
package backendtest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/Makepad-fr/tada-lists/internal/graphql"
	"github.com/Makepad-fr/tada-lists/internal/model"
)

// ErrInjected is returned by operations registered with Fail.
var ErrInjected = errors.New("injected failure")

// Backend keeps users, lists and tasks in memory. Safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	users  map[string]string // username -> password
	lists  []listRow
	items  []itemRow
	nextID int

	calls map[string]int
	fail  map[string]error
	// failIDs makes UpdateTodoItem fail for specific task ids.
	failIDs map[string]bool
	// block, when set, makes every call wait for it to close or ctx to end.
	block chan struct{}
}

type listRow struct {
	model.TodoList
	owner string
}

type itemRow struct {
	model.TodoItem
	listID string
}

func New() *Backend {
	return &Backend{
		users:   map[string]string{},
		calls:   map[string]int{},
		fail:    map[string]error{},
		failIDs: map[string]bool{},
	}
}

// AddUser registers a user directly.
func (b *Backend) AddUser(username, password string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[username] = password
}

// SeedList creates a list owned by owner with the given tasks.
func (b *Backend) SeedList(owner, title string, items ...model.TodoItem) model.TodoList {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := model.TodoList{ID: b.id("l"), Title: title}
	b.lists = append(b.lists, listRow{TodoList: l, owner: owner})
	for _, it := range items {
		if it.ID == "" {
			it.ID = b.id("t")
		}
		b.items = append(b.items, itemRow{TodoItem: it, listID: l.ID})
	}
	return l
}

// Fail makes operation op return err (ErrInjected when err is nil).
func (b *Backend) Fail(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	b.fail[op] = err
}

// FailItem makes updates of task id fail.
func (b *Backend) FailItem(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failIDs[id] = true
}

// Block holds every call until the returned release func runs.
func (b *Backend) Block() (release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan struct{})
	b.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls reports how many times op ran.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// TotalCalls reports all operations run so far.
func (b *Backend) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

// Items returns the stored tasks of a list.
func (b *Backend) Items(listID string) []model.TodoItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.itemsOf(listID)
}

func (b *Backend) enter(ctx context.Context, op string) error {
	b.mu.Lock()
	b.calls[op]++
	block := b.block
	err := b.fail[op]
	b.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (b *Backend) id(prefix string) string {
	b.nextID++
	return prefix + strconv.Itoa(b.nextID)
}

func (b *Backend) authorize(token string) (string, error) {
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", &graphql.Error{Message: "Unauthenticated"}
	}
	return token[len(prefix):], nil
}

func (b *Backend) itemsOf(listID string) []model.TodoItem {
	var out []model.TodoItem
	for _, it := range b.items {
		if it.listID == listID {
			out = append(out, it.TodoItem)
		}
	}
	return out
}

// ---- service.Backend ----

func (b *Backend) SignIn(ctx context.Context, username, password string) (string, error) {
	if err := b.enter(ctx, "signIn"); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.users[username]; !ok || pw != password {
		return "", &graphql.Error{Message: "Invalid username or password"}
	}
	return "token-" + username, nil
}

func (b *Backend) SignUp(ctx context.Context, username, password string) (string, error) {
	if err := b.enter(ctx, "signUp"); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[username]; ok {
		return "", &graphql.Error{Message: fmt.Sprintf("User %s already exists", username)}
	}
	b.users[username] = password
	return "token-" + username, nil
}

func (b *Backend) ResetPassword(ctx context.Context, username, newPassword string) (string, error) {
	if err := b.enter(ctx, "updatePassword"); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[username]; !ok {
		return "", &graphql.Error{Message: "User not found"}
	}
	b.users[username] = newPassword
	return "ok", nil
}

func (b *Backend) GetTodoLists(ctx context.Context, owner, token string) ([]model.TodoList, error) {
	if err := b.enter(ctx, "todoLists"); err != nil {
		return nil, err
	}
	if _, err := b.authorize(token); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []model.TodoList
	for _, l := range b.lists {
		if l.owner == owner {
			out = append(out, model.TodoList{ID: l.ID, Title: l.Title})
		}
	}
	return out, nil
}

func (b *Backend) CreateTodoList(ctx context.Context, owner, title, token string) (model.TodoList, error) {
	if err := b.enter(ctx, "createTodoLists"); err != nil {
		return model.TodoList{}, err
	}
	if _, err := b.authorize(token); err != nil {
		return model.TodoList{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	l := model.TodoList{ID: b.id("l"), Title: title}
	b.lists = append(b.lists, listRow{TodoList: l, owner: owner})
	return l, nil
}

func (b *Backend) UpdateTodoList(ctx context.Context, id string, patch model.ListPatch, token string) (model.TodoList, error) {
	if err := b.enter(ctx, "updateTodoLists"); err != nil {
		return model.TodoList{}, err
	}
	if _, err := b.authorize(token); err != nil {
		return model.TodoList{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.lists {
		if b.lists[i].ID == id {
			b.lists[i].Title = patch.Title
			return b.lists[i].TodoList, nil
		}
	}
	return model.TodoList{}, &graphql.Error{Message: "list not found"}
}

func (b *Backend) DeleteTodoList(ctx context.Context, id, token string) (int, error) {
	if err := b.enter(ctx, "deleteTodoLists"); err != nil {
		return 0, err
	}
	if _, err := b.authorize(token); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	lists := b.lists[:0]
	for _, l := range b.lists {
		if l.ID == id {
			n++
			continue
		}
		lists = append(lists, l)
	}
	b.lists = lists
	items := b.items[:0]
	for _, it := range b.items {
		if it.listID == id {
			n++
			continue
		}
		items = append(items, it)
	}
	b.items = items
	return n, nil
}

func (b *Backend) GetTodoListItems(ctx context.Context, listID, token string) ([]model.TodoItem, error) {
	if err := b.enter(ctx, "todos"); err != nil {
		return nil, err
	}
	if _, err := b.authorize(token); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.itemsOf(listID), nil
}

func (b *Backend) CreateTodoItem(ctx context.Context, listID, content, token string) (model.TodoItem, error) {
	if err := b.enter(ctx, "createTodos"); err != nil {
		return model.TodoItem{}, err
	}
	if _, err := b.authorize(token); err != nil {
		return model.TodoItem{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	it := model.TodoItem{ID: b.id("t"), Content: content}
	b.items = append(b.items, itemRow{TodoItem: it, listID: listID})
	return it, nil
}

func (b *Backend) UpdateTodoItem(ctx context.Context, id string, patch model.ItemPatch, token string) (model.TodoItem, error) {
	if err := b.enter(ctx, "updateTodos"); err != nil {
		return model.TodoItem{}, err
	}
	if _, err := b.authorize(token); err != nil {
		return model.TodoItem{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failIDs[id] {
		return model.TodoItem{}, ErrInjected
	}
	for i := range b.items {
		if b.items[i].ID != id {
			continue
		}
		if patch.Content != nil {
			b.items[i].Content = *patch.Content
		}
		if patch.Done != nil {
			b.items[i].Done = *patch.Done
		}
		return b.items[i].TodoItem, nil
	}
	return model.TodoItem{}, &graphql.Error{Message: "todo not found"}
}

func (b *Backend) DeleteTodoItem(ctx context.Context, id, token string) (int, error) {
	if err := b.enter(ctx, "deleteTodos"); err != nil {
		return 0, err
	}
	if _, err := b.authorize(token); err != nil {
		return 0, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (b *Backend) GetTodoListStats(ctx context.Context, listID, token string) (model.Stats, error) {
	items, err := b.GetTodoListItems(ctx, listID, token)
	if err != nil {
		return model.Stats{}, err
	}
	return model.StatsOf(items), nil
}
