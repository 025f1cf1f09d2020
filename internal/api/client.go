// Package api exposes one method per remote action of the to-do backend.
package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/Makepad-fr/tada-lists/internal/graphql"
	"github.com/Makepad-fr/tada-lists/internal/model"
)

// Transport executes a GraphQL request and decodes data.<field> into out.
type Transport interface {
	Do(ctx context.Context, req graphql.Request, field string, out any) error
}

// Client wraps a Transport with the backend's operations.
type Client struct {
	t Transport
}

func New(t Transport) *Client { return &Client{t: t} }

var errEmptyResult = errors.New("empty result")

// ---- authentication ----

func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	var token string
	err := c.t.Do(ctx, graphql.Request{
		Query:     signInDoc,
		Variables: map[string]any{"username": username, "password": password},
	}, "signIn", &token)
	return token, err
}

func (c *Client) SignUp(ctx context.Context, username, password string) (string, error) {
	var result string
	err := c.t.Do(ctx, graphql.Request{
		Query:     signUpDoc,
		Variables: map[string]any{"username": username, "password": password},
	}, "signUp", &result)
	return result, err
}

// ResetPassword sets a new password for username.
func (c *Client) ResetPassword(ctx context.Context, username, newPassword string) (string, error) {
	var result string
	err := c.t.Do(ctx, graphql.Request{
		Query:     resetPasswordDoc,
		Variables: map[string]any{"username": username, "newPassword": newPassword},
	}, "updatePassword", &result)
	return result, err
}

// ---- lists ----

func (c *Client) GetTodoLists(ctx context.Context, owner, token string) ([]model.TodoList, error) {
	var lists []model.TodoList
	err := c.t.Do(ctx, graphql.Request{
		Query: getTodoListsDoc,
		Variables: map[string]any{
			"where": map[string]any{"owner": map[string]any{"username": owner}},
		},
		Token: token,
	}, "todoLists", &lists)
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) CreateTodoList(ctx context.Context, owner, title, token string) (model.TodoList, error) {
	var out struct {
		TodoLists []model.TodoList `json:"todoLists"`
	}
	err := c.t.Do(ctx, graphql.Request{
		Query: createTodoListDoc,
		Variables: map[string]any{
			"input": []any{map[string]any{
				"title": title,
				"owner": map[string]any{
					"connect": map[string]any{"where": map[string]any{"username": owner}},
				},
			}},
		},
		Token: token,
	}, "createTodoLists", &out)
	if err != nil {
		return model.TodoList{}, err
	}
	return first(out.TodoLists, "createTodoLists")
}

func (c *Client) UpdateTodoList(ctx context.Context, id string, patch model.ListPatch, token string) (model.TodoList, error) {
	var out struct {
		TodoLists []model.TodoList `json:"todoLists"`
	}
	err := c.t.Do(ctx, graphql.Request{
		Query: updateTodoListDoc,
		Variables: map[string]any{
			"where":  map[string]any{"id": id},
			"update": patch,
		},
		Token: token,
	}, "updateTodoLists", &out)
	if err != nil {
		return model.TodoList{}, err
	}
	return first(out.TodoLists, "updateTodoLists")
}

// DeleteTodoList removes a list and, through the delete input, its todos.
func (c *Client) DeleteTodoList(ctx context.Context, id, token string) (int, error) {
	var out struct {
		NodesDeleted int `json:"nodesDeleted"`
	}
	err := c.t.Do(ctx, graphql.Request{
		Query: deleteTodoListDoc,
		Variables: map[string]any{
			"where": map[string]any{"id": id},
			"delete": map[string]any{
				"todos": []any{map[string]any{"where": map[string]any{}}},
			},
		},
		Token: token,
	}, "deleteTodoLists", &out)
	return out.NodesDeleted, err
}

// ---- items ----

func (c *Client) GetTodoListItems(ctx context.Context, listID, token string) ([]model.TodoItem, error) {
	var items []model.TodoItem
	if err := c.t.Do(ctx, itemsRequest(listID, token), "todos", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateTodoItem(ctx context.Context, listID, content, token string) (model.TodoItem, error) {
	var out struct {
		Todos []model.TodoItem `json:"todos"`
	}
	err := c.t.Do(ctx, graphql.Request{
		Query: createTodoItemDoc,
		Variables: map[string]any{
			"input": []any{map[string]any{
				"content": content,
				"done":    false,
				"belongsTo": map[string]any{
					"connect": map[string]any{"where": map[string]any{"id": listID}},
				},
			}},
		},
		Token: token,
	}, "createTodos", &out)
	if err != nil {
		return model.TodoItem{}, err
	}
	return first(out.Todos, "createTodos")
}

func (c *Client) UpdateTodoItem(ctx context.Context, id string, patch model.ItemPatch, token string) (model.TodoItem, error) {
	var out struct {
		Todos []model.TodoItem `json:"todos"`
	}
	err := c.t.Do(ctx, graphql.Request{
		Query: updateTodoItemDoc,
		Variables: map[string]any{
			"where":  map[string]any{"id": id},
			"update": patch,
		},
		Token: token,
	}, "updateTodos", &out)
	if err != nil {
		return model.TodoItem{}, err
	}
	return first(out.Todos, "updateTodos")
}

func (c *Client) DeleteTodoItem(ctx context.Context, id, token string) (int, error) {
	var out struct {
		NodesDeleted int `json:"nodesDeleted"`
	}
	err := c.t.Do(ctx, graphql.Request{
		Query:     deleteTodoItemDoc,
		Variables: map[string]any{"where": map[string]any{"id": id}},
		Token:     token,
	}, "deleteTodos", &out)
	return out.NodesDeleted, err
}

// GetTodoListStats derives the counts from the full item fetch.
func (c *Client) GetTodoListStats(ctx context.Context, listID, token string) (model.Stats, error) {
	items, err := c.GetTodoListItems(ctx, listID, token)
	if err != nil {
		return model.Stats{}, err
	}
	return model.StatsOf(items), nil
}

func itemsRequest(listID, token string) graphql.Request {
	return graphql.Request{
		Query: getTodoListItemsDoc,
		Variables: map[string]any{
			"where": map[string]any{"belongsTo": map[string]any{"id": listID}},
		},
		Token: token,
	}
}

func first[T any](xs []T, field string) (T, error) {
	if len(xs) == 0 {
		var zero T
		return zero, fmt.Errorf("%s: %w", field, errEmptyResult)
	}
	return xs[0], nil
}
