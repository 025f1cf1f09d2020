// Package service holds the screen-agnostic flows shared by the TUI and the
// CLI: input validation, the remote call, and the user-facing message.
package service

import (
	"context"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/session"
)

// Backend is the remote to-do API.
type Backend interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	SignUp(ctx context.Context, username, password string) (string, error)
	ResetPassword(ctx context.Context, username, newPassword string) (string, error)

	GetTodoLists(ctx context.Context, owner, token string) ([]model.TodoList, error)
	CreateTodoList(ctx context.Context, owner, title, token string) (model.TodoList, error)
	UpdateTodoList(ctx context.Context, id string, patch model.ListPatch, token string) (model.TodoList, error)
	DeleteTodoList(ctx context.Context, id, token string) (int, error)

	GetTodoListItems(ctx context.Context, listID, token string) ([]model.TodoItem, error)
	CreateTodoItem(ctx context.Context, listID, content, token string) (model.TodoItem, error)
	UpdateTodoItem(ctx context.Context, id string, patch model.ItemPatch, token string) (model.TodoItem, error)
	DeleteTodoItem(ctx context.Context, id, token string) (int, error)
	GetTodoListStats(ctx context.Context, listID, token string) (model.Stats, error)
}

// User-facing messages.
const (
	MsgFillAll          = "Veuillez remplir tous les champs."
	MsgFillAllReset     = "Veuillez remplir tous les champs pour réinitialiser le mot de passe."
	MsgPasswordMismatch = "Les mots de passe ne correspondent pas."
	MsgSignUpOK         = "Inscription réussie. Vous pouvez maintenant vous connecter."
	MsgResetOK          = "Mot de passe réinitialisé avec succès !"
	MsgUnknownUser      = "Identifiant non trouvé."
	MsgNotSignedIn      = "Veuillez vous connecter."

	MsgListsFetch   = "Erreur lors de la récupération des listes."
	MsgListNameReq  = "Le nom de la liste est obligatoire."
	MsgListAdd      = "Erreur lors de l'ajout de la liste."
	MsgTasksFetch   = "Erreur lors du chargement des tâches."
	MsgTaskEmpty    = "La tâche ne peut pas être vide."
	MsgTaskAdd      = "Erreur lors de l'ajout de la tâche."
	MsgTaskUpdate   = "Erreur lors de la mise à jour de la tâche."
	MsgTextRequired = "Le texte ne peut pas être vide."
)

// Failure is an error whose message is meant for the user. Err keeps the
// underlying cause, if any, for logs.
type Failure struct {
	Msg string
	Err error
}

func (f *Failure) Error() string { return f.Msg }
func (f *Failure) Unwrap() error { return f.Err }

func fail(msg string, err error) error { return &Failure{Msg: msg, Err: err} }

// outcome collects the callbacks of the optimistic helpers.
type outcome[T any] struct {
	items []T
	msg   string
}

func (o *outcome[T]) setItems(xs []T)     { o.items = xs }
func (o *outcome[T]) setError(msg string) { o.msg = msg }

// result returns the committed collection, or prev with a Failure.
func (o *outcome[T]) result(prev []T) ([]T, error) {
	if o.msg != "" {
		return prev, fail(o.msg, nil)
	}
	return o.items, nil
}

// Services bundles the flows a front end needs.
type Services struct {
	Auth  *AuthService
	Lists *ListService
	Tasks *TaskService
}

// NewServices wires every flow to one backend and session. store may be nil.
func NewServices(backend Backend, sess *session.Session, store *session.Store) Services {
	return Services{
		Auth:  NewAuthService(backend, sess, store),
		Lists: NewListService(backend, sess),
		Tasks: NewTaskService(backend, sess),
	}
}
