package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada-lists/internal/graphql"
	"github.com/Makepad-fr/tada-lists/internal/model"
)

// recorder is a Transport that answers every call with a canned data field.
type recorder struct {
	reqs   []graphql.Request
	fields []string
	reply  string
	err    error
}

func (r *recorder) Do(_ context.Context, req graphql.Request, field string, out any) error {
	r.reqs = append(r.reqs, req)
	r.fields = append(r.fields, field)
	if r.err != nil {
		return r.err
	}
	if out == nil || r.reply == "" {
		return nil
	}
	return json.Unmarshal([]byte(r.reply), out)
}

func (r *recorder) last(t *testing.T) (graphql.Request, map[string]any) {
	t.Helper()
	if len(r.reqs) == 0 {
		t.Fatal("no request sent")
	}
	req := r.reqs[len(r.reqs)-1]
	// round-trip the variables so nested values compare as plain JSON
	b, err := json.Marshal(req.Variables)
	if err != nil {
		t.Fatalf("marshal variables: %v", err)
	}
	var vars map[string]any
	if err := json.Unmarshal(b, &vars); err != nil {
		t.Fatalf("unmarshal variables: %v", err)
	}
	return req, vars
}

func jsonString(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestSignIn(t *testing.T) {
	rec := &recorder{reply: `"tok"`}
	token, err := New(rec).SignIn(context.Background(), "ana", "pw")
	if err != nil || token != "tok" {
		t.Fatalf("SignIn = %q, %v", token, err)
	}
	req, vars := rec.last(t)
	if req.Query != signInDoc || rec.fields[0] != "signIn" || req.Token != "" {
		t.Errorf("unexpected request %+v field %s", req, rec.fields[0])
	}
	if vars["username"] != "ana" || vars["password"] != "pw" {
		t.Errorf("vars = %v", vars)
	}
}

func TestResetPasswordUsesDeclaredVariable(t *testing.T) {
	rec := &recorder{reply: `"ok"`}
	if _, err := New(rec).ResetPassword(context.Background(), "ana", "new"); err != nil {
		t.Fatal(err)
	}
	_, vars := rec.last(t)
	if vars["newPassword"] != "new" || vars["username"] != "ana" {
		t.Errorf("vars = %v", vars)
	}
	if rec.fields[0] != "updatePassword" {
		t.Errorf("field = %s", rec.fields[0])
	}
}

func TestGetTodoListsFiltersByOwner(t *testing.T) {
	rec := &recorder{reply: `[{"id":"l1","title":"Courses"}]`}
	lists, err := New(rec).GetTodoLists(context.Background(), "ana", "tok")
	if err != nil {
		t.Fatal(err)
	}
	if len(lists) != 1 || lists[0].Title != "Courses" {
		t.Errorf("lists = %+v", lists)
	}
	req, vars := rec.last(t)
	if req.Token != "tok" {
		t.Errorf("token = %q", req.Token)
	}
	if got := jsonString(t, vars["where"]); got != `{"owner":{"username":"ana"}}` {
		t.Errorf("where = %s", got)
	}
}

func TestCreateTodoListConnectsOwner(t *testing.T) {
	rec := &recorder{reply: `{"todoLists":[{"id":"l2","title":"Work"}]}`}
	l, err := New(rec).CreateTodoList(context.Background(), "ana", "Work", "tok")
	if err != nil || l.ID != "l2" {
		t.Fatalf("CreateTodoList = %+v, %v", l, err)
	}
	_, vars := rec.last(t)
	want := `[{"owner":{"connect":{"where":{"username":"ana"}}},"title":"Work"}]`
	if got := jsonString(t, vars["input"]); got != want {
		t.Errorf("input = %s", got)
	}
}

func TestUpdateTodoList(t *testing.T) {
	rec := &recorder{reply: `{"todoLists":[{"id":"l1","title":"Renamed"}]}`}
	l, err := New(rec).UpdateTodoList(context.Background(), "l1", model.ListPatch{Title: "Renamed"}, "tok")
	if err != nil || l.Title != "Renamed" {
		t.Fatalf("UpdateTodoList = %+v, %v", l, err)
	}
	_, vars := rec.last(t)
	if got := jsonString(t, vars); got != `{"update":{"title":"Renamed"},"where":{"id":"l1"}}` {
		t.Errorf("vars = %s", got)
	}
}

func TestDeleteTodoListCascades(t *testing.T) {
	rec := &recorder{reply: `{"nodesDeleted":4}`}
	n, err := New(rec).DeleteTodoList(context.Background(), "l1", "tok")
	if err != nil || n != 4 {
		t.Fatalf("DeleteTodoList = %d, %v", n, err)
	}
	_, vars := rec.last(t)
	if got := jsonString(t, vars["delete"]); got != `{"todos":[{"where":{}}]}` {
		t.Errorf("delete = %s", got)
	}
}

func TestCreateTodoItem(t *testing.T) {
	rec := &recorder{reply: `{"todos":[{"id":"t1","content":"lait","done":false}]}`}
	it, err := New(rec).CreateTodoItem(context.Background(), "l1", "lait", "tok")
	if err != nil || it.ID != "t1" {
		t.Fatalf("CreateTodoItem = %+v, %v", it, err)
	}
	_, vars := rec.last(t)
	want := `[{"belongsTo":{"connect":{"where":{"id":"l1"}}},"content":"lait","done":false}]`
	if got := jsonString(t, vars["input"]); got != want {
		t.Errorf("input = %s", got)
	}
}

func TestUpdateTodoItemSendsOnlySetFields(t *testing.T) {
	rec := &recorder{reply: `{"todos":[{"id":"t1","content":"lait","done":true}]}`}
	done := true
	it, err := New(rec).UpdateTodoItem(context.Background(), "t1", model.ItemPatch{Done: &done}, "tok")
	if err != nil || !it.Done {
		t.Fatalf("UpdateTodoItem = %+v, %v", it, err)
	}
	_, vars := rec.last(t)
	if got := jsonString(t, vars["update"]); got != `{"done":true}` {
		t.Errorf("update = %s", got)
	}
}

func TestUpdateTodoItemEmptyResult(t *testing.T) {
	rec := &recorder{reply: `{"todos":[]}`}
	_, err := New(rec).UpdateTodoItem(context.Background(), "missing", model.ItemPatch{}, "tok")
	if !errors.Is(err, errEmptyResult) {
		t.Errorf("err = %v, want errEmptyResult", err)
	}
}

func TestGetTodoListStats(t *testing.T) {
	rec := &recorder{reply: `[{"id":"1","done":true},{"id":"2","done":false},{"id":"3","done":true}]`}
	s, err := New(rec).GetTodoListStats(context.Background(), "l1", "tok")
	if err != nil {
		t.Fatal(err)
	}
	if s != (model.Stats{Count: 3, Completed: 2}) {
		t.Errorf("stats = %+v", s)
	}
	req, vars := rec.last(t)
	if req.Query != getTodoListItemsDoc {
		t.Error("stats should reuse the items query")
	}
	if got := jsonString(t, vars["where"]); got != `{"belongsTo":{"id":"l1"}}` {
		t.Errorf("where = %s", got)
	}
}

func TestTransportErrorPropagates(t *testing.T) {
	boom := &graphql.Error{Message: "Not authorized"}
	rec := &recorder{err: boom}
	_, err := New(rec).GetTodoListItems(context.Background(), "l1", "tok")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestEndToEndOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(b), "deleteTodos") {
			http.Error(w, "unexpected", http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			_, _ = io.WriteString(w, `{"errors":[{"message":"Unauthenticated"}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"deleteTodos":{"nodesDeleted":1}}}`)
	}))
	defer srv.Close()

	c := New(graphql.NewClient(srv.URL, srv.Client()))
	n, err := c.DeleteTodoItem(context.Background(), "t1", "tok")
	if err != nil || n != 1 {
		t.Fatalf("DeleteTodoItem = %d, %v", n, err)
	}
	if _, err := c.DeleteTodoItem(context.Background(), "t1", "bad"); err == nil || err.Error() != "Unauthenticated" {
		t.Errorf("err = %v, want Unauthenticated", err)
	}
}
