package service

import (
	"context"
	"testing"

	"github.com/Makepad-fr/tada-lists/internal/backendtest"
	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/optimistic"
)

func seeded(t *testing.T) (*backendtest.Backend, model.TodoList, []model.TodoItem) {
	t.Helper()
	b := backendtest.New()
	l := b.SeedList("ana", "Courses",
		model.TodoItem{Content: "pain"},
		model.TodoItem{Content: "lait", Done: true},
		model.TodoItem{Content: "oeufs"},
	)
	return b, l, b.Items(l.ID)
}

func TestTaskLoad(t *testing.T) {
	b, l, want := seeded(t)
	svc := NewTaskService(b, signedIn("ana"))
	got, err := svc.Load(context.Background(), l.ID)
	if err != nil || len(got) != len(want) {
		t.Fatalf("Load = %+v, %v", got, err)
	}

	b.Fail("todos", nil)
	if _, err := svc.Load(context.Background(), l.ID); failureMsg(t, err) != MsgTasksFetch {
		t.Errorf("failed load: %v", err)
	}
}

func TestTaskAdd(t *testing.T) {
	ctx := context.Background()
	b, l, items := seeded(t)
	svc := NewTaskService(b, signedIn("ana"))

	if _, err := svc.Add(ctx, l.ID, items, "  "); failureMsg(t, err) != MsgTaskEmpty {
		t.Errorf("blank: %v", err)
	}
	got, err := svc.Add(ctx, l.ID, items, " beurre ")
	if err != nil {
		t.Fatal(err)
	}
	last := got[len(got)-1]
	if len(got) != 4 || last.Content != "beurre" || last.Done {
		t.Errorf("added = %+v", last)
	}
	if len(items) != 3 {
		t.Error("input slice modified")
	}

	b.Fail("createTodos", nil)
	kept, err := svc.Add(ctx, l.ID, got, "x")
	if failureMsg(t, err) != MsgTaskAdd || len(kept) != 4 {
		t.Errorf("failed add = %d, %v", len(kept), err)
	}
}

func TestTaskToggle(t *testing.T) {
	ctx := context.Background()
	b, l, items := seeded(t)
	svc := NewTaskService(b, signedIn("ana"))

	got, err := svc.Toggle(ctx, items, items[0].ID)
	if err != nil || !got[0].Done {
		t.Fatalf("Toggle = %+v, %v", got, err)
	}
	if items[0].Done {
		t.Error("input slice modified")
	}
	if !b.Items(l.ID)[0].Done {
		t.Error("remote not updated")
	}

	if _, err := svc.Toggle(ctx, items, "nope"); failureMsg(t, err) != optimistic.MsgNotFound {
		t.Errorf("missing: %v", err)
	}

	b.FailItem(items[1].ID)
	kept, err := svc.Toggle(ctx, got, items[1].ID)
	if failureMsg(t, err) != MsgTaskUpdate || !kept[1].Done {
		t.Errorf("failed toggle = %+v, %v", kept, err)
	}
}

func TestTaskEditUsesServerEcho(t *testing.T) {
	ctx := context.Background()
	b, _, items := seeded(t)
	svc := NewTaskService(b, signedIn("ana"))

	got, err := svc.Edit(ctx, items, items[2].ID, "  oeufs bio ")
	if err != nil {
		t.Fatal(err)
	}
	if got[2].Content != "oeufs bio" || got[2].Done != items[2].Done {
		t.Errorf("edited = %+v", got[2])
	}
	if _, err := svc.Edit(ctx, items, items[2].ID, ""); failureMsg(t, err) != MsgTextRequired {
		t.Errorf("blank: %v", err)
	}

	b.Fail("updateTodos", nil)
	kept, err := svc.Edit(ctx, got, items[0].ID, "x")
	if failureMsg(t, err) != optimistic.MsgUpdateFailed || kept[0].Content != "pain" {
		t.Errorf("failed edit = %+v, %v", kept, err)
	}
}

func TestTaskDelete(t *testing.T) {
	ctx := context.Background()
	b, l, items := seeded(t)
	svc := NewTaskService(b, signedIn("ana"))

	got, err := svc.Delete(ctx, items, items[1].ID)
	if err != nil || len(got) != 2 || got[0].ID != items[0].ID || got[1].ID != items[2].ID {
		t.Fatalf("Delete = %+v, %v", got, err)
	}
	if len(b.Items(l.ID)) != 2 {
		t.Error("remote not deleted")
	}

	b.Fail("deleteTodos", nil)
	kept, err := svc.Delete(ctx, got, got[0].ID)
	if failureMsg(t, err) != optimistic.MsgDeleteFailed || len(kept) != 2 {
		t.Errorf("failed delete = %+v, %v", kept, err)
	}
}

func TestCheckAllPartialFailure(t *testing.T) {
	ctx := context.Background()
	b, l, items := seeded(t)
	b.FailItem(items[0].ID)
	svc := NewTaskService(b, signedIn("ana"))

	got, err := svc.CheckAll(ctx, items)
	if err != nil {
		t.Fatal(err)
	}
	if b.Calls("updateTodos") != len(items) {
		t.Errorf("updates = %d", b.Calls("updateTodos"))
	}
	if got[0].Done || !got[1].Done || !got[2].Done {
		t.Errorf("CheckAll = %+v", got)
	}
	if optimistic.CalculateProgress(got) != 67 {
		t.Errorf("progress = %d", optimistic.CalculateProgress(got))
	}

	remote := b.Items(l.ID)
	if remote[0].Done || !remote[2].Done {
		t.Errorf("remote = %+v", remote)
	}
}

func TestUncheckAll(t *testing.T) {
	b, _, items := seeded(t)
	got, err := NewTaskService(b, signedIn("ana")).UncheckAll(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range got {
		if it.Done {
			t.Errorf("%s still done", it.ID)
		}
	}
	if optimistic.CalculateProgress(got) != 0 {
		t.Error("progress not reset")
	}
}
