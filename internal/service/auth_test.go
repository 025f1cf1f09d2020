package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Makepad-fr/tada-lists/internal/backendtest"
	"github.com/Makepad-fr/tada-lists/internal/session"
)

func failureMsg(t *testing.T, err error) string {
	t.Helper()
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("err = %v (%T), want *Failure", err, err)
	}
	return f.Msg
}

func TestSignInValidation(t *testing.T) {
	cases := []struct{ user, pass string }{
		{"", "pw"},
		{"ana", ""},
		{"", ""},
	}
	for _, c := range cases {
		b := backendtest.New()
		auth := NewAuthService(b, session.New(), nil)
		err := auth.SignIn(context.Background(), c.user, c.pass)
		if got := failureMsg(t, err); got != MsgFillAll {
			t.Errorf("SignIn(%q, %q) = %q", c.user, c.pass, got)
		}
		if b.TotalCalls() != 0 {
			t.Errorf("SignIn(%q, %q) reached the network", c.user, c.pass)
		}
	}
}

func TestSignInSuccessPersists(t *testing.T) {
	b := backendtest.New()
	b.AddUser("ana", "pw")
	sess := session.New()
	store := session.NewStore(t.TempDir(), "", "")
	auth := NewAuthService(b, sess, store)

	if err := auth.SignIn(context.Background(), "ana", "pw"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if sess.Token() != "token-ana" || sess.Username() != "ana" {
		t.Errorf("session = %q/%q", sess.Token(), sess.Username())
	}
	c, err := store.Load()
	if err != nil || c == nil || c.Username != "ana" {
		t.Errorf("persisted = %+v, %v", c, err)
	}

	// a fresh process restores it
	fresh := session.New()
	if _, err := NewAuthService(b, fresh, store).Restore(); err != nil {
		t.Fatal(err)
	}
	if fresh.Username() != "ana" {
		t.Errorf("restored username = %q", fresh.Username())
	}
}

func TestSignInSurfacesServerMessage(t *testing.T) {
	b := backendtest.New()
	auth := NewAuthService(b, session.New(), nil)
	err := auth.SignIn(context.Background(), "ana", "wrong")
	if got := failureMsg(t, err); got != "Invalid username or password" {
		t.Errorf("msg = %q", got)
	}
	if auth.Session().Authenticated() {
		t.Error("session set after failed sign in")
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("missing field", func(t *testing.T) {
		b := backendtest.New()
		_, err := NewAuthService(b, session.New(), nil).SignUp(ctx, "ana", "pw", "")
		if got := failureMsg(t, err); got != MsgFillAll {
			t.Errorf("msg = %q", got)
		}
		if b.TotalCalls() != 0 {
			t.Error("network reached")
		}
	})

	t.Run("mismatch", func(t *testing.T) {
		b := backendtest.New()
		_, err := NewAuthService(b, session.New(), nil).SignUp(ctx, "ana", "pw", "pw2")
		if got := failureMsg(t, err); got != MsgPasswordMismatch {
			t.Errorf("msg = %q", got)
		}
		if b.TotalCalls() != 0 {
			t.Error("network reached")
		}
	})

	t.Run("ok", func(t *testing.T) {
		b := backendtest.New()
		msg, err := NewAuthService(b, session.New(), nil).SignUp(ctx, "ana", "pw", "pw")
		if err != nil || msg != MsgSignUpOK {
			t.Errorf("SignUp = %q, %v", msg, err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		b := backendtest.New()
		b.AddUser("ana", "x")
		_, err := NewAuthService(b, session.New(), nil).SignUp(ctx, "ana", "pw", "pw")
		if got := failureMsg(t, err); got != "User ana already exists" {
			t.Errorf("msg = %q", got)
		}
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	b := backendtest.New()
	b.AddUser("ana", "old")
	auth := NewAuthService(b, session.New(), nil)

	if _, err := auth.ResetPassword(ctx, "", "x"); failureMsg(t, err) != MsgFillAllReset {
		t.Errorf("empty: %v", err)
	}
	if _, err := auth.ResetPassword(ctx, "bob", "x"); failureMsg(t, err) != MsgUnknownUser {
		t.Errorf("unknown: %v", err)
	}
	msg, err := auth.ResetPassword(ctx, "ana", "new")
	if err != nil || msg != MsgResetOK {
		t.Fatalf("ResetPassword = %q, %v", msg, err)
	}
	if err := auth.SignIn(ctx, "ana", "new"); err != nil {
		t.Errorf("sign in with new password: %v", err)
	}
}

func TestSignOutClearsEverything(t *testing.T) {
	sess := session.New()
	store := session.NewStore(t.TempDir(), "", "")
	if _, err := store.Save("token-ana", "ana"); err != nil {
		t.Fatal(err)
	}
	sess.Set("token-ana", "ana")

	if err := NewAuthService(backendtest.New(), sess, store).SignOut(); err != nil {
		t.Fatal(err)
	}
	if sess.Authenticated() || sess.Username() != "" {
		t.Error("session not cleared")
	}
	if c, _ := store.Load(); c != nil {
		t.Error("credentials file not removed")
	}
}

func TestRestoreOpaqueEnvTokenStaysSignedOut(t *testing.T) {
	b := backendtest.New()
	sess := session.New()
	auth := NewAuthService(b, sess, session.NewStore(t.TempDir(), "opaque-token-abc", ""))

	if c, err := auth.Restore(); err != nil || c != nil {
		t.Fatalf("Restore = %+v, %v", c, err)
	}
	if sess.Authenticated() {
		t.Fatal("session authenticated without a username")
	}
	_, err := NewListService(b, sess).Load(context.Background())
	if got := failureMsg(t, err); got != MsgNotSignedIn {
		t.Errorf("Load = %q, want %q", got, MsgNotSignedIn)
	}
	if b.TotalCalls() != 0 {
		t.Error("Load reached the network without a username")
	}
}

func TestSignOutClearsSessionWhenFileStays(t *testing.T) {
	dir := t.TempDir()
	// a non-empty directory in place of the file makes the removal fail
	blocker := filepath.Join(dir, "credentials.json")
	if err := os.MkdirAll(filepath.Join(blocker, "keep"), 0o700); err != nil {
		t.Fatal(err)
	}
	sess := session.New()
	sess.Set("token-ana", "ana")

	err := NewAuthService(backendtest.New(), sess, session.NewStore(dir, "", "")).SignOut()
	if err == nil {
		t.Fatal("want the removal error")
	}
	if sess.Authenticated() || sess.Token() != "" || sess.Username() != "" {
		t.Errorf("session = %q/%q, want cleared", sess.Token(), sess.Username())
	}
}
