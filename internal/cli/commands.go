package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Makepad-fr/tada-lists/internal/log"
	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/service"
	"github.com/Makepad-fr/tada-lists/internal/session"
	"github.com/Makepad-fr/tada-lists/internal/tui"
)

// -------------- account ----------------

func (r *runner) doUI() int {
	err := r.opt.RunUI(r.ctx, r.svc, tui.Options{Theme: r.opt.Theme})
	if err != nil {
		r.p.Fail("ui: " + err.Error())
		return exitError
	}
	return exitOK
}

func (r *runner) doSignIn(username string) int {
	password, err := r.readSecret("Mot de passe : ")
	if err != nil {
		r.p.Fail("password: " + err.Error())
		return exitError
	}
	if err := r.svc.Auth.SignIn(r.ctx, username, password); err != nil {
		return r.failed(err)
	}
	r.p.OK("signed in as " + username)
	return exitOK
}

func (r *runner) doSignUp(username string) int {
	password, err := r.readSecret("Mot de passe : ")
	if err != nil {
		r.p.Fail("password: " + err.Error())
		return exitError
	}
	confirm, err := r.readSecret("Confirmer le mot de passe : ")
	if err != nil {
		r.p.Fail("password: " + err.Error())
		return exitError
	}
	msg, err := r.svc.Auth.SignUp(r.ctx, username, password, confirm)
	if err != nil {
		return r.failed(err)
	}
	r.p.OK(msg)
	return exitOK
}

func (r *runner) doResetPassword(username string) int {
	password, err := r.readSecret("Nouveau mot de passe : ")
	if err != nil {
		r.p.Fail("password: " + err.Error())
		return exitError
	}
	msg, err := r.svc.Auth.ResetPassword(r.ctx, username, password)
	if err != nil {
		return r.failed(err)
	}
	r.p.OK(msg)
	return exitOK
}

func (r *runner) doSignOut() int {
	if err := r.svc.Auth.SignOut(); err != nil {
		r.p.OK("signed out")
		r.p.Fail("signout: " + err.Error())
		r.p.Hint("Hint: delete the credentials file by hand or the next run signs you back in")
		return exitError
	}
	r.p.OK("signed out")
	return exitOK
}

func (r *runner) doWhoami() int {
	token, username, err := r.svc.Auth.Session().Credentials()
	if err != nil {
		r.p.Fail(service.MsgNotSignedIn)
		r.p.Hint("Hint: run `tada signin <username>`")
		return exitError
	}
	t := r.p.Theme()
	lines := []string{r.p.C(t.Title, username)}
	if claims, err := session.ParseClaims(token); err == nil {
		if claims.IssuedAt != nil {
			lines = append(lines, r.p.C(t.Muted, "issued  "+claims.IssuedAt.Local().Format("2006-01-02 15:04")))
		}
		if claims.ExpiresAt != nil {
			lines = append(lines, r.p.C(t.Muted, "expires "+claims.ExpiresAt.Local().Format("2006-01-02 15:04")))
		}
	}
	r.p.Panel(lines)
	return exitOK
}

// -------------- lists ----------------

func (r *runner) doLists() int {
	lists, err := r.svc.Lists.Load(r.ctx)
	if err != nil {
		return r.failed(err)
	}
	r.p.Panel(r.listLines(lists))
	return exitOK
}

func (r *runner) doListAdd(title string) int {
	lists, err := r.svc.Lists.Add(r.ctx, nil, title)
	if err != nil {
		return r.failed(err)
	}
	r.p.OK("added " + lists[len(lists)-1].Title)
	return exitOK
}

func (r *runner) doListRename(n int, title string) int {
	lists, l, code := r.resolveList(n)
	if code != exitOK {
		return code
	}
	if _, err := r.svc.Lists.Rename(r.ctx, lists, l.ID, title); err != nil {
		return r.failed(err)
	}
	r.p.OK("renamed")
	return exitOK
}

func (r *runner) doListRemove(n int) int {
	lists, l, code := r.resolveList(n)
	if code != exitOK {
		return code
	}
	if _, err := r.svc.Lists.Delete(r.ctx, lists, l.ID); err != nil {
		return r.failed(err)
	}
	r.p.OK("removed " + l.Title)
	return exitOK
}

// -------------- tasks ----------------

func (r *runner) doTasks(n int, filter model.Filter) int {
	_, l, code := r.resolveList(n)
	if code != exitOK {
		return code
	}
	items, err := r.svc.Tasks.Load(r.ctx, l.ID)
	if err != nil {
		return r.failed(err)
	}
	r.p.Panel(r.taskLines(l, items, filter))
	return exitOK
}

func (r *runner) doTaskAdd(n int, content string) int {
	_, l, code := r.resolveList(n)
	if code != exitOK {
		return code
	}
	if _, err := r.svc.Tasks.Add(r.ctx, l.ID, nil, content); err != nil {
		return r.failed(err)
	}
	r.p.OK("added")
	return exitOK
}

func (r *runner) doTaskToggle(n, m int) int {
	items, it, code := r.resolveTask(n, m)
	if code != exitOK {
		return code
	}
	if _, err := r.svc.Tasks.Toggle(r.ctx, items, it.ID); err != nil {
		return r.failed(err)
	}
	r.p.OK("toggled")
	return exitOK
}

func (r *runner) doTaskEdit(n, m int, content string) int {
	items, it, code := r.resolveTask(n, m)
	if code != exitOK {
		return code
	}
	if _, err := r.svc.Tasks.Edit(r.ctx, items, it.ID, content); err != nil {
		return r.failed(err)
	}
	r.p.OK("updated")
	return exitOK
}

func (r *runner) doTaskRemove(n, m int) int {
	items, it, code := r.resolveTask(n, m)
	if code != exitOK {
		return code
	}
	if _, err := r.svc.Tasks.Delete(r.ctx, items, it.ID); err != nil {
		return r.failed(err)
	}
	r.p.OK("removed")
	return exitOK
}

func (r *runner) doSetAll(n int, done bool) int {
	_, l, code := r.resolveList(n)
	if code != exitOK {
		return code
	}
	items, err := r.svc.Tasks.Load(r.ctx, l.ID)
	if err != nil {
		return r.failed(err)
	}
	set := r.svc.Tasks.UncheckAll
	if done {
		set = r.svc.Tasks.CheckAll
	}
	items, err = set(r.ctx, items)
	if err != nil {
		return r.failed(err)
	}
	st := model.StatsOf(items)
	r.p.OK(fmt.Sprintf("Tâches réalisées : %d/%d", st.Completed, st.Count))
	if (done && st.Completed != st.Count) || (!done && st.Completed != 0) {
		r.p.Hint("some tasks could not be updated, see the log")
	}
	return exitOK
}

// -------------- helpers ----------------

func (r *runner) resolveList(n int) ([]model.TodoList, model.TodoList, int) {
	lists, err := r.svc.Lists.Load(r.ctx)
	if err != nil {
		return nil, model.TodoList{}, r.failed(err)
	}
	if n < 1 || n > len(lists) {
		r.outOfRange(len(lists), n, "tada ls")
		return nil, model.TodoList{}, exitUsage
	}
	return lists, lists[n-1], exitOK
}

func (r *runner) resolveTask(n, m int) ([]model.TodoItem, model.TodoItem, int) {
	_, l, code := r.resolveList(n)
	if code != exitOK {
		return nil, model.TodoItem{}, code
	}
	items, err := r.svc.Tasks.Load(r.ctx, l.ID)
	if err != nil {
		return nil, model.TodoItem{}, r.failed(err)
	}
	if m < 1 || m > len(items) {
		r.outOfRange(len(items), m, fmt.Sprintf("tada tasks %d", n))
		return nil, model.TodoItem{}, exitUsage
	}
	return items, items[m-1], exitOK
}

func (r *runner) outOfRange(have, got int, see string) {
	r.p.Fail(fmt.Sprintf("index out of range: have %d, got %d", have, got))
	r.p.Hint("Hint: run `" + see + "` to see valid indexes")
}

// failed reports a service error and returns the matching exit code.
func (r *runner) failed(err error) int {
	var f *service.Failure
	if errors.As(err, &f) && f.Err != nil {
		log.Debug().Err(f.Err).Str("msg", f.Msg).Msg("command failed")
	}
	r.p.Fail(err.Error())
	if errors.Is(err, session.ErrNotSignedIn) {
		r.p.Hint("Hint: run `tada signin <username>`")
	}
	return exitError
}

// readSecret prompts on the error stream. On a terminal the input is not
// echoed; otherwise one line is read.
func (r *runner) readSecret(prompt string) (string, error) {
	fmt.Fprint(r.p.Err, prompt)
	if f, ok := r.opt.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.p.Err)
		return string(b), err
	}
	line, err := r.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
