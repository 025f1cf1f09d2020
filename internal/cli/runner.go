package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/service"
	"github.com/Makepad-fr/tada-lists/internal/tui"
	"github.com/Makepad-fr/tada-lists/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // tasks grouped by pending/done
	Theme string
	Color ui.ColorMode

	// Streams default to the process's own.
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// RunUI starts the interactive front end. Defaults to tui.Run.
	RunUI func(ctx context.Context, svc service.Services, opts tui.Options) error
}

type runner struct {
	ctx context.Context
	svc service.Services
	opt Options
	p   *ui.Printer
	in  *bufio.Reader
}

// exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, svc service.Services, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if opt.RunUI == nil {
		opt.RunUI = tui.Run
	}
	r := &runner{
		ctx: ctx,
		svc: svc,
		opt: opt,
		p:   ui.NewPrinter(opt.Out, opt.Err, ui.ThemeNamed(opt.Theme), opt.Color),
		in:  bufio.NewReader(opt.In),
	}
	return r.run(args)
}

func (r *runner) run(args []string) int {
	if len(args) == 0 {
		r.printHelp()
		return exitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.printHelp()
		return exitOK

	case "ui":
		return r.doUI()

	case "signin", "signup", "reset-password":
		if len(a) != 1 {
			return r.usage("tada " + cmd + " <username>")
		}
		switch cmd {
		case "signin":
			return r.doSignIn(a[0])
		case "signup":
			return r.doSignUp(a[0])
		}
		return r.doResetPassword(a[0])

	case "signout":
		return r.doSignOut()

	case "whoami":
		return r.doWhoami()

	case "ls":
		return r.doLists()

	case "list":
		return r.runList(a)

	case "tasks":
		if len(a) < 1 || len(a) > 2 {
			return r.usage("tada tasks <list> [all|checked|unchecked]")
		}
		n, ok := r.number("tasks", a[0])
		if !ok {
			return exitUsage
		}
		filter := model.FilterAll
		if len(a) == 2 {
			filter = model.ParseFilter(a[1])
			if string(filter) != a[1] {
				return r.usage("tada tasks <list> [all|checked|unchecked]")
			}
		}
		return r.doTasks(n, filter)

	case "task":
		return r.runTask(a)

	case "check-all", "uncheck-all":
		if len(a) != 1 {
			return r.usage("tada " + cmd + " <list>")
		}
		n, ok := r.number(cmd, a[0])
		if !ok {
			return exitUsage
		}
		return r.doSetAll(n, cmd == "check-all")
	}

	r.p.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.p.Err)
	r.printHelp()
	return exitUsage
}

func (r *runner) runList(a []string) int {
	if len(a) == 0 {
		return r.usage("tada list add|rename|rm ...")
	}
	switch sub, rest := a[0], a[1:]; sub {
	case "add":
		if len(rest) == 0 {
			return r.usage("tada list add <title...>")
		}
		return r.doListAdd(strings.Join(rest, " "))
	case "rename":
		if len(rest) < 2 {
			return r.usage("tada list rename <list> <title...>")
		}
		n, ok := r.number("list rename", rest[0])
		if !ok {
			return exitUsage
		}
		return r.doListRename(n, strings.Join(rest[1:], " "))
	case "rm":
		if len(rest) != 1 {
			return r.usage("tada list rm <list>")
		}
		n, ok := r.number("list rm", rest[0])
		if !ok {
			return exitUsage
		}
		return r.doListRemove(n)
	default:
		return r.usage("tada list add|rename|rm ...")
	}
}

func (r *runner) runTask(a []string) int {
	if len(a) == 0 {
		return r.usage("tada task add|done|edit|rm ...")
	}
	sub, rest := a[0], a[1:]
	switch sub {
	case "add":
		if len(rest) < 2 {
			return r.usage("tada task add <list> <content...>")
		}
		n, ok := r.number("task add", rest[0])
		if !ok {
			return exitUsage
		}
		return r.doTaskAdd(n, strings.Join(rest[1:], " "))
	case "done", "rm":
		if len(rest) != 2 {
			return r.usage("tada task " + sub + " <list> <task>")
		}
		n, ok1 := r.number("task "+sub, rest[0])
		m, ok2 := r.number("task "+sub, rest[1])
		if !ok1 || !ok2 {
			return exitUsage
		}
		if sub == "done" {
			return r.doTaskToggle(n, m)
		}
		return r.doTaskRemove(n, m)
	case "edit":
		if len(rest) < 3 {
			return r.usage("tada task edit <list> <task> <content...>")
		}
		n, ok1 := r.number("task edit", rest[0])
		m, ok2 := r.number("task edit", rest[1])
		if !ok1 || !ok2 {
			return exitUsage
		}
		return r.doTaskEdit(n, m, strings.Join(rest[2:], " "))
	default:
		return r.usage("tada task add|done|edit|rm ...")
	}
}

func (r *runner) usage(line string) int {
	r.p.Fail("usage: " + line)
	return exitUsage
}

func (r *runner) number(cmd, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		r.p.Fail(cmd + ": not a number: " + s)
		return 0, false
	}
	return n, true
}

func (r *runner) printHelp() {
	fmt.Fprint(r.p.Out, `tada - your to-do lists, from the terminal

Usage:
  tada [flags] <subcommand> [args]

Account:
  ui                              Open the interactive interface
  signin <username>               Sign in (password is prompted)
  signup <username>               Create an account
  reset-password <username>       Set a new password
  signout                         Forget the saved session
  whoami                          Show the signed-in user

Lists:
  ls                              Show your lists with their progress
  list add <title...>             Create a list
  list rename <list> <title...>   Rename a list
  list rm <list>                  Delete a list and its tasks

Tasks:
  tasks <list> [all|checked|unchecked]
                                  Show the tasks of a list
  task add <list> <content...>    Add a task
  task done <list> <task>         Toggle a task
  task edit <list> <task> <content...>
                                  Change a task
  task rm <list> <task>           Delete a task
  check-all <list>                Mark every task done
  uncheck-all <list>              Mark every task pending

<list> and <task> are 1-based positions as shown by ls and tasks.

Examples:
  tada signin ana
  tada list add "Courses"
  tada task add 1 "Acheter du lait"
  tada tasks 1 unchecked
`)
}
