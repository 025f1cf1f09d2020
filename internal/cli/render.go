package cli

import (
	"fmt"

	"github.com/Makepad-fr/tada-lists/internal/model"
	"github.com/Makepad-fr/tada-lists/internal/ui"
)

func (r *runner) listLines(lists []model.TodoList) []string {
	t := r.p.Theme()
	var done, total int
	for _, l := range lists {
		done += l.CompletedTasks
		total += l.TotalTasks
	}
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d",
			r.p.C(t.Title, "Mes listes"),
			r.p.C(t.Accent, "Listes"), len(lists),
			r.p.C(t.Success, t.SymDone), done,
		) + r.p.C(t.Muted, fmt.Sprintf("/%d", total)),
		"",
	}
	if len(lists) == 0 {
		lines = append(lines, r.p.C(t.Muted, "no lists"))
	}
	for i, l := range lists {
		color := t.Pending
		if l.TotalTasks > 0 && l.CompletedTasks == l.TotalTasks {
			color = t.Success
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s %s",
			r.p.C(dim, fmt.Sprintf("%2d.", i+1)),
			truncate(l.Title, 60),
			r.p.C(color, ui.ProgressBar(l.CompletedTasks, l.TotalTasks, 10)),
			r.p.C(t.Muted, fmt.Sprintf("(%d/%d)", l.CompletedTasks, l.TotalTasks)),
		))
	}
	lines = append(lines, "", r.p.C(t.Muted, "Tip: add with `tada list add \"Courses\"`"))
	return lines
}

func (r *runner) taskLines(l model.TodoList, items []model.TodoItem, filter model.Filter) []string {
	t := r.p.Theme()
	st := model.StatsOf(items)
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			r.p.C(t.Title, l.Title),
			r.p.C(t.Success, t.SymDone), st.Completed,
			r.p.C(t.Pending, t.SymPending), st.Count-st.Completed,
			r.p.C(t.Accent, "Total"), st.Count,
		),
		r.p.C(t.Muted, ui.ProgressBar(st.Completed, st.Count, 28)),
		fmt.Sprintf("Tâches réalisées : %d/%d", st.Completed, st.Count),
		"",
	}

	// numbering follows the unfiltered order so indexes stay valid for task commands
	type numbered struct {
		n  int
		it model.TodoItem
	}
	var shown []numbered
	for i, it := range items {
		if filter.Match(it) {
			shown = append(shown, numbered{i + 1, it})
		}
	}

	render := func(xs []numbered) []string {
		if len(xs) == 0 {
			return []string{r.p.C(t.Muted, "no tasks")}
		}
		out := make([]string, 0, len(xs))
		for _, x := range xs {
			color := t.Muted
			if x.it.Done {
				color = t.Success
			}
			out = append(out, fmt.Sprintf("%s %s %s",
				r.p.C(dim, fmt.Sprintf("%2d.", x.n)), r.p.C(color, t.Box(x.it.Done)), truncate(x.it.Content, 80)))
		}
		return out
	}

	if !r.opt.Group {
		return append(lines, render(shown)...)
	}
	var pend, done []numbered
	for _, x := range shown {
		if x.it.Done {
			done = append(done, x)
		} else {
			pend = append(pend, x)
		}
	}
	lines = append(lines, r.p.C(t.Accent, "Pending"))
	lines = append(lines, render(pend)...)
	lines = append(lines, "", r.p.C(t.Accent, "Done"))
	return append(lines, render(done)...)
}

const dim = "\033[2m"

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}
