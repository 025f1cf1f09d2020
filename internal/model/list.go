package model

// TodoList is a named collection of tasks owned by a user.
// TotalTasks and CompletedTasks are computed client-side from a task fetch;
// they are never sent to the server.
type TodoList struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TotalTasks     int    `json:"-"`
	CompletedTasks int    `json:"-"`
}

// ListPatch is a partial list update.
type ListPatch struct {
	Title string `json:"title"`
}

// Stats aggregates a list's tasks.
type Stats struct {
	Count     int `json:"count"`
	Completed int `json:"completed"`
}

// StatsOf counts items and the done ones among them.
func StatsOf(items []TodoItem) Stats {
	s := Stats{Count: len(items)}
	for _, it := range items {
		if it.Done {
			s.Completed++
		}
	}
	return s
}

func (l TodoList) Key() string                { return l.ID }
func (l TodoList) Text() string               { return l.Title }
func (l TodoList) WithText(s string) TodoList { l.Title = s; return l }

// WithStats copies the counts of s onto the list.
func (l TodoList) WithStats(s Stats) TodoList {
	l.TotalTasks, l.CompletedTasks = s.Count, s.Completed
	return l
}

// Progress is the completion percentage of the list.
func (l TodoList) Progress() int { return Percent(l.CompletedTasks, l.TotalTasks) }
