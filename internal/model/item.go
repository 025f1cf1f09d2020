package model

import "math"

// TodoItem is a single task. It belongs to exactly one list; the link only
// exists server-side through the belongsTo filter.
type TodoItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Done    bool   `json:"done"`
}

// ItemPatch is a partial task update. Nil fields are left out of the request.
type ItemPatch struct {
	Content *string `json:"content,omitempty"`
	Done    *bool   `json:"done,omitempty"`
}

func (it TodoItem) Key() string                 { return it.ID }
func (it TodoItem) Text() string                { return it.Content }
func (it TodoItem) WithText(s string) TodoItem  { it.Content = s; return it }
func (it TodoItem) WithDone(done bool) TodoItem { it.Done = done; return it }

// Filter narrows a task collection for display.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterChecked   Filter = "checked"
	FilterUnchecked Filter = "unchecked"
)

// ParseFilter accepts the filter names and falls back to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterChecked, FilterUnchecked:
		return Filter(s)
	}
	return FilterAll
}

// Match reports whether it passes f.
func (f Filter) Match(it TodoItem) bool {
	switch f {
	case FilterChecked:
		return it.Done
	case FilterUnchecked:
		return !it.Done
	}
	return true
}

// Apply returns the items matching f, keeping order.
func (f Filter) Apply(items []TodoItem) []TodoItem {
	out := make([]TodoItem, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Percent is round(100*done/total), 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
