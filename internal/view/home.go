package view

import "github.com/idilsaglam/tada/internal/model"

// Home is the state behind the home screen. Collections are only ever
// replaced; the filter is transient and never persisted.
type Home struct {
	Todos  []model.Todo
	Labels []model.Label
	Filter *int
}

// Apply replaces both collections.
func (h *Home) Apply(s Snapshot) {
	h.ReplaceTodos(s.Todos)
	h.ReplaceLabels(s.Labels)
}

// ReplaceTodos swaps in a refetched todo list.
func (h *Home) ReplaceTodos(todos []model.Todo) { h.Todos = todos }

// ReplaceLabels swaps in a refetched label list. A filter on a label that
// no longer exists is kept; it simply matches nothing.
func (h *Home) ReplaceLabels(labels []model.Label) { h.Labels = labels }

// SelectLabel sets the filter; nil shows everything.
func (h *Home) SelectLabel(id *int) {
	if id == nil {
		h.Filter = nil
		return
	}
	v := *id
	h.Filter = &v
}

// Displayed is the filtered todo list, recomputed on every call.
func (h *Home) Displayed() []model.Todo {
	return FilterTodos(h.Todos, h.Filter)
}

// FilterTodos returns the todos carrying label *filter, or all of them when
// filter is nil.
func FilterTodos(todos []model.Todo, filter *int) []model.Todo {
	if filter == nil {
		return todos
	}
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.HasLabel(*filter) {
			out = append(out, t)
		}
	}
	return out
}
