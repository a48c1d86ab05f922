package view

import (
	"testing"

	"github.com/idilsaglam/tada/internal/model"
)

func ptr(v int) *int { return &v }

func TestFilterTodos(t *testing.T) {
	work := model.Label{ID: 1, Name: "work"}
	home := model.Label{ID: 2, Name: "home"}
	todos := []model.Todo{
		{ID: 10, Text: "report", Labels: []model.Label{work}},
		{ID: 11, Text: "dishes", Labels: []model.Label{home}},
		{ID: 12, Text: "commute", Labels: []model.Label{work, home}},
		{ID: 13, Text: "nap"},
	}

	tests := []struct {
		name   string
		filter *int
		want   []int
	}{
		{"no filter", nil, []int{10, 11, 12, 13}},
		{"work", ptr(1), []int{10, 12}},
		{"home", ptr(2), []int{11, 12}},
		{"unknown label", ptr(99), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTodos(todos, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("want ids %v, got %+v", tt.want, got)
			}
			for i, td := range got {
				if td.ID != tt.want[i] {
					t.Fatalf("want ids %v, got %+v", tt.want, got)
				}
			}
		})
	}
}

func TestDisplayedFollowsState(t *testing.T) {
	var h Home
	h.ReplaceTodos([]model.Todo{
		{ID: 1, Labels: []model.Label{{ID: 7}}},
		{ID: 2},
	})
	h.SelectLabel(ptr(7))
	if got := h.Displayed(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected filtered list %+v", got)
	}

	h.ReplaceTodos([]model.Todo{{ID: 3, Labels: []model.Label{{ID: 7}}}, {ID: 4, Labels: []model.Label{{ID: 7}}}})
	if got := h.Displayed(); len(got) != 2 {
		t.Fatalf("filter must be recomputed after replace, got %+v", got)
	}

	h.SelectLabel(nil)
	if got := h.Displayed(); len(got) != 2 {
		t.Fatalf("nil filter shows everything, got %+v", got)
	}
}

func TestSelectLabelCopiesID(t *testing.T) {
	var h Home
	id := 5
	h.SelectLabel(&id)
	id = 6
	if *h.Filter != 5 {
		t.Fatalf("filter aliased caller variable")
	}
}
