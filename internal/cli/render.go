package cli

import (
	"fmt"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

// -------------- rendering helpers --------------

func printTodos(todos []model.Todo, opt Options) {
	home := view.Home{Todos: todos}
	printHome(&home, opt)
}

func printHome(home *view.Home, opt Options) {
	shown := home.Displayed()
	t := ui.Current()

	// Header + progress
	d, p := ui.Stats(shown)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Total"), len(shown),
	)

	var lines []string
	lines = append(lines, header)
	if home.Filter != nil {
		name := fmt.Sprintf("label %d", *home.Filter)
		if l, ok := model.LabelByID(home.Labels, *home.Filter); ok {
			name = l.Name
		}
		lines = append(lines, ui.C(t.Muted, "filter: ")+ui.C(t.Label, t.SymLabel+name))
	}
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(shown)...)
	} else {
		lines = append(lines, flatLines(shown)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
}

func flatLines(todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{ui.C(ui.Current().Muted, "no todos")}
	}
	out := make([]string, 0, len(todos))
	for _, td := range todos {
		out = append(out, ui.TodoLine(td))
	}
	return out
}

func groupLines(todos []model.Todo) []string {
	var pend, done []model.Todo
	for _, td := range todos {
		if td.Completed {
			done = append(done, td)
		} else {
			pend = append(pend, td)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(t.Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}

func printLabels(labels []model.Label) {
	t := ui.Current()
	lines := []string{ui.C(t.Title, "Labels") + "  " + ui.C(t.Muted, fmt.Sprintf("%d", len(labels))), ""}
	if len(labels) == 0 {
		lines = append(lines, ui.C(t.Muted, "no labels"))
	}
	for _, l := range labels {
		lines = append(lines, fmt.Sprintf("%s %s", ui.C("\033[2m", fmt.Sprintf("%4d", l.ID)), ui.C(t.Label, t.SymLabel+l.Name)))
	}
	ui.Panel(lines)
}
