package ui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/idilsaglam/tada/internal/model"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRegexp.ReplaceAllString(s, "") }

func visibleWidth(s string) int { return utf8.RuneCountInString(stripANSI(s)) }

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Panel draws a framed box using the current theme.
func Panel(lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if w := visibleWidth(ln); w > maxw {
			maxw = w
		}
	}
	pad := func(s string) string {
		if vis := visibleWidth(s); vis < maxw {
			s += strings.Repeat(" ", maxw-vis)
		}
		return s
	}
	fmt.Fprintln(stdout, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(stdout, t.V+" "+pad(ln)+" "+t.V)
	}
	fmt.Fprintln(stdout, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Chips renders labels as "#work #home".
func Chips(labels []model.Label) string {
	t := Current()
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, C(t.Label, t.SymLabel+l.Name))
	}
	return strings.Join(parts, " ")
}

// TodoLine renders one todo with its server id, box and chips.
func TodoLine(td model.Todo) string {
	t := Current()
	box, color := t.BoxUnchecked, t.Muted
	if td.Completed {
		box, color = t.BoxChecked, t.Success
	}
	text := td.Text
	if utf8.RuneCountInString(text) > 80 {
		text = string([]rune(text)[:77]) + "..."
	}
	line := fmt.Sprintf("%s %s %s", C(dim, fmt.Sprintf("%4d", td.ID)), C(color, box), text)
	if len(td.Labels) > 0 {
		line += "  " + Chips(td.Labels)
	}
	return line
}

// Stats counts completed and pending todos.
func Stats(todos []model.Todo) (done, pending int) {
	for _, td := range todos {
		if td.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
