package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/ui"
)

type landingChoice struct {
	label string
	path  string
}

var landingChoices = []landingChoice{
	{"Sign in", router.PathSignIn},
	{"Sign up", router.PathSignUp},
}

// landing greets anonymous users.
type landing struct {
	cursor        int
	width, height int
}

func newLanding() *landing { return &landing{} }

func (l *landing) Init() tea.Cmd { return nil }

func (l *landing) SetSize(w, h int) { l.width, l.height = w, h }

func (l *landing) Update(msg tea.Msg) (screen, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch km.String() {
	case "q", "esc":
		return l, tea.Quit
	case "up", "k", "shift+tab":
		l.cursor = (l.cursor + len(landingChoices) - 1) % len(landingChoices)
	case "down", "j", "tab":
		l.cursor = (l.cursor + 1) % len(landingChoices)
	case "i":
		return l, navigate(router.PathSignIn)
	case "u":
		return l, navigate(router.PathSignUp)
	case "enter", " ":
		return l, navigate(landingChoices[l.cursor].path)
	}
	return l, nil
}

func (l *landing) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Welcome to tada!"))
	b.WriteString("\n\n")
	for i, c := range landingChoices {
		line := "  " + c.label
		if i == l.cursor {
			line = ui.SelectedStyle.Render("> " + c.label)
		}
		fmt.Fprintln(&b, line)
	}
	b.WriteString("\n")
	b.WriteString(ui.HelpStyle.Render("↑/↓ choose • enter open • i sign in • u sign up • q quit"))
	return center(l.width, l.height, ui.FrameStyle.Render(b.String()))
}

func center(w, h int, s string) string {
	if w <= 0 || h <= 0 {
		return s
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, s)
}

// notFound is shown for paths the router does not know.
type notFound struct {
	path          string
	width, height int
}

func newNotFound(path string) *notFound { return &notFound{path: path} }

func (n *notFound) Init() tea.Cmd { return nil }

func (n *notFound) SetSize(w, h int) { n.width, n.height = w, h }

func (n *notFound) Update(msg tea.Msg) (screen, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "q":
			return n, tea.Quit
		default:
			return n, navigate(router.PathRoot)
		}
	}
	return n, nil
}

func (n *notFound) View() string {
	body := ui.ErrorStyle.Render("404") + "  page not found: " + n.path + "\n\n" +
		ui.HelpStyle.Render("any key goes back • q quit")
	return center(n.width, n.height, ui.FrameStyle.Render(body))
}
