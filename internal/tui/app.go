// Package tui is the full-screen client. The route guard picks the screen,
// every gateway call runs as a tea.Cmd, and refetched collections come back
// as messages that replace the home screen's state.
package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/session"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

// Deps are the collaborators the screens share.
type Deps struct {
	Store  *session.Store
	Users  auth.UserDirectory
	Sync   *view.Synchronizer
	Router *router.Router
	Logger *slog.Logger
}

// navigateMsg asks the root model to resolve a path.
type navigateMsg struct{ path string }

// failedMsg carries an error nobody handled locally.
type failedMsg struct {
	op  string
	err error
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// screen is one routed page.
type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// App is the root Bubble Tea model.
type App struct {
	deps   Deps
	ctx    context.Context
	path   string
	page   router.Page
	screen screen
	status string
	width  int
	height int
}

// New builds the root model and resolves the start path.
func New(ctx context.Context, deps Deps, start string) App {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := App{deps: deps, ctx: ctx, width: 80, height: 24}
	a.goTo(start)
	return a
}

// Run starts the program at "/" and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps, router.PathRoot), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Page is the screen currently shown.
func (a App) Page() router.Page { return a.page }

// Path is the path the router settled on.
func (a App) Path() string { return a.path }

// Status is the last unhandled error, if any.
func (a App) Status() string { return a.status }

func (a *App) goTo(path string) tea.Cmd {
	page, final := a.deps.Router.Navigate(path)
	a.deps.Logger.Debug("navigate", "path", path, "page", page.String(), "final", final)
	a.path, a.page = final, page

	switch page {
	case router.Landing:
		a.screen = newLanding()
	case router.SignIn:
		a.screen = newForm(a.ctx, a.deps, formSignIn)
	case router.SignUp:
		a.screen = newForm(a.ctx, a.deps, formSignUp)
	case router.Home:
		id, _ := a.deps.Store.Current()
		a.screen = newHome(a.ctx, a.deps, id)
	default:
		a.screen = newNotFound(path)
	}
	a.screen.SetSize(a.width, a.height-statusHeight)
	return a.screen.Init()
}

const statusHeight = 1

func (a App) Init() tea.Cmd { return a.screen.Init() }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.status = ""
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.screen.SetSize(a.width, a.height-statusHeight)
		return a, nil
	case navigateMsg:
		a.status = ""
		return a, a.goTo(msg.path)
	case failedMsg:
		// no screen recovers from a failed request; show it and carry on
		a.deps.Logger.Error("request failed", "op", msg.op, "error", msg.err)
		a.status = msg.err.Error()
	}
	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

func (a App) View() string {
	body := a.screen.View()
	line := ""
	if a.status != "" {
		line = ui.ErrorStyle.Render("✖ " + a.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, line)
}

// fail turns an error into the message for the error line, or into a
// field error when it is a validation problem.
func fail(op string, err error) tea.Msg {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return invalidMsg{field: ve.Field, message: ve.Message}
	}
	return failedMsg{op: op, err: err}
}

type invalidMsg struct {
	field   string
	message string
}
