package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/fakeapi"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/session"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/view"
)

func setup(t *testing.T) (Deps, *fakeapi.Server) {
	t.Helper()
	backend := fakeapi.New(nil)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	store := session.Open(jsonstore.New(afero.NewMemMapFs(), "/tada"), nil)
	return Deps{
		Store:  store,
		Users:  c.Users(),
		Sync:   view.FromClient(c, store, nil),
		Router: router.New(store),
	}, backend
}

// send feeds one message and returns the command it produced.
func send(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

// run executes cmd and feeds its message back, the way the program loop would.
func run(t *testing.T, a App, cmd tea.Cmd) (App, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	return send(a, cmd())
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func typeText(a App, s string) App {
	// textinput cursor commands are dropped
	a, _ = send(a, keys(s))
	return a
}

func homeOf(t *testing.T, a App) *home {
	t.Helper()
	h, ok := a.screen.(*home)
	if !ok {
		t.Fatalf("screen = %T, want *home", a.screen)
	}
	return h
}

func signedIn(t *testing.T, deps Deps, backend *fakeapi.Server, name string) model.User {
	t.Helper()
	u := backend.SeedUser(name)
	if err := deps.Store.Login(u.Identity()); err != nil {
		t.Fatalf("login: %v", err)
	}
	return u
}

func TestAnonymousStartsOnLanding(t *testing.T) {
	deps, _ := setup(t)
	a := New(context.Background(), deps, router.PathRoot)
	if a.Page() != router.Landing {
		t.Fatalf("page = %v, want landing", a.Page())
	}

	a, cmd := send(a, keys("i"))
	a, _ = run(t, a, cmd)
	if a.Page() != router.SignIn || a.Path() != router.PathSignIn {
		t.Fatalf("page = %v at %q, want sign in", a.Page(), a.Path())
	}
}

func TestGuardRedirectsSignedInUserHome(t *testing.T) {
	deps, backend := setup(t)
	signedIn(t, deps, backend, "alice")

	a := New(context.Background(), deps, router.PathSignIn)
	if a.Page() != router.Home || a.Path() != router.PathRoot {
		t.Fatalf("page = %v at %q, want home at /", a.Page(), a.Path())
	}
}

func TestUnknownPathShowsNotFound(t *testing.T) {
	deps, _ := setup(t)
	a := New(context.Background(), deps, "/nope")
	if a.Page() != router.NotFound {
		t.Fatalf("page = %v, want not found", a.Page())
	}
	a, cmd := send(a, keys("x"))
	a, _ = run(t, a, cmd)
	if a.Page() != router.Landing {
		t.Fatalf("page = %v, want landing", a.Page())
	}
}

func TestSignUpLandsOnHome(t *testing.T) {
	deps, _ := setup(t)
	a := New(context.Background(), deps, router.PathSignUp)

	a = typeText(a, "bob")
	a, cmd := send(a, enter)
	a, cmd = run(t, a, cmd) // signedInMsg
	a, cmd = run(t, a, cmd) // navigateMsg
	if a.Page() != router.Home {
		t.Fatalf("page = %v, want home", a.Page())
	}
	id, ok := deps.Store.Current()
	if !ok || id.Name != "bob" {
		t.Fatalf("identity = %+v, %v", id, ok)
	}
	a, _ = run(t, a, cmd) // initial load
	if got := homeOf(t, a).identity.Name; got != "bob" {
		t.Fatalf("home identity = %q", got)
	}
}

func TestSignInUnknownNameStaysOnForm(t *testing.T) {
	deps, _ := setup(t)
	a := New(context.Background(), deps, router.PathSignIn)

	a = typeText(a, "ghost")
	a, cmd := send(a, enter)
	a, _ = run(t, a, cmd)
	if a.Page() != router.SignIn {
		t.Fatalf("page = %v, want sign in", a.Page())
	}
	f := a.screen.(*form)
	if f.err != auth.MsgUnknownName {
		t.Fatalf("form error = %q", f.err)
	}
	if deps.Store.Authenticated() {
		t.Fatalf("unknown name must not sign in")
	}
}

func TestBlankSignInIsLocal(t *testing.T) {
	deps, backend := setup(t)
	backend.ResetRequests()
	a := New(context.Background(), deps, router.PathSignIn)

	a, cmd := send(a, enter)
	if cmd != nil {
		t.Fatalf("blank name should not issue a request")
	}
	if f := a.screen.(*form); f.err != auth.MsgEmptyName {
		t.Fatalf("form error = %q", f.err)
	}
	if n := len(backend.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
}

func TestHomeAddToggleDelete(t *testing.T) {
	deps, backend := setup(t)
	u := signedIn(t, deps, backend, "alice")
	backend.SeedTodo(u.ID, "existing")

	a := New(context.Background(), deps, router.PathRoot)
	a, _ = run(t, a, a.Init())
	h := homeOf(t, a)
	if len(h.list.Items()) != 1 {
		t.Fatalf("items = %d, want 1", len(h.list.Items()))
	}

	a, _ = send(a, keys("a"))
	a = typeText(a, "Buy milk")
	a, cmd := send(a, enter)
	a, _ = run(t, a, cmd)
	h = homeOf(t, a)
	if h.mode != modeBrowse {
		t.Fatalf("mode = %v, want browse after add", h.mode)
	}
	if len(h.state.Todos) != 2 || h.state.Todos[1].Text != "Buy milk" {
		t.Fatalf("todos = %+v", h.state.Todos)
	}

	// first item is selected
	a, cmd = send(a, tea.KeyMsg{Type: tea.KeySpace})
	a, _ = run(t, a, cmd)
	if !homeOf(t, a).state.Todos[0].Completed {
		t.Fatalf("toggle did not complete the todo: %+v", homeOf(t, a).state.Todos)
	}

	a, cmd = send(a, keys("d"))
	a, _ = run(t, a, cmd)
	h = homeOf(t, a)
	if len(h.state.Todos) != 1 || h.state.Todos[0].Text != "Buy milk" {
		t.Fatalf("todos after delete = %+v", h.state.Todos)
	}
}

func TestHomeBlankTodoShowsFieldError(t *testing.T) {
	deps, backend := setup(t)
	signedIn(t, deps, backend, "alice")
	a := New(context.Background(), deps, router.PathRoot)
	a, _ = run(t, a, a.Init())

	a, _ = send(a, keys("a"))
	a = typeText(a, "   ")
	a, cmd := send(a, enter)
	a, _ = run(t, a, cmd)
	h := homeOf(t, a)
	if h.mode != modeAdd || h.inputErr == "" {
		t.Fatalf("mode = %v err = %q, want add with error", h.mode, h.inputErr)
	}
}

func TestHomeLabelFilterAndPicker(t *testing.T) {
	deps, backend := setup(t)
	u := signedIn(t, deps, backend, "alice")
	errands := backend.SeedLabel(u.ID, "errands")
	backend.SeedTodo(u.ID, "Buy milk", errands.ID)
	backend.SeedTodo(u.ID, "Write report")

	a := New(context.Background(), deps, router.PathRoot)
	a, _ = run(t, a, a.Init())

	// sidebar: move to "errands" and filter
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyTab})
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyDown})
	a, _ = send(a, enter)
	h := homeOf(t, a)
	if len(h.list.Items()) != 1 {
		t.Fatalf("filtered items = %d, want 1", len(h.list.Items()))
	}
	if h.state.Filter == nil || *h.state.Filter != errands.ID {
		t.Fatalf("filter = %v", h.state.Filter)
	}

	// back to "all", then tag "Write report" through the picker
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyUp})
	a, _ = send(a, enter)
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyTab})
	a, _ = send(a, tea.KeyMsg{Type: tea.KeyDown})
	a, _ = send(a, keys("l"))
	a, _ = send(a, tea.KeyMsg{Type: tea.KeySpace})
	a, cmd := send(a, enter)
	a, _ = run(t, a, cmd)

	h = homeOf(t, a)
	for _, td := range h.state.Todos {
		if !td.HasLabel(errands.ID) {
			t.Fatalf("%q missing label: %+v", td.Text, td.Labels)
		}
	}
}

func TestHomeAddLabelDuplicateIsFieldError(t *testing.T) {
	deps, backend := setup(t)
	u := signedIn(t, deps, backend, "alice")
	backend.SeedLabel(u.ID, "errands")
	a := New(context.Background(), deps, router.PathRoot)
	a, _ = run(t, a, a.Init())
	backend.ResetRequests()

	a, _ = send(a, tea.KeyMsg{Type: tea.KeyTab})
	a, _ = send(a, keys("n"))
	a = typeText(a, "errands")
	a, cmd := send(a, enter)
	a, _ = run(t, a, cmd)
	if h := homeOf(t, a); h.inputErr == "" {
		t.Fatalf("expected duplicate label error")
	}
	if n := len(backend.Requests()); n != 0 {
		t.Fatalf("requests = %d, want 0", n)
	}
}

func TestRequestFailureShowsStatus(t *testing.T) {
	deps, backend := setup(t)
	u := signedIn(t, deps, backend, "alice")
	td := backend.SeedTodo(u.ID, "existing")
	a := New(context.Background(), deps, router.PathRoot)
	a, _ = run(t, a, a.Init())

	backend.FailNext(http.MethodDelete, "/todos/"+strconv.Itoa(td.ID), http.StatusInternalServerError)
	a, cmd := send(a, keys("d"))
	a, _ = run(t, a, cmd)
	if !strings.Contains(a.Status(), "delete todo request failed") {
		t.Fatalf("status = %q", a.Status())
	}
	if len(homeOf(t, a).state.Todos) != 1 {
		t.Fatalf("failed delete must keep the list")
	}
	if !strings.Contains(a.View(), "delete todo request failed") {
		t.Fatalf("view does not show the error")
	}
}

func TestSignOutReturnsToLanding(t *testing.T) {
	deps, backend := setup(t)
	signedIn(t, deps, backend, "alice")
	a := New(context.Background(), deps, router.PathRoot)
	a, _ = run(t, a, a.Init())

	a, cmd := send(a, keys("o"))
	a, cmd = run(t, a, cmd) // signedOutMsg
	a, _ = run(t, a, cmd)   // navigateMsg
	if a.Page() != router.Landing {
		t.Fatalf("page = %v, want landing", a.Page())
	}
	if deps.Store.Authenticated() {
		t.Fatalf("store still authenticated")
	}
}
