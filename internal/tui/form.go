package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/ui"
)

type formKind int

const (
	formSignIn formKind = iota
	formSignUp
)

// signedInMsg reports a completed sign-in or sign-up.
type signedInMsg struct{ identity model.Identity }

// form is the sign-in and sign-up page: one name field and its error.
type form struct {
	ctx     context.Context
	deps    Deps
	kind    formKind
	ti      textinput.Model
	err     string
	pending bool

	width, height int
}

func newForm(ctx context.Context, deps Deps, kind formKind) *form {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "user name"
	ti.CharLimit = 100
	ti.Focus()
	return &form{ctx: ctx, deps: deps, kind: kind, ti: ti}
}

func (f *form) Init() tea.Cmd { return textinput.Blink }

func (f *form) SetSize(w, h int) { f.width, f.height = w, h }

func (f *form) submit() tea.Cmd {
	name := f.ti.Value()
	// blank input never leaves the form
	if strings.TrimSpace(name) == "" {
		f.err = auth.MsgEmptyName
		return nil
	}
	f.pending = true
	ctx, deps, kind, op := f.ctx, f.deps, f.kind, f.title()
	return func() tea.Msg {
		var (
			id  model.Identity
			err error
		)
		if kind == formSignIn {
			id, err = auth.SignIn(ctx, deps.Users, deps.Store, name)
		} else {
			id, err = auth.SignUp(ctx, deps.Users, deps.Store, name)
		}
		if err != nil {
			return fail(op, err)
		}
		return signedInMsg{identity: id}
	}
}

func (f *form) title() string {
	if f.kind == formSignIn {
		return "sign in"
	}
	return "sign up"
}

func (f *form) other() string {
	if f.kind == formSignIn {
		return router.PathSignUp
	}
	return router.PathSignIn
}

func (f *form) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		f.pending = false
		return f, navigate(router.PathRoot)
	case invalidMsg:
		f.pending = false
		f.err = msg.message
		return f, nil
	case failedMsg:
		f.pending = false
		return f, nil
	case tea.KeyMsg:
		if f.pending {
			return f, nil
		}
		switch msg.String() {
		case "enter":
			return f, f.submit()
		case "esc":
			return f, navigate(router.PathRoot)
		case "tab":
			return f, navigate(f.other())
		}
		f.err = ""
	}
	var cmd tea.Cmd
	f.ti, cmd = f.ti.Update(msg)
	return f, cmd
}

func (f *form) View() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("tada") + "  " + ui.AccentStyle.Render(f.title()))
	b.WriteString("\n\n")
	b.WriteString(f.ti.View())
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(ui.ErrorStyle.Render(f.err))
	} else if f.pending {
		b.WriteString(ui.MutedStyle.Render("…"))
	}
	b.WriteString("\n\n")
	alt := "no account yet? tab to sign up"
	if f.kind == formSignUp {
		alt = "already have an account? tab to sign in"
	}
	b.WriteString(ui.HelpStyle.Render("enter submit • esc back • " + alt))
	return center(f.width, f.height, ui.FrameStyle.Render(b.String()))
}
