package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

const sidebarWidth = 24

// Refetch results. Each one replaces a whole collection.
type (
	loadedMsg    struct{ snap view.Snapshot }
	todosMsg     struct{ todos []model.Todo }
	labelsMsg    struct{ labels []model.Label }
	signedOutMsg struct{}
)

type homeMode int

const (
	modeBrowse homeMode = iota
	modeAdd
	modeEdit
	modeNewLabel
	modePick
)

type focusPane int

const (
	focusTodos focusPane = iota
	focusLabels
)

// todoItem adapts model.Todo to bubbles/list.Item
type todoItem struct{ todo model.Todo }

func (i todoItem) Title() string       { return i.todo.Text }
func (i todoItem) Description() string { return "" }
func (i todoItem) FilterValue() string { return i.todo.Text }

// Custom delegate to control how items render (single line)
type todoDelegate struct{}

func (d todoDelegate) Height() int                               { return 1 }
func (d todoDelegate) Spacing() int                              { return 0 }
func (d todoDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d todoDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(todoItem)
	t := ui.Current()

	box := ui.MutedStyle.Render(t.BoxUnchecked)
	text := it.todo.Text
	if it.todo.Completed {
		box = ui.SuccessStyle.Render(t.BoxChecked)
		text = ui.DoneStyle.Render(text)
	}
	line := fmt.Sprintf("%s %s", box, text)
	for _, l := range it.todo.Labels {
		line += " " + ui.ChipStyle.Render(l.Name)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

// home is the signed-in page: label sidebar on the left, todos on the right.
type home struct {
	ctx      context.Context
	deps     Deps
	identity model.Identity
	state    view.Home

	list        list.Model
	focus       focusPane
	labelCursor int // 0 is "all", i is state.Labels[i-1]

	mode     homeMode
	ti       textinput.Model
	inputErr string
	pending  bool

	// picker state, shared by the add and edit flows
	draft      []model.Label
	pickCursor int
	pickTodo   int // 0 while picking for a new todo

	width, height int
}

var (
	keyAdd     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	keyEdit    = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	keyLabels  = key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "labels"))
	keyToggle  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	keyDelete  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	keyPane    = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sidebar"))
	keyRefresh = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	keyLogout  = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out"))
)

func newHome(ctx context.Context, deps Deps, id model.Identity) *home {
	l := list.New(nil, todoDelegate{}, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.SetStatusBarItemName("todo", "todos")
	l.DisableQuitKeybindings()
	bindings := func() []key.Binding {
		return []key.Binding{keyAdd, keyEdit, keyLabels, keyToggle, keyDelete, keyPane, keyRefresh, keyLogout}
	}
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 100

	return &home{ctx: ctx, deps: deps, identity: id, list: l, ti: ti}
}

func (h *home) Init() tea.Cmd { return h.load() }

func (h *home) SetSize(w, hgt int) {
	h.width, h.height = w, hgt
	listHeight := hgt - 2
	if h.mode != modeBrowse {
		listHeight -= 4
	}
	if listHeight < 3 {
		listHeight = 3
	}
	h.list.SetSize(w-sidebarWidth-4, listHeight)
}

// -------------- commands ----------------

func (h *home) load() tea.Cmd {
	ctx, sync := h.ctx, h.deps.Sync
	return func() tea.Msg {
		snap, err := sync.Load(ctx)
		if err != nil {
			return fail("load", err)
		}
		return loadedMsg{snap: snap}
	}
}

func (h *home) todosCmd(op string, run func(context.Context, *view.Synchronizer) ([]model.Todo, error)) tea.Cmd {
	ctx, sync := h.ctx, h.deps.Sync
	return func() tea.Msg {
		todos, err := run(ctx, sync)
		if err != nil {
			return fail(op, err)
		}
		return todosMsg{todos: todos}
	}
}

func (h *home) labelsCmd(op string, run func(context.Context, *view.Synchronizer) ([]model.Label, error)) tea.Cmd {
	ctx, sync := h.ctx, h.deps.Sync
	return func() tea.Msg {
		labels, err := run(ctx, sync)
		if err != nil {
			return fail(op, err)
		}
		return labelsMsg{labels: labels}
	}
}

func (h *home) signOut() tea.Cmd {
	store := h.deps.Store
	return func() tea.Msg {
		if err := store.Logout(); err != nil {
			return failedMsg{op: "sign out", err: err}
		}
		return signedOutMsg{}
	}
}

// -------------- state ----------------

func (h *home) refreshList() {
	shown := h.state.Displayed()
	items := make([]list.Item, 0, len(shown))
	for _, td := range shown {
		items = append(items, todoItem{todo: td})
	}
	h.list.SetItems(items)

	d, p := ui.Stats(shown)
	h.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		ui.SuccessStyle.Render(ui.Current().SymDone), d,
		ui.PendingStyle.Render(ui.Current().SymUnchecked), p,
		ui.AccentStyle.Render("Total"), len(shown),
	)
}

func (h *home) selected() (model.Todo, bool) {
	it, ok := h.list.SelectedItem().(todoItem)
	if !ok {
		return model.Todo{}, false
	}
	return it.todo, true
}

func (h *home) setMode(m homeMode, placeholder, value string) {
	h.mode = m
	h.inputErr = ""
	h.pending = false
	h.ti.Placeholder = placeholder
	h.ti.SetValue(value)
	h.ti.CursorEnd()
	if m == modeAdd || m == modeEdit || m == modeNewLabel {
		h.ti.Focus()
	} else {
		h.ti.Blur()
	}
	h.SetSize(h.width, h.height)
}

func (h *home) browse() { h.setMode(modeBrowse, "", "") }

// settle closes the input that caused a refetch.
func (h *home) settle() {
	if h.pending {
		h.browse()
	}
}

// -------------- update ----------------

func (h *home) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		h.state.Apply(msg.snap)
		h.clampLabelCursor()
		h.refreshList()
		return h, nil
	case todosMsg:
		h.state.ReplaceTodos(msg.todos)
		h.settle()
		h.refreshList()
		return h, nil
	case labelsMsg:
		h.state.ReplaceLabels(msg.labels)
		h.clampLabelCursor()
		h.settle()
		h.refreshList()
		return h, nil
	case invalidMsg:
		h.pending = false
		h.inputErr = msg.message
		return h, nil
	case failedMsg:
		h.pending = false
		return h, nil
	case signedOutMsg:
		return h, navigate(router.PathRoot)
	case tea.KeyMsg:
		switch h.mode {
		case modeAdd, modeEdit, modeNewLabel:
			return h.updateInput(msg)
		case modePick:
			return h.updatePicker(msg)
		}
		if h.focus == focusLabels {
			return h.updateSidebar(msg)
		}
		return h.updateTodos(msg)
	}
	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return h, cmd
}

func (h *home) updateTodos(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return h, tea.Quit
	case "tab":
		h.focus = focusLabels
		return h, nil
	case "r":
		return h, h.load()
	case "o":
		return h, h.signOut()
	case "a":
		h.draft = nil
		h.setMode(modeAdd, "New todo text...", "")
		return h, nil
	case "e":
		if td, ok := h.selected(); ok {
			h.pickTodo = td.ID
			h.setMode(modeEdit, "Edit todo text...", td.Text)
		}
		return h, nil
	case "l":
		if td, ok := h.selected(); ok {
			h.openPicker(td.ID, td.Labels)
		}
		return h, nil
	case " ":
		td, ok := h.selected()
		if !ok {
			return h, nil
		}
		completed := !td.Completed
		payload := model.UpdateTodo{ID: td.ID, Completed: &completed, LabelIDs: model.LabelIDs(td.Labels)}
		return h, h.todosCmd("update todo", func(ctx context.Context, s *view.Synchronizer) ([]model.Todo, error) {
			return s.UpdateTodo(ctx, payload)
		})
	case "d":
		td, ok := h.selected()
		if !ok {
			return h, nil
		}
		return h, h.todosCmd("delete todo", func(ctx context.Context, s *view.Synchronizer) ([]model.Todo, error) {
			return s.DeleteTodo(ctx, td.ID)
		})
	}
	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return h, cmd
}

func (h *home) clampLabelCursor() {
	if h.labelCursor > len(h.state.Labels) {
		h.labelCursor = len(h.state.Labels)
	}
}

func (h *home) updateSidebar(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "q":
		return h, tea.Quit
	case "tab", "esc":
		h.focus = focusTodos
	case "up", "k":
		if h.labelCursor > 0 {
			h.labelCursor--
		}
	case "down", "j":
		if h.labelCursor < len(h.state.Labels) {
			h.labelCursor++
		}
	case "enter", " ":
		if h.labelCursor == 0 {
			h.state.SelectLabel(nil)
		} else {
			id := h.state.Labels[h.labelCursor-1].ID
			h.state.SelectLabel(&id)
		}
		h.refreshList()
	case "n", "a":
		h.setMode(modeNewLabel, "New label name...", "")
	case "x", "d":
		if h.labelCursor == 0 {
			return h, nil
		}
		id := h.state.Labels[h.labelCursor-1].ID
		return h, h.labelsCmd("delete label", func(ctx context.Context, s *view.Synchronizer) ([]model.Label, error) {
			return s.DeleteLabel(ctx, id)
		})
	}
	return h, nil
}

func (h *home) updateInput(msg tea.KeyMsg) (screen, tea.Cmd) {
	if h.pending {
		return h, nil
	}
	switch msg.String() {
	case "esc":
		h.browse()
		return h, nil
	case "ctrl+l":
		if h.mode == modeAdd {
			h.openPicker(0, h.draft)
		}
		return h, nil
	case "enter":
		return h, h.submitInput()
	}
	h.inputErr = ""
	var cmd tea.Cmd
	h.ti, cmd = h.ti.Update(msg)
	return h, cmd
}

func (h *home) submitInput() tea.Cmd {
	value := h.ti.Value()
	h.pending = true
	switch h.mode {
	case modeAdd:
		payload := model.NewTodo{Text: value, LabelIDs: model.LabelIDs(h.draft)}
		return h.todosCmd("add todo", func(ctx context.Context, s *view.Synchronizer) ([]model.Todo, error) {
			return s.AddTodo(ctx, payload)
		})
	case modeEdit:
		td, ok := h.todoByID(h.pickTodo)
		if !ok {
			h.browse()
			return nil
		}
		payload := model.UpdateTodo{ID: td.ID, Text: &value, LabelIDs: model.LabelIDs(td.Labels)}
		return h.todosCmd("update todo", func(ctx context.Context, s *view.Synchronizer) ([]model.Todo, error) {
			return s.UpdateTodo(ctx, payload)
		})
	case modeNewLabel:
		current := h.state.Labels
		return h.labelsCmd("add label", func(ctx context.Context, s *view.Synchronizer) ([]model.Label, error) {
			return s.AddLabel(ctx, model.NewLabel{Name: value}, current)
		})
	}
	h.pending = false
	return nil
}

func (h *home) todoByID(id int) (model.Todo, bool) {
	for _, td := range h.state.Todos {
		if td.ID == id {
			return td, true
		}
	}
	return model.Todo{}, false
}

// -------------- label picker ----------------

func (h *home) openPicker(todoID int, selection []model.Label) {
	h.pickTodo = todoID
	h.draft = append([]model.Label(nil), selection...)
	h.pickCursor = 0
	// the add flow keeps its typed text while picking
	text := h.ti.Value()
	h.setMode(modePick, "", text)
}

func (h *home) updatePicker(msg tea.KeyMsg) (screen, tea.Cmd) {
	labels := h.state.Labels
	switch msg.String() {
	case "up", "k":
		if h.pickCursor > 0 {
			h.pickCursor--
		}
	case "down", "j":
		if h.pickCursor < len(labels)-1 {
			h.pickCursor++
		}
	case " ", "x":
		if h.pickCursor < len(labels) {
			h.draft = model.ToggleLabel(h.draft, labels[h.pickCursor])
		}
	case "esc", "enter":
		if h.pickTodo == 0 {
			// back to the add input with the chosen labels
			text, draft := h.ti.Value(), h.draft
			h.setMode(modeAdd, "New todo text...", text)
			h.draft = draft
			return h, nil
		}
		if msg.String() == "esc" {
			h.browse()
			return h, nil
		}
		payload := model.UpdateTodo{ID: h.pickTodo, LabelIDs: model.LabelIDs(h.draft)}
		h.browse()
		return h, h.todosCmd("update todo", func(ctx context.Context, s *view.Synchronizer) ([]model.Todo, error) {
			return s.UpdateTodo(ctx, payload)
		})
	}
	return h, nil
}

func (h *home) picked(id int) bool {
	_, ok := model.LabelByID(h.draft, id)
	return ok
}

// -------------- view ----------------

func (h *home) sidebarView() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(h.identity.Name))
	b.WriteString("\n\n")

	entries := make([]string, 0, len(h.state.Labels)+1)
	entries = append(entries, "All")
	for _, l := range h.state.Labels {
		entries = append(entries, t.SymLabel+l.Name)
	}
	for i, e := range entries {
		active := (i == 0 && h.state.Filter == nil) ||
			(i > 0 && h.state.Filter != nil && *h.state.Filter == h.state.Labels[i-1].ID)
		if active {
			e = ui.AccentStyle.Render(e)
		}
		if h.focus == focusLabels && i == h.labelCursor {
			e = ui.SelectedStyle.Render("> ") + e
		} else {
			e = "  " + e
		}
		b.WriteString(e + "\n")
	}
	b.WriteString("\n")
	if h.focus == focusLabels {
		b.WriteString(ui.HelpStyle.Render("enter filter\nn new • x delete\ntab back"))
	} else {
		b.WriteString(ui.HelpStyle.Render("tab labels"))
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Render(b.String())
}

func (h *home) inputView() string {
	title := "Add new todo"
	switch h.mode {
	case modeEdit:
		title = "Edit todo"
	case modeNewLabel:
		title = "New label"
	}
	if h.inputErr != "" {
		title += " " + ui.ErrorStyle.Render(h.inputErr)
	}
	body := title + "\n" + h.ti.View()
	if h.mode == modeAdd {
		chips := make([]string, 0, len(h.draft))
		for _, l := range h.draft {
			chips = append(chips, ui.ChipStyle.Render(l.Name))
		}
		body += "\n" + strings.Join(chips, " ") + ui.HelpStyle.Render("  ctrl+l labels")
	}
	return ui.FrameStyle.Render(body)
}

func (h *home) pickerView() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Labels") + "\n")
	if len(h.state.Labels) == 0 {
		b.WriteString(ui.MutedStyle.Render("no labels yet; add one from the sidebar") + "\n")
	}
	for i, l := range h.state.Labels {
		box := t.BoxUnchecked
		if h.picked(l.ID) {
			box = t.BoxChecked
		}
		line := box + " " + l.Name
		if i == h.pickCursor {
			line = ui.SelectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(ui.HelpStyle.Render("space toggle • enter done • esc cancel"))
	return ui.FrameStyle.Render(b.String())
}

func (h *home) View() string {
	body := h.list.View()
	switch h.mode {
	case modeAdd, modeEdit, modeNewLabel:
		body = lipgloss.JoinVertical(lipgloss.Left, body, h.inputView())
	case modePick:
		body = lipgloss.JoinVertical(lipgloss.Left, body, h.pickerView())
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, h.sidebarView(), body)
	return ui.FrameStyle.Render(content)
}
