package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/router"
	"github.com/idilsaglam/tada/internal/session"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool // list grouped by pending/done
	Config config.Flags
}

// app is everything a subcommand needs, built once per invocation.
type app struct {
	opt    Options
	cfg    *config.Config
	logger *slog.Logger
	store  *session.Store
	client *api.Client
	sync   *view.Synchronizer
	routes *router.Router
}

func newApp(opt Options) (*app, io.Closer, error) {
	cfg, err := config.Load(opt.Config)
	if err != nil {
		return nil, nil, err
	}
	ui.SetTheme(cfg.Theme)
	lvl, _ := cfg.Level()
	logger, closer, err := logging.New(logging.Options{File: cfg.LogFile, Level: lvl})
	if err != nil {
		return nil, nil, fmt.Errorf("log file: %w", err)
	}
	store := session.Open(jsonstore.OS(cfg.Home), logger)
	client, err := api.New(cfg.APIURL, api.WithLogger(logger))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return &app{
		opt:    opt,
		cfg:    cfg,
		logger: logger,
		store:  store,
		client: client,
		sync:   view.FromClient(client, store, logger),
		routes: router.New(store),
	}, closer, nil
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	}

	h, known := commands[cmd]
	if !known {
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(ui.Out())
		PrintHelp()
		return 2
	}

	env, closer, err := newApp(opt)
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 1
	}
	defer closer.Close()
	env.logger.Debug("command", "name", cmd, "config", env.cfg.String())

	if h.guard != nil && !env.allowed(h.guard) {
		return 2
	}
	return h.run(ctx, env, a)
}

type command struct {
	guard router.Route
	run   func(ctx context.Context, env *app, args []string) int
}

var (
	guest  = router.GuestOnly(router.Render(router.SignIn))
	member = router.AuthOnly(router.Render(router.Home))
)

var commands = map[string]command{
	"signin":  {guest, doSignIn},
	"signup":  {guest, doSignUp},
	"signout": {nil, doSignOut},
	"whoami":  {nil, doWhoAmI},
	"ls":      {member, doList},
	"add":     {member, doAdd},
	"done":    {member, doToggle},
	"edit":    {member, doEdit},
	"tag":     {member, doTag},
	"rm":      {member, doRemove},
	"labels":  {member, doLabels},
	"label":   {member, doLabel},
	"ui":      {nil, doUI},
}

// allowed applies a route guard to a command.
func (env *app) allowed(route router.Route) bool {
	d := route(env.store)
	switch d.Redirect {
	case "":
		return true
	case router.PathSignIn:
		ui.Fail("not signed in")
		ui.Hint("Run: todo signin <name>  or  todo signup <name>")
	default:
		id, _ := env.store.Current()
		ui.Fail("already signed in as " + id.Name)
		ui.Hint("Run: todo signout first")
	}
	return false
}

func PrintHelp() {
	fmt.Fprint(ui.Out(), `todo - a tiny to-do client

Usage:
  todo [flags] <subcommand> [args]

Account:
  signin <name>          Sign in as an existing user
  signup <name>          Create a user and sign in
  signout                Forget the signed-in user
  whoami                 Show the signed-in user

Todos:
  ls [--label <id>]      List todos, optionally only those with a label
  add <text...> [--label <id>]...
                         Add a todo
  done <id>              Toggle completed
  edit <id> <text...>    Change the text
  tag <id> <label-id>    Add or remove a label on a todo
  rm <id>                Remove a todo

Labels:
  labels                 List labels
  label add <name>       Create a label
  label rm <id>          Remove a label

  ui                     Full-screen interface

Flags:
  --api <url>            REST API base address (default http://localhost:3000)
  --home <dir>           Session and log directory (default ~/.tada)
  --config <file>        YAML config file
  --log-level <level>    debug, info, warn or error
  --theme <name>         classic, neon or mono
  --group                Group listings by pending/done

Examples:
  todo signup alice
  todo add "Buy milk" --label 3
  todo ls --label 3
  todo done 2
`)
}

// report prints err and maps it to an exit code: validation problems are
// the user's to fix (2), everything else is a failure (1).
func report(env *app, what string, err error) int {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		ui.Fail(ve.Message)
		return 2
	}
	env.logger.Error(what, "error", err)
	ui.Fail(what + ": " + err.Error())
	return 1
}

func parseID(what, s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		ui.Fail(what + ": not an id: " + s)
		return 0, false
	}
	return n, true
}

func subFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// -------------- account ----------------

func joinName(args []string) string { return strings.TrimSpace(strings.Join(args, " ")) }

func doSignIn(ctx context.Context, env *app, args []string) int {
	id, err := auth.SignIn(ctx, env.client.Users(), env.store, joinName(args))
	if err != nil {
		return report(env, "signin", err)
	}
	ui.OK("signed in as " + id.Name)
	return 0
}

func doSignUp(ctx context.Context, env *app, args []string) int {
	id, err := auth.SignUp(ctx, env.client.Users(), env.store, joinName(args))
	if err != nil {
		return report(env, "signup", err)
	}
	ui.OK("welcome, " + id.Name)
	return 0
}

func doSignOut(_ context.Context, env *app, _ []string) int {
	if err := env.store.Logout(); err != nil {
		return report(env, "signout", err)
	}
	ui.OK("signed out")
	return 0
}

func doWhoAmI(_ context.Context, env *app, _ []string) int {
	id, ok := env.store.Current()
	if !ok {
		fmt.Fprintln(ui.Out(), ui.C(ui.Current().Muted, "not signed in"))
		fmt.Fprintln(ui.Out(), "Run: todo signin <name>")
		return 0
	}
	fmt.Fprintf(ui.Out(), "%s (id %d)\n", id.Name, id.ID)
	fmt.Fprintf(ui.Out(), "api: %s\n", env.cfg.APIURL)
	return 0
}

// -------------- todos ----------------

func doList(ctx context.Context, env *app, args []string) int {
	fs := subFlags("ls")
	label := fs.Int("label", 0, "only todos with this label id")
	if err := fs.Parse(args); err != nil {
		ui.Fail("usage: todo ls [--label <id>]")
		return 2
	}
	snap, err := env.sync.Load(ctx)
	if err != nil {
		return report(env, "load", err)
	}
	var home view.Home
	home.Apply(snap)
	if *label > 0 {
		home.SelectLabel(label)
	}
	printHome(&home, env.opt)
	return 0
}

func doAdd(ctx context.Context, env *app, args []string) int {
	fs := subFlags("add")
	labels := fs.IntSlice("label", nil, "label id, repeatable")
	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		ui.Fail("usage: todo add <text...> [--label <id>]...")
		return 2
	}
	payload := model.NewTodo{Text: strings.Join(fs.Args(), " "), LabelIDs: []int{}}
	payload.LabelIDs = append(payload.LabelIDs, *labels...)

	todos, err := env.sync.AddTodo(ctx, payload)
	if err != nil {
		return report(env, "add", err)
	}
	ui.OK("added")
	printTodos(todos, env.opt)
	return 0
}

// findTodo reads the todo list and picks id from it.
func findTodo(ctx context.Context, env *app, id int) (model.Todo, bool, int) {
	todos, err := env.sync.Todos(ctx)
	if err != nil {
		return model.Todo{}, false, report(env, "load", err)
	}
	for _, td := range todos {
		if td.ID == id {
			return td, true, 0
		}
	}
	ui.Fail(fmt.Sprintf("no todo with id %d", id))
	ui.Hint("Hint: run `todo ls` to see valid ids")
	return model.Todo{}, false, 2
}

func doToggle(ctx context.Context, env *app, args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: todo done <id>")
		return 2
	}
	id, ok := parseID("done", args[0])
	if !ok {
		return 2
	}
	td, found, code := findTodo(ctx, env, id)
	if !found {
		return code
	}
	completed := !td.Completed
	todos, err := env.sync.UpdateTodo(ctx, model.UpdateTodo{
		ID:        td.ID,
		Completed: &completed,
		LabelIDs:  model.LabelIDs(td.Labels),
	})
	if err != nil {
		return report(env, "done", err)
	}
	ui.OK("toggled")
	printTodos(todos, env.opt)
	return 0
}

func doEdit(ctx context.Context, env *app, args []string) int {
	if len(args) < 2 {
		ui.Fail("usage: todo edit <id> <text...>")
		return 2
	}
	id, ok := parseID("edit", args[0])
	if !ok {
		return 2
	}
	td, found, code := findTodo(ctx, env, id)
	if !found {
		return code
	}
	text := strings.Join(args[1:], " ")
	todos, err := env.sync.UpdateTodo(ctx, model.UpdateTodo{
		ID:       td.ID,
		Text:     &text,
		LabelIDs: model.LabelIDs(td.Labels),
	})
	if err != nil {
		return report(env, "edit", err)
	}
	ui.OK("updated")
	printTodos(todos, env.opt)
	return 0
}

func doTag(ctx context.Context, env *app, args []string) int {
	if len(args) != 2 {
		ui.Fail("usage: todo tag <id> <label-id>")
		return 2
	}
	id, ok := parseID("tag", args[0])
	if !ok {
		return 2
	}
	labelID, ok := parseID("tag", args[1])
	if !ok {
		return 2
	}
	snap, err := env.sync.Load(ctx)
	if err != nil {
		return report(env, "load", err)
	}
	label, ok := model.LabelByID(snap.Labels, labelID)
	if !ok {
		ui.Fail(fmt.Sprintf("no label with id %d", labelID))
		ui.Hint("Hint: run `todo labels` to see valid ids")
		return 2
	}
	var td *model.Todo
	for i := range snap.Todos {
		if snap.Todos[i].ID == id {
			td = &snap.Todos[i]
		}
	}
	if td == nil {
		ui.Fail(fmt.Sprintf("no todo with id %d", id))
		return 2
	}
	selection := model.ToggleLabel(td.Labels, label)
	todos, err := env.sync.UpdateTodo(ctx, model.UpdateTodo{ID: td.ID, LabelIDs: model.LabelIDs(selection)})
	if err != nil {
		return report(env, "tag", err)
	}
	ui.OK("labels updated")
	printTodos(todos, env.opt)
	return 0
}

func doRemove(ctx context.Context, env *app, args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: todo rm <id>")
		return 2
	}
	id, ok := parseID("rm", args[0])
	if !ok {
		return 2
	}
	todos, err := env.sync.DeleteTodo(ctx, id)
	if err != nil {
		return report(env, "rm", err)
	}
	ui.OK("removed")
	printTodos(todos, env.opt)
	return 0
}

// -------------- labels ----------------

func doLabels(ctx context.Context, env *app, _ []string) int {
	labels, err := env.sync.Labels(ctx)
	if err != nil {
		return report(env, "labels", err)
	}
	printLabels(labels)
	return 0
}

func doLabel(ctx context.Context, env *app, args []string) int {
	if len(args) < 2 {
		ui.Fail("usage: todo label <add <name>|rm <id>>")
		return 2
	}
	switch args[0] {
	case "add":
		current, err := env.sync.Labels(ctx)
		if err != nil {
			return report(env, "labels", err)
		}
		labels, err := env.sync.AddLabel(ctx, model.NewLabel{Name: joinName(args[1:])}, current)
		if err != nil {
			return report(env, "label add", err)
		}
		ui.OK("label added")
		printLabels(labels)
		return 0
	case "rm":
		id, ok := parseID("label rm", args[1])
		if !ok {
			return 2
		}
		labels, err := env.sync.DeleteLabel(ctx, id)
		if err != nil {
			return report(env, "label rm", err)
		}
		ui.OK("label removed")
		printLabels(labels)
		return 0
	}
	ui.Fail("usage: todo label <add <name>|rm <id>>")
	return 2
}

// -------------- interactive ----------------

func doUI(ctx context.Context, env *app, _ []string) int {
	err := tui.Run(ctx, tui.Deps{
		Store:  env.store,
		Users:  env.client.Users(),
		Sync:   env.sync,
		Router: env.routes,
		Logger: env.logger,
	})
	if err != nil {
		return report(env, "ui", err)
	}
	return 0
}
