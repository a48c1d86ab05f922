// Package view keeps the home screen's collections in step with the server.
//
// Every mutation is followed by a full read of the collection it touched,
// and the read replaces the local copy wholesale. Nothing is merged or
// patched locally, so whatever refetch finishes last decides what is shown.
package view

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/idilsaglam/tada/internal/api"
	"github.com/idilsaglam/tada/internal/model"
)

// TodoGateway is the slice of api.TodoService the synchronizer needs.
type TodoGateway interface {
	List(ctx context.Context, userID int) ([]model.Todo, error)
	Add(ctx context.Context, userID int, payload model.NewTodo) (model.Todo, error)
	Update(ctx context.Context, userID int, payload model.UpdateTodo) (model.Todo, error)
	Delete(ctx context.Context, id, userID int) error
}

// LabelGateway is the slice of api.LabelService the synchronizer needs.
type LabelGateway interface {
	List(ctx context.Context, userID int) ([]model.Label, error)
	Add(ctx context.Context, userID int, payload model.NewLabel) (model.Label, error)
	Delete(ctx context.Context, id, userID int) error
}

// Scope yields the acting identity. *session.Store satisfies it.
type Scope interface {
	Current() (model.Identity, bool)
}

// Snapshot is a full read of both collections.
type Snapshot struct {
	Todos  []model.Todo
	Labels []model.Label
}

// Synchronizer wraps gateway mutations with the refetch that follows them.
type Synchronizer struct {
	todos  TodoGateway
	labels LabelGateway
	scope  Scope
	logger *slog.Logger
}

// NewSynchronizer binds the gateways to a session.
func NewSynchronizer(todos TodoGateway, labels LabelGateway, scope Scope, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synchronizer{todos: todos, labels: labels, scope: scope, logger: logger}
}

// FromClient is NewSynchronizer over an api.Client.
func FromClient(c *api.Client, scope Scope, logger *slog.Logger) *Synchronizer {
	return NewSynchronizer(c.Todos(), c.Labels(), scope, logger)
}

func (s *Synchronizer) userID() (int, error) {
	id, ok := s.scope.Current()
	if !ok {
		return 0, api.ErrNoScope
	}
	return id.ID, nil
}

// Load reads todos and labels concurrently.
func (s *Synchronizer) Load(ctx context.Context) (Snapshot, error) {
	uid, err := s.userID()
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	p := pool.New().WithContext(ctx).WithFirstError()
	p.Go(func(ctx context.Context) error {
		todos, err := s.todos.List(ctx, uid)
		snap.Todos = todos
		return err
	})
	p.Go(func(ctx context.Context) error {
		labels, err := s.labels.List(ctx, uid)
		snap.Labels = labels
		return err
	})
	if err := p.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Todos reads the todo collection.
func (s *Synchronizer) Todos(ctx context.Context) ([]model.Todo, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.todos.List(ctx, uid)
}

// Labels reads the label collection.
func (s *Synchronizer) Labels(ctx context.Context) ([]model.Label, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.labels.List(ctx, uid)
}

// AddTodo creates a todo and returns the refetched list. Blank text is
// rejected locally.
func (s *Synchronizer) AddTodo(ctx context.Context, payload model.NewTodo) ([]model.Todo, error) {
	if strings.TrimSpace(payload.Text) == "" {
		return nil, model.Invalid("text", "todo text cannot be empty")
	}
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	if _, err := s.todos.Add(ctx, uid, payload); err != nil {
		return nil, err
	}
	s.logger.Debug("todo added, refetching", "user_id", uid)
	return s.todos.List(ctx, uid)
}

// UpdateTodo sends payload and returns the refetched list.
func (s *Synchronizer) UpdateTodo(ctx context.Context, payload model.UpdateTodo) ([]model.Todo, error) {
	if payload.Text != nil && strings.TrimSpace(*payload.Text) == "" {
		return nil, model.Invalid("text", "todo text cannot be empty")
	}
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	if _, err := s.todos.Update(ctx, uid, payload); err != nil {
		return nil, err
	}
	s.logger.Debug("todo updated, refetching", "user_id", uid, "todo_id", payload.ID)
	return s.todos.List(ctx, uid)
}

// DeleteTodo removes a todo and returns the refetched list.
func (s *Synchronizer) DeleteTodo(ctx context.Context, id int) ([]model.Todo, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	if err := s.todos.Delete(ctx, id, uid); err != nil {
		return nil, err
	}
	s.logger.Debug("todo deleted, refetching", "user_id", uid, "todo_id", id)
	return s.todos.List(ctx, uid)
}

// AddLabel creates a label and returns the refetched labels. current is
// the locally loaded label list; a name already in it is rejected without
// asking the server.
func (s *Synchronizer) AddLabel(ctx context.Context, payload model.NewLabel, current []model.Label) ([]model.Label, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return nil, model.Invalid("name", "label name cannot be empty")
	}
	if _, dup := model.LabelByName(current, payload.Name); dup {
		return nil, model.Invalid("name", "label already exists")
	}
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	if _, err := s.labels.Add(ctx, uid, payload); err != nil {
		return nil, err
	}
	s.logger.Debug("label added, refetching", "user_id", uid)
	return s.labels.List(ctx, uid)
}

// DeleteLabel removes a label and returns the refetched labels. Todos that
// carried it are left alone until the next todo refetch.
func (s *Synchronizer) DeleteLabel(ctx context.Context, id int) ([]model.Label, error) {
	uid, err := s.userID()
	if err != nil {
		return nil, err
	}
	if err := s.labels.Delete(ctx, id, uid); err != nil {
		return nil, err
	}
	s.logger.Debug("label deleted, refetching", "user_id", uid, "label_id", id)
	return s.labels.List(ctx, uid)
}
