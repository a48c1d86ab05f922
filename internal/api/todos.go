package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/idilsaglam/tada/internal/model"
)

// TodoService covers /todos.
type TodoService struct{ c *Client }

// List returns every todo of userID.
func (s *TodoService) List(ctx context.Context, userID int) ([]model.Todo, error) {
	q, err := scope(userID)
	if err != nil {
		return nil, err
	}
	var out []model.Todo
	if err := s.c.do(ctx, "get todos", http.MethodGet, "/todos", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Add creates a todo for userID.
func (s *TodoService) Add(ctx context.Context, userID int, payload model.NewTodo) (model.Todo, error) {
	q, err := scope(userID)
	if err != nil {
		return model.Todo{}, err
	}
	if payload.LabelIDs == nil {
		payload.LabelIDs = []int{}
	}
	var out model.Todo
	if err := s.c.do(ctx, "add todo", http.MethodPost, "/todos", q, payload, &out); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

// Update sends the set fields of payload to /todos/{payload.ID}.
func (s *TodoService) Update(ctx context.Context, userID int, payload model.UpdateTodo) (model.Todo, error) {
	q, err := scope(userID)
	if err != nil {
		return model.Todo{}, err
	}
	var out model.Todo
	path := "/todos/" + strconv.Itoa(payload.ID)
	if err := s.c.do(ctx, "update todo", http.MethodPatch, path, q, payload, &out); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

// Delete removes todo id of userID.
func (s *TodoService) Delete(ctx context.Context, id, userID int) error {
	q, err := scope(userID)
	if err != nil {
		return err
	}
	return s.c.do(ctx, "delete todo", http.MethodDelete, "/todos/"+strconv.Itoa(id), q, nil, nil)
}
