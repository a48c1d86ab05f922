package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/idilsaglam/tada/internal/model"
)

// UserService covers /users. Users are not scoped.
type UserService struct{ c *Client }

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := s.c.do(ctx, "get users", http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Add creates a user.
func (s *UserService) Add(ctx context.Context, payload model.NewUser) (model.User, error) {
	var out model.User
	if err := s.c.do(ctx, "add user", http.MethodPost, "/users", nil, payload, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}

// Get looks a user up by exact name.
func (s *UserService) Get(ctx context.Context, name string) (model.User, error) {
	var out model.User
	if err := s.c.do(ctx, "get user", http.MethodGet, "/users/"+url.PathEscape(name), nil, nil, &out); err != nil {
		return model.User{}, err
	}
	return out, nil
}
