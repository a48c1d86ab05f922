// Package auth signs users in and up by name. There are no passwords: a
// name that exists in /users is an identity.
package auth

import (
	"context"
	"strings"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/session"
)

// Field-level messages shown next to the name input.
const (
	MsgEmptyName   = "enter a user name"
	MsgUnknownName = "unknown user name"
	MsgTakenName   = "that user name is already taken"
)

// UserLister lists every user.
type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// UserDirectory can also create users.
type UserDirectory interface {
	UserLister
	Add(ctx context.Context, payload model.NewUser) (model.User, error)
}

func findByName(users []model.User, name string) (model.User, bool) {
	for _, u := range users {
		if u.Name == name {
			return u, true
		}
	}
	return model.User{}, false
}

// SignIn logs in the user whose name matches exactly. An empty or unknown
// name is a *model.ValidationError and leaves the session untouched.
func SignIn(ctx context.Context, users UserLister, store *session.Store, name string) (model.Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Identity{}, model.Invalid("name", MsgEmptyName)
	}
	all, err := users.List(ctx)
	if err != nil {
		return model.Identity{}, err
	}
	u, ok := findByName(all, name)
	if !ok {
		return model.Identity{}, model.Invalid("name", MsgUnknownName)
	}
	id := u.Identity()
	if err := store.Login(id); err != nil {
		return model.Identity{}, err
	}
	return id, nil
}

// SignUp creates a user and logs in as it. A name already present in the
// user list is rejected before anything is created. The check runs against
// the list fetched here, so two clients racing for a name can both pass it.
func SignUp(ctx context.Context, users UserDirectory, store *session.Store, name string) (model.Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Identity{}, model.Invalid("name", MsgEmptyName)
	}
	all, err := users.List(ctx)
	if err != nil {
		return model.Identity{}, err
	}
	if _, taken := findByName(all, name); taken {
		return model.Identity{}, model.Invalid("name", MsgTakenName)
	}
	u, err := users.Add(ctx, model.NewUser{Name: name})
	if err != nil {
		return model.Identity{}, err
	}
	id := u.Identity()
	if err := store.Login(id); err != nil {
		return model.Identity{}, err
	}
	return id, nil
}
