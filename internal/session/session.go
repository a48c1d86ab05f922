// Package session holds the signed-in identity of the client.
//
// The store has two states, anonymous and authenticated. Login moves from
// anonymous to authenticated, Logout moves back; there are no other
// transitions. The initial state is whatever a well-formed entry in durable
// storage says, and anonymous otherwise.
package session

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/idilsaglam/tada/internal/model"
)

// StorageKey names the durable entry holding the identity.
const StorageKey = "authUser"

// ErrAlreadyAuthenticated is returned by Login when an identity is set.
// Log out first to switch users.
var ErrAlreadyAuthenticated = errors.New("already signed in")

// ErrInvalidIdentity is returned by Login for an identity without id or name.
var ErrInvalidIdentity = errors.New("invalid identity")

// Storage is the durable backing of the store. jsonstore.Store satisfies it.
type Storage interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Remove(key string) error
}

// Store is the process-wide session. Construct it once with Open and pass
// it to whatever needs the identity.
type Store struct {
	mu       sync.RWMutex
	identity *model.Identity
	storage  Storage
	logger   *slog.Logger
}

// Open restores the session from storage. It never fails: unreadable or
// malformed entries are logged and treated as signed out.
func Open(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{storage: storage, logger: logger}

	var id model.Identity
	found, err := storage.Get(StorageKey, &id)
	switch {
	case err != nil:
		logger.Warn("ignoring unreadable session", "error", err)
	case !found:
		logger.Debug("no saved session")
	case !id.Valid():
		logger.Warn("ignoring malformed session", "id", id.ID)
	default:
		s.identity = &id
		logger.Debug("session restored", "user_id", id.ID)
	}
	return s
}

// Current returns the identity, if any.
func (s *Store) Current() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return model.Identity{}, false
	}
	return *s.identity, true
}

// Authenticated reports whether an identity is set.
func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// Login sets the identity and persists it. The identity is visible to every
// caller of Current once Login returns, even if persisting failed.
func (s *Store) Login(id model.Identity) error {
	if !id.Valid() {
		return ErrInvalidIdentity
	}
	s.mu.Lock()
	if s.identity != nil {
		s.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	s.identity = &id
	s.mu.Unlock()

	s.logger.Info("signed in", "user_id", id.ID, "name", id.Name)
	if err := s.storage.Set(StorageKey, id); err != nil {
		s.logger.Error("persist session", "error", err)
		return err
	}
	return nil
}

// Logout clears the identity and its stored copy. Logging out while
// anonymous only makes sure nothing is left in storage.
func (s *Store) Logout() error {
	s.mu.Lock()
	prev := s.identity
	s.identity = nil
	s.mu.Unlock()

	if prev != nil {
		s.logger.Info("signed out", "user_id", prev.ID)
	}
	return s.storage.Remove(StorageKey)
}
