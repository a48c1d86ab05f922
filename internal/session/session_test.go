package session

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
)

const dir = "/home/u/.tada"

func newStorage(t *testing.T) (afero.Fs, *jsonstore.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return fs, jsonstore.New(fs, dir)
}

func TestOpenWithoutEntryIsAnonymous(t *testing.T) {
	_, st := newStorage(t)
	s := Open(st, nil)
	if s.Authenticated() {
		t.Fatalf("expected anonymous session")
	}
}

func TestLoginPersistsAcrossRestart(t *testing.T) {
	_, st := newStorage(t)
	s := Open(st, nil)

	if err := s.Login(model.Identity{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	id, ok := s.Current()
	if !ok || id.ID != 1 || id.Name != "alice" {
		t.Fatalf("unexpected identity %+v ok=%v", id, ok)
	}

	restarted := Open(st, nil)
	id, ok = restarted.Current()
	if !ok || id.ID != 1 {
		t.Fatalf("expected restored identity, got %+v ok=%v", id, ok)
	}
}

func TestLogoutClearsStorage(t *testing.T) {
	fs, st := newStorage(t)
	s := Open(st, nil)
	if err := s.Login(model.Identity{ID: 2, Name: "bob"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("expected anonymous after logout")
	}
	if ok, _ := afero.Exists(fs, dir+"/"+StorageKey+".json"); ok {
		t.Fatalf("expected stored identity to be removed")
	}
	if Open(st, nil).Authenticated() {
		t.Fatalf("fresh start should be anonymous")
	}
}

func TestLoginTwiceIsRejected(t *testing.T) {
	_, st := newStorage(t)
	s := Open(st, nil)
	if err := s.Login(model.Identity{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Login(model.Identity{ID: 2, Name: "bob"}); !errors.Is(err, ErrAlreadyAuthenticated) {
		t.Fatalf("expected ErrAlreadyAuthenticated, got %v", err)
	}
	if id, _ := s.Current(); id.ID != 1 {
		t.Fatalf("identity changed to %+v", id)
	}
}

func TestLoginRejectsInvalidIdentity(t *testing.T) {
	_, st := newStorage(t)
	s := Open(st, nil)
	if err := s.Login(model.Identity{Name: "nobody"}); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("expected anonymous")
	}
}

func TestOpenIgnoresMalformedEntries(t *testing.T) {
	cases := map[string]string{
		"not json":     "{oops",
		"wrong shape":  `["alice"]`,
		"missing id":   `{"name":"alice"}`,
		"missing name": `{"id":3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fs, st := newStorage(t)
			if err := afero.WriteFile(fs, dir+"/"+StorageKey+".json", []byte(body), 0o600); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if Open(st, nil).Authenticated() {
				t.Fatalf("expected anonymous for %q", body)
			}
		})
	}
}

type failingStorage struct{ *jsonstore.Store }

func (failingStorage) Set(string, any) error { return errors.New("disk full") }

func TestLoginVisibleEvenIfPersistFails(t *testing.T) {
	_, st := newStorage(t)
	s := Open(failingStorage{st}, nil)
	if err := s.Login(model.Identity{ID: 1, Name: "alice"}); err == nil {
		t.Fatalf("expected persist error")
	}
	if !s.Authenticated() {
		t.Fatalf("identity should be set for this process")
	}
}
