package jsonstore

import (
	"testing"

	"github.com/spf13/afero"
)

type entry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestSetGetRemove(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/home/u/.tada")

	var got entry
	found, err := s.Get("authUser", &got)
	if err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}

	if err := s.Set("authUser", entry{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	found, err = s.Get("authUser", &got)
	if err != nil || !found {
		t.Fatalf("expected key, got found=%v err=%v", found, err)
	}
	if got.ID != 1 || got.Name != "alice" {
		t.Fatalf("unexpected value %+v", got)
	}

	info, err := fs.Stat("/home/u/.tada/authUser.json")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	if err := s.Remove("authUser"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove("authUser"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	found, _ = s.Get("authUser", &got)
	if found {
		t.Fatalf("expected key to be gone")
	}
}

func TestGetMalformed(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/d/authUser.json", []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var got entry
	if _, err := New(fs, "/d").Get("authUser", &got); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRejectsPathKeys(t *testing.T) {
	s := New(afero.NewMemMapFs(), "/d")
	if err := s.Set("../escape", entry{}); err == nil {
		t.Fatalf("expected invalid key error")
	}
}
