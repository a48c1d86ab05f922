package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/idilsaglam/tada/internal/model"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestScopedRoutesRequireUser(t *testing.T) {
	s := New(nil)
	h := s.Handler()
	if rec := do(t, h, http.MethodGet, "/todos", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user_id, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/todos?user_id=42", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}
}

func TestDeletingLabelDropsItFromTodos(t *testing.T) {
	s := New(nil)
	u := s.SeedUser("alice")
	l := s.SeedLabel(u.ID, "work")
	s.SeedTodo(u.ID, "ship it", l.ID)
	h := s.Handler()

	if rec := do(t, h, http.MethodDelete, "/labels/"+strconv.Itoa(l.ID)+"?user_id="+strconv.Itoa(u.ID), ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete label: %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/todos?user_id="+strconv.Itoa(u.ID), "")
	var todos []model.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &todos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(todos) != 1 || len(todos[0].Labels) != 0 {
		t.Fatalf("expected label gone from todo, got %+v", todos)
	}
}

func TestUsersAreNotScoped(t *testing.T) {
	s := New(nil)
	h := s.Handler()
	if rec := do(t, h, http.MethodPost, "/users", `{"name":"carol"}`); rec.Code != http.StatusCreated {
		t.Fatalf("add user: %d", rec.Code)
	}
	rec := do(t, h, http.MethodGet, "/users/carol", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"carol"`) {
		t.Fatalf("get user: %d %s", rec.Code, rec.Body.String())
	}
	if got := s.Requests(); len(got) != 2 || got[0].Body != `{"name":"carol"}` {
		t.Fatalf("unexpected request log %+v", got)
	}
}

func TestFailNext(t *testing.T) {
	s := New(nil)
	h := s.Handler()
	s.FailNext(http.MethodGet, "/users", http.StatusInternalServerError)
	if rec := do(t, h, http.MethodGet, "/users", ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected injected failure, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/users", ""); rec.Code != http.StatusOK {
		t.Fatalf("failure should apply once, got %d", rec.Code)
	}
}
