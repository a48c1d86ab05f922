// Package fakeapi is an in-memory implementation of the todo REST API.
// It backs the package tests and the todo-devapi command; it is not a
// production server and keeps nothing on disk.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/tada/internal/model"
)

// Request is one call the server received, kept for assertions.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// URI is the path plus query, e.g. "/todos?user_id=1".
func (r Request) URI() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

type todoRow struct {
	id        int
	text      string
	completed bool
	labelIDs  []int
}

// Server holds every user's data in memory.
type Server struct {
	mu       sync.Mutex
	nextID   int
	users    []model.User
	todos    map[int][]*todoRow
	labels   map[int][]model.Label
	requests []Request
	failing  map[string]int
	logger   *slog.Logger
}

// New returns an empty server.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		todos:   make(map[int][]*todoRow),
		labels:  make(map[int][]model.Label),
		failing: make(map[string]int),
		logger:  logger,
	}
}

// Handler routes the REST contract.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/users", s.addUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{name}", s.getUser).Methods(http.MethodGet)

	r.HandleFunc("/todos", s.scoped(s.listTodos)).Methods(http.MethodGet)
	r.HandleFunc("/todos", s.scoped(s.addTodo)).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}", s.scoped(s.updateTodo)).Methods(http.MethodPatch)
	r.HandleFunc("/todos/{id:[0-9]+}", s.scoped(s.deleteTodo)).Methods(http.MethodDelete)

	r.HandleFunc("/labels", s.scoped(s.listLabels)).Methods(http.MethodGet)
	r.HandleFunc("/labels", s.scoped(s.addLabel)).Methods(http.MethodPost)
	r.HandleFunc("/labels/{id:[0-9]+}", s.scoped(s.deleteLabel)).Methods(http.MethodDelete)
	return r
}

// FailNext makes the next request with the given method and path answer
// with status instead of being served.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[method+" "+path] = status
}

// Requests returns a copy of the request log.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// ResetRequests empties the request log.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// SeedUser adds a user directly and returns it.
func (s *Server) SeedUser(name string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertUser(name)
}

// SeedLabel adds a label for userID directly and returns it.
func (s *Server) SeedLabel(userID int, name string) model.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l := model.Label{ID: s.nextID, Name: name}
	s.labels[userID] = append(s.labels[userID], l)
	return l
}

// SeedTodo adds a todo for userID directly and returns it as the API would.
func (s *Server) SeedTodo(userID int, text string, labelIDs ...int) model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	row := &todoRow{id: s.nextID, text: text, labelIDs: labelIDs}
	s.todos[userID] = append(s.todos[userID], row)
	return s.render(userID, row)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   strings.TrimSpace(string(body)),
		})
		key := r.Method + " " + r.URL.Path
		status, fail := s.failing[key]
		delete(s.failing, key)
		s.mu.Unlock()

		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "request_id", r.Header.Get("X-Request-Id"))
		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type scopedHandler func(w http.ResponseWriter, r *http.Request, userID int)

func (s *Server) scoped(h scopedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
		if err != nil || userID <= 0 {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.userExists(userID) {
			http.Error(w, "unknown user", http.StatusNotFound)
			return
		}
		h(w, r, userID)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

// -------------- users ----------------

func (s *Server) insertUser(name string) model.User {
	s.nextID++
	u := model.User{ID: s.nextID, Name: name}
	s.users = append(s.users, u)
	return u
}

func (s *Server) userExists(id int) bool {
	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addUser(w http.ResponseWriter, r *http.Request) {
	var body model.NewUser
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusCreated, s.insertUser(body.Name))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			writeJSON(w, http.StatusOK, u)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

// -------------- todos ----------------

// render resolves label ids against the user's current labels, so deleted
// labels drop out of every todo.
func (s *Server) render(userID int, row *todoRow) model.Todo {
	t := model.Todo{ID: row.id, Text: row.text, Completed: row.completed, Labels: []model.Label{}}
	for _, id := range row.labelIDs {
		if l, ok := model.LabelByID(s.labels[userID], id); ok {
			t.Labels = append(t.Labels, l)
		}
	}
	return t
}

func (s *Server) findTodo(userID, id int) (*todoRow, int) {
	for i, row := range s.todos[userID] {
		if row.id == id {
			return row, i
		}
	}
	return nil, -1
}

func (s *Server) knownLabels(userID int, ids []int) bool {
	for _, id := range ids {
		if _, ok := model.LabelByID(s.labels[userID], id); !ok {
			return false
		}
	}
	return true
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request, userID int) {
	rows := s.todos[userID]
	out := make([]model.Todo, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.render(userID, row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addTodo(w http.ResponseWriter, r *http.Request, userID int) {
	var body model.NewTodo
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}
	if !s.knownLabels(userID, body.LabelIDs) {
		http.Error(w, "unknown label", http.StatusNotFound)
		return
	}
	s.nextID++
	row := &todoRow{id: s.nextID, text: body.Text, labelIDs: append([]int(nil), body.LabelIDs...)}
	s.todos[userID] = append(s.todos[userID], row)
	writeJSON(w, http.StatusCreated, s.render(userID, row))
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request, userID int) {
	row, _ := s.findTodo(userID, pathID(r))
	if row == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	var body model.UpdateTodo
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	if body.Text != nil && *body.Text == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}
	if body.LabelIDs != nil && !s.knownLabels(userID, body.LabelIDs) {
		http.Error(w, "unknown label", http.StatusNotFound)
		return
	}
	if body.Text != nil {
		row.text = *body.Text
	}
	if body.Completed != nil {
		row.completed = *body.Completed
	}
	if body.LabelIDs != nil {
		row.labelIDs = append([]int(nil), body.LabelIDs...)
	}
	writeJSON(w, http.StatusOK, s.render(userID, row))
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request, userID int) {
	row, i := s.findTodo(userID, pathID(r))
	if row == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	rows := s.todos[userID]
	s.todos[userID] = append(rows[:i:i], rows[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// -------------- labels ----------------

func (s *Server) listLabels(w http.ResponseWriter, r *http.Request, userID int) {
	out := make([]model.Label, len(s.labels[userID]))
	copy(out, s.labels[userID])
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addLabel(w http.ResponseWriter, r *http.Request, userID int) {
	var body model.NewLabel
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	s.nextID++
	l := model.Label{ID: s.nextID, Name: body.Name}
	s.labels[userID] = append(s.labels[userID], l)
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) deleteLabel(w http.ResponseWriter, r *http.Request, userID int) {
	id := pathID(r)
	labels := s.labels[userID]
	for i, l := range labels {
		if l.ID == id {
			s.labels[userID] = append(labels[:i:i], labels[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}
