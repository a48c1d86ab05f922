package model

// Identity is the signed-in user. It is fixed for the lifetime of a session.
type Identity struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Valid reports whether the identity could have come from the server.
func (i Identity) Valid() bool { return i.ID > 0 && i.Name != "" }

// User is a row of the /users collection.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Identity converts a looked-up user into a session identity.
func (u User) Identity() Identity { return Identity{ID: u.ID, Name: u.Name} }

// Todo is the domain model for a todo entry as the server returns it.
type Todo struct {
	ID        int     `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	Labels    []Label `json:"labels"`
}

// HasLabel reports whether the todo carries the label with the given id.
func (t Todo) HasLabel(id int) bool {
	for _, l := range t.Labels {
		if l.ID == id {
			return true
		}
	}
	return false
}

// NewTodo is the body of POST /todos.
type NewTodo struct {
	Text     string `json:"text"`
	LabelIDs []int  `json:"label_ids"`
}

// UpdateTodo addresses a todo by ID. Nil Text and Completed are omitted;
// LabelIDs is always sent, a nil slice encoding as null (leave unchanged)
// and an empty one clearing every label.
type UpdateTodo struct {
	ID        int     `json:"-"`
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	LabelIDs  []int   `json:"label_ids"`
}

// NewUser is the body of POST /users.
type NewUser struct {
	Name string `json:"name"`
}
