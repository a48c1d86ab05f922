// Package router decides which screen a path shows for the current session.
package router

// Paths the client knows.
const (
	PathRoot   = "/"
	PathSignIn = "/signin"
	PathSignUp = "/signup"
)

// maxRedirects bounds Navigate; the route table never needs more than one.
const maxRedirects = 4

// Page identifies a screen.
type Page int

const (
	NotFound Page = iota
	Landing
	Home
	SignIn
	SignUp
)

func (p Page) String() string {
	switch p {
	case Landing:
		return "landing"
	case Home:
		return "home"
	case SignIn:
		return "signin"
	case SignUp:
		return "signup"
	default:
		return "not found"
	}
}

// Session is what the guards look at. *session.Store satisfies it.
type Session interface {
	Authenticated() bool
}

// Decision is either a page to render or a path to go to instead.
type Decision struct {
	Page     Page
	Redirect string
}

// Route turns a session into a decision.
type Route func(Session) Decision

// Render always shows p.
func Render(p Page) Route {
	return func(Session) Decision { return Decision{Page: p} }
}

// GuestOnly shows next to anonymous users and sends signed-in ones home.
func GuestOnly(next Route) Route {
	return func(s Session) Decision {
		if s.Authenticated() {
			return Decision{Redirect: PathRoot}
		}
		return next(s)
	}
}

// AuthOnly shows next to signed-in users and sends anonymous ones to sign-in.
func AuthOnly(next Route) Route {
	return func(s Session) Decision {
		if !s.Authenticated() {
			return Decision{Redirect: PathSignIn}
		}
		return next(s)
	}
}

// rootRoute renders home or landing directly; it never redirects.
func rootRoute(s Session) Decision {
	if s.Authenticated() {
		return Decision{Page: Home}
	}
	return Decision{Page: Landing}
}

// Router maps paths to routes for one session.
type Router struct {
	session Session
	routes  map[string]Route
}

// New returns the client's route table.
func New(s Session) *Router {
	return &Router{
		session: s,
		routes: map[string]Route{
			PathRoot:   rootRoute,
			PathSignIn: GuestOnly(Render(SignIn)),
			PathSignUp: GuestOnly(Render(SignUp)),
		},
	}
}

// Resolve evaluates path once.
func (r *Router) Resolve(path string) Decision {
	route, ok := r.routes[path]
	if !ok {
		return Decision{Page: NotFound}
	}
	return route(r.session)
}

// Navigate follows redirects and returns the page shown and the path it
// ended on.
func (r *Router) Navigate(path string) (Page, string) {
	for i := 0; i <= maxRedirects; i++ {
		d := r.Resolve(path)
		if d.Redirect == "" {
			return d.Page, path
		}
		path = d.Redirect
	}
	return NotFound, path
}
