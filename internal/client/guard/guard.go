// Package guard decides whether a session may enter a protected area.
package guard

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ubadesk/internal/client/session"
)

type Capability int

const (
	Authenticated Capability = iota
	Admin
)

func (c Capability) String() string {
	if c == Admin {
		return "admin"
	}
	return "authenticated"
}

type Outcome int

const (
	Allow Outcome = iota
	// Pending means the session is still loading; nothing should be shown
	// and no redirect made yet.
	Pending
	RedirectLogin
	RedirectForbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect-login"
	default:
		return "redirect-forbidden"
	}
}

// Decision is the outcome of a check together with the route to navigate
// to, which is empty unless the outcome is a redirect.
type Decision struct {
	Outcome Outcome
	Route   string
}

// Check is a pure function of the session state.
func Check(s session.State, c Capability) Decision {
	switch {
	case s.Status == session.StatusLoading:
		return Decision{Outcome: Pending}
	case !s.IsAuthenticated():
		return Decision{Outcome: RedirectLogin, Route: session.RouteLogin}
	case c == Admin && !s.IsAdmin():
		return Decision{Outcome: RedirectForbidden, Route: session.RouteHome}
	default:
		return Decision{Outcome: Allow}
	}
}

var (
	ErrPending = errors.New("session is still loading")
	ErrDenied  = errors.New("access denied")
)

// StateSource yields the current session state. *session.Manager
// implements it.
type StateSource interface {
	Snapshot() session.State
}

type Guard struct {
	src StateSource
	nav session.Navigator
}

func New(src StateSource, nav session.Navigator) *Guard {
	return &Guard{src: src, nav: nav}
}

// Enter runs fn when the session holds capability c. On a redirect it
// navigates and returns ErrDenied; while loading it returns ErrPending.
func (g *Guard) Enter(ctx context.Context, c Capability, fn func(ctx context.Context) error) error {
	d := Check(g.src.Snapshot(), c)

	switch d.Outcome {
	case Allow:
		return fn(ctx)
	case Pending:
		return ErrPending
	default:
		g.nav.Navigate(d.Route)
		return ErrDenied
	}
}
