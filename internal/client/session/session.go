package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ubadesk/internal/client/client"
	"github.com/dmitrijs2005/ubadesk/internal/client/models"
)

// Routes the manager navigates to.
const (
	RouteLogin = "/login"
	RouteHome  = "/"
)

var (
	// ErrSuperseded is returned by a call whose result was discarded because
	// a newer operation started before it completed.
	ErrSuperseded = errors.New("superseded by a newer session operation")
	// ErrNotAuthenticated is returned by operations that need a token.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// API is the remote collaborator used by the manager.
type API interface {
	Register(ctx context.Context, email, password string) (*client.AuthResult, error)
	Login(ctx context.Context, email, password string) (*client.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
}

// TokenStore persists the bearer token between runs.
// LoadToken returns "" when nothing is stored.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}

// CredentialSink receives every token change. *client.Credentials
// implements it.
type CredentialSink interface {
	Set(token string)
	Clear()
}

type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type Status int

const (
	StatusReady Status = iota
	StatusLoading
)

func (s Status) String() string {
	if s == StatusLoading {
		return "loading"
	}
	return "ready"
}

// State is a point-in-time copy of the session.
type State struct {
	Token     string
	User      *models.User
	Status    Status
	LastError string
}

func (s State) IsAuthenticated() bool {
	return s.Token != ""
}

// IsAdmin fails closed: without a loaded profile the answer is false.
func (s State) IsAdmin() bool {
	return s.Token != "" && s.User != nil && s.User.IsAdmin
}
