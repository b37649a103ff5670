package client

import (
	"context"

	"github.com/dmitrijs2005/ubadesk/internal/client/models"
)

// AuthResult is the payload returned by register and login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Me fetches the profile of the account the current credentials belong to.
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
}
