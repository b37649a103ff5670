// Package cache provides the read-through profile cache used by GET
// /api/auth/me. A Redis-backed implementation is used when an address is
// configured; otherwise Nop disables caching.
package cache

import (
	"context"

	"github.com/dmitrijs2005/ubadesk/internal/server/models"
)

// ProfileCache stores public user profiles keyed by user id. A miss is
// reported as (nil, false, nil).
type ProfileCache interface {
	Get(ctx context.Context, id int64) (*models.User, bool, error)
	Set(ctx context.Context, user *models.User) error
	Invalidate(ctx context.Context, id int64) error
}

// Nop is a ProfileCache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, int64) (*models.User, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, *models.User) error                { return nil }
func (Nop) Invalidate(context.Context, int64) error                { return nil }
