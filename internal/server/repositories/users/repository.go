package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/server/models"
)

// Repository persists user accounts. Lookups of missing rows return
// common.ErrorNotFound; Create on a taken email returns
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}
