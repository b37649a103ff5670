// Package services contains server-side business logic. UserService handles
// registration, login, token verification and the admin bootstrap.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ubadesk/internal/common"
	"github.com/dmitrijs2005/ubadesk/internal/dbx"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/dmitrijs2005/ubadesk/internal/server/auth"
	"github.com/dmitrijs2005/ubadesk/internal/server/cache"
	"github.com/dmitrijs2005/ubadesk/internal/server/config"
	"github.com/dmitrijs2005/ubadesk/internal/server/models"
	"github.com/dmitrijs2005/ubadesk/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCredits is granted to every self-registered account.
	DefaultCredits int64 = 10
	// AdminCredits is granted to the bootstrapped administrator.
	AdminCredits int64 = 1000
)

// ErrPasswordTooLong is returned when a password exceeds the 72-byte input
// limit of bcrypt.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService provides authentication-related operations:
// - Register: create users with a bcrypt password hash
// - Login: verify credentials, record last_login and mint a token
// - Authenticate/Profile: resolve a bearer token to a user via the cache
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       cache.ProfileCache
	logger      logging.Logger
	jwtSecret   []byte
	tokenTTL    time.Duration
	now         func() time.Time
}

// NewUserService wires a UserService. A nil cache disables caching and a nil
// logger discards output.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, c cache.ProfileCache, cfg *config.Config, logger logging.Logger) *UserService {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserService{
		db:          db,
		repomanager: m,
		cache:       c,
		logger:      logger,
		jwtSecret:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenTTL,
		now:         time.Now,
	}
}

// hashPassword is a seam so tests can use a cheaper cost.
var hashPassword = func(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Register creates a regular account and returns a token for it.
// A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*AuthResult, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:        common.NormalizeEmail(email),
		PasswordHash: hash,
		Credits:      DefaultCredits,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login verifies credentials. Unknown emails and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	now := s.now().UTC()
	if err := repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn(ctx, "failed to record last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLogin = &now
	}

	if err := s.cache.Invalidate(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "failed to invalidate profile cache", "user_id", user.ID, "error", err)
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to its user. Token failures yield
// common.ErrTokenExpired or common.ErrInvalidToken; a token for a deleted
// account yields common.ErrorNotFound.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, id)
}

// Profile returns the user with the given id, consulting the cache first.
// Cache failures are logged and fall through to the database.
func (s *UserService) Profile(ctx context.Context, id int64) (*models.User, error) {
	if user, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn(ctx, "profile cache read failed", "user_id", id, "error", err)
	} else if ok {
		return user, nil
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := s.cache.Set(ctx, user); err != nil {
		s.logger.Warn(ctx, "profile cache write failed", "user_id", id, "error", err)
	}

	return user, nil
}

// EnsureAdmin creates the administrator account unless one with the given
// email already exists. It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = common.NormalizeEmail(email)
	created := false

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		hash, err := hashPassword(password)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		_, err = repo.Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			Credits:      AdminCredits,
			IsAdmin:      true,
		})
		if err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("error ensuring admin: %w", err)
	}

	return created, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
