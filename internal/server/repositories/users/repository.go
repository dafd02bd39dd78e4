package users

import (
	"context"

	"github.com/oxylize/api/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// BumpTokenVer increments the user's revocation counter and returns the
	// new value, invalidating every previously issued refresh token.
	BumpTokenVer(ctx context.Context, userID string) (int64, error)
	GetTokenVer(ctx context.Context, userID string) (int64, error)
}
