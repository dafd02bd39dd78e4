package posts

import (
	"context"

	"github.com/oxylize/api/internal/server/models"
)

// PostUpdate carries the mutable fields of a post; nil means "leave as is".
type PostUpdate struct {
	Title       *string
	Description *string
	Subject     *string
	Price       *int64
	Urgent      *bool
	Status      *string
}

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, id string, upd PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) error
}
