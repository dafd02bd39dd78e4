package reviews

import (
	"context"

	"github.com/oxylize/api/internal/server/models"
)

// ListFilter narrows review listings; zero values mean "no constraint".
type ListFilter struct {
	ReviewType string
	PostID     string
	ProfileID  string
	ReceiverID string
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	// Exists reports whether the sender already reviewed this target.
	Exists(ctx context.Context, senderID, receiverID, reviewType, targetID string) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Review, error)
}
