package threads

import (
	"context"

	"github.com/oxylize/api/internal/server/models"
)

type Repository interface {
	// CreateOrGet upserts the thread for (postID, unordered user pair).
	// Re-creation is idempotent: on conflict the existing row's activity
	// timestamp is touched and the row is returned.
	CreateOrGet(ctx context.Context, postID, user1, user2 string) (*models.Thread, error)
	// Get returns the thread only when userID is a participant;
	// non-participants and unknown ids both yield ErrNotFound.
	Get(ctx context.Context, threadID, userID string) (*models.Thread, error)
	GetInfo(ctx context.Context, threadID, userID string) (*models.ThreadInfo, error)
	ListInfosForUser(ctx context.Context, userID string) ([]*models.ThreadInfo, error)
	IDsForUser(ctx context.Context, userID string) ([]string, error)
	Touch(ctx context.Context, threadID string) error
}
