package messages

import (
	"context"

	"github.com/oxylize/api/internal/server/models"
)

type Repository interface {
	// Append inserts a message and publishes its notification to the
	// thread's pg_notify channel. The caller is responsible for the
	// participant check.
	Append(ctx context.Context, threadID, senderID, content string) (*models.Message, error)
	// List returns a page of messages with sender names, newest first.
	List(ctx context.Context, threadID string, limit, offset int) ([]*models.MessageInfo, error)
}
