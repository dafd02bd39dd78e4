// Package repomanager hands out repository instances bound to a DBTX, so
// services can run several repositories inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/oxylize/api/internal/dbx"
	"github.com/oxylize/api/internal/server/repositories/messages"
	"github.com/oxylize/api/internal/server/repositories/posts"
	"github.com/oxylize/api/internal/server/repositories/reviews"
	"github.com/oxylize/api/internal/server/repositories/threads"
	"github.com/oxylize/api/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Threads(db dbx.DBTX) threads.Repository
	Messages(db dbx.DBTX) messages.Repository
}
