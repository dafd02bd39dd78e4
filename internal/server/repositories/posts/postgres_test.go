package posts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func postRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "owner_id", "title", "description", "kind", "subject",
		"price", "urgent", "status", "created_at", "updated_at", "owner_name",
	}).AddRow("p1", "u1", "Math help", "desc", "request", "math", int64(100), false, "open", now, now, "alice")
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+posts.*RETURNING id, status, created_at, updated_at`).
		WithArgs("u1", "Math help", "desc", "request", "math", int64(100), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow("p1", "open", now, now))

	post := &models.Post{OwnerID: "u1", Title: "Math help", Description: "desc",
		Kind: "request", Subject: "math", Price: 100}
	got, err := repo.Create(context.Background(), post)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "p1" || got.Status != "open" {
		t.Fatalf("unexpected post: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM posts p JOIN users u`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestList_NewestFirstWithOwnerName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM posts p JOIN users u.*ORDER BY p.created_at DESC.*LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(postRow())

	posts, err := repo.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(posts) != 1 || posts[0].OwnerName != "alice" {
		t.Fatalf("unexpected posts: %+v", posts)
	}
}

func TestDelete_MissingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM posts`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}
