package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/posts"
	"github.com/oxylize/api/internal/server/repositories/repomanager"
)

const (
	defaultPostsPerPage = 10
	maxPostsPerPage     = 100
)

// PostService serves the tutoring requests/offers resource.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager) *PostService {
	return &PostService{db: db, repomanager: m}
}

// List returns a page of posts, newest first. Page numbers start at 0;
// perPage is capped at 100.
func (s *PostService) List(ctx context.Context, page, perPage int) ([]*models.Post, error) {
	if page < 0 {
		page = 0
	}
	if perPage <= 0 {
		perPage = defaultPostsPerPage
	}
	if perPage > maxPostsPerPage {
		perPage = maxPostsPerPage
	}

	return s.repomanager.Posts(s.db).List(ctx, perPage, page*perPage)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.repomanager.Posts(s.db).GetByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, ownerID string, post *models.Post) (*models.Post, error) {
	if post.Title == "" || post.Description == "" {
		return nil, common.ErrValidation
	}
	switch post.Kind {
	case "":
		post.Kind = "request"
	case "request", "offer":
	default:
		return nil, common.ErrValidation
	}

	post.OwnerID = ownerID
	return s.repomanager.Posts(s.db).Create(ctx, post)
}

// Update applies a partial update; only the owner may modify a post.
func (s *PostService) Update(ctx context.Context, userID, postID string, upd posts.PostUpdate) (*models.Post, error) {
	repo := s.repomanager.Posts(s.db)

	existing, err := repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != userID {
		return nil, common.ErrAccessDenied
	}

	return repo.Update(ctx, postID, upd)
}

func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	repo := s.repomanager.Posts(s.db)

	existing, err := repo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return err
	}
	if existing.OwnerID != userID {
		return common.ErrAccessDenied
	}

	return repo.Delete(ctx, postID)
}
