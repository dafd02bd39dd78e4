package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/repomanager"
	"github.com/oxylize/api/internal/server/repositories/reviews"
)

// ReviewService handles post and profile reviews. A sender may review a
// given target at most once; the score is a 1..5 integer.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

// Create validates and stores a review. Exactly one of PostID/ProfileID
// must be set, consistent with ReviewType; reviewing oneself is rejected.
func (s *ReviewService) Create(ctx context.Context, senderID string, review *models.Review) (*models.Review, error) {
	if review.Score < 1 || review.Score > 5 {
		return nil, common.ErrValidation
	}

	var targetID string
	switch review.ReviewType {
	case models.ReviewTypePost:
		if review.PostID == nil || review.ProfileID != nil {
			return nil, common.ErrValidation
		}
		targetID = *review.PostID

		post, err := s.repomanager.Posts(s.db).GetByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrNotFound
			}
			return nil, common.ErrInternal
		}
		review.ReceiverID = post.OwnerID
	case models.ReviewTypeProfile:
		if review.ProfileID == nil || review.PostID != nil {
			return nil, common.ErrValidation
		}
		targetID = *review.ProfileID

		if _, err := s.repomanager.Users(s.db).GetByID(ctx, targetID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, common.ErrNotFound
			}
			return nil, common.ErrInternal
		}
		review.ReceiverID = targetID
	default:
		return nil, common.ErrValidation
	}

	if review.ReceiverID == senderID {
		return nil, common.ErrValidation
	}

	repo := s.repomanager.Reviews(s.db)

	exists, err := repo.Exists(ctx, senderID, review.ReceiverID, review.ReviewType, targetID)
	if err != nil {
		return nil, common.ErrInternal
	}
	if exists {
		return nil, common.ErrConflict
	}

	review.SenderID = senderID
	created, err := repo.Create(ctx, review)
	if err != nil {
		// The Exists pre-check races with concurrent submissions; the
		// partial unique indexes are the source of truth.
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, common.ErrInternal
	}
	return created, nil
}

// List returns reviews matching the filter, newest first.
func (s *ReviewService) List(ctx context.Context, filter reviews.ListFilter) ([]*models.Review, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repomanager.Reviews(s.db).List(ctx, filter)
}
