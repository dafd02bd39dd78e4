package services

import (
	"context"
	"errors"
	"testing"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/models"
	reviewsrepo "github.com/oxylize/api/internal/server/repositories/reviews"
)

func strptr(s string) *string { return &s }

func TestReviewCreate_Post(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		p: &fakePostsRepo{byIDOut: &models.Post{ID: "p1", OwnerID: "u2"}},
		r: &fakeReviewsRepo{},
	}
	s := NewReviewService(db, rm)

	review, err := s.Create(context.Background(), "u1", &models.Review{
		Score:      5,
		ReviewType: models.ReviewTypePost,
		PostID:     strptr("p1"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if review.SenderID != "u1" || review.ReceiverID != "u2" {
		t.Errorf("unexpected sender/receiver: %q/%q", review.SenderID, review.ReceiverID)
	}
}

func TestReviewCreate_Profile(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byIDOut: &models.User{ID: "u2"}},
		r: &fakeReviewsRepo{},
	}
	s := NewReviewService(db, rm)

	review, err := s.Create(context.Background(), "u1", &models.Review{
		Score:      3,
		ReviewType: models.ReviewTypeProfile,
		ProfileID:  strptr("u2"),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if review.ReceiverID != "u2" {
		t.Errorf("unexpected receiver: %q", review.ReceiverID)
	}
}

func TestReviewCreate_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		u: &fakeUsersRepo{byIDOut: &models.User{ID: "u1"}},
		p: &fakePostsRepo{byIDOut: &models.Post{ID: "p1", OwnerID: "u1"}},
		r: &fakeReviewsRepo{},
	}
	s := NewReviewService(db, rm)

	tests := []struct {
		name   string
		review *models.Review
	}{
		{"score too low", &models.Review{Score: 0, ReviewType: models.ReviewTypePost, PostID: strptr("p1")}},
		{"score too high", &models.Review{Score: 6, ReviewType: models.ReviewTypePost, PostID: strptr("p1")}},
		{"unknown type", &models.Review{Score: 3, ReviewType: "bogus", PostID: strptr("p1")}},
		{"post review without post id", &models.Review{Score: 3, ReviewType: models.ReviewTypePost}},
		{"both targets set", &models.Review{Score: 3, ReviewType: models.ReviewTypePost, PostID: strptr("p1"), ProfileID: strptr("u2")}},
		{"profile review without profile id", &models.Review{Score: 3, ReviewType: models.ReviewTypeProfile}},
		{"own post", &models.Review{Score: 3, ReviewType: models.ReviewTypePost, PostID: strptr("p1")}},
		{"own profile", &models.Review{Score: 3, ReviewType: models.ReviewTypeProfile, ProfileID: strptr("u1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), "u1", tt.review)
			if !errors.Is(err, common.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestReviewCreate_Duplicate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		p: &fakePostsRepo{byIDOut: &models.Post{ID: "p1", OwnerID: "u2"}},
		r: &fakeReviewsRepo{exists: true},
	}
	s := NewReviewService(db, rm)

	_, err := s.Create(context.Background(), "u1", &models.Review{
		Score:      4,
		ReviewType: models.ReviewTypePost,
		PostID:     strptr("p1"),
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestReviewList_FilterDefaults(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeReviewsRepo{listOut: []*models.Review{{ID: "r1"}}}
	s := NewReviewService(db, &fakeRepoManager{r: repo})

	out, err := s.List(context.Background(), reviewsrepo.ListFilter{ReviewType: models.ReviewTypePost})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 review, got %d", len(out))
	}
	if repo.gotFilter.Limit != 50 || repo.gotFilter.Offset != 0 {
		t.Errorf("expected defaults 50/0, got %d/%d", repo.gotFilter.Limit, repo.gotFilter.Offset)
	}
}
