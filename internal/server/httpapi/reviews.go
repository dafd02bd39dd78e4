package httpapi

import (
	"net/http"
	"strconv"

	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/reviews"
)

type createReviewRequest struct {
	Score      int     `json:"score"`
	Comment    string  `json:"comment"`
	ReviewType string  `json:"review_type"`
	PostID     *string `json:"post_id"`
	ProfileID  *string `json:"profile_id"`
}

type reviewsResponse struct {
	Reviews []*models.Review `json:"reviews"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	review, err := s.reviews.Create(r.Context(), userIDFrom(r.Context()), &models.Review{
		Score:      req.Score,
		Comment:    req.Comment,
		ReviewType: req.ReviewType,
		PostID:     req.PostID,
		ProfileID:  req.ProfileID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, err := s.reviews.List(r.Context(), reviews.ListFilter{
		ReviewType: q.Get("review_type"),
		PostID:     q.Get("post_id"),
		ProfileID:  q.Get("profile_id"),
		ReceiverID: q.Get("receiver_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.Review{}
	}
	writeJSON(w, http.StatusOK, reviewsResponse{Reviews: list})
}
