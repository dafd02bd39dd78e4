package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/posts"
)

type postsResponse struct {
	Posts []*models.Post `json:"posts"`
}

type postResponse struct {
	Post *models.Post `json:"post"`
}

type createPostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Subject     string `json:"subject"`
	Price       int64  `json:"price"`
	Urgent      bool   `json:"urgent"`
}

type updatePostRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Price       *int64  `json:"price"`
	Urgent      *bool   `json:"urgent"`
	Status      *string `json:"status"`
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	list, err := s.posts.List(r.Context(), page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.Post{}
	}
	writeJSON(w, http.StatusOK, postsResponse{Posts: list})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, common.ErrNotFound)
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Post: post})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := s.posts.Create(r.Context(), userIDFrom(r.Context()), &models.Post{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Subject:     req.Subject,
		Price:       req.Price,
		Urgent:      req.Urgent,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, postResponse{Post: post})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		writeError(w, common.ErrValidation)
		return
	}

	post, err := s.posts.Update(r.Context(), userIDFrom(r.Context()), req.ID, posts.PostUpdate{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Price:       req.Price,
		Urgent:      req.Urgent,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Post: post})
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, common.ErrNotFound)
		return
	}

	if err := s.posts.Delete(r.Context(), userIDFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
