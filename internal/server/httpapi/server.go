// Package httpapi exposes the REST surface of the service: auth, posts,
// reviews, the current-user endpoint, and the websocket upgrade route.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oxylize/api/internal/logging"
	"github.com/oxylize/api/internal/server/config"
	"github.com/oxylize/api/internal/server/models"
	postsrepo "github.com/oxylize/api/internal/server/repositories/posts"
	reviewsrepo "github.com/oxylize/api/internal/server/repositories/reviews"
	"github.com/oxylize/api/internal/server/services"
)

// UserService is the slice of the user business logic the handlers use.
type UserService interface {
	TokenAuthenticator
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type PostService interface {
	List(ctx context.Context, page, perPage int) ([]*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, ownerID string, post *models.Post) (*models.Post, error)
	Update(ctx context.Context, userID, postID string, upd postsrepo.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, userID, postID string) error
}

type ReviewService interface {
	Create(ctx context.Context, senderID string, review *models.Review) (*models.Review, error)
	List(ctx context.Context, filter reviewsrepo.ListFilter) ([]*models.Review, error)
}

type Server struct {
	httpServer           *http.Server
	users                UserService
	posts                PostService
	reviews              ReviewService
	refreshTokenValidity time.Duration
	log                  logging.Logger
}

// New assembles the router and returns a server ready to listen on the
// configured address. wsHandler serves GET /ws/chat.
func New(cfg *config.Config, users UserService, posts PostService, reviews ReviewService, wsHandler http.Handler, log logging.Logger) *Server {
	s := &Server{
		users:                users,
		posts:                posts,
		reviews:              reviews,
		refreshTokenValidity: cfg.RefreshTokenValidityDuration,
		log:                  log.With("module", "httpapi"),
	}

	r := mux.NewRouter()
	r.Use(cors(cfg.CORSAllowedOrigins))

	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/posts/{id}", s.handleGetPost).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/reviews", http.HandlerFunc(s.handleListReviews)).Methods(http.MethodGet, http.MethodOptions)

	// Everything below requires a bearer token.
	authed := r.NewRoute().Subrouter()
	authed.Use(requireAuth(users))
	authed.HandleFunc("/user/me", s.handleMe).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/posts/create", s.handleCreatePost).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/posts/update", s.handleUpdatePost).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/posts/{id}", s.handleDeletePost).Methods(http.MethodDelete, http.MethodOptions)
	authed.Handle("/reviews", http.HandlerFunc(s.handleCreateReview)).Methods(http.MethodPost, http.MethodOptions)

	// The websocket route authenticates itself from the token query
	// parameter; browsers cannot set headers on the upgrade request.
	r.Handle("/ws/chat", wsHandler).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              cfg.EndpointAddrHTTP,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log.Info(ctx, "http server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
