// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, and
// issuing/refreshing self-contained JWTs guarded by a per-user revocation
// counter.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oxylize/api/internal/common"
	"github.com/oxylize/api/internal/server/auth"
	"github.com/oxylize/api/internal/server/config"
	"github.com/oxylize/api/internal/server/models"
	"github.com/oxylize/api/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	accessSecret                 []byte
	refreshSecret                []byte
	pepper                       []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		accessSecret:                 []byte(cfg.AccessTokenSecret),
		refreshSecret:                []byte(cfg.RefreshTokenSecret),
		pepper:                       []byte(cfg.Pepper),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user. Taken email and taken username are reported
// distinctly (and together via errors.Join when both apply), matching the
// behavior the web client depends on.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validateCredentials(username, email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	emailTaken, err := repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, common.ErrInternal
	}
	usernameTaken, err := repo.UsernameTaken(ctx, username)
	if err != nil {
		return nil, common.ErrInternal
	}
	switch {
	case emailTaken && usernameTaken:
		return nil, errors.Join(common.ErrEmailTaken, common.ErrUsernameTaken)
	case emailTaken:
		return nil, common.ErrEmailTaken
	case usernameTaken:
		return nil, common.ErrUsernameTaken
	}

	salt := auth.NewSalt()
	user := &models.User{
		Username:     username,
		Email:        email,
		Salt:         salt,
		PasswordHash: auth.HashPassword([]byte(password), s.pepper, salt),
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		// The pre-checks race with concurrent registrations; the unique
		// constraints are the source of truth.
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, common.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, bumps the revocation
// counter (invalidating all previously issued refresh tokens) and returns
// a fresh TokenPair. Unknown email and wrong password are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !auth.VerifyPassword([]byte(password), s.pepper, user.Salt, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	ver, err := repo.BumpTokenVer(ctx, user.ID)
	if err != nil {
		return nil, common.ErrInternal
	}

	refresh, err := auth.GenerateRefreshToken(user.ID, ver, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	access, err := auth.GenerateAccessToken(user.ID, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken mints a new access token from a refresh token. The
// refresh token is valid only while its counter value matches the user's
// current one; an older value yields ErrTokenRevoked.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	userID, ver, err := auth.ParseRefreshToken(refreshToken, s.refreshSecret)
	if err != nil {
		return "", err
	}

	currentVer, err := s.repomanager.Users(s.db).GetTokenVer(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}
	if ver != currentVer {
		return "", common.ErrTokenRevoked
	}

	return auth.GenerateAccessToken(userID, s.accessSecret, s.accessTokenValidityDuration)
}

// AuthenticateAccess verifies an access token and returns the user id.
// No database access is involved.
func (s *UserService) AuthenticateAccess(tokenString string) (string, error) {
	userID, err := auth.ParseAccessToken(tokenString, s.accessSecret)
	if err != nil {
		return "", common.ErrUnauthorized
	}
	return userID, nil
}

// GetByID returns the user profile for /user/me and name resolution.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func validateCredentials(username, email, password string) error {
	if username == "" {
		return common.ErrValidation
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return common.ErrValidation
	}
	if password == "" {
		return common.ErrValidation
	}
	return nil
}
