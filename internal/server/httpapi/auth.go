package httpapi

import (
	"errors"
	"net/http"

	"github.com/oxylize/api/internal/common"
)

const refreshCookieName = "refresh_token"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username    string      `json:"username"`
	Credentials credentials `json:"credentials"`
}

type loginRequest struct {
	Credentials credentials `json:"credentials"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// credentialErrors lists what was wrong with a registration attempt.
// Taken email and taken username are reported distinctly so the signup
// form can highlight the right field.
type credentialErrors struct {
	Errors []string `json:"errors"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	_, err := s.users.Register(r.Context(), req.Username, req.Credentials.Email, req.Credentials.Password)
	if err != nil {
		var taken []string
		if errors.Is(err, common.ErrEmailTaken) {
			taken = append(taken, "email_taken")
		}
		if errors.Is(err, common.ErrUsernameTaken) {
			taken = append(taken, "username_taken")
		}
		if len(taken) > 0 {
			writeJSON(w, http.StatusBadRequest, credentialErrors{Errors: taken})
			return
		}
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	pair, err := s.users.Login(r.Context(), req.Credentials.Email, req.Credentials.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// The refresh token only ever travels in this cookie, scoped to the
	// refresh endpoint so the browser sends it nowhere else.
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/auth/refresh",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.refreshTokenValidity.Seconds()),
	})

	writeJSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		writeError(w, common.ErrUnauthorized)
		return
	}

	access, err := s.users.RefreshAccessToken(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: access})
}
