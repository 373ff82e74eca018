package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"statecraft/internal/store"
)

// handleRegister creates an account and opens a session for it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body")
		return
	}

	username, err := ValidateCredentials(&req)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, err.Error())
		return
	}

	user, err := s.db.CreateUser(r.Context(), username, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			s.writeError(w, http.StatusConflict, ErrTypeAuth, "username already taken")
			return
		}
		s.logger.Error("create user", "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "registration failed")
		return
	}

	token, _ := s.sessions.Start(user)
	s.setSessionCookie(w, token, 0)

	s.logger.Info("user_registered", "user_id", user.ID, "username", user.Username)
	s.writeJSON(w, http.StatusCreated, SessionResponse{
		UserID:     user.ID,
		Username:   user.Username,
		Level:      user.Level,
		Experience: user.Experience,
	})
}

// handleLogin authenticates a user and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, ErrTypeValidation, "invalid JSON body")
		return
	}

	user, err := s.db.Authenticate(r.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, store.ErrAuthFailed) {
			s.writeError(w, http.StatusUnauthorized, ErrTypeAuth, "invalid username or password")
			return
		}
		s.logger.Error("authenticate", "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "login failed")
		return
	}

	token, _ := s.sessions.Start(user)
	s.setSessionCookie(w, token, 0)

	s.logger.Info("user_logged_in", "user_id", user.ID)
	s.writeJSON(w, http.StatusOK, SessionResponse{
		UserID:     user.ID,
		Username:   user.Username,
		Level:      user.Level,
		Experience: user.Experience,
	})
}

// handleLogout ends the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.End(cookie.Value)
	}
	s.setSessionCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

// handleDashboard returns the account overview: profile, the five most
// recent completed games, and aggregate stats.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h := handleFromContext(r.Context())

	user, err := s.db.GetUser(r.Context(), h.UserID)
	if err != nil {
		s.logger.Error("dashboard user lookup", "user_id", h.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "dashboard unavailable")
		return
	}

	games, err := s.db.ListCompletedGames(r.Context(), h.UserID, 5)
	if err != nil {
		s.logger.Error("dashboard games lookup", "user_id", h.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "dashboard unavailable")
		return
	}

	stats, err := s.db.CompletionStats(r.Context(), h.UserID)
	if err != nil {
		s.logger.Error("dashboard stats lookup", "user_id", h.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "dashboard unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, DashboardResponse{
		User:        user,
		RecentGames: games,
		Stats:       stats,
	})
}
