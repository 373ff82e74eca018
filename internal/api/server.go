package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"statecraft/internal/game"
	"statecraft/internal/session"
	"statecraft/internal/store"
)

const sessionCookie = "statecraft_session"

// Server handles HTTP requests
type Server struct {
	db       store.DB
	engine   *game.Engine
	sessions *session.Manager
	logger   *slog.Logger
}

// NewServer creates a new API server
func NewServer(db store.DB, engine *game.Engine, logger *slog.Logger) *Server {
	return &Server{
		db:       db,
		engine:   engine,
		sessions: session.NewManager(),
		logger:   logger,
	}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/logout", s.handleLogout)
			r.Get("/dashboard", s.handleDashboard)
			r.Post("/games", s.handleNewGame)
			r.Get("/games/current", s.handleCurrentTurn)
			r.Post("/games/decision", s.handleDecision)
			r.Get("/games/result", s.handleResult)
			r.Get("/games/history", s.handleHistory)
		})
	})

	return r
}

type handleKey struct{}

// requireSession resolves the session cookie into a handle and rejects
// requests without one.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, ErrTypeAuth, "not logged in")
			return
		}
		h, ok := s.sessions.Get(cookie.Value)
		if !ok {
			s.writeError(w, http.StatusUnauthorized, ErrTypeAuth, "session expired")
			return
		}
		ctx := context.WithValue(r.Context(), handleKey{}, h)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func handleFromContext(ctx context.Context) *session.Handle {
	h, _ := ctx.Value(handleKey{}).(*session.Handle)
	return h
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, errType, message string) {
	s.writeJSON(w, status, errorResponse{Type: errType, Error: message})
}
