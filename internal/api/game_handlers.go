package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"statecraft/internal/game"
	"statecraft/internal/store"
)

// handleNewGame creates an in-progress game row and resets the player's
// session state. Starting a new game abandons any unfinished one.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	h := handleFromContext(r.Context())
	h.Lock()
	defer h.Unlock()

	g, err := s.db.CreateGame(r.Context(), h.UserID)
	if err != nil {
		s.logger.Error("create game", "user_id", h.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypePersistence, "could not start a new game")
		return
	}

	h.Game = game.NewSession(g.ID)

	s.logger.Info("game_started", "user_id", h.UserID, "game_id", g.ID)
	s.writeJSON(w, http.StatusCreated, NewGameResponse{
		GameID:     g.ID,
		Turn:       0,
		TotalTurns: game.TotalTurns,
		Stats:      h.Game.Metrics,
	})
}

// handleCurrentTurn draws a scenario for the current turn. Each call draws;
// the drawn id is recorded so it cannot recur within the game.
func (s *Server) handleCurrentTurn(w http.ResponseWriter, r *http.Request) {
	h := handleFromContext(r.Context())
	h.Lock()
	defer h.Unlock()

	if h.Game == nil {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "no active game")
		return
	}

	if s.engine.Complete(h.Game) {
		s.writeJSON(w, http.StatusOK, TurnResponse{
			Turn:       h.Game.Turn,
			TotalTurns: game.TotalTurns,
			Completed:  true,
			Stats:      h.Game.Metrics,
		})
		return
	}

	scenario := s.engine.Draw(h.Game)
	s.writeJSON(w, http.StatusOK, TurnResponse{
		Turn:       h.Game.Turn + 1,
		TotalTurns: game.TotalTurns,
		Scenario:   &scenario,
		Stats:      h.Game.Metrics,
	})
}

// handleDecision applies a submitted choice. The decision is staged on a
// copy of the session state; on the final turn the completion commit must
// succeed before the copy replaces the live state, so a failed commit
// leaves everything unchanged for retry.
func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	h := handleFromContext(r.Context())
	h.Lock()
	defer h.Unlock()

	if h.Game == nil {
		s.writeJSON(w, http.StatusBadRequest, DecisionResponse{
			Message: "no active game",
		})
		return
	}

	var req DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, DecisionResponse{
			Stats:   h.Game.Metrics,
			Message: "invalid JSON body",
		})
		return
	}

	staged := h.Game.Clone()
	updated, err := s.engine.Apply(staged, req.ScenarioID, req.OptionIndex)
	if err != nil {
		if errors.Is(err, game.ErrUnknownScenario) || errors.Is(err, game.ErrInvalidOption) || errors.Is(err, game.ErrGameOver) {
			s.writeJSON(w, http.StatusBadRequest, DecisionResponse{
				Stats:   h.Game.Metrics,
				Message: "invalid choice",
			})
			return
		}
		s.logger.Error("apply decision", "game_id", h.Game.GameID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "decision failed")
		return
	}

	if !s.engine.Complete(staged) {
		h.Game = staged
		s.writeJSON(w, http.StatusOK, DecisionResponse{
			Success: true,
			Stats:   updated,
		})
		return
	}

	// Final turn: commit the terminal game row and the progression update
	// as one transaction before touching the live session.
	user, err := s.db.GetUser(r.Context(), h.UserID)
	if err != nil {
		s.logger.Error("completion user lookup", "user_id", h.UserID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, DecisionResponse{
			Stats:   h.Game.Metrics,
			Message: "could not save your result, please retry",
		})
		return
	}

	score := game.FinalScore(updated)
	prog := game.NextProgression(user.Experience, user.BestScore, score)

	err = s.db.CompleteGame(r.Context(), store.Completion{
		GameID:     staged.GameID,
		UserID:     h.UserID,
		Metrics:    updated,
		Score:      score,
		Turns:      staged.Turn,
		Experience: prog.Experience,
		BestScore:  prog.BestScore,
		Level:      prog.Level,
	})
	if err != nil {
		s.logger.Error("completion commit", "game_id", staged.GameID, "user_id", h.UserID, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, DecisionResponse{
			Stats:   h.Game.Metrics,
			Message: "could not save your result, please retry",
		})
		return
	}

	h.Game = nil
	h.LastGameID = staged.GameID
	h.Experience = prog.Experience
	h.Level = prog.Level

	s.logger.Info("game_completed",
		"game_id", staged.GameID, "user_id", h.UserID,
		"score", score, "level", prog.Level)
	s.writeJSON(w, http.StatusOK, DecisionResponse{
		Success:       true,
		GameCompleted: true,
		Stats:         updated,
	})
}

// handleResult returns the terminal view of the most recently finished game.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	h := handleFromContext(r.Context())
	h.Lock()
	gameID := h.LastGameID
	h.Unlock()

	var g *store.Game
	var err error
	if gameID != "" {
		g, err = s.db.GetGame(r.Context(), gameID)
	} else {
		// Fall back to the latest completed game, e.g. after a re-login.
		var games []store.Game
		games, err = s.db.ListCompletedGames(r.Context(), h.UserID, 1)
		if err == nil {
			if len(games) == 0 {
				s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "no completed games")
				return
			}
			g = &games[0]
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "no completed games")
			return
		}
		s.logger.Error("result lookup", "user_id", h.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "result unavailable")
		return
	}
	if g.UserID != h.UserID {
		s.writeError(w, http.StatusNotFound, ErrTypeNotFound, "no completed games")
		return
	}

	s.writeJSON(w, http.StatusOK, ResultResponse{
		GameID: g.ID,
		Stats:  g.Metrics(),
		Score:  g.Score,
		Turns:  g.Turns,
	})
}

// handleHistory lists every completed game, most recent first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h := handleFromContext(r.Context())

	games, err := s.db.ListCompletedGames(r.Context(), h.UserID, 0)
	if err != nil {
		s.logger.Error("history lookup", "user_id", h.UserID, "error", err)
		s.writeError(w, http.StatusInternalServerError, ErrTypeInternal, "history unavailable")
		return
	}

	s.writeJSON(w, http.StatusOK, HistoryResponse{Games: games})
}
