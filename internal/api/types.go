package api

import (
	"statecraft/internal/catalog"
	"statecraft/internal/game"
	"statecraft/internal/store"
)

// Error kinds surfaced to clients. Validation and auth failures carry a
// user-visible message; persistence and internal failures stay generic.
const (
	ErrTypeValidation  = "validation"
	ErrTypeAuth        = "auth"
	ErrTypeNotFound    = "not_found"
	ErrTypePersistence = "persistence"
	ErrTypeInternal    = "internal"
)

type errorResponse struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// CredentialsRequest is the body of register and login calls.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse reports the logged-in account.
type SessionResponse struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
}

// DashboardResponse is the account overview: profile, recent games, stats.
type DashboardResponse struct {
	User        *store.User  `json:"user"`
	RecentGames []store.Game `json:"recent_games"`
	Stats       *store.Stats `json:"stats"`
}

// NewGameResponse reports a freshly started game.
type NewGameResponse struct {
	GameID     string       `json:"game_id"`
	Turn       int          `json:"turn"`
	TotalTurns int          `json:"total_turns"`
	Stats      game.Metrics `json:"stats"`
}

// TurnResponse carries the drawn scenario for the current turn. Turn is
// 1-based for display. Scenario is omitted once the game is complete.
type TurnResponse struct {
	Turn       int               `json:"turn"`
	TotalTurns int               `json:"total_turns"`
	Completed  bool              `json:"completed"`
	Scenario   *catalog.Scenario `json:"scenario,omitempty"`
	Stats      game.Metrics      `json:"stats"`
}

// DecisionRequest submits a choice for a scenario.
type DecisionRequest struct {
	ScenarioID  int `json:"scenario_id"`
	OptionIndex int `json:"option_index"`
}

// DecisionResponse reports the result of one decision.
type DecisionResponse struct {
	Success       bool         `json:"success"`
	GameCompleted bool         `json:"game_completed"`
	Stats         game.Metrics `json:"stats"`
	Message       string       `json:"message,omitempty"`
}

// ResultResponse is the terminal view of a finished game.
type ResultResponse struct {
	GameID string       `json:"game_id"`
	Stats  game.Metrics `json:"stats"`
	Score  int          `json:"score"`
	Turns  int          `json:"turns"`
}

// HistoryResponse lists a player's completed games, most recent first.
type HistoryResponse struct {
	Games []store.Game `json:"games"`
}
