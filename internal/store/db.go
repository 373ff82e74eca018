package store

import (
	"context"
	"errors"
	"time"

	"statecraft/internal/game"
)

var (
	ErrDuplicateUsername = errors.New("username already taken")
	ErrAuthFailed        = errors.New("invalid username or password")
	ErrNotFound          = errors.New("record not found")
)

// DB is the persistence gateway for users and games.
type DB interface {
	Close() error
	Migrate() error

	CreateUser(ctx context.Context, username, password string) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)

	CreateGame(ctx context.Context, userID string) (*Game, error)
	GetGame(ctx context.Context, id string) (*Game, error)
	CompleteGame(ctx context.Context, c Completion) error
	ListCompletedGames(ctx context.Context, userID string, limit int) ([]Game, error)
	CompletionStats(ctx context.Context, userID string) (*Stats, error)
}

// User is a player account row. Experience and games-played only grow;
// best score is a running maximum; level derives from experience.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Experience   int       `json:"experience" db:"experience"`
	Level        int       `json:"level" db:"level"`
	GamesPlayed  int       `json:"games_played" db:"games_played"`
	BestScore    int       `json:"best_score" db:"best_score"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Game is one play-through row. It is created in-progress with every metric
// at the starting value and updated exactly once to its terminal form.
type Game struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Score       int       `json:"score" db:"score"`
	Economy     int       `json:"economy" db:"economy"`
	Social      int       `json:"social" db:"social"`
	Environment int       `json:"environment" db:"environment"`
	Popularity  int       `json:"popularity" db:"popularity"`
	Budget      int       `json:"budget" db:"budget"`
	Turns       int       `json:"turns" db:"turns"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Metrics returns the game's stored metric values.
func (g *Game) Metrics() game.Metrics {
	return game.Metrics{
		Economy:     g.Economy,
		Social:      g.Social,
		Environment: g.Environment,
		Popularity:  g.Popularity,
		Budget:      g.Budget,
	}
}

// Completion is the all-or-nothing write at game end: the game row reaches
// its terminal form and the user's progression advances in one transaction.
type Completion struct {
	GameID     string
	UserID     string
	Metrics    game.Metrics
	Score      int
	Turns      int
	Experience int
	BestScore  int
	Level      int
}

// Stats summarizes a player's completed games.
type Stats struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	BestScore    int     `json:"best_score"`
}
