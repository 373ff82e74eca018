package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate applies the embedded goose migrations.
func (s *SQLiteDB) Migrate() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// CreateUser registers a new account with a bcrypt-hashed password.
func (s *SQLiteDB) CreateUser(ctx context.Context, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Level:        1,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, level) VALUES (?, ?, ?, 1)`,
		user.ID, user.Username, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return user, nil
}

// Authenticate checks a username/password pair against the stored hash.
func (s *SQLiteDB) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.getUserBy(ctx, "username", username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrAuthFailed
	}
	return user, nil
}

// GetUser retrieves a user by id.
func (s *SQLiteDB) GetUser(ctx context.Context, id string) (*User, error) {
	return s.getUserBy(ctx, "id", id)
}

func (s *SQLiteDB) getUserBy(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT id, username, password_hash, experience, level,
		games_played, best_score, created_at
		FROM users WHERE %s = ?`, column)

	var user User
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Experience,
		&user.Level, &user.GamesPlayed, &user.BestScore, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateGame inserts an in-progress game row with every metric at 50.
func (s *SQLiteDB) CreateGame(ctx context.Context, userID string) (*Game, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id) VALUES (?, ?)`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, id)
}

// GetGame retrieves a game by id.
func (s *SQLiteDB) GetGame(ctx context.Context, id string) (*Game, error) {
	var g Game
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, score, economy, social, environment, popularity,
			budget, turns, completed, created_at
		FROM games WHERE id = ?`, id,
	).Scan(
		&g.ID, &g.UserID, &g.Score, &g.Economy, &g.Social, &g.Environment,
		&g.Popularity, &g.Budget, &g.Turns, &g.Completed, &g.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CompleteGame commits the terminal game row and the user's progression as a
// single transaction. Transient lock errors are retried; any other failure
// rolls the whole write back.
func (s *SQLiteDB) CompleteGame(ctx context.Context, c Completion) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(50*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.completeGameTx(ctx, c)
		if isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *SQLiteDB) completeGameTx(ctx context.Context, c Completion) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE games
		SET score = ?, economy = ?, social = ?, environment = ?,
			popularity = ?, budget = ?, turns = ?, completed = 1
		WHERE id = ? AND user_id = ? AND completed = 0`,
		c.Score, c.Metrics.Economy, c.Metrics.Social, c.Metrics.Environment,
		c.Metrics.Popularity, c.Metrics.Budget, c.Turns,
		c.GameID, c.UserID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return fmt.Errorf("game %s: %w", c.GameID, ErrNotFound)
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE users
		SET games_played = games_played + 1, experience = ?,
			best_score = ?, level = ?
		WHERE id = ?`,
		c.Experience, c.BestScore, c.Level, c.UserID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n != 1 {
		return fmt.Errorf("user %s: %w", c.UserID, ErrNotFound)
	}

	return tx.Commit()
}

// ListCompletedGames returns a user's finished games, most recent first.
// A limit <= 0 returns all of them.
func (s *SQLiteDB) ListCompletedGames(ctx context.Context, userID string, limit int) ([]Game, error) {
	query := `SELECT id, user_id, score, economy, social, environment,
		popularity, budget, turns, completed, created_at
		FROM games WHERE user_id = ? AND completed = 1
		ORDER BY created_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		err := rows.Scan(
			&g.ID, &g.UserID, &g.Score, &g.Economy, &g.Social, &g.Environment,
			&g.Popularity, &g.Budget, &g.Turns, &g.Completed, &g.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// CompletionStats aggregates a user's finished games.
func (s *SQLiteDB) CompletionStats(ctx context.Context, userID string) (*Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0)
		FROM games WHERE user_id = ? AND completed = 1`, userID,
	).Scan(&stats.Count, &stats.AverageScore, &stats.BestScore)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
