package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"statecraft/internal/game"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "president", "secret123")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected generated user id")
	}
	if user.Level != 1 || user.Experience != 0 {
		t.Errorf("New user progression = level %d, exp %d", user.Level, user.Experience)
	}
	if user.PasswordHash == "secret123" {
		t.Error("Password stored in plaintext")
	}

	got, err := db.Authenticate(ctx, "president", "secret123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticated user id = %s, want %s", got.ID, user.ID)
	}

	if _, err := db.Authenticate(ctx, "president", "wrong"); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Wrong password error = %v, want ErrAuthFailed", err)
	}
	if _, err := db.Authenticate(ctx, "nobody", "secret123"); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Unknown user error = %v, want ErrAuthFailed", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.CreateUser(ctx, "president", "secret123"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if _, err := db.CreateUser(ctx, "president", "other456"); !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("Duplicate username error = %v, want ErrDuplicateUsername", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.GetUser(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser error = %v, want ErrNotFound", err)
	}
}

func TestCreateGameDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, err := db.CreateUser(ctx, "president", "secret123")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	g, err := db.CreateGame(ctx, user.ID)
	if err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}
	if g.Completed {
		t.Error("New game marked completed")
	}
	want := game.NewMetrics()
	if g.Metrics() != want {
		t.Errorf("New game metrics = %+v, want %+v", g.Metrics(), want)
	}
	if g.Turns != 0 || g.Score != 0 {
		t.Errorf("New game turns/score = %d/%d, want 0/0", g.Turns, g.Score)
	}
}

func TestCompleteGameRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.CreateUser(ctx, "president", "secret123")
	g, _ := db.CreateGame(ctx, user.ID)

	final := game.Metrics{Economy: 70, Social: 40, Environment: 55, Popularity: 30, Budget: 10}
	err := db.CompleteGame(ctx, Completion{
		GameID:     g.ID,
		UserID:     user.ID,
		Metrics:    final,
		Score:      41,
		Turns:      5,
		Experience: 41,
		BestScore:  41,
		Level:      1,
	})
	if err != nil {
		t.Fatalf("CompleteGame failed: %v", err)
	}

	stored, err := db.GetGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetGame failed: %v", err)
	}
	if !stored.Completed {
		t.Error("Game not marked completed")
	}
	if stored.Metrics() != final {
		t.Errorf("Stored metrics = %+v, want %+v", stored.Metrics(), final)
	}
	if stored.Score != 41 || stored.Turns != 5 {
		t.Errorf("Stored score/turns = %d/%d, want 41/5", stored.Score, stored.Turns)
	}

	updated, err := db.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if updated.Experience != 41 || updated.BestScore != 41 || updated.GamesPlayed != 1 {
		t.Errorf("User progression = %+v", updated)
	}
}

func TestCompleteGameOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.CreateUser(ctx, "president", "secret123")
	g, _ := db.CreateGame(ctx, user.ID)

	c := Completion{
		GameID: g.ID, UserID: user.ID,
		Metrics: game.NewMetrics(), Score: 50, Turns: 5,
		Experience: 50, BestScore: 50, Level: 1,
	}
	if err := db.CompleteGame(ctx, c); err != nil {
		t.Fatalf("First CompleteGame failed: %v", err)
	}
	if err := db.CompleteGame(ctx, c); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second CompleteGame error = %v, want ErrNotFound", err)
	}

	updated, _ := db.GetUser(ctx, user.ID)
	if updated.GamesPlayed != 1 {
		t.Errorf("GamesPlayed = %d after rejected re-commit, want 1", updated.GamesPlayed)
	}
}

// A failure between the game-row update and the user-row update must roll
// the whole commit back: the game row stays in-progress.
func TestCompleteGameAtomicRollback(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.CreateUser(ctx, "president", "secret123")
	g, _ := db.CreateGame(ctx, user.ID)

	// Remove the user row so the progression update inside the transaction
	// affects zero rows after the game update has already applied.
	if _, err := db.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	err := db.CompleteGame(ctx, Completion{
		GameID: g.ID, UserID: user.ID,
		Metrics: game.NewMetrics(), Score: 50, Turns: 5,
		Experience: 50, BestScore: 50, Level: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteGame error = %v, want ErrNotFound", err)
	}

	stored, getErr := db.GetGame(ctx, g.ID)
	if getErr != nil {
		t.Fatalf("GetGame failed: %v", getErr)
	}
	if stored.Completed {
		t.Error("Game row committed despite failed user update")
	}
	if stored.Score != 0 || stored.Turns != 0 {
		t.Errorf("Game row partially updated: score %d, turns %d", stored.Score, stored.Turns)
	}
}

func TestListCompletedGamesAndStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.CreateUser(ctx, "president", "secret123")

	scores := []int{30, 60, 45}
	exp := 0
	best := 0
	for i, score := range scores {
		g, err := db.CreateGame(ctx, user.ID)
		if err != nil {
			t.Fatalf("CreateGame failed: %v", err)
		}
		exp += score
		if score > best {
			best = score
		}
		err = db.CompleteGame(ctx, Completion{
			GameID: g.ID, UserID: user.ID,
			Metrics: game.NewMetrics(), Score: score, Turns: 5,
			Experience: exp, BestScore: best, Level: exp/1000 + 1,
		})
		if err != nil {
			t.Fatalf("CompleteGame failed: %v", err)
		}
		// CURRENT_TIMESTAMP has second resolution; spread the rows out so
		// the most-recent-first ordering is observable.
		_, err = db.db.ExecContext(ctx,
			"UPDATE games SET created_at = datetime('now', ?) WHERE id = ?",
			fmt.Sprintf("+%d seconds", i), g.ID,
		)
		if err != nil {
			t.Fatalf("adjust created_at: %v", err)
		}
	}

	// One in-progress game that must not show up.
	if _, err := db.CreateGame(ctx, user.ID); err != nil {
		t.Fatalf("CreateGame failed: %v", err)
	}

	games, err := db.ListCompletedGames(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("ListCompletedGames failed: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("Expected 3 completed games, got %d", len(games))
	}
	wantOrder := []int{45, 60, 30}
	for i, g := range games {
		if g.Score != wantOrder[i] {
			t.Errorf("games[%d].Score = %d, want %d", i, g.Score, wantOrder[i])
		}
	}

	limited, err := db.ListCompletedGames(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("ListCompletedGames with limit failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 games with limit, got %d", len(limited))
	}

	stats, err := db.CompletionStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("CompletionStats failed: %v", err)
	}
	if stats.Count != 3 {
		t.Errorf("Stats count = %d, want 3", stats.Count)
	}
	if stats.BestScore != 60 {
		t.Errorf("Stats best = %d, want 60", stats.BestScore)
	}
	if stats.AverageScore != 45 {
		t.Errorf("Stats average = %f, want 45", stats.AverageScore)
	}
}

func TestCompletionStatsEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, _ := db.CreateUser(ctx, "president", "secret123")
	stats, err := db.CompletionStats(ctx, user.ID)
	if err != nil {
		t.Fatalf("CompletionStats failed: %v", err)
	}
	if stats.Count != 0 || stats.BestScore != 0 || stats.AverageScore != 0 {
		t.Errorf("Empty stats = %+v", stats)
	}
}
