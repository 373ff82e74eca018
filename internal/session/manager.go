// Package session keeps per-player state between requests. The registry is
// process-local; the HTTP layer carries only an opaque token in a cookie.
package session

import (
	"sync"

	"github.com/google/uuid"

	"statecraft/internal/game"
	"statecraft/internal/store"
)

// Handle is the server-side state for one logged-in player. The embedded
// mutex serializes game mutations for the player, so two tabs submitting at
// once cannot interleave the completion commit.
type Handle struct {
	sync.Mutex

	UserID     string
	Username   string
	Level      int
	Experience int

	// Game is the active play-through, nil between games. LastGameID
	// remembers the most recently committed game for the result view.
	Game       *game.Session
	LastGameID string
}

// Manager maps opaque tokens to session handles.
type Manager struct {
	mu      sync.RWMutex
	handles map[string]*Handle
}

func NewManager() *Manager {
	return &Manager{handles: make(map[string]*Handle)}
}

// Start registers a session for the user and returns its token.
func (m *Manager) Start(user *store.User) (string, *Handle) {
	token := uuid.New().String()
	h := &Handle{
		UserID:     user.ID,
		Username:   user.Username,
		Level:      user.Level,
		Experience: user.Experience,
	}

	m.mu.Lock()
	m.handles[token] = h
	m.mu.Unlock()

	return token, h
}

// Get looks up the handle for a token.
func (m *Manager) Get(token string) (*Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[token]
	return h, ok
}

// End removes a session.
func (m *Manager) End(token string) {
	m.mu.Lock()
	delete(m.handles, token)
	m.mu.Unlock()
}
