package game

// Session is the mutable per-player state of one play-through. It is created
// when a game starts and cleared once the result is committed.
type Session struct {
	GameID  string
	Turn    int
	Used    map[int]struct{}
	Metrics Metrics
}

// NewSession returns the state of a freshly started game.
func NewSession(gameID string) *Session {
	return &Session{
		GameID:  gameID,
		Used:    make(map[int]struct{}),
		Metrics: NewMetrics(),
	}
}

// Clone returns a deep copy. Callers use it to stage a decision so that a
// failed completion commit leaves the live session untouched for retry.
func (s *Session) Clone() *Session {
	used := make(map[int]struct{}, len(s.Used))
	for id := range s.Used {
		used[id] = struct{}{}
	}
	return &Session{
		GameID:  s.GameID,
		Turn:    s.Turn,
		Used:    used,
		Metrics: s.Metrics,
	}
}
