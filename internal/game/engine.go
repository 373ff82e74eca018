package game

import (
	"math/rand"

	"statecraft/internal/catalog"
)

// TotalTurns is the fixed number of decisions in one game.
const TotalTurns = 5

// Engine drives a game session: it draws scenarios without repetition,
// applies decisions with clamping, and detects completion. The random source
// is injected so tests can seed it.
type Engine struct {
	catalog *catalog.Catalog
	rng     *rand.Rand
}

// NewEngine creates an engine over the given catalog and random source.
func NewEngine(c *catalog.Catalog, rng *rand.Rand) *Engine {
	return &Engine{catalog: c, rng: rng}
}

// Draw picks a uniformly random scenario whose id the session has not seen
// and records it as used. If every scenario has been seen, the used set is
// reset and the draw covers the whole catalog again. Draw does not advance
// the turn counter.
func (e *Engine) Draw(s *Session) catalog.Scenario {
	available := e.available(s)
	if len(available) == 0 {
		s.Used = make(map[int]struct{})
		available = e.catalog.All()
	}

	picked := available[e.rng.Intn(len(available))]
	s.Used[picked.ID] = struct{}{}
	return picked
}

func (e *Engine) available(s *Session) []catalog.Scenario {
	var out []catalog.Scenario
	for _, sc := range e.catalog.All() {
		if _, used := s.Used[sc.ID]; !used {
			out = append(out, sc)
		}
	}
	return out
}

// Apply resolves the chosen option, applies its effects to the session
// metrics with clamping, and advances the turn counter. Invalid input fails
// closed: no state changes. The returned metrics are a copy.
func (e *Engine) Apply(s *Session, scenarioID, optionIndex int) (Metrics, error) {
	if e.Complete(s) {
		return Metrics{}, ErrGameOver
	}
	scenario, ok := e.catalog.ByID(scenarioID)
	if !ok {
		return Metrics{}, ErrUnknownScenario
	}
	if optionIndex < 0 || optionIndex >= len(scenario.Options) {
		return Metrics{}, ErrInvalidOption
	}

	s.Metrics = s.Metrics.Apply(scenario.Options[optionIndex].Effects)
	s.Turn++
	return s.Metrics, nil
}

// Complete reports whether the session has played all its turns.
func (e *Engine) Complete(s *Session) bool {
	return s.Turn >= TotalTurns
}
