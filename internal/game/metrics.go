package game

import "statecraft/internal/catalog"

const (
	// MetricMin and MetricMax bound every metric value; mutations clamp
	// into this range rather than rejecting input.
	MetricMin = 0
	MetricMax = 100

	// StartingValue is the initial value of every metric in a new game.
	StartingValue = 50

	metricCount = 5
)

// Metrics tracks the five national indicators. Every value stays within
// [MetricMin, MetricMax].
type Metrics struct {
	Economy     int `json:"economy"`
	Social      int `json:"social"`
	Environment int `json:"environment"`
	Popularity  int `json:"popularity"`
	Budget      int `json:"budget"`
}

// NewMetrics returns metrics with every indicator at the starting value.
func NewMetrics() Metrics {
	return Metrics{
		Economy:     StartingValue,
		Social:      StartingValue,
		Environment: StartingValue,
		Popularity:  StartingValue,
		Budget:      StartingValue,
	}
}

// Apply returns a copy of m with the option's deltas applied, each result
// clamped into range. Metrics with a zero delta are untouched.
func (m Metrics) Apply(e catalog.Effects) Metrics {
	m.Economy = clamp(m.Economy + e.Economy)
	m.Social = clamp(m.Social + e.Social)
	m.Environment = clamp(m.Environment + e.Environment)
	m.Popularity = clamp(m.Popularity + e.Popularity)
	m.Budget = clamp(m.Budget + e.Budget)
	return m
}

// Sum returns the total of the five metric values.
func (m Metrics) Sum() int {
	return m.Economy + m.Social + m.Environment + m.Popularity + m.Budget
}

func clamp(v int) int {
	if v < MetricMin {
		return MetricMin
	}
	if v > MetricMax {
		return MetricMax
	}
	return v
}
