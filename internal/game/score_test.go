package game

import (
	"testing"

	"statecraft/internal/catalog"
)

func TestFinalScore(t *testing.T) {
	cases := []struct {
		name    string
		metrics Metrics
		want    int
	}{
		{"all at start", NewMetrics(), 50},
		{"all maxed", Metrics{100, 100, 100, 100, 100}, 100},
		{"all zero", Metrics{}, 0},
		{"mixed floors the mean", Metrics{10, 20, 30, 40, 50}, 30},
		{"non-divisible sum", Metrics{33, 33, 33, 33, 33}, 33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FinalScore(tc.metrics); got != tc.want {
				t.Errorf("FinalScore(%+v) = %d, want %d", tc.metrics, got, tc.want)
			}
		})
	}
}

func TestNextProgression(t *testing.T) {
	p := NextProgression(950, 40, 60)
	if p.Experience != 1010 {
		t.Errorf("Experience = %d, want 1010", p.Experience)
	}
	if p.BestScore != 60 {
		t.Errorf("BestScore = %d, want 60", p.BestScore)
	}
	if p.Level != 2 {
		t.Errorf("Level = %d, want 2", p.Level)
	}
}

func TestNextProgressionKeepsPriorBest(t *testing.T) {
	p := NextProgression(100, 80, 30)
	if p.BestScore != 80 {
		t.Errorf("BestScore = %d, want prior best 80", p.BestScore)
	}
	if p.Experience != 130 {
		t.Errorf("Experience = %d, want 130", p.Experience)
	}
	if p.Level != 1 {
		t.Errorf("Level = %d, want 1", p.Level)
	}
}

func TestApplyClampsEveryMetric(t *testing.T) {
	m := Metrics{Economy: 5, Social: 95, Environment: 50, Popularity: 0, Budget: 100}
	got := m.Apply(catalog.Effects{Economy: -35, Social: 25, Popularity: -1, Budget: 1})

	want := Metrics{Economy: 0, Social: 100, Environment: 50, Popularity: 0, Budget: 100}
	if got != want {
		t.Errorf("Apply = %+v, want %+v", got, want)
	}
}
