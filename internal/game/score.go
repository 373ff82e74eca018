package game

// experiencePerLevel is how much cumulative experience one level costs.
const experiencePerLevel = 1000

// FinalScore derives the game score from final metrics: the floor of the
// mean of the five values, so it is always within [0,100].
func FinalScore(m Metrics) int {
	return m.Sum() / metricCount
}

// Progression is the account-level result of finishing one game. The
// games-played counter increments by one alongside it.
type Progression struct {
	Experience int
	BestScore  int
	Level      int
}

// NextProgression folds a final score into a player's prior progression.
func NextProgression(priorExperience, priorBestScore, score int) Progression {
	exp := priorExperience + score
	best := priorBestScore
	if score > best {
		best = score
	}
	return Progression{
		Experience: exp,
		BestScore:  best,
		Level:      exp/experiencePerLevel + 1,
	}
}
