package search

import (
	"math"

	"github.com/styleme-cloud/stylesearch/internal/domain"
)

// Rank-decay and boost constants for the preference scorer. The score is a
// coarse heuristic: it rewards having expressed a preference dimension, not
// matching it against item attributes. Per-item attribute matching would be
// a compatible extension as long as the decay floor and the [0,1] bound are
// preserved (clients render the score as a percentage).
const (
	scoreFloor    = 0.3
	rankDecayStep = 0.1
	styleBoost    = 0.10
	colorBoost    = 0.10
	budgetBoost   = 0.05
	occasionBoost = 0.05
)

// ScorePreferences computes one bounded match score per product ID, in the
// same order. The base decays by rank with a floor at 0.3; each expressed
// preference dimension adds a fixed boost; the final score is clamped to 1.0
// and rounded to three decimals.
func ScorePreferences(ids []int64, prefs domain.Preferences) []float64 {
	boost := 0.0
	if prefs.HasStyles() {
		boost += styleBoost
	}
	if prefs.HasColors() {
		boost += colorBoost
	}
	if prefs.HasBudget() {
		boost += budgetBoost
	}
	if prefs.HasOccasion() {
		boost += occasionBoost
	}

	scores := make([]float64, len(ids))
	for i := range ids {
		base := math.Max(scoreFloor, 1.0-rankDecayStep*float64(i))
		scores[i] = round3(math.Min(1.0, base+boost))
	}
	return scores
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
