package spawn

import (
	"fmt"
	"math"
)

// HealthTier is the health distribution available from MinRank upward.
// Weights[i] is the percentage chance of health level i+1.
type HealthTier struct {
	MinRank int       `yaml:"min_rank"`
	Weights []float64 `yaml:"weights"`
}

func DefaultHealthTiers() []HealthTier {
	return []HealthTier{
		{MinRank: 0, Weights: []float64{100}},
		{MinRank: 1, Weights: []float64{75, 25}},
		{MinRank: 3, Weights: []float64{60, 30, 10}},
		{MinRank: 5, Weights: []float64{50, 30, 15, 5}},
	}
}

func (t HealthTier) validate() error {
	if len(t.Weights) == 0 {
		return fmt.Errorf("spawn: health tier for rank %d has no weights", t.MinRank)
	}
	var sum float64
	for _, w := range t.Weights {
		if w < 0 {
			return fmt.Errorf("spawn: negative health weight in tier %d", t.MinRank)
		}
		sum += w
	}
	if math.Abs(sum-100) > 1e-6 {
		return fmt.Errorf("spawn: health tier %d weights sum to %g, want 100", t.MinRank, sum)
	}
	return nil
}

// HealthLevel picks a health level for draw in [0,100) from the highest tier the
// rank has unlocked. Levels start at 1.
func HealthLevel(draw float64, rank int, tiers []HealthTier) int {
	var tier *HealthTier
	for i := range tiers {
		if tiers[i].MinRank <= rank && (tier == nil || tiers[i].MinRank > tier.MinRank) {
			tier = &tiers[i]
		}
	}
	if tier == nil {
		return 1
	}

	var cum float64
	for i, w := range tier.Weights {
		cum += w
		if draw < cum {
			return i + 1
		}
	}
	return len(tier.Weights)
}

// ScaleHealth applies the health multiplier to a drawn level, never going below 1.
func ScaleHealth(level int, mult float64) int {
	h := int(math.Round(float64(level) * mult))
	if h < 1 {
		return 1
	}
	return h
}
