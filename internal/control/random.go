package control

import (
	"math/rand"
	"time"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/sim"
)

// Random clicks a uniform point in the playfield every interval.
type Random struct {
	cadence
	width, height float64
	rng           *rand.Rand
}

func NewRandom(interval time.Duration, width, height float64, rng *rand.Rand) *Random {
	return &Random{
		cadence: cadence{interval: interval},
		width:   width,
		height:  height,
		rng:     rng,
	}
}

func (r *Random) Decide(_ *sim.Frame, elapsed time.Duration) (entity.Vec2, bool) {
	if !r.due(elapsed) {
		return entity.Vec2{}, false
	}
	return entity.Vec2{X: r.rng.Float64() * r.width, Y: r.rng.Float64() * r.height}, true
}

func (r *Random) Reset() { r.reset() }
