package control

import (
	"time"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/sim"
)

// Densest clicks the centroid of the largest group of fissile atoms every interval.
type Densest struct {
	cadence
	radius        float64
	width, height float64
}

func NewDensest(interval time.Duration, radius, width, height float64) *Densest {
	return &Densest{
		cadence: cadence{interval: interval},
		radius:  radius,
		width:   width,
		height:  height,
	}
}

func (d *Densest) Decide(f *sim.Frame, elapsed time.Duration) (entity.Vec2, bool) {
	if !d.due(elapsed) {
		return entity.Vec2{}, false
	}
	if p, ok := DensestPoint(f.Atoms, d.radius); ok {
		return p, true
	}
	return entity.Vec2{X: d.width / 2, Y: d.height / 2}, true
}

func (d *Densest) Reset() { d.reset() }

// DensestPoint returns the centroid of the fissile atoms within radius of the
// fissile atom with the most such neighbours. Ties keep the earliest atom.
func DensestPoint(atoms []entity.Atom, radius float64) (entity.Vec2, bool) {
	r2 := radius * radius
	best, bestCount := -1, 0
	for i := range atoms {
		if !atoms[i].Fissile || atoms[i].Dead {
			continue
		}
		count := 0
		for j := range atoms {
			if atoms[j].Fissile && !atoms[j].Dead && atoms[i].Pos.DistSq(atoms[j].Pos) <= r2 {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = i, count
		}
	}
	if best < 0 {
		return entity.Vec2{}, false
	}

	var sum entity.Vec2
	for j := range atoms {
		if atoms[j].Fissile && !atoms[j].Dead && atoms[best].Pos.DistSq(atoms[j].Pos) <= r2 {
			sum = sum.Add(atoms[j].Pos)
		}
	}
	return sum.Scale(1 / float64(bestCount)), true
}
