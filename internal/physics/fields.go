package physics

import (
	"math"

	"github.com/san-kum/fission/internal/entity"
)

// ApplyHoming turns each neutron toward the nearest fissile atom by turn and
// renormalizes its speed. With speed <= 0 the neutron keeps its current speed.
func ApplyHoming(s *entity.Store, turn, speed float64) {
	if s.FissileCount() == 0 {
		return
	}
	for i := range s.Neutrons {
		n := &s.Neutrons[i]
		if n.Dead {
			continue
		}
		target, ok := nearestFissile(s.Atoms, n.Pos)
		if !ok {
			continue
		}
		mag := speed
		if mag <= 0 {
			mag = n.Vel.Len()
		}
		steer := target.Sub(n.Pos).Normalize().Scale(turn)
		n.Vel = n.Vel.Add(steer).Normalize().Scale(mag)
	}
}

func nearestFissile(atoms []entity.Atom, p entity.Vec2) (entity.Vec2, bool) {
	best := math.Inf(1)
	var at entity.Vec2
	found := false
	for i := range atoms {
		a := &atoms[i]
		if a.Dead || !a.Fissile {
			continue
		}
		if d := a.Pos.DistSq(p); d < best {
			best, at, found = d, a.Pos, true
		}
	}
	return at, found
}

// ApplyWells pulls neutrons toward every gravity well within rng.
func ApplyWells(s *entity.Store, rng, strength float64, falloff Falloff) {
	if rng <= 0 || strength == 0 {
		return
	}
	for wi := range s.Atoms {
		w := &s.Atoms[wi]
		if w.Dead || w.Fissile {
			continue
		}
		for i := range s.Neutrons {
			n := &s.Neutrons[i]
			if n.Dead {
				continue
			}
			d := w.Pos.Sub(n.Pos)
			dist := d.Len()
			if dist == 0 || dist >= rng {
				continue
			}
			mag := WellPull(dist, rng, strength, w.Radius, falloff)
			n.Vel = n.Vel.Add(d.Scale(mag / dist))
		}
	}
}

// WellPull is the attraction magnitude at dist. Linear falloff is strength*(1-dist/rng);
// inverse-square is strength*(radius/dist)^2 capped at strength.
func WellPull(dist, rng, strength, radius float64, falloff Falloff) float64 {
	if dist >= rng {
		return 0
	}
	if falloff == FalloffInverseSquare {
		if dist <= radius {
			return strength
		}
		r := radius / dist
		return strength * r * r
	}
	return strength * (1 - dist/rng)
}

// Capture absorbs neutrons inside a well's capture radius (well.Radius + neutron.Size).
func Capture(s *entity.Store) []entity.Vec2 {
	var captured []entity.Vec2
	for wi := range s.Atoms {
		w := &s.Atoms[wi]
		if w.Dead || w.Fissile {
			continue
		}
		for i := range s.Neutrons {
			n := &s.Neutrons[i]
			if n.Dead {
				continue
			}
			reach := w.Radius + n.Size
			if n.Pos.DistSq(w.Pos) < reach*reach {
				n.Dead = true
				captured = append(captured, n.Pos)
			}
		}
	}
	return captured
}
