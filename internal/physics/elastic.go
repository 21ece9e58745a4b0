package physics

import "github.com/san-kum/fission/internal/entity"

// ResolveAtomOverlaps separates overlapping atoms by half the penetration each and,
// when they are closing, exchanges the normal velocity component (unit masses) and
// scales both velocities by damping. Pairs at zero distance are skipped.
func ResolveAtomOverlaps(s *entity.Store, damping float64) int {
	bounces := 0
	atoms := s.Atoms
	for i := 0; i < len(atoms); i++ {
		a := &atoms[i]
		if a.Dead {
			continue
		}
		for j := i + 1; j < len(atoms); j++ {
			b := &atoms[j]
			if b.Dead {
				continue
			}
			if bounce(a, b, damping) {
				bounces++
			}
		}
	}
	return bounces
}

func bounce(a, b *entity.Atom, damping float64) bool {
	d := b.Pos.Sub(a.Pos)
	dist := d.Len()
	minDist := a.Radius + b.Radius
	if dist >= minDist || dist == 0 {
		return false
	}

	normal := d.Scale(1 / dist)
	half := (minDist - dist) / 2
	a.Pos = a.Pos.Sub(normal.Scale(half))
	b.Pos = b.Pos.Add(normal.Scale(half))

	closing := a.Vel.Sub(b.Vel).Dot(normal)
	if closing <= 0 {
		return false
	}

	impulse := normal.Scale(closing)
	a.Vel = a.Vel.Sub(impulse).Scale(damping)
	b.Vel = b.Vel.Add(impulse).Scale(damping)
	return true
}
