// Package collision resolves neutron-atom contacts for one tick.
//
// A neutron hits an atom when its centre is strictly inside the atom's circle.
// Gravity wells absorb the neutron without taking damage. Fissile atoms lose one
// health per hit; the neutron then falls through to further atoms only while it
// has pierce left.
package collision

import "github.com/san-kum/fission/internal/entity"

// Result is what one Resolve pass did.
type Result struct {
	// Destroyed holds copies of atoms whose health reached zero, in hit order.
	Destroyed []entity.Atom
	// Absorbed holds the positions of neutrons swallowed by gravity wells.
	Absorbed []entity.Vec2
	Hits     int
	// Collided reports whether any neutron touched any atom.
	Collided bool
}

type Resolver struct {
	destroyed []entity.Atom
	absorbed  []entity.Vec2
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve tests every live neutron against the live atoms in store order.
// Destroyed atoms are marked dead in place. The returned slices are reused by the
// next call.
func (r *Resolver) Resolve(s *entity.Store) Result {
	r.destroyed = r.destroyed[:0]
	r.absorbed = r.absorbed[:0]
	res := Result{}

	for i := range s.Neutrons {
		n := &s.Neutrons[i]
		if n.Dead {
			continue
		}
		for j := range s.Atoms {
			a := &s.Atoms[j]
			if a.Dead || (a.Fissile && a.Health <= 0) {
				continue
			}
			if n.Pos.DistSq(a.Pos) >= a.Radius*a.Radius {
				continue
			}

			res.Collided = true
			res.Hits++

			if !a.Fissile {
				n.Dead = true
				r.absorbed = append(r.absorbed, n.Pos)
				break
			}

			a.Health--
			if a.Health <= 0 {
				a.Health = 0
				a.Dead = true
				r.destroyed = append(r.destroyed, *a)
			}

			if n.Pierce > 0 {
				n.Pierce--
				continue
			}
			n.Dead = true
			break
		}
	}

	res.Destroyed = r.destroyed
	res.Absorbed = r.absorbed
	return res
}
