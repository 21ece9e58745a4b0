package physics

import (
	"math/rand"

	"github.com/san-kum/fission/internal/entity"
)

// Report lists what happened during one integration step.
type Report struct {
	Captured  []entity.Vec2
	Reflected int
	Bounces   int
}

type Integrator struct {
	cfg *Config
	rng *rand.Rand
}

func NewIntegrator(cfg *Config, rng *rand.Rand) *Integrator {
	return &Integrator{cfg: cfg, rng: rng}
}

func (in *Integrator) Config() *Config { return in.cfg }

// Step advances every live entity by one tick.
func (in *Integrator) Step(s *entity.Store, tune Tuning) Report {
	var rep Report

	if tune.HomingLevel > 0 {
		ApplyHoming(s, in.cfg.HomingTurnRate*float64(tune.HomingLevel), tune.NeutronSpeed)
	}
	ApplyWells(s, in.cfg.WellRange, in.cfg.WellStrength, in.cfg.WellFalloff)

	Euler(s)

	rep.Reflected = in.applyBoundary(s, tune.ReflectorLevel)
	rep.Captured = Capture(s)
	rep.Bounces = ResolveAtomOverlaps(s, in.cfg.Damping)

	return rep
}

// Euler moves every live entity by its velocity and ages it by one tick.
func Euler(s *entity.Store) {
	for i := range s.Neutrons {
		n := &s.Neutrons[i]
		if n.Dead {
			continue
		}
		n.Pos = n.Pos.Add(n.Vel)
		n.Age++
	}
	for i := range s.Atoms {
		a := &s.Atoms[i]
		if a.Dead {
			continue
		}
		a.Pos = a.Pos.Add(a.Vel)
		a.Age++
	}
}

func (in *Integrator) applyBoundary(s *entity.Store, reflectorLevel int) int {
	if reflectorLevel <= 0 {
		return 0
	}
	chance := float64(reflectorLevel) / 100
	w, h := in.cfg.Width, in.cfg.Height

	reflected := 0
	for i := range s.Neutrons {
		n := &s.Neutrons[i]
		if n.Dead {
			continue
		}
		if n.Pos.X < 0 || n.Pos.X > w {
			if in.rng.Float64() < chance {
				n.Vel.X = -n.Vel.X
				n.Pos.X = clamp(n.Pos.X, 0, w)
				reflected++
			}
		}
		if n.Pos.Y < 0 || n.Pos.Y > h {
			if in.rng.Float64() < chance {
				n.Vel.Y = -n.Vel.Y
				n.Pos.Y = clamp(n.Pos.Y, 0, h)
				reflected++
			}
		}
	}
	return reflected
}

// Prune marks out-of-bounds or expired entities dead and compacts the store.
// Atoms get a margin of twice their radius before they count as gone.
func (in *Integrator) Prune(s *entity.Store) {
	w, h := in.cfg.Width, in.cfg.Height
	for i := range s.Neutrons {
		n := &s.Neutrons[i]
		if n.Expired() || outside(n.Pos, w, h, 0) {
			n.Dead = true
		}
	}
	for i := range s.Atoms {
		a := &s.Atoms[i]
		if a.Expired() || outside(a.Pos, w, h, 2*a.Radius) {
			a.Dead = true
		}
	}
	s.Prune()
}

func outside(p entity.Vec2, w, h, margin float64) bool {
	return p.X < -margin || p.X > w+margin || p.Y < -margin || p.Y > h+margin
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
