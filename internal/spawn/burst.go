package spawn

import (
	"math"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/physics"
)

// Direction is the unit vector at angle.
func Direction(angle float64) entity.Vec2 { return physics.Direction(angle) }

// NeutronSpeed is the base neutron speed after upgrades.
func (sp *Spawner) NeutronSpeed(u economy.Upgrades) float64 {
	return sp.cfg.NeutronSpeed * u.NeutronSpeed
}

// Burst emits count neutrons from origin at evenly spaced angles with jitter and
// per-neutron speed variance.
func (sp *Spawner) Burst(origin entity.Vec2, count int, speed float64, u economy.Upgrades) []entity.Neutron {
	if count <= 0 {
		return nil
	}
	size := sp.cfg.NeutronSize * u.NeutronSize
	life := int(float64(sp.cfg.NeutronLifetime) * u.NeutronLifetime)

	out := make([]entity.Neutron, 0, count)
	step := 2 * math.Pi / float64(count)
	for i := range count {
		angle := float64(i)*step + (sp.rng.Float64()*2-1)*sp.cfg.Jitter
		v := speed * (1 + (sp.rng.Float64()*2-1)*sp.cfg.SpeedVariance)
		out = append(out, entity.Neutron{
			Pos:      origin,
			Vel:      Direction(angle).Scale(v),
			Size:     size,
			Lifetime: life,
			Pierce:   u.PierceLevel,
		})
	}
	return out
}

// PlayerBurst is the burst released by a click.
func (sp *Spawner) PlayerBurst(origin entity.Vec2, u economy.Upgrades) []entity.Neutron {
	return sp.Burst(origin, u.NeutronCountPlayer, sp.NeutronSpeed(u), u)
}

// AtomBurst is the burst released by a destroyed normal atom.
func (sp *Spawner) AtomBurst(origin entity.Vec2, u economy.Upgrades) []entity.Neutron {
	return sp.Burst(origin, u.NeutronCountAtom, sp.NeutronSpeed(u), u)
}

// SupernovaBurst is the speed-boosted ring released by a supernova.
func (sp *Spawner) SupernovaBurst(origin entity.Vec2, v entity.Supernova, u economy.Upgrades) []entity.Neutron {
	boost := v.SpeedBoost
	if boost <= 0 {
		boost = 1
	}
	return sp.Burst(origin, v.Neutrons, sp.NeutronSpeed(u)*boost, u)
}
