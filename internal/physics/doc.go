// Package physics advances neutrons and atoms by one tick.
//
// A step runs in a fixed order:
//
//   - steering fields: homing toward the nearest fissile atom, gravity-well pull
//   - Euler integration: pos += vel, age += 1 (exactly once per tick)
//   - neutron boundary policy: reflect with probability reflector/100, else cull
//   - gravity-well capture
//   - atom-atom elastic separation with damping
//
// Corrections after the Euler step (reflection clamp, overlap separation) move
// entities back into a valid configuration; they never integrate velocity again.
//
// # Tuning
//
// [Config] implements GetParams/SetParam so live viewers can adjust damping,
// well strength and homing turn rate while a round is running:
//
//	cfg := physics.DefaultConfig()
//	cfg.SetParam("damping", 0.9)
//	integ := physics.NewIntegrator(cfg, rng)
package physics
