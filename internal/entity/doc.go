// Package entity holds the live objects of one round and the store that owns them.
//
// The store keeps three ordered collections:
//
//   - [Neutron]: small projectiles spawned by clicks and by atom destruction
//   - [Atom]: circular targets, fissile (breakable) or non-fissile (gravity wells)
//   - [FloatingText]: cosmetic payout labels, never read by the simulation
//
// Entities have no identity beyond their slot. Removal is done by marking an
// entity Dead and compacting with [Store.Prune] once per tick.
//
// # Atom variants
//
// Special atoms carry a [Variant] payload:
//
//	a := entity.Atom{Fissile: true, Variant: entity.Supernova{Neutrons: 24, SpeedBoost: 1.5}}
//	switch v := a.Variant.(type) {
//	case entity.Supernova:
//	    _ = v.Neutrons
//	}
//
// # Thread Safety
//
// A Store is owned by a single tick loop and is NOT thread-safe.
package entity
