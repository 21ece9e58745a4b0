package spawn

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
)

// Spawner decides when atoms appear and builds atoms and neutron bursts.
type Spawner struct {
	cfg       *Config
	rng       *rand.Rand
	lastSpawn time.Time
}

func New(cfg *Config, rng *rand.Rand) *Spawner {
	return &Spawner{cfg: cfg, rng: rng}
}

func (sp *Spawner) Config() *Config { return sp.cfg }

// Reset restarts the spawn cadence at now.
func (sp *Spawner) Reset(now time.Time) { sp.lastSpawn = now }

// Interval is the time between periodic spawns for a spawn-rate multiplier.
func (sp *Spawner) Interval(spawnRate float64) time.Duration {
	if spawnRate <= 0 {
		spawnRate = 1
	}
	return time.Duration(float64(sp.cfg.BaseInterval) / spawnRate)
}

// Update tops the population up to MinAtoms, otherwise adds one atom per interval.
// Nothing is spawned at or above MaxAtoms. Spawned atoms are added to s and returned.
func (sp *Spawner) Update(s *entity.Store, snap economy.Snapshot, now time.Time) []entity.Atom {
	live := s.LiveAtoms()
	if live >= sp.cfg.MaxAtoms {
		return nil
	}

	want := 0
	switch {
	case live < sp.cfg.MinAtoms:
		want = sp.cfg.MinAtoms - live
	case now.Sub(sp.lastSpawn) >= sp.Interval(snap.Upgrades.SpawnRate):
		want = 1
	default:
		return nil
	}

	spawned := make([]entity.Atom, 0, want)
	for range want {
		a := sp.SpawnAtom(snap)
		s.AddAtom(a)
		spawned = append(spawned, a)
	}
	sp.lastSpawn = now
	return spawned
}

// Populate adds n atoms, respecting MaxAtoms.
func (sp *Spawner) Populate(s *entity.Store, snap economy.Snapshot, n int) []entity.Atom {
	var spawned []entity.Atom
	for range n {
		if s.LiveAtoms() >= sp.cfg.MaxAtoms {
			break
		}
		a := sp.SpawnAtom(snap)
		s.AddAtom(a)
		spawned = append(spawned, a)
	}
	return spawned
}

// SpawnAtom builds an atom at a random point inside the playfield.
func (sp *Spawner) SpawnAtom(snap economy.Snapshot) entity.Atom {
	r := sp.radius(snap.Upgrades)
	pos := entity.Vec2{
		X: r + sp.rng.Float64()*math.Max(sp.cfg.Width-2*r, 0),
		Y: r + sp.rng.Float64()*math.Max(sp.cfg.Height-2*r, 0),
	}
	return sp.AtomAt(snap, pos)
}

// AtomAt builds an atom at pos with attributes scaled by the snapshot.
func (sp *Spawner) AtomAt(snap economy.Snapshot, pos entity.Vec2) entity.Atom {
	u := snap.Upgrades

	speed := sp.cfg.AtomSpeed * u.AtomSpeed
	level := HealthLevel(sp.rng.Float64()*100, snap.Rank, sp.cfg.HealthTiers)
	health := ScaleHealth(level, u.AtomHealth)

	a := entity.Atom{
		Pos:       pos,
		Vel:       Direction(sp.rng.Float64() * 2 * math.Pi).Scale(speed),
		Radius:    sp.radius(u),
		Health:    health,
		MaxHealth: health,
		Value:     int64(math.Round(float64(sp.cfg.AtomValue) * u.AtomValue)),
		Fissile:   true,
		Lifetime:  int(float64(sp.cfg.AtomLifetime) * u.AtomLifetime),
	}

	kind := SelectSpecial(sp.rng.Float64()*100, BandsFrom(u))
	a.Variant = NewVariant(kind, u, sp.cfg)
	if kind == entity.KindNormal && snap.Rank >= sp.cfg.WellMinRank && sp.rng.Float64() < sp.cfg.WellChance {
		a.Fissile = false
		a.Health, a.MaxHealth = 1, 1
	}
	return a
}

func (sp *Spawner) radius(u economy.Upgrades) float64 {
	r := sp.cfg.AtomRadius * u.AtomSize
	if r <= 0 {
		return sp.cfg.AtomRadius
	}
	return r
}

// Replacements returns n positions spread around origin, clamped to the playfield.
func (sp *Spawner) Replacements(origin entity.Vec2, n int) []entity.Vec2 {
	if n <= 0 {
		return nil
	}
	out := make([]entity.Vec2, 0, n)
	offset := sp.rng.Float64() * 2 * math.Pi
	for i := range n {
		angle := offset + 2*math.Pi*float64(i)/float64(n)
		dist := sp.cfg.RespawnSpread * (0.5 + 0.5*sp.rng.Float64())
		p := origin.Add(Direction(angle).Scale(dist))
		p.X = math.Min(math.Max(p.X, 0), sp.cfg.Width)
		p.Y = math.Min(math.Max(p.Y, 0), sp.cfg.Height)
		out = append(out, p)
	}
	return out
}
