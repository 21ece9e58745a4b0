package sim

import (
	"time"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/round"
)

// deferredSpawn is an atom scheduled to appear at a later tick. gen ties it to the
// round it was scheduled in.
type deferredSpawn struct {
	at  time.Time
	pos entity.Vec2
	gen uint64
}

func (s *Simulation) scheduleReplacements(origin entity.Vec2, n int, now time.Time) {
	stagger := s.cfg.Spawn.RespawnStagger
	for i, p := range s.spawner.Replacements(origin, n) {
		s.deferred = append(s.deferred, deferredSpawn{
			at:  now.Add(time.Duration(i+1) * stagger),
			pos: p,
			gen: s.generation,
		})
	}
}

// runDeferred spawns every due entry of the current generation. Entries from an
// older generation are dropped. Population caps still apply. Outside the active
// phase due entries are held until the round becomes active again.
func (s *Simulation) runDeferred(snap economy.Snapshot, now time.Time) {
	if len(s.deferred) == 0 {
		return
	}

	kept := s.deferred[:0]
	stale := 0
	for _, d := range s.deferred {
		switch {
		case d.gen != s.generation:
			stale++
		case now.Before(d.at), s.machine.Phase() != round.PhaseActive:
			kept = append(kept, d)
		case s.store.LiveAtoms() < s.cfg.Spawn.MaxAtoms:
			a := s.spawner.AtomAt(snap, d.pos)
			s.store.AddAtom(a)
			s.publishSpawned([]entity.Atom{a})
		}
	}
	clear(s.deferred[len(kept):])
	s.deferred = kept

	if stale > 0 {
		s.log.Debug("dropped stale deferred spawns", "tick", s.tick, "count", stale)
	}
}

// dropDeferred invalidates every scheduled spawn.
func (s *Simulation) dropDeferred() {
	s.generation++
	s.deferred = s.deferred[:0]
}

// PendingSpawns counts scheduled spawns that can still fire.
func (s *Simulation) PendingSpawns() int {
	n := 0
	for _, d := range s.deferred {
		if d.gen == s.generation {
			n++
		}
	}
	return n
}
