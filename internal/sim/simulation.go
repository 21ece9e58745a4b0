// Package sim runs one round of the chain-reaction simulation.
//
// A Simulation owns the entity store, the spawner, the integrator, the collision
// resolver and the round machine. Every call takes the current time from the
// caller; nothing in here reads the wall clock. Tick runs the phases in a fixed
// order and returns the domain events the tick produced:
//
//	deferred spawns, spawner
//	integrate (homing, wells, Euler, boundary, capture, atom bounces)
//	prune
//	collisions
//	destructions
//	round timers
//	prune, floating texts
//	observers, metrics
//
// A Simulation is not safe for concurrent use. Run one per goroutine.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/san-kum/fission/internal/collision"
	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/physics"
	"github.com/san-kum/fission/internal/round"
	"github.com/san-kum/fission/internal/spawn"
)

type Simulation struct {
	cfg Config
	eco economy.Economy
	log *slog.Logger
	rng *rand.Rand

	store    *entity.Store
	spawner  *spawn.Spawner
	integ    *physics.Integrator
	resolver *collision.Resolver
	machine  *round.Machine
	events   *event.Queue

	deferred   []deferredSpawn
	generation uint64

	tick    int
	lastNow time.Time

	metrics   []Metric
	observers []Observer
}

func New(cfg Config, eco economy.Economy, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if eco == nil {
		return nil, fmt.Errorf("%w: nil economy", ErrConfig)
	}

	s := &Simulation{
		cfg:      cfg,
		eco:      eco,
		log:      slog.New(slog.DiscardHandler),
		store:    entity.NewStore(),
		resolver: collision.NewResolver(),
		machine:  round.NewMachine(cfg.Round),
		events:   event.NewQueue(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	s.spawner = spawn.New(&s.cfg.Spawn, s.rng)
	s.integ = physics.NewIntegrator(&s.cfg.Physics, s.rng)
	return s, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulation) Config() Config { return s.cfg }

// Physics exposes the live-tunable physics parameters.
func (s *Simulation) Physics() *physics.Config { return &s.cfg.Physics }

// Ready returns ErrNotReady until the economy can produce a snapshot.
func (s *Simulation) Ready() error {
	if _, ok := s.eco.Snapshot(); !ok {
		return ErrNotReady
	}
	return nil
}

// StartRound clears the field and begins a round at now. It returns false if the
// economy is not ready or a round is already live.
func (s *Simulation) StartRound(now time.Time) bool {
	if _, ok := s.eco.Snapshot(); !ok {
		return false
	}
	if !s.machine.Start(now) {
		return false
	}

	s.store.Clear()
	s.dropDeferred()
	s.eco.BeginRound()
	s.spawner.Reset(now)
	s.lastNow = now

	snap, _ := s.eco.Snapshot()
	s.publishSpawned(s.spawner.Populate(s.store, snap, s.cfg.Spawn.InitialAtoms))
	s.events.Publish(event.RoundStarted{})

	s.log.Info("round started",
		"round", s.machine.Progress().Rounds,
		"atoms", s.store.LiveAtoms(),
		"time", snap.RemainingTime,
		"actions", snap.RemainingActions)
	return true
}

// Reset drops every entity, timer, pending spawn and event and returns the round
// machine to its initial state.
func (s *Simulation) Reset() {
	s.store.Clear()
	s.dropDeferred()
	s.events.Reset()
	s.machine.Reset()
	s.tick = 0
	s.lastNow = time.Time{}
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Click attempts a player action at (x, y). It does nothing and returns false
// when no round is live or the economy refuses the action.
func (s *Simulation) Click(x, y float64, now time.Time) bool {
	if !s.machine.Live() {
		return false
	}
	snap, ok := s.eco.Snapshot()
	if !ok {
		return false
	}

	pos := entity.Vec2{X: x, Y: y}
	if !s.eco.TryAction() {
		s.events.Publish(event.ActionRejected{Pos: pos})
		return false
	}

	removed := s.removeWellsAt(pos)
	for _, n := range s.spawner.PlayerBurst(pos, snap.Upgrades) {
		s.store.AddNeutron(n)
	}
	s.machine.RecordAction(now)
	s.events.Publish(event.ActionTaken{Pos: pos})

	s.log.Debug("action", "tick", s.tick, "x", x, "y", y, "wells_removed", removed)
	return true
}

func (s *Simulation) removeWellsAt(p entity.Vec2) int {
	removed := 0
	for i := range s.store.Atoms {
		a := &s.store.Atoms[i]
		if a.Dead || a.Fissile {
			continue
		}
		if a.Pos.DistSq(p) <= a.Radius*a.Radius {
			a.Dead = true
			removed++
		}
	}
	return removed
}

// Tick advances the simulation to now and returns the events it produced. Without
// an economy snapshot the tick does nothing and returns nil.
func (s *Simulation) Tick(now time.Time) []event.Event {
	if _, ok := s.eco.Snapshot(); !ok {
		return nil
	}
	if !s.machine.Live() {
		s.lastNow = now
		return s.events.Drain()
	}

	s.tick++
	if !s.lastNow.IsZero() {
		if dt := now.Sub(s.lastNow); dt > 0 {
			s.eco.UpdateTime(-dt.Seconds())
		}
	}
	s.lastNow = now

	snap, _ := s.eco.Snapshot()

	s.runDeferred(snap, now)
	if s.machine.Phase() == round.PhaseActive {
		s.publishSpawned(s.spawner.Update(s.store, snap, now))
	}

	rep := s.integ.Step(s.store, s.tuning(snap.Upgrades))
	if len(rep.Captured) > 0 {
		// A well swallowing a neutron is a hit on a non-fissile atom.
		s.machine.Touch(now)
	}
	for _, p := range rep.Captured {
		s.events.Publish(event.NeutronCaptured{Pos: p})
	}
	s.integ.Prune(s.store)

	res := s.resolver.Resolve(s.store)
	if res.Collided {
		s.machine.Touch(now)
	}
	for _, p := range res.Absorbed {
		s.events.Publish(event.NeutronAbsorbed{Pos: p})
	}
	for _, a := range res.Destroyed {
		s.destroy(a, snap, now)
	}

	snap, _ = s.eco.Snapshot()
	st := s.machine.Update(now, snap.RemainingTime, snap.RemainingActions, s.store.LiveNeutrons())
	if st.ChainIdle {
		s.events.Publish(event.ChainIdle{Chain: s.machine.Chain().Current})
	}
	if st.GraceStarted {
		s.events.Publish(event.GraceStarted{})
	}
	if st.Ended {
		s.finishRound(st.Result)
	}

	s.store.Prune()
	s.store.PruneTexts(s.cfg.TextLifetime)

	return s.emit()
}

// emit drains the queue and shows the events to metrics and observers.
func (s *Simulation) emit() []event.Event {
	evs := s.events.Drain()
	if len(s.observers) > 0 || len(s.metrics) > 0 {
		f := s.view()
		for _, m := range s.metrics {
			m.Observe(&f, evs)
		}
		for _, o := range s.observers {
			o.OnTick(&f, evs)
		}
	}
	return evs
}

// EndRound settles a live round immediately and returns the events that produced,
// RoundEnded included.
func (s *Simulation) EndRound() ([]event.Event, bool) {
	if !s.machine.Live() {
		return nil, false
	}
	s.finishRound(s.machine.End(event.EndForced))
	return s.emit(), true
}

func (s *Simulation) finishRound(res round.Result) {
	s.eco.AwardCoins(res.Payout)
	s.store.Clear()
	s.dropDeferred()
	s.events.Publish(res.Event())

	s.log.Info("round ended",
		"tick", s.tick,
		"reason", res.Reason.String(),
		"pending", res.Pending,
		"chain", res.MaxChain,
		"payout", res.Payout,
		"banked", res.Banked)
}

func (s *Simulation) tuning(u economy.Upgrades) physics.Tuning {
	return physics.Tuning{
		HomingLevel:    u.HomingLevel,
		ReflectorLevel: u.ReflectorLevel,
		NeutronSpeed:   s.spawner.NeutronSpeed(u),
	}
}

func (s *Simulation) publishSpawned(atoms []entity.Atom) {
	for i := range atoms {
		a := &atoms[i]
		s.events.Publish(event.AtomSpawned{Kind: a.Kind(), Pos: a.Pos, Fissile: a.Fissile})
	}
}

// Check validates every live atom and reports the first violation.
func (s *Simulation) Check() error {
	for i := range s.store.Atoms {
		if err := s.store.Atoms[i].Validate(); err != nil {
			return &TickError{Tick: s.tick, Phase: "store", Wrapped: err}
		}
	}
	return nil
}

func (s *Simulation) TickCount() int     { return s.tick }
func (s *Simulation) Live() bool         { return s.machine.Live() }
func (s *Simulation) Phase() round.Phase { return s.machine.Phase() }
