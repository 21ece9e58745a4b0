package sim

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/round"
)

var start = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func ms(n int) time.Time { return start.Add(time.Duration(n) * time.Millisecond) }

// quietConfig spawns nothing on its own so tests control the field.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Spawn.MinAtoms = 0
	cfg.Spawn.InitialAtoms = 0
	cfg.Spawn.BaseInterval = time.Hour
	cfg.Seed = 42
	return cfg
}

func newTestSim(t *testing.T, cfg Config, u economy.Upgrades) (*Simulation, *economy.Ledger) {
	t.Helper()
	ledger := economy.NewLedger(u)
	s, err := New(cfg, ledger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, ledger
}

func target(x, y float64, v entity.Variant) entity.Atom {
	return entity.Atom{
		Pos: entity.Vec2{X: x, Y: y}, Radius: 18,
		Health: 1, MaxHealth: 1, Value: 10, Fissile: true,
		Lifetime: 1000, Variant: v,
	}
}

func bullet(x, y float64) entity.Neutron {
	return entity.Neutron{Pos: entity.Vec2{X: x, Y: y}, Size: 3, Lifetime: 100}
}

func findEvent[T event.Event](evs []event.Event) (T, bool) {
	for _, e := range evs {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Damping = 3

	_, err := New(cfg, economy.NewLedger(economy.DefaultUpgrades()))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrConfig) {
		t.Errorf("expected ErrConfig for nil economy, got %v", err)
	}
}

func TestTickWithoutSnapshotIsNoop(t *testing.T) {
	ledger := economy.NewUninitialized()
	s, err := New(DefaultConfig(), ledger)
	if err != nil {
		t.Fatal(err)
	}

	if !errors.Is(s.Ready(), ErrNotReady) {
		t.Error("expected ErrNotReady")
	}
	if s.StartRound(start) {
		t.Error("round started without a snapshot")
	}
	if evs := s.Tick(ms(16)); evs != nil {
		t.Errorf("expected nil events, got %d", len(evs))
	}
	if s.TickCount() != 0 {
		t.Error("tick counter advanced without a snapshot")
	}
}

func TestStartRoundPopulates(t *testing.T) {
	s, ledger := newTestSim(t, DefaultConfig(), economy.DefaultUpgrades())
	if !s.StartRound(start) {
		t.Fatal("StartRound failed")
	}
	if s.StartRound(ms(10)) {
		t.Error("second StartRound succeeded while live")
	}

	f := s.Frame()
	if len(f.Atoms) != 5 {
		t.Errorf("initial atoms = %d, want 5", len(f.Atoms))
	}
	snap, _ := ledger.Snapshot()
	if snap.RemainingActions != 10 || snap.RemainingTime != 30 {
		t.Errorf("round caps not restored: %+v", snap)
	}
}

func TestRejectedClickSpawnsNothing(t *testing.T) {
	u := economy.DefaultUpgrades()
	u.MaxClicks = 0
	s, _ := newTestSim(t, quietConfig(), u)
	s.StartRound(start)
	s.Tick(ms(16))

	if s.Click(400, 300, ms(20)) {
		t.Error("click accepted with zero budget")
	}
	if n := len(s.Frame().Neutrons); n != 0 {
		t.Errorf("rejected click spawned %d neutrons", n)
	}
	evs := s.Tick(ms(33))
	if _, ok := findEvent[event.ActionRejected](evs); !ok {
		t.Error("expected ActionRejected event")
	}
}

func TestClickWithoutRound(t *testing.T) {
	s, ledger := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	ledger.BeginRound()
	if s.Click(100, 100, start) {
		t.Error("click accepted with no live round")
	}
	if snap, _ := ledger.Snapshot(); snap.RemainingActions != 10 {
		t.Error("action budget spent with no live round")
	}
}

func TestClickBurstsAndRemovesWells(t *testing.T) {
	s, ledger := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)

	well := target(100, 100, nil)
	well.Fissile = false
	s.store.AddAtom(well)

	if !s.Click(105, 100, ms(5)) {
		t.Fatal("click rejected")
	}
	if n := s.store.LiveNeutrons(); n != 8 {
		t.Errorf("burst size = %d, want 8", n)
	}
	snap, _ := ledger.Snapshot()
	if snap.RemainingActions != 9 {
		t.Errorf("remaining actions = %d, want 9", snap.RemainingActions)
	}

	evs := s.Tick(ms(16))
	if len(s.Frame().Atoms) != 0 {
		t.Error("clicked well was not removed")
	}
	if _, ok := findEvent[event.ActionTaken](evs); !ok {
		t.Error("expected ActionTaken event")
	}
}

func TestWellCaptureRefreshesLastCollision(t *testing.T) {
	s, _ := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)

	well := target(400, 300, nil)
	well.Fissile = false
	s.store.AddAtom(well)
	s.store.AddNeutron(bullet(405, 300))

	evs := s.Tick(ms(900))
	if _, ok := findEvent[event.NeutronCaptured](evs); !ok {
		t.Fatal("expected NeutronCaptured event")
	}
	if n := s.store.LiveNeutrons(); n != 0 {
		t.Errorf("live neutrons = %d, want 0", n)
	}
	if got := s.machine.Chain().LastCollision; !got.Equal(ms(900)) {
		t.Errorf("last collision = %v, want %v", got.Sub(start), 900*time.Millisecond)
	}
}

func TestNormalDestructionPaysChain(t *testing.T) {
	s, ledger := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	s.store.AddAtom(target(400, 300, entity.Normal{}))
	s.store.AddNeutron(bullet(400, 300))

	evs := s.Tick(ms(16))

	d, ok := findEvent[event.AtomDestroyed](evs)
	if !ok {
		t.Fatal("no AtomDestroyed event")
	}
	if d.Payout != 11 || d.Chain != 1 {
		t.Errorf("payout=%d chain=%d, want 11 and 1", d.Payout, d.Chain)
	}
	p := s.Progress()
	if p.Pending != 11 || p.Chain != 1 || p.MaxChain != 1 {
		t.Errorf("unexpected progress %+v", p.Progress)
	}
	if n := len(s.Frame().Neutrons); n != 3 {
		t.Errorf("atom burst = %d neutrons, want 3", n)
	}
	if ledger.ChainEvents() != 1 {
		t.Error("economy chain not incremented")
	}
	snap, _ := ledger.Snapshot()
	if snap.Destroyed != 1 || snap.Score != 11 {
		t.Errorf("destruction not recorded: %+v", snap)
	}
}

func TestTimeAtomExtendsRound(t *testing.T) {
	s, ledger := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	s.store.AddAtom(target(400, 300, entity.TimeWarp{BonusSeconds: 2}))
	s.store.AddNeutron(bullet(400, 300))

	evs := s.Tick(ms(16))

	d, _ := findEvent[event.AtomDestroyed](evs)
	if d.Payout != 45 || d.Kind != entity.KindTime {
		t.Errorf("time atom payout = %d kind = %v, want 45 time", d.Payout, d.Kind)
	}
	snap, _ := ledger.Snapshot()
	if math.Abs(snap.RemainingTime-31.984) > 1e-9 {
		t.Errorf("remaining time = %f, want 31.984", snap.RemainingTime)
	}
	if len(s.Frame().Neutrons) != 0 {
		t.Error("time atom released neutrons")
	}
	if s.Progress().Chain != 1 {
		t.Error("special destruction must advance the chain")
	}
}

func TestSupernovaReleasesRing(t *testing.T) {
	s, _ := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	s.store.AddAtom(target(400, 300, entity.Supernova{Neutrons: 24, SpeedBoost: 1.5}))
	s.store.AddNeutron(bullet(400, 300))

	evs := s.Tick(ms(16))

	if _, ok := findEvent[event.SupernovaBurst](evs); !ok {
		t.Error("no SupernovaBurst event")
	}
	if n := len(s.Frame().Neutrons); n != 24 {
		t.Errorf("ring = %d neutrons, want 24", n)
	}
}

func TestBlackHoleSchedulesReplacements(t *testing.T) {
	s, _ := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	s.store.AddAtom(target(400, 300, entity.BlackHole{Respawns: 2}))
	s.store.AddNeutron(bullet(400, 300))

	s.Tick(ms(16))
	if s.PendingSpawns() != 2 {
		t.Fatalf("pending spawns = %d, want 2", s.PendingSpawns())
	}

	evs := s.Tick(ms(170))
	if got := event.Count(evs, event.TypeAtomSpawned); got != 1 {
		t.Errorf("spawned %d at first stagger, want 1", got)
	}
	evs = s.Tick(ms(320))
	if got := event.Count(evs, event.TypeAtomSpawned); got != 1 {
		t.Errorf("spawned %d at second stagger, want 1", got)
	}
	if s.PendingSpawns() != 0 {
		t.Error("deferred spawns left over")
	}
}

func TestDeferredSpawnsHeldDuringGrace(t *testing.T) {
	s, ledger := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	for ledger.TryAction() {
	}

	evs := s.Tick(ms(1600))
	if _, ok := findEvent[event.GraceStarted](evs); !ok {
		t.Fatal("expected grace to start once actions are spent")
	}

	s.scheduleReplacements(entity.Vec2{X: 400, Y: 300}, 1, ms(1600))
	evs = s.Tick(ms(1900))
	if s.Phase() != round.PhaseEnding {
		t.Fatalf("phase = %v, want ending", s.Phase())
	}
	if n := event.Count(evs, event.TypeAtomSpawned); n != 0 {
		t.Errorf("spawned %d atoms during grace, want 0", n)
	}
	if s.PendingSpawns() != 1 {
		t.Errorf("pending spawns = %d, want 1 held", s.PendingSpawns())
	}
}

func TestDeferredSpawnsDroppedByReset(t *testing.T) {
	s, _ := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	s.store.AddAtom(target(400, 300, entity.BlackHole{Respawns: 3}))
	s.store.AddNeutron(bullet(400, 300))
	s.Tick(ms(16))

	s.Reset()
	if s.PendingSpawns() != 0 {
		t.Error("reset kept deferred spawns")
	}

	s.StartRound(ms(20))
	for i := 1; i <= 60; i++ {
		evs := s.Tick(ms(20 + i*16))
		if n := event.Count(evs, event.TypeAtomSpawned); n != 0 {
			t.Fatalf("deferred spawn replayed into new round at tick %d", i)
		}
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s, _ := newTestSim(t, DefaultConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	s.Click(400, 300, ms(5))
	for i := 1; i <= 30; i++ {
		s.Tick(ms(i * 16))
	}

	s.Reset()
	once := s.Frame()
	s.Reset()
	twice := s.Frame()

	if once.Tick != 0 || twice.Tick != 0 {
		t.Error("tick counter not zeroed")
	}
	if len(once.Atoms)+len(once.Neutrons)+len(once.Texts) != 0 {
		t.Error("entities left after reset")
	}
	if once.Progress.Progress != twice.Progress.Progress || once.Progress.Progress != (round.Progress{}) {
		t.Errorf("round state differs: %+v vs %+v", once.Progress.Progress, twice.Progress.Progress)
	}
	if s.Live() {
		t.Error("round still live after reset")
	}
}

func TestTimerEndBanksIntoEconomy(t *testing.T) {
	u := economy.DefaultUpgrades()
	u.RoundSeconds = 1
	s, ledger := newTestSim(t, quietConfig(), u)
	s.StartRound(start)

	s.store.AddAtom(target(400, 300, entity.Normal{}))
	s.store.AddAtom(target(400, 300, entity.Normal{}))
	n := bullet(400, 300)
	n.Pierce = 1
	s.store.AddNeutron(n)

	var ended event.RoundEnded
	var found bool
	for i := 1; i <= 120 && !found; i++ {
		ended, found = findEvent[event.RoundEnded](s.Tick(ms(i * 16)))
	}
	if !found {
		t.Fatal("round did not end on the timer")
	}

	// 11 + 12 pending, max chain 2.
	if ended.Pending != 23 || ended.MaxChain != 2 || ended.Payout != 46 {
		t.Errorf("unexpected settlement %+v", ended)
	}
	if ended.Reason != event.EndTimer {
		t.Errorf("reason = %v, want timer", ended.Reason)
	}
	if ledger.Coins() != 46 {
		t.Errorf("coins = %d, want 46", ledger.Coins())
	}
	if f := s.Frame(); len(f.Atoms)+len(f.Neutrons) != 0 {
		t.Error("store not cleared at round end")
	}
}

func TestEndRoundForced(t *testing.T) {
	s, _ := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	if _, ok := s.EndRound(); ok {
		t.Error("ended a round that was never started")
	}
	s.StartRound(start)
	s.Tick(ms(16))

	evs, ok := s.EndRound()
	ended, found := findEvent[event.RoundEnded](evs)
	if !ok || !found || ended.Reason != event.EndForced {
		t.Errorf("forced end = %+v %v", ended, ok)
	}
	if evs := s.Tick(ms(32)); event.Count(evs, event.TypeRoundEnded) != 0 {
		t.Error("RoundEnded delivered twice")
	}
}

func TestCheckReportsInvalidAtom(t *testing.T) {
	s, _ := newTestSim(t, quietConfig(), economy.DefaultUpgrades())
	s.StartRound(start)
	bad := target(100, 100, entity.Supernova{})
	bad.Fissile = false
	s.store.AddAtom(bad)

	err := s.Check()
	var te *TickError
	if !errors.As(err, &te) || !errors.Is(err, entity.ErrNonFissileSpecial) {
		t.Errorf("expected TickError wrapping ErrNonFissileSpecial, got %v", err)
	}
}

type countingMetric struct{ ticks, destroyed int }

func (c *countingMetric) Name() string { return "counting" }
func (c *countingMetric) Observe(f *Frame, evs []event.Event) {
	c.ticks++
	c.destroyed += event.Count(evs, event.TypeAtomDestroyed)
}
func (c *countingMetric) Value() float64 { return float64(c.destroyed) }
func (c *countingMetric) Reset()         { c.ticks, c.destroyed = 0, 0 }

func TestMetricsObserveEveryLiveTick(t *testing.T) {
	m := &countingMetric{}
	s, err := New(quietConfig(), economy.NewLedger(economy.DefaultUpgrades()), WithMetric(m))
	if err != nil {
		t.Fatal(err)
	}
	s.StartRound(start)
	s.store.AddAtom(target(400, 300, entity.Normal{}))
	s.store.AddNeutron(bullet(400, 300))

	for i := 1; i <= 10; i++ {
		s.Tick(ms(i * 16))
	}
	if m.ticks != 10 || m.Value() != 1 {
		t.Errorf("metric saw %d ticks and %v destructions", m.ticks, m.Value())
	}
}
