package spawn

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
)

func newTestSpawner(seed int64) *Spawner {
	cfg := DefaultConfig()
	return New(&cfg, rand.New(rand.NewSource(seed)))
}

func snapshot() economy.Snapshot {
	return economy.Snapshot{Upgrades: economy.DefaultUpgrades()}
}

func TestSelectSpecial(t *testing.T) {
	bands := Bands{
		Time: 5, Supernova: 3, BlackHole: 2,
		TimeUnlocked: true, SupernovaUnlocked: true, BlackHoleUnlocked: true,
	}

	tests := []struct {
		name  string
		draw  float64
		bands Bands
		want  entity.AtomKind
	}{
		{"time", 4, bands, entity.KindTime},
		{"supernova", 7, bands, entity.KindSupernova},
		{"blackhole", 9, bands, entity.KindBlackHole},
		{"none", 15, bands, entity.KindNormal},
		{"band edge", 5, bands, entity.KindSupernova},
		{"mastery widens time", 8, withMastery(bands), entity.KindTime},
		{"mastery blackhole", 19, withMastery(bands), entity.KindBlackHole},
		{"locked time shifts bands", 4, Bands{Time: 5, Supernova: 3, SupernovaUnlocked: true}, entity.KindNormal},
		{"locked time first band supernova", 2, Bands{Time: 5, Supernova: 3, SupernovaUnlocked: true}, entity.KindSupernova},
		{"all locked", 0, Bands{Time: 5, Supernova: 3, BlackHole: 2}, entity.KindNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectSpecial(tt.draw, tt.bands); got != tt.want {
				t.Errorf("SelectSpecial(%v) = %v, want %v", tt.draw, got, tt.want)
			}
		})
	}
}

func withMastery(b Bands) Bands {
	b.Mastery = true
	return b
}

func TestHealthLevel(t *testing.T) {
	tiers := DefaultHealthTiers()
	tests := []struct {
		draw float64
		rank int
		want int
	}{
		{99, 0, 1},
		{74, 1, 1},
		{75, 1, 2},
		{75, 2, 2},
		{95, 3, 3},
		{89.9, 4, 2},
		{96, 5, 4},
		{96, 9, 4},
	}
	for _, tt := range tests {
		if got := HealthLevel(tt.draw, tt.rank, tiers); got != tt.want {
			t.Errorf("HealthLevel(%v, rank %d) = %d, want %d", tt.draw, tt.rank, got, tt.want)
		}
	}
}

func TestScaleHealth(t *testing.T) {
	if ScaleHealth(1, 0.1) != 1 {
		t.Error("scaled health must stay at least 1")
	}
	if got := ScaleHealth(2, 1.5); got != 3 {
		t.Errorf("ScaleHealth(2, 1.5) = %d, want 3", got)
	}
}

func TestDefaultHealthTiersValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg.HealthTiers = []HealthTier{{MinRank: 0, Weights: []float64{50, 40}}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for weights not summing to 100")
	}
}

func TestUpdateFillsMinimumThenWaitsForInterval(t *testing.T) {
	sp := newTestSpawner(1)
	s := entity.NewStore()
	start := time.Unix(0, 0)
	sp.Reset(start)

	got := sp.Update(s, snapshot(), start)
	if len(got) != 3 || s.LiveAtoms() != 3 {
		t.Fatalf("expected population topped up to 3, got %d", s.LiveAtoms())
	}

	if got := sp.Update(s, snapshot(), start.Add(time.Second)); len(got) != 0 {
		t.Errorf("spawned %d atoms before the interval elapsed", len(got))
	}
	if got := sp.Update(s, snapshot(), start.Add(1500*time.Millisecond)); len(got) != 1 {
		t.Errorf("expected one periodic spawn, got %d", len(got))
	}
}

func TestUpdateSpawnRateShortensInterval(t *testing.T) {
	sp := newTestSpawner(1)
	if got := sp.Interval(3); got != 500*time.Millisecond {
		t.Errorf("Interval(3) = %v, want 500ms", got)
	}
}

func TestUpdateRespectsCap(t *testing.T) {
	sp := newTestSpawner(2)
	s := entity.NewStore()
	for range sp.Config().MaxAtoms {
		s.AddAtom(entity.Atom{Radius: 1, Lifetime: 10, Fissile: true})
	}

	if got := sp.Update(s, snapshot(), time.Unix(100, 0)); got != nil {
		t.Errorf("spawned at cap: %d", len(got))
	}
	if got := sp.Populate(s, snapshot(), 5); len(got) != 0 {
		t.Errorf("populated past cap: %d", len(got))
	}
}

func TestSpawnedAtomsAreValid(t *testing.T) {
	sp := newTestSpawner(3)
	snap := snapshot()
	snap.Rank = 6
	snap.Upgrades.TimeAtomUnlocked = true
	snap.Upgrades.SupernovaUnlocked = true
	snap.Upgrades.BlackHoleUnlocked = true
	snap.Upgrades.TimeAtomChance = 20
	snap.Upgrades.SupernovaChance = 20
	snap.Upgrades.BlackHoleChance = 20

	kinds := map[entity.AtomKind]int{}
	wells := 0
	for range 500 {
		a := sp.SpawnAtom(snap)
		if err := a.Validate(); err != nil {
			t.Fatalf("invalid atom %+v: %v", a, err)
		}
		if a.Pos.X < 0 || a.Pos.X > 800 || a.Pos.Y < 0 || a.Pos.Y > 600 {
			t.Fatalf("atom spawned outside playfield: %+v", a.Pos)
		}
		kinds[a.Kind()]++
		if a.Well() {
			wells++
		}
	}
	for _, k := range []entity.AtomKind{entity.KindNormal, entity.KindTime, entity.KindSupernova, entity.KindBlackHole} {
		if kinds[k] == 0 {
			t.Errorf("no %v atoms in 500 spawns", k)
		}
	}
	if wells == 0 {
		t.Error("expected some gravity wells at rank 6")
	}
}

func TestNoWellsBelowRank(t *testing.T) {
	sp := newTestSpawner(4)
	for range 300 {
		if a := sp.SpawnAtom(snapshot()); a.Well() {
			t.Fatal("gravity well spawned at rank 0")
		}
	}
}

func TestAtomScalesWithUpgrades(t *testing.T) {
	sp := newTestSpawner(5)
	snap := snapshot()
	snap.Upgrades.AtomSize = 2
	snap.Upgrades.AtomLifetime = 0.5
	snap.Upgrades.AtomValue = 3
	snap.Upgrades.AtomSpeed = 2

	a := sp.AtomAt(snap, entity.Vec2{X: 100, Y: 100})
	if a.Radius != 36 || a.Lifetime != 450 || a.Value != 30 {
		t.Errorf("unexpected scaled atom %+v", a)
	}
	if math.Abs(a.Vel.Len()-1.2) > 1e-3 {
		t.Errorf("speed = %f, want 1.2", a.Vel.Len())
	}
}

func TestMasteryScalesVariantPayload(t *testing.T) {
	cfg := DefaultConfig()
	u := economy.DefaultUpgrades()
	u.FissionMastery = true

	tw := NewVariant(entity.KindTime, u, &cfg).(entity.TimeWarp)
	if tw.BonusSeconds != 3 {
		t.Errorf("time bonus = %v, want 3", tw.BonusSeconds)
	}
	sn := NewVariant(entity.KindSupernova, u, &cfg).(entity.Supernova)
	if sn.Neutrons != 36 {
		t.Errorf("supernova neutrons = %d, want 36", sn.Neutrons)
	}
	bh := NewVariant(entity.KindBlackHole, u, &cfg).(entity.BlackHole)
	if bh.Respawns != u.BlackHoleRespawns {
		t.Errorf("respawns = %d, want %d", bh.Respawns, u.BlackHoleRespawns)
	}
}

func TestPlayerBurst(t *testing.T) {
	sp := newTestSpawner(6)
	u := economy.DefaultUpgrades()
	u.PierceLevel = 2
	origin := entity.Vec2{X: 400, Y: 300}

	ns := sp.PlayerBurst(origin, u)
	if len(ns) != u.NeutronCountPlayer {
		t.Fatalf("burst size = %d, want %d", len(ns), u.NeutronCountPlayer)
	}
	for i, n := range ns {
		if n.Pos != origin {
			t.Errorf("neutron %d not at origin", i)
		}
		speed := n.Vel.Len()
		if speed < 6*0.8-1e-6 || speed > 6*1.2+1e-6 {
			t.Errorf("neutron %d speed %f outside variance", i, speed)
		}
		if n.Pierce != 2 || n.Size != 3 || n.Lifetime != 180 {
			t.Errorf("neutron %d attributes %+v", i, n)
		}
		want := 2 * math.Pi * float64(i) / float64(len(ns))
		got := math.Atan2(n.Vel.Y, n.Vel.X)
		diff := math.Abs(math.Remainder(got-want, 2*math.Pi))
		if diff > 0.15+1e-3 {
			t.Errorf("neutron %d angle off by %f", i, diff)
		}
	}
}

func TestSupernovaBurstIsFaster(t *testing.T) {
	sp := newTestSpawner(7)
	sp.Config().SpeedVariance = 0
	u := economy.DefaultUpgrades()

	ns := sp.SupernovaBurst(entity.Vec2{}, entity.Supernova{Neutrons: 24, SpeedBoost: 1.5}, u)
	if len(ns) != 24 {
		t.Fatalf("ring size = %d, want 24", len(ns))
	}
	if math.Abs(ns[0].Vel.Len()-9) > 1e-3 {
		t.Errorf("ring speed = %f, want 9", ns[0].Vel.Len())
	}
}

func TestReplacementsStayNearOrigin(t *testing.T) {
	sp := newTestSpawner(8)
	origin := entity.Vec2{X: 400, Y: 300}
	ps := sp.Replacements(origin, 4)
	if len(ps) != 4 {
		t.Fatalf("got %d positions", len(ps))
	}
	for _, p := range ps {
		if d := p.Dist(origin); d < 40-1e-3 || d > 80+1e-3 {
			t.Errorf("replacement at distance %f", d)
		}
	}

	corner := sp.Replacements(entity.Vec2{}, 3)
	for _, p := range corner {
		if p.X < 0 || p.Y < 0 {
			t.Errorf("replacement outside playfield: %+v", p)
		}
	}
	if sp.Replacements(origin, 0) != nil {
		t.Error("expected no positions for n=0")
	}
}
