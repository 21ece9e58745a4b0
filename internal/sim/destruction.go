package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/event"
)

const (
	colorNormal    = "#ffd166"
	colorTime      = "#4cc9f0"
	colorSupernova = "#f72585"
	colorBlackHole = "#9d4edd"
)

// destroy applies the payout and side effect of a destroyed fissile atom.
// Every destruction advances the chain; specials replace the chain payout with
// value*2 plus the flat special bonus.
func (s *Simulation) destroy(a entity.Atom, snap economy.Snapshot, now time.Time) {
	u := snap.Upgrades
	chain := s.machine.Destroyed()
	s.eco.IncrementChain()

	var (
		payout int64
		color  = colorNormal
	)
	switch v := a.Variant.(type) {
	case entity.TimeWarp:
		payout = specialPayout(a, u)
		color = colorTime
		s.eco.UpdateTime(v.BonusSeconds)
		s.events.Publish(event.TimeExtended{Seconds: v.BonusSeconds})
		s.store.AddText(entity.FloatingText{
			Pos:   a.Pos.Add(entity.Vec2{Y: -14}),
			Text:  fmt.Sprintf("+%.1fs", v.BonusSeconds),
			Color: colorTime,
		})

	case entity.Supernova:
		payout = specialPayout(a, u)
		color = colorSupernova
		for _, n := range s.spawner.SupernovaBurst(a.Pos, v, u) {
			s.store.AddNeutron(n)
		}
		s.events.Publish(event.SupernovaBurst{Pos: a.Pos, Neutrons: v.Neutrons})

	case entity.BlackHole:
		payout = specialPayout(a, u)
		color = colorBlackHole
		s.scheduleReplacements(a.Pos, v.Respawns, now)
		s.events.Publish(event.BlackHoleCollapsed{Pos: a.Pos, Respawns: v.Respawns})

	default:
		payout = s.machine.ChainPayout(a.Value, u.ChainMultiplier, u.PrestigeCoinMultiplier)
		for _, n := range s.spawner.AtomBurst(a.Pos, u) {
			s.store.AddNeutron(n)
		}
	}

	s.machine.Credit(payout)
	s.store.AddText(entity.FloatingText{Pos: a.Pos, Text: fmt.Sprintf("+%d", payout), Color: color})
	s.events.Publish(event.AtomDestroyed{Kind: a.Kind(), Pos: a.Pos, Payout: payout, Chain: chain})

	if rank, promoted := s.eco.RecordDestruction(payout); promoted {
		s.events.Publish(event.RankUp{Rank: rank})
		s.log.Info("rank up", "tick", s.tick, "rank", rank)
	}
}

func specialPayout(a entity.Atom, u economy.Upgrades) int64 {
	return a.Value*2 + u.SpecialBonusCoins
}
