// Package event holds the domain events a simulation tick emits. Collaborators
// (floating text, sound, persistence) drain them after the tick instead of being
// called from inside collision code.
package event

import "github.com/san-kum/fission/internal/entity"

type Type uint8

const (
	TypeRoundStarted Type = iota
	TypeRoundEnded
	TypeActionTaken
	TypeActionRejected
	TypeAtomSpawned
	TypeAtomDestroyed
	TypeNeutronAbsorbed
	TypeNeutronCaptured
	TypeTimeExtended
	TypeSupernovaBurst
	TypeBlackHoleCollapsed
	TypeRankUp
	TypeChainIdle
	TypeGraceStarted
)

var typeNames = [...]string{
	TypeRoundStarted:       "round_started",
	TypeRoundEnded:         "round_ended",
	TypeActionTaken:        "action_taken",
	TypeActionRejected:     "action_rejected",
	TypeAtomSpawned:        "atom_spawned",
	TypeAtomDestroyed:      "atom_destroyed",
	TypeNeutronAbsorbed:    "neutron_absorbed",
	TypeNeutronCaptured:    "neutron_captured",
	TypeTimeExtended:       "time_extended",
	TypeSupernovaBurst:     "supernova_burst",
	TypeBlackHoleCollapsed: "blackhole_collapsed",
	TypeRankUp:             "rank_up",
	TypeChainIdle:          "chain_idle",
	TypeGraceStarted:       "grace_started",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

type Event interface {
	Type() Type
}

// EndReason says why a round ended.
type EndReason uint8

const (
	EndTimer EndReason = iota
	EndIdle
	EndForced
)

func (r EndReason) String() string {
	switch r {
	case EndTimer:
		return "timer"
	case EndIdle:
		return "idle"
	default:
		return "forced"
	}
}

type RoundStarted struct{}

// RoundEnded carries the settled round. Payout is what was banked by this end.
type RoundEnded struct {
	Reason   EndReason
	Pending  int64
	MaxChain int
	Payout   int64
	Banked   int64
}

type ActionTaken struct{ Pos entity.Vec2 }

type ActionRejected struct{ Pos entity.Vec2 }

type AtomSpawned struct {
	Kind    entity.AtomKind
	Pos     entity.Vec2
	Fissile bool
}

type AtomDestroyed struct {
	Kind   entity.AtomKind
	Pos    entity.Vec2
	Payout int64
	Chain  int
}

type NeutronAbsorbed struct{ Pos entity.Vec2 }

type NeutronCaptured struct{ Pos entity.Vec2 }

type TimeExtended struct{ Seconds float64 }

type SupernovaBurst struct {
	Pos      entity.Vec2
	Neutrons int
}

type BlackHoleCollapsed struct {
	Pos      entity.Vec2
	Respawns int
}

type RankUp struct{ Rank int }

// ChainIdle reports that no collision happened for the idle timeout. The chain is kept.
type ChainIdle struct{ Chain int }

type GraceStarted struct{}

func (RoundStarted) Type() Type       { return TypeRoundStarted }
func (RoundEnded) Type() Type         { return TypeRoundEnded }
func (ActionTaken) Type() Type        { return TypeActionTaken }
func (ActionRejected) Type() Type     { return TypeActionRejected }
func (AtomSpawned) Type() Type        { return TypeAtomSpawned }
func (AtomDestroyed) Type() Type      { return TypeAtomDestroyed }
func (NeutronAbsorbed) Type() Type    { return TypeNeutronAbsorbed }
func (NeutronCaptured) Type() Type    { return TypeNeutronCaptured }
func (TimeExtended) Type() Type       { return TypeTimeExtended }
func (SupernovaBurst) Type() Type     { return TypeSupernovaBurst }
func (BlackHoleCollapsed) Type() Type { return TypeBlackHoleCollapsed }
func (RankUp) Type() Type             { return TypeRankUp }
func (ChainIdle) Type() Type          { return TypeChainIdle }
func (GraceStarted) Type() Type       { return TypeGraceStarted }
