// Package round owns the round lifecycle and the chain.
//
//	Idle --Start--> Active --actions spent, nothing in flight--> Ending --grace--> Idle
//	                  ^                                             |
//	                  +---------------- activity resumes -----------+
//
// The chain only goes back to zero on Start or Reset. Going a while without a
// collision is reported through Status.ChainIdle and never touches the count.
package round

import (
	"math"
	"time"

	"github.com/san-kum/fission/internal/event"
)

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseEnding
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseEnding:
		return "ending"
	default:
		return "idle"
	}
}

type ChainState struct {
	Current       int
	Max           int
	LastCollision time.Time
}

// Result is one settled round.
type Result struct {
	Reason   event.EndReason
	Pending  int64
	MaxChain int
	Payout   int64
	Banked   int64
}

func (r Result) Event() event.RoundEnded {
	return event.RoundEnded{
		Reason:   r.Reason,
		Pending:  r.Pending,
		MaxChain: r.MaxChain,
		Payout:   r.Payout,
		Banked:   r.Banked,
	}
}

// Status is what one Update observed.
type Status struct {
	Ended        bool
	Result       Result
	GraceStarted bool
	ChainIdle    bool
}

// Progress is the read view for displays.
type Progress struct {
	Phase    Phase
	Active   bool
	Chain    int
	MaxChain int
	Pending  int64
	Banked   int64
	Elapsed  time.Duration
	Rounds   int
}

type Machine struct {
	cfg Config

	phase   Phase
	chain   ChainState
	pending int64
	banked  int64
	rounds  int

	startedAt    time.Time
	lastUpdate   time.Time
	graceSince   time.Time
	idleReported bool
}

func NewMachine(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Start begins a round. It zeroes the chain and the pending currency and
// returns false if a round is already live.
func (m *Machine) Start(now time.Time) bool {
	if m.phase != PhaseIdle {
		return false
	}
	m.phase = PhaseActive
	m.chain = ChainState{LastCollision: now}
	m.pending = 0
	m.startedAt = now
	m.lastUpdate = now
	m.idleReported = false
	m.rounds++
	return true
}

// RecordAction notes a player action. It refreshes the collision window and
// cancels a running grace period.
func (m *Machine) RecordAction(now time.Time) {
	if m.phase == PhaseIdle {
		return
	}
	m.Touch(now)
	if m.phase == PhaseEnding {
		m.phase = PhaseActive
	}
}

// Touch marks a fresh collision timestamp.
func (m *Machine) Touch(now time.Time) {
	m.chain.LastCollision = now
	m.idleReported = false
}

// Destroyed advances the chain by one and returns the new count.
func (m *Machine) Destroyed() int {
	if m.phase == PhaseIdle {
		return m.chain.Current
	}
	m.chain.Current++
	if m.chain.Current > m.chain.Max {
		m.chain.Max = m.chain.Current
	}
	return m.chain.Current
}

// Credit adds to this round's pending currency.
func (m *Machine) Credit(amount int64) {
	if m.phase == PhaseIdle || amount <= 0 {
		return
	}
	m.pending += amount
}

// ChainPayout is floor(value * (1 + chain*bonus*chainMult) * prestige).
func (m *Machine) ChainPayout(value int64, chainMult, prestige float64) int64 {
	return ChainPayout(value, m.chain.Current, m.cfg.ChainBonus, chainMult, prestige)
}

func ChainPayout(value int64, chain int, bonus, chainMult, prestige float64) int64 {
	return int64(math.Floor(float64(value) * (1 + float64(chain)*bonus*chainMult) * prestige))
}

// Update drives the wall-clock rules. remainingTime is in seconds.
func (m *Machine) Update(now time.Time, remainingTime float64, remainingActions, inFlight int) Status {
	var st Status
	if m.phase == PhaseIdle {
		return st
	}
	m.lastUpdate = now

	if remainingTime <= 0 {
		st.Ended = true
		st.Result = m.End(event.EndTimer)
		return st
	}

	if !m.idleReported && now.Sub(m.chain.LastCollision) >= m.cfg.ChainIdleTimeout {
		m.idleReported = true
		st.ChainIdle = true
	}

	if now.Sub(m.startedAt) < m.cfg.StartupGrace {
		return st
	}

	exhausted := remainingActions <= 0 && inFlight == 0
	switch m.phase {
	case PhaseActive:
		if exhausted {
			m.phase = PhaseEnding
			m.graceSince = now
			st.GraceStarted = true
		}
	case PhaseEnding:
		if !exhausted {
			m.phase = PhaseActive
		} else if now.Sub(m.graceSince) >= m.cfg.IdleGrace {
			st.Ended = true
			st.Result = m.End(event.EndIdle)
		}
	}
	return st
}

// End settles the round: pending currency is multiplied by the max chain when
// both are positive, banked, and consumed. Calling End again banks nothing.
func (m *Machine) End(reason event.EndReason) Result {
	payout := m.pending
	if m.chain.Max > 0 && m.pending > 0 {
		payout = m.pending * int64(m.chain.Max)
	}
	res := Result{
		Reason:   reason,
		Pending:  m.pending,
		MaxChain: m.chain.Max,
		Payout:   payout,
	}
	m.banked += payout
	m.pending = 0
	m.phase = PhaseIdle
	res.Banked = m.banked
	return res
}

// Reset returns the machine to its initial state, banked tally included.
func (m *Machine) Reset() {
	*m = Machine{cfg: m.cfg}
}

func (m *Machine) Phase() Phase         { return m.phase }
func (m *Machine) Live() bool           { return m.phase != PhaseIdle }
func (m *Machine) Chain() ChainState    { return m.chain }
func (m *Machine) Pending() int64       { return m.pending }
func (m *Machine) Banked() int64        { return m.banked }
func (m *Machine) Config() Config       { return m.cfg }
func (m *Machine) StartedAt() time.Time { return m.startedAt }

func (m *Machine) Progress() Progress {
	p := Progress{
		Phase:    m.phase,
		Active:   m.phase != PhaseIdle,
		Chain:    m.chain.Current,
		MaxChain: m.chain.Max,
		Pending:  m.pending,
		Banked:   m.banked,
		Rounds:   m.rounds,
	}
	if p.Active {
		p.Elapsed = m.lastUpdate.Sub(m.startedAt)
	}
	return p
}
