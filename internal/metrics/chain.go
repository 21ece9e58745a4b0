package metrics

import (
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/sim"
)

// MaxChain is the longest chain seen across every observed round.
type MaxChain struct {
	name string
	max  int
}

func NewMaxChain() *MaxChain {
	return &MaxChain{name: "max_chain"}
}

func (m *MaxChain) Name() string { return m.name }

func (m *MaxChain) Observe(f *sim.Frame, evs []event.Event) {
	if f.Progress.MaxChain > m.max {
		m.max = f.Progress.MaxChain
	}
	for _, e := range evs {
		if ended, ok := e.(event.RoundEnded); ok && ended.MaxChain > m.max {
			m.max = ended.MaxChain
		}
	}
}

func (m *MaxChain) Value() float64 { return float64(m.max) }

func (m *MaxChain) Reset() { m.max = 0 }

// Banked sums the payouts of every round that ended while observed.
type Banked struct {
	name  string
	total int64
}

func NewBanked() *Banked {
	return &Banked{name: "banked"}
}

func (b *Banked) Name() string { return b.name }

func (b *Banked) Observe(_ *sim.Frame, evs []event.Event) {
	for _, e := range evs {
		if ended, ok := e.(event.RoundEnded); ok {
			b.total += ended.Payout
		}
	}
}

func (b *Banked) Value() float64 { return float64(b.total) }

func (b *Banked) Reset() { b.total = 0 }
