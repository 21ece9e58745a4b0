package metrics

import (
	"time"

	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/sim"
)

// Throughput is destroyed atoms per simulated second of live round time.
type Throughput struct {
	name      string
	tick      time.Duration
	ticks     int
	destroyed int
}

func NewThroughput(tick time.Duration) *Throughput {
	return &Throughput{name: "throughput", tick: tick}
}

func (t *Throughput) Name() string { return t.name }

func (t *Throughput) Observe(_ *sim.Frame, evs []event.Event) {
	t.ticks++
	t.destroyed += event.Count(evs, event.TypeAtomDestroyed)
}

func (t *Throughput) Value() float64 {
	secs := (time.Duration(t.ticks) * t.tick).Seconds()
	if secs == 0 {
		return 0
	}
	return float64(t.destroyed) / secs
}

func (t *Throughput) Reset() {
	t.ticks = 0
	t.destroyed = 0
}

// Standard returns the metrics every headless run records.
func Standard(tick time.Duration) []sim.Metric {
	return []sim.Metric{
		NewMaxChain(),
		NewBanked(),
		NewMeanAtoms(),
		NewPeakNeutrons(),
		NewThroughput(tick),
	}
}
