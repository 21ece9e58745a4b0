package metrics

import (
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/sim"
)

type MeanAtoms struct {
	name    string
	total   float64
	samples int
}

func NewMeanAtoms() *MeanAtoms {
	return &MeanAtoms{name: "mean_atoms"}
}

func (m *MeanAtoms) Name() string { return m.name }

func (m *MeanAtoms) Observe(f *sim.Frame, _ []event.Event) {
	live := 0
	for i := range f.Atoms {
		if !f.Atoms[i].Dead {
			live++
		}
	}
	m.total += float64(live)
	m.samples++
}

func (m *MeanAtoms) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanAtoms) Reset() {
	m.total = 0
	m.samples = 0
}

type PeakNeutrons struct {
	name string
	peak int
}

func NewPeakNeutrons() *PeakNeutrons {
	return &PeakNeutrons{name: "peak_neutrons"}
}

func (p *PeakNeutrons) Name() string { return p.name }

func (p *PeakNeutrons) Observe(f *sim.Frame, _ []event.Event) {
	live := 0
	for i := range f.Neutrons {
		if !f.Neutrons[i].Dead {
			live++
		}
	}
	if live > p.peak {
		p.peak = live
	}
}

func (p *PeakNeutrons) Value() float64 { return float64(p.peak) }

func (p *PeakNeutrons) Reset() { p.peak = 0 }
