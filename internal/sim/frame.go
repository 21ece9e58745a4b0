package sim

import (
	"slices"

	"github.com/san-kum/fission/internal/entity"
)

// Frame returns a deep copy of the current state.
func (s *Simulation) Frame() Frame {
	var f Frame
	s.FrameInto(&f)
	return f
}

// FrameInto copies the current state into f, reusing its slices.
func (s *Simulation) FrameInto(f *Frame) {
	f.Tick = s.tick
	f.Progress = s.Progress()
	f.Elapsed = f.Progress.Elapsed
	f.Neutrons = append(f.Neutrons[:0], s.store.Neutrons...)
	f.Atoms = append(f.Atoms[:0], s.store.Atoms...)
	f.Texts = append(f.Texts[:0], s.store.Texts...)
}

// view aliases the store without copying.
func (s *Simulation) view() Frame {
	p := s.Progress()
	return Frame{
		Tick:     s.tick,
		Elapsed:  p.Elapsed,
		Neutrons: s.store.Neutrons,
		Atoms:    s.store.Atoms,
		Texts:    s.store.Texts,
		Progress: p,
	}
}

func (s *Simulation) Progress() Progress {
	p := Progress{Progress: s.machine.Progress()}
	if snap, ok := s.eco.Snapshot(); ok {
		p.RemainingTime = snap.RemainingTime
		p.RemainingActions = snap.RemainingActions
		p.Rank = snap.Rank
		p.Coins = snap.Coins
	}
	return p
}

// Clone returns a copy of f that shares no memory with it.
func (f Frame) Clone() Frame {
	f.Neutrons = slices.Clone(f.Neutrons)
	f.Atoms = slices.Clone(f.Atoms)
	f.Texts = slices.Clone(f.Texts)
	return f
}

// FissileAtoms returns the live fissile atoms in f.
func (f *Frame) FissileAtoms() []entity.Atom {
	out := make([]entity.Atom, 0, len(f.Atoms))
	for _, a := range f.Atoms {
		if a.Fissile && !a.Dead {
			out = append(out, a)
		}
	}
	return out
}
