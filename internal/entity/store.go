package entity

// Store holds the live entities of the current round.
type Store struct {
	Neutrons []Neutron
	Atoms    []Atom
	Texts    []FloatingText
}

func NewStore() *Store {
	return &Store{
		Neutrons: make([]Neutron, 0, 128),
		Atoms:    make([]Atom, 0, 32),
		Texts:    make([]FloatingText, 0, 32),
	}
}

func (s *Store) AddNeutron(n Neutron)   { s.Neutrons = append(s.Neutrons, n) }
func (s *Store) AddAtom(a Atom)         { s.Atoms = append(s.Atoms, a) }
func (s *Store) AddText(t FloatingText) { s.Texts = append(s.Texts, t) }

// LiveAtoms counts atoms not yet marked dead.
func (s *Store) LiveAtoms() int {
	n := 0
	for i := range s.Atoms {
		if !s.Atoms[i].Dead {
			n++
		}
	}
	return n
}

// LiveNeutrons counts neutrons still in flight.
func (s *Store) LiveNeutrons() int {
	n := 0
	for i := range s.Neutrons {
		if !s.Neutrons[i].Dead {
			n++
		}
	}
	return n
}

func (s *Store) FissileCount() int {
	n := 0
	for i := range s.Atoms {
		if !s.Atoms[i].Dead && s.Atoms[i].Fissile {
			n++
		}
	}
	return n
}

// Prune drops every entity marked dead. Order of survivors is preserved.
func (s *Store) Prune() {
	s.Neutrons = Filter(s.Neutrons, func(n *Neutron) bool { return !n.Dead })
	s.Atoms = Filter(s.Atoms, func(a *Atom) bool { return !a.Dead })
}

// PruneTexts ages floating texts by one tick and drops those older than lifetime.
func (s *Store) PruneTexts(lifetime int) {
	for i := range s.Texts {
		s.Texts[i].Age++
	}
	s.Texts = Filter(s.Texts, func(t *FloatingText) bool { return t.Age < lifetime })
}

func (s *Store) Clear() {
	s.Neutrons = s.Neutrons[:0]
	s.Atoms = s.Atoms[:0]
	s.Texts = s.Texts[:0]
}

// Snapshot returns a deep copy safe to hand to readers.
func (s *Store) Snapshot() *Store {
	return &Store{
		Neutrons: append([]Neutron(nil), s.Neutrons...),
		Atoms:    append([]Atom(nil), s.Atoms...),
		Texts:    append([]FloatingText(nil), s.Texts...),
	}
}

// Filter compacts s in place, keeping elements for which keep returns true.
func Filter[T any](s []T, keep func(*T) bool) []T {
	out := s[:0]
	for i := range s {
		if keep(&s[i]) {
			out = append(out, s[i])
		}
	}
	var zero T
	for i := len(out); i < len(s); i++ {
		s[i] = zero
	}
	return out
}
