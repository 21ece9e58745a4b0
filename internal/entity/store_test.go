package entity

import "testing"

func TestStorePrune(t *testing.T) {
	s := NewStore()
	s.AddNeutron(Neutron{Pos: Vec2{1, 1}})
	s.AddNeutron(Neutron{Pos: Vec2{2, 2}, Dead: true})
	s.AddNeutron(Neutron{Pos: Vec2{3, 3}})
	s.AddAtom(Atom{Radius: 10, Dead: true})
	s.AddAtom(Atom{Radius: 12})

	s.Prune()

	if len(s.Neutrons) != 2 {
		t.Fatalf("expected 2 neutrons, got %d", len(s.Neutrons))
	}
	if s.Neutrons[0].Pos.X != 1 || s.Neutrons[1].Pos.X != 3 {
		t.Errorf("prune changed survivor order: %+v", s.Neutrons)
	}
	if len(s.Atoms) != 1 || s.Atoms[0].Radius != 12 {
		t.Errorf("unexpected atoms after prune: %+v", s.Atoms)
	}
}

func TestStorePruneTexts(t *testing.T) {
	s := NewStore()
	s.AddText(FloatingText{Text: "+10", Age: 58})
	s.AddText(FloatingText{Text: "+20", Age: 0})

	s.PruneTexts(60)
	if len(s.Texts) != 2 {
		t.Fatalf("expected both texts alive, got %d", len(s.Texts))
	}

	s.PruneTexts(60)
	if len(s.Texts) != 1 || s.Texts[0].Text != "+20" {
		t.Errorf("expected only +20 to survive, got %+v", s.Texts)
	}
}

func TestStoreSnapshotIsIndependent(t *testing.T) {
	s := NewStore()
	s.AddAtom(Atom{Radius: 10, Health: 2, MaxHealth: 2, Fissile: true})

	snap := s.Snapshot()
	s.Atoms[0].Health = 1

	if snap.Atoms[0].Health != 2 {
		t.Error("snapshot shares memory with the store")
	}
}

func TestStoreCounts(t *testing.T) {
	s := NewStore()
	s.AddAtom(Atom{Radius: 10, Fissile: true})
	s.AddAtom(Atom{Radius: 10, Fissile: false})
	s.AddAtom(Atom{Radius: 10, Fissile: true, Dead: true})
	s.AddNeutron(Neutron{})
	s.AddNeutron(Neutron{Dead: true})

	if got := s.LiveAtoms(); got != 2 {
		t.Errorf("LiveAtoms() = %d, want 2", got)
	}
	if got := s.FissileCount(); got != 1 {
		t.Errorf("FissileCount() = %d, want 1", got)
	}
	if got := s.LiveNeutrons(); got != 1 {
		t.Errorf("LiveNeutrons() = %d, want 1", got)
	}

	s.Clear()
	if len(s.Atoms)+len(s.Neutrons)+len(s.Texts) != 0 {
		t.Error("Clear left entities behind")
	}
}

func TestAtomValidate(t *testing.T) {
	tests := []struct {
		name string
		atom Atom
		want error
	}{
		{"normal fissile", Atom{Radius: 10, Health: 1, MaxHealth: 1, Fissile: true}, nil},
		{"well", Atom{Radius: 10, Health: 1, MaxHealth: 1}, nil},
		{"special well", Atom{Radius: 10, Health: 1, MaxHealth: 1, Variant: TimeWarp{BonusSeconds: 2}}, ErrNonFissileSpecial},
		{"zero radius", Atom{Radius: 0, Health: 1, MaxHealth: 1, Fissile: true}, ErrBadRadius},
		{"overhealed", Atom{Radius: 5, Health: 3, MaxHealth: 2, Fissile: true}, ErrBadHealth},
		{"negative health", Atom{Radius: 5, Health: -1, MaxHealth: 2, Fissile: true}, ErrBadHealth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.atom.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAtomKind(t *testing.T) {
	tests := []struct {
		variant Variant
		kind    AtomKind
		name    string
	}{
		{nil, KindNormal, "normal"},
		{Normal{}, KindNormal, "normal"},
		{TimeWarp{}, KindTime, "time"},
		{Supernova{}, KindSupernova, "supernova"},
		{BlackHole{}, KindBlackHole, "blackhole"},
	}

	for _, tt := range tests {
		a := Atom{Variant: tt.variant}
		if a.Kind() != tt.kind {
			t.Errorf("Kind() = %v, want %v", a.Kind(), tt.kind)
		}
		if a.Kind().String() != tt.name {
			t.Errorf("String() = %q, want %q", a.Kind().String(), tt.name)
		}
	}
}

func TestVec2Normalize(t *testing.T) {
	if (Vec2{}).Normalize() != (Vec2{}) {
		t.Error("zero vector should normalize to zero")
	}
	n := Vec2{3, 4}.Normalize()
	if n.X != 0.6 || n.Y != 0.8 {
		t.Errorf("Normalize() = %+v, want {0.6 0.8}", n)
	}
}
