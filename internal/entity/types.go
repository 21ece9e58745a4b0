package entity

import "errors"

var (
	// ErrNonFissileSpecial indicates a gravity well carrying a special variant.
	ErrNonFissileSpecial = errors.New("entity: special atoms must be fissile")

	// ErrBadRadius indicates a non-positive radius.
	ErrBadRadius = errors.New("entity: radius must be positive")

	// ErrBadHealth indicates health outside [0, maxHealth].
	ErrBadHealth = errors.New("entity: health out of range")
)

type Neutron struct {
	Pos      Vec2    `json:"pos" msgpack:"p"`
	Vel      Vec2    `json:"vel" msgpack:"v"`
	Size     float64 `json:"size" msgpack:"s"`
	Age      int     `json:"age" msgpack:"a"`
	Lifetime int     `json:"lifetime" msgpack:"l"`
	Pierce   int     `json:"pierce" msgpack:"pc"`
	Dead     bool    `json:"-" msgpack:"-"`
}

// Expired reports whether the neutron has reached its lifetime.
func (n *Neutron) Expired() bool { return n.Age >= n.Lifetime }

type AtomKind uint8

const (
	KindNormal AtomKind = iota
	KindTime
	KindSupernova
	KindBlackHole
)

func (k AtomKind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindSupernova:
		return "supernova"
	case KindBlackHole:
		return "blackhole"
	default:
		return "normal"
	}
}

// Variant is the destruction behaviour of an atom. The set is closed:
// Normal, TimeWarp, Supernova and BlackHole.
type Variant interface {
	Kind() AtomKind
	isVariant()
}

type Normal struct{}

// TimeWarp adds BonusSeconds to the round clock when destroyed.
type TimeWarp struct {
	BonusSeconds float64
}

// Supernova releases a large ring of fast neutrons when destroyed.
type Supernova struct {
	Neutrons   int
	SpeedBoost float64
}

// BlackHole schedules Respawns replacement atoms near its position when destroyed.
type BlackHole struct {
	Respawns int
}

func (Normal) Kind() AtomKind    { return KindNormal }
func (TimeWarp) Kind() AtomKind  { return KindTime }
func (Supernova) Kind() AtomKind { return KindSupernova }
func (BlackHole) Kind() AtomKind { return KindBlackHole }

func (Normal) isVariant()    {}
func (TimeWarp) isVariant()  {}
func (Supernova) isVariant() {}
func (BlackHole) isVariant() {}

type Atom struct {
	Pos       Vec2
	Vel       Vec2
	Radius    float64
	Health    int
	MaxHealth int
	Value     int64
	Fissile   bool
	Age       int
	Lifetime  int
	Variant   Variant
	Dead      bool
}

// Kind returns the variant kind; a nil variant counts as normal.
func (a *Atom) Kind() AtomKind {
	if a.Variant == nil {
		return KindNormal
	}
	return a.Variant.Kind()
}

// Special reports whether the atom carries a non-normal variant.
func (a *Atom) Special() bool { return a.Kind() != KindNormal }

// Well reports whether the atom is a non-fissile gravity well.
func (a *Atom) Well() bool { return !a.Fissile }

func (a *Atom) Expired() bool { return a.Age >= a.Lifetime }

func (a *Atom) Validate() error {
	if a.Radius <= 0 {
		return ErrBadRadius
	}
	if a.Health < 0 || a.Health > a.MaxHealth {
		return ErrBadHealth
	}
	if !a.Fissile && a.Special() {
		return ErrNonFissileSpecial
	}
	return nil
}

type FloatingText struct {
	Pos   Vec2   `json:"pos" msgpack:"p"`
	Text  string `json:"text" msgpack:"t"`
	Age   int    `json:"age" msgpack:"a"`
	Color string `json:"color" msgpack:"c"`
}
