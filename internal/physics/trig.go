package physics

import (
	"math"

	"github.com/san-kum/fission/internal/entity"
)

// TrigTable holds precomputed sin/cos values with linear interpolation between entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// 4096 entries, ~0.0015 rad resolution. Plenty for burst directions.
var defaultTrig = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := range n {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}
	return t
}

func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// Direction returns the approximate unit vector at angle (radians).
func Direction(angle float64) entity.Vec2 {
	s, c := defaultTrig.SinCos(angle)
	return entity.Vec2{X: c, Y: s}
}
