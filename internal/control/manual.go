package control

import (
	"sort"
	"time"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/sim"
)

// Click is a scripted action at an offset from round start.
type Click struct {
	At  time.Duration
	Pos entity.Vec2
}

// Manual replays a fixed list of clicks, at most one per tick. Pending clicks can
// also be pushed while a round runs (the live viewer does this for mouse input).
type Manual struct {
	script []Click
	next   int
	queue  []entity.Vec2
}

func NewManual(clicks []Click) *Manual {
	script := append([]Click(nil), clicks...)
	sort.SliceStable(script, func(i, j int) bool { return script[i].At < script[j].At })
	return &Manual{script: script}
}

// Push queues a click for the next Decide call.
func (m *Manual) Push(p entity.Vec2) { m.queue = append(m.queue, p) }

func (m *Manual) Decide(_ *sim.Frame, elapsed time.Duration) (entity.Vec2, bool) {
	if len(m.queue) > 0 {
		p := m.queue[0]
		m.queue = m.queue[1:]
		return p, true
	}
	if m.next < len(m.script) && elapsed >= m.script[m.next].At {
		c := m.script[m.next]
		m.next++
		return c.Pos, true
	}
	return entity.Vec2{}, false
}

func (m *Manual) Reset() {
	m.next = 0
	m.queue = m.queue[:0]
}
