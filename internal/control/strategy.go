package control

import (
	"time"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/sim"
)

type Strategy interface {
	Decide(f *sim.Frame, elapsed time.Duration) (entity.Vec2, bool)
	// Reset prepares the strategy for a new round.
	Reset()
}

// cadence fires once per interval, starting at zero.
type cadence struct {
	interval time.Duration
	next     time.Duration
}

func (c *cadence) due(elapsed time.Duration) bool {
	if elapsed < c.next {
		return false
	}
	c.next = elapsed + c.interval
	return true
}

func (c *cadence) reset() { c.next = 0 }
