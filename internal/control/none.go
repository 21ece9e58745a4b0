package control

import (
	"time"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/sim"
)

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Decide(*sim.Frame, time.Duration) (entity.Vec2, bool) {
	return entity.Vec2{}, false
}

func (n *None) Reset() {}
