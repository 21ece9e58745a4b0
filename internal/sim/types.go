package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/physics"
	"github.com/san-kum/fission/internal/round"
	"github.com/san-kum/fission/internal/spawn"
)

type Metric interface {
	Name() string
	Observe(f *Frame, evs []event.Event)
	Value() float64
	Reset()
}

// Observer sees every tick. The frame aliases live state and is only valid for
// the duration of the call.
type Observer interface {
	OnTick(f *Frame, evs []event.Event)
}

type Config struct {
	Spawn   spawn.Config
	Physics physics.Config
	Round   round.Config
	// TextLifetime is how many ticks a floating text stays up.
	TextLifetime int
	Seed         int64
}

func DefaultConfig() Config {
	return Config{
		Spawn:        spawn.DefaultConfig(),
		Physics:      physics.DefaultConfig(),
		Round:        round.DefaultConfig(),
		TextLifetime: 60,
	}
}

func (c Config) Validate() error {
	if err := c.Spawn.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if err := c.Round.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if c.TextLifetime < 0 {
		return fmt.Errorf("%w: text lifetime must be non-negative", ErrConfig)
	}
	return nil
}

// Progress is the round read view plus the economy counters a display needs.
type Progress struct {
	round.Progress
	RemainingTime    float64
	RemainingActions int
	Rank             int
	Coins            int64
}

// Frame is what a renderer reads after a tick.
type Frame struct {
	Tick     int
	Elapsed  time.Duration
	Neutrons []entity.Neutron
	Atoms    []entity.Atom
	Texts    []entity.FloatingText
	Progress Progress
}
