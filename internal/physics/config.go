package physics

import "fmt"

const (
	DefaultWidth          = 800.0
	DefaultHeight         = 600.0
	DefaultHomingTurnRate = 0.08
	DefaultWellRange      = 200.0
	DefaultWellStrength   = 0.35
	DefaultDamping        = 0.95
)

type Falloff string

const (
	FalloffLinear        Falloff = "linear"
	FalloffInverseSquare Falloff = "inverse_square"
)

type Config struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	HomingTurnRate float64 `yaml:"homing_turn_rate"`
	WellRange      float64 `yaml:"well_range"`
	WellStrength   float64 `yaml:"well_strength"`
	WellFalloff    Falloff `yaml:"well_falloff"`
	Damping        float64 `yaml:"damping"`
}

func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		HomingTurnRate: DefaultHomingTurnRate,
		WellRange:      DefaultWellRange,
		WellStrength:   DefaultWellStrength,
		WellFalloff:    FalloffLinear,
		Damping:        DefaultDamping,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("physics: playfield must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.Damping < 0 || c.Damping > 1 {
		return fmt.Errorf("physics: damping must be in [0,1], got %g", c.Damping)
	}
	if c.WellRange < 0 {
		return fmt.Errorf("physics: well range must be non-negative, got %g", c.WellRange)
	}
	switch c.WellFalloff {
	case "", FalloffLinear, FalloffInverseSquare:
	default:
		return fmt.Errorf("physics: unknown well falloff %q", c.WellFalloff)
	}
	return nil
}

// GetParams returns the live-tunable parameters.
func (c *Config) GetParams() map[string]float64 {
	return map[string]float64{
		"damping":       c.Damping,
		"well_range":    c.WellRange,
		"well_strength": c.WellStrength,
		"homing_turn":   c.HomingTurnRate,
	}
}

func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "damping":
		if value < 0 || value > 1 {
			return fmt.Errorf("physics: damping must be in [0,1], got %g", value)
		}
		c.Damping = value
	case "well_range":
		c.WellRange = value
	case "well_strength":
		c.WellStrength = value
	case "homing_turn":
		c.HomingTurnRate = value
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

// Tuning carries the per-tick values read from the upgrade snapshot.
type Tuning struct {
	HomingLevel    int
	ReflectorLevel int
	// NeutronSpeed is the magnitude homing neutrons are renormalized to.
	NeutronSpeed float64
}
