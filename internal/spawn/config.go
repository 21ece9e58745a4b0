package spawn

import (
	"fmt"
	"time"
)

type Config struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	MinAtoms     int           `yaml:"min_atoms"`
	MaxAtoms     int           `yaml:"max_atoms"`
	InitialAtoms int           `yaml:"initial_atoms"`
	BaseInterval time.Duration `yaml:"base_interval"`

	AtomRadius   float64 `yaml:"atom_radius"`
	AtomLifetime int     `yaml:"atom_lifetime"`
	AtomSpeed    float64 `yaml:"atom_speed"`
	AtomValue    int64   `yaml:"atom_value"`

	NeutronSpeed    float64 `yaml:"neutron_speed"`
	NeutronSize     float64 `yaml:"neutron_size"`
	NeutronLifetime int     `yaml:"neutron_lifetime"`
	Jitter          float64 `yaml:"jitter"`
	SpeedVariance   float64 `yaml:"speed_variance"`

	SupernovaNeutrons int     `yaml:"supernova_neutrons"`
	SupernovaSpeed    float64 `yaml:"supernova_speed"`

	RespawnSpread  float64       `yaml:"respawn_spread"`
	RespawnStagger time.Duration `yaml:"respawn_stagger"`

	// WellChance is the probability in [0,1] that a non-special atom is a gravity well,
	// applied only from WellMinRank upward.
	WellChance  float64 `yaml:"well_chance"`
	WellMinRank int     `yaml:"well_min_rank"`

	HealthTiers []HealthTier `yaml:"health_tiers"`
}

func DefaultConfig() Config {
	return Config{
		Width:             800,
		Height:            600,
		MinAtoms:          3,
		MaxAtoms:          20,
		InitialAtoms:      5,
		BaseInterval:      1500 * time.Millisecond,
		AtomRadius:        18,
		AtomLifetime:      900,
		AtomSpeed:         0.6,
		AtomValue:         10,
		NeutronSpeed:      6,
		NeutronSize:       3,
		NeutronLifetime:   180,
		Jitter:            0.15,
		SpeedVariance:     0.2,
		SupernovaNeutrons: 24,
		SupernovaSpeed:    1.5,
		RespawnSpread:     80,
		RespawnStagger:    150 * time.Millisecond,
		WellChance:        0.1,
		WellMinRank:       2,
		HealthTiers:       DefaultHealthTiers(),
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("spawn: playfield must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.MinAtoms < 0 || c.MaxAtoms < c.MinAtoms {
		return fmt.Errorf("spawn: need 0 <= min_atoms <= max_atoms, got %d/%d", c.MinAtoms, c.MaxAtoms)
	}
	if c.BaseInterval <= 0 {
		return fmt.Errorf("spawn: base_interval must be positive")
	}
	if c.AtomRadius <= 0 || c.NeutronSize <= 0 {
		return fmt.Errorf("spawn: radii must be positive")
	}
	if c.WellChance < 0 || c.WellChance > 1 {
		return fmt.Errorf("spawn: well_chance must be in [0,1], got %g", c.WellChance)
	}
	for _, t := range c.HealthTiers {
		if err := t.validate(); err != nil {
			return err
		}
	}
	return nil
}
