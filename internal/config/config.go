package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/physics"
	"github.com/san-kum/fission/internal/round"
	"github.com/san-kum/fission/internal/sim"
	"github.com/san-kum/fission/internal/spawn"
)

// ErrUnknownPreset indicates a preset name that is not registered.
var ErrUnknownPreset = errors.New("config: unknown preset")

const (
	DefaultTickRate      = 60
	DefaultRounds        = 1
	DefaultStrategy      = "densest"
	DefaultClickInterval = 1200 * time.Millisecond
	DefaultClusterRadius = 120.0
	DefaultMaxRoundTicks = 60 * 60 * 5
	DefaultTextLifetime  = 60
)

type Config struct {
	Seed     int64  `yaml:"seed"`
	TickRate int    `yaml:"tick_rate"`
	Rounds   int    `yaml:"rounds"`
	Strategy string `yaml:"strategy"`

	StrategyParams StrategyConfig `yaml:"strategy_params"`

	Playfield Playfield        `yaml:"playfield"`
	Spawn     spawn.Config     `yaml:"spawn"`
	Physics   physics.Config   `yaml:"physics"`
	Round     round.Config     `yaml:"round"`
	Upgrades  economy.Upgrades `yaml:"upgrades"`
	Rank      int              `yaml:"rank"`

	TextLifetime int `yaml:"text_lifetime"`
	// FrameEvery samples one frame per that many ticks for storage; 0 keeps none.
	FrameEvery int `yaml:"frame_every"`
	// MaxRoundTicks stops a headless round that never settles.
	MaxRoundTicks int  `yaml:"max_round_ticks"`
	ValidateState bool `yaml:"validate_state"`
}

type Playfield struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type StrategyConfig struct {
	Interval      time.Duration `yaml:"interval"`
	ClusterRadius float64       `yaml:"cluster_radius"`
	Clicks        []Click       `yaml:"clicks"`
}

// Click is a scripted action at an offset from round start.
type Click struct {
	At time.Duration `yaml:"at"`
	X  float64       `yaml:"x"`
	Y  float64       `yaml:"y"`
}

func DefaultConfig() *Config {
	return &Config{
		TickRate: DefaultTickRate,
		Rounds:   DefaultRounds,
		Strategy: DefaultStrategy,
		StrategyParams: StrategyConfig{
			Interval:      DefaultClickInterval,
			ClusterRadius: DefaultClusterRadius,
		},
		Playfield:     Playfield{Width: physics.DefaultWidth, Height: physics.DefaultHeight},
		Spawn:         spawn.DefaultConfig(),
		Physics:       physics.DefaultConfig(),
		Round:         round.DefaultConfig(),
		Upgrades:      economy.DefaultUpgrades(),
		TextLifetime:  DefaultTextLifetime,
		MaxRoundTicks: DefaultMaxRoundTicks,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", c.TickRate)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.FrameEvery < 0 || c.MaxRoundTicks <= 0 {
		return fmt.Errorf("frame_every must be >= 0 and max_round_ticks > 0")
	}
	if err := c.Upgrades.Validate(); err != nil {
		return err
	}
	return c.SimConfig().Validate()
}

// TickDuration is the synthetic clock step for headless runs.
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// SimConfig builds the simulation configuration, applying the playfield to
// every component that needs it.
func (c *Config) SimConfig() sim.Config {
	sc := sim.Config{
		Spawn:        c.Spawn,
		Physics:      c.Physics,
		Round:        c.Round,
		TextLifetime: c.TextLifetime,
		Seed:         c.Seed,
	}
	if c.Playfield.Width > 0 && c.Playfield.Height > 0 {
		sc.Spawn.Width, sc.Spawn.Height = c.Playfield.Width, c.Playfield.Height
		sc.Physics.Width, sc.Physics.Height = c.Playfield.Width, c.Playfield.Height
	}
	return sc
}

// Ledger builds an in-memory economy seeded with the configured upgrades and rank.
func (c *Config) Ledger() *economy.Ledger {
	l := economy.NewLedger(c.Upgrades)
	l.SetRank(c.Rank)
	return l
}

// SetParam sets a tunable value by name: the strategy knobs interval_ms and
// cluster_radius, or any physics parameter.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "interval_ms":
		if value <= 0 {
			return fmt.Errorf("interval_ms must be positive, got %g", value)
		}
		c.StrategyParams.Interval = time.Duration(value * float64(time.Millisecond))
	case "cluster_radius":
		c.StrategyParams.ClusterRadius = value
	default:
		return c.Physics.SetParam(name, value)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.StrategyParams.Clicks = append([]Click(nil), c.StrategyParams.Clicks...)
	cp.Spawn.HealthTiers = append([]spawn.HealthTier(nil), c.Spawn.HealthTiers...)
	return &cp
}
