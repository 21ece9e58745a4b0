package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/fission/internal/physics"
)

type Preset struct {
	Description string
	apply       func(*Config)
}

var Presets = map[string]Preset{
	"starter": {
		Description: "fresh save: no specials, 10 clicks, 30s",
		apply:       func(*Config) {},
	},
	"homing": {
		Description: "homing level 3 with one pierce",
		apply: func(c *Config) {
			c.Upgrades.HomingLevel = 3
			c.Upgrades.PierceLevel = 1
			c.Upgrades.NeutronSpeed = 1.2
		},
	},
	"specials": {
		Description: "all special atoms unlocked at rank 2",
		apply: func(c *Config) {
			c.Rank = 2
			unlockSpecials(c)
		},
	},
	"mastery": {
		Description: "late game: specials, fission mastery, chain multiplier 1.5",
		apply: func(c *Config) {
			c.Rank = 5
			unlockSpecials(c)
			c.Upgrades.FissionMastery = true
			c.Upgrades.ChainMultiplier = 1.5
			c.Upgrades.PierceLevel = 2
			c.Upgrades.AtomHealth = 1.5
			c.Upgrades.PrestigeCoinMultiplier = 1.25
		},
	},
	"wells": {
		Description: "gravity-well heavy field with reflectors",
		apply: func(c *Config) {
			c.Rank = 3
			c.Spawn.WellChance = 0.3
			c.Upgrades.ReflectorLevel = 50
			c.Physics.WellFalloff = physics.FalloffInverseSquare
		},
	},
}

func unlockSpecials(c *Config) {
	c.Upgrades.TimeAtomUnlocked = true
	c.Upgrades.SupernovaUnlocked = true
	c.Upgrades.BlackHoleUnlocked = true
	c.Upgrades.TimeAtomChance = 10
	c.Upgrades.SupernovaChance = 6
	c.Upgrades.BlackHoleChance = 4
}

// GetPreset returns a fresh configuration for the named preset.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	p.apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
