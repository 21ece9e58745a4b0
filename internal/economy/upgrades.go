package economy

import (
	"errors"
	"fmt"
)

// ErrBadUpgrade indicates an upgrade value outside its valid range.
var ErrBadUpgrade = errors.New("economy: upgrade out of valid range")

// Upgrades is the read-only view of purchased upgrades. Multipliers are neutral at 1.
type Upgrades struct {
	NeutronSpeed       float64 `yaml:"neutron_speed"`
	NeutronSize        float64 `yaml:"neutron_size"`
	NeutronLifetime    float64 `yaml:"neutron_lifetime"`
	NeutronCountPlayer int     `yaml:"neutron_count_player"`
	NeutronCountAtom   int     `yaml:"neutron_count_atom"`
	PierceLevel        int     `yaml:"pierce_level"`
	HomingLevel        int     `yaml:"homing_level"`
	ReflectorLevel     int     `yaml:"reflector_level"`

	AtomSize     float64 `yaml:"atom_size"`
	AtomLifetime float64 `yaml:"atom_lifetime"`
	AtomSpeed    float64 `yaml:"atom_speed"`
	AtomHealth   float64 `yaml:"atom_health"`
	AtomValue    float64 `yaml:"atom_value"`
	SpawnRate    float64 `yaml:"spawn_rate"`

	ChainMultiplier float64 `yaml:"chain_multiplier"`

	TimeAtomUnlocked  bool    `yaml:"time_atom_unlocked"`
	TimeAtomChance    float64 `yaml:"time_atom_chance"`
	TimeBonusSeconds  float64 `yaml:"time_bonus_seconds"`
	SupernovaUnlocked bool    `yaml:"supernova_unlocked"`
	SupernovaChance   float64 `yaml:"supernova_chance"`
	BlackHoleUnlocked bool    `yaml:"blackhole_unlocked"`
	BlackHoleChance   float64 `yaml:"blackhole_chance"`
	BlackHoleRespawns int     `yaml:"blackhole_respawns"`
	SpecialBonusCoins int64   `yaml:"special_bonus_coins"`
	FissionMastery    bool    `yaml:"fission_mastery"`

	MaxClicks              int     `yaml:"max_clicks"`
	RoundSeconds           float64 `yaml:"round_seconds"`
	PrestigeCoinMultiplier float64 `yaml:"prestige_coin_multiplier"`
}

func DefaultUpgrades() Upgrades {
	return Upgrades{
		NeutronSpeed:           1,
		NeutronSize:            1,
		NeutronLifetime:        1,
		NeutronCountPlayer:     8,
		NeutronCountAtom:       3,
		AtomSize:               1,
		AtomLifetime:           1,
		AtomSpeed:              1,
		AtomHealth:             1,
		AtomValue:              1,
		SpawnRate:              1,
		ChainMultiplier:        1,
		TimeAtomChance:         5,
		TimeBonusSeconds:       2,
		SupernovaChance:        3,
		BlackHoleChance:        2,
		BlackHoleRespawns:      2,
		SpecialBonusCoins:      25,
		MaxClicks:              10,
		RoundSeconds:           30,
		PrestigeCoinMultiplier: 1,
	}
}

func (u Upgrades) Validate() error {
	mults := map[string]float64{
		"neutron_speed":            u.NeutronSpeed,
		"neutron_size":             u.NeutronSize,
		"neutron_lifetime":         u.NeutronLifetime,
		"atom_size":                u.AtomSize,
		"atom_lifetime":            u.AtomLifetime,
		"atom_speed":               u.AtomSpeed,
		"atom_health":              u.AtomHealth,
		"atom_value":               u.AtomValue,
		"spawn_rate":               u.SpawnRate,
		"chain_multiplier":         u.ChainMultiplier,
		"prestige_coin_multiplier": u.PrestigeCoinMultiplier,
	}
	for name, v := range mults {
		if v < 0 {
			return fmt.Errorf("%w: %s=%g", ErrBadUpgrade, name, v)
		}
	}
	if u.SpawnRate == 0 {
		return fmt.Errorf("%w: spawn_rate must be positive", ErrBadUpgrade)
	}
	if u.ReflectorLevel < 0 || u.ReflectorLevel > 100 {
		return fmt.Errorf("%w: reflector_level=%d", ErrBadUpgrade, u.ReflectorLevel)
	}
	if u.NeutronCountPlayer < 0 || u.NeutronCountAtom < 0 || u.PierceLevel < 0 || u.HomingLevel < 0 {
		return fmt.Errorf("%w: negative level", ErrBadUpgrade)
	}
	if u.MaxClicks < 0 || u.RoundSeconds < 0 {
		return fmt.Errorf("%w: negative round cap", ErrBadUpgrade)
	}
	return nil
}
