package spawn

import (
	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
)

// Bands holds the per-variant spawn chances in percent.
type Bands struct {
	Time      float64
	Supernova float64
	BlackHole float64

	TimeUnlocked      bool
	SupernovaUnlocked bool
	BlackHoleUnlocked bool

	// Mastery doubles every unlocked band.
	Mastery bool
}

func BandsFrom(u economy.Upgrades) Bands {
	return Bands{
		Time:              u.TimeAtomChance,
		Supernova:         u.SupernovaChance,
		BlackHole:         u.BlackHoleChance,
		TimeUnlocked:      u.TimeAtomUnlocked,
		SupernovaUnlocked: u.SupernovaUnlocked,
		BlackHoleUnlocked: u.BlackHoleUnlocked,
		Mastery:           u.FissionMastery,
	}
}

// SelectSpecial maps a draw in [0,100) onto the cumulative bands time, supernova,
// blackhole in that order. A locked band is empty. KindNormal means no special.
func SelectSpecial(draw float64, b Bands) entity.AtomKind {
	scale := 1.0
	if b.Mastery {
		scale = 2
	}
	band := func(chance float64, unlocked bool) float64 {
		if !unlocked {
			return 0
		}
		return chance * scale
	}

	cum := band(b.Time, b.TimeUnlocked)
	if draw < cum {
		return entity.KindTime
	}
	cum += band(b.Supernova, b.SupernovaUnlocked)
	if draw < cum {
		return entity.KindSupernova
	}
	cum += band(b.BlackHole, b.BlackHoleUnlocked)
	if draw < cum {
		return entity.KindBlackHole
	}
	return entity.KindNormal
}

const masteryEffect = 1.5

// NewVariant builds the payload for kind from the upgrade snapshot.
func NewVariant(kind entity.AtomKind, u economy.Upgrades, cfg *Config) entity.Variant {
	effect := 1.0
	if u.FissionMastery {
		effect = masteryEffect
	}
	switch kind {
	case entity.KindTime:
		return entity.TimeWarp{BonusSeconds: u.TimeBonusSeconds * effect}
	case entity.KindSupernova:
		return entity.Supernova{
			Neutrons:   int(float64(cfg.SupernovaNeutrons) * effect),
			SpeedBoost: cfg.SupernovaSpeed,
		}
	case entity.KindBlackHole:
		return entity.BlackHole{Respawns: u.BlackHoleRespawns}
	default:
		return entity.Normal{}
	}
}
