package round

import (
	"fmt"
	"time"
)

type Config struct {
	// ChainBonus is the payout bonus per chain link, scaled by the chain multiplier upgrade.
	ChainBonus       float64       `yaml:"chain_bonus"`
	ChainIdleTimeout time.Duration `yaml:"chain_idle_timeout"`
	IdleGrace        time.Duration `yaml:"idle_grace"`
	StartupGrace     time.Duration `yaml:"startup_grace"`
}

func DefaultConfig() Config {
	return Config{
		ChainBonus:       0.1,
		ChainIdleTimeout: time.Second,
		IdleGrace:        2 * time.Second,
		StartupGrace:     1500 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if c.ChainBonus < 0 {
		return fmt.Errorf("round: chain_bonus must be non-negative, got %g", c.ChainBonus)
	}
	if c.ChainIdleTimeout <= 0 || c.IdleGrace < 0 || c.StartupGrace < 0 {
		return fmt.Errorf("round: timeouts must be non-negative and chain_idle_timeout positive")
	}
	return nil
}
