package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/control"
	"github.com/san-kum/fission/internal/metrics"
	"github.com/san-kum/fission/internal/sim"
)

type StrategyFunc func(cfg *config.Config, rng *rand.Rand) control.Strategy

type Registry struct {
	strategies map[string]StrategyFunc
}

func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[string]StrategyFunc)}

	r.strategies["none"] = func(*config.Config, *rand.Rand) control.Strategy {
		return control.NewNone()
	}
	r.strategies["manual"] = func(cfg *config.Config, _ *rand.Rand) control.Strategy {
		clicks := make([]control.Click, 0, len(cfg.StrategyParams.Clicks))
		for _, c := range cfg.StrategyParams.Clicks {
			clicks = append(clicks, control.Click{At: c.At, Pos: vec(c.X, c.Y)})
		}
		return control.NewManual(clicks)
	}
	r.strategies["random"] = func(cfg *config.Config, rng *rand.Rand) control.Strategy {
		sc := cfg.SimConfig()
		return control.NewRandom(cfg.StrategyParams.Interval, sc.Spawn.Width, sc.Spawn.Height, rng)
	}
	r.strategies["densest"] = func(cfg *config.Config, _ *rand.Rand) control.Strategy {
		sc := cfg.SimConfig()
		return control.NewDensest(cfg.StrategyParams.Interval, cfg.StrategyParams.ClusterRadius, sc.Spawn.Width, sc.Spawn.Height)
	}

	return r
}

// Register adds or replaces a strategy constructor.
func (r *Registry) Register(name string, fn StrategyFunc) { r.strategies[name] = fn }

func (r *Registry) GetStrategy(name string, cfg *config.Config, rng *rand.Rand) (control.Strategy, error) {
	fn, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy: %s", name)
	}
	return fn(cfg, rng), nil
}

func (r *Registry) ListStrategies() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListPresets() []string { return config.ListPresets() }

func (r *Registry) DefaultMetrics(cfg *config.Config) []sim.Metric {
	return metrics.Standard(cfg.TickDuration())
}
