package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/experiment"
)

// Scenario defines a scripted sequence of headless runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a scenario. Config is overlaid onto the preset, so a
// step only names the fields it changes.
type Step struct {
	Name     string         `yaml:"name"`
	Preset   string         `yaml:"preset"`
	Strategy string         `yaml:"strategy"`
	Seed     *int64         `yaml:"seed"`
	Rounds   int            `yaml:"rounds"`
	Clicks   []config.Click `yaml:"clicks"`
	Config   yaml.Node      `yaml:"config"`
	SaveAs   string         `yaml:"save_as"`
}

type StepResult struct {
	Step   Step
	Config *config.Config
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the configuration a step runs with.
func (s *Step) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p, err := config.GetPreset(s.Preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("config overrides: %w", err)
		}
	}
	if s.Strategy != "" {
		cfg.Strategy = s.Strategy
	}
	if s.Seed != nil {
		cfg.Seed = *s.Seed
	}
	if s.Rounds > 0 {
		cfg.Rounds = s.Rounds
	}
	if len(s.Clicks) > 0 {
		cfg.StrategyParams.Clicks = append([]config.Click(nil), s.Clicks...)
		if s.Strategy == "" {
			cfg.Strategy = "manual"
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", step.Name, "preset", step.Preset)

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: res})
	}

	return results, nil
}

// MonteCarloConfig runs one configuration over NumTrials consecutive seeds.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	SeedStart int64
}

type MonteCarloResult struct {
	Seed     int64
	Coins    int64
	MaxChain int
	Rounds   int
	IdleEnds int
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}

	runs, err := experiment.NewEnsemble(cfg.Base, reg, cfg.NumTrials, cfg.SeedStart, nil).Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, 0, len(runs))
	for _, r := range runs {
		mc := MonteCarloResult{Seed: r.Seed, Coins: r.Coins, Rounds: len(r.Rounds)}
		for _, rs := range r.Rounds {
			mc.MaxChain = max(mc.MaxChain, rs.MaxChain)
			if rs.Reason == "idle" {
				mc.IdleEnds++
			}
		}
		results = append(results, mc)
	}
	return results, nil
}

// Stats summarises a Monte Carlo batch.
type Stats struct {
	Trials     int
	MeanCoins  float64
	StdCoins   float64
	MinCoins   int64
	MaxCoins   int64
	MedianCoin float64
	MeanChain  float64
	BestChain  int
	IdleRate   float64
}

func MonteCarloStats(results []MonteCarloResult) Stats {
	st := Stats{Trials: len(results)}
	if len(results) == 0 {
		return st
	}

	coins := make([]float64, len(results))
	st.MinCoins, st.MaxCoins = results[0].Coins, results[0].Coins
	var sum, chains float64
	var rounds, idle int
	for i, r := range results {
		coins[i] = float64(r.Coins)
		sum += coins[i]
		chains += float64(r.MaxChain)
		st.MinCoins = min(st.MinCoins, r.Coins)
		st.MaxCoins = max(st.MaxCoins, r.Coins)
		st.BestChain = max(st.BestChain, r.MaxChain)
		rounds += r.Rounds
		idle += r.IdleEnds
	}

	n := float64(len(results))
	st.MeanCoins = sum / n
	st.MeanChain = chains / n
	if rounds > 0 {
		st.IdleRate = float64(idle) / float64(rounds)
	}

	var sq float64
	for _, c := range coins {
		d := c - st.MeanCoins
		sq += d * d
	}
	st.StdCoins = math.Sqrt(sq / n)

	sort.Float64s(coins)
	mid := len(coins) / 2
	if len(coins)%2 == 0 {
		st.MedianCoin = (coins[mid-1] + coins[mid]) / 2
	} else {
		st.MedianCoin = coins[mid]
	}
	return st
}
