package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/control"
	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/entity"
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/sim"
)

// Epoch is where the synthetic clock of every headless run starts.
var Epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// roundGap separates consecutive rounds on the synthetic clock.
const roundGap = time.Second

type RoundSummary struct {
	Index     int           `json:"index"`
	Reason    string        `json:"reason"`
	Ticks     int           `json:"ticks"`
	Duration  time.Duration `json:"duration"`
	Clicks    int           `json:"clicks"`
	Destroyed int           `json:"destroyed"`
	Specials  int           `json:"specials"`
	MaxChain  int           `json:"max_chain"`
	Pending   int64         `json:"pending"`
	Payout    int64         `json:"payout"`
	Banked    int64         `json:"banked"`
}

type Result struct {
	Seed    int64              `json:"seed"`
	Rounds  []RoundSummary     `json:"rounds"`
	Metrics map[string]float64 `json:"metrics"`
	Frames  []sim.Frame        `json:"-"`
	Ticks   int                `json:"ticks"`
	Coins   int64              `json:"coins"`
	Rank    int                `json:"rank"`
	Errors  []error            `json:"-"`
}

type Experiment struct {
	cfg      *config.Config
	sim      *sim.Simulation
	ledger   *economy.Ledger
	strategy control.Strategy
	metrics  []sim.Metric
}

func New(cfg *config.Config, reg *Registry, opts ...sim.Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	strategy, err := reg.GetStrategy(cfg.Strategy, cfg, rand.New(rand.NewSource(cfg.Seed+1)))
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:      cfg,
		ledger:   cfg.Ledger(),
		strategy: strategy,
		metrics:  reg.DefaultMetrics(cfg),
	}

	opts = append([]sim.Option{sim.WithRand(rng)}, opts...)
	for _, m := range e.metrics {
		opts = append(opts, sim.WithMetric(m))
	}
	e.sim, err = sim.New(cfg.SimConfig(), e.ledger, opts...)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation { return e.sim }

func (e *Experiment) Ledger() *economy.Ledger { return e.ledger }

// Run plays the configured number of rounds on a synthetic clock. On cancellation
// it returns what was recorded so far together with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.sim.Ready(); err != nil {
		return nil, err
	}

	result := &Result{
		Seed:    e.cfg.Seed,
		Rounds:  make([]RoundSummary, 0, e.cfg.Rounds),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	dt := e.cfg.TickDuration()
	now := Epoch
	var view sim.Frame

	for r := 0; r < e.cfg.Rounds; r++ {
		e.strategy.Reset()
		if !e.sim.StartRound(now) {
			return result, fmt.Errorf("round %d: could not start", r)
		}
		start := now
		summary := RoundSummary{Index: r}

		for {
			select {
			case <-ctx.Done():
				e.finish(result)
				return result, ctx.Err()
			default:
			}

			now = now.Add(dt)
			summary.Ticks++

			e.sim.FrameInto(&view)
			if p, ok := e.strategy.Decide(&view, now.Sub(start)); ok {
				if e.sim.Click(p.X, p.Y, now) {
					summary.Clicks++
				}
			}

			evs := e.sim.Tick(now)
			result.Ticks++

			if e.cfg.ValidateState {
				if err := e.sim.Check(); err != nil {
					result.Errors = append(result.Errors, err)
				}
			}
			if e.cfg.FrameEvery > 0 && result.Ticks%e.cfg.FrameEvery == 0 {
				result.Frames = append(result.Frames, e.sim.Frame())
			}

			ended, done := tally(&summary, evs)
			if !done && summary.Ticks >= e.cfg.MaxRoundTicks {
				forced, _ := e.sim.EndRound()
				ended, done = tally(&summary, forced)
			}
			if done {
				summary.Reason = ended.Reason.String()
				summary.MaxChain = ended.MaxChain
				summary.Pending = ended.Pending
				summary.Payout = ended.Payout
				summary.Banked = ended.Banked
				summary.Duration = now.Sub(start)
				break
			}
		}

		result.Rounds = append(result.Rounds, summary)
		now = now.Add(roundGap)
	}

	e.finish(result)
	return result, nil
}

func (e *Experiment) finish(result *Result) {
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Coins = e.ledger.Coins()
	if snap, ok := e.ledger.Snapshot(); ok {
		result.Rank = snap.Rank
	}
}

func tally(s *RoundSummary, evs []event.Event) (event.RoundEnded, bool) {
	for _, ev := range evs {
		switch v := ev.(type) {
		case event.AtomDestroyed:
			s.Destroyed++
			if v.Kind != entity.KindNormal {
				s.Specials++
			}
		case event.RoundEnded:
			return v, true
		}
	}
	return event.RoundEnded{}, false
}

func vec(x, y float64) entity.Vec2 { return entity.Vec2{X: x, Y: y} }
