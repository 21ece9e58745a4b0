package experiment

import (
	"context"
	"sync"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/sim"
)

// OptionsFunc builds fresh simulation options for one run of an ensemble.
type OptionsFunc func(seed int64) []sim.Option

// Ensemble runs the same configuration over consecutive seeds, one goroutine and
// one Simulation per seed. Runs never share option values: metrics and observers
// come from newOpts, called once per run.
type Ensemble struct {
	base      *config.Config
	reg       *Registry
	numRuns   int
	seedStart int64
	newOpts   OptionsFunc
}

// NewEnsemble creates an ensemble. newOpts may be nil.
func NewEnsemble(cfg *config.Config, reg *Registry, numRuns int, seedStart int64, newOpts OptionsFunc) *Ensemble {
	return &Ensemble{base: cfg, reg: reg, numRuns: numRuns, seedStart: seedStart, newOpts: newOpts}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := e.base.Clone()
			cfgCopy.Seed = e.seedStart + int64(idx)

			var opts []sim.Option
			if e.newOpts != nil {
				opts = e.newOpts(cfgCopy.Seed)
			}
			exp, err := New(cfgCopy, e.reg, opts...)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = exp.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
