package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/experiment"
)

// GridSearch runs every combination of parameter values and keeps the one with
// the highest metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

type Trial struct {
	Params map[string]float64
	Value  float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search evaluates metricName for each grid point on a copy of base. Ties keep
// the first point visited. All trials are returned in visiting order.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) (Trial, []Trial, error) {
	best := Trial{Value: math.Inf(-1)}
	trials := make([]Trial, 0)

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: unknown metric %q", metricName)
		}
		t := Trial{Params: maps.Clone(params), Value: val}
		trials = append(trials, t)
		if val > best.Value {
			best = t
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, eval func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval); err != nil {
			return fmt.Errorf("%s=%g: %w", name, val, err)
		}
	}
	delete(current, name)
	return nil
}
