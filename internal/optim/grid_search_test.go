package optim

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/fission/internal/config"
	"github.com/san-kum/fission/internal/experiment"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 9
	cfg.Upgrades.RoundSeconds = 3
	cfg.StrategyParams.Interval = 300 * time.Millisecond
	return cfg
}

func TestGridSearchVisitsEveryPoint(t *testing.T) {
	g, err := NewGridSearch(
		[]string{"interval_ms", "cluster_radius"},
		[][]float64{{200, 600}, {60, 120, 240}},
	)
	if err != nil {
		t.Fatal(err)
	}

	best, trials, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "banked")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(trials) != 6 {
		t.Fatalf("trials = %d, want 6", len(trials))
	}
	for _, tr := range trials {
		if tr.Value > best.Value {
			t.Errorf("trial %v beats best %v", tr, best)
		}
		if len(tr.Params) != 2 {
			t.Errorf("trial params = %v", tr.Params)
		}
	}
	if trials[0].Params["interval_ms"] != 200 || trials[0].Params["cluster_radius"] != 60 {
		t.Errorf("unexpected visiting order: %v", trials[0].Params)
	}
}

func TestGridSearchErrors(t *testing.T) {
	if _, err := NewGridSearch([]string{"damping"}, nil); err == nil {
		t.Error("expected length mismatch error")
	}
	if _, err := NewGridSearch([]string{"damping"}, [][]float64{{}}); err == nil {
		t.Error("expected empty range error")
	}

	g, _ := NewGridSearch([]string{"bogus"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "banked"); err == nil {
		t.Error("expected unknown parameter error")
	}

	g, _ = NewGridSearch([]string{"damping"}, [][]float64{{0.9}})
	if _, _, err := g.Search(context.Background(), shortConfig(), experiment.NewRegistry(), "nope"); err == nil {
		t.Error("expected unknown metric error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, shortConfig(), experiment.NewRegistry(), "banked"); err == nil {
		t.Error("expected cancellation error")
	}
}
