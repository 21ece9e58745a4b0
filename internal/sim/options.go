package sim

import (
	"log/slog"
	"math/rand"
)

type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithRand replaces the seeded source used for spawning and reflection.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observers = append(s.observers, o) }
}

func WithMetric(m Metric) Option {
	return func(s *Simulation) { s.metrics = append(s.metrics, m) }
}
