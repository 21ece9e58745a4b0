package economy

// Snapshot is what the simulation reads from the economy once per tick.
type Snapshot struct {
	Upgrades         Upgrades
	Rank             int
	Score            int64
	Coins            int64
	Destroyed        int64
	RemainingTime    float64
	RemainingActions int
}

// Economy is the upgrade/currency collaborator. Implementations must apply
// every mutation before the next Snapshot call returns.
type Economy interface {
	// Snapshot returns the current state; ok is false until the economy is initialised.
	Snapshot() (snap Snapshot, ok bool)
	AwardCoins(amount int64)
	IncrementChain()
	// UpdateTime adds delta seconds to the remaining round time, clamped at zero.
	UpdateTime(delta float64)
	// TryAction consumes one action if any remain. It has no effect when it returns false.
	TryAction() bool
	// BeginRound restores remaining time and actions to their upgraded caps.
	BeginRound()
	// RecordDestruction adds score and counts a destroyed atom, returning the rank after
	// evaluating one promotion step.
	RecordDestruction(score int64) (rank int, promoted bool)
}
