package economy

// Ledger is an in-memory Economy used by headless runs, the live viewer and tests.
type Ledger struct {
	upgrades   Upgrades
	thresholds []int64
	ready      bool

	rank          int
	score         int64
	coins         int64
	destroyed     int64
	chainEvents   int64
	remainingTime float64
	remainingActs int
}

func NewLedger(u Upgrades) *Ledger {
	return &Ledger{
		upgrades:   u,
		thresholds: DefaultRankThresholds,
		ready:      true,
	}
}

// NewUninitialized returns a ledger whose Snapshot reports not ready until SetUpgrades is called.
func NewUninitialized() *Ledger {
	return &Ledger{thresholds: DefaultRankThresholds}
}

func (l *Ledger) SetUpgrades(u Upgrades) {
	l.upgrades = u
	l.ready = true
}

func (l *Ledger) SetThresholds(t []int64) { l.thresholds = t }
func (l *Ledger) SetRank(rank int)        { l.rank = rank }
func (l *Ledger) Coins() int64            { return l.coins }
func (l *Ledger) ChainEvents() int64      { return l.chainEvents }

func (l *Ledger) Snapshot() (Snapshot, bool) {
	if !l.ready {
		return Snapshot{}, false
	}
	return Snapshot{
		Upgrades:         l.upgrades,
		Rank:             l.rank,
		Score:            l.score,
		Coins:            l.coins,
		Destroyed:        l.destroyed,
		RemainingTime:    l.remainingTime,
		RemainingActions: l.remainingActs,
	}, true
}

func (l *Ledger) AwardCoins(amount int64) { l.coins += amount }
func (l *Ledger) IncrementChain()         { l.chainEvents++ }

func (l *Ledger) UpdateTime(delta float64) {
	l.remainingTime += delta
	if l.remainingTime < 0 {
		l.remainingTime = 0
	}
}

func (l *Ledger) TryAction() bool {
	if l.remainingActs <= 0 {
		return false
	}
	l.remainingActs--
	return true
}

func (l *Ledger) BeginRound() {
	l.remainingTime = l.upgrades.RoundSeconds
	l.remainingActs = l.upgrades.MaxClicks
}

func (l *Ledger) RecordDestruction(score int64) (int, bool) {
	l.score += score
	l.destroyed++
	var promoted bool
	l.rank, promoted = NextRank(l.rank, l.score, l.thresholds)
	return l.rank, promoted
}
