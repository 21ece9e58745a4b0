package round

import (
	"testing"
	"time"

	"github.com/san-kum/fission/internal/event"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return epoch.Add(time.Duration(ms) * time.Millisecond) }

func TestChainPayout(t *testing.T) {
	tests := []struct {
		name      string
		value     int64
		chain     int
		chainMult float64
		prestige  float64
		want      int64
	}{
		{"first link", 10, 1, 1, 1, 11},
		{"chain ten", 10, 10, 1, 1, 20},
		{"chain multiplier", 10, 5, 2, 1, 20},
		{"prestige", 10, 1, 1, 1.5, 16},
		{"floors", 7, 3, 1, 1, 9},
		{"no chain", 10, 0, 1, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChainPayout(tt.value, tt.chain, 0.1, tt.chainMult, tt.prestige)
			if got != tt.want {
				t.Errorf("ChainPayout = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEndMultipliesByMaxChain(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))
	for range 4 {
		m.Destroyed()
	}
	m.Credit(120)

	res := m.End(event.EndTimer)
	if res.Payout != 480 || m.Banked() != 480 {
		t.Errorf("payout=%d banked=%d, want 480", res.Payout, m.Banked())
	}
	if m.Pending() != 0 {
		t.Error("pending not consumed")
	}

	again := m.End(event.EndForced)
	if again.Payout != 0 || m.Banked() != 480 {
		t.Errorf("second End banked %d more", again.Payout)
	}
}

func TestEndWithoutChainBanksUnmultiplied(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))
	m.Credit(50)

	if res := m.End(event.EndTimer); res.Payout != 50 {
		t.Errorf("payout = %d, want 50", res.Payout)
	}
}

func TestStartRejectsLiveRound(t *testing.T) {
	m := NewMachine(DefaultConfig())
	if !m.Start(at(0)) {
		t.Fatal("first start failed")
	}
	if m.Start(at(10)) {
		t.Error("second start succeeded while live")
	}
}

func TestIdleMachineIgnoresGameplay(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Destroyed()
	m.Credit(100)
	if m.Chain().Current != 0 || m.Pending() != 0 {
		t.Error("idle machine accepted destruction or credit")
	}
	if st := m.Update(at(5000), 0, 0, 0); st.Ended {
		t.Error("idle machine ended a round")
	}
}

func TestTimerEndsRound(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))
	st := m.Update(at(100), 0, 5, 3)
	if !st.Ended || st.Result.Reason != event.EndTimer {
		t.Errorf("expected timer end, got %+v", st)
	}
	if m.Live() {
		t.Error("machine still live after timer end")
	}
}

func TestIdleEndAfterGrace(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))

	if st := m.Update(at(1000), 20, 0, 0); st.GraceStarted {
		t.Error("grace started inside startup grace")
	}
	st := m.Update(at(1500), 20, 0, 0)
	if !st.GraceStarted || m.Phase() != PhaseEnding {
		t.Fatalf("expected grace to start, got %+v phase=%v", st, m.Phase())
	}
	if st := m.Update(at(3000), 20, 0, 0); st.Ended {
		t.Error("ended before grace elapsed")
	}
	st = m.Update(at(3500), 20, 0, 0)
	if !st.Ended || st.Result.Reason != event.EndIdle {
		t.Errorf("expected idle end, got %+v", st)
	}
}

func TestGraceCancelledByNeutronsInFlight(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))
	m.Update(at(2000), 20, 0, 0)
	m.Update(at(2100), 20, 0, 4)
	if m.Phase() != PhaseActive {
		t.Errorf("phase = %v, want active", m.Phase())
	}
	if st := m.Update(at(4500), 20, 0, 4); st.Ended {
		t.Error("round ended with neutrons in flight")
	}
}

func TestChainIdleKeepsChain(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))
	m.Destroyed()
	m.Destroyed()

	st := m.Update(at(1200), 20, 3, 0)
	if !st.ChainIdle {
		t.Error("expected chain idle report")
	}
	if m.Chain().Current != 2 {
		t.Errorf("chain = %d, want 2 after idle", m.Chain().Current)
	}
	if st := m.Update(at(1300), 20, 3, 0); st.ChainIdle {
		t.Error("chain idle reported twice for one window")
	}

	m.Touch(at(1400))
	if st := m.Update(at(2500), 20, 3, 0); !st.ChainIdle {
		t.Error("expected a new idle report after fresh collision")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	m := NewMachine(DefaultConfig())
	m.Start(at(0))
	m.Destroyed()
	m.Credit(30)
	m.End(event.EndTimer)

	m.Reset()
	once := m.Progress()
	m.Reset()
	twice := m.Progress()

	if once != twice {
		t.Errorf("reset not idempotent: %+v vs %+v", once, twice)
	}
	if once != (Progress{}) {
		t.Errorf("reset left state behind: %+v", once)
	}
}
