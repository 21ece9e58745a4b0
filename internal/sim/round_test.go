package sim_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fission/internal/economy"
	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/sim"
)

const tick = time.Second / 60

var _ = Describe("Simulation", func() {
	var (
		s      *sim.Simulation
		ledger *economy.Ledger
		epoch  time.Time
	)

	BeforeEach(func() {
		epoch = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		u := economy.DefaultUpgrades()
		u.PierceLevel = 1
		ledger = economy.NewLedger(u)

		cfg := sim.DefaultConfig()
		cfg.Seed = 7

		var err error
		s, err = sim.New(cfg, ledger)
		Expect(err).NotTo(HaveOccurred())
	})

	playRound := func(clickEvery int) ([]sim.Frame, event.RoundEnded) {
		Expect(s.StartRound(epoch)).To(BeTrue())

		var frames []sim.Frame
		for i := 1; i <= 60*60; i++ {
			now := epoch.Add(time.Duration(i) * tick)
			if i%clickEvery == 0 {
				s.Click(400, 300, now)
			}
			evs := s.Tick(now)
			frames = append(frames, s.Frame())
			for _, e := range evs {
				if ended, ok := e.(event.RoundEnded); ok {
					return frames, ended
				}
			}
		}
		Fail("round never ended")
		return nil, event.RoundEnded{}
	}

	It("ends a played round and banks the settlement", func() {
		frames, ended := playRound(20)

		Expect(frames).NotTo(BeEmpty())
		Expect(ledger.Coins()).To(Equal(ended.Payout))
		Expect(ended.Banked).To(Equal(ended.Payout))
		if ended.MaxChain > 0 && ended.Pending > 0 {
			Expect(ended.Payout).To(Equal(ended.Pending * int64(ended.MaxChain)))
		} else {
			Expect(ended.Payout).To(Equal(ended.Pending))
		}

		last := s.Frame()
		Expect(last.Atoms).To(BeEmpty())
		Expect(last.Neutrons).To(BeEmpty())
		Expect(s.PendingSpawns()).To(BeZero())
	})

	It("keeps the chain monotonic and under its max", func() {
		frames, _ := playRound(15)

		prev := 0
		for _, f := range frames {
			if !f.Progress.Active {
				continue
			}
			Expect(f.Progress.Chain).To(BeNumerically(">=", prev))
			Expect(f.Progress.MaxChain).To(BeNumerically(">=", f.Progress.Chain))
			prev = f.Progress.Chain
		}
	})

	It("never exceeds the atom cap", func() {
		frames, _ := playRound(10)
		for _, f := range frames {
			Expect(len(f.Atoms)).To(BeNumerically("<=", s.Config().Spawn.MaxAtoms))
		}
	})

	It("ends early once actions are spent and the field is quiet", func() {
		_, ended := playRound(5)
		Expect(ended.Reason).To(Equal(event.EndIdle))
	})

	It("returns frames that do not alias live state", func() {
		Expect(s.StartRound(epoch)).To(BeTrue())
		s.Tick(epoch.Add(tick))

		f := s.Frame()
		Expect(f.Atoms).NotTo(BeEmpty())
		f.Atoms[0].Health = -99

		Expect(s.Frame().Atoms[0].Health).NotTo(Equal(-99))
	})

	It("ignores clicks once the budget is spent", func() {
		Expect(s.StartRound(epoch)).To(BeTrue())
		now := epoch
		for range 10 {
			now = now.Add(tick)
			Expect(s.Click(100, 100, now)).To(BeTrue())
		}
		before := len(s.Frame().Neutrons)
		Expect(s.Click(100, 100, now)).To(BeFalse())
		Expect(s.Frame().Neutrons).To(HaveLen(before))
	})
})
