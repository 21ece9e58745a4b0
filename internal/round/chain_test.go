package round_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fission/internal/event"
	"github.com/san-kum/fission/internal/round"
)

var _ = Describe("Machine", func() {
	var (
		m     *round.Machine
		start time.Time
	)

	BeforeEach(func() {
		m = round.NewMachine(round.DefaultConfig())
		start = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		Expect(m.Start(start)).To(BeTrue())
	})

	Describe("chain", func() {
		It("never decreases within a round and stays under its max", func() {
			prev := 0
			for i := 0; i < 50; i++ {
				now := start.Add(time.Duration(i) * 700 * time.Millisecond)
				if i%3 == 0 {
					m.Destroyed()
				}
				m.Update(now, 30, 5, 1)

				c := m.Chain()
				Expect(c.Current).To(BeNumerically(">=", prev))
				Expect(c.Max).To(BeNumerically(">=", c.Current))
				prev = c.Current
			}
		})

		It("resets to zero only on the next start", func() {
			m.Destroyed()
			m.Destroyed()
			m.End(event.EndTimer)
			Expect(m.Chain().Current).To(Equal(2))

			Expect(m.Start(start.Add(time.Minute))).To(BeTrue())
			Expect(m.Chain().Current).To(BeZero())
			Expect(m.Chain().Max).To(BeZero())
		})
	})

	Describe("settling", func() {
		It("banks 480 for 120 pending at max chain 4", func() {
			for range 4 {
				m.Destroyed()
			}
			m.Credit(120)

			res := m.End(event.EndTimer)
			Expect(res.Payout).To(Equal(int64(480)))
			Expect(m.Progress().Banked).To(Equal(int64(480)))
			Expect(m.Progress().Pending).To(BeZero())
		})

		It("keeps banked currency across rounds", func() {
			m.Destroyed()
			m.Credit(10)
			m.End(event.EndTimer)

			m.Start(start.Add(time.Minute))
			m.Destroyed()
			m.Destroyed()
			m.Credit(10)
			res := m.End(event.EndIdle)

			Expect(res.Payout).To(Equal(int64(20)))
			Expect(res.Banked).To(Equal(int64(30)))
		})
	})

	Describe("reset", func() {
		It("leaves the same state when called twice", func() {
			m.Destroyed()
			m.Credit(99)

			m.Reset()
			first := m.Progress()
			m.Reset()

			Expect(m.Progress()).To(Equal(first))
			Expect(first.Phase).To(Equal(round.PhaseIdle))
			Expect(first.Chain).To(BeZero())
			Expect(first.Banked).To(BeZero())
		})
	})
})
