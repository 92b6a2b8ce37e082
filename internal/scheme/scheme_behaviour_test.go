package scheme

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatslab/internal/grid"
)

func wallAt(tEnd float64) grid.Params {
	return grid.Params{TIn: 100, TExt: 300, XMin: 0, XMax: 1, TEnd: tEnd, D: 0.1, Dx: 0.05, Dt: 0.01}
}

func solved(name string, p grid.Params) []float64 {
	s, err := New(name, p)
	Expect(err).NotTo(HaveOccurred())
	Expect(s.Solve(context.Background())).To(Succeed())
	return s.Solution()
}

func maxAbsDiff(a, b []float64) float64 {
	m := 0.0
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

var _ = Describe("Wall schemes", func() {
	Context("at t_end = 0.5", func() {
		p := wallAt(0.5)

		It("produces one value per node for every scheme", func() {
			for _, name := range Names() {
				Expect(solved(name, p)).To(HaveLen(21), name)
			}
		})

		It("holds the boundary temperature exactly", func() {
			for _, name := range Names() {
				u := solved(name, p)
				Expect(u[0]).To(Equal(300.0), name)
				Expect(u[20]).To(Equal(300.0), name)
			}
		})

		It("keeps the stable schemes close to the series solution", func() {
			exact := solved(NameAnalytical, p)
			Expect(maxAbsDiff(solved(NameDuFortFrankel, p), exact)).To(BeNumerically("<", 1.5))
			Expect(maxAbsDiff(solved(NameLaasonen, p), exact)).To(BeNumerically("<", 0.5))
			Expect(maxAbsDiff(solved(NameCrankNicolson, p), exact)).To(BeNumerically("<", 0.5))
		})

		It("matches the reference mid-wall temperature", func() {
			Expect(solved(NameAnalytical, p)[10]).To(BeNumerically("~", 145.538, 1e-3))
			Expect(solved(NameDuFortFrankel, p)[10]).To(BeNumerically("~", 146.783, 1e-3))
			Expect(solved(NameLaasonen, p)[10]).To(BeNumerically("~", 145.599, 1e-3))
			Expect(solved(NameCrankNicolson, p)[10]).To(BeNumerically("~", 145.762, 1e-3))
		})

		It("is symmetric about the mid-plane", func() {
			for _, name := range []string{NameAnalytical, NameDuFortFrankel, NameLaasonen, NameCrankNicolson} {
				u := solved(name, p)
				for i := 0; i <= 10; i++ {
					Expect(u[i]).To(BeNumerically("~", u[20-i], 1e-9), name)
				}
			}
		})
	})

	Context("at t_end = 0.1", func() {
		p := wallAt(0.1)

		It("agrees with the series solution within the early-time error", func() {
			exact := solved(NameAnalytical, p)
			Expect(maxAbsDiff(solved(NameCrankNicolson, p), exact)).To(BeNumerically("<", 1.0))
			Expect(maxAbsDiff(solved(NameLaasonen, p), exact)).To(BeNumerically("<", 5.0))
			Expect(maxAbsDiff(solved(NameDuFortFrankel, p), exact)).To(BeNumerically("<", 5.0))
		})
	})

	Context("for a long run", func() {
		p := wallAt(20)

		It("relaxes to the boundary temperature", func() {
			for _, name := range []string{NameAnalytical, NameDuFortFrankel, NameLaasonen, NameCrankNicolson} {
				for _, v := range solved(name, p) {
					Expect(v).To(BeNumerically("~", 300.0, 1e-3), name)
				}
			}
		})
	})

	Context("Richardson", func() {
		It("grows without bound", func() {
			u := solved(NameRichardson, wallAt(0.5))
			Expect(maxAbsDiff(u, solved(NameAnalytical, wallAt(0.5)))).To(BeNumerically(">", 1e6))
		})

		It("lets overflow reach the caller", func() {
			u := solved(NameRichardson, wallAt(10))
			finite := true
			for _, v := range u[1:20] {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					finite = false
				}
			}
			Expect(finite).To(BeFalse())
			Expect(u[0]).To(Equal(300.0))
			Expect(u[20]).To(Equal(300.0))
		})
	})

	Context("implicit schemes with a large time step", func() {
		p := wallAt(0.5).WithTimeStep(0.1)

		It("stays between the initial and boundary temperatures", func() {
			for _, name := range []string{NameLaasonen, NameCrankNicolson} {
				for _, v := range solved(name, p) {
					Expect(v).To(BeNumerically(">=", 90.0), name)
					Expect(v).To(BeNumerically("<=", 310.0), name)
				}
			}
		})

		It("keeps Laasonen free of overshoot", func() {
			for _, v := range solved(NameLaasonen, p) {
				Expect(v).To(BeNumerically(">=", 100.0))
				Expect(v).To(BeNumerically("<=", 300.0))
			}
		})
	})
})
