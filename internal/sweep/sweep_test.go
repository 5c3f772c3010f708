package sweep_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinlab/internal/sweep"
)

// quickConfig is a 4x4 sweep small enough for specs: Tc=1, four points.
func quickConfig() sweep.Config {
	return sweep.Config{
		Rows:    4,
		Cols:    4,
		Sampler: sweep.SamplerMetropolis,
		Steps:   20,
		MaxTc:   1.0,
		TStep:   0.25,
		Seed:    42,
	}
}

var _ = Describe("Run", func() {
	It("records one point per temperature in ascending order", func() {
		result, err := sweep.Run(context.Background(), quickConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Points).To(HaveLen(4))

		for i, p := range result.Points {
			Expect(p.ReducedT).To(BeNumerically("~", 0.25*float64(i), 1e-9))
		}
	})

	It("is bit-for-bit reproducible under a fixed seed", func() {
		first, err := sweep.Run(context.Background(), quickConfig())
		Expect(err).NotTo(HaveOccurred())

		second, err := sweep.Run(context.Background(), quickConfig())
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Points).To(Equal(first.Points))
	})

	It("rejects a non-positive step count", func() {
		cfg := quickConfig()
		cfg.Steps = 0
		_, err := sweep.Run(context.Background(), cfg)
		Expect(err).To(MatchError(sweep.ErrInvalidSteps))
	})

	It("rejects an unknown sampler", func() {
		cfg := quickConfig()
		cfg.Sampler = "wolff"
		_, err := sweep.Run(context.Background(), cfg)
		Expect(err).To(MatchError(sweep.ErrUnknownSampler))
	})

	It("rejects an unknown topology", func() {
		cfg := quickConfig()
		cfg.Sampler = sweep.SamplerHeatBath
		cfg.Topology = "cubic"
		_, err := sweep.Run(context.Background(), cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects invalid lattice dimensions", func() {
		cfg := quickConfig()
		cfg.Rows = 0
		_, err := sweep.Run(context.Background(), cfg)
		Expect(err).To(HaveOccurred())
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := sweep.Run(ctx, quickConfig())
		Expect(err).To(MatchError(context.Canceled))
	})

	It("runs the heat-bath sampler under every topology", func() {
		for _, topology := range []string{"square", "triangle", "rhombus", "hexagonal"} {
			cfg := quickConfig()
			cfg.Sampler = sweep.SamplerHeatBath
			cfg.Topology = topology

			result, err := sweep.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred(), "topology %s", topology)
			Expect(result.Points).To(HaveLen(4))

			for _, p := range result.Points {
				Expect(p.AverageSpin).To(And(
					BeNumerically(">=", -1),
					BeNumerically("<=", 1),
				))
			}
		}
	})

	It("invokes the per-point callback for every point", func() {
		seen := 0
		_, err := sweep.RunWithCallback(context.Background(), quickConfig(), func(p sweep.Point) {
			seen++
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal(4))
	})
})

var _ = Describe("Run in fixed-seed mode", func() {
	fixedConfig := func() sweep.Config {
		cfg := quickConfig()
		cfg.FixedSeed = true
		cfg.Sampler = sweep.SamplerHeatBath
		cfg.Topology = "square"
		return cfg
	}

	It("records both ordered starts per point", func() {
		result, err := sweep.Run(context.Background(), fixedConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.BothStarts).To(BeTrue())

		// the first point is T=0: both ordered starts are absorbing
		Expect(result.Points[0].AverageSpin).To(Equal(1.0))
		Expect(result.Points[0].AverageSpinDown).To(Equal(-1.0))
	})

	It("yields identical curves sequentially and in parallel", func() {
		sequential, err := sweep.Run(context.Background(), fixedConfig())
		Expect(err).NotTo(HaveOccurred())

		cfg := fixedConfig()
		cfg.Workers = 3
		parallel, err := sweep.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(parallel.Points).To(Equal(sequential.Points))
	})
})

var _ = Describe("Temperatures", func() {
	It("covers [0, maxTc*Tc) with the configured step", func() {
		temps := sweep.Temperatures(quickConfig())
		Expect(temps).To(HaveLen(4))
		Expect(temps[0]).To(Equal(0.0))
		Expect(temps[3]).To(BeNumerically("~", 0.75, 1e-9))
	})
})
