package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/y86sim/timing/core"
)

var _ = Describe("BranchPredictor", func() {
	Describe("AlwaysTaken", func() {
		It("should predict taken and count outcomes", func() {
			bp := core.NewAlwaysTaken()

			Expect(bp.Predict(0x10)).To(BeTrue())
			bp.Update(0x10, true)
			Expect(bp.Predict(0x10)).To(BeTrue())
			bp.Update(0x10, false)

			stats := bp.Stats()
			Expect(stats.Predictions).To(Equal(uint64(2)))
			Expect(stats.Correct).To(Equal(uint64(1)))
			Expect(stats.Mispredictions).To(Equal(uint64(1)))
			Expect(stats.Accuracy()).To(Equal(50.0))

			bp.Reset()
			Expect(bp.Stats()).To(Equal(core.PredictorStats{}))
		})
	})

	Describe("Bimodal", func() {
		var bp *core.Bimodal

		BeforeEach(func() {
			bp = core.NewBimodal(16)
		})

		It("should initially predict taken", func() {
			Expect(bp.Predict(0x20)).To(BeTrue())
		})

		It("should move one counter step per outcome", func() {
			bp.Update(0x20, false)
			Expect(bp.Predict(0x20)).To(BeFalse())

			bp.Update(0x20, true)
			Expect(bp.Predict(0x20)).To(BeTrue())

			bp.Update(0x20, true)
			bp.Update(0x20, false)
			Expect(bp.Predict(0x20)).To(BeTrue())
		})

		It("should keep separate counters for nearby jumps", func() {
			bp.Update(0x20, false)
			bp.Update(0x20, false)

			Expect(bp.Predict(0x20)).To(BeFalse())
			Expect(bp.Predict(0x21)).To(BeTrue())
		})

		It("should alias jumps that share low PC bits", func() {
			bp.Update(0x05, false)
			bp.Update(0x05, false)

			Expect(bp.Predict(0x15)).To(BeFalse())
		})

		It("should reset counters and statistics", func() {
			bp.Update(0x20, false)
			bp.Update(0x20, false)
			bp.Reset()

			Expect(bp.Stats()).To(Equal(core.PredictorStats{}))
			Expect(bp.Predict(0x20)).To(BeTrue())
		})

		It("should default its size", func() {
			def := core.NewBimodal(0)
			def.Update(0x00, false)
			def.Update(0x00, false)

			Expect(def.Predict(core.DefaultBimodalSize)).To(BeFalse())
			Expect(def.Predict(core.DefaultBimodalSize - 1)).To(BeTrue())
		})

		It("should report zero accuracy before predicting", func() {
			Expect(bp.Stats().Accuracy()).To(Equal(0.0))
		})
	})
})
