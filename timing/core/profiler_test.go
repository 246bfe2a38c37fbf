package core_test

import (
	"errors"
	"io"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/insts"
	"github.com/sarchlab/y86sim/timing/cache"
	"github.com/sarchlab/y86sim/timing/core"
	"github.com/sarchlab/y86sim/timing/latency"
)

var _ = Describe("Profiler", func() {
	var logger *logrus.Logger

	BeforeEach(func() {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	})

	newEmulator := func(image []byte, opts ...emu.EmulatorOption) *emu.Emulator {
		opts = append([]emu.EmulatorOption{emu.WithLogger(logger)}, opts...)
		e, err := emu.Load(image, 0, opts...)
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	program := func(code ...insts.Instruction) []byte {
		image, err := insts.EncodeProgram(code...)
		Expect(err).NotTo(HaveOccurred())
		return image
	}

	run := func(p *core.Profiler) core.Stats {
		status, err := p.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(emu.StatusHalted))
		return p.Stats()
	}

	It("should charge base latencies", func() {
		e := newEmulator(program(insts.Irmovq(insts.RAX, 1), insts.Halt()))
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Cycles).To(Equal(uint64(2)))
		Expect(stats.Instructions).To(Equal(uint64(2)))
		Expect(stats.CPI()).To(Equal(1.0))
		Expect(p.Emulator()).To(BeIdenticalTo(e))
	})

	It("should charge the mispredict penalty for a jump that falls through", func() {
		e := newEmulator(program(
			insts.Opq(insts.ALUXor, insts.RAX, insts.RAX),
			insts.Jump(insts.CondNE, 0x100),
			insts.Halt(),
		))
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Mispredicts).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(5)))
		Expect(stats.Predictor.Predictions).To(Equal(uint64(1)))
	})

	It("should not charge a taken jump extra", func() {
		// 0x00 xorq %rax, %rax
		// 0x02 je 0x0b
		// 0x0b halt
		e := newEmulator(program(
			insts.Opq(insts.ALUXor, insts.RAX, insts.RAX),
			insts.Jump(insts.CondE, 0x0b),
			insts.Halt(),
		))
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Mispredicts).To(Equal(uint64(0)))
		Expect(stats.Cycles).To(Equal(uint64(3)))
	})

	It("should not predict unconditional jumps", func() {
		e := newEmulator(program(insts.Jump(insts.CondAlways, 9), insts.Halt()))
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Predictor.Predictions).To(Equal(uint64(0)))
	})

	It("should charge the return penalty", func() {
		image := program(insts.Call(0x20), insts.Halt())
		image = append(image, make([]byte, 0x20-len(image))...)
		image = append(image, program(insts.Ret())...)
		e := newEmulator(image, emu.WithStackPointer(0x200))
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Returns).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(6)))
	})

	It("should add data cache latency to loads", func() {
		e := newEmulator(program(
			insts.Irmovq(insts.RBX, 0x100),
			insts.Mrmovq(insts.RAX, insts.RBX, 0),
			insts.Mrmovq(insts.RCX, insts.RBX, 0),
			insts.Halt(),
		))
		dcache := cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(e.Memory()))
		p := core.NewProfiler(e,
			core.WithDataCache(dcache),
			core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Cycles).To(Equal(uint64(17)))
		Expect(stats.MemoryStallCycles).To(Equal(uint64(11)))
		Expect(stats.Cache.Reads).To(Equal(uint64(2)))
		Expect(stats.Cache.Hits).To(Equal(uint64(1)))
		Expect(stats.Cache.Misses).To(Equal(uint64(1)))
	})

	It("should hit after a store to the same line", func() {
		e := newEmulator(program(
			insts.Irmovq(insts.RAX, 7),
			insts.Pushq(insts.RAX),
			insts.Popq(insts.RBX),
			insts.Halt(),
		), emu.WithStackPointer(0x200))
		dcache := cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(e.Memory()))
		p := core.NewProfiler(e,
			core.WithDataCache(dcache),
			core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Cache.Writes).To(Equal(uint64(1)))
		Expect(stats.Cache.Reads).To(Equal(uint64(1)))
		Expect(stats.Cache.Hits).To(Equal(uint64(1)))
		Expect(e.Reg(insts.RBX)).To(Equal(uint64(7)))
	})

	It("should use a custom latency table", func() {
		config := latency.DefaultTimingConfig()
		config.MoveLatency = 4
		e := newEmulator(program(insts.Nop(), insts.Halt()))
		p := core.NewProfiler(e,
			core.WithLatencyTable(latency.NewTableWithConfig(config)),
			core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Cycles).To(Equal(uint64(5)))
	})

	It("should not charge a faulting step", func() {
		e := newEmulator([]byte{0x10, 0xff})
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		status, err := p.Run()

		Expect(status).To(Equal(emu.StatusFaulted))
		Expect(errors.Is(err, insts.ErrInvalidOpcode)).To(BeTrue())
		Expect(p.Stats().Cycles).To(Equal(uint64(1)))
		Expect(p.Stats().Instructions).To(Equal(uint64(1)))
	})

	It("should stop at the emulator's instruction limit", func() {
		e := newEmulator(program(insts.Jump(insts.CondAlways, 0)), emu.WithMaxInstructions(10))
		p := core.NewProfiler(e, core.WithProfilerLogger(logger))

		_, err := p.Run()

		Expect(errors.Is(err, emu.ErrMaxInstructions)).To(BeTrue())
		Expect(p.Stats().Cycles).To(Equal(uint64(10)))
	})

	It("should feed conditional jumps to the configured predictor", func() {
		// 0x00 irmovq $3, %rcx
		// 0x0a irmovq $-1, %rdx
		// 0x14 addq %rdx, %rcx
		// 0x16 jne 0x14
		// 0x1f halt
		e := newEmulator(program(
			insts.Irmovq(insts.RCX, 3),
			insts.Irmovq(insts.RDX, 0xffffffffffffffff),
			insts.Opq(insts.ALUAdd, insts.RDX, insts.RCX),
			insts.Jump(insts.CondNE, 0x14),
			insts.Halt(),
		))
		p := core.NewProfiler(e,
			core.WithBranchPredictor(core.NewBimodal(16)),
			core.WithProfilerLogger(logger))

		stats := run(p)

		Expect(stats.Predictor.Predictions).To(Equal(uint64(3)))
		Expect(stats.Predictor.Correct).To(Equal(uint64(2)))
		Expect(stats.Mispredicts).To(Equal(uint64(1)))
	})

	It("should clear statistics on reset", func() {
		e := newEmulator(program(insts.Nop(), insts.Halt()))
		dcache := cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(e.Memory()))
		p := core.NewProfiler(e, core.WithDataCache(dcache), core.WithProfilerLogger(logger))
		run(p)

		p.Reset()

		Expect(p.Stats()).To(Equal(core.Stats{}))
		Expect(p.Stats().CPI()).To(Equal(0.0))
	})
})
