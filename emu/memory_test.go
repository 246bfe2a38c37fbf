package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/insts"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory()
	})

	It("should store quad words little-endian", func() {
		Expect(memory.Write64(0x10, 0x0102030405060708)).To(Succeed())

		b, err := memory.Read8(0x10)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal(byte(0x08)))

		data, err := memory.Slice(0x10, 8)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{8, 7, 6, 5, 4, 3, 2, 1}))

		v, err := memory.Read64(0x10)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint64(0x0102030405060708)))
	})

	It("should return copies from Slice", func() {
		data, _ := memory.Slice(0, 4)
		data[0] = 0xff

		b, _ := memory.Read8(0)
		Expect(b).To(Equal(byte(0)))
	})

	It("should print sizes without digit grouping", func() {
		_, err := memory.Slice(0, 2000)
		Expect(err).To(MatchError(ContainSubstring("2000 bytes")))

		err = memory.LoadProgram(0, make([]byte, 1500))
		Expect(err).To(MatchError(ContainSubstring("1500 bytes")))
	})

	DescribeTable("out of bounds accesses",
		func(access func() error) {
			err := access()

			Expect(errors.Is(err, emu.ErrMemoryOutOfBounds)).To(BeTrue())
			var memErr *emu.MemoryError
			Expect(errors.As(err, &memErr)).To(BeTrue())
		},
		Entry("read8 at the end", func() error {
			_, err := emu.NewMemory().Read8(emu.MemorySize)
			return err
		}),
		Entry("write8 at the end", func() error {
			return emu.NewMemory().Write8(emu.MemorySize, 1)
		}),
		Entry("read64 straddling the end", func() error {
			_, err := emu.NewMemory().Read64(emu.MemorySize - 7)
			return err
		}),
		Entry("write64 straddling the end", func() error {
			return emu.NewMemory().Write64(emu.MemorySize-1, 1)
		}),
		Entry("read64 with a wrapping address", func() error {
			_, err := emu.NewMemory().Read64(^uint64(0) - 3)
			return err
		}),
		Entry("slice past the end", func() error {
			_, err := emu.NewMemory().Slice(emu.MemorySize-2, 4)
			return err
		}),
	)

	It("should not write any byte of a failed store", func() {
		Expect(memory.Write64(emu.MemorySize-4, ^uint64(0))).NotTo(Succeed())

		tail, _ := memory.Slice(emu.MemorySize-4, 4)
		Expect(tail).To(Equal([]byte{0, 0, 0, 0}))
	})

	It("should load a program and reject one that does not fit", func() {
		Expect(memory.LoadProgram(0x3f0, make([]byte, 0x10))).To(Succeed())

		err := memory.LoadProgram(0x3f0, make([]byte, 0x11))
		Expect(errors.Is(err, emu.ErrImageTooLarge)).To(BeTrue())
	})

	It("should clear all bytes", func() {
		Expect(memory.Write8(5, 9)).To(Succeed())

		memory.Clear()

		b, _ := memory.Read8(5)
		Expect(b).To(Equal(byte(0)))
	})
})

var _ = Describe("RegFile", func() {
	It("should discard writes to RNone and read it as zero", func() {
		rf := &emu.RegFile{}

		rf.WriteReg(insts.RNone, 7)

		Expect(rf.ReadReg(insts.RNone)).To(Equal(uint64(0)))
		Expect(rf.R).To(Equal([insts.NumRegisters]uint64{}))
	})

	It("should read back written registers", func() {
		rf := &emu.RegFile{}

		rf.WriteReg(insts.R14, 0xabc)

		Expect(rf.ReadReg(insts.R14)).To(Equal(uint64(0xabc)))
	})
})
