package insts_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/y86sim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Single byte instructions", func() {
		It("should decode HALT", func() {
			inst, next, err := decoder.Decode(insts.Bytes{0x00}, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Halt()))
			Expect(next).To(Equal(uint64(1)))
		})

		It("should decode NOP and RET at a non-zero PC", func() {
			code := insts.Bytes{0x00, 0x10, 0x90}

			inst, next, err := decoder.Decode(code, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpNop))
			Expect(next).To(Equal(uint64(2)))

			inst, next, err = decoder.Decode(code, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpRet))
			Expect(next).To(Equal(uint64(3)))
		})
	})

	Describe("Register instructions", func() {
		// cmovle %rdx, %rbx -> 21 23
		It("should decode cmovle %rdx, %rbx", func() {
			inst, next, err := decoder.Decode(insts.Bytes{0x21, 0x23}, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpCmov))
			Expect(inst.Cond).To(Equal(insts.CondLE))
			Expect(inst.RA).To(Equal(insts.RDX))
			Expect(inst.RB).To(Equal(insts.RBX))
			Expect(next).To(Equal(uint64(2)))
		})

		// subq %rax, %r14 -> 61 0e
		It("should decode subq %rax, %r14", func() {
			inst, _, err := decoder.Decode(insts.Bytes{0x61, 0x0e}, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Opq(insts.ALUSub, insts.RAX, insts.R14)))
		})

		// pushq %rbp -> a0 5f
		It("should decode pushq %rbp and popq %rsp", func() {
			inst, _, err := decoder.Decode(insts.Bytes{0xa0, 0x5f}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Pushq(insts.RBP)))

			inst, _, err = decoder.Decode(insts.Bytes{0xb0, 0x4f}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Popq(insts.RSP)))
		})

		It("should decode a 0xf register nibble as no register", func() {
			inst, _, err := decoder.Decode(insts.Bytes{0x20, 0xff}, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.RA).To(Equal(insts.RNone))
			Expect(inst.RB).To(Equal(insts.RNone))
		})

		It("should ignore the unused nibble of pushq", func() {
			inst, _, err := decoder.Decode(insts.Bytes{0xa0, 0x03}, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Pushq(insts.RAX)))
		})
	})

	Describe("Literal instructions", func() {
		// irmovq $0x100, %rsp -> 30 f4 00 01 00 00 00 00 00 00
		It("should decode irmovq with a little-endian immediate", func() {
			code := insts.Bytes{0x30, 0xf4, 0x00, 0x01, 0, 0, 0, 0, 0, 0}

			inst, next, err := decoder.Decode(code, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Irmovq(insts.RSP, 0x100)))
			Expect(next).To(Equal(uint64(10)))
		})

		// rmmovq %rcx, -8(%rbp) -> 40 15 f8 ff ff ff ff ff ff ff
		It("should decode rmmovq with a negative displacement", func() {
			code := insts.Bytes{0x40, 0x15, 0xf8, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

			inst, _, err := decoder.Decode(code, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpRmmovq))
			Expect(inst.RA).To(Equal(insts.RCX))
			Expect(inst.RB).To(Equal(insts.RBP))
			Expect(int64(inst.Imm)).To(Equal(int64(-8)))
		})

		// jne 0x2a -> 74 2a 00 00 00 00 00 00 00
		It("should decode jne with a fall-through of pc+9", func() {
			code := make(insts.Bytes, 0x20)
			copy(code[0x10:], []byte{0x74, 0x2a, 0, 0, 0, 0, 0, 0, 0})

			inst, next, err := decoder.Decode(code, 0x10)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Jump(insts.CondNE, 0x2a)))
			Expect(next).To(Equal(uint64(0x19)))
		})

		It("should decode call", func() {
			code := insts.Bytes{0x80, 0xef, 0xbe, 0, 0, 0, 0, 0, 0}

			inst, next, err := decoder.Decode(code, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Call(0xbeef)))
			Expect(next).To(Equal(uint64(9)))
		})
	})

	Describe("Invalid encodings", func() {
		DescribeTable("should reject unknown families",
			func(opcode byte) {
				_, _, err := decoder.Decode(insts.Bytes{opcode, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0)

				Expect(err).To(MatchError(insts.ErrInvalidOpcode))
				var decodeErr *insts.DecodeError
				Expect(errors.As(err, &decodeErr)).To(BeTrue())
				Expect(decodeErr.Byte).To(Equal(opcode))
			},
			Entry("0xc0", byte(0xc0)),
			Entry("0xd0", byte(0xd0)),
			Entry("0xe0", byte(0xe0)),
			Entry("0xff", byte(0xff)),
		)

		DescribeTable("should reject undefined function codes",
			func(opcode byte) {
				_, _, err := decoder.Decode(insts.Bytes{opcode, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0)
				Expect(err).To(MatchError(insts.ErrInvalidOpcode))
			},
			Entry("cmov cond 7", byte(0x27)),
			Entry("jxx cond 15", byte(0x7f)),
			Entry("opq op 4", byte(0x64)),
			Entry("halt with function code", byte(0x01)),
			Entry("ret with function code", byte(0x93)),
		)

		It("should report the PC of the bad opcode", func() {
			_, _, err := decoder.Decode(insts.Bytes{0x10, 0x10, 0xc0}, 2)

			var decodeErr *insts.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(decodeErr.PC).To(Equal(uint64(2)))
		})

		It("should fail on a truncated literal", func() {
			_, _, err := decoder.Decode(insts.Bytes{0x30, 0xf0, 0x01, 0x02}, 0)
			Expect(err).To(MatchError(insts.ErrTruncated))
		})

		It("should fail on a missing register byte", func() {
			_, _, err := decoder.Decode(insts.Bytes{0x60}, 0)
			Expect(err).To(MatchError(insts.ErrTruncated))
		})

		It("should fail when the PC is past the end", func() {
			_, _, err := decoder.Decode(insts.Bytes{0x00}, 1)
			Expect(err).To(MatchError(insts.ErrTruncated))
		})
	})

	Describe("DecodeBytes", func() {
		It("should return the instruction length", func() {
			inst, n, err := insts.DecodeBytes([]byte{0x50, 0x34, 0x10, 0, 0, 0, 0, 0, 0, 0, 0x00})

			Expect(err).NotTo(HaveOccurred())
			Expect(inst).To(Equal(insts.Mrmovq(insts.RBX, insts.RSP, 0x10)))
			Expect(n).To(Equal(10))
		})
	})
})
