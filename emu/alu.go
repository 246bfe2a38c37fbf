package emu

import "github.com/sarchlab/y86sim/insts"

// ALU implements the OPQ operations and their condition codes.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Execute computes op(valA, valB) with wrapping 64-bit arithmetic and
// returns the result with the flags it produces. Subtraction is valA - valB.
func (a *ALU) Execute(op insts.ALUOp, valA, valB uint64) (uint64, Flags) {
	var result uint64
	var overflow bool

	switch op {
	case insts.ALUAdd:
		result = valA + valB
		overflow = addOverflow(valA, valB, result)
	case insts.ALUSub:
		result = valA - valB
		overflow = subOverflow(valA, valB, result)
	case insts.ALUAnd:
		result = valA & valB
	case insts.ALUXor:
		result = valA ^ valB
	}

	return result, Flags{
		SF: result>>63 == 1,
		ZF: result == 0,
		OF: overflow,
	}
}

// addOverflow reports signed overflow of a + b: both operands share a sign
// that the result does not.
func addOverflow(a, b, result uint64) bool {
	return ((a^result)&(b^result))>>63 == 1
}

// subOverflow reports signed overflow of a - b: the operands differ in sign
// and the result's sign differs from a.
func subOverflow(a, b, result uint64) bool {
	return ((a^b)&(a^result))>>63 == 1
}
