// Package emu provides functional Y86-64 emulation.
package emu

import "github.com/sarchlab/y86sim/insts"

// RegFile represents the Y86-64 architectural state outside memory: the
// fifteen general-purpose registers, the condition flags and the program
// counter.
type RegFile struct {
	// R holds general-purpose registers, indexed by insts.Register.
	R [insts.NumRegisters]uint64

	// PC is the program counter.
	PC uint64

	// Flags holds the condition codes.
	Flags Flags
}

// Flags represents the condition codes set by OPQ instructions.
type Flags struct {
	// SF is the sign flag.
	SF bool
	// ZF is the zero flag.
	ZF bool
	// OF is the overflow flag.
	OF bool
}

// ReadReg reads a register value. RNone and other out-of-range identifiers
// read as 0.
func (r *RegFile) ReadReg(reg insts.Register) uint64 {
	if !reg.Valid() {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes to RNone are discarded.
func (r *RegFile) WriteReg(reg insts.Register, value uint64) {
	if !reg.Valid() {
		return
	}
	r.R[reg] = value
}
