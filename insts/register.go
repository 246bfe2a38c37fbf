package insts

import (
	"fmt"
	"strings"
)

// Register identifies one of the fifteen general-purpose registers.
type Register uint8

// Registers, numbered as they appear in a register byte.
const (
	RAX Register = 0x0
	RCX Register = 0x1
	RDX Register = 0x2
	RBX Register = 0x3
	RSP Register = 0x4
	RBP Register = 0x5
	RSI Register = 0x6
	RDI Register = 0x7
	R8  Register = 0x8
	R9  Register = 0x9
	R10 Register = 0xa
	R11 Register = 0xb
	R12 Register = 0xc
	R13 Register = 0xd
	R14 Register = 0xe

	// RNone marks an absent register operand.
	RNone Register = 0xf
)

// NumRegisters is the size of the register file.
const NumRegisters = 15

var registerNames = [...]string{
	"%rax", "%rcx", "%rdx", "%rbx", "%rsp", "%rbp", "%rsi", "%rdi",
	"%r8", "%r9", "%r10", "%r11", "%r12", "%r13", "%r14",
}

// Valid reports whether r names a real register. RNone is not one.
func (r Register) Valid() bool {
	return r < NumRegisters
}

func (r Register) String() string {
	switch {
	case r.Valid():
		return registerNames[r]
	case r == RNone:
		return "none"
	default:
		return fmt.Sprintf("Register(%#x)", uint8(r))
	}
}

// Registers returns all valid registers in encoding order.
func Registers() []Register {
	regs := make([]Register, NumRegisters)
	for i := range regs {
		regs[i] = Register(i)
	}
	return regs
}

// ParseRegister converts a name such as "%rax" into a Register. The leading
// % is optional.
func ParseRegister(name string) (Register, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "%") {
		name = "%" + name
	}
	for i, n := range registerNames {
		if n == name {
			return Register(i), true
		}
	}
	return RNone, false
}
