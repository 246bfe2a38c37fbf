package insts

import "fmt"

// Op is an instruction family, the high nibble of the opcode byte.
type Op uint8

// Y86-64 instruction families.
const (
	OpHalt   Op = 0x0
	OpNop    Op = 0x1
	OpCmov   Op = 0x2
	OpIrmovq Op = 0x3
	OpRmmovq Op = 0x4
	OpMrmovq Op = 0x5
	OpOpq    Op = 0x6
	OpJump   Op = 0x7
	OpCall   Op = 0x8
	OpRet    Op = 0x9
	OpPushq  Op = 0xa
	OpPopq   Op = 0xb
)

var opNames = [...]string{
	OpHalt:   "halt",
	OpNop:    "nop",
	OpCmov:   "cmov",
	OpIrmovq: "irmovq",
	OpRmmovq: "rmmovq",
	OpMrmovq: "mrmovq",
	OpOpq:    "opq",
	OpJump:   "jxx",
	OpCall:   "call",
	OpRet:    "ret",
	OpPushq:  "pushq",
	OpPopq:   "popq",
}

// Valid reports whether op is one of the twelve families.
func (op Op) Valid() bool {
	return op <= OpPopq
}

func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Op(%#x)", uint8(op))
	}
	return opNames[op]
}

// Length returns the encoded size in bytes of every instruction of the family,
// or 0 for an unknown family.
func Length(op Op) int {
	switch op {
	case OpHalt, OpNop, OpRet:
		return 1
	case OpCmov, OpOpq, OpPushq, OpPopq:
		return 2
	case OpJump, OpCall:
		return 9
	case OpIrmovq, OpRmmovq, OpMrmovq:
		return 10
	default:
		return 0
	}
}

// hasRegisters reports whether the family carries a register byte.
func hasRegisters(op Op) bool {
	switch op {
	case OpCmov, OpIrmovq, OpRmmovq, OpMrmovq, OpOpq, OpPushq, OpPopq:
		return true
	}
	return false
}

// hasLiteral reports whether the family carries a 64-bit literal.
func hasLiteral(op Op) bool {
	switch op {
	case OpIrmovq, OpRmmovq, OpMrmovq, OpJump, OpCall:
		return true
	}
	return false
}

// Cond is a condition code used by conditional moves and jumps.
type Cond uint8

// Condition codes.
const (
	CondAlways Cond = 0 // Unconditional
	CondLE     Cond = 1 // Less or equal
	CondL      Cond = 2 // Less
	CondE      Cond = 3 // Equal
	CondNE     Cond = 4 // Not equal
	CondGE     Cond = 5 // Greater or equal
	CondG      Cond = 6 // Greater
)

var condSuffixes = [...]string{"", "le", "l", "e", "ne", "ge", "g"}

// Valid reports whether c is a defined condition code.
func (c Cond) Valid() bool {
	return c <= CondG
}

// Suffix returns the mnemonic suffix of the condition ("" for always).
func (c Cond) Suffix() string {
	if !c.Valid() {
		return fmt.Sprintf("?%d", uint8(c))
	}
	return condSuffixes[c]
}

func (c Cond) String() string {
	if c == CondAlways {
		return "always"
	}
	return c.Suffix()
}

// ALUOp is an arithmetic/logic operation of the OPQ family.
type ALUOp uint8

// ALU operations.
const (
	ALUAdd ALUOp = 0
	ALUSub ALUOp = 1
	ALUAnd ALUOp = 2
	ALUXor ALUOp = 3
)

var aluNames = [...]string{"addq", "subq", "andq", "xorq"}

// Valid reports whether a is a defined ALU operation.
func (a ALUOp) Valid() bool {
	return a <= ALUXor
}

func (a ALUOp) String() string {
	if !a.Valid() {
		return fmt.Sprintf("ALUOp(%d)", uint8(a))
	}
	return aluNames[a]
}

// Instruction is a decoded Y86-64 instruction.
//
// Field use depends on Op. Unused register fields hold RNone and other unused
// fields are zero, so decoded values compare with ==.
type Instruction struct {
	Op   Op    // Instruction family
	Cond Cond  // Condition for OpCmov and OpJump
	ALU  ALUOp // Operation for OpOpq

	// RA is the source register (cmov, rmmovq, opq, pushq, popq) or the
	// destination of mrmovq.
	RA Register
	// RB is the destination (cmov, irmovq, opq) or base register (rmmovq,
	// mrmovq).
	RB Register

	// Imm is the immediate, displacement or target literal (valC).
	Imm uint64
}

// Length returns the encoded size of the instruction.
func (inst Instruction) Length() int {
	return Length(inst.Op)
}

// Halt builds a HALT instruction.
func Halt() Instruction {
	return Instruction{Op: OpHalt, RA: RNone, RB: RNone}
}

// Nop builds a NOP instruction.
func Nop() Instruction {
	return Instruction{Op: OpNop, RA: RNone, RB: RNone}
}

// Cmov builds a conditional move from src to dst. CondAlways gives rrmovq.
func Cmov(cond Cond, src, dst Register) Instruction {
	return Instruction{Op: OpCmov, Cond: cond, RA: src, RB: dst}
}

// Irmovq builds an immediate-to-register move.
func Irmovq(dst Register, imm uint64) Instruction {
	return Instruction{Op: OpIrmovq, RA: RNone, RB: dst, Imm: imm}
}

// Rmmovq builds a store of src to disp(base).
func Rmmovq(src, base Register, disp uint64) Instruction {
	return Instruction{Op: OpRmmovq, RA: src, RB: base, Imm: disp}
}

// Mrmovq builds a load from disp(base) into dst.
func Mrmovq(dst, base Register, disp uint64) Instruction {
	return Instruction{Op: OpMrmovq, RA: dst, RB: base, Imm: disp}
}

// Opq builds an ALU instruction writing op(src, dst) into dst.
func Opq(op ALUOp, src, dst Register) Instruction {
	return Instruction{Op: OpOpq, ALU: op, RA: src, RB: dst}
}

// Jump builds a jump to target, taken when cond holds.
func Jump(cond Cond, target uint64) Instruction {
	return Instruction{Op: OpJump, Cond: cond, RA: RNone, RB: RNone, Imm: target}
}

// Call builds a call to target.
func Call(target uint64) Instruction {
	return Instruction{Op: OpCall, RA: RNone, RB: RNone, Imm: target}
}

// Ret builds a RET instruction.
func Ret() Instruction {
	return Instruction{Op: OpRet, RA: RNone, RB: RNone}
}

// Pushq builds a push of reg.
func Pushq(reg Register) Instruction {
	return Instruction{Op: OpPushq, RA: reg, RB: RNone}
}

// Popq builds a pop into reg.
func Popq(reg Register) Instruction {
	return Instruction{Op: OpPopq, RA: reg, RB: RNone}
}

// String renders the instruction in Y86-64 assembly syntax.
func (inst Instruction) String() string {
	switch inst.Op {
	case OpHalt, OpNop, OpRet:
		return inst.Op.String()
	case OpCmov:
		if inst.Cond == CondAlways {
			return fmt.Sprintf("rrmovq %v, %v", inst.RA, inst.RB)
		}
		return fmt.Sprintf("cmov%s %v, %v", inst.Cond.Suffix(), inst.RA, inst.RB)
	case OpIrmovq:
		return fmt.Sprintf("irmovq $%#x, %v", inst.Imm, inst.RB)
	case OpRmmovq:
		return fmt.Sprintf("rmmovq %v, %#x(%v)", inst.RA, inst.Imm, inst.RB)
	case OpMrmovq:
		return fmt.Sprintf("mrmovq %#x(%v), %v", inst.Imm, inst.RB, inst.RA)
	case OpOpq:
		return fmt.Sprintf("%v %v, %v", inst.ALU, inst.RA, inst.RB)
	case OpJump:
		if inst.Cond == CondAlways {
			return fmt.Sprintf("jmp %#x", inst.Imm)
		}
		return fmt.Sprintf("j%s %#x", inst.Cond.Suffix(), inst.Imm)
	case OpCall:
		return fmt.Sprintf("call %#x", inst.Imm)
	case OpPushq, OpPopq:
		return fmt.Sprintf("%v %v", inst.Op, inst.RA)
	default:
		return fmt.Sprintf("<invalid %v>", inst.Op)
	}
}
