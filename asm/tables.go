package asm

import "github.com/sarchlab/y86sim/insts"

// form is the operand shape of a mnemonic.
type form uint8

const (
	formNone form = iota // halt
	formRR               // addq %rax, %rbx
	formIR               // irmovq $1, %rax
	formRM               // rmmovq %rax, 8(%rbx)
	formMR               // mrmovq 8(%rbx), %rax
	formDest             // jmp loop
	formReg              // pushq %rax
)

func (f form) operands() int {
	switch f {
	case formNone:
		return 0
	case formDest, formReg:
		return 1
	default:
		return 2
	}
}

type mnemonic struct {
	op   insts.Op
	cond insts.Cond
	alu  insts.ALUOp
	form form
}

var mnemonics = map[string]mnemonic{
	"halt": {op: insts.OpHalt, form: formNone},
	"nop":  {op: insts.OpNop, form: formNone},
	"ret":  {op: insts.OpRet, form: formNone},

	"rrmovq": {op: insts.OpCmov, cond: insts.CondAlways, form: formRR},
	"cmovle": {op: insts.OpCmov, cond: insts.CondLE, form: formRR},
	"cmovl":  {op: insts.OpCmov, cond: insts.CondL, form: formRR},
	"cmove":  {op: insts.OpCmov, cond: insts.CondE, form: formRR},
	"cmovne": {op: insts.OpCmov, cond: insts.CondNE, form: formRR},
	"cmovge": {op: insts.OpCmov, cond: insts.CondGE, form: formRR},
	"cmovg":  {op: insts.OpCmov, cond: insts.CondG, form: formRR},

	"irmovq": {op: insts.OpIrmovq, form: formIR},
	"rmmovq": {op: insts.OpRmmovq, form: formRM},
	"mrmovq": {op: insts.OpMrmovq, form: formMR},

	"addq": {op: insts.OpOpq, alu: insts.ALUAdd, form: formRR},
	"subq": {op: insts.OpOpq, alu: insts.ALUSub, form: formRR},
	"andq": {op: insts.OpOpq, alu: insts.ALUAnd, form: formRR},
	"xorq": {op: insts.OpOpq, alu: insts.ALUXor, form: formRR},

	"jmp": {op: insts.OpJump, cond: insts.CondAlways, form: formDest},
	"jle": {op: insts.OpJump, cond: insts.CondLE, form: formDest},
	"jl":  {op: insts.OpJump, cond: insts.CondL, form: formDest},
	"je":  {op: insts.OpJump, cond: insts.CondE, form: formDest},
	"jne": {op: insts.OpJump, cond: insts.CondNE, form: formDest},
	"jge": {op: insts.OpJump, cond: insts.CondGE, form: formDest},
	"jg":  {op: insts.OpJump, cond: insts.CondG, form: formDest},

	"call": {op: insts.OpCall, form: formDest},

	"pushq": {op: insts.OpPushq, form: formReg},
	"popq":  {op: insts.OpPopq, form: formReg},
}
