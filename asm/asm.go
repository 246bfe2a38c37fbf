// Package asm assembles Y86-64 source into programs the loader and emulator
// accept.
//
// Source has one statement per line. A statement may be preceded by labels
// and followed by a '#' comment:
//
//	    .pos 0
//	    irmovq stack, %rsp
//	    call main
//	    halt
//	main:
//	    irmovq $len*8, %rax
//	    ret
//	    .equ len, 4
//	    .pos 0x200
//	stack:
//
// Expressions are evaluated with labels and equates in scope.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"maps"

	"github.com/sarchlab/y86sim/insts"
	"github.com/sarchlab/y86sim/loader"
)

// An Assembler assembles Y86-64 source in two passes. The first pass sizes
// statements and assigns labels, the second encodes them.
type Assembler struct {
	pass    int
	pc      uint64
	labels  map[string]uint64
	equates map[string]uint64

	prog    *loader.Program
	listing []listingLine
}

// New creates an assembler.
func New() *Assembler {
	return &Assembler{}
}

// Assemble reads and assembles src. Assembly starts at address 0, which is
// also the entry point.
func (a *Assembler) Assemble(src io.Reader) (*loader.Program, error) {
	var lines []string
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	a.labels = make(map[string]uint64)
	a.equates = make(map[string]uint64)
	a.prog = nil
	a.listing = nil

	prog := &loader.Program{}
	for pass := 0; pass < 2; pass++ {
		a.pass = pass
		a.pc = 0
		a.listing = a.listing[:0]
		prog = &loader.Program{}

		for i, text := range lines {
			if err := a.assembleLine(prog, text); err != nil {
				return nil, &SyntaxError{Line: i + 1, Text: text, Err: err}
			}
		}
	}

	a.prog = prog
	return prog, nil
}

// Symbols returns the labels and equates of the last assembly.
func (a *Assembler) Symbols() map[string]uint64 {
	symbols := make(map[string]uint64, len(a.labels)+len(a.equates))
	maps.Copy(symbols, a.equates)
	maps.Copy(symbols, a.labels)
	return symbols
}

func (a *Assembler) assembleLine(prog *loader.Program, text string) error {
	stmt, err := parseLine(text)
	if err != nil {
		return err
	}

	entry := listingLine{text: text}
	if len(stmt.labels) > 0 || stmt.op != "" {
		entry.hasAddr = true
		entry.addr = a.pc
	}

	for _, label := range stmt.labels {
		if err := a.defineLabel(label); err != nil {
			return err
		}
	}

	var data []byte
	if stmt.op != "" {
		if stmt.op[0] == '.' {
			data, err = a.directive(stmt)
		} else {
			data, err = a.instruction(stmt)
		}
		if err != nil {
			return err
		}
	}

	switch {
	case len(data) > 0:
		entry.addr = a.pc
		entry.data = data
		prog.Append(a.pc, data)
		a.pc += uint64(len(data))
	case stmt.op == ".pos" || stmt.op == ".align":
		entry.addr = a.pc
	}

	a.listing = append(a.listing, entry)
	return nil
}

func (a *Assembler) defineLabel(label string) error {
	if a.pass > 0 {
		return nil
	}
	if _, ok := a.labels[label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, label)
	}
	if _, ok := a.equates[label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, label)
	}
	a.labels[label] = a.pc
	return nil
}

func (a *Assembler) directive(stmt statement) ([]byte, error) {
	switch stmt.op {
	case ".pos":
		if len(stmt.args) != 1 {
			return nil, ErrOperandCount
		}
		pos, err := a.eval(stmt.args[0], true)
		if err != nil {
			return nil, err
		}
		a.pc = pos
	case ".align":
		if len(stmt.args) != 1 {
			return nil, ErrOperandCount
		}
		align, err := a.eval(stmt.args[0], true)
		if err != nil {
			return nil, err
		}
		if align == 0 {
			return nil, fmt.Errorf("%w: zero alignment", ErrBadOperand)
		}
		if rem := a.pc % align; rem != 0 {
			a.pc += align - rem
		}
	case ".quad":
		if len(stmt.args) != 1 {
			return nil, ErrOperandCount
		}
		value, err := a.eval(stmt.args[0], false)
		if err != nil {
			return nil, err
		}
		data := make([]byte, 8)
		for i := range data {
			data[i] = byte(value >> (8 * i))
		}
		return data, nil
	case ".equ":
		if len(stmt.args) != 2 {
			return nil, ErrOperandCount
		}
		return nil, a.defineEquate(stmt.args[0], stmt.args[1])
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMnemonic, stmt.op)
	}
	return nil, nil
}

func (a *Assembler) defineEquate(name, expr string) error {
	if !isIdent(name) {
		return fmt.Errorf("%w: %q is not a name", ErrBadOperand, name)
	}
	if _, ok := a.labels[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, name)
	}
	if _, ok := a.equates[name]; ok && a.pass == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, name)
	}

	value, err := a.eval(expr, false)
	if err != nil {
		return err
	}
	a.equates[name] = value
	return nil
}

func (a *Assembler) instruction(stmt statement) ([]byte, error) {
	m, ok := mnemonics[stmt.op]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMnemonic, stmt.op)
	}
	if len(stmt.args) != m.form.operands() {
		return nil, fmt.Errorf("%w: %s takes %d", ErrOperandCount, stmt.op, m.form.operands())
	}

	inst := insts.Instruction{
		Op:   m.op,
		Cond: m.cond,
		ALU:  m.alu,
		RA:   insts.RNone,
		RB:   insts.RNone,
	}

	var err error
	switch m.form {
	case formRR:
		if inst.RA, err = register(stmt.args[0]); err != nil {
			return nil, err
		}
		inst.RB, err = register(stmt.args[1])
	case formIR:
		if inst.Imm, err = a.eval(immediate(stmt.args[0]), false); err != nil {
			return nil, err
		}
		inst.RB, err = register(stmt.args[1])
	case formRM:
		if inst.RA, err = register(stmt.args[0]); err != nil {
			return nil, err
		}
		inst.Imm, inst.RB, err = a.memory(stmt.args[1])
	case formMR:
		if inst.Imm, inst.RB, err = a.memory(stmt.args[0]); err != nil {
			return nil, err
		}
		inst.RA, err = register(stmt.args[1])
	case formDest:
		inst.Imm, err = a.eval(stmt.args[0], false)
	case formReg:
		inst.RA, err = register(stmt.args[0])
	}
	if err != nil {
		return nil, err
	}

	return insts.Encode(inst)
}
