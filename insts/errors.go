package insts

import (
	"errors"

	"github.com/sarchlab/y86sim/translate"
)

var f = translate.From

var (
	// ErrInvalidOpcode reports an opcode byte whose family or function code
	// is not defined.
	ErrInvalidOpcode = errors.New(f("invalid opcode"))
	// ErrInvalidInstruction reports an Instruction that has no encoding.
	ErrInvalidInstruction = errors.New(f("invalid instruction"))
	// ErrTruncated reports an instruction running past the end of a byte
	// slice.
	ErrTruncated = errors.New(f("truncated instruction"))
)

// DecodeError describes an undecodable opcode byte.
type DecodeError struct {
	PC   uint64
	Byte byte
}

func (err *DecodeError) Error() string {
	return f("invalid opcode 0x%02x at 0x%03x", err.Byte, err.PC)
}

// Is matches ErrInvalidOpcode.
func (err *DecodeError) Is(target error) bool {
	return target == ErrInvalidOpcode
}

// EncodeError describes an Instruction field that cannot be encoded.
type EncodeError struct {
	Inst  Instruction
	Field string
}

func (err *EncodeError) Error() string {
	return f("cannot encode %v: bad %v", err.Inst.Op, err.Field)
}

// Is matches ErrInvalidInstruction.
func (err *EncodeError) Is(target error) bool {
	return target == ErrInvalidInstruction
}
