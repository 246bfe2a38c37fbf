package asm

import (
	"errors"
	"strconv"

	"github.com/sarchlab/y86sim/translate"
)

var f = translate.From

var (
	// ErrUnknownMnemonic reports an instruction or directive that does not
	// exist.
	ErrUnknownMnemonic = errors.New(f("unknown mnemonic"))
	// ErrOperandCount reports the wrong number of operands.
	ErrOperandCount = errors.New(f("wrong number of operands"))
	// ErrBadOperand reports an operand of the wrong kind, such as a missing
	// register.
	ErrBadOperand = errors.New(f("bad operand"))
	// ErrDuplicateLabel reports a label or equate defined twice.
	ErrDuplicateLabel = errors.New(f("duplicate label"))
	// ErrBadExpression reports an expression that does not evaluate to an
	// integer.
	ErrBadExpression = errors.New(f("bad expression"))
	// ErrNotAssembled reports a listing requested before any program was
	// assembled.
	ErrNotAssembled = errors.New(f("nothing assembled"))
)

// SyntaxError describes an error on one source line.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (err *SyntaxError) Error() string {
	return f("line %s: %v: %q", strconv.Itoa(err.Line), err.Err, err.Text)
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}
