package emu

import (
	"errors"
	"strconv"

	"github.com/sarchlab/y86sim/insts"
	"github.com/sarchlab/y86sim/translate"
)

var f = translate.From

var (
	// ErrMemoryOutOfBounds reports a fetch, load or store outside memory.
	ErrMemoryOutOfBounds = errors.New(f("memory out of bounds"))
	// ErrImageTooLarge reports a program image that does not fit in memory.
	ErrImageTooLarge = errors.New(f("image too large"))
	// ErrStepAfterTerminal reports a Step on a halted or faulted machine.
	ErrStepAfterTerminal = errors.New(f("step after terminal state"))
	// ErrMaxInstructions reports that Run hit its instruction limit.
	ErrMaxInstructions = errors.New(f("max instructions reached"))
)

// MemoryError describes an out-of-bounds access.
type MemoryError struct {
	Addr uint64
	Size uint64
}

func (err *MemoryError) Error() string {
	return f("memory out of bounds: %s bytes at 0x%x", strconv.FormatUint(err.Size, 10), err.Addr)
}

// Is matches ErrMemoryOutOfBounds.
func (err *MemoryError) Is(target error) bool {
	return target == ErrMemoryOutOfBounds
}

// ImageError describes a program image that does not fit.
type ImageError struct {
	Addr uint64
	Len  int
}

func (err *ImageError) Error() string {
	return f("image too large: %s bytes at 0x%x", strconv.Itoa(err.Len), err.Addr)
}

// Is matches ErrImageTooLarge.
func (err *ImageError) Is(target error) bool {
	return target == ErrImageTooLarge
}

// StepError indicates the PC of the instruction that faulted.
type StepError struct {
	PC  uint64
	Err error
}

func (err *StepError) Error() string {
	return f("pc 0x%03x: %v", err.PC, err.Err)
}

func (err *StepError) Unwrap() error {
	return err.Err
}

// FaultKind classifies why a step faulted.
type FaultKind uint8

// Fault kinds.
const (
	FaultNone FaultKind = iota
	FaultInvalidOpcode
	FaultMemoryOutOfBounds
)

func (k FaultKind) String() string {
	switch k {
	case FaultNone:
		return "none"
	case FaultInvalidOpcode:
		return "invalid opcode"
	case FaultMemoryOutOfBounds:
		return "memory out of bounds"
	default:
		return "unknown"
	}
}

func faultKindOf(err error) FaultKind {
	switch {
	case errors.Is(err, insts.ErrInvalidOpcode):
		return FaultInvalidOpcode
	case errors.Is(err, ErrMemoryOutOfBounds):
		return FaultMemoryOutOfBounds
	default:
		return FaultNone
	}
}
