// Package latency provides instruction timing models for Y86-64 programs.
//
// Latencies are configurable via TimingConfig.
package latency

import (
	"github.com/sarchlab/y86sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the base latency in cycles for the given instruction.
// Cache and misprediction costs are charged separately.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Op {
	case insts.OpOpq:
		return t.config.ALULatency

	case insts.OpNop, insts.OpCmov, insts.OpIrmovq:
		return t.config.MoveLatency

	case insts.OpMrmovq, insts.OpPopq:
		return t.config.LoadLatency

	case insts.OpRmmovq, insts.OpPushq:
		return t.config.StoreLatency

	case insts.OpJump, insts.OpCall, insts.OpRet:
		return t.config.BranchLatency

	case insts.OpHalt:
		return t.config.HaltLatency

	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction reads data memory. RET reads its
// return address from the stack.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpMrmovq, insts.OpPopq, insts.OpRet:
		return true
	default:
		return false
	}
}

// IsStoreOp returns true if the instruction writes data memory. CALL writes
// its return address to the stack.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpRmmovq, insts.OpPushq, insts.OpCall:
		return true
	default:
		return false
	}
}

// IsBranchOp returns true if the instruction can redirect the PC.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpJump, insts.OpCall, insts.OpRet:
		return true
	default:
		return false
	}
}

// IsConditionalBranch returns true for jumps other than jmp.
func (t *Table) IsConditionalBranch(inst *insts.Instruction) bool {
	return inst != nil && inst.Op == insts.OpJump && inst.Cond != insts.CondAlways
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
