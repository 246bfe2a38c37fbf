package emu

import "github.com/sarchlab/y86sim/insts"

// CondRules selects how condition codes are evaluated against the flags.
type CondRules uint8

const (
	// CondRulesStandard evaluates L as SF != OF and the other conditions
	// from SF and ZF only.
	CondRulesStandard CondRules = iota
	// CondRulesReference evaluates L as SF && ZF, reproducing the trace of
	// the reference simulator.
	CondRulesReference
	// CondRulesSigned evaluates every ordered condition from SF != OF.
	CondRulesSigned
)

func (r CondRules) String() string {
	switch r {
	case CondRulesStandard:
		return "standard"
	case CondRulesReference:
		return "reference"
	case CondRulesSigned:
		return "signed"
	default:
		return "unknown"
	}
}

// BranchUnit evaluates conditions for jumps and conditional moves.
type BranchUnit struct {
	regFile *RegFile
	rules   CondRules
}

// NewBranchUnit creates a new BranchUnit reading flags from regFile.
func NewBranchUnit(regFile *RegFile, rules CondRules) *BranchUnit {
	return &BranchUnit{regFile: regFile, rules: rules}
}

// Rules returns the condition rules in use.
func (b *BranchUnit) Rules() CondRules {
	return b.rules
}

// CheckCondition evaluates a condition code against the current flags.
func (b *BranchUnit) CheckCondition(cond insts.Cond) bool {
	flags := b.regFile.Flags
	sf, zf, of := flags.SF, flags.ZF, flags.OF

	if b.rules == CondRulesSigned {
		less := sf != of
		switch cond {
		case insts.CondLE:
			return less || zf
		case insts.CondL:
			return less
		case insts.CondGE:
			return !less
		case insts.CondG:
			return !less && !zf
		}
	}

	switch cond {
	case insts.CondAlways:
		return true
	case insts.CondLE:
		return sf || zf
	case insts.CondL:
		if b.rules == CondRulesReference {
			return sf && zf
		}
		return sf != of
	case insts.CondE:
		return zf
	case insts.CondNE:
		return !zf
	case insts.CondGE:
		return !sf || zf
	case insts.CondG:
		return !sf && !zf
	default:
		return false
	}
}
