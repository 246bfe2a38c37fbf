package emu

import "github.com/sarchlab/y86sim/insts"

// stageState carries the values of one instruction through the stages. A
// fresh one is built by every Step.
type stageState struct {
	pc      uint64
	inst    insts.Instruction
	decoded bool

	valA uint64 // first register read
	valB uint64 // second register read
	valC uint64 // immediate, displacement or target
	valE uint64 // ALU or address result
	valM uint64 // value loaded from memory
	valP uint64 // fall-through address

	cnd      bool  // condition outcome for cmov and jxx
	flags    Flags // flags produced by opq
	setFlags bool

	mem MemAccess
}

// fetchStage decodes the instruction at the PC.
func (e *Emulator) fetchStage(s *stageState) error {
	inst, valP, err := e.decoder.Decode(e.memory, s.pc)
	if err != nil {
		return err
	}
	s.inst = inst
	s.decoded = true
	s.valC = inst.Imm
	s.valP = valP
	return nil
}

// decodeStage reads the register operands.
func (e *Emulator) decodeStage(s *stageState) {
	rf := e.regFile
	inst := s.inst

	switch inst.Op {
	case insts.OpCmov:
		s.valA = rf.ReadReg(inst.RA)
	case insts.OpRmmovq, insts.OpOpq:
		s.valA = rf.ReadReg(inst.RA)
		s.valB = rf.ReadReg(inst.RB)
	case insts.OpMrmovq:
		s.valB = rf.ReadReg(inst.RB)
	case insts.OpPushq:
		s.valA = rf.ReadReg(inst.RA)
		s.valB = rf.ReadReg(insts.RSP)
	case insts.OpPopq, insts.OpRet:
		s.valA = rf.ReadReg(insts.RSP)
		s.valB = rf.ReadReg(insts.RSP)
	case insts.OpCall:
		s.valB = rf.ReadReg(insts.RSP)
	}
}

// executeStage computes valE, the condition outcome and new flags. Flags are
// held in s until writeback.
func (e *Emulator) executeStage(s *stageState) {
	switch s.inst.Op {
	case insts.OpCmov:
		s.valE = s.valA
		s.cnd = e.branchUnit.CheckCondition(s.inst.Cond)
	case insts.OpIrmovq:
		s.valE = s.valC
	case insts.OpRmmovq, insts.OpMrmovq:
		s.valE = s.valB + s.valC
	case insts.OpOpq:
		s.valE, s.flags = e.alu.Execute(s.inst.ALU, s.valA, s.valB)
		s.setFlags = true
	case insts.OpJump:
		s.cnd = e.branchUnit.CheckCondition(s.inst.Cond)
	case insts.OpCall, insts.OpPushq:
		s.valE = s.valB - 8
	case insts.OpRet, insts.OpPopq:
		s.valE = s.valB + 8
	}
}

// memoryStage performs the data access. A failed access changes nothing.
func (e *Emulator) memoryStage(s *stageState) error {
	var err error

	switch s.inst.Op {
	case insts.OpRmmovq, insts.OpPushq:
		s.mem = MemAccess{Valid: true, Write: true, Addr: s.valE}
		err = e.lsu.Store64(s.valE, s.valA)
	case insts.OpCall:
		s.mem = MemAccess{Valid: true, Write: true, Addr: s.valE}
		err = e.lsu.Store64(s.valE, s.valP)
	case insts.OpMrmovq:
		s.mem = MemAccess{Valid: true, Addr: s.valE}
		s.valM, err = e.lsu.Load64(s.valE)
	case insts.OpPopq, insts.OpRet:
		s.mem = MemAccess{Valid: true, Addr: s.valA}
		s.valM, err = e.lsu.Load64(s.valA)
	}

	return err
}

// writebackStage commits register and flag results.
func (e *Emulator) writebackStage(s *stageState) {
	rf := e.regFile
	inst := s.inst

	if s.setFlags {
		rf.Flags = s.flags
	}

	switch inst.Op {
	case insts.OpCmov:
		if s.cnd {
			rf.WriteReg(inst.RB, s.valE)
		}
	case insts.OpIrmovq, insts.OpOpq:
		rf.WriteReg(inst.RB, s.valE)
	case insts.OpMrmovq:
		rf.WriteReg(inst.RA, s.valM)
	case insts.OpCall, insts.OpRet, insts.OpPushq:
		rf.WriteReg(insts.RSP, s.valE)
	case insts.OpPopq:
		rf.WriteReg(insts.RSP, s.valE)
		rf.WriteReg(inst.RA, s.valM)
	}
}

// pcUpdateStage selects the next PC and returns the resulting status. A HALT
// leaves the PC on the halt instruction.
func (e *Emulator) pcUpdateStage(s *stageState) Status {
	rf := e.regFile

	switch s.inst.Op {
	case insts.OpHalt:
		return StatusHalted
	case insts.OpJump:
		if s.cnd {
			rf.PC = s.valC
		} else {
			rf.PC = s.valP
		}
	case insts.OpCall:
		rf.PC = s.valC
	case insts.OpRet:
		rf.PC = s.valM
	default:
		rf.PC = s.valP
	}

	return StatusRunning
}
