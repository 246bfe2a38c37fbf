package emu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/y86sim/insts"
)

// Status is the run state of the machine.
type Status uint8

// Machine states. Halted and Faulted are terminal.
const (
	StatusRunning Status = iota
	StatusHalted
	StatusFaulted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Terminal reports whether no further step is allowed.
func (s Status) Terminal() bool {
	return s != StatusRunning
}

// MemAccess describes the data access made by a step.
type MemAccess struct {
	// Valid is true if the instruction accessed data memory.
	Valid bool
	// Write is true for stores.
	Write bool
	// Addr is the address of the 8-byte access.
	Addr uint64
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Status is the machine status after the step.
	Status Status

	// Fault classifies Err when Status is StatusFaulted.
	Fault FaultKind

	// Err is set if the step faulted or was not allowed.
	Err error

	// PC is the address of the instruction.
	PC uint64

	// Inst is the decoded instruction, if decoding succeeded.
	Inst insts.Instruction

	// Taken is the condition outcome of a jump or conditional move.
	Taken bool

	// Mem is the data access of the instruction.
	Mem MemAccess
}

// Emulator executes Y86-64 instructions functionally.
type Emulator struct {
	regFile    *RegFile
	memory     *Memory
	decoder    *insts.Decoder
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	logger    logrus.FieldLogger
	condRules CondRules

	// initRegs holds the register state set by options, restored on load.
	initRegs RegFile

	// Execution state
	status           Status
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger sets the logger used for step tracing.
func WithLogger(logger logrus.FieldLogger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithStackPointer sets the initial value of %rsp.
func WithStackPointer(sp uint64) EmulatorOption {
	return WithRegister(insts.RSP, sp)
}

// WithRegister sets the initial value of a register.
func WithRegister(reg insts.Register, value uint64) EmulatorOption {
	return func(e *Emulator) {
		e.regFile.WriteReg(reg, value)
	}
}

// WithMaxInstructions sets the maximum number of instructions Run executes.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithConditionRules selects how jump and move conditions are evaluated.
func WithConditionRules(rules CondRules) EmulatorOption {
	return func(e *Emulator) {
		e.condRules = rules
	}
}

// WithReferenceLessThan evaluates the L condition as SF && ZF, as the
// reference simulator does.
func WithReferenceLessThan() EmulatorOption {
	return WithConditionRules(CondRulesReference)
}

// NewEmulator creates a new Y86-64 emulator with zeroed state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
		logger:  logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.initRegs = *e.regFile
	e.lsu = NewLoadStoreUnit(e.memory)
	e.branchUnit = NewBranchUnit(e.regFile, e.condRules)

	return e
}

// Load creates an emulator with image copied to address 0 and the PC set to
// entry.
func Load(image []byte, entry uint64, opts ...EmulatorOption) (*Emulator, error) {
	e := NewEmulator(opts...)
	if err := e.LoadProgram(entry, image); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadProgram starts a fresh run: memory, flags and counters are zeroed,
// registers return to the values set by options, image is copied to
// address 0 and the PC is set to entry. An image that does not fit leaves
// the machine untouched.
func (e *Emulator) LoadProgram(entry uint64, image []byte) error {
	if uint64(len(image)) > MemorySize {
		return &ImageError{Addr: 0, Len: len(image)}
	}

	*e.regFile = e.initRegs
	e.memory.Clear()
	e.instructionCount = 0
	if err := e.memory.LoadProgram(0, image); err != nil {
		return err
	}
	e.regFile.PC = entry
	e.status = StatusRunning
	return nil
}

// LoadSegment copies data into memory at addr without touching the PC.
func (e *Emulator) LoadSegment(addr uint64, data []byte) error {
	return e.memory.LoadProgram(addr, data)
}

// SetPC sets the entry point before the first step.
func (e *Emulator) SetPC(pc uint64) {
	e.regFile.PC = pc
}

// Reset clears registers, flags, memory and counters.
func (e *Emulator) Reset() {
	*e.regFile = RegFile{}
	e.memory.Clear()
	e.status = StatusRunning
	e.instructionCount = 0
}

// Reg returns the value of a register.
func (e *Emulator) Reg(reg insts.Register) uint64 {
	return e.regFile.ReadReg(reg)
}

// Registers returns a copy of the register file.
func (e *Emulator) Registers() RegFile {
	return *e.regFile
}

// Flags returns the condition codes.
func (e *Emulator) Flags() Flags {
	return e.regFile.Flags
}

// PC returns the program counter.
func (e *Emulator) PC() uint64 {
	return e.regFile.PC
}

// Status returns the run state.
func (e *Emulator) Status() Status {
	return e.status
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// ReadMemory returns a copy of n bytes at addr.
func (e *Emulator) ReadMemory(addr uint64, n int) ([]byte, error) {
	return e.memory.Slice(addr, n)
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// MaxInstructions returns the instruction limit of Run, 0 if unlimited.
func (e *Emulator) MaxInstructions() uint64 {
	return e.maxInstructions
}

// Step executes a single instruction: fetch, decode, execute, memory,
// writeback and PC update. A faulting step leaves all state as it was.
func (e *Emulator) Step() StepResult {
	if e.status.Terminal() {
		return StepResult{
			Status: e.status,
			PC:     e.regFile.PC,
			Err:    ErrStepAfterTerminal,
		}
	}

	s := &stageState{pc: e.regFile.PC}

	if err := e.fetchStage(s); err != nil {
		return e.fault(s, err)
	}
	e.decodeStage(s)
	e.executeStage(s)
	if err := e.memoryStage(s); err != nil {
		return e.fault(s, err)
	}
	e.writebackStage(s)
	e.status = e.pcUpdateStage(s)

	e.instructionCount++

	if levelEnabled(e.logger, logrus.DebugLevel) {
		e.logger.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("0x%03x", s.pc),
			"inst":   s.inst.String(),
			"status": e.status.String(),
		}).Debug("step")
	}

	return StepResult{
		Status: e.status,
		PC:     s.pc,
		Inst:   s.inst,
		Taken:  s.cnd,
		Mem:    s.mem,
	}
}

func (e *Emulator) fault(s *stageState, err error) StepResult {
	e.status = StatusFaulted
	stepErr := &StepError{PC: s.pc, Err: err}

	fields := logrus.Fields{"pc": fmt.Sprintf("0x%03x", s.pc)}
	if s.decoded {
		fields["inst"] = s.inst.String()
	}
	e.logger.WithFields(fields).Warn(stepErr.Error())

	return StepResult{
		Status: StatusFaulted,
		Fault:  faultKindOf(err),
		Err:    stepErr,
		PC:     s.pc,
		Inst:   s.inst,
		Mem:    s.mem,
	}
}

// levelEnabled reports whether logger emits at level. Loggers other than
// *logrus.Logger and *logrus.Entry are assumed to.
func levelEnabled(logger logrus.FieldLogger, level logrus.Level) bool {
	switch l := logger.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(level)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(level)
	default:
		return true
	}
}

// Run executes instructions until the machine halts or faults, or the
// instruction limit is reached.
func (e *Emulator) Run() (Status, error) {
	for {
		if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
			return e.status, ErrMaxInstructions
		}

		result := e.Step()
		if result.Err != nil {
			return result.Status, result.Err
		}
		if result.Status.Terminal() {
			return result.Status, nil
		}
	}
}
