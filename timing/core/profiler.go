// Package core estimates the cycle cost of a Y86-64 program by charging
// per-instruction latencies as the functional emulator runs it.
package core

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/insts"
	"github.com/sarchlab/y86sim/timing/cache"
	"github.com/sarchlab/y86sim/timing/latency"
)

// Stats holds performance statistics for a profiled run.
type Stats struct {
	// Cycles is the total number of cycles charged.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Mispredicts is the number of mispredicted conditional jumps.
	Mispredicts uint64
	// Returns is the number of RET instructions, each charged the return
	// penalty.
	Returns uint64
	// MemoryStallCycles is the number of cycles spent in the data cache.
	MemoryStallCycles uint64
	// Cache holds data cache statistics, zero without a cache.
	Cache cache.Statistics
	// Predictor holds branch predictor statistics.
	Predictor PredictorStats
}

// CPI returns cycles per instruction, or 0 before any instruction retires.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Profiler wraps an emulator and charges cycles for every instruction it
// retires. Faulting steps retire nothing and cost nothing.
type Profiler struct {
	emulator  *emu.Emulator
	table     *latency.Table
	dcache    *cache.Cache
	predictor BranchPredictor
	logger    logrus.FieldLogger

	stats Stats
}

// ProfilerOption is a functional option for configuring the Profiler.
type ProfilerOption func(*Profiler)

// WithLatencyTable sets the latency table.
func WithLatencyTable(table *latency.Table) ProfilerOption {
	return func(p *Profiler) {
		p.table = table
	}
}

// WithDataCache models loads and stores through c.
func WithDataCache(c *cache.Cache) ProfilerOption {
	return func(p *Profiler) {
		p.dcache = c
	}
}

// WithBranchPredictor sets the predictor for conditional jumps.
func WithBranchPredictor(bp BranchPredictor) ProfilerOption {
	return func(p *Profiler) {
		p.predictor = bp
	}
}

// WithProfilerLogger sets the logger used for per-step cycle tracing.
func WithProfilerLogger(logger logrus.FieldLogger) ProfilerOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}

// NewProfiler creates a profiler around e. By default it uses the default
// latency table, no data cache and a predict-taken predictor.
func NewProfiler(e *emu.Emulator, opts ...ProfilerOption) *Profiler {
	p := &Profiler{
		emulator:  e,
		table:     latency.NewTable(),
		predictor: NewAlwaysTaken(),
		logger:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Emulator returns the wrapped emulator.
func (p *Profiler) Emulator() *emu.Emulator {
	return p.emulator
}

// Step executes one instruction and charges its cycles.
func (p *Profiler) Step() emu.StepResult {
	result := p.emulator.Step()
	if result.Err != nil {
		return result
	}

	inst := &result.Inst
	config := p.table.Config()
	cycles := p.table.GetLatency(inst)

	if p.dcache != nil && result.Mem.Valid {
		stall := p.accessCache(result.Mem)
		cycles += stall
		p.stats.MemoryStallCycles += stall
	}

	if p.table.IsConditionalBranch(inst) {
		predicted := p.predictor.Predict(result.PC)
		p.predictor.Update(result.PC, result.Taken)
		if predicted != result.Taken {
			p.stats.Mispredicts++
			cycles += config.BranchMispredictPenalty
		}
	}

	if inst.Op == insts.OpRet {
		p.stats.Returns++
		cycles += config.ReturnPenalty
	}

	p.stats.Cycles += cycles
	p.stats.Instructions++

	if l, ok := p.logger.(*logrus.Logger); !ok || l.IsLevelEnabled(logrus.TraceLevel) {
		p.logger.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("0x%03x", result.PC),
			"inst":   inst.String(),
			"cycles": cycles,
		}).Trace("timing")
	}

	return result
}

func (p *Profiler) accessCache(access emu.MemAccess) uint64 {
	if !access.Write {
		return p.dcache.Read(access.Addr, 8).Latency
	}

	value, err := p.emulator.Memory().Read64(access.Addr)
	if err != nil {
		return 0
	}
	return p.dcache.Write(access.Addr, 8, value).Latency
}

// Run steps until the machine halts or faults, or the emulator's instruction
// limit is reached.
func (p *Profiler) Run() (emu.Status, error) {
	limit := p.emulator.MaxInstructions()
	for {
		if limit > 0 && p.emulator.InstructionCount() >= limit {
			return p.emulator.Status(), emu.ErrMaxInstructions
		}

		result := p.Step()
		if result.Err != nil {
			return result.Status, result.Err
		}
		if result.Status.Terminal() {
			return result.Status, nil
		}
	}
}

// Stats returns performance statistics for the run so far.
func (p *Profiler) Stats() Stats {
	stats := p.stats
	if p.dcache != nil {
		stats.Cache = p.dcache.Stats()
	}
	stats.Predictor = p.predictor.Stats()
	return stats
}

// Reset clears the statistics, the cache and the predictor. The emulator is
// left as it is.
func (p *Profiler) Reset() {
	p.stats = Stats{}
	if p.dcache != nil {
		p.dcache.Reset()
	}
	p.predictor.Reset()
}
