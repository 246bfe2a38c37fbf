package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/y86sim/asm"
	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/insts"
	"github.com/sarchlab/y86sim/timing/cache"
	"github.com/sarchlab/y86sim/timing/core"
	"github.com/sarchlab/y86sim/timing/latency"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count charged by the profiler
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// MemStalls is the number of cycles spent in the data cache
	MemStalls uint64 `json:"mem_stalls"`

	// Returns is the number of RET instructions
	Returns uint64 `json:"returns"`

	// DCacheHits/Misses (if cache enabled)
	DCacheHits   uint64 `json:"dcache_hits,omitempty"`
	DCacheMisses uint64 `json:"dcache_misses,omitempty"`

	// Branch predictor stats
	BranchPredictions     uint64  `json:"branch_predictions,omitempty"`
	BranchCorrect         uint64  `json:"branch_correct,omitempty"`
	BranchMispredictions  uint64  `json:"branch_mispredictions,omitempty"`
	BranchAccuracyPercent float64 `json:"branch_accuracy_percent,omitempty"`

	// Status is the final machine status
	Status string `json:"status"`

	// RAX is the final value of %rax
	RAX uint64 `json:"rax"`

	// Correct is true if the program halted with the expected %rax
	Correct bool `json:"correct"`

	// Error describes why the benchmark did not complete
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Source is the Y86-64 assembly of the program, entered at address 0
	Source string

	// ExpectedRAX is the value %rax holds when the program halts
	ExpectedRAX uint64
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableDCache models the data cache
	EnableDCache bool

	// Bimodal selects the bimodal predictor instead of always-taken
	Bimodal bool

	// Timing overrides the default latencies when set
	Timing *latency.TimingConfig

	// MaxInstructions bounds each run
	MaxInstructions uint64

	// Output is where results are written
	Output io.Writer

	// Verbose logs every retired instruction
	Verbose bool
}

// DefaultConfig returns the default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableDCache:    true,
		MaxInstructions: 100000,
		Output:          os.Stdout,
	}
}

// Harness runs benchmarks and collects timing results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
	logger     *logrus.Logger
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if config.Verbose {
		logger.SetOutput(config.Output)
		logger.SetLevel(logrus.TraceLevel)
	}

	return &Harness{
		config: config,
		logger: logger,
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll runs every benchmark in the order added.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	e, err := h.load(bench)
	if err != nil {
		result.Status = emu.StatusFaulted.String()
		result.Error = err.Error()
		return result
	}

	p := core.NewProfiler(e, h.profilerOptions(e)...)

	start := time.Now()
	status, err := p.Run()
	result.WallTime = time.Since(start)

	stats := p.Stats()
	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.CPI = stats.CPI()
	result.MemStalls = stats.MemoryStallCycles
	result.Returns = stats.Returns
	result.DCacheHits = stats.Cache.Hits
	result.DCacheMisses = stats.Cache.Misses
	result.BranchPredictions = stats.Predictor.Predictions
	result.BranchCorrect = stats.Predictor.Correct
	result.BranchMispredictions = stats.Predictor.Mispredictions
	result.BranchAccuracyPercent = stats.Predictor.Accuracy()

	result.Status = status.String()
	result.RAX = e.Reg(insts.RAX)
	if err != nil {
		result.Error = err.Error()
	}
	result.Correct = err == nil && status == emu.StatusHalted && result.RAX == bench.ExpectedRAX

	return result
}

func (h *Harness) load(bench Benchmark) (*emu.Emulator, error) {
	prog, err := asm.New().Assemble(strings.NewReader(bench.Source))
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", bench.Name, err)
	}

	e := emu.NewEmulator(
		emu.WithLogger(h.logger),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)
	for _, seg := range prog.Segments {
		if err := e.LoadSegment(seg.Addr, seg.Data); err != nil {
			return nil, fmt.Errorf("loading %s: %w", bench.Name, err)
		}
	}
	e.SetPC(prog.EntryPoint)

	return e, nil
}

func (h *Harness) profilerOptions(e *emu.Emulator) []core.ProfilerOption {
	opts := []core.ProfilerOption{core.WithProfilerLogger(h.logger)}

	if h.config.Timing != nil {
		opts = append(opts, core.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)))
	}
	if h.config.EnableDCache {
		dcache := cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(e.Memory()))
		opts = append(opts, core.WithDataCache(dcache))
	}
	if h.config.Bimodal {
		opts = append(opts, core.WithBranchPredictor(core.NewBimodal(core.DefaultBimodalSize)))
	}

	return opts
}

// PrintResults writes results in human-readable form.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	w := h.config.Output

	_, _ = fmt.Fprintln(w, "=== Y86 Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(w, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(w, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(w, "  Status: %s (rax=0x%x, correct=%v)\n", r.Status, r.RAX, r.Correct)
		if r.Error != "" {
			_, _ = fmt.Fprintf(w, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(w, "  --- Timing ---")
		_, _ = fmt.Fprintf(w, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(w, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(w, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(w, "  Mem Stalls:           %d\n", r.MemStalls)
		_, _ = fmt.Fprintf(w, "  Returns:              %d\n", r.Returns)

		if r.DCacheHits > 0 || r.DCacheMisses > 0 {
			_, _ = fmt.Fprintln(w, "  --- D-Cache ---")
			_, _ = fmt.Fprintf(w, "  Hits:   %d\n", r.DCacheHits)
			_, _ = fmt.Fprintf(w, "  Misses: %d\n", r.DCacheMisses)
		}

		if r.BranchPredictions > 0 {
			_, _ = fmt.Fprintln(w, "  --- Branch Predictor ---")
			_, _ = fmt.Fprintf(w, "  Predictions:     %d\n", r.BranchPredictions)
			_, _ = fmt.Fprintf(w, "  Correct:         %d\n", r.BranchCorrect)
			_, _ = fmt.Fprintf(w, "  Mispredictions:  %d\n", r.BranchMispredictions)
			_, _ = fmt.Fprintf(w, "  Accuracy:        %.1f%%\n", r.BranchAccuracyPercent)
		}

		_, _ = fmt.Fprintf(w, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(w, "")
	}
}

// PrintCSV writes results as CSV with a header row.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	w := h.config.Output

	_, _ = fmt.Fprintln(w,
		"name,cycles,instructions,cpi,mem_stalls,returns,dcache_hits,dcache_misses,mispredictions,status,correct")

	for _, r := range results {
		_, _ = fmt.Fprintf(w, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%s,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.MemStalls,
			r.Returns,
			r.DCacheHits,
			r.DCacheMisses,
			r.BranchMispredictions,
			r.Status,
			r.Correct,
		)
	}
}

// PrintJSON writes results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
