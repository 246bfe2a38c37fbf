// Package main provides the entry point for y86sim.
// y86sim runs Y86-64 programs and reports the final machine state.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/loader"
	"github.com/sarchlab/y86sim/timing/cache"
	"github.com/sarchlab/y86sim/timing/core"
	"github.com/sarchlab/y86sim/timing/latency"
)

var (
	timing      = flag.Bool("timing", false, "Report estimated cycles")
	configPath  = flag.String("config", "", "Path to timing configuration JSON file")
	dataCache   = flag.Bool("cache", false, "Model a data cache in timing mode")
	predictor   = flag.String("predictor", "taken", "Branch predictor in timing mode: taken or bimodal")
	trace       = flag.Bool("trace", false, "Log every executed instruction")
	maxInsts    = flag.Uint64("max", 10000, "Maximum instructions to execute (0 for no limit)")
	referenceLT = flag.Bool("reference-lt", false, "Evaluate the l condition as SF && ZF")
	verbose     = flag.Bool("v", false, "Verbose output")
)

// Exit codes.
const (
	exitHalted  = 0
	exitFaulted = 1
	exitUsage   = 2
	exitLimit   = 3
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: y86sim [options] <program.yo|program.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(exitUsage)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(exitUsage)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%x\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	logger := newLogger(os.Stderr)

	e, err := newEmulator(prog,
		emu.WithLogger(logger),
		emu.WithMaxInstructions(*maxInsts),
		emu.WithConditionRules(conditionRules()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(exitUsage)
	}
	initial, _ := e.ReadMemory(0, emu.MemorySize)

	var status emu.Status
	if *timing {
		p, err := newProfiler(e, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error configuring timing: %v\n", err)
			os.Exit(exitUsage)
		}
		status, err = p.Run()
		writeReport(os.Stdout, e, initial, err)
		writeTimingReport(os.Stdout, p.Stats())
		os.Exit(exitCode(status, err))
	}

	status, err = e.Run()
	writeReport(os.Stdout, e, initial, err)
	os.Exit(exitCode(status, err))
}

func newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	switch {
	case *trace && *timing:
		logger.SetLevel(logrus.TraceLevel)
	case *trace:
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func conditionRules() emu.CondRules {
	if *referenceLT {
		return emu.CondRulesReference
	}
	return emu.CondRulesStandard
}

// newEmulator creates an emulator with every segment of prog loaded.
func newEmulator(prog *loader.Program, opts ...emu.EmulatorOption) (*emu.Emulator, error) {
	e := emu.NewEmulator(opts...)
	for _, seg := range prog.Segments {
		if err := e.LoadSegment(seg.Addr, seg.Data); err != nil {
			return nil, err
		}
	}
	e.SetPC(prog.EntryPoint)
	return e, nil
}

func newProfiler(e *emu.Emulator, logger logrus.FieldLogger) (*core.Profiler, error) {
	config := latency.DefaultTimingConfig()
	if *configPath != "" {
		var err error
		config, err = latency.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []core.ProfilerOption{
		core.WithLatencyTable(latency.NewTableWithConfig(config)),
		core.WithProfilerLogger(logger),
	}

	switch *predictor {
	case "taken":
		opts = append(opts, core.WithBranchPredictor(core.NewAlwaysTaken()))
	case "bimodal":
		opts = append(opts, core.WithBranchPredictor(core.NewBimodal(core.DefaultBimodalSize)))
	default:
		return nil, fmt.Errorf("unknown predictor %q", *predictor)
	}

	if *dataCache {
		dcache := cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(e.Memory()))
		opts = append(opts, core.WithDataCache(dcache))
	}

	return core.NewProfiler(e, opts...), nil
}

func exitCode(status emu.Status, err error) int {
	switch {
	case status == emu.StatusHalted:
		return exitHalted
	case status == emu.StatusRunning && err != nil:
		return exitLimit
	default:
		return exitFaulted
	}
}
