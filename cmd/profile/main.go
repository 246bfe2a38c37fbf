// Package main provides a profiling wrapper for y86sim to find hot spots in
// the emulator and the timing model.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/loader"
	"github.com/sarchlab/y86sim/timing/cache"
	"github.com/sarchlab/y86sim/timing/core"
)

var (
	timing      = flag.Bool("timing", false, "Profile the timing model as well")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions per run (0 = unlimited)")
	repeat      = flag.Int("repeat", 1000, "number of times to run the program")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.yo|program.bin>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s\n", programPath)
	fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	start := time.Now()

	var instrCount uint64
	var status emu.Status
	for range *repeat {
		n, s, err := runOnce(prog, logger)
		if err != nil && s != emu.StatusRunning {
			fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
			os.Exit(1)
		}
		instrCount += n
		status = s
	}

	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Final status: %s\n", status)
	fmt.Printf("Runs: %d\n", *repeat)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// runOnce runs the program on a fresh emulator and returns the number of
// instructions it retired.
func runOnce(prog *loader.Program, logger logrus.FieldLogger) (uint64, emu.Status, error) {
	e := emu.NewEmulator(
		emu.WithLogger(logger),
		emu.WithMaxInstructions(*instruction),
	)
	for _, seg := range prog.Segments {
		if err := e.LoadSegment(seg.Addr, seg.Data); err != nil {
			return 0, emu.StatusFaulted, err
		}
	}
	e.SetPC(prog.EntryPoint)

	var status emu.Status
	var err error
	if *timing {
		dcache := cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(e.Memory()))
		p := core.NewProfiler(e,
			core.WithDataCache(dcache),
			core.WithProfilerLogger(logger),
		)
		status, err = p.Run()
	} else {
		status, err = e.Run()
	}

	return e.InstructionCount(), status, err
}
