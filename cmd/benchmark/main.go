// Command benchmark runs the Y86 timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format
//	-json       Output results in JSON format
//	-no-dcache  Disable data cache modelling
//	-bimodal    Use the bimodal branch predictor
//	-config     Path to timing configuration JSON file
//	-core       Run the quick core subset only
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/y86sim/benchmarks"
	"github.com/sarchlab/y86sim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	noDCache := flag.Bool("no-dcache", false, "Disable data cache modelling")
	bimodal := flag.Bool("bimodal", false, "Use the bimodal branch predictor")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	coreOnly := flag.Bool("core", false, "Run the quick core subset only")
	verbose := flag.Bool("v", false, "Log every retired instruction")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.EnableDCache = !*noDCache
	config.Bimodal = *bimodal
	config.Verbose = *verbose
	config.Output = os.Stdout

	if *configPath != "" {
		timing, err := latency.LoadConfig(*configPath)
		if err == nil {
			err = timing.Validate()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timing
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("Y86 Timing Benchmark Harness")
		fmt.Println("============================")
		fmt.Printf("D-Cache: %v\n", config.EnableDCache)
		fmt.Printf("Bimodal: %v\n", config.Bimodal)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing results: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Correct {
			os.Exit(1)
		}
	}
}
