// Package main provides the entry point for y86sim.
// y86sim is a functional Y86-64 simulator with an optional timing model.
//
// For the full CLI, use: go run ./cmd/y86sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("y86sim - Y86-64 Simulator")
	fmt.Println("")
	fmt.Println("Usage: y86sim [options] <program.yo|program.bin>")
	fmt.Println("")
	fmt.Println("Tools:")
	fmt.Println("  ./cmd/y86sim      Run a program and report the final state")
	fmt.Println("  ./cmd/y86asm      Assemble a .ys source file")
	fmt.Println("  ./cmd/benchmark   Run the timing microbenchmarks")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/y86sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/y86sim' instead.")
	}
}
