// Measures decode throughput and allocations of the instruction decoder.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/insts"
)

func main() {
	image, err := insts.EncodeProgram(
		insts.Irmovq(insts.RAX, 42),
		insts.Opq(insts.ALUAdd, insts.RAX, insts.RBX),
		insts.Mrmovq(insts.RCX, insts.RBX, 8),
		insts.Jump(insts.CondNE, 0),
		insts.Ret(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding program: %v\n", err)
		os.Exit(1)
	}

	memory := emu.NewMemory()
	if err := memory.LoadProgram(0, image); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	decoder := insts.NewDecoder()

	decodeAll := func() int {
		n := 0
		for pc := uint64(0); pc < uint64(len(image)); n++ {
			_, next, err := decoder.Decode(memory, pc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error decoding at 0x%x: %v\n", pc, err)
				os.Exit(1)
			}
			pc = next
		}
		return n
	}

	for range 1000 {
		decodeAll()
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	totalDecodes := 0
	for range iterations {
		totalDecodes += decodeAll()
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	if float64(allocations)/float64(totalDecodes) >= 0.1 {
		fmt.Printf("\nWARNING: High allocation rate detected\n")
		os.Exit(1)
	}
}
