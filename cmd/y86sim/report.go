package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/insts"
	"github.com/sarchlab/y86sim/timing/core"
)

// writeReport prints the final state: the status, then every register and
// 8-byte memory word that differs from its initial value.
func writeReport(w io.Writer, e *emu.Emulator, initial []byte, err error) {
	flags := e.Flags()
	fmt.Fprintf(w, "Stopped in %d steps at PC = 0x%x. Status '%s', CC Z=%d S=%d O=%d\n",
		e.InstructionCount(), e.PC(), e.Status(), bit(flags.ZF), bit(flags.SF), bit(flags.OF))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
	}

	fmt.Fprintf(w, "Changes to registers:\n")
	for _, reg := range insts.Registers() {
		if v := e.Reg(reg); v != 0 {
			fmt.Fprintf(w, "%-6s 0x%016x\t0x%016x\n", reg.String()+":", 0, v)
		}
	}

	fmt.Fprintf(w, "\nChanges to memory:\n")
	final, _ := e.ReadMemory(0, emu.MemorySize)
	for addr := 0; addr+8 <= len(final) && addr+8 <= len(initial); addr += 8 {
		before := binary.LittleEndian.Uint64(initial[addr:])
		after := binary.LittleEndian.Uint64(final[addr:])
		if before != after {
			fmt.Fprintf(w, "0x%04x:\t0x%016x\t0x%016x\n", addr, before, after)
		}
	}
}

func writeTimingReport(w io.Writer, stats core.Stats) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Branches:\n")
	fmt.Fprintf(w, "  Predictions:  %d\n", stats.Predictor.Predictions)
	fmt.Fprintf(w, "  Mispredicts:  %d\n", stats.Mispredicts)
	fmt.Fprintf(w, "  Accuracy:     %.1f%%\n", stats.Predictor.Accuracy())
	fmt.Fprintf(w, "  Returns:      %d\n", stats.Returns)

	if stats.Cache.Reads+stats.Cache.Writes > 0 {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "Data cache:\n")
		fmt.Fprintf(w, "  Reads:        %d\n", stats.Cache.Reads)
		fmt.Fprintf(w, "  Writes:       %d\n", stats.Cache.Writes)
		fmt.Fprintf(w, "  Hit rate:     %.1f%%\n", 100*stats.Cache.HitRate())
		fmt.Fprintf(w, "  Stall cycles: %d\n", stats.MemoryStallCycles)
	}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}
