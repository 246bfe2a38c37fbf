// Package main provides the entry point for y86asm.
// y86asm assembles a Y86-64 source file into a .yo listing or a raw image.
package main

import (
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sarchlab/y86sim/asm"
	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/loader"
)

var (
	output  = flag.String("o", "", "Output path (default: source name with .yo or .bin)")
	binary  = flag.Bool("bin", false, "Write a raw memory image instead of a listing")
	symbols = flag.Bool("symbols", false, "Print the symbol table")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: y86asm [options] <program.ys>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	sourcePath := flag.Arg(0)

	src, err := os.Open(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening source: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = src.Close() }()

	a := asm.New()
	prog, err := a.Assemble(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", sourcePath, err)
		os.Exit(1)
	}

	outPath := *output
	if outPath == "" {
		outPath = outputPath(sourcePath, *binary)
	}

	var image []byte
	if *binary {
		image, err = flatten(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", sourcePath, err)
			os.Exit(1)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		os.Exit(1)
	}

	if *binary {
		_, err = out.Write(image)
	} else {
		err = a.Listing(out)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	if *symbols {
		writeSymbols(os.Stdout, a.Symbols())
	}
}

// outputPath replaces the extension of the source path.
func outputPath(sourcePath string, binary bool) string {
	ext := ".yo"
	if binary {
		ext = ".bin"
	}
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ext
}

// flatten lays the segments out in one image starting at address 0. Gaps
// are zero.
func flatten(prog *loader.Program) ([]byte, error) {
	var size uint64
	for _, seg := range prog.Segments {
		if seg.Addr > emu.MemorySize || seg.End() > emu.MemorySize {
			return nil, fmt.Errorf("segment at 0x%x: %w", seg.Addr, emu.ErrImageTooLarge)
		}
		size = max(size, seg.End())
	}

	image := make([]byte, size)
	for _, seg := range prog.Segments {
		copy(image[seg.Addr:], seg.Data)
	}
	return image, nil
}

func writeSymbols(w io.Writer, syms map[string]uint64) {
	for _, name := range slices.Sorted(maps.Keys(syms)) {
		fmt.Fprintf(w, "0x%04x %s\n", syms[name], name)
	}
}
