package asm

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

type listingLine struct {
	hasAddr bool
	addr    uint64
	data    []byte
	text    string
}

// blankPrefix lines up source text on lines without an address.
var blankPrefix = strings.Repeat(" ", len("0x000: ")+2*10+1)

// Listing writes the last assembled program as a .yo object listing, one
// source line per listing line.
func (a *Assembler) Listing(w io.Writer) error {
	if a.prog == nil {
		return ErrNotAssembled
	}

	bw := bufio.NewWriter(w)
	for _, line := range a.listing {
		text := strings.TrimRight(line.text, " \t")
		if !line.hasAddr && len(line.data) == 0 {
			fmt.Fprintf(bw, "%s| %s\n", blankPrefix, text)
			continue
		}
		fmt.Fprintf(bw, "0x%03x: %-20s | %s\n", line.addr, hex.EncodeToString(line.data), text)
	}
	return bw.Flush()
}
