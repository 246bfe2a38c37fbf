// Package loader reads Y86-64 programs from object listings and raw images.
package loader

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Segment is a run of bytes to be placed at a fixed address.
type Segment struct {
	// Addr is the address of the first byte.
	Addr uint64
	// Data contains the segment contents.
	Data []byte
}

// End returns the address one past the last byte of the segment.
func (s Segment) End() uint64 {
	return s.Addr + uint64(len(s.Data))
}

// Program represents a loaded program ready for execution.
type Program struct {
	// EntryPoint is the address where execution should begin.
	EntryPoint uint64
	// Segments contains the loadable segments in file order.
	Segments []Segment
}

// Size returns the highest end address of any segment.
func (p *Program) Size() uint64 {
	var size uint64
	for _, seg := range p.Segments {
		if end := seg.End(); end > size {
			size = end
		}
	}
	return size
}

// Load reads the program at path. Files ending in .yo are parsed as object
// listings; anything else is a raw image loaded at address 0.
func Load(path string) (*Program, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer func() { _ = file.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".yo") {
		prog, err := ParseYo(file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return prog, nil
	}

	return LoadRaw(file)
}

// LoadRaw reads a raw memory image. The image is loaded at address 0 and
// execution starts at 0.
func LoadRaw(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	prog := &Program{}
	if len(data) > 0 {
		prog.Segments = []Segment{{Addr: 0, Data: data}}
	}
	return prog, nil
}

// ParseYo parses an object listing such as
//
//	0x014: 30f40001000000000000 | irmovq stack, %rsp
//
// Text after '|' is ignored, as are lines with no address or no bytes.
// Adjacent lines are merged into one segment. Execution starts at 0.
func ParseYo(r io.Reader) (*Program, error) {
	prog := &Program{}
	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		addr, data, err := parseYoLine(scanner.Text())
		if err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		if len(data) == 0 {
			continue
		}

		prog.Append(addr, data)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}

	return prog, nil
}

func parseYoLine(text string) (uint64, []byte, error) {
	if i := strings.IndexByte(text, '|'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil, nil
	}

	addrText, hexText, ok := strings.Cut(text, ":")
	if !ok {
		return 0, nil, ErrMissingAddress
	}

	addr, err := strconv.ParseUint(strings.TrimSpace(addrText), 0, 64)
	if err != nil {
		return 0, nil, ErrBadAddress
	}

	hexText = strings.Join(strings.Fields(hexText), "")
	data, err := hex.DecodeString(hexText)
	if err != nil {
		return 0, nil, ErrBadHex
	}

	return addr, data, nil
}

// Append adds data at addr, extending the last segment when data follows it
// directly.
func (p *Program) Append(addr uint64, data []byte) {
	if n := len(p.Segments); n > 0 && p.Segments[n-1].End() == addr {
		last := &p.Segments[n-1]
		last.Data = append(last.Data, data...)
		return
	}

	p.Segments = append(p.Segments, Segment{
		Addr: addr,
		Data: append([]byte(nil), data...),
	})
}
