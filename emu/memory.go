package emu

import "encoding/binary"

// MemorySize is the size of the address space in bytes.
const MemorySize = 1024

// Memory is the flat, little-endian address space shared by code and data.
// Every access is bounds-checked; nothing is written unless the whole access
// fits.
type Memory struct {
	data [MemorySize]byte
}

// NewMemory creates a zeroed memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Size returns the number of addressable bytes.
func (m *Memory) Size() uint64 {
	return MemorySize
}

// check validates the range [addr, addr+n).
func (m *Memory) check(addr, n uint64) error {
	if addr > MemorySize || n > MemorySize-addr {
		return &MemoryError{Addr: addr, Size: n}
	}
	return nil
}

// Read8 reads one byte. It satisfies insts.ByteSource.
func (m *Memory) Read8(addr uint64) (byte, error) {
	if err := m.check(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

// Write8 writes one byte.
func (m *Memory) Write8(addr uint64, value byte) error {
	if err := m.check(addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

// Read64 reads a little-endian 64-bit value.
func (m *Memory) Read64(addr uint64) (uint64, error) {
	if err := m.check(addr, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[addr : addr+8]), nil
}

// Write64 writes a little-endian 64-bit value.
func (m *Memory) Write64(addr uint64, value uint64) error {
	if err := m.check(addr, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[addr:addr+8], value)
	return nil
}

// Slice returns a copy of n bytes starting at addr.
func (m *Memory) Slice(addr uint64, n int) ([]byte, error) {
	if n < 0 {
		return nil, &MemoryError{Addr: addr}
	}
	if err := m.check(addr, uint64(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, m.data[addr:])
	return out, nil
}

// LoadProgram copies data into memory starting at addr. An image that does
// not fit fails with ErrImageTooLarge and leaves memory untouched.
func (m *Memory) LoadProgram(addr uint64, data []byte) error {
	if err := m.check(addr, uint64(len(data))); err != nil {
		return &ImageError{Addr: addr, Len: len(data)}
	}
	copy(m.data[addr:], data)
	return nil
}

// Clear zeroes the whole address space.
func (m *Memory) Clear() {
	m.data = [MemorySize]byte{}
}
