package cache

import (
	"github.com/sarchlab/y86sim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore. The emulator keeps
// memory up to date on every store, so writebacks are dropped.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches data from the backing memory. Bytes outside memory read as
// zero.
func (m *MemoryBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		b, err := m.memory.Read8(addr + uint64(i))
		if err != nil {
			break
		}
		data[i] = b
	}
	return data
}

// Write ignores the evicted line.
func (m *MemoryBacking) Write(uint64, []byte) {}
