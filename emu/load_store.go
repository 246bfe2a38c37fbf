package emu

// LoadStoreUnit implements the 8-byte data accesses of the memory stage.
type LoadStoreUnit struct {
	memory *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to memory.
func NewLoadStoreUnit(memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{memory: memory}
}

// Load64 reads the quad word at addr.
func (lsu *LoadStoreUnit) Load64(addr uint64) (uint64, error) {
	return lsu.memory.Read64(addr)
}

// Store64 writes value at addr. The range is validated before any byte is
// written.
func (lsu *LoadStoreUnit) Store64(addr, value uint64) error {
	return lsu.memory.Write64(addr, value)
}
