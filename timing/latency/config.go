package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for different instruction classes. The
// defaults follow a five-stage in-order pipeline.
type TimingConfig struct {
	// ALULatency is the execution latency of OPQ instructions.
	// Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// MoveLatency is the latency of register moves, conditional moves,
	// immediate loads and NOP. Default: 1 cycle.
	MoveLatency uint64 `json:"move_latency"`

	// LoadLatency is the latency of MRMOVQ and POPQ before any cache
	// access cost. Default: 2 cycles (one load-use bubble).
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency of RMMOVQ and PUSHQ before any cache
	// access cost. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`

	// BranchLatency is the base latency of jumps, CALL and RET.
	// Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// BranchMispredictPenalty is the additional cycles lost when a
	// conditional jump is mispredicted. Default: 2 cycles.
	BranchMispredictPenalty uint64 `json:"branch_mispredict_penalty"`

	// ReturnPenalty is the additional cycles RET waits for its target.
	// Default: 3 cycles.
	ReturnPenalty uint64 `json:"return_penalty"`

	// HaltLatency is the latency of HALT. Default: 1 cycle.
	HaltLatency uint64 `json:"halt_latency"`
}

// DefaultTimingConfig returns a TimingConfig with default values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:              1,
		MoveLatency:             1,
		LoadLatency:             2,
		StoreLatency:            1,
		BranchLatency:           1,
		BranchMispredictPenalty: 2,
		ReturnPenalty:           3,
		HaltLatency:             1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that every base latency is at least one cycle. Penalties
// may be zero.
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.MoveLatency == 0 {
		return fmt.Errorf("move_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.HaltLatency == 0 {
		return fmt.Errorf("halt_latency must be > 0")
	}
	return nil
}

// Clone returns a copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
