// Package config loads the JSON batch-configuration file used by
// offline discipline runs: the command list plus the discipline's
// parameters, so a workload can be checked into version control instead
// of typed out as flags every time.
//
// Same shape as a typical supervisor config loader: top-level JSON,
// os.ReadFile + json.Unmarshal. Load fills in no defaults; absent fields
// stay at their zero values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config describes one discipline run loaded from a JSON file.
type Config struct {
	Discipline string   `json:"discipline"`
	Commands   []string `json:"commands"`

	QuantumMS int `json:"quantum_ms,omitempty"` // RR

	Quantum0MS int `json:"quantum0_ms,omitempty"` // MLFQ level 0
	Quantum1MS int `json:"quantum1_ms,omitempty"` // MLFQ level 1
	Quantum2MS int `json:"quantum2_ms,omitempty"` // MLFQ level 2
	BoostMS    int `json:"boost_ms,omitempty"`    // MLFQ priority boost period

	HistoryWindowK int `json:"history_window_k,omitempty"` // SJF/MLFQ online

	OutputPath string `json:"output_path,omitempty"`
}

// Load reads and parses a Config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &cfg, nil
}

// Validate enforces the parameter invariants each discipline requires:
//   - RR: quantum_ms > 0
//   - MLFQ: quantum0 <= quantum1 <= quantum2, all > 0; boost_ms > 0
//   - SJF/MLFQ online: k >= 1; k > 50 clamps to 50
//
// Validate mutates HistoryWindowK in place to apply the clamp.
func (c *Config) Validate() error {
	switch c.Discipline {
	case "rr":
		if c.QuantumMS <= 0 {
			return fmt.Errorf("config: rr requires quantum_ms > 0, got %d", c.QuantumMS)
		}
	case "mlfq_offline", "mlfq_online":
		if c.Quantum0MS <= 0 || c.Quantum1MS <= 0 || c.Quantum2MS <= 0 {
			return fmt.Errorf("config: mlfq requires all quanta > 0")
		}
		if !(c.Quantum0MS <= c.Quantum1MS && c.Quantum1MS <= c.Quantum2MS) {
			return fmt.Errorf("config: mlfq requires quantum0 <= quantum1 <= quantum2")
		}
		if c.BoostMS <= 0 {
			return fmt.Errorf("config: mlfq requires boost_ms > 0, got %d", c.BoostMS)
		}
	}

	switch c.Discipline {
	case "sjf_online", "mlfq_online":
		if c.HistoryWindowK < 1 {
			return fmt.Errorf("config: online disciplines require history_window_k >= 1, got %d", c.HistoryWindowK)
		}
		if c.HistoryWindowK > 50 {
			c.HistoryWindowK = 50
		}
	}
	return nil
}
