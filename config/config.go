// Package config loads declarative expert pool definitions from YAML and
// builds a ready-to-use Lead from them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/expertmesh/core"
)

// Config is the top-level pool definition.
type Config struct {
	// Strategy is the delegation strategy name (single, parallel, sequential, intelligent).
	Strategy string `yaml:"strategy"`
	// MaxExperts caps participation for multi-expert strategies.
	MaxExperts int `yaml:"max_experts"`
	// TimeoutSeconds bounds each expert invocation.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Oracle optionally names the backend used for intelligent selection and
	// answer synthesis. Without it, selection falls back to scoring and
	// synthesis to concatenation.
	Oracle *OracleConfig `yaml:"oracle,omitempty"`
	// Experts defines the pool. Order matters: it is the routing tie-break order.
	Experts []ExpertConfig `yaml:"experts"`
}

// OracleConfig names a reasoning backend.
type OracleConfig struct {
	Provider string `yaml:"provider"` // anthropic | openai | mock
	Model    string `yaml:"model,omitempty"`
}

// ExpertConfig defines one expert of the pool.
type ExpertConfig struct {
	Name        string   `yaml:"name"`
	Domain      string   `yaml:"domain"`
	Keywords    []string `yaml:"keywords"`
	Confidence  float64  `yaml:"confidence"`
	Tools       []string `yaml:"tools,omitempty"` // builtin tool names
	Provider    string   `yaml:"provider"`        // anthropic | openai | mock
	Model       string   `yaml:"model,omitempty"`
	Instruction string   `yaml:"instruction,omitempty"`
}

// Load reads and validates a pool definition from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a pool definition from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the definition against construction-time invariants.
func (c *Config) Validate() error {
	if c.Strategy != "" {
		if _, err := core.ParseStrategy(c.Strategy); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	if len(c.Experts) == 0 {
		return fmt.Errorf("validate config: at least one expert is required")
	}
	seen := make(map[string]bool, len(c.Experts))
	for i, e := range c.Experts {
		if e.Name == "" {
			return fmt.Errorf("validate config: expert %d has no name", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("validate config: duplicate expert name %q", e.Name)
		}
		seen[e.Name] = true
		if len(e.Keywords) == 0 {
			return fmt.Errorf("validate config: expert %q has no keywords", e.Name)
		}
		if e.Confidence < 0 || e.Confidence > 1 {
			return fmt.Errorf("validate config: expert %q confidence %v outside [0,1]", e.Name, e.Confidence)
		}
	}
	return nil
}
