// Package config parses the YAML job files the CLI runs from.
package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"github.com/robashaw/basisopt/internal/basis"
)

// ShellConfig is one starting-guess shell in a job file.
type ShellConfig struct {
	L    string    `json:"l"`
	Exps []float64 `json:"exps"`
}

// StructureConfig describes one calculation target in a collective job.
type StructureConfig struct {
	Name      string    `json:"name"`
	Method    string    `json:"method"`
	Reference []float64 `json:"reference,omitempty"`
}

// JobConfig describes a full optimization job.
type JobConfig struct {
	Title     string  `json:"title"`
	Element   string  `json:"element"`
	Method    string  `json:"method"`
	EvalType  string  `json:"evalType"`
	Strategy  string  `json:"strategy"`  // default, eventemper, reduce
	Algorithm string  `json:"algorithm"` // neldermead, lbfgs, bfgs, cg, mayfly
	Target    float64 `json:"target"`

	// EvenTemper
	MaxN int `json:"maxN"`
	MaxL int `json:"maxL"`

	// Reduce
	ShellMins []int `json:"shellMins"`
	ReoptAll  bool  `json:"reoptAll"`

	Regularizer   string  `json:"regularizer"`
	MaxIterations int     `json:"maxIterations"`
	Tolerance     float64 `json:"tolerance"`
	NPass         int     `json:"npass"`

	Shells     []ShellConfig     `json:"shells"`
	Structures []StructureConfig `json:"structures"`
}

// Parse fills the config from YAML data.
func (c *JobConfig) Parse(data []byte) error {
	return yaml.Unmarshal(data, c)
}

// Load reads and parses a job file, applying defaults and validation.
func Load(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	c := &JobConfig{}
	if err := c.Parse(data); err != nil {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *JobConfig) applyDefaults() {
	if c.EvalType == "" {
		c.EvalType = "energy"
	}
	if c.Strategy == "" {
		c.Strategy = "default"
	}
	if c.Algorithm == "" {
		c.Algorithm = "neldermead"
	}
	if c.Target == 0 {
		c.Target = 1e-5
	}
	if c.MaxN == 0 {
		c.MaxN = 18
	}
	if c.MaxL == 0 {
		c.MaxL = -1
	}
	if c.NPass == 0 {
		c.NPass = 1
	}
}

// Validate checks the job for the mistakes a typo produces.
func (c *JobConfig) Validate() error {
	if c.Element == "" {
		return fmt.Errorf("job: element must be set")
	}
	if _, err := basis.AtomicNumber(c.Element); err != nil {
		return fmt.Errorf("job: %w", err)
	}
	switch c.Strategy {
	case "default", "eventemper", "reduce":
	default:
		return fmt.Errorf("job: unknown strategy %q", c.Strategy)
	}
	if c.Strategy != "eventemper" && len(c.Shells) == 0 {
		return fmt.Errorf("job: strategy %q needs starting shells", c.Strategy)
	}
	if c.Strategy == "reduce" && len(c.ShellMins) < len(c.Shells) {
		return fmt.Errorf("job: reduce needs a shellMins entry per shell (%d given for %d shells)",
			len(c.ShellMins), len(c.Shells))
	}
	for _, s := range c.Shells {
		if _, err := basis.AMValue(s.L); err != nil {
			return fmt.Errorf("job: %w", err)
		}
	}
	return nil
}

// BuildBasis constructs the starting basis from the configured shells.
func (c *JobConfig) BuildBasis() basis.InternalBasis {
	shells := make([]*basis.Shell, 0, len(c.Shells))
	for _, s := range c.Shells {
		shells = append(shells, basis.NewShell(s.L, s.Exps))
	}
	return basis.InternalBasis{c.Element: shells}
}
