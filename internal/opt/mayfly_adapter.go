package opt

import (
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// Default search box for the mayfly swarm; exponents after
// preconditioning always land inside it.
const (
	mayflyLowerBound = -1e2
	mayflyUpperBound = 1e5
)

// MayflyAdapter wraps the external mayfly library to conform to our
// Optimizer interface. It is derivative-free and global, useful when the
// local gonum methods stall on a poor starting guess.
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a mayfly optimizer adapter.
func NewMayfly(p Params) Optimizer {
	a := &MayflyAdapter{
		maxIters: p.MaxIterations,
		popSize:  p.PopSize,
		seed:     p.Seed,
	}
	if a.maxIters <= 0 {
		a.maxIters = 100
	}
	if a.popSize <= 0 {
		a.popSize = 30
	}
	if a.seed == 0 {
		a.seed = 42
	}
	return a
}

// Run executes the mayfly optimization using the external library.
func (m *MayflyAdapter) Run(eval Objective, x0 []float64) (*Result, error) {
	var evalErr error
	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(x []float64) float64 {
		if evalErr != nil {
			return 0
		}
		v, err := eval(x)
		if err != nil {
			evalErr = err
			return 0
		}
		return v
	}
	config.ProblemSize = len(x0)
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize

	// The library uses scalar bounds shared by all dimensions.
	config.LowerBound = mayflyLowerBound
	config.UpperBound = mayflyUpperBound
	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if evalErr != nil {
		return nil, evalErr
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		X:           append([]float64{}, result.GlobalBest.Position...),
		Fun:         result.GlobalBest.Cost,
		Success:     true,
		Status:      "MayflyComplete",
		Iterations:  m.maxIters,
		Evaluations: m.maxIters * m.popSize,
	}, nil
}
