// Package opt drives strategies to convergence: it adapts generic
// numerical minimizers behind one interface, runs the per-atom optimizer
// loop, and composes per-atom strategies into collective multi-structure
// refinement.
package opt

import (
	"fmt"
	"strings"
)

// Objective is a scalar loss over a parameter vector. A non-nil error is
// fatal to the optimization that invoked it; it is never absorbed.
type Objective func(x []float64) (float64, error)

// Optimizer defines a generic numerical minimization algorithm.
type Optimizer interface {
	// Run minimizes eval starting from x0 and returns the best point
	// found. An error from eval aborts the run immediately.
	Run(eval Objective, x0 []float64) (*Result, error)
}

// Params tunes a minimizer run. Zero values select algorithm defaults.
type Params struct {
	MaxIterations int     // cap on major iterations
	Tolerance     float64 // absolute function-convergence threshold
	PopSize       int     // population size (mayfly only)
	Seed          int64   // random seed (mayfly only)
}

// New builds an optimizer for a named algorithm. Gradient-based gonum
// methods get numerical gradients; "mayfly" selects the derivative-free
// global optimizer.
func New(algorithm string, p Params) (Optimizer, error) {
	switch strings.ToLower(algorithm) {
	case "mayfly":
		return NewMayfly(p), nil
	case "", "neldermead", "nelder-mead", "lbfgs", "l-bfgs", "bfgs", "cg":
		return NewGonum(algorithm, p)
	}
	return nil, fmt.Errorf("unknown optimization algorithm %q", algorithm)
}

// Result holds the outcome of one minimizer run.
type Result struct {
	X           []float64 `json:"x"`
	Fun         float64   `json:"fun"`
	Success     bool      `json:"success"`
	Status      string    `json:"status"`
	Iterations  int       `json:"iterations"`
	Evaluations int       `json:"evaluations"`
}
