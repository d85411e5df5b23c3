package opt

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// GonumAdapter wraps a gonum optimize.Method to conform to our Optimizer
// interface. Gradient-based methods use central finite differences.
type GonumAdapter struct {
	method   optimize.Method
	useGrad  bool
	settings *optimize.Settings
}

// NewGonum creates an adapter for one of gonum's local minimizers.
func NewGonum(algorithm string, p Params) (Optimizer, error) {
	a := &GonumAdapter{}
	switch strings.ToLower(algorithm) {
	case "", "neldermead", "nelder-mead":
		a.method = &optimize.NelderMead{}
	case "lbfgs", "l-bfgs":
		a.method = &optimize.LBFGS{}
		a.useGrad = true
	case "bfgs":
		a.method = &optimize.BFGS{}
		a.useGrad = true
	case "cg":
		a.method = &optimize.CG{}
		a.useGrad = true
	default:
		return nil, fmt.Errorf("unknown gonum algorithm %q", algorithm)
	}

	a.settings = &optimize.Settings{}
	if p.MaxIterations > 0 {
		a.settings.MajorIterations = p.MaxIterations
	}
	if p.Tolerance > 0 {
		a.settings.Converger = &optimize.FunctionConverge{
			Absolute:   p.Tolerance,
			Iterations: 50,
		}
	}
	return a, nil
}

// Run executes the minimization. Objective errors are captured by the
// closure and surfaced through the problem's status check, which aborts
// the gonum iteration loop.
func (a *GonumAdapter) Run(eval Objective, x0 []float64) (*Result, error) {
	var evalErr error
	fn := func(x []float64) float64 {
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

	problem := optimize.Problem{
		Func: fn,
		Status: func() (optimize.Status, error) {
			if evalErr != nil {
				return optimize.Failure, evalErr
			}
			return optimize.NotTerminated, nil
		},
	}
	if a.useGrad {
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, fn, x, nil)
		}
	}

	res, err := optimize.Minimize(problem, x0, a.settings, a.method)
	if evalErr != nil {
		return nil, evalErr
	}
	if err != nil {
		return nil, fmt.Errorf("minimization failed: %w", err)
	}
	return &Result{
		X:           append([]float64{}, res.X...),
		Fun:         res.F,
		Success:     res.Status != optimize.Failure,
		Status:      res.Status.String(),
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
	}, nil
}
