package strategy

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/wrapper"
)

// RankPrimitives measures how much each exponent in the listed shells
// contributes to the target property, by removing exponents one at a time
// and re-running the calculation. It returns, per shell, the absolute
// error introduced by removing each exponent and the exponent indices
// ordered from least to most important. Shells are restored to their
// original state before returning.
func RankPrimitives(target *wrapper.Structure, element string, shells []int, evalType string, params map[string]float64) ([][]float64, [][]int, error) {
	backend := wrapper.GetBackend()
	elShells := target.Basis[element]
	if len(elShells) == 0 {
		return nil, nil, &basis.EmptyBasisError{Element: element}
	}
	if shells == nil {
		shells = make([]int, len(elShells))
		for i := range elShells {
			shells[i] = i
		}
	}

	// Reference value with the full basis.
	if code := backend.Run(evalType, target, params); code != wrapper.RunSuccess {
		return nil, nil, &FailedCalculationError{EvalType: evalType, Target: target.Name, Code: code}
	}
	reference := backend.GetValue(evalType)
	target.SetReference("rank_"+evalType, reference)

	errs := make([][]float64, 0, len(shells))
	ranks := make([][]int, 0, len(shells))
	for _, si := range shells {
		shell := elShells[si]
		exps := append([]float64{}, shell.Exps...)
		coefs := shell.Coefs
		n := len(exps)

		shell.Exps = make([]float64, n-1)
		shell.Uncontract()
		err := make([]float64, n)
		for i := 0; i < n; i++ {
			copy(shell.Exps[:i], exps[:i])
			copy(shell.Exps[i:], exps[i+1:])
			if code := backend.Run(evalType, target, params); code != wrapper.RunSuccess {
				shell.Exps = exps
				shell.Coefs = coefs
				return nil, nil, &FailedCalculationError{EvalType: evalType, Target: target.Name, Code: code}
			}
			value := backend.GetValue(evalType)
			err[i] = floats.Distance(value, reference, 2)
		}

		errs = append(errs, err)
		ranks = append(ranks, argsort(err))
		shell.Exps = exps
		shell.Coefs = coefs
	}
	return errs, ranks, nil
}

// argsort returns the indices that would sort x ascending.
func argsort(x []float64) []int {
	ix := make([]int, len(x))
	for i := range ix {
		ix[i] = i
	}
	sort.Slice(ix, func(a, b int) bool { return x[ix[a]] < x[ix[b]] })
	return ix
}

// FailedCalculationError reports a backend failure during an optimization
// step. It always aborts the enclosing optimizer loop.
type FailedCalculationError struct {
	EvalType string
	Target   string
	Code     int
}

func (e *FailedCalculationError) Error() string {
	return "calculation of " + e.EvalType + " failed for " + e.Target
}

func (e *FailedCalculationError) Is(target error) bool {
	_, ok := target.(*FailedCalculationError)
	return ok
}
