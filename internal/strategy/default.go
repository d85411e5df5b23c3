package strategy

import (
	"math"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/precond"
)

// Default optimizes each shell of an element exactly once, in increasing
// angular momentum order. There is no iteration or convergence check: one
// pass over the shells and the strategy is exhausted.
type Default struct {
	state
}

// NewDefault creates the default strategy for an evaluation type,
// validating it against the current backend's capabilities.
func NewDefault(evalType string) (*Default, error) {
	st, err := newState(evalType, precond.MakePositive)
	if err != nil {
		return nil, err
	}
	return &Default{state: st}, nil
}

func (d *Default) Name() string { return "Default" }

// Initialise resets the step counter; the default strategy needs no other
// setup.
func (d *Default) Initialise(b basis.InternalBasis, element string) error {
	if len(b[element]) == 0 {
		return &basis.EmptyBasisError{Element: element}
	}
	d.reset()
	return nil
}

func (d *Default) GetActive(b basis.InternalBasis, element string) []float64 {
	shells := b[element]
	ix, ok := shellIndex(d.step, len(shells))
	if !ok {
		return nil
	}
	return d.pre.Transform(shells[ix].Exps, d.preParams)
}

func (d *Default) SetActive(values []float64, b basis.InternalBasis, element string) {
	shells := b[element]
	ix, ok := shellIndex(d.step, len(shells))
	if !ok {
		return
	}
	shells[ix].Exps = d.pre.Inverse(values, d.preParams)
}

func (d *Default) Next(b basis.InternalBasis, element string, objective float64) (bool, error) {
	d.deltaObjective = math.Abs(objective - d.lastObjective)
	d.lastObjective = objective
	d.step++
	d.firstRun = false
	return d.step != len(b[element]), nil
}

func (d *Default) ToDict() Dict {
	return Dict{
		Type:           "Default",
		Version:        dictVersion,
		EvalType:       d.evalType,
		Params:         d.params,
		Preconditioner: d.pre.Name,
		Step:           d.step,
		LastObjective:  d.lastObjective,
		DeltaObjective: d.deltaObjective,
		FirstRun:       d.firstRun,
	}
}
