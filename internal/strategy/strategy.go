// Package strategy implements the optimization policies that decide which
// basis exponents are active at each step, how a multi-shell optimization
// advances, and when it terminates. A Strategy is a state machine driven
// by the optimizer loop: Initialise resets it for one element, GetActive /
// SetActive expose the current parameter subset, and Next advances the
// machine given the last objective value.
package strategy

import (
	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/precond"
	"github.com/robashaw/basisopt/internal/wrapper"
)

// Strategy is the four-operation contract every policy implements. One
// instance tracks exactly one element's progress and is not shared
// between goroutines.
type Strategy interface {
	Name() string
	EvalType() string

	// Params are backend options forwarded to every calculation.
	Params() map[string]float64

	// Initialise resets the state machine for one element's entry in the
	// basis and performs policy-specific setup.
	Initialise(b basis.InternalBasis, element string) error

	// GetActive returns the preconditioned parameter vector currently
	// under optimization. Only well-defined between Initialise and the
	// final Next.
	GetActive(b basis.InternalBasis, element string) []float64

	// SetActive inverse-transforms values and writes them into the
	// targeted shell, clamping away degenerate exponents.
	SetActive(values []float64, b basis.InternalBasis, element string)

	// Next advances the machine given the objective value observed for
	// the last step. It returns false when no steps remain. Policies that
	// consult the backend (Reduce) can fail here.
	Next(b basis.InternalBasis, element string, objective float64) (bool, error)

	LastObjective() float64
	DeltaObjective() float64
	FirstRun() bool

	// ToDict captures the full state for persistence.
	ToDict() Dict
}

// state carries the bookkeeping shared by every policy.
type state struct {
	evalType       string
	params         map[string]float64
	pre            precond.Preconditioner
	preParams      precond.Params
	step           int
	lastObjective  float64
	deltaObjective float64
	firstRun       bool
}

func newState(evalType string, pre precond.Preconditioner) (state, error) {
	backend := wrapper.GetBackend()
	found := false
	for _, e := range backend.AllAvailable() {
		if e == evalType {
			found = true
			break
		}
	}
	if !found {
		return state{}, &wrapper.PropertyNotAvailableError{Property: evalType, Backend: backend.Name()}
	}
	return state{
		evalType:  evalType,
		params:    map[string]float64{},
		pre:       pre,
		preParams: precond.DefaultParams(),
		step:      -1,
		firstRun:  true,
	}, nil
}

func (s *state) EvalType() string            { return s.evalType }
func (s *state) Params() map[string]float64  { return s.params }
func (s *state) SetParam(k string, v float64) { s.params[k] = v }
func (s *state) LastObjective() float64      { return s.lastObjective }
func (s *state) DeltaObjective() float64     { return s.deltaObjective }
func (s *state) FirstRun() bool              { return s.firstRun }

func (s *state) reset() {
	s.step = -1
	s.lastObjective = 0
	s.deltaObjective = 0
	s.firstRun = true
}

// shellIndex resolves the step counter against a shell list, treating a
// negative step as counting from the end. Before the first Next the
// active vector is read from the last shell, which gives the initial
// objective evaluation something well-defined to work with.
func shellIndex(step, n int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	if step < 0 {
		step += n
	}
	if step < 0 || step >= n {
		return 0, false
	}
	return step, true
}
