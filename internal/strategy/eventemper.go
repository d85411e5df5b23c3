package strategy

import (
	"math"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/precond"
)

// Starting parameters installed for every shell at initialisation.
var etInitialGuess = basis.ETParams{Start: 0.3, Ratio: 2.0, N: 8}

// Clamps applied when the minimizer proposes degenerate parameters.
const (
	etMinStart = 1e-5
	etMinRatio = 1.01
)

// EvenTempered parameterizes each shell by (start, ratio, count), with
// exponents generated as start*ratio^k. The first pass optimizes every
// shell's (start, ratio) once in order; afterwards shells are revisited
// round-robin, growing a shell's count until the objective delta falls
// below the target or the count cap is hit, at which point the shell is
// marked done. The strategy terminates when every shell is done.
type EvenTempered struct {
	state

	shells    []basis.ETParams
	shellDone []int
	target    float64
	maxN      int
	maxL      int
}

// NewEvenTempered creates the strategy. target is the objective-delta
// threshold for marking a shell converged, maxN caps the primitive count
// per shell, and maxL sets the shell count; maxL < 0 means use the
// element's minimal configuration.
func NewEvenTempered(evalType string, target float64, maxN, maxL int) (*EvenTempered, error) {
	st, err := newState(evalType, precond.Unit)
	if err != nil {
		return nil, err
	}
	return &EvenTempered{
		state:  st,
		target: target,
		maxN:   maxN,
		maxL:   maxL,
	}, nil
}

func (e *EvenTempered) Name() string { return "EvenTemper" }

// setBasisShells expands the current parameters into the element's basis.
func (e *EvenTempered) setBasisShells(b basis.InternalBasis, element string) {
	b[element] = basis.EvenTemperExpansion(e.shells)
}

// Initialise determines the shell count from the element's ground-state
// configuration and installs the starting guess for each shell.
func (e *EvenTempered) Initialise(b basis.InternalBasis, element string) error {
	minL, err := basis.MinimalShells(element)
	if err != nil {
		return err
	}
	if e.maxL < minL {
		e.maxL = minL
	}
	e.shells = make([]basis.ETParams, e.maxL)
	e.shellDone = make([]int, e.maxL)
	for i := range e.shells {
		e.shells[i] = etInitialGuess
		e.shellDone[i] = 1
	}
	e.setBasisShells(b, element)
	e.reset()
	return nil
}

// GetActive returns the (start, ratio) pair for the current shell; the
// count is not exposed to the minimizer.
func (e *EvenTempered) GetActive(b basis.InternalBasis, element string) []float64 {
	ix, ok := shellIndex(e.step, len(e.shells))
	if !ok {
		return nil
	}
	return []float64{e.shells[ix].Start, e.shells[ix].Ratio}
}

// SetActive writes new (start, ratio) values for the current shell and
// re-expands the basis. Values are clamped to keep the smallest exponent
// positive and the progression strictly growing.
func (e *EvenTempered) SetActive(values []float64, b basis.InternalBasis, element string) {
	ix, ok := shellIndex(e.step, len(e.shells))
	if !ok || len(values) < 2 {
		return
	}
	e.shells[ix].Start = math.Max(values[0], etMinStart)
	e.shells[ix].Ratio = math.Max(values[1], etMinRatio)
	e.setBasisShells(b, element)
}

func (e *EvenTempered) Next(b basis.InternalBasis, element string, objective float64) (bool, error) {
	e.deltaObjective = math.Abs(e.lastObjective - objective)
	e.lastObjective = objective

	if e.firstRun {
		e.step++
		if e.step == e.maxL {
			// First pass complete; start round-robin refinement with the
			// lowest shell, growing it by one primitive.
			e.firstRun = false
			e.step = 0
			if e.shells[0].N < e.maxN {
				e.shells[0].N++
			}
		}
		return true, nil
	}

	if e.deltaObjective < e.target {
		e.shellDone[e.step] = 0
	}
	e.step = (e.step + 1) % e.maxL
	if e.shells[e.step].N == e.maxN {
		e.shellDone[e.step] = 0
	} else if e.shellDone[e.step] != 0 {
		e.shells[e.step].N++
	}

	for _, done := range e.shellDone {
		if done != 0 {
			return true, nil
		}
	}
	return false, nil
}

func (e *EvenTempered) ToDict() Dict {
	return Dict{
		Type:           "EvenTemper",
		Version:        dictVersion,
		EvalType:       e.evalType,
		Params:         e.params,
		Preconditioner: e.pre.Name,
		Step:           e.step,
		LastObjective:  e.lastObjective,
		DeltaObjective: e.deltaObjective,
		FirstRun:       e.firstRun,
		Target:         e.target,
		MaxN:           e.maxN,
		MaxL:           e.maxL,
		Shells:         append([]basis.ETParams{}, e.shells...),
		ShellDone:      append([]int{}, e.shellDone...),
	}
}
