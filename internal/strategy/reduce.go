package strategy

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/precond"
	"github.com/robashaw/basisopt/internal/wrapper"
)

// Reduce systematically removes the least important exponent from a
// starting basis, re-optimizing after each removal, until either the
// change in objective exceeds the target (the basis is then rolled back
// to the last accepted snapshot) or every shell has reached its
// configured minimum size.
type Reduce struct {
	state

	fullBasis  basis.InternalBasis
	savedBasis basis.InternalBasis
	target     float64
	method     string
	shellMins  []int
	maxL       int
	reoptAll   bool
	nexps      []int
	reduction  bool
}

// NewReduce creates the strategy. startingBasis is the basis to reduce,
// method the backend method used for the sensitivity scan, shellMins the
// per-shell primitive floors in ascending angular momentum order, and
// maxL the highest shell index (inclusive) eligible for reduction, -1 for
// all. With reoptAll set, every shell is re-optimized after a removal
// rather than just the altered one.
func NewReduce(startingBasis basis.InternalBasis, evalType, method string, target float64, shellMins []int, maxL int, reoptAll bool) (*Reduce, error) {
	st, err := newState(evalType, precond.MakePositive)
	if err != nil {
		return nil, err
	}
	if !wrapper.GetBackend().IsAvailable(method, evalType) {
		return nil, &wrapper.PropertyNotAvailableError{
			Property: method + "." + evalType,
			Backend:  wrapper.GetBackend().Name(),
		}
	}
	return &Reduce{
		state:     st,
		fullBasis: startingBasis,
		target:    target,
		method:    method,
		shellMins: append([]int{}, shellMins...),
		maxL:      maxL,
		reoptAll:  reoptAll,
		reduction: true,
	}, nil
}

func (r *Reduce) Name() string { return "Reduce" }

// Initialise installs the starting basis for the element, counts the
// exponents per shell, and arms the first reduction step.
func (r *Reduce) Initialise(b basis.InternalBasis, element string) error {
	shells, ok := r.fullBasis[element]
	if !ok || len(shells) == 0 {
		return &basis.EmptyBasisError{Element: element}
	}
	if len(r.shellMins) < len(shells) {
		return fmt.Errorf("reduce: %d shell minimums given for %d shells", len(r.shellMins), len(shells))
	}
	b[element] = shells
	r.nexps = make([]int, len(shells))
	for i, s := range shells {
		r.nexps[i] = len(s.Exps)
	}
	if r.maxL == -1 {
		r.maxL = len(r.nexps) - 1
	}
	r.reset()
	r.reduction = true
	return nil
}

func (r *Reduce) GetActive(b basis.InternalBasis, element string) []float64 {
	shells := b[element]
	ix, ok := shellIndex(r.step, len(shells))
	if !ok {
		return nil
	}
	return r.pre.Transform(shells[ix].Exps, r.preParams)
}

func (r *Reduce) SetActive(values []float64, b basis.InternalBasis, element string) {
	shells := b[element]
	ix, ok := shellIndex(r.step, len(shells))
	if !ok {
		return
	}
	shells[ix].Exps = r.pre.Inverse(values, r.preParams)
}

func (r *Reduce) Next(b basis.InternalBasis, element string, objective float64) (bool, error) {
	carryOn := true

	// A completed re-optimization sweep arms the next reduction.
	if r.step == r.maxL || !r.reoptAll {
		r.step = -1
		r.reduction = true
	}

	if r.reduction {
		if r.firstRun {
			// Otherwise the first delta would always breach the target.
			r.lastObjective = objective
			r.firstRun = false
		}
		r.deltaObjective = math.Abs(r.lastObjective - objective)
		r.lastObjective = objective

		reducible := false
		for i, n := range r.nexps {
			if n > r.shellMins[i] {
				reducible = true
				break
			}
		}
		carryOn = r.deltaObjective < r.target && reducible

		if carryOn {
			// This state is accepted: snapshot it before the next removal
			// so a later threshold breach can restore it.
			r.savedBasis = r.fullBasis.Copy()
			if err := r.removeLeastImportant(b, element); err != nil {
				return false, err
			}
			r.reduction = false
		}
	}

	if carryOn {
		if r.reoptAll {
			r.step++
		}
		return true, nil
	}

	if r.deltaObjective > r.target {
		slog.Info("Change in objective over target, reverting to basis from last step",
			"element", element, "delta", r.deltaObjective, "target", r.target)
		r.rollback(b, element)
	} else {
		slog.Info("Reached minimum basis size", "element", element)
		if !r.reoptAll {
			// One final optimization pass over every shell.
			slog.Info("Doing one last opt pass", "element", element)
			r.reoptAll = true
			r.step = 0
			r.reduction = false
			return true, nil
		}
	}
	slog.Info("Finished reduction", "element", element)
	return false, nil
}

// removeLeastImportant ranks all removable exponents by leave-one-out
// impact and deletes the one with the globally smallest error.
func (r *Reduce) removeLeastImportant(b basis.InternalBasis, element string) error {
	target := wrapper.NewStructure(element, r.method)
	target.Basis = b

	var shellsToRank []int
	for s := 0; s <= r.maxL; s++ {
		if len(b[element][s].Exps) != 0 && r.nexps[s] > r.shellMins[s] {
			shellsToRank = append(shellsToRank, s)
		}
	}
	errs, ranks, err := RankPrimitives(target, element, shellsToRank, r.evalType, r.params)
	if err != nil {
		return err
	}

	minIx := 0
	for i := 1; i < len(shellsToRank); i++ {
		if errs[i][ranks[i][0]] < errs[minIx][ranks[minIx][0]] {
			minIx = i
		}
	}
	l := shellsToRank[minIx]
	ix := ranks[minIx][0]
	shell := b[element][l]
	removed := shell.Exps[ix]
	if err := shell.RemoveExponent(ix); err != nil {
		return err
	}
	r.nexps[l]--
	slog.Info("Removing exponent", "exponent", removed, "l", l,
		"error", errs[minIx][ranks[minIx][0]])

	if !r.reoptAll {
		// Only the altered shell gets re-optimized.
		r.step = l
	}
	return nil
}

// rollback restores the last accepted snapshot. The snapshot is the sole
// source of truth: per-shell counters are rebuilt from it so no
// partially-applied bookkeeping survives.
func (r *Reduce) rollback(b basis.InternalBasis, element string) {
	if r.savedBasis == nil {
		return
	}
	b[element] = r.savedBasis[element]
	r.fullBasis[element] = r.savedBasis[element]
	for i, s := range b[element] {
		r.nexps[i] = len(s.Exps)
	}
}

func (r *Reduce) ToDict() Dict {
	return Dict{
		Type:           "Reduce",
		Version:        dictVersion,
		EvalType:       r.evalType,
		Params:         r.params,
		Preconditioner: r.pre.Name,
		Step:           r.step,
		LastObjective:  r.lastObjective,
		DeltaObjective: r.deltaObjective,
		FirstRun:       r.firstRun,
		Target:         r.target,
		Method:         r.method,
		ShellMins:      append([]int{}, r.shellMins...),
		MaxL:           r.maxL,
		ReoptAll:       r.reoptAll,
		NExps:          append([]int{}, r.nexps...),
		ReductionStep:  r.reduction,
		FullBasis:      r.fullBasis.Copy(),
		SavedBasis:     r.savedBasis.Copy(),
	}
}
