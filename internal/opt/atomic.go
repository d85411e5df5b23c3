package opt

import (
	"fmt"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/strategy"
	"github.com/robashaw/basisopt/internal/wrapper"
)

// AtomicOptimize drives one strategy to exhaustion for a single element.
// The objective is evaluated once at the strategy's initial active
// vector; then, while the strategy reports more steps, the active vector
// is minimized, the optimum written back, and the achieved loss fed into
// the next step decision. Steps with an empty active vector skip the
// minimizer entirely. Any evaluation failure aborts the whole loop.
func AtomicOptimize(b basis.InternalBasis, element, algorithm string, strat strategy.Strategy, p Params, objective Objective) (*OptResult, error) {
	slog.Info("Starting optimization", "element", element, "evalType", strat.EvalType(),
		"algorithm", algorithm, "strategy", strat.Name())

	objectiveValue, err := objective(strat.GetActive(b, element))
	if err != nil {
		return nil, fmt.Errorf("initial evaluation for %s: %w", element, err)
	}
	slog.Info("Initial objective value", "value", objectiveValue)

	optimizer, err := New(algorithm, p)
	if err != nil {
		return nil, err
	}

	results := NewOptResult()
	ctr := 1
	for {
		next, err := strat.Next(b, element, objectiveValue)
		if err != nil {
			return nil, fmt.Errorf("advancing %s strategy for %s: %w", strat.Name(), element, err)
		}
		if !next {
			break
		}
		guess := strat.GetActive(b, element)
		if len(guess) == 0 {
			slog.Info("Skipping empty shell", "element", element)
			continue
		}
		res, err := optimizer.Run(objective, guess)
		if err != nil {
			return nil, fmt.Errorf("optimizing %s step %d: %w", element, ctr, err)
		}
		strat.SetActive(res.X, b, element)
		slog.Info("Step complete", "step", ctr, "objective", res.Fun,
			"delta", res.Fun-strat.LastObjective())
		objectiveValue = res.Fun
		results.Add(fmt.Sprintf("atomicopt%d", ctr), res)
		ctr++
	}
	return results, nil
}

// Optimize runs a strategy for one element of a single structure, with
// the canonical objective: write the candidate exponents, run the
// backend, and return the norm of the deviation from the structure's
// reference plus the regularization term.
func Optimize(target *wrapper.Structure, element, algorithm string, strat strategy.Strategy, reg Regularizer, p Params) (*OptResult, error) {
	backend := wrapper.GetBackend()
	if element == "" {
		for el := range target.Basis {
			element = el
			break
		}
	}
	element = strings.ToLower(element)
	b := target.Basis

	objective := func(x []float64) (float64, error) {
		strat.SetActive(x, b, element)
		if code := backend.Run(strat.EvalType(), target, strat.Params()); code != wrapper.RunSuccess {
			return 0, &strategy.FailedCalculationError{
				EvalType: strat.EvalType(), Target: target.Name, Code: code,
			}
		}
		target.AddResult(strat.EvalType(), backend.GetValue(strat.EvalType()))
		delta, err := target.GetDelta(strat.EvalType())
		if err != nil {
			return 0, err
		}
		return floats.Norm(delta, 2) + reg(x), nil
	}

	if err := strat.Initialise(b, element); err != nil {
		return nil, err
	}
	return AtomicOptimize(b, element, algorithm, strat, p, objective)
}
