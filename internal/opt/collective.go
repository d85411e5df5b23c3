package opt

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/strategy"
	"github.com/robashaw/basisopt/internal/wrapper"
)

// OptData describes one atomic basis to optimize within a collective run.
type OptData struct {
	Element   string
	Algorithm string
	Strategy  strategy.Strategy
	Reg       Regularizer
	Params    Params
}

// Runner evaluates one property for a set of independent structures and
// returns the values keyed by structure name. The aggregation over
// results is a commutative sum, so result ordering is irrelevant;
// implementations are free to fan the work out.
type Runner func(evalType string, targets []*wrapper.Structure, params map[string]float64) (map[string][]float64, error)

// SequentialRunner evaluates structures one after another through the
// global backend.
func SequentialRunner(evalType string, targets []*wrapper.Structure, params map[string]float64) (map[string][]float64, error) {
	backend := wrapper.GetBackend()
	out := make(map[string][]float64, len(targets))
	for _, t := range targets {
		if code := backend.Run(evalType, t, params); code != wrapper.RunSuccess {
			return nil, &strategy.FailedCalculationError{EvalType: evalType, Target: t.Name, Code: code}
		}
		out[t.Name] = backend.GetValue(evalType)
	}
	return out, nil
}

// BatchRunner uses the backend's batch evaluation when it offers one and
// falls back to the sequential loop otherwise.
func BatchRunner(evalType string, targets []*wrapper.Structure, params map[string]float64) (map[string][]float64, error) {
	if bw, ok := wrapper.GetBackend().(wrapper.BatchWrapper); ok {
		return bw.RunAll(evalType, targets, params)
	}
	return SequentialRunner(evalType, targets, params)
}

// CollectiveOptimize jointly refines several atomic bases against a set
// of structures sharing one basis. It runs npass passes; within each
// pass, every atom tuple is optimized in order with an objective that
// sums each structure's deviation from its own reference and adds the
// regularizer once per evaluation. Convergence across passes is the
// caller's decision; the pass total is only logged.
func CollectiveOptimize(structures []*wrapper.Structure, b basis.InternalBasis, optData []OptData, npass int, runner Runner) (OptCollection, error) {
	if runner == nil {
		runner = SequentialRunner
	}
	collection := OptCollection{}
	for i := 0; i < npass; i++ {
		slog.Info("Collective pass", "pass", i+1)
		total := 0.0
		ctr := 1
		for _, od := range optData {
			el := strings.ToLower(od.Element)
			strat := od.Strategy
			reg := od.Reg
			if reg == nil {
				reg = NoReg
			}

			objective := func(x []float64) (float64, error) {
				strat.SetActive(x, b, el)
				for _, s := range structures {
					s.Basis = b
				}
				values, err := runner(strat.EvalType(), structures, strat.Params())
				if err != nil {
					return 0, err
				}
				localTotal := 0.0
				for _, s := range structures {
					value, ok := values[s.Name]
					if !ok {
						return 0, fmt.Errorf("runner returned no value for structure %q", s.Name)
					}
					s.AddResult(strat.EvalType()+"_"+el, value)
					ref, _ := s.GetReference(strat.EvalType())
					localTotal += deviation(value, ref)
				}
				return localTotal + reg(x), nil
			}

			if err := strat.Initialise(b, el); err != nil {
				return nil, err
			}
			res, err := AtomicOptimize(b, el, od.Algorithm, strat, od.Params, objective)
			if err != nil {
				return nil, err
			}
			total += strat.LastObjective()
			collection[fmt.Sprintf("pass%d_opt%d", i, ctr)] = res
			ctr++
		}
		slog.Info("Collective objective", "pass", i+1, "total", total)
	}
	return collection, nil
}

// deviation is the Euclidean distance between a value and its reference,
// with a missing or short reference treated as zeros.
func deviation(value, ref []float64) float64 {
	total := 0.0
	for i, v := range value {
		d := v
		if i < len(ref) {
			d -= ref[i]
		}
		total += d * d
	}
	return math.Sqrt(total)
}
