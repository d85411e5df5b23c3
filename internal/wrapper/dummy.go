package wrapper

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// Closed-form dummy methods, evaluated over the total of the target's
// basis exponents.
func dummyLinear(x, a float64) float64    { return a * x }
func dummyExp(x, a float64) float64       { return a * math.Exp(a*x) }
func dummyQuadratic(x, a float64) float64 { return 1 + a*x*(1+a*x) }
func dummyUniform(_, a float64) float64   { return a }

var dummyMethods = map[string]func(x, a float64) float64{
	"linear":    dummyLinear,
	"exp":       dummyExp,
	"quadratic": dummyQuadratic,
	"uniform":   dummyUniform,
}

// Dummy is a backend that cannot do real chemistry. It exists so the
// engine can run without an external program installed: results are
// deterministic closed-form functions of the basis exponents, which makes
// it the test backend and the default at startup.
type Dummy struct {
	table  CapabilityTable
	values map[string][]float64
}

// NewDummy creates the dummy backend with its fixed capability table.
func NewDummy() *Dummy {
	return &Dummy{
		table: CapabilityTable{
			"linear":    {"energy", "dipole", "quadrupole", "polarizability"},
			"exp":       {"energy", "dipole"},
			"quadratic": {"energy"},
			"uniform":   {"energy", "dipole", "quadrupole"},
		},
		values: map[string][]float64{},
	}
}

func (d *Dummy) Name() string { return "Dummy" }

// Run evaluates the closed-form method over the summed basis exponents of
// the target. The scale factor is taken from params["a"], defaulting to 1.
func (d *Dummy) Run(evaluate string, target *Structure, params map[string]float64) int {
	fn, ok := dummyMethods[target.Method]
	if !ok || !d.table.Supports(target.Method, evaluate) {
		return RunMethodUnavailable
	}
	if target.Basis == nil {
		return RunFailed
	}
	a := 1.0
	if v, ok := params["a"]; ok {
		a = v
	}
	x := 0.0
	for _, shells := range target.Basis {
		for _, s := range shells {
			for _, e := range s.Exps {
				x += e
			}
		}
	}
	d.values[evaluate] = []float64{fn(x, a)}
	return RunSuccess
}

// RunAll evaluates all targets concurrently. The dummy methods are pure,
// so each goroutine computes its value independently and only the shared
// value table is updated afterwards.
func (d *Dummy) RunAll(evaluate string, targets []*Structure, params map[string]float64) (map[string][]float64, error) {
	results := make([]float64, len(targets))
	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			fn, ok := dummyMethods[t.Method]
			if !ok || !d.table.Supports(t.Method, evaluate) {
				return &PropertyNotAvailableError{Property: t.Method + "." + evaluate, Backend: d.Name()}
			}
			a := 1.0
			if v, ok := params["a"]; ok {
				a = v
			}
			x := 0.0
			for _, shells := range t.Basis {
				for _, s := range shells {
					for _, e := range s.Exps {
						x += e
					}
				}
			}
			results[i] = fn(x, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string][]float64, len(targets))
	for i, t := range targets {
		out[t.Name] = []float64{results[i]}
	}
	return out, nil
}

func (d *Dummy) GetValue(evaluate string) []float64 {
	return d.values[evaluate]
}

func (d *Dummy) IsAvailable(method, evaluate string) bool {
	return d.table.Supports(method, evaluate)
}

func (d *Dummy) AllAvailable() []string {
	return d.table.EvalTypes()
}

func (d *Dummy) AvailableProperties(method string) []string {
	return append([]string{}, d.table[method]...)
}
