// Package precond provides the pure parameter transforms applied before
// exponents are handed to a numerical minimizer, and their inverses.
package precond

import (
	"fmt"
	"math"
)

// Params carries every tunable a transform may need. Transforms hold no
// state of their own; the caller passes parameters explicitly each time.
type Params struct {
	MinVal float64 // floor for make-positive and logistic
	Ratio  float64 // escalation ratio for make-positive
	MaxVal float64 // range for logistic
	Alpha  float64 // steepness for logistic
	X0     float64 // midpoint for logistic
}

// DefaultParams returns the parameter set used when a strategy does not
// override them.
func DefaultParams() Params {
	return Params{MinVal: 1e-4, Ratio: 1.4, MaxVal: 1e5, Alpha: 1.0, X0: 0.0}
}

// Func maps a parameter vector into (or out of) the constrained search
// space. Implementations must not modify the input slice.
type Func func(x []float64, p Params) []float64

// Preconditioner pairs a transform with its declared inverse, such that
// Inverse(Transform(x)) == x for x in the transform's valid domain.
type Preconditioner struct {
	Name      string
	Transform Func
	Inverse   Func
}

// Unit is the identity preconditioner.
var Unit = Preconditioner{
	Name:      "unit",
	Transform: func(x []float64, _ Params) []float64 { return append([]float64{}, x...) },
	Inverse:   func(y []float64, _ Params) []float64 { return append([]float64{}, y...) },
}

func makePositive(x []float64, p Params) []float64 {
	out := append([]float64{}, x...)
	floor := p.MinVal
	for i, v := range out {
		if v < floor {
			out[i] = floor
			floor *= p.Ratio
		}
	}
	return out
}

// MakePositive replaces every value below MinVal with an increasing
// MinVal*Ratio^n sequence, preserving relative order. It is its own
// inverse on the valid domain (all values already above the floor).
var MakePositive = Preconditioner{
	Name:      "positive",
	Transform: makePositive,
	Inverse:   makePositive,
}

// Logistic squashes parameters into (MinVal, MinVal+MaxVal) with a
// logistic curve; the inverse is closed-form.
var Logistic = Preconditioner{
	Name: "logistic",
	Transform: func(x []float64, p Params) []float64 {
		out := make([]float64, len(x))
		for i, v := range x {
			y := 1.0 + math.Exp(-p.Alpha*(v-p.X0))
			out[i] = p.MinVal + p.MaxVal/y
		}
		return out
	},
	Inverse: func(y []float64, p Params) []float64 {
		out := make([]float64, len(y))
		for i, v := range y {
			x := (v - p.MinVal) / p.MaxVal
			x = 1.0/x - 1.0
			out[i] = -math.Log(x)/p.Alpha + p.X0
		}
		return out
	},
}

// ByName looks up a preconditioner by its registered name.
func ByName(name string) (Preconditioner, error) {
	switch name {
	case "unit", "":
		return Unit, nil
	case "positive":
		return MakePositive, nil
	case "logistic":
		return Logistic, nil
	}
	return Preconditioner{}, fmt.Errorf("unknown preconditioner %q", name)
}
