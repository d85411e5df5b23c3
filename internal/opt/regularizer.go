package opt

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Regularizer adds a penalty on the raw parameter vector, applied once
// per objective evaluation.
type Regularizer func(x []float64) float64

// NoReg applies no penalty.
func NoReg(_ []float64) float64 { return 0 }

// L1Norm penalizes the sum of absolute values.
func L1Norm(x []float64) float64 {
	total := 0.0
	for _, v := range x {
		total += math.Abs(v)
	}
	return total
}

// L2Norm penalizes the Euclidean norm.
func L2Norm(x []float64) float64 {
	return floats.Norm(x, 2)
}

// LInfNorm penalizes the largest absolute value.
func LInfNorm(x []float64) float64 {
	return floats.Norm(x, math.Inf(1))
}

// RegularizerByName looks up a regularizer by name; empty means none.
func RegularizerByName(name string) (Regularizer, bool) {
	switch name {
	case "", "none":
		return NoReg, true
	case "l1":
		return L1Norm, true
	case "l2":
		return L2Norm, true
	case "linf":
		return LInfNorm, true
	}
	return nil, false
}
