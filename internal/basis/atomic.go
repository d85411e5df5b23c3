package basis

import (
	"fmt"
	"strings"
)

// element holds the per-element data the engine needs: the atomic number
// and the number of distinct angular momentum types occupied in the
// ground-state configuration. The latter sets the minimum shell count a
// basis for that element must carry.
type element struct {
	z         int
	minShells int
}

var elements = map[string]element{
	"h": {1, 1}, "he": {2, 1},
	"li": {3, 1}, "be": {4, 1},
	"b": {5, 2}, "c": {6, 2}, "n": {7, 2}, "o": {8, 2}, "f": {9, 2}, "ne": {10, 2},
	"na": {11, 2}, "mg": {12, 2},
	"al": {13, 2}, "si": {14, 2}, "p": {15, 2}, "s": {16, 2}, "cl": {17, 2}, "ar": {18, 2},
	"k": {19, 2}, "ca": {20, 2},
	"sc": {21, 3}, "ti": {22, 3}, "v": {23, 3}, "cr": {24, 3}, "mn": {25, 3},
	"fe": {26, 3}, "co": {27, 3}, "ni": {28, 3}, "cu": {29, 3}, "zn": {30, 3},
	"ga": {31, 3}, "ge": {32, 3}, "as": {33, 3}, "se": {34, 3}, "br": {35, 3}, "kr": {36, 3},
	"rb": {37, 3}, "sr": {38, 3},
	"y": {39, 3}, "zr": {40, 3}, "nb": {41, 3}, "mo": {42, 3}, "tc": {43, 3},
	"ru": {44, 3}, "rh": {45, 3}, "pd": {46, 3}, "ag": {47, 3}, "cd": {48, 3},
	"in": {49, 3}, "sn": {50, 3}, "sb": {51, 3}, "te": {52, 3}, "i": {53, 3}, "xe": {54, 3},
}

// AtomicNumber returns the nuclear charge of an element symbol.
func AtomicNumber(symbol string) (int, error) {
	el, ok := elements[strings.ToLower(symbol)]
	if !ok {
		return 0, fmt.Errorf("unknown element %q", symbol)
	}
	return el.z, nil
}

// MinimalShells returns the number of angular momentum shells occupied in
// the ground-state configuration of an element, the floor for any basis
// describing it.
func MinimalShells(symbol string) (int, error) {
	el, ok := elements[strings.ToLower(symbol)]
	if !ok {
		return 0, fmt.Errorf("unknown element %q", symbol)
	}
	return el.minShells, nil
}
