package basis

import (
	"fmt"
	"sort"
)

// amLabels orders the angular momentum labels by their quantum number.
var amLabels = []string{"s", "p", "d", "f", "g", "h", "i", "j", "k", "l"}

var amValues = func() map[string]int {
	m := make(map[string]int, len(amLabels))
	for v, l := range amLabels {
		m[l] = v
	}
	return m
}()

// AMValue returns the angular momentum quantum number for a shell label.
func AMValue(label string) (int, error) {
	v, ok := amValues[label]
	if !ok {
		return 0, fmt.Errorf("unknown angular momentum label %q", label)
	}
	return v, nil
}

// AMLabel returns the shell label for an angular momentum quantum number.
func AMLabel(value int) (string, error) {
	if value < 0 || value >= len(amLabels) {
		return "", fmt.Errorf("angular momentum %d out of range", value)
	}
	return amLabels[value], nil
}

// Shell is a lightweight container for one angular momentum block of a
// basis set: its exponents and the contraction coefficients over them.
// Every coefficient vector must have the same length as Exps.
type Shell struct {
	L     string      `json:"l"`
	Exps  []float64   `json:"exps"`
	Coefs [][]float64 `json:"coefs,omitempty"`
}

// NewShell creates an uncontracted shell with the given exponents.
func NewShell(l string, exps []float64) *Shell {
	s := &Shell{L: l, Exps: append([]float64{}, exps...)}
	s.Uncontract()
	return s
}

// Uncontract overwrites any contraction with the one-hot pattern: one
// coefficient vector per exponent, each selecting a single primitive.
func (s *Shell) Uncontract() {
	n := len(s.Exps)
	s.Coefs = make([][]float64, n)
	for i := 0; i < n; i++ {
		c := make([]float64, n)
		c[i] = 1.0
		s.Coefs[i] = c
	}
}

// Copy returns a deep copy of the shell.
func (s *Shell) Copy() *Shell {
	out := &Shell{L: s.L, Exps: append([]float64{}, s.Exps...)}
	out.Coefs = make([][]float64, len(s.Coefs))
	for i, c := range s.Coefs {
		out.Coefs[i] = append([]float64{}, c...)
	}
	return out
}

// RemoveExponent drops the primitive at index ix and restores the
// uncontracted coefficient pattern over the remaining exponents.
func (s *Shell) RemoveExponent(ix int) error {
	if ix < 0 || ix >= len(s.Exps) {
		return fmt.Errorf("exponent index %d out of range for shell %s (%d primitives)", ix, s.L, len(s.Exps))
	}
	s.Exps = append(s.Exps[:ix], s.Exps[ix+1:]...)
	s.Uncontract()
	return nil
}

// ETParams describes one shell of an even-tempered expansion: exponents
// are generated as Start*Ratio^k for k = 0..N-1.
type ETParams struct {
	Start float64 `json:"start"`
	Ratio float64 `json:"ratio"`
	N     int     `json:"n"`
}

// EvenTemperExpansion expands per-shell even-tempered parameters into a
// list of uncontracted shells in ascending angular momentum order.
func EvenTemperExpansion(params []ETParams) []*Shell {
	shells := make([]*Shell, 0, len(params))
	for ix, p := range params {
		label, _ := AMLabel(ix)
		exps := make([]float64, p.N)
		x := p.Start
		for k := 0; k < p.N; k++ {
			exps[k] = x
			x *= p.Ratio
		}
		shells = append(shells, NewShell(label, exps))
	}
	return shells
}

// FixRatio sorts the exponents ascending and enforces a minimum ratio
// between consecutive values, nudging upward where needed.
func FixRatio(exps []float64, ratio float64) []float64 {
	out := append([]float64{}, exps...)
	sort.Float64s(out)
	for i := 0; i+1 < len(out); i++ {
		if out[i+1]/out[i] < ratio {
			out[i+1] = out[i] * ratio
		}
	}
	return out
}
