package wrapper

import (
	"fmt"

	"github.com/robashaw/basisopt/internal/basis"
)

// Structure is a calculation target: anything the backend can evaluate a
// property for. It owns a reference to the shared basis under
// optimization, the method to use, and bookkeeping for computed results
// and reference values.
type Structure struct {
	Name   string
	Method string
	Basis  basis.InternalBasis

	charge       int
	multiplicity int

	results    map[string][]float64
	references map[string][]float64
}

// NewStructure creates a structure with a neutral singlet state.
func NewStructure(name, method string) *Structure {
	return &Structure{
		Name:         name,
		Method:       method,
		multiplicity: 1,
		results:      map[string][]float64{},
		references:   map[string][]float64{},
	}
}

// Charge returns the total charge.
func (s *Structure) Charge() int { return s.charge }

// Multiplicity returns the spin multiplicity.
func (s *Structure) Multiplicity() int { return s.multiplicity }

// SetState validates and sets charge and multiplicity together. Invalid
// combinations are rejected with an error; nothing is silently corrected.
func (s *Structure) SetState(charge, multiplicity int, electrons int) error {
	if multiplicity < 1 {
		return &InvalidStateError{Charge: charge, Multiplicity: multiplicity,
			Reason: "multiplicity must be at least 1"}
	}
	n := electrons - charge
	if n < 0 {
		return &InvalidStateError{Charge: charge, Multiplicity: multiplicity,
			Reason: fmt.Sprintf("charge %d exceeds electron count %d", charge, electrons)}
	}
	// n electrons with spin S have multiplicity 2S+1; parity must match.
	if (n+multiplicity)%2 == 0 {
		return &InvalidStateError{Charge: charge, Multiplicity: multiplicity,
			Reason: fmt.Sprintf("multiplicity %d impossible for %d electrons", multiplicity, n)}
	}
	s.charge = charge
	s.multiplicity = multiplicity
	return nil
}

// AddResult records a computed value for an evaluation type, overwriting
// any previous value under the same name.
func (s *Structure) AddResult(name string, value []float64) {
	s.results[name] = append([]float64{}, value...)
}

// GetResult returns the last recorded value for an evaluation type.
func (s *Structure) GetResult(name string) ([]float64, bool) {
	v, ok := s.results[name]
	return v, ok
}

// SetReference stores the reference value deviations are measured
// against.
func (s *Structure) SetReference(name string, value []float64) {
	s.references[name] = append([]float64{}, value...)
}

// GetReference returns the stored reference value for an evaluation type.
func (s *Structure) GetReference(name string) ([]float64, bool) {
	v, ok := s.references[name]
	return v, ok
}

// GetDelta returns the elementwise difference between the last result and
// the reference for an evaluation type. A missing reference counts as
// zero.
func (s *Structure) GetDelta(name string) ([]float64, error) {
	res, ok := s.results[name]
	if !ok {
		return nil, fmt.Errorf("no result recorded for %q on %s", name, s.Name)
	}
	ref := s.references[name]
	out := make([]float64, len(res))
	for i, v := range res {
		out[i] = v
		if i < len(ref) {
			out[i] -= ref[i]
		}
	}
	return out, nil
}

// InvalidStateError reports a rejected charge/multiplicity combination.
type InvalidStateError struct {
	Charge       int
	Multiplicity int
	Reason       string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid electronic state (charge %d, multiplicity %d): %s",
		e.Charge, e.Multiplicity, e.Reason)
}

func (e *InvalidStateError) Is(target error) bool {
	_, ok := target.(*InvalidStateError)
	return ok
}
