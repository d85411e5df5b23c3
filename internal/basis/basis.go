package basis

// InternalBasis maps a lowercase element symbol to its shells, ordered by
// increasing angular momentum. The optimization engine mutates a basis in
// place during evaluation; callers that need a stable view must take a
// Copy first.
type InternalBasis map[string][]*Shell

// Copy returns a deep copy of the basis.
func (b InternalBasis) Copy() InternalBasis {
	out := make(InternalBasis, len(b))
	for el, shells := range b {
		cp := make([]*Shell, len(shells))
		for i, s := range shells {
			cp[i] = s.Copy()
		}
		out[el] = cp
	}
	return out
}

// NumPrimitives returns the total exponent count across all shells of an
// element, or zero if the element has no entry.
func (b InternalBasis) NumPrimitives(element string) int {
	total := 0
	for _, s := range b[element] {
		total += len(s.Exps)
	}
	return total
}

// Uncontract returns a new basis with every shell of the given elements
// uncontracted. A nil element list uncontracts everything.
func (b InternalBasis) Uncontract(elements []string) InternalBasis {
	if elements == nil {
		for el := range b {
			elements = append(elements, el)
		}
	}
	out := b.Copy()
	for _, el := range elements {
		for _, s := range out[el] {
			s.Uncontract()
		}
	}
	return out
}

// EmptyBasisError reports an element with no usable shells.
type EmptyBasisError struct {
	Element string
}

func (e *EmptyBasisError) Error() string {
	return "no basis functions for element " + e.Element
}

func (e *EmptyBasisError) Is(target error) bool {
	_, ok := target.(*EmptyBasisError)
	return ok
}
