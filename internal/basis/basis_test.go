package basis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBasis() InternalBasis {
	return InternalBasis{
		"o": {
			NewShell("s", []float64{100.0, 20.0, 4.0}),
			NewShell("p", []float64{5.0, 1.0}),
		},
		"h": {
			NewShell("s", []float64{3.0}),
		},
	}
}

func TestBasisCopyIsDeep(t *testing.T) {
	b := testBasis()
	cp := b.Copy()
	cp["o"][0].Exps[0] = -1.0
	assert.Equal(t, 100.0, b["o"][0].Exps[0])
}

func TestNumPrimitives(t *testing.T) {
	b := testBasis()
	assert.Equal(t, 5, b.NumPrimitives("o"))
	assert.Equal(t, 1, b.NumPrimitives("h"))
	assert.Equal(t, 0, b.NumPrimitives("xx"))
}

func TestUncontract(t *testing.T) {
	b := testBasis()
	b["o"][0].Coefs = [][]float64{{0.2, 0.5, 0.3}}

	out := b.Uncontract([]string{"o"})
	require.Len(t, out["o"][0].Coefs, 3)
	assert.Equal(t, []float64{1, 0, 0}, out["o"][0].Coefs[0])
	// Original is untouched.
	require.Len(t, b["o"][0].Coefs, 1)

	all := b.Uncontract(nil)
	require.Len(t, all["o"][0].Coefs, 3)
	require.Len(t, all["h"][0].Coefs, 1)
}

func TestEmptyBasisErrorIs(t *testing.T) {
	err := &EmptyBasisError{Element: "o"}
	assert.True(t, errors.Is(err, &EmptyBasisError{}))
	assert.Contains(t, err.Error(), "o")
}

func TestAtomicData(t *testing.T) {
	z, err := AtomicNumber("O")
	require.NoError(t, err)
	assert.Equal(t, 8, z)

	_, err = AtomicNumber("og")
	assert.Error(t, err)

	for symbol, want := range map[string]int{"h": 1, "c": 2, "cl": 2, "fe": 3} {
		n, err := MinimalShells(symbol)
		require.NoError(t, err)
		assert.Equal(t, want, n, symbol)
	}
}
