package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robashaw/basisopt/internal/basis"
	"github.com/robashaw/basisopt/internal/wrapper"
)

func twoShellBasis() basis.InternalBasis {
	return basis.InternalBasis{
		"o": {
			basis.NewShell("s", []float64{10.0, 2.0, 0.4}),
			basis.NewShell("p", []float64{5.0, 1.0}),
		},
	}
}

func TestNewDefaultValidatesEvalType(t *testing.T) {
	_, err := NewDefault("energy")
	require.NoError(t, err)

	_, err = NewDefault("hessian")
	assert.ErrorIs(t, err, &wrapper.PropertyNotAvailableError{})
}

func TestDefaultInitialiseEmptyBasis(t *testing.T) {
	d, err := NewDefault("energy")
	require.NoError(t, err)
	err = d.Initialise(basis.InternalBasis{}, "o")
	assert.ErrorIs(t, err, &basis.EmptyBasisError{})
}

func TestDefaultVisitsEachShellOnce(t *testing.T) {
	b := twoShellBasis()
	d, err := NewDefault("energy")
	require.NoError(t, err)
	require.NoError(t, d.Initialise(b, "o"))

	// Before the first step the active vector reads the last shell.
	assert.Equal(t, []float64{5.0, 1.0}, d.GetActive(b, "o"))
	assert.True(t, d.FirstRun())

	steps := 0
	for {
		carryOn, err := d.Next(b, "o", float64(steps))
		require.NoError(t, err)
		if !carryOn {
			break
		}
		steps++
		require.NotEmpty(t, d.GetActive(b, "o"))
	}
	assert.Equal(t, len(b["o"]), steps)
	assert.False(t, d.FirstRun())
}

func TestDefaultSetActiveWritesCurrentShell(t *testing.T) {
	b := twoShellBasis()
	d, err := NewDefault("energy")
	require.NoError(t, err)
	require.NoError(t, d.Initialise(b, "o"))

	carryOn, err := d.Next(b, "o", 1.0)
	require.NoError(t, err)
	require.True(t, carryOn)

	d.SetActive([]float64{20.0, 4.0, 0.8}, b, "o")
	assert.Equal(t, []float64{20.0, 4.0, 0.8}, b["o"][0].Exps)
	assert.Equal(t, []float64{5.0, 1.0}, b["o"][1].Exps)

	// Degenerate values are clamped away by the preconditioner.
	d.SetActive([]float64{-1.0, 4.0, 0.8}, b, "o")
	assert.Greater(t, b["o"][0].Exps[0], 0.0)
}

func TestDefaultObjectiveBookkeeping(t *testing.T) {
	b := twoShellBasis()
	d, err := NewDefault("energy")
	require.NoError(t, err)
	require.NoError(t, d.Initialise(b, "o"))

	_, err = d.Next(b, "o", -2.0)
	require.NoError(t, err)
	assert.Equal(t, -2.0, d.LastObjective())
	assert.Equal(t, 2.0, d.DeltaObjective())

	_, err = d.Next(b, "o", -2.5)
	require.NoError(t, err)
	assert.Equal(t, -2.5, d.LastObjective())
	assert.InDelta(t, 0.5, d.DeltaObjective(), 1e-12)
}
